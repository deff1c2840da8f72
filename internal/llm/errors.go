package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// FailureKind classifies why a generation call failed.
type FailureKind string

const (
	// FailureTimeout means the call exceeded its deadline
	FailureTimeout FailureKind = "timeout"
	// FailureUnavailable means the service could not be reached or refused the call
	FailureUnavailable FailureKind = "unavailable"
	// FailureBadResponse means the service answered with nothing usable
	FailureBadResponse FailureKind = "bad_response"
)

// CallError represents a failed call to the generative service
type CallError struct {
	Kind    FailureKind
	Message string
	Cause   error
}

func (e *CallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("LLM call failed (%s): %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("LLM call failed (%s): %s", e.Kind, e.Message)
}

func (e *CallError) Unwrap() error {
	return e.Cause
}

// KindOf returns the FailureKind carried by err. Errors that did not come from
// a provider call are reported as FailureUnavailable.
func KindOf(err error) FailureKind {
	var callErr *CallError
	if errors.As(err, &callErr) {
		return callErr.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	return FailureUnavailable
}

// classify wraps a provider error in a CallError, deciding its kind from the
// context state and the error's concrete type.
func classify(ctx context.Context, err error, message string) *CallError {
	kind := FailureUnavailable

	var netErr net.Error
	var apiErr *openai.APIError
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		kind = FailureTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = FailureTimeout
	case errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusRequestTimeout:
		kind = FailureTimeout
	}

	return &CallError{Kind: kind, Message: message, Cause: err}
}
