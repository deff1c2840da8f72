package parsing

import (
	"errors"
	"fmt"

	"github.com/jonathan/internship-matcher/internal/llm"
)

// Kind classifies why a resume could not be structured.
type Kind string

// Parsing failure kinds.
const (
	KindEmptyInput         Kind = "EmptyInput"
	KindServiceUnavailable Kind = "ServiceUnavailable"
	KindInvalidResponse    Kind = "InvalidResponse"
	KindTimeout            Kind = "Timeout"
)

// Error represents a failed resume extraction
type Error struct {
	Kind  Kind
	Hint  string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("resume parsing failed (%s): %s: %v", e.Kind, e.Hint, e.Cause)
	}
	return fmt.Sprintf("resume parsing failed (%s): %s", e.Kind, e.Hint)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the same input may succeed on another attempt.
func (e *Error) Retryable() bool {
	return e.Kind == KindServiceUnavailable || e.Kind == KindTimeout
}

// KindOf returns the Kind of a parsing error anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var parseErr *Error
	if errors.As(err, &parseErr) {
		return parseErr.Kind, true
	}
	return "", false
}

// fromCallError maps an LLM client failure onto the parsing kinds
func fromCallError(err error) *Error {
	switch llm.KindOf(err) {
	case llm.FailureTimeout:
		return &Error{Kind: KindTimeout, Hint: "The resume parsing service timed out. Please try again.", Cause: err}
	case llm.FailureBadResponse:
		return &Error{Kind: KindInvalidResponse, Hint: "The resume parsing service returned an unusable response. Please try again.", Cause: err}
	default:
		return &Error{Kind: KindServiceUnavailable, Hint: "The resume parsing service is unavailable. Please try again later.", Cause: err}
	}
}
