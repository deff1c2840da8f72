package analysis

import (
	"errors"
	"fmt"

	"github.com/jonathan/internship-matcher/internal/llm"
)

// Kind classifies why a skills-gap analysis could not be produced.
type Kind string

// Analysis failure kinds.
const (
	KindInvalidResume      Kind = "InvalidResume"
	KindInvalidJob         Kind = "InvalidJob"
	KindServiceUnavailable Kind = "ServiceUnavailable"
	KindInvalidResponse    Kind = "InvalidResponse"
	KindTimeout            Kind = "Timeout"
)

// Error represents a failed analysis
type Error struct {
	Kind  Kind
	Hint  string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("skills analysis failed (%s): %s: %v", e.Kind, e.Hint, e.Cause)
	}
	return fmt.Sprintf("skills analysis failed (%s): %s", e.Kind, e.Hint)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the same inputs may succeed on another attempt.
func (e *Error) Retryable() bool {
	return e.Kind == KindServiceUnavailable || e.Kind == KindTimeout
}

// KindOf returns the Kind of an analysis error anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var analysisErr *Error
	if errors.As(err, &analysisErr) {
		return analysisErr.Kind, true
	}
	return "", false
}

func fromCallError(err error) *Error {
	switch llm.KindOf(err) {
	case llm.FailureTimeout:
		return &Error{Kind: KindTimeout, Hint: "The analysis service timed out. Please try again.", Cause: err}
	case llm.FailureBadResponse:
		return &Error{Kind: KindInvalidResponse, Hint: "The analysis service returned an unusable response. Please try again.", Cause: err}
	default:
		return &Error{Kind: KindServiceUnavailable, Hint: "The analysis service is unavailable. Please try again later.", Cause: err}
	}
}

func invalidResponse(cause error) *Error {
	return &Error{
		Kind:  KindInvalidResponse,
		Hint:  "The analysis service returned data in an unexpected shape. Please try again.",
		Cause: cause,
	}
}
