package extraction

import (
	"errors"
	"fmt"
)

// Kind classifies why a document could not be turned into text.
type Kind string

// Extraction failure kinds.
const (
	KindInvalidFormat     Kind = "InvalidFormat"
	KindEncrypted         Kind = "Encrypted"
	KindEmpty             Kind = "Empty"
	KindNoExtractableText Kind = "NoExtractableText"
	KindTooShort          Kind = "TooShort"
	KindUnreadable        Kind = "Unreadable"
)

// Sentinel faults a Backend may return (wrapped) so the Extractor can classify them.
var (
	ErrEncrypted = errors.New("document is encrypted")
	ErrNoPages   = errors.New("document has no pages")
)

// Error is a classified extraction failure. Hint is safe to show to the user;
// Cause carries the underlying fault for diagnostics.
type Error struct {
	Kind  Kind
	Hint  string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed (%s): %s: %v", e.Kind, e.Hint, e.Cause)
	}
	return fmt.Sprintf("extraction failed (%s): %s", e.Kind, e.Hint)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable is always false: extraction failures are properties of the document.
func (e *Error) Retryable() bool {
	return false
}

func newError(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Hint: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf returns the Kind of an extraction error anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var extractErr *Error
	if errors.As(err, &extractErr) {
		return extractErr.Kind, true
	}
	return "", false
}
