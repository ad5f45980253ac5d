package watch

import (
	"errors"
	"fmt"
)

// ErrorKind is a stable, human-readable failure category. Digest blocks show
// the kind label rather than a runtime type name so the wording survives
// refactors.
type ErrorKind string

// Failure categories surfaced to operators.
const (
	// KindRetrieval means every retrieval tier was exhausted for a target.
	KindRetrieval ErrorKind = "RetrievalError"
	// KindTransport means digest delivery failed; it aborts the run.
	KindTransport ErrorKind = "TransportError"
)

// Error tags an underlying failure with its category.
type Error struct {
	Kind ErrorKind
	Err  error
}

// NewError wraps err under the given kind.
func NewError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap exposes the underlying error to errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Classify splits an error into its kind and bare message. Untagged errors
// fall back to the given kind.
func Classify(err error, fallback ErrorKind) (ErrorKind, string) {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind, we.Err.Error()
	}
	return fallback, err.Error()
}
