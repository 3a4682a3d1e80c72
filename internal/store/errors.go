package store

import "fmt"

// Error is a storage error with a stable kind for callers to branch on.
type Error struct {
	Kind    string // Stable machine-readable kind
	Message string // User-facing message
	Err     error  // Underlying error (optional)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Kind, so sentinel comparisons work
// through wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Kind == t.Kind
}

// WithMessage returns a new error with a custom message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{
		Kind:    e.Kind,
		Message: msg,
		Err:     e.Err,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Kind:    e.Kind,
		Message: e.Message,
		Err:     err,
	}
}

// Sentinel errors.
var (
	ErrNotFound = &Error{
		Kind:    "not_found",
		Message: "record not found",
	}

	ErrAlreadyExists = &Error{
		Kind:    "already_exists",
		Message: "record already exists",
	}

	ErrInvalidInput = &Error{
		Kind:    "invalid_input",
		Message: "invalid input",
	}

	ErrSchemaVersion = &Error{
		Kind:    "schema_version",
		Message: "incompatible schema version",
	}
)
