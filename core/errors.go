package core

import "github.com/pkg/errors"

// FieldError is a form error attached to one input, keyed by its JSON name.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a client mistake that is answered with 400.
// Fields, when set, are rendered as a field->message map; Err alone is rendered as {"error": ...}.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (ve ValidationError) Error() string {
	switch {
	case ve.Err != nil:
		return ve.Err.Error()
	case len(ve.Fields) > 0:
		return ve.Fields[0].Field + ": " + ve.Fields[0].Error
	default:
		return ""
	}
}

// unrecoverableError marks a failure that no later request can get past, such as an unmigrated schema.
type unrecoverableError struct {
	reason string
}

func (e *unrecoverableError) Error() string { return e.reason }

// NewShutdownError returns an error that stops the API server gracefully once it reaches the error handler.
func NewShutdownError(reason string) error {
	return &unrecoverableError{reason: reason}
}

// IsShutdown reports whether the root cause of err was built by NewShutdownError.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*unrecoverableError)
	return ok
}
