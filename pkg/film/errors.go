package film

import (
	"errors"
	"fmt"
)

// ErrorType classifies engine failures. IsType matches errors by their
// ErrorType.
type ErrorType string

const (
	// ErrInvalidInput covers nil or missing projects and unparseable input.
	ErrInvalidInput ErrorType = "invalid_input"
	// ErrPathNotFound covers nonexistent or non-directory paths.
	ErrPathNotFound ErrorType = "path_not_found"
	// ErrDirectoryRead covers filesystem access failures during
	// initialization or document enumeration.
	ErrDirectoryRead ErrorType = "directory_read_failed"
	// ErrStore covers database open/prepare/step/commit failures.
	ErrStore ErrorType = "store"
	// ErrSchema covers DDL failures on first open.
	ErrSchema ErrorType = "schema"
	// ErrAllocation covers roll creation and segment placement failures.
	ErrAllocation ErrorType = "allocation"
	// ErrFilmNumber covers film number generation failures.
	ErrFilmNumber ErrorType = "film_number"
)

// Error associates an error with an ErrorType.
type Error struct {
	Type ErrorType
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Type)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError returns a new Error initialized with the given arguments.
func NewError(errType ErrorType, err error) *Error {
	return &Error{Type: errType, Err: err}
}

// NewErrorf returns a new Error wrapping a formatted message.
func NewErrorf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: errType, Err: fmt.Errorf(format, args...)}
}

// IsType reports whether err or any error it wraps carries the given type.
func IsType(err error, errType ErrorType) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Type == errType {
			return true
		}
		err = e.Err
	}
	return false
}
