package errors

import (
	"errors"
	"fmt"
)

// Status classes replace HTTP status codes: this module has no
// transport layer, but callers still need to distinguish "bad input"
// from "nothing to work with" from "ran but left something unresolved".
const (
	StatusInvalid      = "invalid"
	StatusEmpty        = "empty"
	StatusUnresolvable = "unresolvable"
	StatusInternal     = "internal"
)

// Error represents a typed domain error.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code, status, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code, status, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors covering the taxonomy this module raises.
var (
	ErrCatalogueEmpty         = New("CATALOGUE_EMPTY", StatusEmpty, "catalogue has no schedulable courses")
	ErrInvalidParameter       = New("INVALID_PARAMETER", StatusInvalid, "invalid generation parameter")
	ErrUnresolvableConstraint = New("UNRESOLVABLE_CONSTRAINT", StatusUnresolvable, "one or more hard conflicts could not be resolved")
	ErrInternal               = New("INTERNAL_ERROR", StatusInternal, "internal error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, err.Error())
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
