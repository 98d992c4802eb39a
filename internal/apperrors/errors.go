package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidState indicates that the resource is in a state that does not allow the requested transition.
var ErrInvalidState = errors.New("invalid state")

// ErrDataIntegrity indicates that stored or supplied values violate a domain invariant
// (negative money components, mixed short interpretations, etc.).
var ErrDataIntegrity = errors.New("data integrity violation")

// ErrConflict indicates a concurrent modification or a lock that could not be acquired.
var ErrConflict = errors.New("conflict")

// ErrInternal is returned when an infrastructure failure should not leak its details.
var ErrInternal = errors.New("internal error")

// AppError wraps an infrastructure error with a status-like code and a message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}
