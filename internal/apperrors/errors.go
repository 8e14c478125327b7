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

// ErrUnbalanced indicates that a transaction's debit and credit sums differ.
var ErrUnbalanced = errors.New("transaction entries are not balanced")

// ErrFiscalYearClosed indicates an attempt to post to a fiscal year that has been closed.
var ErrFiscalYearClosed = errors.New("fiscal year is closed")

// ErrAlreadyClosed indicates an attempt to close a fiscal year a second time.
var ErrAlreadyClosed = errors.New("fiscal year is already closed")

// ErrOverlap indicates that a fiscal year span overlaps an existing one for the organisation.
var ErrOverlap = errors.New("fiscal year span overlaps an existing fiscal year")

// ErrForbidden indicates that the caller is not allowed to perform the operation.
var ErrForbidden = errors.New("operation not allowed")

// AppError wraps lower-level failures (store, internal) with a status code for the HTTP layer.
type AppError struct {
	Code    int
	Message string
	Err     error
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

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that unwraps to ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
