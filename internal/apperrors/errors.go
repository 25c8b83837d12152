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

// ErrConstraintViolation indicates that a business rule would be broken by the operation.
var ErrConstraintViolation = errors.New("constraint violation")

// ErrImbalancedEntry indicates that a journal entry's debits and credits differ.
var ErrImbalancedEntry = fmt.Errorf("%w: journal entry debits and credits do not balance", ErrConstraintViolation)

// ErrInactiveAccount indicates that an inactive account was referenced by a posting.
var ErrInactiveAccount = fmt.Errorf("%w: account is inactive", ErrConstraintViolation)

// ErrInvalidStateTransition indicates that a journal entry is not in a state that allows the action.
var ErrInvalidStateTransition = errors.New("invalid state transition")

// ErrUnauthorized indicates that the actor lacks the privilege required for the operation.
var ErrUnauthorized = errors.New("actor is not authorized for this operation")

// ErrInternal indicates an unexpected infrastructure failure.
var ErrInternal = errors.New("internal error")

// AppError carries a status-like code and message around an underlying cause.
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

// Unwrap lets errors.Is/As reach the cause. A nil cause unwraps to ErrInternal.
func (e *AppError) Unwrap() error {
	if e.Err == nil {
		return ErrInternal
	}
	return e.Err
}
