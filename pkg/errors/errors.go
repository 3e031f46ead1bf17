package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrValidation   = errors.New("validation failed")
	ErrInvalidState = errors.New("operation not permitted in current state")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// FieldError describes a problem with a single input field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Fields  []FieldError
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeInvalidState = "INVALID_STATE"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeDatabase     = "DATABASE_ERROR"
	ErrCodeStorage      = "STORAGE_ERROR"
	ErrCodeCache        = "CACHE_ERROR"
)

// Code returns the stable code carried by err, or "" when err is not a BusinessError.
func Code(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

func WrapValidation(message string, fields ...FieldError) *BusinessError {
	e := NewBusinessError(ErrCodeValidation, message, ErrValidation)
	e.Fields = fields
	return e
}

func WrapInvalidState(message string) *BusinessError {
	return NewBusinessError(ErrCodeInvalidState, message, ErrInvalidState)
}

func WrapConflict(message string) *BusinessError {
	return NewBusinessError(ErrCodeConflict, message, ErrConflict)
}

func WrapNotFound(entity, id string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("%s with ID %s not found", entity, id),
		ErrNotFound,
	)
}

func WrapUnauthorized(message string) *BusinessError {
	return NewBusinessError(ErrCodeUnauthorized, message, ErrUnauthorized)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabase,
		"database operation failed",
		err,
	)
}

func WrapStorageError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeStorage,
		"file storage operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCache,
		"Cache operation failed",
		err,
	)
}
