// Package apperror is the error taxonomy shared by services and transports.
package apperror

import (
	"errors"
	"fmt"
)

// Type classifies an AppError; transports map it to a status code.
type Type string

const (
	TypeInvalidInput Type = "INVALID_INPUT"
	TypeUnauthorized Type = "UNAUTHORIZED"
	TypeForbidden    Type = "FORBIDDEN"
	TypeNotFound     Type = "NOT_FOUND"
	TypeConflict     Type = "CONFLICT"
	TypeInternal     Type = "INTERNAL"
)

// AppError carries a client-safe message and an optional internal cause.
type AppError struct {
	Type    Type
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func InvalidInput(message string) *AppError {
	return &AppError{Type: TypeInvalidInput, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Type: TypeUnauthorized, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Type: TypeForbidden, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Type: TypeNotFound, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Type: TypeConflict, Message: message}
}

func Internal(message string, err error) *AppError {
	return &AppError{Type: TypeInternal, Message: message, Err: err}
}

// TypeOf returns the type of the first AppError in err's chain, or
// TypeInternal for anything unclassified.
func TypeOf(err error) Type {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return TypeInternal
}

// Is reports whether err carries an AppError of type t.
func Is(err error, t Type) bool {
	return err != nil && TypeOf(err) == t
}
