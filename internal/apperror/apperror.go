// Package apperror defines the domain error taxonomy shared by services
// and handlers. Handlers map the sentinel errors to HTTP status codes.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
)

type AppError struct {
	Err     error  // sentinel category
	Message string // human-readable, safe to return to the caller
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func InvalidInput(message string) *AppError {
	return &AppError{Err: ErrInvalidInput, Message: message}
}

func Unauthenticated(message string) *AppError {
	return &AppError{Err: ErrUnauthenticated, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Err: ErrForbidden, Message: message}
}

func NotFound(resource string, id int64) *AppError {
	return &AppError{Err: ErrNotFound, Message: fmt.Sprintf("%s %d not found", resource, id)}
}

func InvalidTransition(message string) *AppError {
	return &AppError{Err: ErrInvalidTransition, Message: message}
}
