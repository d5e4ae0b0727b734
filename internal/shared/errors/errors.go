// Package errors carries the typed application errors that response.Error
// maps onto HTTP statuses.
package errors

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrorTypeNotFound         ErrorType = "not_found"
	ErrorTypeValidation       ErrorType = "validation"
	ErrorTypeConflict         ErrorType = "conflict"
	ErrorTypeUnauthorized     ErrorType = "unauthorized"
	ErrorTypeForbidden        ErrorType = "forbidden"
	ErrorTypeInternal         ErrorType = "internal"
	ErrorTypeMethodNotAllowed ErrorType = "method_not_allowed"
	// ErrorTypeExternal marks a failing backing service (database, cache).
	ErrorTypeExternal ErrorType = "external"
	// ErrorTypeTooManyRequests covers both the rate limiter and the session cap.
	ErrorTypeTooManyRequests ErrorType = "too_many_requests"
)

type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newf(t ErrorType, format string, args ...any) error {
	return &AppError{Type: t, Message: fmt.Sprintf(format, args...)}
}

func wrap(t ErrorType, message string, err error) error {
	return &AppError{Type: t, Message: message, Err: err}
}

func NotFoundf(format string, args ...any) error {
	return newf(ErrorTypeNotFound, format, args...)
}

func Validation(message string) error {
	return &AppError{Type: ErrorTypeValidation, Message: message}
}

func Validationf(format string, args ...any) error {
	return newf(ErrorTypeValidation, format, args...)
}

func WrapValidation(message string, err error) error {
	return wrap(ErrorTypeValidation, message, err)
}

func Conflictf(format string, args ...any) error {
	return newf(ErrorTypeConflict, format, args...)
}

func Unauthorized(message string) error {
	return &AppError{Type: ErrorTypeUnauthorized, Message: message}
}

func Forbidden(message string) error {
	return &AppError{Type: ErrorTypeForbidden, Message: message}
}

func TooManyRequestsf(format string, args ...any) error {
	return newf(ErrorTypeTooManyRequests, format, args...)
}

func MethodNotAllowed(method string) error {
	return newf(ErrorTypeMethodNotAllowed, "method %s not allowed", method)
}

func WrapInternal(message string, err error) error {
	return wrap(ErrorTypeInternal, message, err)
}

func WrapExternal(message string, err error) error {
	return wrap(ErrorTypeExternal, message, err)
}

// GetType reports the type of the first AppError in err's chain. Anything
// else is internal.
func GetType(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}
