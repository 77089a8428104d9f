package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrPermission   = errors.New("permission denied")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal server error")
	ErrUnauthorized = errors.New("unauthorized")
)

// Code is the machine readable kind of an error, stable across releases so
// clients can branch on it.
type Code string

const (
	CodeNotFound     Code = "NOT_FOUND"
	CodeForbidden    Code = "FORBIDDEN"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeConflict     Code = "CONFLICT"
	CodeInternal     Code = "INTERNAL"
	CodeUnauthorized Code = "UNAUTHORIZED"
)

type kind struct {
	base   error
	code   Code
	status int
}

var kinds = []kind{
	{ErrNotFound, CodeNotFound, http.StatusNotFound},
	{ErrInvalidInput, CodeInvalidInput, http.StatusBadRequest},
	{ErrUnauthorized, CodeUnauthorized, http.StatusUnauthorized},
	{ErrPermission, CodeForbidden, http.StatusForbidden},
	{ErrConflict, CodeConflict, http.StatusConflict},
}

func kindOf(err error) kind {
	for _, k := range kinds {
		if errors.Is(err, k.base) {
			return k
		}
	}
	return kind{ErrInternal, CodeInternal, http.StatusInternalServerError}
}

// AppError carries a sentinel base for errors.Is, a message that is safe to
// show, and the cause for logs. Field names the input that was rejected.
type AppError struct {
	BaseError error
	Message   string
	Details   string
	Field     string
	Err       error
}

func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.BaseError, e.Message)
	if e.Field != "" {
		msg += fmt.Sprintf(" [field %s]", e.Field)
	}
	if e.Details != "" {
		msg += fmt.Sprintf(" (Details: %s)", e.Details)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap exposes the base sentinel so errors.Is(err, ErrNotFound) works
// through any number of fmt.Errorf wraps.
func (e *AppError) Unwrap() error {
	return e.BaseError
}

func (e *AppError) Code() Code {
	return kindOf(e.BaseError).code
}

func NewAppError(base error, msg, details string, err error) *AppError {
	return &AppError{BaseError: base, Message: msg, Details: details, Err: err}
}

func NewNotFound(resource, identifier string) *AppError {
	return NewAppError(ErrNotFound,
		resource+" not found",
		fmt.Sprintf("%s with identifier '%s' was not found", resource, identifier),
		nil)
}

func NewInvalidInput(details string, err error) *AppError {
	return NewAppError(ErrInvalidInput, "Invalid input provided", details, err)
}

// NewInvalidField rejects a value written to one named field.
func NewInvalidField(field, details string, err error) *AppError {
	appErr := NewAppError(ErrInvalidInput, "Invalid field", details, err)
	appErr.Field = field
	return appErr
}

func NewConflict(resource, field, value string) *AppError {
	appErr := NewAppError(ErrConflict,
		resource+" conflict",
		fmt.Sprintf("%s with %s '%s' already exists", resource, field, value),
		nil)
	appErr.Field = field
	return appErr
}

func NewInternal(details string, err error) *AppError {
	return NewAppError(ErrInternal, "An internal server error occurred", details, err)
}

func NewUnauthorized(details string, err error) *AppError {
	return NewAppError(ErrUnauthorized, "Invalid credentials", details, err)
}

func NewPermissionDenied(details string) *AppError {
	return NewAppError(ErrPermission, "Permission denied", details, nil)
}

// From returns err as an *AppError, wrapping anything else as internal.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternal("unexpected error", err)
}

func IsCode(err error, code Code) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code() == code
}

func ToHTTPStatus(err error) int {
	return kindOf(err).status
}

// ToJSON renders the client body. Internal details never leave the server.
func (e *AppError) ToJSON() gin.H {
	code := e.Code()
	body := gin.H{
		"error":   e.BaseError.Error(),
		"code":    code,
		"message": e.Message,
	}
	if e.Field != "" {
		body["field"] = e.Field
	}
	if e.Details != "" && code != CodeInternal {
		body["details"] = e.Details
	}
	return body
}
