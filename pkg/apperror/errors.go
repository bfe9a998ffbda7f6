package apperror

import (
	"errors"
	"net/http"
	"strings"
)

// Kind classifies an error independently of the transport that reports it
type Kind string

const (
	KindUnauthenticated    Kind = "unauthenticated"
	KindInvalidArgument    Kind = "invalid-argument"
	KindNotFound           Kind = "not-found"
	KindFailedPrecondition Kind = "failed-precondition"
	KindResourceExhausted  Kind = "resource-exhausted"
	KindInternal           Kind = "internal"
)

// HTTPStatus returns the status code a kind is reported with
func (k Kind) HTTPStatus() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindFailedPrecondition:
		return http.StatusConflict
	case KindResourceExhausted:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// AppError represents an application error with its kind and HTTP status code
type AppError struct {
	Kind    Kind         `json:"kind"`
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	cause   error
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// New creates an error of the given kind
func New(kind Kind, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    kind.HTTPStatus(),
		Message: message,
	}
}

// NewInvalidArgument reports every violation together. The message joins them with "; ".
func NewInvalidArgument(fieldErrors []FieldError) *AppError {
	parts := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		parts = append(parts, fe.String())
	}
	err := New(KindInvalidArgument, strings.Join(parts, "; "))
	err.Errors = fieldErrors
	return err
}

// NewBadRequestError creates an invalid-argument error without field details
func NewBadRequestError(message string) *AppError {
	return New(KindInvalidArgument, message)
}

// NewNotFoundError creates a not found error for the named resource
func NewNotFoundError(resource string) *AppError {
	return New(KindNotFound, resource+" not found")
}

// NewFailedPrecondition creates an error for an operation that would break an invariant
func NewFailedPrecondition(message string) *AppError {
	return New(KindFailedPrecondition, message)
}

// NewUnauthenticated creates an error for a caller without identity
func NewUnauthenticated(message string) *AppError {
	return New(KindUnauthenticated, message)
}

// Internal wraps an unexpected error, keeping its message for diagnostics
func Internal(err error) *AppError {
	e := New(KindInternal, err.Error())
	e.cause = err
	return e
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError, treating unknown errors as internal
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// KindOf returns the kind of err, or KindInternal for foreign errors
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return GetAppError(err).Kind
}
