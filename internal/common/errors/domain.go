package commonerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCategory string

const (
	CategoryValidation   ErrorCategory = "VALIDATION"
	CategoryAuth         ErrorCategory = "AUTH"
	CategoryNotFound     ErrorCategory = "NOT_FOUND"
	CategoryConflict     ErrorCategory = "CONFLICT"
	CategoryUnauthorized ErrorCategory = "UNAUTHORIZED"
	CategoryForbidden    ErrorCategory = "FORBIDDEN"
	CategoryInternal     ErrorCategory = "INTERNAL"
	CategoryExternal     ErrorCategory = "EXTERNAL"
)

type DomainError interface {
	error
	Code() string
	Category() ErrorCategory
	HTTPStatus() int
	Message() string
	TraceID() string
	Details() map[string]any
	Unwrap() error
	Is(target error) bool
	WithCause(cause error) DomainError
	WithTraceID(traceID string) DomainError
	WithDetails(details map[string]any) DomainError
}

type domainError struct {
	code     string
	category ErrorCategory
	status   int
	message  string
	traceID  string
	details  map[string]any
	cause    error
}

func (e *domainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *domainError) Code() string {
	return e.code
}

func (e *domainError) Category() ErrorCategory {
	return e.category
}

func (e *domainError) HTTPStatus() int {
	return e.status
}

func (e *domainError) Message() string {
	return e.message
}

func (e *domainError) TraceID() string {
	return e.traceID
}

func (e *domainError) Details() map[string]any {
	return e.details
}

func (e *domainError) Unwrap() error {
	return e.cause
}

// Is matches any domain error carrying the same code, so errors.Is keeps
// working after WithCause, WithTraceID or WithDetails produced a copy.
func (e *domainError) Is(target error) bool {
	var de DomainError
	if !errors.As(target, &de) {
		return false
	}
	return de.Code() == e.code
}

func (e *domainError) clone() *domainError {
	c := *e
	return &c
}

func (e *domainError) WithCause(cause error) DomainError {
	c := e.clone()
	c.cause = cause
	return c
}

func (e *domainError) WithTraceID(traceID string) DomainError {
	c := e.clone()
	c.traceID = traceID
	return c
}

func (e *domainError) WithDetails(details map[string]any) DomainError {
	c := e.clone()
	c.details = details
	return c
}

func NewDomainError(code string, category ErrorCategory, status int, message string) DomainError {
	return &domainError{
		code:     code,
		category: category,
		status:   status,
		message:  message,
	}
}

func IsDomainError(err error) bool {
	var de DomainError
	return errors.As(err, &de)
}

func AsDomainError(err error) (DomainError, bool) {
	var de DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

var (
	ErrMissingRequiredEnv = NewDomainError(
		"MISSING_REQUIRED_ENV",
		CategoryValidation,
		http.StatusInternalServerError,
		"missing required environment variable",
	)

	ErrInvalidTokenSecret = NewDomainError(
		"INVALID_TOKEN_SECRET",
		CategoryValidation,
		http.StatusInternalServerError,
		"token secrets must be at least 32 bytes and distinct",
	)

	ErrInvalidToken = NewDomainError(
		"INVALID_TOKEN",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"token is not valid",
	)

	ErrUnauthenticated = NewDomainError(
		"UNAUTHENTICATED",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"authentication required",
	)

	ErrForbidden = NewDomainError(
		"FORBIDDEN",
		CategoryForbidden,
		http.StatusForbidden,
		"access denied",
	)

	ErrInvalidJSON = NewDomainError(
		"INVALID_JSON",
		CategoryValidation,
		http.StatusBadRequest,
		"invalid json",
	)

	ErrValidation = NewDomainError(
		"VALIDATION_FAILED",
		CategoryValidation,
		http.StatusBadRequest,
		"validation failed",
	)

	ErrInvalidID = NewDomainError(
		"INVALID_ID",
		CategoryValidation,
		http.StatusBadRequest,
		"invalid id",
	)

	ErrUserNotFound = NewDomainError(
		"USER_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"user not found",
	)

	ErrJobNotFound = NewDomainError(
		"JOB_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"job not found",
	)

	ErrApplicationNotFound = NewDomainError(
		"APPLICATION_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"application not found",
	)

	ErrStorageFailure = NewDomainError(
		"STORAGE_FAILURE",
		CategoryInternal,
		http.StatusInternalServerError,
		"internal server error",
	)

	ErrInternalError = NewDomainError(
		"INTERNAL_ERROR",
		CategoryInternal,
		http.StatusInternalServerError,
		"internal server error",
	)
)
