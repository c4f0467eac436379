package domain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownProvider indicates a provider id outside the supported set.
	ErrUnknownProvider = errors.New("unknown provider")

	// Request errors.

	// ErrInvalidQuery indicates an empty or whitespace-only query.
	ErrInvalidQuery = errors.New("query must not be empty")

	// ErrQueryTooLong indicates a query over MaxQueryLength characters.
	ErrQueryTooLong = errors.New("query exceeds maximum length")

	// ErrUnauthenticated indicates a missing or invalid session.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrMissingMandatoryCredential indicates the identity-anchor provider is not connected.
	// The request cannot proceed and retrying will not help.
	ErrMissingMandatoryCredential = errors.New("mandatory provider credential missing")

	// ErrNoProviders indicates no adapter could be constructed for the user.
	ErrNoProviders = errors.New("no connected providers")

	// AI errors.

	// ErrAIUnavailable indicates the AI service could not be reached or is disabled.
	ErrAIUnavailable = errors.New("AI service unavailable")

	// ErrMalformedAIResponse indicates the AI service answered with unusable output.
	ErrMalformedAIResponse = errors.New("malformed AI response")

	// Provider errors. Each is the sentinel for one ProviderErrorClass.

	// ErrAuthExpired indicates the provider rejected the access secret.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrTransport indicates a network or server-side failure.
	ErrTransport = errors.New("transport error")

	// ErrDeadline indicates the call did not settle in time.
	ErrDeadline = errors.New("deadline exceeded")

	// ErrMalformedPayload indicates the provider returned an undecodable payload.
	ErrMalformedPayload = errors.New("malformed provider payload")

	// ErrProviderUnhealthy indicates the provider was skipped because it is unhealthy.
	ErrProviderUnhealthy = errors.New("provider unhealthy")

	// ErrMalformedMetadata indicates a credential bundle lacks provider-specific metadata.
	ErrMalformedMetadata = errors.New("malformed credential metadata")
)

// ErrorKind classifies errors at the request boundary.
type ErrorKind string

// Error kinds.
const (
	KindValidation     ErrorKind = "validation"
	KindAuthentication ErrorKind = "authentication"
	KindIntegration    ErrorKind = "integration"
	KindAIService      ErrorKind = "ai_service"
	KindInternal       ErrorKind = "internal"
)

// KindOf classifies err.
func KindOf(err error) ErrorKind {
	var perr *ProviderError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidQuery), errors.Is(err, ErrQueryTooLong),
		errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNoProviders),
		errors.Is(err, ErrUnknownProvider):
		return KindValidation
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrMissingMandatoryCredential):
		return KindAuthentication
	case errors.As(err, &perr):
		return KindIntegration
	case errors.Is(err, ErrAIUnavailable), errors.Is(err, ErrMalformedAIResponse):
		return KindAIService
	default:
		return KindInternal
	}
}

// HTTPStatus maps err to the status code returned at the request boundary.
// A missing mandatory credential is an authentication problem but is
// reported as 400 because the client must connect a provider first.
func HTTPStatus(err error) int {
	if errors.Is(err, ErrMissingMandatoryCredential) {
		return http.StatusBadRequest
	}
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindIntegration:
		return http.StatusBadGateway
	case KindAIService:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorCode returns a stable machine-readable code for err.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidQuery):
		return "INVALID_QUERY"
	case errors.Is(err, ErrQueryTooLong):
		return "QUERY_TOO_LONG"
	case errors.Is(err, ErrUnauthenticated):
		return "UNAUTHENTICATED"
	case errors.Is(err, ErrMissingMandatoryCredential):
		return "MISSING_MANDATORY_CREDENTIAL"
	case errors.Is(err, ErrNoProviders):
		return "NO_PROVIDERS"
	case errors.Is(err, ErrUnknownProvider):
		return "UNKNOWN_PROVIDER"
	case errors.Is(err, ErrInvalidInput):
		return "INVALID_INPUT"
	}
	return "INTERNAL_ERROR"
}

// ProviderErrorClass distinguishes why a provider call failed.
type ProviderErrorClass string

// Provider error classes.
const (
	ClassAuthExpired ProviderErrorClass = "auth_expired"
	ClassRateLimited ProviderErrorClass = "rate_limited"
	ClassTransport   ProviderErrorClass = "transport"
	ClassTimeout     ProviderErrorClass = "timeout"
	ClassMalformed   ProviderErrorClass = "malformed"
	ClassUnhealthy   ProviderErrorClass = "unhealthy"
	ClassUnknown     ProviderErrorClass = "unknown"
)

func (c ProviderErrorClass) sentinel() error {
	switch c {
	case ClassAuthExpired:
		return ErrAuthExpired
	case ClassRateLimited:
		return ErrRateLimited
	case ClassTransport:
		return ErrTransport
	case ClassTimeout:
		return ErrDeadline
	case ClassMalformed:
		return ErrMalformedPayload
	case ClassUnhealthy:
		return ErrProviderUnhealthy
	default:
		return nil
	}
}

// ProviderError is returned by adapters for any failed provider call.
type ProviderError struct {
	Provider ProviderID
	Op       string
	Class    ProviderErrorClass
	Err      error
}

// NewProviderError wraps err for provider p, deriving the class from err.
func NewProviderError(p ProviderID, op string, err error) *ProviderError {
	var existing *ProviderError
	if errors.As(err, &existing) {
		return &ProviderError{Provider: p, Op: op, Class: existing.Class, Err: existing.Err}
	}
	return &ProviderError{Provider: p, Op: op, Class: ClassifyProviderError(err), Err: err}
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %s", e.Provider, e.Op, e.Class)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel that corresponds to the error class.
func (e *ProviderError) Is(target error) bool {
	s := e.Class.sentinel()
	return s != nil && target == s
}

// ClassifyProviderError maps err onto a ProviderErrorClass using the sentinels.
func ClassifyProviderError(err error) ProviderErrorClass {
	var perr *ProviderError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &perr):
		return perr.Class
	case errors.Is(err, ErrAuthExpired):
		return ClassAuthExpired
	case errors.Is(err, ErrRateLimited):
		return ClassRateLimited
	case errors.Is(err, ErrDeadline), errors.Is(err, context.DeadlineExceeded):
		return ClassTimeout
	case errors.Is(err, ErrMalformedPayload):
		return ClassMalformed
	case errors.Is(err, ErrProviderUnhealthy):
		return ClassUnhealthy
	case errors.Is(err, ErrTransport):
		return ClassTransport
	default:
		return ClassUnknown
	}
}
