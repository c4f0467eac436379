package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// StatusError is a non-2xx response from a provider API.
type StatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http %d", e.StatusCode)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Body)
}

// Unwrap returns the domain sentinel for the status code so that
// domain.ClassifyProviderError can classify it.
func (e *StatusError) Unwrap() error {
	return StatusSentinel(e.StatusCode)
}

// StatusSentinel maps an HTTP status onto a provider error sentinel.
// 401 and 403 mean the access secret is no longer accepted, 429 is a rate
// limit and everything else is a transport failure.
func StatusSentinel(code int) error {
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return domain.ErrAuthExpired
	case code == http.StatusTooManyRequests:
		return domain.ErrRateLimited
	case code == http.StatusRequestTimeout, code == http.StatusGatewayTimeout:
		return domain.ErrDeadline
	default:
		return domain.ErrTransport
	}
}

// DecodeError is returned when a 2xx body cannot be decoded.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "decode response: " + e.Err.Error()
}

// Unwrap returns domain.ErrMalformedPayload.
func (e *DecodeError) Unwrap() []error {
	return []error{domain.ErrMalformedPayload, e.Err}
}

// Classify converts any client error into a *domain.ProviderError.
// Errors that already carry a provider sentinel keep their class; anything
// else is treated as a transport failure.
func Classify(p domain.ProviderID, op string, err error) error {
	if err == nil {
		return nil
	}
	var perr *domain.ProviderError
	if errors.As(err, &perr) {
		return err
	}
	switch {
	case domain.ClassifyProviderError(err) != domain.ClassUnknown:
		return domain.NewProviderError(p, op, err)
	case errors.Is(err, context.Canceled):
		return domain.NewProviderError(p, op, err)
	default:
		return domain.NewProviderError(p, op, fmt.Errorf("%w: %w", domain.ErrTransport, err))
	}
}

// FromStatus builds a classified provider error from a status code. SDK
// based connectors use it with a StatusRecorder when the SDK's own error
// types do not expose the status.
func FromStatus(p domain.ProviderID, op string, code int, err error) error {
	if code < 400 {
		return Classify(p, op, err)
	}
	serr := &StatusError{StatusCode: code}
	if err != nil {
		serr.Body = err.Error()
	}
	return domain.NewProviderError(p, op, serr)
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		return time.Until(at)
	}
	return 0
}
