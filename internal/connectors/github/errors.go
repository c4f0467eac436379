package github

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/sercha-federated/internal/connectors/rest"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// RateLimitError is returned when the search quota for a token is spent.
type RateLimitError struct {
	Quota Quota
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: search quota spent (%d/%d), resets at %s",
		e.Quota.Remaining, e.Quota.Limit, e.Quota.ResetAt.Format(time.RFC3339))
}

func (e *RateLimitError) Unwrap() error { return domain.ErrRateLimited }

// APIError is a non-2xx GitHub response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("github: %d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("github: %d %s (%s)", e.StatusCode, e.Message, e.URL)
}

// Unwrap maps the status onto a provider error sentinel.
func (e *APIError) Unwrap() error { return rest.StatusSentinel(e.StatusCode) }

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether GitHub rejected the token.
func IsUnauthorized(err error) bool { return statusOf(err) == http.StatusUnauthorized }

// IsNotFound reports a 404, which GitHub also returns for private resources
// the token cannot see.
func IsNotFound(err error) bool { return statusOf(err) == http.StatusNotFound }

// IsRateLimited reports whether err came from a spent quota.
func IsRateLimited(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}
