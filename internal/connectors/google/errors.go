package google

import (
	"errors"
	"net/http"
	"slices"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/sercha-federated/internal/connectors/rest"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// ErrRateLimited is returned by RateLimiter.Wait while a backoff window is open.
var ErrRateLimited = errors.New("google: rate limit backoff")

// quotaReasons are the error reasons Google attaches to a 403 that is
// really a per-user quota limit.
var quotaReasons = []string{"rateLimitExceeded", "userRateLimitExceeded"}

func apiError(err error) *googleapi.Error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr
	}
	return nil
}

// IsRateLimited reports a 429, a quota 403 or an open backoff window.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	gerr := apiError(err)
	if gerr == nil {
		return false
	}
	if gerr.Code == http.StatusTooManyRequests {
		return true
	}
	return gerr.Code == http.StatusForbidden && slices.ContainsFunc(gerr.Errors, func(item googleapi.ErrorItem) bool {
		return slices.Contains(quotaReasons, item.Reason)
	})
}

// WrapError classifies a Google API error as a provider error. Quota 403s
// are rate limits; any other 401 or 403 means the grant no longer works.
func WrapError(p domain.ProviderID, op string, err error) error {
	if err == nil {
		return nil
	}
	if IsRateLimited(err) {
		return domain.NewProviderError(p, op, errors.Join(domain.ErrRateLimited, err))
	}
	if gerr := apiError(err); gerr != nil {
		return rest.FromStatus(p, op, gerr.Code, err)
	}
	return rest.Classify(p, op, err)
}
