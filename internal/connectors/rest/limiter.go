package rest

import (
	"golang.org/x/time/rate"

	"github.com/custodia-labs/sercha-federated/internal/ratelimit"
)

// SharedLimiter returns the limiter registered under key, creating it with
// r and burst on first use. Provider quotas are per token, so adapters key
// limiters by provider and user.
func SharedLimiter(reg *ratelimit.Registry, key string, r rate.Limit, burst int) *rate.Limiter {
	return ratelimit.Lookup(reg, key, func() *rate.Limiter {
		return rate.NewLimiter(r, burst)
	})
}
