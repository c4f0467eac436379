package google

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/sercha-federated/internal/ratelimit"
)

// ServiceType names the Google API a limiter paces.
type ServiceType string

const (
	ServiceGmail    ServiceType = "gmail"
	ServiceDrive    ServiceType = "drive"
	ServiceCalendar ServiceType = "calendar"
)

// RateLimitConfig is a token-bucket budget.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultRateLimits are per-user budgets well below Google's quotas. A Gmail
// search is one list call plus one get per hit, hence its larger burst.
var DefaultRateLimits = map[ServiceType]RateLimitConfig{
	ServiceGmail:    {RequestsPerSecond: 10, BurstSize: 25},
	ServiceDrive:    {RequestsPerSecond: 8, BurstSize: 10},
	ServiceCalendar: {RequestsPerSecond: 5, BurstSize: 10},
}

var fallbackLimit = RateLimitConfig{RequestsPerSecond: 5, BurstSize: 10}

// defaultBackoff applies when a 429 carries no Retry-After.
const defaultBackoff = 30 * time.Second

// RateLimiter is a token bucket that also refuses requests for a while
// after Google reports a rate limit.
type RateLimiter struct {
	bucket *rate.Limiter

	mu      sync.Mutex
	retryAt time.Time
}

// NewRateLimiter uses the default budget for service.
func NewRateLimiter(service ServiceType) *RateLimiter {
	cfg, ok := DefaultRateLimits[service]
	if !ok {
		cfg = fallbackLimit
	}
	return NewRateLimiterWithConfig(cfg)
}

func NewRateLimiterWithConfig(cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{bucket: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize)}
}

func (r *RateLimiter) backingOff(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return now.Before(r.retryAt)
}

// Wait blocks for a token. During a backoff window it returns
// ErrRateLimited at once instead of sleeping past the caller's deadline.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r.backingOff(time.Now()) {
		return ErrRateLimited
	}
	return r.bucket.Wait(ctx)
}

// RecordRateLimitError opens a backoff window of retryAfter, or
// defaultBackoff when retryAfter is not positive.
func (r *RateLimiter) RecordRateLimitError(retryAfter time.Duration) {
	if retryAfter <= 0 {
		retryAfter = defaultBackoff
	}
	r.mu.Lock()
	r.retryAt = time.Now().Add(retryAfter)
	r.mu.Unlock()
}

// LimiterFor returns the registered limiter for one user's use of a
// service. Adapters are built per request, so the bucket and any backoff
// window outlive them.
func LimiterFor(reg *ratelimit.Registry, service ServiceType, userID string) *RateLimiter {
	return ratelimit.Lookup(reg, "google/"+string(service)+"/"+userID, func() *RateLimiter {
		return NewRateLimiter(service)
	})
}
