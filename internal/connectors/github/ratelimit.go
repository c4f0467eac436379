package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/sercha-federated/internal/ratelimit"
)

// Response headers GitHub uses to report quota.
const (
	HeaderRateLimit     = "X-RateLimit-Limit"
	HeaderRateRemaining = "X-RateLimit-Remaining"
	HeaderRateReset     = "X-RateLimit-Reset"
	HeaderRetryAfter    = "Retry-After"
)

const (
	// searchQuota is the authenticated code and issue search allowance per minute.
	searchQuota = 30

	// searchBurst lets a short run of searches through without waiting.
	searchBurst = 5

	// reserve is the number of remaining calls below which new searches
	// are refused until the window resets.
	reserve = 2
)

// Quota is the last quota state GitHub reported.
type Quota struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// exhausted reports whether the quota is spent at now.
func (q Quota) exhausted(now time.Time) bool {
	return q.Remaining < reserve && now.Before(q.ResetAt)
}

// RateLimiter paces searches for one token. A search has to settle within
// the caller's deadline, so a spent quota fails fast with a RateLimitError
// rather than sleeping until the reset.
type RateLimiter struct {
	mu     sync.Mutex
	quota  Quota
	bucket *rate.Limiter
}

// NewRateLimiter returns a limiter that assumes a full search quota.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		quota:  Quota{Limit: searchQuota, Remaining: searchQuota},
		bucket: rate.NewLimiter(rate.Every(time.Minute/searchQuota), searchBurst),
	}
}

// LimiterFor returns the registered limiter for a user's token.
func LimiterFor(reg *ratelimit.Registry, userID string) *RateLimiter {
	return ratelimit.Lookup(reg, "github/"+userID, NewRateLimiter)
}

// Wait blocks until the bucket admits a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if q := r.Quota(); q.exhausted(time.Now()) {
		return &RateLimitError{Quota: q}
	}
	return r.bucket.Wait(ctx)
}

// UpdateFromResponse records the quota headers of resp.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}
	h := resp.Header

	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := headerInt(h, HeaderRateLimit); ok {
		r.quota.Limit = int(v)
	}
	if v, ok := headerInt(h, HeaderRateRemaining); ok {
		r.quota.Remaining = int(v)
	}
	if v, ok := headerInt(h, HeaderRateReset); ok {
		r.quota.ResetAt = time.Unix(v, 0)
	}
	// Secondary limits send Retry-After without quota headers.
	if v, ok := headerInt(h, HeaderRetryAfter); ok {
		r.quota.Remaining = 0
		r.quota.ResetAt = time.Now().Add(time.Duration(v) * time.Second)
	}
}

// Quota returns a copy of the current quota state.
func (r *RateLimiter) Quota() Quota {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quota
}

func (r *RateLimiter) Remaining() int       { return r.Quota().Remaining }
func (r *RateLimiter) Limit() int           { return r.Quota().Limit }
func (r *RateLimiter) ResetTime() time.Time { return r.Quota().ResetAt }

func headerInt(h http.Header, name string) (int64, bool) {
	s := h.Get(name)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	return v, err == nil
}
