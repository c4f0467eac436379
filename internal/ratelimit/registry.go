// Package ratelimit keeps provider rate limiters alive between requests
// without letting them accumulate for every user ever seen.
package ratelimit

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// DefaultCapacity bounds the number of live limiters.
	DefaultCapacity = 10000

	// DefaultIdleTTL is how long an unused limiter is kept.
	DefaultIdleTTL = 10 * time.Minute
)

// Registry holds limiters keyed by provider and token owner. An entry is
// dropped once it has not been looked up for the idle TTL, or when the
// registry is full and it is the least recently used.
//
// A nil *Registry is valid: every lookup then builds a fresh limiter.
type Registry struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, any]
}

// NewRegistry creates a registry. Non-positive arguments select the defaults.
func NewRegistry(capacity int, idleTTL time.Duration) *Registry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Registry{cache: expirable.NewLRU[string, any](capacity, nil, idleTTL)}
}

// Len returns the number of live limiters.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return r.cache.Len()
}

// Purge drops every limiter.
func (r *Registry) Purge() {
	if r == nil {
		return
	}
	r.cache.Purge()
}

// Lookup returns the limiter stored under key, creating it on first use.
// Every hit restarts the entry's idle timer.
func Lookup[T any](r *Registry, key string, create func() T) T {
	if r == nil {
		return create()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.cache.Get(key); ok {
		if l, ok := v.(T); ok {
			r.cache.Add(key, v)
			return l
		}
	}
	l := create()
	r.cache.Add(key, l)
	return l
}
