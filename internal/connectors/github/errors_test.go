package github

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

func TestAPIError_Classification(t *testing.T) {
	tests := []struct {
		status int
		class  domain.ProviderErrorClass
	}{
		{http.StatusUnauthorized, domain.ClassAuthExpired},
		{http.StatusTooManyRequests, domain.ClassRateLimited},
		{http.StatusNotFound, domain.ClassTransport},
	}
	for _, tt := range tests {
		err := fmt.Errorf("search: %w", &APIError{StatusCode: tt.status, Message: "x"})
		assert.Equal(t, tt.class, domain.ClassifyProviderError(err), tt.status)
	}
}

func TestAPIError_Predicates(t *testing.T) {
	notFound := &APIError{StatusCode: http.StatusNotFound, Message: "Not Found"}
	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsUnauthorized(notFound))
	assert.False(t, IsNotFound(fmt.Errorf("plain")))
	assert.Equal(t, "github: 404 Not Found", notFound.Error())
}

func TestRateLimitError(t *testing.T) {
	reset := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	err := &RateLimitError{Quota: Quota{Limit: 30, Remaining: 0, ResetAt: reset}}

	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.True(t, IsRateLimited(err))
	assert.Contains(t, err.Error(), "(0/30)")
	assert.Contains(t, err.Error(), "2030-01-01T00:00:00Z")
}

func TestRateLimiter_Exhausted(t *testing.T) {
	rl := NewRateLimiter()
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateRemaining, "1")
	resp.Header.Set(HeaderRateReset, fmt.Sprint(time.Now().Add(time.Hour).Unix()))
	rl.UpdateFromResponse(resp)

	assert.True(t, rl.Quota().exhausted(time.Now()))
	assert.False(t, rl.Quota().exhausted(time.Now().Add(2*time.Hour)))
}
