package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

var providersGS = []domain.ProviderID{domain.ProviderGmail, domain.ProviderSlack}

func TestQueryProcessor_UsesAIResult(t *testing.T) {
	ai := &mockAI{processed: &domain.ProcessedQuery{
		Query:  "budget planning 2024",
		Intent: &domain.Intent{Type: "find", Category: "finance", Confidence: 1.7},
	}}
	history := &mockHistory{recent: []string{"q3 forecast", "invoice", "hiring"}}
	p := NewQueryProcessor(ai, history, time.Second, 2)

	got := p.Process(context.Background(), "  budget planning ", "u1", "org1", providersGS)

	assert.Equal(t, "budget planning 2024", got.Query)
	assert.True(t, got.Rewritten)
	require.NotNil(t, got.Intent)
	assert.Equal(t, "finance", got.Intent.Category)
	assert.Equal(t, 1.0, got.Intent.Confidence)

	assert.Equal(t, "u1", ai.lastContext.UserID)
	assert.Equal(t, "org1", ai.lastContext.OrganizationID)
	assert.Equal(t, []string{"q3 forecast", "invoice"}, ai.lastContext.RecentSearches)
	assert.Equal(t, providersGS, ai.lastContext.ActiveProviders)
	assert.Equal(t, int32(1), ai.processN.Load())
}

func TestQueryProcessor_FallbackOnAIError(t *testing.T) {
	ai := &mockAI{processErr: domain.ErrAIUnavailable}
	p := NewQueryProcessor(ai, nil, time.Second, 5)

	got := p.Process(context.Background(), "  budget planning  ", "u1", "", providersGS)

	assert.Equal(t, "budget planning", got.Query)
	assert.Nil(t, got.Intent)
	assert.False(t, got.Rewritten)
	assert.Equal(t, int32(1), ai.processN.Load(), "no retries")
}

func TestQueryProcessor_FallbackOnTimeout(t *testing.T) {
	ai := &mockAI{block: true}
	p := NewQueryProcessor(ai, nil, 20*time.Millisecond, 5)

	start := time.Now()
	got := p.Process(context.Background(), "budget ", "u1", "", providersGS)

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, "budget", got.Query)
	assert.Nil(t, got.Intent)
}

func TestQueryProcessor_FallbackOnMalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		ai   *mockAI
	}{
		{"nil result", &mockAI{}},
		{"empty query", &mockAI{processed: &domain.ProcessedQuery{Query: "   "}}},
		{"malformed error", &mockAI{processErr: domain.ErrMalformedAIResponse}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewQueryProcessor(tt.ai, nil, time.Second, 5)
			got := p.Process(context.Background(), " raw ", "u1", "", nil)
			assert.Equal(t, "raw", got.Query)
			assert.Nil(t, got.Intent)
		})
	}
}

func TestQueryProcessor_NoAI(t *testing.T) {
	p := NewQueryProcessor(nil, nil, time.Second, 5)
	got := p.Process(context.Background(), "\tq\n", "u1", "", nil)
	assert.Equal(t, "q", got.Query)
}

func TestQueryProcessor_HistoryFailureIsIgnored(t *testing.T) {
	ai := &mockAI{processed: &domain.ProcessedQuery{Query: "q"}}
	p := NewQueryProcessor(ai, &mockHistory{err: errors.New("locked")}, time.Second, 5)

	got := p.Process(context.Background(), "q", "u1", "", nil)

	assert.Equal(t, "q", got.Query)
	assert.False(t, got.Rewritten)
	assert.Nil(t, ai.lastContext.RecentSearches)
}
