package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federated/internal/logger"
	"github.com/custodia-labs/sercha-federated/internal/metrics"
)

// QueryProcessor rewrites and classifies queries with the AI service.
// Any AI failure falls back to the trimmed raw query with no intent.
type QueryProcessor struct {
	ai      driven.AIService
	history driven.SearchHistoryStore
	timeout time.Duration
	recent  int
}

// NewQueryProcessor creates a query processor.
// ai and history are optional (can be nil).
func NewQueryProcessor(ai driven.AIService, history driven.SearchHistoryStore, timeout time.Duration, recent int) *QueryProcessor {
	return &QueryProcessor{
		ai:      ai,
		history: history,
		timeout: timeout,
		recent:  recent,
	}
}

// Process makes a single AI attempt bounded by the processor timeout.
func (p *QueryProcessor) Process(
	ctx context.Context, raw, userID, orgID string, available []domain.ProviderID,
) domain.ProcessedQuery {
	logger.Section("Query Processing")
	fallback := domain.ProcessedQuery{Query: strings.TrimSpace(raw)}

	if p.ai == nil {
		logger.Debug("AI service not configured, using raw query")
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	qctx := domain.QueryContext{
		UserID:          userID,
		OrganizationID:  orgID,
		RecentSearches:  p.recentSearches(ctx, userID),
		ActiveProviders: available,
	}

	result, err := p.ai.ProcessQuery(ctx, fallback.Query, qctx)
	if err == nil && result != nil && strings.TrimSpace(result.Query) == "" {
		err = errors.New("empty processed query")
	}
	if err != nil || result == nil {
		metrics.AIFallbacks.WithLabelValues(metrics.StageQuery).Inc()
		logger.FromContext(ctx).Warn("query processing failed, using raw query",
			zap.String("op", "process_query"),
			zap.String("user_id", userID),
			zap.Error(err))
		return fallback
	}

	processed := domain.ProcessedQuery{
		Query:  strings.TrimSpace(result.Query),
		Intent: result.Intent,
	}
	processed.Rewritten = processed.Query != fallback.Query
	if processed.Intent != nil {
		processed.Intent.Confidence = clamp01(processed.Intent.Confidence)
	}
	logger.Debug("Processed query: %q (rewritten=%t)", processed.Query, processed.Rewritten)
	return processed
}

// recentSearches is best effort; a failing history store only loses context.
func (p *QueryProcessor) recentSearches(ctx context.Context, userID string) []string {
	if p.history == nil || p.recent <= 0 {
		return nil
	}
	recent, err := p.history.RecentSearches(ctx, userID, p.recent)
	if err != nil {
		logger.Debug("Recent searches unavailable: %v", err)
		return nil
	}
	return recent
}

func clamp01(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
