package driven

import (
	"context"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// AIService is the text service behind query processing and ranking.
// Both calls honour the caller's context deadline. Transport failures wrap
// domain.ErrAIUnavailable; unusable answers wrap domain.ErrMalformedAIResponse.
type AIService interface {
	// ProcessQuery rewrites and classifies a query.
	ProcessQuery(ctx context.Context, query string, qctx domain.QueryContext) (*domain.ProcessedQuery, error)

	// RankResults scores candidates by relevance. The returned map is keyed
	// by result id; ids missing from it are treated as irrelevant.
	RankResults(ctx context.Context, query string, candidates []domain.NormalizedResult, intent *domain.Intent) (map[string]float64, error)
}
