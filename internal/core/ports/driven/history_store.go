package driven

import (
	"context"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// SearchHistoryStore records completed searches.
type SearchHistoryStore interface {
	// RecordSearch appends one search event.
	RecordSearch(ctx context.Context, event domain.SearchEvent) error

	// RecentSearches returns the user's most recent distinct queries, newest first.
	RecentSearches(ctx context.Context, userID string, limit int) ([]string, error)
}
