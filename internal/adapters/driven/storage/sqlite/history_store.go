package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

// historyStore implements driven.SearchHistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.SearchHistoryStore = (*historyStore)(nil)

// RecordSearch appends a search event.
func (s *historyStore) RecordSearch(ctx context.Context, e domain.SearchEvent) error {
	if e.UserID == "" || e.Query == "" {
		return domain.ErrInvalidInput
	}
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO search_history
			(request_id, user_id, organization_id, query, processed_query,
			 result_count, failed_count, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.RequestID, e.UserID, e.OrganizationID, e.Query, e.ProcessedQuery,
		e.ResultCount, e.FailedCount, e.DurationMs, toMillis(created))
	if err != nil {
		return fmt.Errorf("recording search: %w", err)
	}
	return nil
}

// RecentSearches returns distinct queries, newest first.
func (s *historyStore) RecentSearches(ctx context.Context, userID string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT query
		FROM search_history
		WHERE user_id = ?
		GROUP BY query
		ORDER BY MAX(created_at) DESC, MAX(id) DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying search history: %w", err)
	}
	defer rows.Close()

	var queries []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("scanning search history: %w", err)
		}
		queries = append(queries, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search history: %w", err)
	}
	return queries, nil
}
