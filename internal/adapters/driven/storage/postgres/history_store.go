package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

type historyStore struct {
	db *sql.DB
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
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO search_history
			(request_id, user_id, organization_id, query, processed_query,
			 result_count, failed_count, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, e.RequestID, e.UserID, e.OrganizationID, e.Query, e.ProcessedQuery,
		e.ResultCount, e.FailedCount, e.DurationMs, created.UTC())
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
	rows, err := s.db.QueryContext(ctx, `
		SELECT query
		FROM search_history
		WHERE user_id = $1
		GROUP BY query
		ORDER BY MAX(created_at) DESC, MAX(id) DESC
		LIMIT $2
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
