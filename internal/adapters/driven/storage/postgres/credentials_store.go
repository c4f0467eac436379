package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

type credentialStore struct {
	db *sql.DB
}

var _ driven.CredentialStore = (*credentialStore)(nil)

// GetCredentials reads the user's bundles for providers in one query.
func (s *credentialStore) GetCredentials(
	ctx context.Context, userID string, providers []domain.ProviderID,
) ([]domain.CredentialBundle, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(providers) == 0 {
		return nil, nil
	}
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = string(p)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, provider, access_secret, refresh_secret, metadata, expires_at, updated_at
		FROM credentials
		WHERE user_id = $1 AND provider = ANY($2)
		ORDER BY provider
	`, userID, pq.Array(names))
	if err != nil {
		return nil, fmt.Errorf("querying credentials: %w", err)
	}
	defer rows.Close()

	var bundles []domain.CredentialBundle
	for rows.Next() {
		var (
			b        domain.CredentialBundle
			provider string
			meta     []byte
			expires  sql.NullTime
		)
		if err := rows.Scan(&b.UserID, &provider, &b.AccessSecret, &b.RefreshSecret,
			&meta, &expires, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning credentials: %w", err)
		}
		b.Provider = domain.ProviderID(provider)
		b.UpdatedAt = b.UpdatedAt.UTC()
		if expires.Valid {
			t := expires.Time.UTC()
			b.ExpiresAt = &t
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &b.Metadata); err != nil {
				logger.With(zap.String("user_id", userID), zap.String("provider", provider), zap.Error(err)).
					Warn("skipping credentials with unreadable metadata")
				continue
			}
			if len(b.Metadata) == 0 {
				b.Metadata = nil
			}
		}
		bundles = append(bundles, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating credentials: %w", err)
	}
	return bundles, nil
}

// SaveCredentials upserts a bundle.
func (s *credentialStore) SaveCredentials(ctx context.Context, b domain.CredentialBundle) error {
	if b.UserID == "" || !b.Provider.IsValid() {
		return domain.ErrInvalidInput
	}
	metadata := b.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	meta, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}
	var expires sql.NullTime
	if b.ExpiresAt != nil {
		expires = sql.NullTime{Time: b.ExpiresAt.UTC(), Valid: true}
	}
	updated := b.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO credentials
			(user_id, provider, access_secret, refresh_secret, metadata, expires_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, provider) DO UPDATE SET
			access_secret = EXCLUDED.access_secret,
			refresh_secret = EXCLUDED.refresh_secret,
			metadata = EXCLUDED.metadata,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at
	`, b.UserID, string(b.Provider), b.AccessSecret, b.RefreshSecret, string(meta), expires, updated.UTC())
	if err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	return nil
}

// DeleteCredentials removes the user's bundle for provider.
func (s *credentialStore) DeleteCredentials(ctx context.Context, userID string, provider domain.ProviderID) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM credentials WHERE user_id = $1 AND provider = $2", userID, string(provider))
	if err != nil {
		return fmt.Errorf("deleting credentials: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
