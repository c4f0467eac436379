package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

// errCorruptMetadata marks a row whose metadata column does not decode.
var errCorruptMetadata = errors.New("corrupt credential metadata")

// credentialStore implements driven.CredentialStore.
type credentialStore struct {
	store *Store
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

	args := make([]any, 0, len(providers)+1)
	args = append(args, userID)
	for _, p := range providers {
		args = append(args, string(p))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(providers)), ",")

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT user_id, provider, access_secret, refresh_secret, metadata, expires_at, updated_at
		FROM credentials
		WHERE user_id = ? AND provider IN (`+placeholders+`)
		ORDER BY provider
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying credentials: %w", err)
	}
	defer rows.Close()

	var bundles []domain.CredentialBundle
	for rows.Next() {
		b, err := scanBundle(rows)
		if errors.Is(err, errCorruptMetadata) {
			logger.With(zap.String("user_id", userID), zap.String("provider", string(b.Provider)), zap.Error(err)).
				Warn("skipping credentials with unreadable metadata")
			continue
		}
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating credentials: %w", err)
	}
	return bundles, nil
}

// SaveCredentials stores or replaces a bundle.
func (s *credentialStore) SaveCredentials(ctx context.Context, b domain.CredentialBundle) error {
	if b.UserID == "" || !b.Provider.IsValid() {
		return domain.ErrInvalidInput
	}

	metadata := b.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	var expires sql.NullInt64
	if b.ExpiresAt != nil {
		expires = sql.NullInt64{Int64: toMillis(*b.ExpiresAt), Valid: true}
	}
	updated := b.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO credentials
			(user_id, provider, access_secret, refresh_secret, metadata, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, provider) DO UPDATE SET
			access_secret = excluded.access_secret,
			refresh_secret = excluded.refresh_secret,
			metadata = excluded.metadata,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`, b.UserID, string(b.Provider), b.AccessSecret, b.RefreshSecret,
		string(metaJSON), expires, toMillis(updated))
	if err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	return nil
}

// DeleteCredentials removes the user's bundle for provider.
func (s *credentialStore) DeleteCredentials(ctx context.Context, userID string, provider domain.ProviderID) error {
	res, err := s.store.db.ExecContext(ctx,
		"DELETE FROM credentials WHERE user_id = ? AND provider = ?", userID, string(provider))
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

func scanBundle(rows *sql.Rows) (domain.CredentialBundle, error) {
	var (
		b        domain.CredentialBundle
		provider string
		metaJSON string
		expires  sql.NullInt64
		updated  int64
	)
	if err := rows.Scan(&b.UserID, &provider, &b.AccessSecret, &b.RefreshSecret,
		&metaJSON, &expires, &updated); err != nil {
		return b, fmt.Errorf("scanning credentials: %w", err)
	}

	b.Provider = domain.ProviderID(provider)
	b.UpdatedAt = fromMillis(updated)
	if expires.Valid {
		t := fromMillis(expires.Int64)
		b.ExpiresAt = &t
	}
	if metaJSON != "" && metaJSON != "{}" {
		if err := json.Unmarshal([]byte(metaJSON), &b.Metadata); err != nil {
			return b, fmt.Errorf("%w for %s: %v", errCorruptMetadata, provider, err)
		}
	}
	return b, nil
}
