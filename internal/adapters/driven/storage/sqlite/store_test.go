package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "sercha-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

func testBundle(userID string, p domain.ProviderID) domain.CredentialBundle {
	return domain.CredentialBundle{
		UserID:        userID,
		Provider:      p,
		AccessSecret:  "access-" + string(p),
		RefreshSecret: "refresh-" + string(p),
		UpdatedAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// ==================== Store Creation and Initialization Tests ====================

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "sercha-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	dbPath := filepath.Join(tempDir, "metadata.db")
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)
	assert.NoError(t, store.db.Ping())
}

func TestNewStore_DirectoryCreation(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "sercha-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	nestedDir := filepath.Join(tempDir, "nested", "path", "to", "db")
	store, err := NewStore(nestedDir)
	require.NoError(t, err)
	defer store.Close()

	assert.DirExists(t, nestedDir)
}

func TestNewStore_Migrations(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	var version int
	err := store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	for _, table := range []string{"credentials", "search_history"} {
		var exists int
		err := store.db.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&exists)
		require.NoError(t, err)
		assert.Equal(t, 1, exists, "table %s should exist", table)
	}
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "sercha-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	ctx := context.Background()
	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.CredentialStore().SaveCredentials(ctx, testBundle("u1", domain.ProviderGmail)))
	require.NoError(t, store.Close())

	reopened, err := NewStore(tempDir)
	require.NoError(t, err)
	defer reopened.Close()

	var applied int
	require.NoError(t, reopened.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, 1, applied)

	bundles, err := reopened.CredentialStore().GetCredentials(ctx, "u1", []domain.ProviderID{domain.ProviderGmail})
	require.NoError(t, err)
	assert.Len(t, bundles, 1)
}

func TestStore_Close(t *testing.T) {
	store, _ := setupTestStore(t)

	assert.NoError(t, store.Close())
	assert.Error(t, store.db.Ping())
}

func TestStore_InterfaceGetters(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.NotNil(t, store.CredentialStore())
	assert.NotNil(t, store.SearchHistoryStore())
}

// ==================== CredentialStore Tests ====================

func TestCredentialStore_SaveAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	creds := store.CredentialStore()

	expiry := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	qb := testBundle("u1", domain.ProviderQuickBooks)
	qb.Metadata = map[string]string{domain.MetadataRealmID: "9130"}
	qb.ExpiresAt = &expiry

	require.NoError(t, creds.SaveCredentials(ctx, testBundle("u1", domain.ProviderGmail)))
	require.NoError(t, creds.SaveCredentials(ctx, qb))
	require.NoError(t, creds.SaveCredentials(ctx, testBundle("u2", domain.ProviderGmail)))

	bundles, err := creds.GetCredentials(ctx, "u1", domain.AllProviders())
	require.NoError(t, err)
	require.Len(t, bundles, 2)

	assert.Equal(t, domain.ProviderGmail, bundles[0].Provider)
	assert.Equal(t, "access-gmail", bundles[0].AccessSecret)
	assert.Nil(t, bundles[0].ExpiresAt)

	assert.Equal(t, domain.ProviderQuickBooks, bundles[1].Provider)
	assert.Equal(t, "9130", bundles[1].MetadataValue(domain.MetadataRealmID))
	require.NotNil(t, bundles[1].ExpiresAt)
	assert.True(t, expiry.Equal(*bundles[1].ExpiresAt))
	assert.True(t, qb.UpdatedAt.Equal(bundles[1].UpdatedAt))
}

func TestCredentialStore_GetFiltersProviders(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	creds := store.CredentialStore()

	require.NoError(t, creds.SaveCredentials(ctx, testBundle("u1", domain.ProviderGmail)))
	require.NoError(t, creds.SaveCredentials(ctx, testBundle("u1", domain.ProviderSlack)))

	bundles, err := creds.GetCredentials(ctx, "u1", []domain.ProviderID{domain.ProviderSlack, domain.ProviderNotion})
	require.NoError(t, err)
	require.Len(t, bundles, 1)
	assert.Equal(t, domain.ProviderSlack, bundles[0].Provider)

	none, err := creds.GetCredentials(ctx, "u1", nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCredentialStore_SaveUpdate(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	creds := store.CredentialStore()

	b := testBundle("u1", domain.ProviderSlack)
	require.NoError(t, creds.SaveCredentials(ctx, b))

	b.AccessSecret = "rotated"
	b.Metadata = map[string]string{domain.MetadataTeamID: "T1"}
	require.NoError(t, creds.SaveCredentials(ctx, b))

	bundles, err := creds.GetCredentials(ctx, "u1", []domain.ProviderID{domain.ProviderSlack})
	require.NoError(t, err)
	require.Len(t, bundles, 1)
	assert.Equal(t, "rotated", bundles[0].AccessSecret)
	assert.Equal(t, "T1", bundles[0].MetadataValue(domain.MetadataTeamID))
}

func TestCredentialStore_SaveInvalid(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	creds := store.CredentialStore()

	err := creds.SaveCredentials(context.Background(), testBundle("", domain.ProviderGmail))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = creds.SaveCredentials(context.Background(), testBundle("u1", "myspace"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCredentialStore_Delete(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	creds := store.CredentialStore()

	require.NoError(t, creds.SaveCredentials(ctx, testBundle("u1", domain.ProviderNotion)))
	require.NoError(t, creds.DeleteCredentials(ctx, "u1", domain.ProviderNotion))

	bundles, err := creds.GetCredentials(ctx, "u1", domain.AllProviders())
	require.NoError(t, err)
	assert.Empty(t, bundles)

	err = creds.DeleteCredentials(ctx, "u1", domain.ProviderNotion)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ==================== SearchHistoryStore Tests ====================

func TestHistoryStore_RecentSearches(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	history := store.SearchHistoryStore()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, q := range []string{"invoices", "roadmap", "invoices", "standup notes"} {
		require.NoError(t, history.RecordSearch(ctx, domain.SearchEvent{
			RequestID:   "r",
			UserID:      "u1",
			Query:       q,
			ResultCount: i,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, history.RecordSearch(ctx, domain.SearchEvent{
		UserID: "u2", Query: "other user", CreatedAt: base.Add(time.Hour),
	}))

	recent, err := history.RecentSearches(ctx, "u1", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"standup notes", "invoices", "roadmap"}, recent)

	limited, err := history.RecentSearches(ctx, "u1", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"standup notes"}, limited)

	none, err := history.RecentSearches(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestHistoryStore_RecordInvalid(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.SearchHistoryStore().RecordSearch(context.Background(), domain.SearchEvent{UserID: "u1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCredentialStore_SkipsCorruptMetadata(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	creds := store.CredentialStore()

	require.NoError(t, creds.SaveCredentials(ctx, testBundle("u1", domain.ProviderGmail)))
	require.NoError(t, creds.SaveCredentials(ctx, testBundle("u1", domain.ProviderProcore)))
	_, err := store.db.ExecContext(ctx,
		"UPDATE credentials SET metadata = ? WHERE user_id = ? AND provider = ?", "{not json", "u1", string(domain.ProviderProcore))
	require.NoError(t, err)

	bundles, err := creds.GetCredentials(ctx, "u1", []domain.ProviderID{domain.ProviderGmail, domain.ProviderProcore})

	require.NoError(t, err)
	require.Len(t, bundles, 1)
	assert.Equal(t, domain.ProviderGmail, bundles[0].Provider)
}
