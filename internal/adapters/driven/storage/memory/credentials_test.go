package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

func TestCredentialStore_SaveAndGet(t *testing.T) {
	store := NewCredentialStore()
	ctx := context.Background()

	require.NoError(t, store.SaveCredentials(ctx, domain.CredentialBundle{
		UserID: "u1", Provider: domain.ProviderSlack, AccessSecret: "s", RefreshSecret: "r",
	}))
	require.NoError(t, store.SaveCredentials(ctx, domain.CredentialBundle{
		UserID: "u1", Provider: domain.ProviderGmail, AccessSecret: "g", RefreshSecret: "r",
	}))
	require.NoError(t, store.SaveCredentials(ctx, domain.CredentialBundle{
		UserID: "u2", Provider: domain.ProviderGmail, AccessSecret: "other", RefreshSecret: "r",
	}))

	providers := []domain.ProviderID{domain.ProviderSlack, domain.ProviderGmail, domain.ProviderNotion}
	bundles, err := store.GetCredentials(ctx, "u1", providers)
	require.NoError(t, err)
	require.Len(t, bundles, 2)
	assert.Equal(t, domain.ProviderGmail, bundles[0].Provider)
	assert.Equal(t, "g", bundles[0].AccessSecret)
	assert.Equal(t, domain.ProviderSlack, bundles[1].Provider)

	// caller's slice is left alone
	assert.Equal(t, domain.ProviderSlack, providers[0])
}

func TestCredentialStore_ReturnsCopies(t *testing.T) {
	store := NewCredentialStore()
	ctx := context.Background()
	expiry := time.Now().Add(time.Hour)

	b := domain.CredentialBundle{
		UserID: "u1", Provider: domain.ProviderQuickBooks, AccessSecret: "a", RefreshSecret: "r",
		Metadata:  map[string]string{domain.MetadataRealmID: "1"},
		ExpiresAt: &expiry,
	}
	require.NoError(t, store.SaveCredentials(ctx, b))
	b.Metadata[domain.MetadataRealmID] = "mutated"

	got, err := store.GetCredentials(ctx, "u1", []domain.ProviderID{domain.ProviderQuickBooks})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].MetadataValue(domain.MetadataRealmID))

	got[0].Metadata[domain.MetadataRealmID] = "mutated again"
	again, _ := store.GetCredentials(ctx, "u1", []domain.ProviderID{domain.ProviderQuickBooks})
	assert.Equal(t, "1", again[0].MetadataValue(domain.MetadataRealmID))
}

func TestCredentialStore_Invalid(t *testing.T) {
	store := NewCredentialStore()
	ctx := context.Background()

	assert.ErrorIs(t, store.SaveCredentials(ctx, domain.CredentialBundle{Provider: domain.ProviderGmail}), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.SaveCredentials(ctx, domain.CredentialBundle{UserID: "u1", Provider: "myspace"}), domain.ErrInvalidInput)

	_, err := store.GetCredentials(ctx, "", domain.AllProviders())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCredentialStore_Delete(t *testing.T) {
	store := NewCredentialStore()
	ctx := context.Background()

	require.NoError(t, store.SaveCredentials(ctx, domain.CredentialBundle{UserID: "u1", Provider: domain.ProviderDropbox}))
	require.NoError(t, store.DeleteCredentials(ctx, "u1", domain.ProviderDropbox))
	assert.ErrorIs(t, store.DeleteCredentials(ctx, "u1", domain.ProviderDropbox), domain.ErrNotFound)
}
