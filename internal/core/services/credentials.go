package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driving"
)

// Ensure CredentialService implements the interface.
var _ driving.CredentialService = (*CredentialService)(nil)

// CredentialService manages stored credential bundles.
type CredentialService struct {
	store driven.CredentialStore
}

// NewCredentialService creates a new credential service.
func NewCredentialService(store driven.CredentialStore) *CredentialService {
	return &CredentialService{store: store}
}

// Connect validates and stores a bundle.
func (s *CredentialService) Connect(ctx context.Context, bundle domain.CredentialBundle) error {
	if strings.TrimSpace(bundle.UserID) == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if !bundle.Provider.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownProvider, bundle.Provider)
	}
	if bundle.AccessSecret == "" {
		return fmt.Errorf("%w: access secret is required", domain.ErrInvalidInput)
	}
	for _, key := range bundle.Provider.RequiredMetadata() {
		if bundle.MetadataValue(key) == "" {
			return fmt.Errorf("%w: %s requires %s", domain.ErrMalformedMetadata, bundle.Provider, key)
		}
	}
	bundle.UpdatedAt = time.Now()
	return s.store.SaveCredentials(ctx, bundle)
}

// Disconnect removes the user's bundle for a provider.
func (s *CredentialService) Disconnect(ctx context.Context, userID string, provider domain.ProviderID) error {
	return s.store.DeleteCredentials(ctx, userID, provider)
}

// List returns every bundle the user has stored.
func (s *CredentialService) List(ctx context.Context, userID string) ([]domain.CredentialBundle, error) {
	return s.store.GetCredentials(ctx, userID, domain.AllProviders())
}
