package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

type credentialKey struct {
	userID   string
	provider domain.ProviderID
}

// CredentialStore is an in-memory implementation of driven.CredentialStore.
type CredentialStore struct {
	mu      sync.RWMutex
	bundles map[credentialKey]domain.CredentialBundle
}

// NewCredentialStore creates a new in-memory credential store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{
		bundles: make(map[credentialKey]domain.CredentialBundle),
	}
}

// GetCredentials returns the user's bundles for providers, in provider order.
func (s *CredentialStore) GetCredentials(
	_ context.Context, userID string, providers []domain.ProviderID,
) ([]domain.CredentialBundle, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.CredentialBundle
	for _, p := range domain.SortProviders(append([]domain.ProviderID(nil), providers...)) {
		if b, ok := s.bundles[credentialKey{userID, p}]; ok {
			result = append(result, copyBundle(b))
		}
	}
	return result, nil
}

// SaveCredentials stores or replaces a bundle.
func (s *CredentialStore) SaveCredentials(_ context.Context, b domain.CredentialBundle) error {
	if b.UserID == "" || !b.Provider.IsValid() {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bundles[credentialKey{b.UserID, b.Provider}] = copyBundle(b)
	return nil
}

// DeleteCredentials removes the user's bundle for provider.
func (s *CredentialStore) DeleteCredentials(_ context.Context, userID string, provider domain.ProviderID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := credentialKey{userID, provider}
	if _, ok := s.bundles[key]; !ok {
		return domain.ErrNotFound
	}
	delete(s.bundles, key)
	return nil
}

// copyBundle detaches the metadata map so callers cannot mutate stored state.
func copyBundle(b domain.CredentialBundle) domain.CredentialBundle {
	if b.Metadata != nil {
		meta := make(map[string]string, len(b.Metadata))
		for k, v := range b.Metadata {
			meta[k] = v
		}
		b.Metadata = meta
	}
	if b.ExpiresAt != nil {
		t := *b.ExpiresAt
		b.ExpiresAt = &t
	}
	return b
}
