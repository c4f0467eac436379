package driven

import (
	"context"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// CredentialStore persists per-user, per-provider credential bundles.
// Bundles are written by the OAuth collaborator; the search path only reads.
type CredentialStore interface {
	// GetCredentials returns the user's bundles for the given providers in
	// one batched read. Providers with no bundle are simply absent.
	GetCredentials(ctx context.Context, userID string, providers []domain.ProviderID) ([]domain.CredentialBundle, error)

	// SaveCredentials stores a bundle. Creates if new, updates if exists.
	SaveCredentials(ctx context.Context, bundle domain.CredentialBundle) error

	// DeleteCredentials removes the user's bundle for a provider.
	// Returns domain.ErrNotFound if none exists.
	DeleteCredentials(ctx context.Context, userID string, provider domain.ProviderID) error
}
