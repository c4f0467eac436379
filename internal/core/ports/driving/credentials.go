package driving

import (
	"context"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// CredentialService manages stored credential bundles for operators.
type CredentialService interface {
	// Connect stores a bundle for a user, replacing any existing one.
	Connect(ctx context.Context, bundle domain.CredentialBundle) error

	// Disconnect removes the user's bundle for a provider.
	Disconnect(ctx context.Context, userID string, provider domain.ProviderID) error

	// List returns the user's bundles. Secrets are included; callers must
	// not print them.
	List(ctx context.Context, userID string) ([]domain.CredentialBundle, error)
}
