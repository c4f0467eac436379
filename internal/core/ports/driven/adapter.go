package driven

import (
	"context"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/ratelimit"
)

// ProviderAdapter searches one provider on behalf of one user.
// Adapters are built per request and never shared across requests; the only
// state they hold is the credential bundle they were built from.
type ProviderAdapter interface {
	// Provider returns the provider this adapter searches.
	Provider() domain.ProviderID

	// Search runs the query against the provider.
	// Failures are returned as *domain.ProviderError so callers can tell
	// auth-expired, rate-limited and transport problems apart.
	Search(ctx context.Context, query string) ([]domain.RawResult, error)
}

// AdapterOptions are passed to every builder.
type AdapterOptions struct {
	// MaxResults is the page size requested from the provider.
	MaxResults int

	// Limiters carries per-token rate limiters across requests. Nil means
	// each adapter paces only its own calls.
	Limiters *ratelimit.Registry
}

// AdapterBuilder constructs an adapter from a credential bundle.
// It returns an error wrapping domain.ErrMalformedMetadata when the bundle
// lacks provider-specific metadata.
type AdapterBuilder func(bundle domain.CredentialBundle, opts AdapterOptions) (ProviderAdapter, error)
