package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

// CredentialResolver loads a user's credential bundles for every known provider.
type CredentialResolver struct {
	store          driven.CredentialStore
	identityAnchor domain.ProviderID
	timeout        time.Duration
}

// NewCredentialResolver creates a resolver.
// identityAnchor is the provider every user must have connected.
func NewCredentialResolver(store driven.CredentialStore, identityAnchor domain.ProviderID, timeout time.Duration) *CredentialResolver {
	return &CredentialResolver{
		store:          store,
		identityAnchor: identityAnchor,
		timeout:        timeout,
	}
}

// IdentityAnchor returns the mandatory provider.
func (r *CredentialResolver) IdentityAnchor() domain.ProviderID { return r.identityAnchor }

// FetchAll reads every bundle the user has for the supported providers in one
// batched lookup. It fails with domain.ErrMissingMandatoryCredential if the
// identity-anchor provider is absent. Expired tokens are not refreshed here.
func (r *CredentialResolver) FetchAll(ctx context.Context, userID string) (*domain.CredentialSet, error) {
	logger.Section("Credential Resolution")

	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	bundles, err := r.store.GetCredentials(ctx, userID, domain.AllProviders())
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	set := domain.NewCredentialSet(userID)
	for _, b := range bundles {
		if !b.Provider.IsValid() {
			logger.Debug("Ignoring credentials for unknown provider %q", b.Provider)
			continue
		}
		if b.UserID != "" && b.UserID != userID {
			continue
		}
		set.Bundles[b.Provider] = b
	}
	logger.Debug("Resolved %d credential bundle(s): %v", set.Len(), set.Providers())

	if _, ok := set.Get(r.identityAnchor); !ok {
		logger.FromContext(ctx).Warn("identity-anchor credential missing",
			zap.String("user_id", userID),
			zap.String("provider", string(r.identityAnchor)))
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingMandatoryCredential, r.identityAnchor)
	}

	return set, nil
}

// Validate flags a bundle missing either secret as invalid and logs a warning.
// The bundle is always returned; refreshing is the OAuth collaborator's job.
func (r *CredentialResolver) Validate(b domain.CredentialBundle) domain.CredentialBundle {
	if b.HasSecrets() {
		return b
	}
	b.Invalid = true
	logger.With(
		zap.String("user_id", b.UserID),
		zap.String("provider", string(b.Provider)),
		zap.Bool("has_access", b.AccessSecret != ""),
		zap.Bool("has_refresh", b.RefreshSecret != ""),
	).Warn("credential bundle missing secret")
	return b
}

// ValidateAll runs Validate over every bundle in the set.
func (r *CredentialResolver) ValidateAll(set *domain.CredentialSet) {
	for p, b := range set.Bundles {
		set.Bundles[p] = r.Validate(b)
	}
}
