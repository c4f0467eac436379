package services

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

// AdapterSet holds the adapters built for one request, keyed by provider.
type AdapterSet map[domain.ProviderID]driven.ProviderAdapter

// AdapterFactory builds provider adapters from resolved credentials using a
// provider-keyed dispatch table.
type AdapterFactory struct {
	builders map[domain.ProviderID]driven.AdapterBuilder
	opts     driven.AdapterOptions
}

// NewAdapterFactory creates a factory over the given dispatch table.
func NewAdapterFactory(builders map[domain.ProviderID]driven.AdapterBuilder, opts driven.AdapterOptions) *AdapterFactory {
	return &AdapterFactory{builders: builders, opts: opts}
}

// Supports returns true if a builder is registered for p.
func (f *AdapterFactory) Supports(p domain.ProviderID) bool {
	_, ok := f.builders[p]
	return ok
}

// Build constructs one adapter per present, valid bundle. A bundle marked
// invalid is skipped, and a builder that rejects its bundle excludes only
// that provider.
func (f *AdapterFactory) Build(set *domain.CredentialSet) AdapterSet {
	logger.Section("Adapter Construction")
	adapters := make(AdapterSet, set.Len())

	for _, p := range set.Providers() {
		bundle := set.Bundles[p]
		log := logger.With(zap.String("provider", string(p)), zap.String("user_id", set.UserID))

		if bundle.Invalid {
			log.Warn("skipping provider with invalid credentials")
			continue
		}

		build, ok := f.builders[p]
		if !ok {
			log.Warn("no adapter builder registered")
			continue
		}

		adapter, err := f.safeBuild(build, bundle)
		if err != nil {
			log.Warn("adapter construction failed", zap.Error(err))
			continue
		}
		adapters[p] = adapter
	}

	logger.Debug("Built %d adapter(s)", len(adapters))
	return adapters
}

func (f *AdapterFactory) safeBuild(build driven.AdapterBuilder, bundle domain.CredentialBundle) (adapter driven.ProviderAdapter, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("builder panicked: %v", r)
		}
	}()
	adapter, err = build(bundle, f.opts)
	if err == nil && adapter == nil {
		err = errors.New("builder returned no adapter")
	}
	return adapter, err
}

// ListAvailable returns the providers in the set, sorted.
func (f *AdapterFactory) ListAvailable(adapters AdapterSet) []domain.ProviderID {
	ids := make([]domain.ProviderID, 0, len(adapters))
	for p := range adapters {
		ids = append(ids, p)
	}
	return domain.SortProviders(ids)
}
