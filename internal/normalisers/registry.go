package normalisers

import (
	"sync"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ProjectionRegistry = (*Registry)(nil)

// Registry maps providers to their projections.
type Registry struct {
	mu          sync.RWMutex
	projections map[domain.ProviderID]driven.Projection
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{projections: make(map[domain.ProviderID]driven.Projection)}
}

// Default returns a registry with the projection of every supported provider.
func Default() *Registry {
	r := NewRegistry()
	r.Register(domain.ProviderGmail, Gmail)
	r.Register(domain.ProviderGoogleDrive, Drive)
	r.Register(domain.ProviderGoogleCalendar, Calendar)
	r.Register(domain.ProviderDropbox, Dropbox)
	r.Register(domain.ProviderNotion, Notion)
	r.Register(domain.ProviderSlack, Slack)
	r.Register(domain.ProviderGitHub, GitHub)
	r.Register(domain.ProviderQuickBooks, QuickBooks)
	r.Register(domain.ProviderProcore, Procore)
	return r
}

// Register adds or replaces the projection for p.
func (r *Registry) Register(p domain.ProviderID, proj driven.Projection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projections[p] = proj
}

// Projection implements driven.ProjectionRegistry.
func (r *Registry) Projection(p domain.ProviderID) (driven.Projection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	proj, ok := r.projections[p]
	return proj, ok
}

// Providers returns the providers with a registered projection, sorted.
func (r *Registry) Providers() []domain.ProviderID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]domain.ProviderID, 0, len(r.projections))
	for p := range r.projections {
		ids = append(ids, p)
	}
	return domain.SortProviders(ids)
}

// URLResolver rebuilds a browser link from a raw result's fields.
type URLResolver func(fields map[string]any) string

// WithURLFallback wraps p's projection so that results the payload left
// without a link get one from resolve. It does nothing if p has no
// projection.
func (r *Registry) WithURLFallback(p domain.ProviderID, resolve URLResolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	base, ok := r.projections[p]
	if !ok || resolve == nil {
		return
	}
	r.projections[p] = func(raw domain.RawResult) (domain.NormalizedResult, error) {
		n, err := base(raw)
		if err != nil || n.URL != "" {
			return n, err
		}
		n.URL = resolve(raw.Fields)
		return n, nil
	}
}
