package driven

import "github.com/custodia-labs/sercha-federated/internal/core/domain"

// Projection maps one provider's raw result into the normalised shape.
// It returns an error wrapping domain.ErrMalformedPayload when the item is
// unusable; missing optional fields are left at their zero value.
type Projection func(raw domain.RawResult) (domain.NormalizedResult, error)

// ProjectionRegistry selects the projection for a provider.
type ProjectionRegistry interface {
	// Projection returns the projection for p.
	Projection(p domain.ProviderID) (Projection, bool)
}
