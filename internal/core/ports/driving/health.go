package driving

import "github.com/custodia-labs/sercha-federated/internal/core/domain"

// HealthService exposes provider health. Reads are snapshots and never
// block in-flight searches.
type HealthService interface {
	// GetHealthSummary returns the health of every provider seen so far.
	GetHealthSummary() domain.HealthSummary

	// GetIntegrationHealth returns one provider's health.
	// The boolean is false if the provider has never been searched.
	GetIntegrationHealth(p domain.ProviderID) (domain.IntegrationHealth, bool)
}
