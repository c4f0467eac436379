// Package tui provides an interactive terminal user interface for sercha.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driving"
)

// Ports aggregates the driving ports and identity the TUI runs with.
type Ports struct {
	// Search runs federated queries.
	Search driving.SearchService

	// Health reports provider health.
	Health driving.HealthService

	// UserID is the user every search runs as.
	UserID string

	// OrganizationID scopes searches. Optional.
	OrganizationID string
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(search driving.SearchService, health driving.HealthService, userID string) *Ports {
	return &Ports{
		Search: search,
		Health: health,
		UserID: userID,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Health == nil {
		return ErrMissingHealthService
	}
	if p.UserID == "" {
		return ErrMissingUser
	}
	return nil
}
