package mcp

import (
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driving"
)

// Ports are the services and identity an MCP server is bound to.
type Ports struct {
	// Search runs federated searches.
	Search driving.SearchService

	// Health exposes provider health.
	Health driving.HealthService

	// UserID is the user every search runs as. An MCP server is bound to
	// one local user, so there is no per-call session.
	UserID string

	// OrganizationID is optional.
	OrganizationID string
}

// Validate reports the first missing port.
func (p *Ports) Validate() error {
	switch {
	case p.Search == nil:
		return ErrMissingSearchService
	case p.Health == nil:
		return ErrMissingHealthService
	case p.UserID == "":
		return ErrMissingUser
	}
	return nil
}
