package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for Sercha resources.
	uriScheme = "sercha://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "health",
		Name:        "health",
		Description: "Health summary of every provider searched so far",
		MIMEType:    "application/json",
	}, s.handleHealthResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "health/{provider}",
		Name:        "provider-health",
		Description: "Health of a single provider",
		MIMEType:    "application/json",
	}, s.handleProviderHealthResource)
}

func (s *Server) handleHealthResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, s.ports.Health.GetHealthSummary())
}

func (s *Server) handleProviderHealthResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	p, err := domain.ParseProviderID(extractProvider(req.Params.URI))
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	h, ok := s.ports.Health.GetIntegrationHealth(p)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResource(req.Params.URI, h)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractProvider extracts the provider id from a URI like sercha://health/{provider}.
func extractProvider(uri string) string {
	const prefix = uriScheme + "health/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.TrimPrefix(uri, prefix)
}
