package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

func TestExtractProvider(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{name: "valid provider URI", uri: "sercha://health/gmail", expected: "gmail"},
		{name: "invalid prefix", uri: "file://health/gmail", expected: ""},
		{name: "summary URI", uri: "sercha://health", expected: ""},
		{name: "empty URI", uri: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractProvider(tt.uri))
		})
	}
}

func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func healthServer(t *testing.T) *Server {
	t.Helper()
	ports := validPorts()
	ports.Health = &mockHealthService{
		summary: domain.HealthSummary{
			Overall:   domain.HealthHealthy,
			Healthy:   1,
			Providers: []domain.IntegrationHealth{{Provider: domain.ProviderGitHub, Status: domain.HealthHealthy}},
		},
		byID: map[domain.ProviderID]domain.IntegrationHealth{
			domain.ProviderGitHub: {Provider: domain.ProviderGitHub, Status: domain.HealthHealthy, ConsecutiveSuccesses: 4},
		},
	}
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestServer_handleHealthResource(t *testing.T) {
	server := healthServer(t)

	result, err := server.handleHealthResource(context.Background(), makeReadResourceRequest("sercha://health"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	assert.Contains(t, result.Contents[0].Text, `"overall": "healthy"`)
	assert.Contains(t, result.Contents[0].Text, `"provider": "github"`)
}

func TestServer_handleProviderHealthResource(t *testing.T) {
	server := healthServer(t)
	ctx := context.Background()

	t.Run("known provider", func(t *testing.T) {
		result, err := server.handleProviderHealthResource(ctx, makeReadResourceRequest("sercha://health/github"))

		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, `"consecutiveSuccesses": 4`)
	})

	t.Run("never searched provider returns not found", func(t *testing.T) {
		_, err := server.handleProviderHealthResource(ctx, makeReadResourceRequest("sercha://health/dropbox"))
		require.Error(t, err)
	})

	t.Run("invalid provider returns not found", func(t *testing.T) {
		_, err := server.handleProviderHealthResource(ctx, makeReadResourceRequest("sercha://health/myspace"))
		require.Error(t, err)
	})
}
