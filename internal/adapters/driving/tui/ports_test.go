package tui

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// MockSearchService implements driving.SearchService for testing.
type MockSearchService struct {
	SearchFunc func(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error)
	calls      []domain.SearchRequest
}

func (m *MockSearchService) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	m.calls = append(m.calls, req)
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, req)
	}
	return &domain.SearchResponse{Success: true, Query: domain.QueryMetadata{Original: req.Query}}, nil
}

// MockHealthService implements driving.HealthService for testing.
type MockHealthService struct {
	Summary domain.HealthSummary
}

func (m *MockHealthService) GetHealthSummary() domain.HealthSummary {
	return m.Summary
}

func (m *MockHealthService) GetIntegrationHealth(p domain.ProviderID) (domain.IntegrationHealth, bool) {
	for _, h := range m.Summary.Providers {
		if h.Provider == p {
			return h, true
		}
	}
	return domain.IntegrationHealth{}, false
}

func validPorts() *Ports {
	return NewPorts(&MockSearchService{}, &MockHealthService{
		Summary: domain.HealthSummary{
			Overall:     domain.HealthDegraded,
			Healthy:     1,
			Degraded:    1,
			GeneratedAt: time.Now(),
			Providers: []domain.IntegrationHealth{
				{Provider: domain.ProviderGmail, Status: domain.HealthHealthy},
				{Provider: domain.ProviderSlack, Status: domain.HealthDegraded, ConsecutiveFailures: 3, LastError: "timeout"},
			},
		},
	}, "alice")
}

func TestNewPorts(t *testing.T) {
	p := validPorts()

	assert.NotNil(t, p.Search)
	assert.NotNil(t, p.Health)
	assert.Equal(t, "alice", p.UserID)
	assert.Empty(t, p.OrganizationID)
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Ports)
		wantErr error
	}{
		{"valid", func(*Ports) {}, nil},
		{"missing search", func(p *Ports) { p.Search = nil }, ErrMissingSearchService},
		{"missing health", func(p *Ports) { p.Health = nil }, ErrMissingHealthService},
		{"missing user", func(p *Ports) { p.UserID = "" }, ErrMissingUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPorts()
			tt.mutate(p)
			err := p.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPorts_Validate_Nil(t *testing.T) {
	var p *Ports
	assert.ErrorIs(t, p.Validate(), ErrInvalidPorts)
}
