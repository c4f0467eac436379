package mcp

import (
	"context"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	got  domain.SearchRequest
	resp *domain.SearchResponse
	err  error
}

func (m *mockSearchService) Search(_ context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	m.got = req
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

// mockHealthService is a mock implementation of driving.HealthService.
type mockHealthService struct {
	summary domain.HealthSummary
	byID    map[domain.ProviderID]domain.IntegrationHealth
}

func (m *mockHealthService) GetHealthSummary() domain.HealthSummary {
	return m.summary
}

func (m *mockHealthService) GetIntegrationHealth(p domain.ProviderID) (domain.IntegrationHealth, bool) {
	h, ok := m.byID[p]
	return h, ok
}

func validPorts() *Ports {
	return &Ports{
		Search: &mockSearchService{resp: &domain.SearchResponse{Success: true}},
		Health: &mockHealthService{},
		UserID: "user-1",
	}
}
