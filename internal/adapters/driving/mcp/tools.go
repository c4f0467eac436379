package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

const statusUnknown = "unknown"

// maxContentChars trims result bodies so tool output stays readable.
const maxContentChars = 500

// SearchInput is the input schema for the federated_search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query, sent to every connected provider"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the federated_search tool.
type SearchOutput struct {
	Results   []SearchResultOutput `json:"results"`
	Count     int                  `json:"count"`
	Total     int                  `json:"total"`
	Processed string               `json:"processed_query"`
	Ranked    bool                 `json:"ranked"`
	Failures  []FailureOutput      `json:"failures,omitempty"`
	RequestID string               `json:"request_id"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Source  string  `json:"source"`
	URL     string  `json:"url,omitempty"`
	Author  string  `json:"author,omitempty"`
	Score   float64 `json:"score"`
	Rank    int     `json:"rank"`
	Content string  `json:"content,omitempty"`
}

// FailureOutput is a provider that did not contribute results.
type FailureOutput struct {
	Provider string `json:"provider"`
	Class    string `json:"class"`
}

// HealthInput is the input schema for the provider_health tool.
type HealthInput struct {
	Provider string `json:"provider,omitempty" jsonschema:"a single provider id; omit for all providers"`
}

// HealthOutput is the output schema for the provider_health tool.
type HealthOutput struct {
	Overall   string           `json:"overall"`
	Providers []ProviderHealth `json:"providers"`
}

// ProviderHealth is one provider's health.
type ProviderHealth struct {
	Provider            string `json:"provider"`
	Status              string `json:"status"`
	ConsecutiveFailures int    `json:"consecutive_failures"`
	LastError           string `json:"last_error,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "federated_search",
		Description: "Search mail, files, calendar, chat, issues, accounting and project data across every connected provider",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "provider_health",
		Description: "Report the health of the search providers",
	}, s.handleHealth)
}

// handleSearch handles the federated_search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	resp, err := s.ports.Search.Search(ctx, domain.SearchRequest{
		Query:          input.Query,
		UserID:         s.ports.UserID,
		OrganizationID: s.ports.OrganizationID,
	})
	if err != nil {
		return nil, SearchOutput{}, err
	}

	results := resp.Data
	if len(results) > limit {
		results = results[:limit]
	}
	output := SearchOutput{
		Results:   make([]SearchResultOutput, len(results)),
		Count:     len(results),
		Total:     resp.TotalCount,
		Processed: resp.Query.Processed,
		Ranked:    resp.Query.Ranked,
		RequestID: resp.RequestID,
	}
	for i := range results {
		r := &results[i]
		output.Results[i] = SearchResultOutput{
			ID:      r.ID,
			Title:   r.Title,
			Source:  string(r.Source),
			URL:     r.URL,
			Author:  r.Author,
			Score:   r.Score,
			Rank:    r.Rank,
			Content: clip(r.Content, maxContentChars),
		}
	}
	for _, f := range resp.Failures {
		output.Failures = append(output.Failures, FailureOutput{Provider: string(f.Provider), Class: string(f.Class)})
	}

	return nil, output, nil
}

// handleHealth handles the provider_health tool invocation.
func (s *Server) handleHealth(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input HealthInput,
) (*mcp.CallToolResult, HealthOutput, error) {
	if input.Provider != "" {
		p, err := domain.ParseProviderID(input.Provider)
		if err != nil {
			return nil, HealthOutput{}, fmt.Errorf("%w: %s", err, input.Provider)
		}
		h, ok := s.ports.Health.GetIntegrationHealth(p)
		if !ok {
			// Never searched yet.
			return nil, HealthOutput{
				Overall:   statusUnknown,
				Providers: []ProviderHealth{{Provider: string(p), Status: statusUnknown}},
			}, nil
		}
		return nil, HealthOutput{Overall: string(h.Status), Providers: []ProviderHealth{toProviderHealth(h)}}, nil
	}

	summary := s.ports.Health.GetHealthSummary()
	output := HealthOutput{
		Overall:   string(summary.Overall),
		Providers: make([]ProviderHealth, len(summary.Providers)),
	}
	for i, h := range summary.Providers {
		output.Providers[i] = toProviderHealth(h)
	}
	return nil, output, nil
}

func toProviderHealth(h domain.IntegrationHealth) ProviderHealth {
	return ProviderHealth{
		Provider:            string(h.Provider),
		Status:              string(h.Status),
		ConsecutiveFailures: h.ConsecutiveFailures,
		LastError:           h.LastError,
	}
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
