// Package notion searches the pages and databases shared with the Notion
// integration.
package notion

import (
	"context"
	"errors"
	"net/http"

	"github.com/jomei/notionapi"

	"github.com/custodia-labs/sercha-federated/internal/connectors/rest"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Ensure Adapter implements the interface.
var _ driven.ProviderAdapter = (*Adapter)(nil)

// Adapter searches with the /v1/search endpoint.
type Adapter struct {
	client   *notionapi.Client
	recorder *rest.StatusRecorder
	pageSize int
}

// New builds an adapter from a credential bundle.
func New(bundle domain.CredentialBundle, opts driven.AdapterOptions) (driven.ProviderAdapter, error) {
	return NewWithTransport(bundle.AccessSecret, nil, opts), nil
}

// NewWithTransport builds an adapter that sends requests through base.
func NewWithTransport(token string, base http.RoundTripper, opts driven.AdapterOptions) *Adapter {
	recorder := &rest.StatusRecorder{Base: base}
	client := notionapi.NewClient(notionapi.Token(token),
		notionapi.WithHTTPClient(&http.Client{Transport: recorder, Timeout: rest.DefaultTimeout}))

	size := opts.MaxResults
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return &Adapter{client: client, recorder: recorder, pageSize: size}
}

// Provider implements driven.ProviderAdapter.
func (a *Adapter) Provider() domain.ProviderID {
	return domain.ProviderNotion
}

// Search implements driven.ProviderAdapter. Archived pages are skipped.
func (a *Adapter) Search(ctx context.Context, query string) ([]domain.RawResult, error) {
	resp, err := a.client.Search.Do(ctx, &notionapi.SearchRequest{
		Query:    query,
		PageSize: a.pageSize,
	})
	if err != nil {
		return nil, a.classify(ctx, err)
	}

	results := make([]domain.RawResult, 0, len(resp.Results))
	for _, obj := range resp.Results {
		switch o := obj.(type) {
		case *notionapi.Page:
			if !o.Archived {
				results = append(results, PageToRawResult(o))
			}
		case *notionapi.Database:
			results = append(results, DatabaseToRawResult(o))
		}
	}
	return results, nil
}

func (a *Adapter) classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return rest.Classify(domain.ProviderNotion, "search", ctx.Err())
	}
	var apiErr *notionapi.Error
	if errors.As(err, &apiErr) && apiErr.Status != 0 {
		return rest.FromStatus(domain.ProviderNotion, "search", apiErr.Status, err)
	}
	return rest.FromStatus(domain.ProviderNotion, "search", a.recorder.LastStatus(), err)
}
