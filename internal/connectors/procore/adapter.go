// Package procore searches the projects of one Procore company.
//
// Every Procore request is scoped to a company: the id comes from the
// credential bundle's company_id metadata and is sent both as a query
// parameter and in the Procore-Company-Id header.
package procore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/sercha-federated/internal/connectors/rest"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

const (
	// BaseURL is the production API root.
	BaseURL = "https://api.procore.com"

	// HeaderCompanyID scopes a request to one company.
	HeaderCompanyID = "Procore-Company-Id"

	projectsPath   = "/rest/v1.0/projects"
	defaultPerPage = 10

	// 3,600 requests per hour per token.
	tokenRate  = rate.Limit(1)
	tokenBurst = 5
)

// Ensure Adapter implements the interface.
var _ driven.ProviderAdapter = (*Adapter)(nil)

// Adapter searches projects.
type Adapter struct {
	client    *rest.Client
	companyID string
	perPage   int
}

// New builds an adapter from a credential bundle. The bundle must carry a
// company_id.
func New(bundle domain.CredentialBundle, opts driven.AdapterOptions) (driven.ProviderAdapter, error) {
	companyID := bundle.MetadataValue(domain.MetadataCompanyID)
	if companyID == "" {
		return nil, fmt.Errorf("%w: procore requires %s", domain.ErrMalformedMetadata, domain.MetadataCompanyID)
	}
	limiter := rest.SharedLimiter(opts.Limiters, "procore/"+bundle.UserID, tokenRate, tokenBurst)
	client := rest.NewClient(domain.ProviderProcore, BaseURL, rest.TokenSource(bundle),
		rest.WithLimiter(limiter),
		rest.WithHeader(HeaderCompanyID, companyID))
	return NewWithClient(client, companyID, opts), nil
}

// NewWithClient builds an adapter around an existing client. The client
// must already send the company header.
func NewWithClient(client *rest.Client, companyID string, opts driven.AdapterOptions) *Adapter {
	perPage := opts.MaxResults
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	return &Adapter{client: client, companyID: companyID, perPage: perPage}
}

// Provider implements driven.ProviderAdapter.
func (a *Adapter) Provider() domain.ProviderID {
	return domain.ProviderProcore
}

// Search implements driven.ProviderAdapter.
func (a *Adapter) Search(ctx context.Context, query string) ([]domain.RawResult, error) {
	params := url.Values{
		"company_id":      {a.companyID},
		"filters[search]": {query},
		"per_page":        {strconv.Itoa(a.perPage)},
		"page":            {"1"},
	}

	var projects []project
	if err := a.client.GetJSON(ctx, "list projects", projectsPath, params, &projects); err != nil {
		return nil, err
	}

	results := make([]domain.RawResult, 0, len(projects))
	for _, p := range projects {
		if p.ID == 0 {
			continue
		}
		results = append(results, projectToRawResult(a.companyID, p))
	}
	return results, nil
}
