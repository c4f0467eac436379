// Package quickbooks searches customers, vendors and invoices in one
// QuickBooks Online company.
//
// The Accounting API has no free-text search, so the adapter issues one
// query-language statement per entity type in parallel and merges the
// matches. The company (realm) id comes from the credential bundle's
// realm_id metadata.
package quickbooks

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/sercha-federated/internal/connectors/rest"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

const (
	// BaseURL is the production Accounting API root.
	BaseURL = "https://quickbooks.api.intuit.com"

	minorVersion      = "70"
	defaultMaxResults = 10

	// The API allows 500 requests per minute per realm.
	realmRate  = rate.Limit(500.0 / 60.0)
	realmBurst = 10
)

// Ensure Adapter implements the interface.
var _ driven.ProviderAdapter = (*Adapter)(nil)

// Adapter queries one company.
type Adapter struct {
	client     *rest.Client
	realmID    string
	maxResults int
}

// New builds an adapter from a credential bundle. The bundle must carry a
// realm_id.
func New(bundle domain.CredentialBundle, opts driven.AdapterOptions) (driven.ProviderAdapter, error) {
	realmID := bundle.MetadataValue(domain.MetadataRealmID)
	if realmID == "" {
		return nil, fmt.Errorf("%w: quickbooks requires %s", domain.ErrMalformedMetadata, domain.MetadataRealmID)
	}
	limiter := rest.SharedLimiter(opts.Limiters, "quickbooks/"+realmID, realmRate, realmBurst)
	client := rest.NewClient(domain.ProviderQuickBooks, BaseURL, rest.TokenSource(bundle), rest.WithLimiter(limiter))
	return NewWithClient(client, realmID, opts), nil
}

// NewWithClient builds an adapter around an existing client.
func NewWithClient(client *rest.Client, realmID string, opts driven.AdapterOptions) *Adapter {
	n := opts.MaxResults
	if n <= 0 {
		n = defaultMaxResults
	}
	return &Adapter{client: client, realmID: realmID, maxResults: n}
}

// Provider implements driven.ProviderAdapter.
func (a *Adapter) Provider() domain.ProviderID {
	return domain.ProviderQuickBooks
}

// Search implements driven.ProviderAdapter. Results are ordered customers,
// vendors, invoices and capped at the configured maximum.
func (a *Adapter) Search(ctx context.Context, query string) ([]domain.RawResult, error) {
	term := escapeLiteral(strings.TrimSpace(query))
	statements := []string{
		fmt.Sprintf("select * from %s where DisplayName like '%%%s%%' maxresults %d", EntityCustomer, term, a.maxResults),
		fmt.Sprintf("select * from %s where DisplayName like '%%%s%%' maxresults %d", EntityVendor, term, a.maxResults),
		fmt.Sprintf("select * from %s where DocNumber like '%%%s%%' maxresults %d", EntityInvoice, term, a.maxResults),
	}

	responses := make([]queryResponse, len(statements))
	g, gctx := errgroup.WithContext(ctx)
	for i, stmt := range statements {
		g.Go(func() error {
			return a.query(gctx, stmt, &responses[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var results []domain.RawResult
	for _, c := range responses[0].QueryResponse.Customer {
		if c.Active == nil || *c.Active {
			results = append(results, partyToRawResult(a.realmID, EntityCustomer, c))
		}
	}
	for _, v := range responses[1].QueryResponse.Vendor {
		if v.Active == nil || *v.Active {
			results = append(results, partyToRawResult(a.realmID, EntityVendor, v))
		}
	}
	for _, inv := range responses[2].QueryResponse.Invoice {
		results = append(results, invoiceToRawResult(a.realmID, inv))
	}

	if len(results) > a.maxResults {
		results = results[:a.maxResults]
	}
	if results == nil {
		results = []domain.RawResult{}
	}
	return results, nil
}

func (a *Adapter) query(ctx context.Context, stmt string, out *queryResponse) error {
	path := "/v3/company/" + url.PathEscape(a.realmID) + "/query"
	params := url.Values{
		"query":        {stmt},
		"minorversion": {minorVersion},
	}
	return a.client.GetJSON(ctx, "query", path, params, out)
}

// escapeLiteral escapes a value for a single-quoted query-language string.
// Wildcards in user input are dropped so they match literally nothing.
func escapeLiteral(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return strings.ReplaceAll(s, "%", "")
}
