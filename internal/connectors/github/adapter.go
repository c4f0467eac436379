package github

import (
	"context"
	"strings"

	"github.com/custodia-labs/sercha-federated/internal/connectors/rest"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

const defaultPerPage = 10

// Ensure Adapter implements the interface.
var _ driven.ProviderAdapter = (*Adapter)(nil)

// Adapter searches issues and pull requests.
type Adapter struct {
	client  *Client
	account string
	perPage int
}

// New builds an adapter from a credential bundle.
func New(bundle domain.CredentialBundle, opts driven.AdapterOptions) (driven.ProviderAdapter, error) {
	client := NewClient(rest.TokenSource(bundle), LimiterFor(opts.Limiters, bundle.UserID))
	return NewWithClient(client, bundle.MetadataValue(domain.MetadataAccount), opts), nil
}

// NewWithClient builds an adapter around an existing client. A non-empty
// account narrows results to items the account is involved in.
func NewWithClient(client *Client, account string, opts driven.AdapterOptions) *Adapter {
	perPage := opts.MaxResults
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	return &Adapter{client: client, account: account, perPage: perPage}
}

// Provider implements driven.ProviderAdapter.
func (a *Adapter) Provider() domain.ProviderID {
	return domain.ProviderGitHub
}

// Search implements driven.ProviderAdapter.
func (a *Adapter) Search(ctx context.Context, query string) ([]domain.RawResult, error) {
	issues, err := a.client.SearchIssues(ctx, a.searchQuery(query), a.perPage)
	if err != nil {
		return nil, err
	}
	results := make([]domain.RawResult, 0, len(issues))
	for _, issue := range issues {
		if issue == nil {
			continue
		}
		results = append(results, IssueToRawResult(issue))
	}
	return results, nil
}

func (a *Adapter) searchQuery(query string) string {
	q := strings.TrimSpace(query)
	if a.account != "" {
		q += " involves:" + a.account
	}
	return q
}
