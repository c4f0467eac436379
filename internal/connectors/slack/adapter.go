// Package slack searches the messages visible to a Slack user token.
//
// search.messages only accepts user tokens (xoxp-). Failures are reported
// in the body with HTTP 200 and ok:false, so the adapter maps the error
// string onto the provider error classes.
package slack

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
	// BaseURL is the Web API root.
	BaseURL = "https://slack.com/api"

	searchPath   = "/search.messages"
	defaultCount = 10

	// search.messages is a Tier 2 method: about 20 requests per minute.
	tierRate  = rate.Limit(20.0 / 60.0)
	tierBurst = 3
)

// Ensure Adapter implements the interface.
var _ driven.ProviderAdapter = (*Adapter)(nil)

// Adapter searches messages.
type Adapter struct {
	client *rest.Client
	count  int
}

// New builds an adapter from a credential bundle.
func New(bundle domain.CredentialBundle, opts driven.AdapterOptions) (driven.ProviderAdapter, error) {
	limiter := rest.SharedLimiter(opts.Limiters, "slack/"+bundle.UserID, tierRate, tierBurst)
	client := rest.NewClient(domain.ProviderSlack, BaseURL, rest.TokenSource(bundle), rest.WithLimiter(limiter))
	return NewWithClient(client, opts), nil
}

// NewWithClient builds an adapter around an existing client.
func NewWithClient(client *rest.Client, opts driven.AdapterOptions) *Adapter {
	count := opts.MaxResults
	if count <= 0 {
		count = defaultCount
	}
	return &Adapter{client: client, count: count}
}

// Provider implements driven.ProviderAdapter.
func (a *Adapter) Provider() domain.ProviderID {
	return domain.ProviderSlack
}

// Search implements driven.ProviderAdapter.
func (a *Adapter) Search(ctx context.Context, query string) ([]domain.RawResult, error) {
	params := url.Values{
		"query":     {query},
		"count":     {strconv.Itoa(a.count)},
		"sort":      {"timestamp"},
		"sort_dir":  {"desc"},
		"highlight": {"false"},
	}

	var resp searchResponse
	if err := a.client.GetJSON(ctx, "search", searchPath, params, &resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, domain.NewProviderError(domain.ProviderSlack, "search", apiError(resp.Error))
	}

	results := make([]domain.RawResult, 0, len(resp.Messages.Matches))
	for _, m := range resp.Messages.Matches {
		results = append(results, messageToRawResult(m))
	}
	return results, nil
}

// apiError maps a Slack error string onto a provider error sentinel.
func apiError(code string) error {
	var sentinel error
	switch code {
	case "invalid_auth", "not_authed", "token_expired", "token_revoked",
		"account_inactive", "missing_scope", "not_allowed_token_type":
		sentinel = domain.ErrAuthExpired
	case "ratelimited":
		sentinel = domain.ErrRateLimited
	case "request_timeout":
		sentinel = domain.ErrDeadline
	case "":
		return fmt.Errorf("%w: slack: ok=false without error", domain.ErrMalformedPayload)
	default:
		sentinel = domain.ErrTransport
	}
	return fmt.Errorf("%w: slack: %s", sentinel, code)
}
