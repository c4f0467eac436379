// Package gmail searches a user's mailbox through the Gmail API.
package gmail

import (
	"context"
	"fmt"

	"google.golang.org/api/gmail/v1"

	"github.com/custodia-labs/sercha-federated/internal/connectors/google"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

const (
	defaultMaxResults = 10
	userID            = "me"
)

// Ensure Adapter implements the interface.
var _ driven.ProviderAdapter = (*Adapter)(nil)

// Adapter searches Gmail messages.
type Adapter struct {
	svc        *gmail.Service
	limiter    *google.RateLimiter
	maxResults int64
}

// New builds an adapter from a credential bundle.
func New(bundle domain.CredentialBundle, opts driven.AdapterOptions) (driven.ProviderAdapter, error) {
	svc, err := google.NewGmailService(context.Background(), google.NewTokenSource(bundle))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return NewWithService(svc, google.LimiterFor(opts.Limiters, google.ServiceGmail, bundle.UserID), opts), nil
}

// NewWithService builds an adapter around an existing service.
func NewWithService(svc *gmail.Service, limiter *google.RateLimiter, opts driven.AdapterOptions) *Adapter {
	n := int64(opts.MaxResults)
	if n <= 0 {
		n = defaultMaxResults
	}
	return &Adapter{svc: svc, limiter: limiter, maxResults: n}
}

// Provider implements driven.ProviderAdapter.
func (a *Adapter) Provider() domain.ProviderID {
	return domain.ProviderGmail
}

// Search lists messages matching query, then fetches each one's headers.
// Results keep Gmail's relevance order. Spam and trash are skipped.
func (a *Adapter) Search(ctx context.Context, query string) ([]domain.RawResult, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, google.WrapError(domain.ProviderGmail, "list", err)
	}
	list, err := a.svc.Users.Messages.List(userID).
		Q(query).
		MaxResults(a.maxResults).
		Context(ctx).
		Do()
	if err != nil {
		a.noteRateLimit(err)
		return nil, google.WrapError(domain.ProviderGmail, "list", err)
	}

	results := make([]domain.RawResult, 0, len(list.Messages))
	for _, ref := range list.Messages {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, google.WrapError(domain.ProviderGmail, "get", err)
		}
		msg, err := a.svc.Users.Messages.Get(userID, ref.Id).
			Format("metadata").
			MetadataHeaders(metadataHeaders...).
			Context(ctx).
			Do()
		if err != nil {
			a.noteRateLimit(err)
			return nil, google.WrapError(domain.ProviderGmail, "get", err)
		}
		if isSpamOrTrash(msg.LabelIds) {
			continue
		}
		results = append(results, MessageToRawResult(msg))
	}
	return results, nil
}

func (a *Adapter) noteRateLimit(err error) {
	if google.IsRateLimited(err) {
		a.limiter.RecordRateLimitError(0)
	}
}
