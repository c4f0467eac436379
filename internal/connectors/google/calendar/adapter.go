// Package calendar searches a user's primary Google Calendar.
package calendar

import (
	"context"
	"fmt"

	"google.golang.org/api/calendar/v3"

	"github.com/custodia-labs/sercha-federated/internal/connectors/google"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

const (
	defaultMaxResults = 10
	primaryCalendar   = "primary"
)

// Ensure Adapter implements the interface.
var _ driven.ProviderAdapter = (*Adapter)(nil)

// Adapter searches calendar events by free text.
type Adapter struct {
	svc        *calendar.Service
	limiter    *google.RateLimiter
	maxResults int64
}

// New builds an adapter from a credential bundle.
func New(bundle domain.CredentialBundle, opts driven.AdapterOptions) (driven.ProviderAdapter, error) {
	svc, err := google.NewCalendarService(context.Background(), google.NewTokenSource(bundle))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return NewWithService(svc, google.LimiterFor(opts.Limiters, google.ServiceCalendar, bundle.UserID), opts), nil
}

// NewWithService builds an adapter around an existing service.
func NewWithService(svc *calendar.Service, limiter *google.RateLimiter, opts driven.AdapterOptions) *Adapter {
	n := int64(opts.MaxResults)
	if n <= 0 {
		n = defaultMaxResults
	}
	return &Adapter{svc: svc, limiter: limiter, maxResults: n}
}

// Provider implements driven.ProviderAdapter.
func (a *Adapter) Provider() domain.ProviderID {
	return domain.ProviderGoogleCalendar
}

// Search lists events matching query. Recurring events are expanded so each
// occurrence carries its own start time. Cancelled events are skipped.
func (a *Adapter) Search(ctx context.Context, query string) ([]domain.RawResult, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, google.WrapError(domain.ProviderGoogleCalendar, "list", err)
	}
	events, err := a.svc.Events.List(primaryCalendar).
		Q(query).
		MaxResults(a.maxResults).
		SingleEvents(true).
		Context(ctx).
		Do()
	if err != nil {
		if google.IsRateLimited(err) {
			a.limiter.RecordRateLimitError(0)
		}
		return nil, google.WrapError(domain.ProviderGoogleCalendar, "list", err)
	}

	results := make([]domain.RawResult, 0, len(events.Items))
	for _, ev := range events.Items {
		if ev == nil || ev.Id == "" || ev.Status == "cancelled" {
			continue
		}
		results = append(results, EventToRawResult(ev, primaryCalendar))
	}
	return results, nil
}
