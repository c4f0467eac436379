// Package drive searches a user's Google Drive.
package drive

import (
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/sercha-federated/internal/connectors/google"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

const defaultMaxResults = 10

// Ensure Adapter implements the interface.
var _ driven.ProviderAdapter = (*Adapter)(nil)

// Adapter searches Drive files by full text.
type Adapter struct {
	svc        *drive.Service
	limiter    *google.RateLimiter
	maxResults int64
}

// New builds an adapter from a credential bundle.
func New(bundle domain.CredentialBundle, opts driven.AdapterOptions) (driven.ProviderAdapter, error) {
	svc, err := google.NewDriveService(context.Background(), google.NewTokenSource(bundle))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return NewWithService(svc, google.LimiterFor(opts.Limiters, google.ServiceDrive, bundle.UserID), opts), nil
}

// NewWithService builds an adapter around an existing service.
func NewWithService(svc *drive.Service, limiter *google.RateLimiter, opts driven.AdapterOptions) *Adapter {
	n := int64(opts.MaxResults)
	if n <= 0 {
		n = defaultMaxResults
	}
	return &Adapter{svc: svc, limiter: limiter, maxResults: n}
}

// Provider implements driven.ProviderAdapter.
func (a *Adapter) Provider() domain.ProviderID {
	return domain.ProviderGoogleDrive
}

// Search runs a single Files.list call. Drive orders full-text matches
// by relevance.
func (a *Adapter) Search(ctx context.Context, query string) ([]domain.RawResult, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, google.WrapError(domain.ProviderGoogleDrive, "list", err)
	}
	list, err := a.svc.Files.List().
		Q(searchQuery(query)).
		PageSize(a.maxResults).
		Fields(googleapi.Field(listFields)).
		Context(ctx).
		Do()
	if err != nil {
		if google.IsRateLimited(err) {
			a.limiter.RecordRateLimitError(0)
		}
		return nil, google.WrapError(domain.ProviderGoogleDrive, "list", err)
	}

	results := make([]domain.RawResult, 0, len(list.Files))
	for _, f := range list.Files {
		results = append(results, FileToRawResult(f))
	}
	return results, nil
}
