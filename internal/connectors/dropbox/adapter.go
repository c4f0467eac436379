// Package dropbox searches a user's Dropbox files by name and content.
package dropbox

import (
	"context"
	"net/http"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/sercha-federated/internal/connectors/rest"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

const defaultMaxResults = 10

// Ensure Adapter implements the interface.
var _ driven.ProviderAdapter = (*Adapter)(nil)

// Adapter searches files with the search_v2 endpoint.
type Adapter struct {
	ts         oauth2.TokenSource
	base       http.RoundTripper
	maxResults uint64
}

// New builds an adapter from a credential bundle.
func New(bundle domain.CredentialBundle, opts driven.AdapterOptions) (driven.ProviderAdapter, error) {
	return NewWithTransport(rest.TokenSource(bundle), nil, opts), nil
}

// NewWithTransport builds an adapter that sends requests through base.
// A nil base uses http.DefaultTransport.
func NewWithTransport(ts oauth2.TokenSource, base http.RoundTripper, opts driven.AdapterOptions) *Adapter {
	n := uint64(defaultMaxResults)
	if opts.MaxResults > 0 {
		n = uint64(opts.MaxResults)
	}
	return &Adapter{ts: ts, base: base, maxResults: n}
}

// Provider implements driven.ProviderAdapter.
func (a *Adapter) Provider() domain.ProviderID {
	return domain.ProviderDropbox
}

// Search implements driven.ProviderAdapter. Folders and deleted entries
// are skipped.
func (a *Adapter) Search(ctx context.Context, query string) ([]domain.RawResult, error) {
	// The SDK hides status codes and takes no context, so the transport
	// records the status and carries the deadline.
	recorder := &rest.StatusRecorder{Base: &rest.ContextTransport{Ctx: ctx, Base: a.base}}
	client := files.New(dropbox.Config{
		LogLevel: dropbox.LogOff,
		Client:   rest.OAuthClient(a.ts, &http.Client{Transport: recorder, Timeout: rest.DefaultTimeout}),
	})

	arg := files.NewSearchV2Arg(query)
	searchOpts := files.NewSearchOptions()
	searchOpts.MaxResults = a.maxResults
	arg.Options = searchOpts

	res, err := client.SearchV2(arg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, rest.Classify(domain.ProviderDropbox, "search", ctx.Err())
		}
		return nil, rest.FromStatus(domain.ProviderDropbox, "search", recorder.LastStatus(), err)
	}

	results := make([]domain.RawResult, 0, len(res.Matches))
	for _, match := range res.Matches {
		if match == nil || match.Metadata == nil {
			continue
		}
		file, ok := match.Metadata.Metadata.(*files.FileMetadata)
		if !ok || file == nil {
			continue
		}
		results = append(results, FileToRawResult(file))
	}
	return results, nil
}
