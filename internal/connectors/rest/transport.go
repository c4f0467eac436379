package rest

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// DefaultTimeout bounds a single HTTP exchange when the caller's context
// carries no deadline.
const DefaultTimeout = 15 * time.Second

// TokenSource returns a static token source for a credential bundle.
// Refreshing is the credential store's concern, so the token is used as is.
func TokenSource(b domain.CredentialBundle) oauth2.TokenSource {
	tok := &oauth2.Token{
		AccessToken:  b.AccessSecret,
		RefreshToken: b.RefreshSecret,
		TokenType:    "Bearer",
	}
	if b.ExpiresAt != nil {
		tok.Expiry = *b.ExpiresAt
	}
	return oauth2.StaticTokenSource(tok)
}

// OAuthClient returns an http.Client that authenticates with ts on top of base.
// A nil base uses http.DefaultTransport.
func OAuthClient(ts oauth2.TokenSource, base *http.Client) *http.Client {
	if base == nil {
		base = &http.Client{Timeout: DefaultTimeout}
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	return oauth2.NewClient(ctx, ts)
}

// StatusRecorder is a RoundTripper that remembers the last response status.
// SDK clients that hide HTTP status codes behind their own error types use
// it so failures can still be classified.
type StatusRecorder struct {
	Base http.RoundTripper
	last atomic.Int32
}

// RoundTrip implements http.RoundTripper.
func (s *StatusRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	base := s.Base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	if resp != nil {
		s.last.Store(int32(resp.StatusCode))
	}
	return resp, err
}

// LastStatus returns the most recent status code, or 0 if none was seen.
func (s *StatusRecorder) LastStatus() int {
	return int(s.last.Load())
}

// ContextTransport binds every request to ctx. SDKs whose calls take no
// context use it so the caller's deadline still cancels the exchange.
type ContextTransport struct {
	Ctx  context.Context
	Base http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (c *ContextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := c.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req.WithContext(c.Ctx))
}
