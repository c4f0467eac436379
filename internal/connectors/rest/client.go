// Package rest is a small JSON-over-HTTP client shared by the providers that
// have no Go SDK (Slack, QuickBooks, Procore).
//
// Every request waits on a token-bucket limiter, retries 5xx and network
// failures with exponential backoff inside the caller's deadline, and
// converts failures into *domain.ProviderError values.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

const (
	// DefaultRetries is the number of retries after the first attempt.
	DefaultRetries = 2

	// DefaultRetryInterval is the initial backoff interval.
	DefaultRetryInterval = 200 * time.Millisecond

	maxErrorBody = 2048
)

// Client calls one provider's REST API.
type Client struct {
	provider      domain.ProviderID
	baseURL       string
	http          *http.Client
	limiter       *rate.Limiter
	retries       uint64
	retryInterval time.Duration
	header        http.Header
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the base client the OAuth transport wraps.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLimiter sets the request limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithRetries sets the retry budget and initial interval.
func WithRetries(n uint64, interval time.Duration) Option {
	return func(c *Client) {
		c.retries = n
		c.retryInterval = interval
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.header.Set(key, value) }
}

// NewClient creates a client for provider rooted at baseURL.
func NewClient(provider domain.ProviderID, baseURL string, ts oauth2.TokenSource, opts ...Option) *Client {
	c := &Client{
		provider:      provider,
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		limiter:       rate.NewLimiter(rate.Inf, 0),
		retries:       DefaultRetries,
		retryInterval: DefaultRetryInterval,
		header:        make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = OAuthClient(ts, c.http)
	c.header.Set("Accept", "application/json")
	return c
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetJSON issues a GET for path with query and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, op, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	attempt := 0
	call := func() error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
		if err != nil {
			return backoff.Permanent(err)
		}
		for k, v := range c.header {
			req.Header[k] = v
		}
		return c.do(ctx, req, out)
	}

	notify := func(err error, wait time.Duration) {
		logger.Debug("%s %s: attempt %d failed (%v), retrying in %s", c.provider, op, attempt, err, wait)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryInterval
	policy.MaxElapsedTime = 0
	err := backoff.RetryNotify(call, backoff.WithContext(backoff.WithMaxRetries(policy, c.retries), ctx), notify)
	return Classify(c.provider, op, err)
}

func (c *Client) do(ctx context.Context, req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			return backoff.Permanent(&StatusError{StatusCode: http.StatusUnauthorized, Body: "token rejected"})
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		serr := &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
		if resp.StatusCode >= 500 {
			return serr
		}
		return backoff.Permanent(serr)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(&DecodeError{Err: err})
	}
	return nil
}
