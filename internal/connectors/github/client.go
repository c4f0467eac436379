package github

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/sercha-federated/internal/connectors/rest"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Client wraps the go-github client with helper methods.
type Client struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
}

// NewClient creates a client that authenticates with ts.
func NewClient(ts oauth2.TokenSource, limiter *RateLimiter) *Client {
	return NewClientWithHTTPClient(rest.OAuthClient(ts, &http.Client{Timeout: DefaultTimeout}), limiter)
}

// NewClientWithHTTPClient creates a GitHub client with a custom http.Client.
func NewClientWithHTTPClient(httpClient *http.Client, limiter *RateLimiter) *Client {
	if limiter == nil {
		limiter = NewRateLimiter()
	}
	return &Client{
		gh:          gh.NewClient(httpClient),
		rateLimiter: limiter,
	}
}

// SetBaseURL points the client at another API root, such as GitHub
// Enterprise or a test server. The URL must end with a slash.
func (c *Client) SetBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	c.gh.BaseURL = u
	return nil
}

// GitHub returns the underlying go-github client.
func (c *Client) GitHub() *gh.Client {
	return c.gh
}

// SearchIssues runs an issue search and returns one page of matches.
// Pull requests are included; callers tell them apart with IsPullRequest.
func (c *Client) SearchIssues(ctx context.Context, query string, perPage int) ([]*gh.Issue, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, c.wrapError(err, "search issues")
	}

	opts := &gh.SearchOptions{
		Sort:        "updated",
		Order:       "desc",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}
	result, resp, err := c.gh.Search.Issues(ctx, query, opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, "search issues")
	}
	return result.Issues, nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// updateRateLimitFromResponse updates the rate limiter from GitHub response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to classified provider errors.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var rateLimitErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &rateLimitErr) || errors.As(err, &abuseErr) {
		err = &RateLimitError{Quota: c.rateLimiter.Quota()}
		return domain.NewProviderError(domain.ProviderGitHub, operation, err)
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		return domain.NewProviderError(domain.ProviderGitHub, operation, apiErr)
	}

	return rest.Classify(domain.ProviderGitHub, operation, err)
}
