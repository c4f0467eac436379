// Package llmhttp is the JSON-over-HTTP plumbing shared by the LLM backends
// that have no Go SDK in this module (Anthropic and Ollama).
package llmhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-federated/internal/logger"
)

const maxErrorBody = 4096

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	Backend string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: API returned status %d", e.Backend, e.Code)
	}
	return fmt.Sprintf("%s: API returned status %d: %s", e.Backend, e.Code, e.Message)
}

// Client sends JSON requests to one backend.
type Client struct {
	name    string
	baseURL string
	http    *http.Client
	header  http.Header

	// ErrorMessage pulls a readable message out of an error body. When it
	// is nil or returns "", the trimmed body is used.
	ErrorMessage func(body []byte) string
}

// New returns a client for name rooted at baseURL. timeout bounds a single
// exchange; the caller's context deadline still applies.
func New(name, baseURL string, timeout time.Duration) *Client {
	return &Client{
		name:    name,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		header:  make(http.Header),
	}
}

// SetHeader adds a header sent with every request.
func (c *Client) SetHeader(key, value string) { c.header.Set(key, value) }

func (c *Client) BaseURL() string { return c.baseURL }

// Do sends in as the JSON body (nil for none) and decodes a 2xx reply into
// out (nil to discard it).
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	body := io.Reader(http.NoBody)
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", c.name, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", c.name, err)
	}
	for k, v := range c.header {
		req.Header[k] = v
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: not reachable at %s: %w", c.name, c.baseURL, err)
	}
	defer resp.Body.Close()
	logger.Debug("%s %s %s: %d in %s", c.name, method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.name, err)
	}
	return nil
}

func (c *Client) statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := ""
	if c.ErrorMessage != nil {
		msg = c.ErrorMessage(raw)
	}
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}
	return &StatusError{Backend: c.name, Code: resp.StatusCode, Message: msg}
}
