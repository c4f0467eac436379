// Package github searches GitHub issues and pull requests visible to the
// authenticated user.
//
// # Components
//
//   - Adapter: the driven.ProviderAdapter built from a credential bundle
//   - Client: wraps go-github with rate limiting and error classification
//   - RateLimiter: proactive token bucket plus the X-RateLimit-* headers
//
// # Authentication
//
// The bundle's access secret is sent as a bearer token. Both OAuth App
// tokens and personal access tokens work. Authenticated users get 5,000
// requests per hour; the search endpoint has its own lower limit of 30
// requests per minute, which the limiter respects through the response
// headers.
//
// # Scope
//
// When the bundle carries an "account" metadata value the search is
// narrowed with involves:<login>, so results are items the user authored,
// was assigned, was mentioned in or commented on.
package github
