// Package mcp serves federated search and provider health to AI assistants
// over the Model Context Protocol.
package mcp

import "errors"

// Errors returned by Ports.Validate.
var (
	ErrMissingSearchService = errors.New("mcp: search service is required")
	ErrMissingHealthService = errors.New("mcp: health service is required")
	ErrMissingUser          = errors.New("mcp: user id is required")
)
