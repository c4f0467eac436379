package tui

import "errors"

// Errors returned by Ports.Validate and NewApp.
var (
	ErrInvalidPorts         = errors.New("tui: invalid ports configuration")
	ErrMissingSearchService = errors.New("tui: search service is required")
	ErrMissingHealthService = errors.New("tui: health service is required")
	ErrMissingUser          = errors.New("tui: user id is required")
)
