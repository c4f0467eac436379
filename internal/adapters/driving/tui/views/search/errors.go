package search

import "errors"

// ErrNoSearchService is reported when a query is submitted without a search service.
var ErrNoSearchService = errors.New("search service is required")
