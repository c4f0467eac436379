package health

import "errors"

// ErrNoHealthService indicates that no health service was provided.
var ErrNoHealthService = errors.New("health service is required")
