package driving

import (
	"context"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// SearchService runs a federated search for one user.
type SearchService interface {
	// Search validates the request, fans the query out to every connected
	// provider and returns the ranked envelope. Only validation,
	// authentication and no-provider errors are returned; provider and AI
	// failures degrade into the response.
	Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error)
}
