package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

// Ensure SearchHistoryStore implements the interface.
var _ driven.SearchHistoryStore = (*SearchHistoryStore)(nil)

// DefaultHistoryCapacity is how many events are kept per user.
const DefaultHistoryCapacity = 100

// SearchHistoryStore keeps the most recent search events per user in memory.
type SearchHistoryStore struct {
	mu       sync.RWMutex
	capacity int
	events   map[string][]domain.SearchEvent
}

// NewSearchHistoryStore creates a store that keeps up to capacity events
// per user. A non-positive capacity uses DefaultHistoryCapacity.
func NewSearchHistoryStore(capacity int) *SearchHistoryStore {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &SearchHistoryStore{
		capacity: capacity,
		events:   make(map[string][]domain.SearchEvent),
	}
}

// RecordSearch appends an event, evicting the oldest once full.
func (s *SearchHistoryStore) RecordSearch(_ context.Context, e domain.SearchEvent) error {
	if e.UserID == "" || e.Query == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := append(s.events[e.UserID], e)
	if len(list) > s.capacity {
		list = list[len(list)-s.capacity:]
	}
	s.events[e.UserID] = list
	return nil
}

// RecentSearches returns distinct queries, newest first.
// Events are ordered by insertion, which matches completion order.
func (s *SearchHistoryStore) RecentSearches(_ context.Context, userID string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.events[userID]
	seen := make(map[string]bool)
	var result []string
	for i := len(list) - 1; i >= 0 && len(result) < limit; i-- {
		q := list[i].Query
		if seen[q] {
			continue
		}
		seen[q] = true
		result = append(result, q)
	}
	return result, nil
}

// Events returns a copy of the user's recorded events, oldest first.
func (s *SearchHistoryStore) Events(userID string) []domain.SearchEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.SearchEvent(nil), s.events[userID]...)
}
