package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federated/internal/logger"
	"github.com/custodia-labs/sercha-federated/internal/metrics"
)

const analyticsWriteTimeout = 2 * time.Second

// AnalyticsRecorder is a best-effort side channel for search events.
// Enqueue never blocks: when the queue is full the event is dropped.
// Store errors are logged and otherwise ignored.
type AnalyticsRecorder struct {
	store  driven.SearchHistoryStore
	events chan domain.SearchEvent

	closeOnce sync.Once
	done      chan struct{}
}

// NewAnalyticsRecorder starts a recorder with a queue of the given size.
// A nil store yields a recorder that drops everything.
func NewAnalyticsRecorder(store driven.SearchHistoryStore, size int) *AnalyticsRecorder {
	if size <= 0 {
		size = 1
	}
	r := &AnalyticsRecorder{
		store:  store,
		events: make(chan domain.SearchEvent, size),
		done:   make(chan struct{}),
	}
	go r.run()
	return r
}

// Enqueue submits an event without blocking. It returns false if the event
// was dropped.
func (r *AnalyticsRecorder) Enqueue(event domain.SearchEvent) (queued bool) {
	if r.store == nil {
		return false
	}
	// Sending on a closed channel panics; a closed recorder just drops.
	defer func() {
		if recover() != nil {
			queued = false
		}
	}()
	select {
	case r.events <- event:
		return true
	default:
		metrics.AnalyticsDropped.Inc()
		logger.Debug("Analytics queue full, dropping event for request %s", event.RequestID)
		return false
	}
}

func (r *AnalyticsRecorder) run() {
	defer close(r.done)
	for event := range r.events {
		r.write(event)
	}
}

func (r *AnalyticsRecorder) write(event domain.SearchEvent) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Warn("analytics write panicked: %v", rec)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), analyticsWriteTimeout)
	defer cancel()
	if err := r.store.RecordSearch(ctx, event); err != nil {
		logger.With(
			zap.String("op", "record_search"),
			zap.String("request_id", event.RequestID),
		).Warn("analytics write failed", zap.Error(err))
	}
}

// Close stops accepting events and waits for queued ones to be written or
// for ctx to expire.
func (r *AnalyticsRecorder) Close(ctx context.Context) error {
	r.closeOnce.Do(func() { close(r.events) })
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
