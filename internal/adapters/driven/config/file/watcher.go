package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/custodia-labs/sercha-federated/internal/logger"
)

// DefaultDebounce collapses the burst of events editors emit on save.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a ConfigStore when its file changes and notifies a callback.
// The parent directory is watched so editors that replace the file by rename
// are still seen.
type Watcher struct {
	store    *ConfigStore
	onChange func(*ConfigStore)
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// NewWatcher creates a watcher for store's file.
func NewWatcher(store *ConfigStore, onChange func(*ConfigStore)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(store.Path())); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(store.Path()), err)
	}
	return &Watcher{
		store:    store,
		onChange: onChange,
		watcher:  w,
		debounce: DefaultDebounce,
	}, nil
}

// SetDebounce overrides the debounce interval.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run processes events until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) {
	defer w.watcher.Close()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	target := filepath.Clean(w.store.Path())

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("Config change detected: %s %s", event.Op, event.Name)
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.With(zap.Error(err)).Warn("config watcher error")

		case <-timer.C:
			if err := w.store.Load(); err != nil {
				logger.With(zap.String("path", w.store.Path()), zap.Error(err)).Warn("config reload failed, keeping previous values")
				continue
			}
			w.onChange(w.store)

		case <-ctx.Done():
			return
		}
	}
}
