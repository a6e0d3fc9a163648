package overlay

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher calls a function when the overlay file is replaced or edited
// by someone else. Bursts of events are collapsed into one call, and events
// that leave the file as the store last wrote it are dropped.
type Watcher struct {
	watcher  *fsnotify.Watcher
	store    *FileStore
	path     string
	onChange func()
	debounce time.Duration
	logger   *slog.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher watches the directory containing the store's file. Watching the
// directory rather than the file survives the rename done by atomic writes.
func NewWatcher(store *FileStore, onChange func(), logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	path := store.Path()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create overlay directory: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &Watcher{
		watcher:  fw,
		store:    store,
		path:     filepath.Clean(path),
		onChange: onChange,
		debounce: 200 * time.Millisecond,
		logger:   logger,
	}, nil
}

// Run delivers change notifications until ctx is cancelled, then closes
// the underlying watcher.
func (w *Watcher) Run(ctx context.Context) {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("overlay watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if w.store.Unchanged() {
			return
		}
		w.logger.Debug("overlay file changed", "path", w.path, "op", event.Op.String())
		w.onChange()
	})
}
