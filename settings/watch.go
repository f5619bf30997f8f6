package settings

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads a definitions file into a store when the file changes.
// Rapid successive writes are debounced.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	store    *InMemoryStore
	path     string
	debounce time.Duration
	logger   *zap.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	stopped  bool
}

// WatcherOptions configures a Watcher.
type WatcherOptions struct {
	// Debounce is the quiet period after an event before reloading.
	// Defaults to 250ms.
	Debounce time.Duration
	// Logger receives structured diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// NewWatcher creates a watcher for the definitions file at path feeding
// store. Call Start to begin watching and Stop to release the underlying
// fsnotify watcher.
func NewWatcher(path string, store *InMemoryStore, opts WatcherOptions) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	debounce := opts.Debounce
	if debounce == 0 {
		debounce = 250 * time.Millisecond
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Watcher{
		watcher:  fsw,
		store:    store,
		path:     filepath.Clean(path),
		debounce: debounce,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the watch loop runs in a goroutine
// until Stop is called or ctx is cancelled. Watching the directory rather
// than the file itself survives editors that replace the file on save.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}

	go w.loop(ctx)
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.doneCh)

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerCh = timer.C
		case <-timerCh:
			timerCh = nil
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("definitions watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	defs, err := Load(w.path)
	if err != nil {
		w.logger.Warn("definitions reload failed",
			zap.String("path", w.path), zap.Error(err))
		return
	}
	w.store.ReplaceDefinitions(defs)
	w.logger.Info("definitions reloaded",
		zap.String("path", w.path), zap.Int("settings", len(defs)))
}

// Stop ends the watch loop and closes the underlying watcher. It releases
// the watcher even when Start was never called, and is safe to call more
// than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	wasRunning := w.running
	w.running = false
	if wasRunning {
		close(w.stopCh)
	}
	w.mu.Unlock()

	if wasRunning {
		<-w.doneCh
	}
	return w.watcher.Close()
}
