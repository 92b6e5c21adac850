package content

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads a Store when its backing file changes on disk.
// The parent directory is watched so that editors which replace the file
// by rename are still picked up.
type Watcher struct {
	store    *Store
	log      *zap.Logger
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onReload func(*Portfolio)

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher for the store's source file.
func NewWatcher(store *Store, log *zap.Logger) (*Watcher, error) {
	if store.Source() == "" {
		return nil, fmt.Errorf("store has no backing file to watch")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	abs, err := filepath.Abs(store.Source())
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("resolving %s: %w", store.Source(), err)
	}
	return &Watcher{
		store:    store,
		log:      log,
		watcher:  fw,
		path:     abs,
		debounce: 250 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// OnReload registers a callback run after every successful reload.
func (w *Watcher) OnReload(fn func(*Portfolio)) {
	w.mu.Lock()
	w.onReload = fn
	w.mu.Unlock()
}

// Start begins watching. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}
	w.running = true
	go w.run(ctx)
	w.log.Info("watching portfolio content", zap.String("path", w.path))
	return nil
}

// Stop ends the watch loop and releases the fsnotify handle. Safe to call
// more than once and before Start.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.running {
		w.running = false
		close(w.stopCh)
		w.mu.Unlock()
		<-w.doneCh
	} else {
		w.mu.Unlock()
	}
	_ = w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerCh = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("content watcher error", zap.Error(err))
		case <-timerCh:
			timerCh = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	if err := w.store.Reload(); err != nil {
		w.log.Error("portfolio reload failed, keeping previous revision", zap.Error(err))
		return
	}
	p := w.store.Current()
	w.log.Info("portfolio reloaded",
		zap.Int("projects", len(p.Projects)),
		zap.Int("skills", len(p.Skills)))

	w.mu.Lock()
	fn := w.onReload
	w.mu.Unlock()
	if fn != nil {
		fn(p)
	}
}
