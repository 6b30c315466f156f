// Package watcher re-indexes documents as they change on disk, with fsnotify
// and per-file debouncing.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 400 * time.Millisecond

// Watcher watches the documents root and invokes onIndex for each file that
// settles after a create or write. Rapid successive writes to the same file
// collapse into one callback.
type Watcher struct {
	root     string
	match    func(path string) bool
	onIndex  func(path string)
	debounce time.Duration
	logger   *zap.Logger

	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	pending  map[string]*time.Timer
	done     chan struct{}
	started  bool
	stopOnce sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets a logger for event diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithDebounce overrides the settle delay before a changed file is indexed.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// New creates a watcher over root. match filters paths (nil accepts all);
// onIndex is called with each settled file path.
func New(root string, match func(path string) bool, onIndex func(path string), opts ...Option) *Watcher {
	w := &Watcher{
		root:     root,
		match:    match,
		onIndex:  onIndex,
		debounce: defaultDebounce,
		logger:   zap.NewNop(),
		pending:  make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching root and its subdirectories. Runs until ctx is
// cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.watcher = fsw
	w.started = true
	w.mu.Unlock()

	if err := w.addTree(w.root); err != nil {
		_ = fsw.Close()
		return err
	}
	w.logger.Debug("watcher started", zap.String("root", w.root))

	go w.run(ctx)
	return nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if err != nil {
				w.logger.Debug("watcher error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) {
		return
	}

	// a new directory needs watching; its existing files arrive as events
	if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
		if err := w.addTree(ev.Name); err != nil {
			w.logger.Debug("failed to watch new directory",
				zap.String("path", ev.Name), zap.Error(err))
		}
		return
	}

	if w.match != nil && !w.match(ev.Name) {
		return
	}
	w.schedule(ev.Name)
}

// schedule arms (or re-arms) the debounce timer for path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		w.logger.Debug("indexing changed file", zap.String("path", path))
		w.onIndex(path)
	})
}

// Stop stops the watcher and cancels pending debounce timers.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		for path, t := range w.pending {
			t.Stop()
			delete(w.pending, path)
		}
		fsw := w.watcher
		w.mu.Unlock()
		if fsw != nil {
			_ = fsw.Close()
		}
	})
}
