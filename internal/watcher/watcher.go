// Package watcher provides corpus directory watching with fsnotify and
// per-root debouncing. Any change under a root triggers that root's rebuild
// callback once the directory settles; the callback reloads and re-embeds
// the whole tier so items and vectors are always swapped together.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 2 * time.Second

// Watcher watches corpus roots and invokes a rebuild callback per root.
type Watcher struct {
	roots    map[string]func() // root -> rebuild callback
	debounce time.Duration
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	timers   map[string]*time.Timer // root -> pending rebuild
	done     chan struct{}
	started  bool
	stopOnce sync.Once
	logger   *zap.Logger
}

// New creates a watcher. Each root directory maps to the callback that
// rebuilds its tier. debounce <= 0 uses the default.
func New(roots map[string]func(), debounce time.Duration, logger *zap.Logger) *Watcher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Watcher{
		roots:    roots,
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// Start starts the watcher. It runs until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.watcher = watcher
	w.started = true
	for root := range w.roots {
		if err := w.addRootLocked(root); err != nil {
			_ = w.watcher.Close()
			w.watcher = nil
			w.started = false
			w.mu.Unlock()
			return err
		}
	}
	events, errs := watcher.Events, watcher.Errors
	w.mu.Unlock()
	w.logger.Debug("watcher started", zap.Int("roots", len(w.roots)))
	go w.run(ctx, events, errs)
	return nil
}

// run consumes the channels captured at Start; Stop nils w.watcher under
// the mutex, so the loop must not read it.
func (w *Watcher) run(ctx context.Context, events chan fsnotify.Event, errs chan error) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-errs:
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
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	root := w.rootOf(ev.Name)
	if root == "" {
		return
	}
	w.logger.Debug("watcher event", zap.String("op", ev.Op.String()), zap.String("path", ev.Name))

	// A new subdirectory needs its own watch before its files show up.
	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			w.mu.Lock()
			if w.watcher != nil {
				_ = w.watcher.Add(ev.Name)
			}
			w.mu.Unlock()
		}
	}

	w.scheduleRebuild(root)
}

// rootOf returns the configured root containing path, or "".
func (w *Watcher) rootOf(path string) string {
	clean := filepath.Clean(path)
	for root := range w.roots {
		rootClean := filepath.Clean(root)
		if rootClean == clean || inDir(rootClean, clean) {
			return root
		}
	}
	return ""
}

func inDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// scheduleRebuild arms or resets the root's debounce timer. Bursts of
// events collapse into a single rebuild after the directory goes quiet.
func (w *Watcher) scheduleRebuild(root string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[root]; ok {
		t.Stop()
	}
	rebuild := w.roots[root]
	w.timers[root] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, root)
		w.mu.Unlock()
		w.logger.Info("corpus changed, rebuilding tier", zap.String("root", root))
		rebuild()
	})
}

func (w *Watcher) addRootLocked(root string) error {
	root = filepath.Clean(root)
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(root, 0755); err != nil {
				return err
			}
		} else {
			return err
		}
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

// Stop stops the watcher and releases resources.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started || w.watcher == nil {
		w.mu.Unlock()
		return
	}
	for root, t := range w.timers {
		t.Stop()
		delete(w.timers, root)
	}
	_ = w.watcher.Close()
	w.watcher = nil
	w.started = false
	w.mu.Unlock()
	w.stopOnce.Do(func() { close(w.done) })
}
