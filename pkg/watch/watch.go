// Package watch re-runs a callback when files in watched directories change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 200 * time.Millisecond

// ChangeFunc receives the paths that changed since the last call, sorted.
type ChangeFunc func(ctx context.Context, paths []string) error

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a path must stay quiet before it is reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithFilter limits reported paths to those keep accepts. Generated files
// written next to the templates are usually filtered out this way.
func WithFilter(keep func(path string) bool) Option {
	return func(w *Watcher) {
		w.keep = keep
	}
}

// Watcher batches file system events on a set of directories.
type Watcher struct {
	mu       sync.Mutex
	fs       *fsnotify.Watcher
	onChange ChangeFunc
	debounce time.Duration
	logger   *zap.Logger
	keep     func(string) bool
	pending  map[string]time.Time
}

// New starts watching dirs. Events are only delivered once Run is called.
func New(onChange ChangeFunc, dirs []string, options ...Option) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("watch: change callback is required")
	}
	if len(dirs) == 0 {
		return nil, errors.New("watch: at least one directory is required")
	}

	w := &Watcher{
		onChange: onChange,
		debounce: defaultDebounce,
		logger:   zap.NewNop(),
		pending:  make(map[string]time.Time),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch: add %s: %w", dir, err)
		}
		w.logger.Debug("watching directory", zap.String("dir", dir))
	}
	w.fs = fsw
	return w, nil
}

// Run delivers debounced changes until ctx is cancelled. Callback errors are
// logged and watching continues. Run closes the watcher before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	tick := w.debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	if w.keep != nil && !w.keep(event.Name) {
		return
	}
	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// flush reports pending paths once every one of them has been quiet for the
// debounce window, so a burst of saves yields a single callback.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	now := time.Now()
	for _, at := range w.pending {
		if now.Sub(at) < w.debounce {
			w.mu.Unlock()
			return
		}
	}
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]time.Time)
	w.mu.Unlock()

	sort.Strings(paths)
	w.logger.Debug("change detected", zap.Strings("paths", paths))
	if err := w.onChange(ctx, paths); err != nil {
		w.logger.Error("change callback failed", zap.Error(err))
	}
}
