// Package watcher reports changes to tree documents on disk. Events that
// arrive in a burst are collected until the files have been quiet for the
// configured delay and then handed over as one batch.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/conneroisu/tagtree/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// Op is what happened to a file.
type Op int

const (
	OpWrite Op = iota
	OpCreate
	OpRemove
	OpRename
)

func (op Op) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// ChangeEvent is the latest change seen for one path.
type ChangeEvent struct {
	Path string
	Op   Op
	At   time.Time
}

// FileFilter reports whether events for path are of interest.
type FileFilter func(path string) bool

// ChangeHandler receives one batch of changes. Handlers run one at a time
// on the watcher's goroutine, so a slow handler delays the next batch
// rather than overlapping with it.
type ChangeHandler func(ctx context.Context, events []ChangeEvent) error

// Watcher delivers debounced change batches for the documents it watches.
type Watcher struct {
	fs     *fsnotify.Watcher
	quiet  time.Duration
	logger logging.Logger

	mu       sync.Mutex
	filters  []FileFilter
	handlers []ChangeHandler
	started  bool
}

// New creates a watcher that waits for quiet before reporting a batch.
// A nil logger discards output.
func New(quiet time.Duration, logger logging.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &Watcher{
		fs:     fs,
		quiet:  quiet,
		logger: logger.WithComponent("watcher"),
	}, nil
}

// AddFilter restricts the events reported. An event must pass every filter.
func (w *Watcher) AddFilter(filter FileFilter) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.filters = append(w.filters, filter)
}

// AddHandler registers a handler for change batches.
func (w *Watcher) AddHandler(handler ChangeHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// WatchFile reports changes to a single file. The watch is placed on the
// directory holding it because editors often save by replacing the file,
// which silently ends a watch placed on the file itself.
func (w *Watcher) WatchFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("invalid path: path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	w.AddFilter(func(p string) bool {
		candidate, err := filepath.Abs(p)
		return err == nil && candidate == abs
	})

	return w.fs.Add(filepath.Dir(abs))
}

// Start begins delivering batches in the background until ctx is done or
// Stop is called. A watcher can only be started once.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return fmt.Errorf("watcher already started")
	}
	w.started = true

	go w.run(ctx)
	return nil
}

// Stop releases the underlying watches and ends the delivery loop.
func (w *Watcher) Stop() error {
	return w.fs.Close()
}

func (w *Watcher) run(ctx context.Context) {
	timer := time.NewTimer(w.quiet)
	timer.Stop()
	defer timer.Stop()

	var pending batch
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if change, keep := w.accept(ev); keep {
				pending.add(change)
				timer.Reset(w.quiet)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, err, "File watcher error")

		case <-timer.C:
			w.dispatch(ctx, pending.drain())
		}
	}
}

// accept turns an fsnotify event into a change, or reports false for
// permission-only events and paths rejected by a filter.
func (w *Watcher) accept(ev fsnotify.Event) (ChangeEvent, bool) {
	if ev.Op == fsnotify.Chmod {
		return ChangeEvent{}, false
	}

	w.mu.Lock()
	filters := w.filters
	w.mu.Unlock()

	for _, keep := range filters {
		if !keep(ev.Name) {
			return ChangeEvent{}, false
		}
	}

	op := OpWrite
	switch {
	case ev.Has(fsnotify.Create):
		op = OpCreate
	case ev.Has(fsnotify.Remove):
		op = OpRemove
	case ev.Has(fsnotify.Rename):
		op = OpRename
	}

	return ChangeEvent{Path: ev.Name, Op: op, At: time.Now()}, true
}

func (w *Watcher) dispatch(ctx context.Context, events []ChangeEvent) {
	if len(events) == 0 {
		return
	}

	w.mu.Lock()
	handlers := w.handlers
	w.mu.Unlock()

	w.logger.Debug(ctx, "Dispatching changes", "count", len(events))
	for _, handle := range handlers {
		if err := handle(ctx, events); err != nil {
			w.logger.Error(ctx, err, "Change handler failed")
		}
	}
}

// batch keeps the latest event per path, in the order paths first
// appeared.
type batch struct {
	order  []string
	latest map[string]ChangeEvent
}

func (b *batch) add(e ChangeEvent) {
	if b.latest == nil {
		b.latest = make(map[string]ChangeEvent)
	}
	if _, seen := b.latest[e.Path]; !seen {
		b.order = append(b.order, e.Path)
	}
	b.latest[e.Path] = e
}

// drain returns the collected events and empties the batch.
func (b *batch) drain() []ChangeEvent {
	events := make([]ChangeEvent, len(b.order))
	for i, path := range b.order {
		events[i] = b.latest[path]
	}
	b.order = nil
	b.latest = nil
	return events
}

var documentExtensions = map[string]bool{
	".yml":  true,
	".yaml": true,
	".json": true,
	".html": true,
	".htm":  true,
}

// DocumentFilter accepts tree documents and HTML sources
func DocumentFilter(path string) bool {
	return documentExtensions[strings.ToLower(filepath.Ext(path))]
}

// NoHiddenFilter rejects dotfiles and editor swap or backup files
func NoHiddenFilter(path string) bool {
	base := filepath.Base(path)
	return !strings.HasPrefix(base, ".") &&
		!strings.HasSuffix(base, "~") &&
		!strings.HasSuffix(base, ".swp")
}
