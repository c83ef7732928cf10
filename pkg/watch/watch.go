// Package watch reports changes to a single file.
//
// Editors often save by writing a temporary file and renaming it over the
// original, which replaces the inode. The watcher therefore watches the
// file's directory and filters events by name, so it keeps working across
// such saves.
//
//	err := watch.Watch(ctx, "graph.toml", watch.Options{Logger: logger}, func(ev watch.Event) error {
//	    return rerender()
//	})
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Event describes a change to the watched file.
type Event struct {
	Path string
	Op   fsnotify.Op
	Time time.Time
	// Count is the number of raw events a debounced event stands for.
	Count int
}

// FileWatcher watches one file for writes, creation and replacement.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	events  chan Event
	logger  *log.Logger
}

// NewFileWatcher creates a watcher for path. The file's directory must exist.
func NewFileWatcher(path string, logger *log.Logger) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if logger == nil {
		logger = log.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &FileWatcher{
		watcher: w,
		path:    abs,
		events:  make(chan Event, 16),
		logger:  logger,
	}, nil
}

// Start begins watching. Events stops when ctx is done.
func (fw *FileWatcher) Start(ctx context.Context) {
	fw.logger.Debug("watching file", "path", fw.path)
	go fw.processEvents(ctx)
}

// Events returns the channel of raw change events.
func (fw *FileWatcher) Events() <-chan Event {
	return fw.events
}

func (fw *FileWatcher) processEvents(ctx context.Context) {
	defer close(fw.events)
	defer fw.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != fw.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			fw.logger.Debug("file changed", "path", ev.Name, "op", ev.Op.String())
			select {
			case fw.events <- Event{Path: fw.path, Op: ev.Op, Time: time.Now(), Count: 1}:
			case <-ctx.Done():
				return
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("watcher error", "error", err)
		}
	}
}

// Options configures [Watch].
type Options struct {
	// QuietPeriod is how long the file must stay unchanged before fn runs.
	QuietPeriod time.Duration
	// MaxWait bounds the delay during continuous changes.
	MaxWait time.Duration
	Logger  *log.Logger
}

// Default debounce intervals.
const (
	DefaultQuietPeriod = 200 * time.Millisecond
	DefaultMaxWait     = 2 * time.Second
)

// Watch calls fn for every debounced change to path until ctx is done.
// An error from fn is logged and watching continues.
func Watch(ctx context.Context, path string, opts Options, fn func(Event) error) error {
	if opts.QuietPeriod == 0 {
		opts.QuietPeriod = DefaultQuietPeriod
	}
	if opts.MaxWait == 0 {
		opts.MaxWait = DefaultMaxWait
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	fw, err := NewFileWatcher(path, opts.Logger)
	if err != nil {
		return err
	}
	fw.Start(ctx)

	d := NewDebouncer(fw.Events(), opts.QuietPeriod, opts.MaxWait)
	d.Start(ctx)

	for ev := range d.Output() {
		if err := fn(ev); err != nil {
			opts.Logger.Error("change handler failed", "path", ev.Path, "error", err)
		}
	}
	return ctx.Err()
}
