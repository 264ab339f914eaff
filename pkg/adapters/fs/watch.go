package fs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/studykit/pkg/core"
)

// Watch reports artifact changes under the workspace whose keys match pattern.
// The returned channel is closed when ctx is cancelled.
//
// An atomic save surfaces as a single CREATE of the final file; the watcher
// reports it as MODIFY when the key was already known.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := r.recursiveAdd(watcher, r.Path); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	known := make(map[string]bool)
	if keys, err := r.List(ctx, "**"); err == nil {
		for _, k := range keys {
			known[k] = true
		}
	}

	events := make(chan core.Event, 16)
	w := &watchLoop{repo: r, pattern: pattern, watcher: watcher, events: events, known: known}
	r.setWatcherActive(true)

	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		r.reportError(fmt.Errorf("watcher stopped: %w", err))
	}))
	return events, nil
}

type watchLoop struct {
	repo    *Repository
	pattern string
	watcher *fsnotify.Watcher
	events  chan<- core.Event
	known   map[string]bool
}

func (w *watchLoop) run(ctx context.Context) (err error) {
	defer close(w.events)
	defer w.repo.setWatcherActive(false)
	defer w.watcher.Close()
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if w.repo.config.Logger.Enabled(ctx, slog.LevelDebug) {
				w.repo.config.Logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				w.repo.config.Logger.Error("watcher panic", "error", err)
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.process(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.repo.reportError(wErr)
		}
	}
}

// process filters, maps and forwards one filesystem event.
func (w *watchLoop) process(ctx context.Context, event fsnotify.Event) {
	w.repo.config.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !w.repo.isSystemPath(event.Name) {
				if err := w.repo.recursiveAdd(w.watcher, event.Name); err != nil {
					w.repo.reportError(err)
				}
			}
			return
		}
	}

	key, ok := w.repo.resolveKey(event.Name)
	if !ok {
		return
	}
	if match, _ := doublestar.Match(w.pattern, key); !match {
		return
	}

	var eType core.EventType
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		eType = core.EventDelete
		delete(w.known, key)
	case event.Has(fsnotify.Create):
		eType = core.EventCreate
		if w.known[key] {
			eType = core.EventModify
		}
		w.known[key] = true
	case event.Has(fsnotify.Write):
		eType = core.EventModify
		w.known[key] = true
	default:
		return
	}

	w.repo.recordEvent()
	select {
	case w.events <- core.Event{Type: eType, Key: key, Timestamp: time.Now().Unix()}:
	case <-ctx.Done():
	}
}

func (r *Repository) recursiveAdd(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != r.Path && r.isSystemPath(path) {
			return fs.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (r *Repository) reportError(err error) {
	if r.config.ErrorHandler != nil {
		r.config.ErrorHandler(err)
		return
	}
	r.config.Logger.Error("watcher error", "error", err)
}
