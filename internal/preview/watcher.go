// Package preview implements watch mode: it re-runs the build whenever
// the model snapshot or the config file changes on disk.
package preview

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	foundationerrors "git.home.luguber.info/inful/docreflect/internal/foundation/errors"
	"git.home.luguber.info/inful/docreflect/internal/logfields"
)

// DefaultDebounce spaces out rebuilds when an editor fires several events
// for a single save.
const DefaultDebounce = 2 * time.Second

// RebuildFunc runs one validate+render cycle.
type RebuildFunc func(ctx context.Context) error

// Watcher re-runs a build when any of a fixed set of files changes.
type Watcher struct {
	paths    map[string]struct{}
	debounce time.Duration
	rebuild  RebuildFunc
	fs       *fsnotify.Watcher
}

// New creates a watcher over the given files. The directories containing
// them are watched rather than the files themselves, which survives
// editors that replace files on save.
func New(paths []string, debounce time.Duration, rebuild RebuildFunc) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "create file watcher").Build()
	}

	w := &Watcher{
		paths:    make(map[string]struct{}, len(paths)),
		debounce: debounce,
		rebuild:  rebuild,
		fs:       fs,
	}
	dirs := map[string]struct{}{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fs.Close()
			return nil, foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "resolve watch path").
				WithContext("path", p).
				Build()
		}
		w.paths[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fs.Add(dir); err != nil {
			_ = fs.Close()
			return nil, foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "watch directory").
				WithContext("dir", dir).
				Build()
		}
	}
	return w, nil
}

// Run blocks until ctx is canceled, rebuilding after changes settle.
// Rebuild failures are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fs.Close() }()

	slog.Info("Watching for changes",
		logfields.Count(len(w.paths)),
		slog.Duration("debounce", w.debounce))

	var timer *time.Timer
	var pending <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if _, tracked := w.paths[filepath.Clean(ev.Name)]; !tracked {
				continue
			}
			if ev.Op&fsnotify.Remove != 0 {
				slog.Warn("Watched file removed", logfields.Path(ev.Name))
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("Change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			slog.Error("File watcher error", logfields.Error(err))

		case <-pending:
			timer = nil
			pending = nil
			if err := w.rebuild(ctx); err != nil {
				slog.Error("Rebuild failed", logfields.Error(err))
			}
		}
	}
}
