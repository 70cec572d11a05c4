// Package watch re-runs an action when project template files change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pybossa/pbs/internal/checksum"
	"github.com/pybossa/pbs/internal/files/filesystem"
	"github.com/pybossa/pbs/pkg/pbs"
)

// Watcher observes a fixed set of files. Parent directories are watched so
// editors that save by rename are still seen.
type Watcher struct {
	files    map[string]struct{}
	paths    []string
	dirs     []string
	debounce time.Duration
	fs       filesystem.FileSystemProvider
	sum      checksum.Calculator
	logger   pbs.Logger
	runFirst bool
}

// New creates a Watcher for paths. A non-positive debounce uses
// pbs.DefaultWatchDebounce.
func New(paths []string, debounce time.Duration, logger pbs.Logger) (*Watcher, error) {
	if logger == nil {
		panic("logger cannot be nil")
	}
	if debounce <= 0 {
		debounce = pbs.DefaultWatchDebounce
	}

	w := &Watcher{
		files:    make(map[string]struct{}, len(paths)),
		debounce: debounce,
		fs:       filesystem.NewOSFileSystem(),
		sum:      checksum.New(),
		logger:   logger,
	}
	seenDirs := make(map[string]struct{})
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		if _, ok := w.files[abs]; !ok {
			w.files[abs] = struct{}{}
			w.paths = append(w.paths, abs)
		}
		dir := filepath.Dir(abs)
		if _, ok := seenDirs[dir]; !ok {
			seenDirs[dir] = struct{}{}
			w.dirs = append(w.dirs, dir)
		}
	}
	if len(w.files) == 0 {
		return nil, fmt.Errorf("%w: nothing to watch", pbs.ErrUsage)
	}
	return w, nil
}

// WithInitialRun returns a copy of w whose Run calls onChange once before
// waiting for changes.
func (w *Watcher) WithInitialRun() *Watcher {
	clone := *w
	clone.runFirst = true
	return &clone
}

// Run calls onChange once per burst of changes to the watched files, until
// ctx is cancelled. Calls never overlap. A burst that leaves every file's
// content as it was after the last successful call is ignored. An error
// from onChange is logged and watching continues.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context) error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer fw.Close()

	for _, dir := range w.dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.logger.Verbose("Watching %s", dir)
	}

	var last string
	if w.runFirst {
		current := w.fingerprint()
		if err := onChange(ctx); err != nil {
			w.logger.Error("%v", err)
		} else {
			last = current
		}
	} else {
		last = w.fingerprint()
	}

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Verbose("Change detected: %s", event)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error: %v", err)

		case <-fire:
			fire = nil
			current := w.fingerprint()
			if current != "" && current == last {
				w.logger.Verbose("No content change, skipping update")
				continue
			}
			if err := onChange(ctx); err != nil {
				w.logger.Error("%v", err)
				continue
			}
			last = current
		}
	}
}

// fingerprint digests the watched files. An unreadable file yields "", which
// never matches, so the change is passed on.
func (w *Watcher) fingerprint() string {
	digest, err := w.sum.Files(w.fs, w.paths)
	if err != nil {
		w.logger.Verbose("Cannot fingerprint watched files: %v", err)
		return ""
	}
	return digest
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}
