// Package watch re-runs validation when template files change.
// It is an authoring aid: edits are debounced into batches so one save
// of several files triggers a single re-validation.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event before the
// callback fires.
const DefaultDebounce = 300 * time.Millisecond

// Watcher re-runs a callback when files under a root change.
type Watcher struct {
	root     string
	debounce time.Duration
	logger   *slog.Logger
	onChange func(ctx context.Context)
}

// New creates a Watcher over root. onChange is invoked once per change
// batch, after the debounce window closes.
func New(root string, onChange func(ctx context.Context), logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		root:     root,
		debounce: DefaultDebounce,
		logger:   logger,
		onChange: onChange,
	}
}

// Run watches until ctx is cancelled. The callback fires once
// immediately, then after each debounced change batch. Directories
// created while watching are added to the watch set.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := w.addRecursive(fw, w.root); err != nil {
		return err
	}

	w.onChange(ctx)

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.logger.Debug("File change", slog.String("path", event.Name), slog.String("op", event.Op.String()))

			if event.Op.Has(fsnotify.Create) {
				// New directories need explicit watches.
				_ = w.addRecursive(fw, event.Name)
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			w.onChange(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watch error", slog.String("error", err.Error()))
		}
	}
}

// addRecursive watches path and every directory beneath it.
func (w *Watcher) addRecursive(fw *fsnotify.Watcher, path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && p != path {
			return filepath.SkipDir
		}
		return fw.Add(p)
	})
}

// relevant filters out events that cannot affect validation results.
func relevant(event fsnotify.Event) bool {
	if event.Op.Has(fsnotify.Chmod) {
		return false
	}
	base := filepath.Base(event.Name)
	return !strings.HasPrefix(base, ".")
}
