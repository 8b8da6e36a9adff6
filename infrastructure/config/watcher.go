package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// FileWatcher invokes a callback when a watched file changes. It watches
// the parent directory rather than the file itself, since editors and
// atomic writes replace the inode.
type FileWatcher struct {
	path     string
	onChange func()
	debounce time.Duration
	logger   *zap.Logger
}

// NewFileWatcher creates a watcher for the given file
func NewFileWatcher(path string, onChange func(), logger *zap.Logger) *FileWatcher {
	return &FileWatcher{
		path:     filepath.Clean(path),
		onChange: onChange,
		debounce: 500 * time.Millisecond,
		logger:   logger,
	}
}

// Run watches until the context is cancelled. Change bursts within the
// debounce window collapse into a single callback.
func (w *FileWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	w.logger.Info("watching file", zap.String("path", w.path))

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
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
			w.logger.Info("file changed", zap.String("path", w.path))
			w.onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}
