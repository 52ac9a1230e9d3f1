package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/syntree/internal/logging"
	"github.com/yaklabco/syntree/pkg/fsutil"
)

// Watcher follows one file on disk.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
}

// NewWatcher starts watching path. Events are only delivered once Run is
// called, but none are missed in between.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	// The directory is watched so files replaced by rename are still seen.
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return &Watcher{path: abs, watcher: fsw}, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run replaces the content of doc each time the file changes, and calls fn
// with every update. It returns nil when ctx is done or the watcher is
// closed, and the first error from reading, parsing or fn otherwise.
func (w *Watcher) Run(ctx context.Context, doc *Document, fn func(Update) error) error {
	logger := logging.FromContext(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			content, _, err := fsutil.ReadFile(ctx, w.path)
			switch {
			case errors.Is(err, fsutil.ErrNotFound):
				logger.Debug("watched file disappeared", logging.FieldPath, w.path)
				continue
			case err != nil:
				return err
			}
			if string(content) == doc.Text() {
				continue
			}

			update, err := doc.Replace(ctx, string(content))
			if err != nil {
				return err
			}
			if err := fn(update); err != nil {
				return err
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", w.path, err)
		}
	}
}
