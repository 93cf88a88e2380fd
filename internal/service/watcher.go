package service

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports writes to a single file, debounced.
type Watcher struct {
	Path     string
	Debounce time.Duration
	Logger   *log.Logger
}

// Run watches the file's directory until ctx is done, calling onChange
// once per burst of writes. It returns after the watcher is closed.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	abs, err := filepath.Abs(w.Path)
	if err != nil {
		return fmt.Errorf("watch path: %w", err)
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	// editors replace files on save, so the directory is watched
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch dir: %w", err)
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if name, _ := filepath.Abs(event.Name); name != abs {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				logf(w.Logger, "watcher: %s changed", abs)
				onChange()
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logf(w.Logger, "watcher: error: %v", err)
		}
	}
}
