package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of file events from editors that write
// in several steps.
const DefaultDebounce = 100 * time.Millisecond

// Watch calls onChange with the reloaded configuration each time the file
// at path is written, created or renamed into place, until ctx is done.
// The parent directory is watched so atomic saves are seen. A failed
// reload passes the error and the defaults.
func Watch(ctx context.Context, path string, debounce time.Duration, onChange func(Config, error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watch: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("config watch %s: %w", abs, err)
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			onChange(Default(), fmt.Errorf("config watch: %w", err))
		case <-timer.C:
			onChange(Load(abs))
		}
	}
}
