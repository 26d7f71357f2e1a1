package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors the dataset file at path and calls onReload each time the
// file is written or replaced. onReload receives either the freshly parsed
// Dataset or the load error; on error the caller should keep serving the
// previous dataset. Watch runs until ctx is cancelled.
//
// The parent directory is watched rather than the file, so saves that rename
// a temp file over path keep being picked up.
func Watch(ctx context.Context, path string, onReload func(Dataset, error)) error {
	path = filepath.Clean(path)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("store: watch %q: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("store: watch %q: %w", path, err)
	}

	slog.Info("store: watching dataset for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			// A rename over path arrives as Create.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			ds, err := LoadFile(path)
			if err != nil {
				onReload(nil, err)
				continue
			}
			slog.Debug("store: dataset parsed", "path", path, "regions", ds.Len())
			onReload(ds, nil)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("store: watcher error", "err", err)
		}
	}
}
