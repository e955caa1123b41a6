package toml

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/fwojciec/robbie"
)

// Watch reloads the configuration each time the file at path is written or
// replaced and passes every successfully loaded Config to onChange. The
// parent directory is watched so saves that rename a temporary file into
// place are seen. A file that fails to load is logged and skipped. Watch
// blocks until ctx is done.
func Watch(ctx context.Context, path string, getenv func(string) string, onChange func(robbie.Config), logger *slog.Logger) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("toml: watch %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("toml: watch %s: %w", path, err)
	}
	defer fw.Close()
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("toml: watch %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := Load(abs, getenv)
			if err != nil {
				logger.DebugContext(ctx, "config reload failed", "path", abs, "err", err)
				continue
			}
			logger.DebugContext(ctx, "config reloaded", "path", abs)
			onChange(cfg)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.DebugContext(ctx, "config watch error", "err", err)
		}
	}
}
