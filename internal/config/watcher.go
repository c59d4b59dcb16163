package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces editor save bursts (write, chmod, rename).
const reloadDebounce = 100 * time.Millisecond

// Watch reloads the config file at path whenever it changes and sends
// each successfully parsed result on the returned channel. Parse errors
// are logged and skipped. The channel closes when ctx is done.
func Watch(ctx context.Context, path string, logger *slog.Logger) (<-chan *Config, error) {
	if logger == nil {
		logger = slog.Default()
	}
	path = ExpandPath(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory so atomic renames over the file are seen. It may
	// not exist before the first save.
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		watcher.Close()
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	out := make(chan *Config, 1)
	name := filepath.Base(path)

	fire := make(chan struct{}, 1)
	var timer *time.Timer
	reload := func() {
		start := time.Now()
		cfg, err := LoadFrom(path)
		if err != nil {
			logger.Warn("config reload failed", "path", path, "err", err)
			return
		}
		cfg.LoadedAt = start
		select {
		case <-out:
			// Drop a stale, unread reload.
		default:
		}
		select {
		case out <- cfg:
		default:
		}
	}

	go func() {
		defer close(out)
		defer watcher.Close()
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != name {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}

				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(reloadDebounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})

			case <-fire:
				reload()

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error", "err", err)
			}
		}
	}()

	return out, nil
}
