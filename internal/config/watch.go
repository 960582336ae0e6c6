package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// reloadDelay collapses the burst of events editors emit on save.
const reloadDelay = 100 * time.Millisecond

// Watch calls onChange whenever the file at path is written or replaced,
// until ctx is done. The parent directory is watched so editors that save
// by rename are noticed.
func Watch(ctx context.Context, path string, onChange func()) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("unable to watch %s: %w", dir, err)
	}
	log.Debug("fsnotify watching dir", "dir", dir)

	go func() {
		defer watcher.Close() //nolint:errcheck

		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				log.Debug("fsnotify event", "file", event.Name, "event", event.Op)
				if timer == nil {
					timer = time.NewTimer(reloadDelay)
				} else {
					timer.Reset(reloadDelay)
				}
				fire = timer.C
			case <-fire:
				fire = nil
				onChange()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Debug("fsnotify error", "dir", dir, "error", err)
			}
		}
	}()
	return nil
}
