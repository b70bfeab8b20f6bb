package web

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadCallback is called after every reload attempt.
type ReloadCallback func(err error)

// Watch reloads the templates whenever a *.gohtml file in the override
// directory changes, until ctx is cancelled. Bursts of events are collapsed
// into one reload. It returns immediately when no override directory is set.
func (r *Renderer) Watch(ctx context.Context, logger *slog.Logger, cb ReloadCallback) error {
	if r.overrideDir == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(r.overrideDir); err != nil {
		return err
	}
	logger.Info("templates: watching", slog.String("dir", r.overrideDir))

	var debounce *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("templates: watcher stopped")
			return nil

		case <-debounceCh:
			err := r.Reload()
			if err != nil {
				logger.Warn("templates: reload failed", slog.String("error", err.Error()))
			} else {
				logger.Info("templates: reloaded", slog.String("dir", r.overrideDir))
			}
			if cb != nil {
				cb(err)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".gohtml") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("templates: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			if debounce == nil {
				debounce = time.NewTimer(100 * time.Millisecond)
				debounceCh = debounce.C
			} else {
				debounce.Reset(100 * time.Millisecond)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("templates: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}
