// Package fsready waits for a file to become readable.
package fsready

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	DefaultTimeout  = 2 * time.Second
	DefaultInterval = 100 * time.Millisecond
)

// ErrNotReady is returned when the file did not become ready before the timeout.
var ErrNotReady = errors.New("file not ready")

// Checker reports whether path is ready.
type Checker func(path string) bool

// Options tunes Wait. Zero values use the defaults.
type Options struct {
	Timeout  time.Duration
	Interval time.Duration
	Checker  Checker
	// PollOnly skips the directory watcher.
	PollOnly bool
}

// IsReady is true when path exists, is a regular file and opens for reading.
func IsReady(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// Wait blocks until the checker accepts path, the timeout elapses or ctx is done.
// The parent directory is watched so creation and rename events trigger an
// immediate re-check; the interval tick covers platforms without events.
func Wait(ctx context.Context, path string, opts Options) error {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	check := opts.Checker
	if check == nil {
		check = IsReady
	}
	if check(path) {
		return nil
	}

	var (
		events <-chan fsnotify.Event
		errs   <-chan error
	)
	if !opts.PollOnly {
		if w, err := watchDir(filepath.Dir(path)); err != nil {
			slog.Debug("fsready_watch_unavailable", "path", path, "error", err)
		} else {
			defer w.Close()
			events, errs = w.Events, w.Errors
		}
	}

	deadline := time.NewTimer(opts.Timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			if check(path) {
				return nil
			}
			return ErrNotReady
		case <-ticker.C:
			if check(path) {
				return nil
			}
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Clean(ev.Name) == target && check(path) {
				return nil
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			slog.Debug("fsready_watch_error", "path", path, "error", err)
		}
	}
}

func watchDir(dir string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}
