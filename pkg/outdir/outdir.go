// Package outdir manages the output directory shared by conversions.
package outdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexflint/go-filemutex"
)

const lockName = ".kokoroctl.lock"

// ErrLocked is returned when another process holds the output lock.
var ErrLocked = errors.New("another conversion is writing to the output directory")

// Ensure creates dir and its parents if they are missing.
func Ensure(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return nil
}

// Lock is an advisory cross-process lock on an output directory.
type Lock struct {
	mu *filemutex.FileMutex
}

// TryLock acquires the directory lock without blocking.
func TryLock(dir string) (*Lock, error) {
	mu, err := filemutex.New(filepath.Join(dir, lockName))
	if err != nil {
		return nil, fmt.Errorf("open output lock: %w", err)
	}
	if err := mu.TryLock(); err != nil {
		_ = mu.Close()
		if errors.Is(err, filemutex.AlreadyLocked) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	return &Lock{mu: mu}, nil
}

// Unlock releases the lock and closes the lock file.
func (l *Lock) Unlock() error {
	if l == nil || l.mu == nil {
		return nil
	}
	err := l.mu.Unlock()
	return errors.Join(err, l.mu.Close())
}
