// Package lock provides per-episode advisory locks so concurrent runs never work on the same episode.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the episode.
var ErrLocked = errors.New("episode is being processed by another run")

// Lock is a held episode lock.
type Lock struct {
	f *flock.Flock
}

// Acquire takes the lock for name inside dir without blocking.
func Acquire(dir, name string) (*Lock, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	f := flock.New(filepath.Join(dir, name+".lock"))
	ok, err := f.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", name, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, name)
	}
	return &Lock{f: f}, nil
}

// Release gives the lock up. Releasing a nil lock is a no-op.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	return l.f.Unlock()
}
