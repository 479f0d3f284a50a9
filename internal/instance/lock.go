// SPDX-License-Identifier: MPL-2.0

// Package instance enforces a single active session and hands requests from
// later invocations to it. Only one process may hold the lock; anyone else
// queues work in the spool directory, which the lock holder watches.
package instance

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Lock is an exclusive, advisory lock on a well-known file.
type Lock struct {
	fl *flock.Flock
}

// Acquire attempts to take the lock at path without blocking. The boolean
// reports whether the lock was obtained; a false result with a nil error
// means another session holds it.
func Acquire(path string) (*Lock, bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, false, fmt.Errorf("instance: create lock directory: %w", err)
	}

	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, false, fmt.Errorf("instance: lock %s: %w", path, err)
	}
	if !ok {
		return nil, false, nil
	}
	return &Lock{fl: fl}, true, nil
}

// Path returns the lock file's location.
func (l *Lock) Path() string { return l.fl.Path() }

// Release gives up the lock.
func (l *Lock) Release() error {
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("instance: unlock %s: %w", l.fl.Path(), err)
	}
	return nil
}
