package conversion

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrOutputLocked reports that another process is writing into the output directory.
var ErrOutputLocked = errors.New("output directory is in use by another bookbinder process")

const lockFileName = ".bookbinder.lock"

// OutputLock holds the advisory lock on an output directory.
type OutputLock struct {
	lock *flock.Flock
}

// LockOutputDir creates dir if needed and takes its advisory lock without
// blocking.
func LockOutputDir(dir string) (*OutputLock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	lock := flock.New(filepath.Join(dir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return nil, ErrOutputLocked
	}
	return &OutputLock{lock: lock}, nil
}

// Path returns the lock file location.
func (l *OutputLock) Path() string {
	if l == nil || l.lock == nil {
		return ""
	}
	return l.lock.Path()
}

// Release drops the lock. The lock file stays in place.
func (l *OutputLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release output lock: %w", err)
	}
	return nil
}
