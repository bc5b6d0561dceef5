package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// ErrLocked is returned when another process holds the data dir lock.
var ErrLocked = errors.New("data dir is locked by another process")

// LockFileName is the lock file created inside the data dir.
const LockFileName = ".themestore.lock"

// DirLock is an exclusive flock on a data directory.
type DirLock struct {
	path string
	file *os.File
}

// Lock acquires the lock for dir without waiting. It fails with
// ErrLocked when another process already holds it.
func Lock(dir string) (*DirLock, error) {
	l := &DirLock{path: filepath.Join(dir, LockFileName)}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, err
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
		}
		return nil, err
	}
	l.file = f

	return l, nil
}

// Unlock releases the lock and closes the file. Calling it twice is a no-op.
func (l *DirLock) Unlock() error {
	if l == nil || l.file == nil {
		return nil
	}

	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		l.file.Close()
		l.file = nil
		return err
	}

	err := l.file.Close()
	l.file = nil
	return err
}
