package cache

import "errors"

var (
	// ErrNotFound is returned by Get for unknown names and for
	// placeholders whose file could not be loaded.
	ErrNotFound = errors.New("theme not found")
	// ErrEntryDoesNotExist is returned by Set and Remove for unknown names.
	ErrEntryDoesNotExist = errors.New("entry does not exist")
	// ErrEntryAlreadyExists is returned by Insert when the key is taken.
	ErrEntryAlreadyExists = errors.New("entry already exists")
	// ErrWouldBlock means the lock was held by another caller. Retrying
	// later may succeed.
	ErrWouldBlock = errors.New("cache is busy")
	// ErrLockPoisoned means a previous operation panicked while holding
	// the lock. It is permanent for the life of the store.
	ErrLockPoisoned = errors.New("cache lock is poisoned")
	// ErrFailedWritingToDisk wraps persistence failures in Remove and Flush.
	ErrFailedWritingToDisk = errors.New("failed writing to disk")
)

// IsConcurrency reports whether err is a lock failure (ErrWouldBlock or
// ErrLockPoisoned) rather than a statement about the data.
func IsConcurrency(err error) bool {
	return errors.Is(err, ErrWouldBlock) || errors.Is(err, ErrLockPoisoned)
}
