package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/raphi011/themestore/internal/log"
	"github.com/raphi011/themestore/internal/theme"
)

// Backend is the persistence the store reads through to and flushes into.
// All methods take normalized keys. *storage.Dir implements it.
type Backend interface {
	Exists(key string) bool
	Load(key string) (*theme.Theme, error)
	Save(key string, t *theme.Theme) error
	Delete(key string) error
	List() ([]string, error)
}

// State is the state of a cache entry.
type State int

const (
	// Placeholder entries exist on disk but hold no value.
	Placeholder State = iota + 1
	// Resident entries hold the authoritative value in memory.
	Resident
)

func (s State) String() string {
	switch s {
	case Placeholder:
		return "placeholder"
	case Resident:
		return "resident"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText encodes the state as its name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type entry struct {
	state State
	value *theme.Theme
}

// EntryInfo describes one entry without its value.
type EntryInfo struct {
	Key   string `json:"name"`
	State State  `json:"state"`
}

// RemovePolicy decides what Remove does when the disk delete fails.
type RemovePolicy int

const (
	// RemoveStrict deletes the file first and keeps the entry if that
	// fails, including when the entry was never flushed.
	RemoveStrict RemovePolicy = iota
	// RemoveLenient drops the entry unconditionally and deletes the file
	// best-effort. The next flush purges any file left behind.
	RemoveLenient
)

// ParseRemovePolicy parses "strict" or "lenient". Empty means strict.
func ParseRemovePolicy(s string) (RemovePolicy, error) {
	switch strings.ToLower(s) {
	case "", "strict":
		return RemoveStrict, nil
	case "lenient":
		return RemoveLenient, nil
	default:
		return RemoveStrict, fmt.Errorf("unknown remove policy %q", s)
	}
}

func (p RemovePolicy) String() string {
	if p == RemoveLenient {
		return "lenient"
	}
	return "strict"
}

// Option configures a Store.
type Option func(*Store)

// WithRemovePolicy sets the Remove policy. The default is RemoveStrict.
func WithRemovePolicy(p RemovePolicy) Option {
	return func(s *Store) { s.removePolicy = p }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Store is the in-memory view of all themes. Create one with New and
// share it; the zero value is not usable.
type Store struct {
	backend      Backend
	removePolicy RemovePolicy
	logger       *log.Logger

	mu       sync.RWMutex
	entries  map[string]*entry
	poisoned atomic.Bool

	// flushing keeps two reconciliation passes from writing the same
	// files at once; both would otherwise hold the shared lock.
	flushing sync.Mutex
	loads    singleflight.Group
}

// New builds a store over backend and registers every stored document as
// a Placeholder. It fails if the backend cannot be listed.
func New(backend Backend, opts ...Option) (*Store, error) {
	s := &Store{
		backend: backend,
		logger:  log.Discard(),
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}

	keys, err := backend.List()
	if err != nil {
		return nil, fmt.Errorf("enumerate stored themes: %w", err)
	}
	for _, key := range keys {
		s.entries[key] = &entry{state: Placeholder}
	}
	s.logger.Debug("cache initialized", "placeholders", len(keys))

	return s, nil
}

// Poisoned reports whether a previous operation poisoned the store.
func (s *Store) Poisoned() bool {
	return s.poisoned.Load()
}

// poisonOnPanic must be deferred after the unlock so that it runs while
// the lock is still held.
func (s *Store) poisonOnPanic() {
	if r := recover(); r != nil {
		s.poisoned.Store(true)
		panic(r)
	}
}

func (s *Store) withRead(fn func() error) error {
	if s.poisoned.Load() {
		return ErrLockPoisoned
	}
	if !s.mu.TryRLock() {
		return ErrWouldBlock
	}
	defer s.mu.RUnlock()
	defer s.poisonOnPanic()
	return fn()
}

func (s *Store) withWrite(fn func() error) error {
	if s.poisoned.Load() {
		return ErrLockPoisoned
	}
	if !s.mu.TryLock() {
		return ErrWouldBlock
	}
	defer s.mu.Unlock()
	defer s.poisonOnPanic()
	return fn()
}

// Get returns a copy of the theme called name. Placeholders are read
// from disk on every call and stay placeholders. A placeholder whose file
// is missing or undecodable is reported as ErrNotFound; the underlying
// storage error is wrapped too.
func (s *Store) Get(name string) (*theme.Theme, error) {
	key := theme.Key(name)

	var found *theme.Theme
	err := s.withRead(func() error {
		e, ok := s.entries[key]
		if !ok {
			return fmt.Errorf("%w: %q", ErrNotFound, key)
		}
		if e.state == Resident {
			found = e.value.Clone()
			return nil
		}

		v, err, _ := s.loads.Do(key, func() (any, error) {
			return s.backend.Load(key)
		})
		if err != nil {
			s.logger.Printf("cache: read-through of %q failed: %v\n", key, err)
			return fmt.Errorf("%w: %q: %w", ErrNotFound, key, err)
		}
		// Callers collapsed by singleflight share v.
		found = v.(*theme.Theme).Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// Insert adds doc as a Resident entry. It fails with
// ErrEntryAlreadyExists if the key has any entry, loaded or not.
// Insert does not touch disk.
func (s *Store) Insert(doc *theme.Theme) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	key := doc.Key()
	value := doc.Clone()
	value.Normalize()

	return s.withWrite(func() error {
		if _, ok := s.entries[key]; ok {
			return fmt.Errorf("%w: %q", ErrEntryAlreadyExists, key)
		}
		s.entries[key] = &entry{state: Resident, value: value}
		return nil
	})
}

// Set replaces the theme currently stored as currentName with doc. The
// new entry is keyed by doc's own name, so Set also renames. A name
// unknown to the map is adopted if its file exists on disk.
//
// If doc's key differs from currentName and is already taken, that
// entry is replaced.
func (s *Store) Set(currentName string, doc *theme.Theme) error {
	if err := theme.ValidateName(currentName); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	key := theme.Key(currentName)
	value := doc.Clone()
	value.Normalize()

	return s.withWrite(func() error {
		// An unknown key is adopted as a Placeholder when its file exists;
		// a Placeholder is only replaced while its file is still there.
		e, ok := s.entries[key]
		if (!ok || e.state == Placeholder) && !s.backend.Exists(key) {
			return fmt.Errorf("%w: %q", ErrEntryDoesNotExist, key)
		}

		delete(s.entries, key)
		s.entries[value.Key()] = &entry{state: Resident, value: value}
		return nil
	})
}

// Remove deletes the theme called name from memory and disk. See
// RemovePolicy for what happens when there is no file to delete.
func (s *Store) Remove(name string) error {
	key := theme.Key(name)

	return s.withWrite(func() error {
		if _, ok := s.entries[key]; !ok {
			return fmt.Errorf("%w: %q", ErrEntryDoesNotExist, key)
		}

		if s.removePolicy == RemoveLenient {
			delete(s.entries, key)
			if err := s.backend.Delete(key); err != nil && !errors.Is(err, fs.ErrNotExist) {
				s.logger.Printf("cache: delete %q: %v (left for next flush)\n", key, err)
			}
			return nil
		}

		if err := s.backend.Delete(key); err != nil {
			return fmt.Errorf("%w: remove %q: %w", ErrFailedWritingToDisk, key, err)
		}
		delete(s.entries, key)
		return nil
	})
}

// Flush reconciles disk with the map: files without an entry are
// deleted and every Resident entry is written. Placeholders are left
// alone. Individual failures do not stop the pass; they are returned
// together, wrapped in ErrFailedWritingToDisk.
func (s *Store) Flush() error {
	return s.withRead(func() error {
		if !s.flushing.TryLock() {
			return ErrWouldBlock
		}
		defer s.flushing.Unlock()

		var errs []error

		onDisk, err := s.backend.List()
		if err != nil {
			errs = append(errs, err)
		}
		for _, key := range onDisk {
			if _, ok := s.entries[key]; ok {
				continue
			}
			if err := s.backend.Delete(key); err != nil && !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, fmt.Errorf("purge %q: %w", key, err))
				continue
			}
			s.logger.Debug("flush: purged orphan", "key", key)
		}

		written := 0
		for key, e := range s.entries {
			if e.state != Resident {
				continue
			}
			if err := s.backend.Save(key, e.value); err != nil {
				errs = append(errs, fmt.Errorf("write %q: %w", key, err))
				continue
			}
			written++
		}
		s.logger.Debug("flush: done", "written", written, "errors", len(errs))

		if len(errs) > 0 {
			return fmt.Errorf("%w: %w", ErrFailedWritingToDisk, errors.Join(errs...))
		}
		return nil
	})
}

// Entries returns the key and state of every entry, sorted by key.
func (s *Store) Entries() ([]EntryInfo, error) {
	var infos []EntryInfo
	err := s.withRead(func() error {
		infos = make([]EntryInfo, 0, len(s.entries))
		for key, e := range s.entries {
			infos = append(infos, EntryInfo{Key: key, State: e.state})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}
