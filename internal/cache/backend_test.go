package cache

import (
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"github.com/raphi011/themestore/internal/storage"
	"github.com/raphi011/themestore/internal/theme"
)

// fakeBackend is an in-memory Backend with failure injection. hook runs
// at the start of every call and may block or panic.
type fakeBackend struct {
	mu    sync.Mutex
	files map[string]*theme.Theme

	listErr   error
	saveErr   map[string]error
	deleteErr error
	hook      func(op, key string)

	saves   int
	deletes int
}

func newFakeBackend(keys ...string) *fakeBackend {
	b := &fakeBackend{files: make(map[string]*theme.Theme), saveErr: make(map[string]error)}
	for _, k := range keys {
		b.files[k] = theme.New(k)
	}
	return b
}

func (b *fakeBackend) call(op, key string) {
	if b.hook != nil {
		b.hook(op, key)
	}
}

func (b *fakeBackend) Exists(key string) bool {
	b.call("exists", key)
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.files[key]
	return ok
}

func (b *fakeBackend) Load(key string) (*theme.Theme, error) {
	b.call("load", key)
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.files[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", storage.ErrNotFound, key)
	}
	return t.Clone(), nil
}

func (b *fakeBackend) Save(key string, t *theme.Theme) error {
	b.call("save", key)
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.saveErr[key]; err != nil {
		return err
	}
	b.saves++
	b.files[key] = t.Clone()
	return nil
}

func (b *fakeBackend) Delete(key string) error {
	b.call("delete", key)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.deleteErr != nil {
		return b.deleteErr
	}
	if _, ok := b.files[key]; !ok {
		return fs.ErrNotExist
	}
	b.deletes++
	delete(b.files, key)
	return nil
}

func (b *fakeBackend) List() ([]string, error) {
	b.call("list", "")
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listErr != nil {
		return nil, b.listErr
	}
	keys := make([]string, 0, len(b.files))
	for k := range b.files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *fakeBackend) has(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.files[key]
	return ok
}
