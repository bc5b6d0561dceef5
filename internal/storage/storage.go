// Package storage persists themes as one file per document.
//
// Files live directly in a data directory and are named after the theme
// key (the lowercased theme name) plus the codec extension, for example
// "geography.json". Writes go through a temp file and a rename so a
// crash never leaves a half-written document behind.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/raphi011/themestore/internal/theme"
)

var (
	// ErrNotFound is returned by Load when no file exists for a key.
	ErrNotFound = errors.New("document not found on disk")
	// ErrDecode is matched by every *DecodeError.
	ErrDecode = errors.New("document could not be decoded")
)

const tempSuffix = ".tmp"

// DecodeError reports a file that exists but does not hold a valid theme.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %q: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDecode) match any DecodeError.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// Dir is a file-per-document store rooted at a directory.
type Dir struct {
	path  string
	codec Codec
}

// Open returns a store for path, creating the directory if needed.
// A nil codec selects JSON.
func Open(path string, codec Codec) (*Dir, error) {
	if codec == nil {
		codec = JSON
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data dir %s is not a directory", path)
	}
	return &Dir{path: path, codec: codec}, nil
}

// Path returns the data directory.
func (d *Dir) Path() string {
	return d.path
}

// Codec returns the codec used for files.
func (d *Dir) Codec() Codec {
	return d.codec
}

// FilePath returns the file that stores key.
func (d *Dir) FilePath(key string) string {
	return filepath.Join(d.path, key+d.codec.Ext())
}

// Exists reports whether a regular file is stored for key.
func (d *Dir) Exists(key string) bool {
	info, err := os.Stat(d.FilePath(key))
	return err == nil && info.Mode().IsRegular()
}

// Load reads and decodes the theme stored for key.
func (d *Dir) Load(key string) (*theme.Theme, error) {
	data, err := os.ReadFile(d.FilePath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
		}
		return nil, err
	}
	return d.Decode(key, data)
}

// Decode decodes file contents stored under key.
func (d *Dir) Decode(key string, data []byte) (*theme.Theme, error) {
	var t theme.Theme
	if err := d.codec.Unmarshal(data, &t); err != nil {
		return nil, &DecodeError{Key: key, Err: err}
	}
	if err := t.Validate(); err != nil {
		return nil, &DecodeError{Key: key, Err: err}
	}
	t.Normalize()
	return &t, nil
}

// Save encodes t and writes it for key, replacing any existing file.
func (d *Dir) Save(key string, t *theme.Theme) error {
	data, err := d.codec.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}

	path := d.FilePath(key)
	tempPath := path + tempSuffix

	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tempPath, path)
}

// Delete removes the file stored for key. Deleting a key that has no
// file is an error matching fs.ErrNotExist.
func (d *Dir) Delete(key string) error {
	return os.Remove(d.FilePath(key))
}

// List returns the sorted keys of all stored documents. Temp files, the
// lock file and files of other formats are skipped, as are files whose
// stem is not a lowercase key (see Stems).
func (d *Dir) List() ([]string, error) {
	stems, err := d.Stems()
	if err != nil {
		return nil, err
	}
	keys := stems[:0]
	for _, stem := range stems {
		if theme.Key(stem) == stem {
			keys = append(keys, stem)
		}
	}
	return keys, nil
}

// Stems returns the sorted file names, minus extension, of every document
// file in the directory, including ones that are not valid keys.
func (d *Dir) Stems() ([]string, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	ext := d.codec.Ext()
	stems := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ext) {
			continue
		}
		stems = append(stems, strings.TrimSuffix(name, ext))
	}
	sort.Strings(stems)
	return stems, nil
}

// Rename moves the file stored under from to key. It fails if key
// already has a file.
func (d *Dir) Rename(from, key string) error {
	if d.Exists(key) {
		return fmt.Errorf("rename %q: %q already exists", from, key)
	}
	return os.Rename(d.FilePath(from), d.FilePath(key))
}

// TempFiles returns leftover temp files from interrupted writes.
func (d *Dir) TempFiles() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(d.path, "*"+tempSuffix))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}
