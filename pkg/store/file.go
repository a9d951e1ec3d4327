package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// File keeps all keys in one YAML document. Every Set rewrites the file
// through a temp file and rename.
type File struct {
	mu     sync.Mutex
	path   string
	values map[string]string
	closed bool

	// set when unreadable contents were moved aside on open
	recovered string
}

// CorruptSuffix is appended to a store file that could not be parsed
const CorruptSuffix = ".corrupt"

// OpenFile loads path, creating an empty store if it does not exist. A file
// that is not valid YAML is renamed with CorruptSuffix and the store starts
// empty; Recovered reports where it went.
func OpenFile(path string) (*File, error) {
	f := &File{path: path, values: make(map[string]string)}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, fmt.Errorf("failed to read store %s: %w", path, err)
	}

	if err := yaml.Unmarshal(content, &f.values); err != nil {
		aside := path + CorruptSuffix
		if rerr := os.Rename(path, aside); rerr != nil {
			return nil, fmt.Errorf("failed to move corrupt store %s aside: %w", path, rerr)
		}
		f.values = make(map[string]string)
		f.recovered = aside
		return f, nil
	}
	if f.values == nil {
		f.values = make(map[string]string)
	}
	return f, nil
}

// Path returns the backing file
func (f *File) Path() string {
	return f.path
}

// Recovered returns the path the corrupt contents were moved to, or ""
// when the file loaded cleanly
func (f *File) Recovered() string {
	return f.recovered
}

func (f *File) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return "", false, ErrClosed
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}

	prev, had := f.values[key]
	f.values[key] = value
	if err := f.flush(); err != nil {
		if had {
			f.values[key] = prev
		} else {
			delete(f.values, key)
		}
		return err
	}
	return nil
}

func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}

	prev, had := f.values[key]
	if !had {
		return nil
	}
	delete(f.values, key)
	if err := f.flush(); err != nil {
		f.values[key] = prev
		return err
	}
	return nil
}

func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *File) flush() error {
	content, err := yaml.Marshal(f.values)
	if err != nil {
		return fmt.Errorf("failed to marshal store to YAML: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory for store: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, content, 0644); err != nil {
		return fmt.Errorf("failed to write store %s: %w", f.path, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write store %s: %w", f.path, err)
	}
	return nil
}
