// Package store provides the process-wide key-value store that survives
// restarts. Values are opaque strings; callers choose their own encoding.
package store

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/sourcepad/sourcepad-cli/pkg/models"
)

// Well-known keys
const (
	KeyRecentFiles = "recentFiles"
	KeyEditorTheme = "editorTheme"
	KeyUITheme     = "uiTheme"
)

// ErrClosed is returned by operations on a closed store
var ErrClosed = errors.New("store is closed")

// Store is a string key-value store
type Store interface {
	// Get returns the value for key and whether it was present
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// Open opens the backend named in settings inside dir. An explicit path in
// settings takes precedence over the default file name.
func Open(settings models.StorageSettings, dir string) (Store, error) {
	switch settings.Backend {
	case models.StorageFile, "":
		path := settings.Path
		if path == "" {
			path = filepath.Join(dir, "state.yaml")
		}
		return OpenFile(path)
	case models.StorageSQLite:
		path := settings.Path
		if path == "" {
			path = filepath.Join(dir, "state.db")
		}
		return OpenSQLite(path)
	case models.StorageMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", settings.Backend)
	}
}
