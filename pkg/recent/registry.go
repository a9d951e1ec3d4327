// Package recent keeps the most-recently-used list of opened files.
package recent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sourcepad/sourcepad-cli/pkg/host"
	"github.com/sourcepad/sourcepad-cli/pkg/models"
	"github.com/sourcepad/sourcepad-cli/pkg/store"
)

// MaxEntries caps the list; older entries are dropped silently.
const MaxEntries = 10

// ErrStaleEntry is returned by Reopen when the file no longer exists. The
// entry has already been removed when it is returned.
var ErrStaleEntry = errors.New("recent file no longer exists")

// Registry is a bounded, deduplicated list of recent files, newest first.
// Every mutation is written through to the store.
type Registry struct {
	mu      sync.Mutex
	entries []models.RecentFile
	store   store.Store
	logger  zerolog.Logger
	now     func() time.Time
}

// Option configures a Registry
type Option func(*Registry)

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithClock overrides time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// Load creates a registry from the persisted list. Unreadable or corrupt
// data yields an empty list.
func Load(s store.Store, opts ...Option) *Registry {
	r := &Registry{
		entries: make([]models.RecentFile, 0, MaxEntries),
		store:   s,
		logger:  zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	raw, ok, err := s.Get(store.KeyRecentFiles)
	if err != nil {
		r.logger.Warn().Err(err).Msg("failed to load recent files")
		return r
	}
	if !ok || raw == "" {
		return r
	}

	var stored []models.RecentFile
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		r.logger.Warn().Err(err).Msg("recent files are corrupt, starting empty")
		return r
	}

	seen := make(map[string]bool, len(stored))
	for _, e := range stored {
		if e.Path == "" || seen[e.Path] {
			continue
		}
		seen[e.Path] = true
		r.entries = append(r.entries, e)
		if len(r.entries) == MaxEntries {
			break
		}
	}
	return r
}

// Add records path as the most recently opened file. An existing entry is
// moved to the front with a refreshed timestamp.
func (r *Registry) Add(path, displayName, language string) error {
	path = normalize(path)
	if path == "" {
		return fmt.Errorf("recent file path cannot be empty")
	}
	if displayName == "" {
		displayName = filepath.Base(path)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry := models.RecentFile{
		Path:         path,
		DisplayName:  displayName,
		LastOpenedAt: r.now(),
		Language:     language,
	}

	next := make([]models.RecentFile, 0, MaxEntries)
	next = append(next, entry)
	for _, e := range r.entries {
		if e.Path == path {
			continue
		}
		if len(next) == MaxEntries {
			break
		}
		next = append(next, e)
	}

	return r.commit(next)
}

// Remove drops path from the list. Removing an unknown path is a no-op.
func (r *Registry) Remove(path string) error {
	path = normalize(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.Path == path {
			next := make([]models.RecentFile, 0, len(r.entries)-1)
			next = append(next, r.entries[:i]...)
			next = append(next, r.entries[i+1:]...)
			return r.commit(next)
		}
	}
	return nil
}

// Clear removes every entry
func (r *Registry) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.commit(make([]models.RecentFile, 0, MaxEntries))
}

// List yields the entries newest first. Each iteration walks the list as it
// was when that iteration started.
func (r *Registry) List() iter.Seq[models.RecentFile] {
	return func(yield func(models.RecentFile) bool) {
		for _, e := range r.snapshot() {
			if !yield(e) {
				return
			}
		}
	}
}

// Entries returns a copy of the list
func (r *Registry) Entries() []models.RecentFile {
	return r.snapshot()
}

// Len returns the number of entries
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Get returns the entry for path
func (r *Registry) Get(path string) (models.RecentFile, bool) {
	path = normalize(path)
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.Path == path {
			return e, true
		}
	}
	return models.RecentFile{}, false
}

// Reopen reads path fresh from disk. Contents are never cached. When the file
// is gone the entry is removed and ErrStaleEntry is returned.
func (r *Registry) Reopen(ctx context.Context, fsys host.FileSystem, path string) (host.OpenedFile, error) {
	path = normalize(path)

	content, err := fsys.ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if rmErr := r.Remove(path); rmErr != nil {
				r.logger.Warn().Err(rmErr).Str("path", path).Msg("failed to drop stale recent file")
			}
			return host.OpenedFile{}, fmt.Errorf("%w: %s", ErrStaleEntry, path)
		}
		return host.OpenedFile{}, fmt.Errorf("failed to reopen %s: %w", path, err)
	}

	name := filepath.Base(path)
	if e, ok := r.Get(path); ok && e.DisplayName != "" {
		name = e.DisplayName
	}
	return host.OpenedFile{Content: content, DisplayName: name, Path: path}, nil
}

// Flush persists the current list. Used on forced shutdown.
func (r *Registry) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.persist(r.entries)
}

func (r *Registry) snapshot() []models.RecentFile {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.RecentFile, len(r.entries))
	copy(out, r.entries)
	return out
}

// commit persists next and adopts it only if the write succeeded.
func (r *Registry) commit(next []models.RecentFile) error {
	if err := r.persist(next); err != nil {
		return err
	}
	r.entries = next
	return nil
}

func (r *Registry) persist(entries []models.RecentFile) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode recent files: %w", err)
	}
	if err := r.store.Set(store.KeyRecentFiles, string(raw)); err != nil {
		return fmt.Errorf("failed to save recent files: %w", err)
	}
	return nil
}

// normalize cleans path lexically. Paths are compared by exact string
// equality afterwards; symlinks and case are not resolved.
func normalize(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Clean(path)
}

// RelativeDate formats when a file was last opened, counting whole days
func RelativeDate(t, now time.Time) string {
	days := int(now.Sub(t).Hours() / 24)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("2006-01-02")
	}
}
