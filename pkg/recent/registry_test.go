package recent

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcepad/sourcepad-cli/pkg/store"
)

// tickingClock returns a clock advancing one minute per call
func tickingClock() func() time.Time {
	t := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func paths(r *Registry) []string {
	var out []string
	for e := range r.List() {
		out = append(out, e.Path)
	}
	return out
}

type fakeFS struct {
	files map[string]string
	err   error
}

func (f *fakeFS) ReadFile(_ context.Context, path string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	content, ok := f.files[path]
	if !ok {
		return "", fmt.Errorf("failed to read file %s: %w", path, fs.ErrNotExist)
	}
	return content, nil
}

func (f *fakeFS) WriteFile(_ context.Context, path, content string) error {
	f.files[path] = content
	return nil
}

type failingStore struct {
	*store.Memory
}

func (f failingStore) Set(string, string) error { return errors.New("disk full") }

func TestRegistry_AddDuplicateMovesToFront(t *testing.T) {
	r := Load(store.NewMemory(), WithClock(tickingClock()))

	require.NoError(t, r.Add("/tmp/a.py", "a.py", "python"))
	require.NoError(t, r.Add("/tmp/b.js", "b.js", "javascript"))
	first, _ := r.Get("/tmp/a.py")

	require.NoError(t, r.Add("/tmp/a.py", "a.py", "python"))

	assert.Equal(t, []string{"/tmp/a.py", "/tmp/b.js"}, paths(r))
	again, _ := r.Get("/tmp/a.py")
	assert.True(t, again.LastOpenedAt.After(first.LastOpenedAt), "lastOpenedAt should be refreshed")
}

func TestRegistry_CapEvictsLeastRecent(t *testing.T) {
	r := Load(store.NewMemory(), WithClock(tickingClock()))

	for i := 1; i <= MaxEntries+1; i++ {
		require.NoError(t, r.Add(fmt.Sprintf("/src/file%d.go", i), "", ""))
	}

	got := paths(r)
	require.Len(t, got, MaxEntries)
	assert.Equal(t, "/src/file11.go", got[0])
	assert.NotContains(t, got, "/src/file1.go")
	assert.Equal(t, "/src/file2.go", got[len(got)-1])
}

func TestRegistry_DisplayNameDefaultsToBase(t *testing.T) {
	r := Load(store.NewMemory())
	require.NoError(t, r.Add("/work/notes.md", "", "markdown"))

	e, ok := r.Get("/work/notes.md")
	require.True(t, ok)
	assert.Equal(t, "notes.md", e.DisplayName)
	assert.Equal(t, "markdown", e.Language)
}

func TestRegistry_PathsAreCleaned(t *testing.T) {
	r := Load(store.NewMemory())
	require.NoError(t, r.Add("/work/./src/../a.py", "a.py", ""))
	require.NoError(t, r.Add("/work/a.py", "a.py", ""))

	assert.Equal(t, []string{"/work/a.py"}, paths(r))
}

func TestRegistry_RemoveAndClear(t *testing.T) {
	r := Load(store.NewMemory())
	require.NoError(t, r.Add("/a", "", ""))
	require.NoError(t, r.Add("/b", "", ""))
	require.NoError(t, r.Add("/c", "", ""))

	require.NoError(t, r.Remove("/b"))
	assert.Equal(t, []string{"/c", "/a"}, paths(r))

	require.NoError(t, r.Remove("/missing"))
	assert.Equal(t, 2, r.Len())

	require.NoError(t, r.Clear())
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, paths(r))
}

func TestRegistry_EmptyPathRejected(t *testing.T) {
	r := Load(store.NewMemory())
	assert.Error(t, r.Add("", "x", ""))
}

func TestRegistry_WriteThroughAndReload(t *testing.T) {
	s := store.NewMemory()
	r := Load(s, WithClock(tickingClock()))
	require.NoError(t, r.Add("/tmp/a.py", "a.py", "python"))
	require.NoError(t, r.Add("/tmp/b.ts", "b.ts", "typescript"))

	raw, ok, err := s.Get(store.KeyRecentFiles)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `"path":"/tmp/b.ts"`)
	assert.Contains(t, raw, `"name":"b.ts"`)
	assert.Contains(t, raw, `"lastOpened"`)

	reloaded := Load(s)
	assert.Equal(t, []string{"/tmp/b.ts", "/tmp/a.py"}, paths(reloaded))
}

func TestRegistry_CorruptDataDegradesToEmpty(t *testing.T) {
	s := store.NewMemory()
	require.NoError(t, s.Set(store.KeyRecentFiles, "{not json"))

	r := Load(s)
	assert.Equal(t, 0, r.Len())

	// Still usable afterwards
	require.NoError(t, r.Add("/tmp/a.py", "", ""))
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_LoadDropsDuplicatesAndOverflow(t *testing.T) {
	s := store.NewMemory()
	raw := `[`
	for i := 0; i < 12; i++ {
		if i > 0 {
			raw += ","
		}
		raw += fmt.Sprintf(`{"path":"/f%d","name":"f%d"}`, i%11, i%11)
	}
	raw += `]`
	require.NoError(t, s.Set(store.KeyRecentFiles, raw))

	r := Load(s)
	assert.Equal(t, MaxEntries, r.Len())
	assert.Equal(t, "/f0", paths(r)[0])
}

func TestRegistry_FailedPersistLeavesListUnchanged(t *testing.T) {
	r := Load(failingStore{store.NewMemory()})

	err := r.Add("/tmp/a.py", "", "")
	require.Error(t, err)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_ListIsRestartable(t *testing.T) {
	r := Load(store.NewMemory())
	require.NoError(t, r.Add("/a", "", ""))
	require.NoError(t, r.Add("/b", "", ""))

	seq := r.List()

	var first []string
	for e := range seq {
		first = append(first, e.Path)
		break
	}
	assert.Equal(t, []string{"/b"}, first)

	var second []string
	for e := range seq {
		second = append(second, e.Path)
	}
	assert.Equal(t, []string{"/b", "/a"}, second)
}

func TestRegistry_Reopen(t *testing.T) {
	fsys := &fakeFS{files: map[string]string{"/tmp/a.py": "print(1)\n"}}
	r := Load(store.NewMemory())
	require.NoError(t, r.Add("/tmp/a.py", "a.py", "python"))
	require.NoError(t, r.Add("/tmp/gone.js", "gone.js", "javascript"))

	t.Run("reads fresh content", func(t *testing.T) {
		opened, err := r.Reopen(context.Background(), fsys, "/tmp/a.py")
		require.NoError(t, err)
		assert.Equal(t, "print(1)\n", opened.Content)
		assert.Equal(t, "a.py", opened.DisplayName)
		assert.Equal(t, "/tmp/a.py", opened.Path)

		fsys.files["/tmp/a.py"] = "print(2)\n"
		opened, err = r.Reopen(context.Background(), fsys, "/tmp/a.py")
		require.NoError(t, err)
		assert.Equal(t, "print(2)\n", opened.Content)
	})

	t.Run("missing file removes entry", func(t *testing.T) {
		_, err := r.Reopen(context.Background(), fsys, "/tmp/gone.js")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrStaleEntry)
		_, ok := r.Get("/tmp/gone.js")
		assert.False(t, ok)
	})

	t.Run("other read failures keep entry", func(t *testing.T) {
		failing := &fakeFS{err: errors.New("permission denied")}
		_, err := r.Reopen(context.Background(), failing, "/tmp/a.py")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrStaleEntry)
		_, ok := r.Get("/tmp/a.py")
		assert.True(t, ok)
	})
}

func TestRegistry_Flush(t *testing.T) {
	s := store.NewMemory()
	r := Load(s)
	require.NoError(t, r.Add(filepath.Join("/tmp", "a.py"), "", ""))
	require.NoError(t, s.Delete(store.KeyRecentFiles))

	require.NoError(t, r.Flush())
	raw, ok, _ := s.Get(store.KeyRecentFiles)
	assert.True(t, ok)
	assert.Contains(t, raw, "/tmp/a.py")
}

func TestRelativeDate(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"same moment", now, "Today"},
		{"hours ago", now.Add(-5 * time.Hour), "Today"},
		{"one day", now.Add(-25 * time.Hour), "Yesterday"},
		{"three days", now.Add(-3 * 24 * time.Hour), "3 days ago"},
		{"old", now.Add(-30 * 24 * time.Hour), "2024-04-20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDate(tt.t, now))
		})
	}
}
