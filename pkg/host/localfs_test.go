package host

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS_WriteThenRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "a.py")
	lfs := NewLocalFS()

	require.NoError(t, lfs.WriteFile(context.Background(), path, "print('hi')\n"))

	got, err := lfs.ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "print('hi')\n", got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should have been renamed away")
}

func TestLocalFS_OverwriteKeepsPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.sh")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0600))

	lfs := NewLocalFS()
	require.NoError(t, lfs.WriteFile(context.Background(), path, "new"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	content, _ := os.ReadFile(path)
	assert.Equal(t, "new", string(content))
}

func TestLocalFS_ReadMissingFile(t *testing.T) {
	_, err := NewLocalFS().ReadFile(context.Background(), filepath.Join(t.TempDir(), "gone.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLocalFS_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewLocalFS().WriteFile(ctx, filepath.Join(t.TempDir(), "a.txt"), "x")
	assert.ErrorIs(t, err, context.Canceled)
}
