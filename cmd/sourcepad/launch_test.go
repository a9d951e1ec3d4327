package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcepad/sourcepad-cli/pkg/files"
	"github.com/sourcepad/sourcepad-cli/pkg/models"
	"github.com/sourcepad/sourcepad-cli/pkg/store"
)

func TestSetup(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		dir := t.TempDir()
		env, err := setup(launchOptions{ConfigDir: dir})
		require.NoError(t, err)
		defer env.Close()

		assert.Equal(t, models.DefaultSettings(), env.settings)
		assert.IsType(t, &store.File{}, env.store)
		assert.Equal(t, 0, env.registry.Len())
		assert.FileExists(t, filepath.Join(dir, files.LogFile))
	})

	t.Run("store override", func(t *testing.T) {
		env, err := setup(launchOptions{ConfigDir: t.TempDir(), Store: models.StorageMemory})
		require.NoError(t, err)
		defer env.Close()

		assert.IsType(t, &store.Memory{}, env.store)
	})

	t.Run("settings file", func(t *testing.T) {
		dir := t.TempDir()
		settings := models.DefaultSettings()
		settings.Storage.Backend = models.StorageSQLite
		settings.Window.KeepResident = true
		settings.Log.File = "custom.log"
		require.NoError(t, files.WriteSettings(dir, settings))

		env, err := setup(launchOptions{ConfigDir: dir})
		require.NoError(t, err)
		defer env.Close()

		assert.True(t, env.settings.Window.KeepResident)
		assert.IsType(t, &store.SQLite{}, env.store)
		assert.FileExists(t, filepath.Join(dir, "custom.log"))
	})

	t.Run("broken settings fall back to defaults", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(files.SettingsPath(dir), []byte("editor: [not a map"), 0644))

		env, err := setup(launchOptions{ConfigDir: dir})
		require.NoError(t, err)
		defer env.Close()

		assert.Equal(t, models.DefaultSettings().Editor, env.settings.Editor)
	})

	t.Run("corrupt state starts empty", func(t *testing.T) {
		dir := t.TempDir()
		state := filepath.Join(dir, "state.yaml")
		require.NoError(t, os.WriteFile(state, []byte("recentFiles: [unterminated"), 0644))

		env, err := setup(launchOptions{ConfigDir: dir})
		require.NoError(t, err)
		defer env.Close()

		assert.Equal(t, 0, env.registry.Len())
		assert.FileExists(t, state+store.CorruptSuffix)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := setup(launchOptions{ConfigDir: t.TempDir(), Store: "redis"})
		assert.ErrorContains(t, err, "unknown storage backend")
	})
}

func TestLaunch_RejectsBadArguments(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		opts    launchOptions
		wantErr string
	}{
		{
			name:    "missing file",
			opts:    launchOptions{ConfigDir: dir, File: filepath.Join(dir, "nope.py")},
			wantErr: "path does not exist",
		},
		{
			name:    "directory",
			opts:    launchOptions{ConfigDir: dir, File: dir},
			wantErr: "is a directory",
		},
		{
			name:    "unknown template",
			opts:    launchOptions{ConfigDir: dir, Template: "cobol"},
			wantErr: "unknown template",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := launch(context.Background(), tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
