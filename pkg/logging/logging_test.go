package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		debug bool
		want  zerolog.Level
	}{
		{"warn", false, zerolog.WarnLevel},
		{"debug", false, zerolog.DebugLevel},
		{"", false, zerolog.InfoLevel},
		{"loud", false, zerolog.InfoLevel},
		{"error", true, zerolog.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.name, tt.debug))
		})
	}
}

func TestSetupWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sourcepad.log")

	logger, closer, err := Setup(Options{Path: path, Level: "info"})
	require.NoError(t, err)
	logger.Debug().Msg("hidden")
	logger.Info().Str("path", "/tmp/a.py").Msg("file saved")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "file saved")
	assert.Contains(t, string(data), "/tmp/a.py")
	assert.NotContains(t, string(data), "hidden")
}

func TestSetupWithoutPath(t *testing.T) {
	logger, closer, err := Setup(Options{})
	require.NoError(t, err)
	logger.Info().Msg("dropped")
	assert.NoError(t, closer.Close())
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, zerolog.WarnLevel)
	logger.Info().Msg("quiet")
	logger.Warn().Msg("loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"caller"`)
}
