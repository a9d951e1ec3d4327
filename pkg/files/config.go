package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sourcepad/sourcepad-cli/pkg/models"
)

const (
	// HomeEnv overrides the configuration directory
	HomeEnv      = "SOURCEPAD_HOME"
	AppDirName   = "sourcepad"
	SettingsFile = "settings.yaml"
	LogFile      = "sourcepad.log"
)

// ResolveConfigDir picks the configuration directory: an explicit override,
// then $SOURCEPAD_HOME, then the user config dir.
func ResolveConfigDir(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if home := os.Getenv(HomeEnv); home != "" {
		return home, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(base, AppDirName), nil
}

// EnsureConfigDir creates dir if needed
func EnsureConfigDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// SettingsPath returns the settings file inside dir
func SettingsPath(dir string) string {
	return filepath.Join(dir, SettingsFile)
}

// LogPath returns where the log file goes. A relative log.file setting is
// taken relative to dir.
func LogPath(dir string, settings *models.Settings) string {
	name := LogFile
	if settings != nil && settings.Log.File != "" {
		name = settings.Log.File
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// ReadSettings loads settings from dir. A missing file yields the defaults;
// fields absent from the file keep their default values.
func ReadSettings(dir string) (*models.Settings, error) {
	settings := models.DefaultSettings()

	data, err := os.ReadFile(SettingsPath(dir))
	if errors.Is(err, fs.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return settings, nil
}

// WriteSettings saves settings to dir
func WriteSettings(dir string, settings *models.Settings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := EnsureConfigDir(dir); err != nil {
		return err
	}
	if err := os.WriteFile(SettingsPath(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// LoadSettingsWithDefault loads settings or returns the defaults on error
func LoadSettingsWithDefault(dir string) *models.Settings {
	settings, err := ReadSettings(dir)
	if err != nil {
		return models.DefaultSettings()
	}
	return settings
}
