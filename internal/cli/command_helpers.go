package cli

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sourcepad/sourcepad-cli/pkg/files"
	"github.com/sourcepad/sourcepad-cli/pkg/logging"
	"github.com/sourcepad/sourcepad-cli/pkg/models"
	"github.com/sourcepad/sourcepad-cli/pkg/recent"
	"github.com/sourcepad/sourcepad-cli/pkg/store"
	"github.com/sourcepad/sourcepad-cli/pkg/theme"
)

// CommandContext holds what a subcommand needs from the configuration
// directory. The store is opened lazily and released by Close.
type CommandContext struct {
	ConfigDir    string
	StoreBackend string
	Settings     *models.Settings
	Logger       zerolog.Logger

	store    store.Store
	registry *recent.Registry
	theme    *theme.Preference
}

// NewCommandContext resolves the configuration directory from the
// persistent --config-dir and --store flags
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	override, _ := cmd.Flags().GetString("config-dir")
	backend, _ := cmd.Flags().GetString("store")
	debug, _ := cmd.Flags().GetBool("debug")

	if err := ValidateStorageBackend(backend); err != nil {
		return nil, err
	}
	dir, err := files.ResolveConfigDir(override)
	if err != nil {
		return nil, err
	}

	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return &CommandContext{
		ConfigDir:    dir,
		StoreBackend: backend,
		Logger:       logging.Console(level),
	}, nil
}

// LoadSettingsWithDefault loads settings or returns default if error
func (c *CommandContext) LoadSettingsWithDefault() *models.Settings {
	if c.Settings != nil {
		return c.Settings
	}

	settings, err := files.ReadSettings(c.ConfigDir)
	if err != nil {
		c.Logger.Warn().Err(err).Msg("using default settings")
		settings = models.DefaultSettings()
	}
	if c.StoreBackend != "" {
		settings.Storage.Backend = c.StoreBackend
	}

	c.Settings = settings
	return settings
}

// Store opens the configured key-value store on first use
func (c *CommandContext) Store() (store.Store, error) {
	if c.store != nil {
		return c.store, nil
	}
	settings := c.LoadSettingsWithDefault()
	if err := files.EnsureConfigDir(c.ConfigDir); err != nil {
		return nil, err
	}
	st, err := store.Open(settings.Storage, c.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	c.store = st
	return st, nil
}

// Registry loads the recent-files list
func (c *CommandContext) Registry() (*recent.Registry, error) {
	if c.registry != nil {
		return c.registry, nil
	}
	st, err := c.Store()
	if err != nil {
		return nil, err
	}
	c.registry = recent.Load(st, recent.WithLogger(c.Logger))
	return c.registry, nil
}

// Theme loads the theme preference
func (c *CommandContext) Theme() (*theme.Preference, error) {
	if c.theme != nil {
		return c.theme, nil
	}
	st, err := c.Store()
	if err != nil {
		return nil, err
	}
	c.theme = theme.Load(st, theme.WithLogger(c.Logger))
	return c.theme, nil
}

// Close flushes the recent list and closes the store
func (c *CommandContext) Close() error {
	if c.store == nil {
		return nil
	}
	var errs []error
	if c.registry != nil {
		errs = append(errs, c.registry.Flush())
	}
	errs = append(errs, c.store.Close())
	c.store = nil
	return errors.Join(errs...)
}
