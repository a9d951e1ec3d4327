package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/sourcepad/sourcepad-cli/internal/cli"
	"github.com/sourcepad/sourcepad-cli/pkg/closing"
	"github.com/sourcepad/sourcepad-cli/pkg/files"
	"github.com/sourcepad/sourcepad-cli/pkg/host"
	"github.com/sourcepad/sourcepad-cli/pkg/logging"
	"github.com/sourcepad/sourcepad-cli/pkg/models"
	"github.com/sourcepad/sourcepad-cli/pkg/recent"
	"github.com/sourcepad/sourcepad-cli/pkg/session"
	"github.com/sourcepad/sourcepad-cli/pkg/store"
	"github.com/sourcepad/sourcepad-cli/pkg/theme"
	"github.com/sourcepad/sourcepad-cli/pkg/tui"
)

type launchOptions struct {
	ConfigDir string
	Store     string
	Debug     bool
	Template  string
	File      string
}

// environment is everything the editor needs before the program starts
type environment struct {
	settings *models.Settings
	logger   zerolog.Logger
	store    store.Store
	registry *recent.Registry
	theme    *theme.Preference
	closers  []io.Closer
}

func (e *environment) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i].Close())
	}
	e.closers = nil
	return errors.Join(errs...)
}

func setup(opts launchOptions) (*environment, error) {
	dir, err := files.ResolveConfigDir(opts.ConfigDir)
	if err != nil {
		return nil, err
	}
	if err := files.EnsureConfigDir(dir); err != nil {
		return nil, err
	}

	settings, err := files.ReadSettings(dir)
	if err != nil {
		cli.PrintWarning("%v; using default settings", err)
		settings = models.DefaultSettings()
	}
	if opts.Store != "" {
		settings.Storage.Backend = opts.Store
	}

	env := &environment{settings: settings}

	logger, logFile, err := logging.Setup(logging.Options{
		Path:   files.LogPath(dir, settings),
		Level:  settings.Log.Level,
		Debug:  opts.Debug,
		Pretty: true,
	})
	if err != nil {
		return nil, err
	}
	env.logger = logger
	env.closers = append(env.closers, logFile)

	st, err := store.Open(settings.Storage, dir)
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if f, ok := st.(*store.File); ok && f.Recovered() != "" {
		logger.Warn().Str("moved_to", f.Recovered()).Msg("state file was corrupt; starting with empty state")
		cli.PrintWarning("state file was corrupt and has been moved to %s", f.Recovered())
	}
	env.store = st
	env.closers = append(env.closers, st)

	env.registry = recent.Load(st, recent.WithLogger(logger))
	env.theme = theme.Load(st, theme.WithLogger(logger))

	logger.Info().Str("config_dir", dir).Str("store", settings.Storage.Backend).Str("version", version).Msg("starting")
	return env, nil
}

func launch(ctx context.Context, opts launchOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var path string
	if opts.File != "" {
		if err := cli.ValidateFilePath(opts.File); err != nil {
			return err
		}
		abs, err := filepath.Abs(opts.File)
		if err != nil {
			return err
		}
		path = abs
	}
	if opts.Template != "" {
		kind, err := cli.ValidateTemplateKind(opts.Template)
		if err != nil {
			return err
		}
		opts.Template = kind
	}

	env, err := setup(opts)
	if err != nil {
		return err
	}
	defer env.Close()
	logger := env.logger

	h := tui.NewTerminalHost(host.NewLocalFS(), version)
	widget := h.EditorWidget()

	sess := session.NewManager(h,
		session.WithConfirmer(h),
		session.WithRecents(env.registry),
		session.WithNotifier(h),
		session.WithLogger(logger),
		session.WithDefaultLanguage(env.settings.Editor.DefaultLanguage),
	)
	sess.Attach(widget)

	negotiator := closing.New(sess, h,
		closing.WithConfirmer(h),
		closing.WithFlusher(env.registry),
		closing.WithKeepResident(env.settings.Window.KeepResident),
		closing.WithLogger(logger),
	)

	startInEditor := false
	switch {
	case path != "":
		content, err := h.ReadFile(ctx, path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		sess.LoadFromExternal(content, filepath.Base(path), path)
		startInEditor = true
	case opts.Template != "":
		if err := sess.LoadTemplate(opts.Template); err != nil {
			return err
		}
		startInEditor = true
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	app := tui.NewApp(tui.Deps{
		Context:       runCtx,
		Session:       sess,
		Recent:        env.registry,
		Closing:       negotiator,
		Theme:         env.theme,
		Host:          h,
		Widget:        widget,
		Settings:      env.settings,
		Logger:        logger,
		StartInEditor: startInEditor,
	})
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithoutSignalHandler())
	h.Bind(p.Send)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		select {
		case sig := <-signals:
			logger.Info().Str("signal", sig.String()).Msg("forcing quit")
			negotiator.ForceQuit()
		case <-negotiator.Done():
		case <-runCtx.Done():
		}
	}()

	_, err = p.Run()
	cancel()
	// Covers the program ending without a negotiated close.
	negotiator.ForceQuit()

	if err != nil {
		logger.Error().Err(err).Msg("program failed")
		return fmt.Errorf("failed to start the terminal user interface: %w", err)
	}
	logger.Info().Msg("exited")
	return nil
}
