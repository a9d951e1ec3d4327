package commands

import (
	"github.com/spf13/cobra"

	"github.com/sourcepad/sourcepad-cli/internal/cli"
)

// GlobalFlags are the persistent flags shared by every command
type GlobalFlags struct {
	ConfigDir string
	Store     string
	Output    string
	Quiet     bool
	NoColor   bool
	Yes       bool
	Debug     bool
}

// AddGlobalFlags registers the persistent flags on root and hooks them into
// the cli helpers before any command runs
func AddGlobalFlags(root *cobra.Command, f *GlobalFlags) {
	pf := root.PersistentFlags()
	pf.StringVar(&f.ConfigDir, "config-dir", "", "Configuration directory (default $SOURCEPAD_HOME or the user config dir)")
	pf.StringVar(&f.Store, "store", "", "Storage backend override: file, sqlite or memory")
	pf.StringVarP(&f.Output, "output", "o", string(cli.FormatText), "Output format: text, json or yaml")
	pf.BoolVarP(&f.Quiet, "quiet", "q", false, "Suppress informational output")
	pf.BoolVar(&f.NoColor, "no-color", false, "Disable symbols and colors in output")
	pf.BoolVarP(&f.Yes, "yes", "y", false, "Answer yes to every confirmation prompt")
	pf.BoolVar(&f.Debug, "debug", false, "Log at debug level")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := cli.ValidateOutputFormat(f.Output); err != nil {
			return err
		}
		if err := cli.ValidateStorageBackend(f.Store); err != nil {
			return err
		}
		cli.SetGlobalFlags(f.Quiet, f.NoColor, f.Yes)
		cli.SetStreams(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		return nil
	}
}

// AddCommands attaches every subcommand to root
func AddCommands(root *cobra.Command, version string) {
	root.AddCommand(
		NewRecentCommand(),
		NewTemplatesCommand(),
		NewThemeCommand(),
		NewVersionCommand(version),
	)
}

// withContext opens a command context for the duration of run
func withContext(cmd *cobra.Command, run func(*cli.CommandContext) error) (err error) {
	ctx, err := cli.NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := ctx.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return run(ctx)
}
