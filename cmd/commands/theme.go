package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sourcepad/sourcepad-cli/internal/cli"
	"github.com/sourcepad/sourcepad-cli/pkg/theme"
)

// ThemeResult is the structured output of the theme command
type ThemeResult struct {
	Editor string `json:"editor" yaml:"editor"`
	UI     string `json:"ui" yaml:"ui"`
}

// NewThemeCommand creates the theme command
func NewThemeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the color theme",
		Long: `Show or change the editor and UI themes.

Editor themes: ` + strings.Join(theme.EditorThemes, ", ") + `
UI themes:     ` + strings.Join(theme.UIThemes, ", ") + `

Examples:
  # Show the current theme
  sourcepad theme

  # Switch between light and dark
  sourcepad theme toggle

  # Use the high contrast editor theme
  sourcepad theme set editor hc-black`,
		Args: cobra.NoArgs,
		RunE: runThemeShow,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "toggle",
			Short: "Switch between the light and dark themes",
			Args:  cobra.NoArgs,
			RunE:  runThemeToggle,
		},
		&cobra.Command{
			Use:       "set <editor|ui> <name>",
			Short:     "Set the editor or UI theme",
			Args:      cobra.ExactArgs(2),
			ValidArgs: []string{"editor", "ui"},
			RunE:      runThemeSet,
		},
	)

	return cmd
}

func runThemeShow(cmd *cobra.Command, args []string) error {
	return withContext(cmd, func(ctx *cli.CommandContext) error {
		pref, err := ctx.Theme()
		if err != nil {
			return err
		}
		return printTheme(cmd, pref.Current())
	})
}

func runThemeToggle(cmd *cobra.Command, args []string) error {
	return withContext(cmd, func(ctx *cli.CommandContext) error {
		pref, err := ctx.Theme()
		if err != nil {
			return err
		}
		next, err := pref.Toggle()
		if err != nil {
			return err
		}
		cli.PrintSuccess("Theme set to %s (ui: %s)", next.Editor, next.UI)
		return nil
	})
}

func runThemeSet(cmd *cobra.Command, args []string) error {
	target, name := strings.ToLower(args[0]), args[1]

	return withContext(cmd, func(ctx *cli.CommandContext) error {
		pref, err := ctx.Theme()
		if err != nil {
			return err
		}
		switch target {
		case "editor":
			err = pref.SetEditor(name)
		case "ui":
			err = pref.SetUI(name)
		default:
			return fmt.Errorf("unknown theme target: %s (must be: editor or ui)", args[0])
		}
		if err != nil {
			return err
		}
		cli.PrintSuccess("%s theme set to %s", target, name)
		return nil
	})
}

func printTheme(cmd *cobra.Command, t theme.Theme) error {
	outputFormat, _ := cmd.Flags().GetString("output")
	result := ThemeResult{Editor: t.Editor, UI: t.UI}
	if outputFormat == "json" || outputFormat == "yaml" {
		return cli.OutputResults(cmd.OutOrStdout(), outputFormat, result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Editor theme: %s\n", result.Editor)
	fmt.Fprintf(cmd.OutOrStdout(), "UI theme:     %s\n", result.UI)
	return nil
}
