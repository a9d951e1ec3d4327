package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sourcepad/sourcepad-cli/cmd/commands"
)

// Version is set during build with -ldflags
var version = "dev"

var (
	flags    commands.GlobalFlags
	template string
)

var rootCmd = &cobra.Command{
	Use:   "sourcepad [file]",
	Short: "A small code editor for the terminal",
	Long: `SourcePad is a small code editor for the terminal. It opens on a start page
with starter templates and recently opened files, or directly in the editor
when given a file or a template.

Examples:
  # Open the start page
  sourcepad

  # Edit a file
  sourcepad main.py

  # Start from the TypeScript template
  sourcepad --template typescript`,
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := launchOptions{
			ConfigDir: flags.ConfigDir,
			Store:     flags.Store,
			Debug:     flags.Debug,
			Template:  template,
		}
		if len(args) == 1 {
			opts.File = args[0]
		}
		return launch(cmd.Context(), opts)
	},
}

func init() {
	commands.AddGlobalFlags(rootCmd, &flags)
	commands.AddCommands(rootCmd, version)
	rootCmd.Flags().StringVarP(&template, "template", "t", "", "Start from a template (javascript, typescript, html, css, python, json, markdown)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
