package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/sourcepad/sourcepad-cli/internal/cli"
	"github.com/sourcepad/sourcepad-cli/pkg/languages"
	"github.com/sourcepad/sourcepad-cli/pkg/recent"
)

// RecentResult is the structured output of `recent list`
type RecentResult struct {
	Files []RecentItem `json:"files" yaml:"files"`
	Count int          `json:"count" yaml:"count"`
}

// RecentItem is one recent file in structured output
type RecentItem struct {
	Name       string    `json:"name" yaml:"name"`
	Path       string    `json:"path" yaml:"path"`
	Language   string    `json:"language,omitempty" yaml:"language,omitempty"`
	LastOpened time.Time `json:"last_opened" yaml:"last_opened"`
}

// now is replaced in tests
var now = time.Now

// NewRecentCommand creates the recent command
func NewRecentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show and manage recently opened files",
		Long: `Show and manage the recently opened files listed on the start page.

Examples:
  # List recent files
  sourcepad recent

  # List recent files as JSON
  sourcepad recent list -o json

  # Forget one file
  sourcepad recent remove ~/src/app.py

  # Forget everything without prompting
  sourcepad recent clear --yes`,
		Args: cobra.NoArgs,
		RunE: runRecentList,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List recent files, newest first",
			Args:  cobra.NoArgs,
			RunE:  runRecentList,
		},
		&cobra.Command{
			Use:   "remove <path>",
			Short: "Remove a file from the recent list",
			Args:  cobra.ExactArgs(1),
			RunE:  runRecentRemove,
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every file from the recent list",
			Args:  cobra.NoArgs,
			RunE:  runRecentClear,
		},
	)

	return cmd
}

func runRecentList(cmd *cobra.Command, args []string) error {
	outputFormat, _ := cmd.Flags().GetString("output")

	return withContext(cmd, func(ctx *cli.CommandContext) error {
		registry, err := ctx.Registry()
		if err != nil {
			return err
		}

		result := RecentResult{Files: []RecentItem{}}
		for entry := range registry.List() {
			result.Files = append(result.Files, RecentItem{
				Name:       entry.DisplayName,
				Path:       entry.Path,
				Language:   entry.Language,
				LastOpened: entry.LastOpenedAt,
			})
		}
		result.Count = len(result.Files)

		if outputFormat == "json" || outputFormat == "yaml" {
			return cli.OutputResults(cmd.OutOrStdout(), outputFormat, result)
		}

		if result.Count == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No recent files")
			return nil
		}

		table := cli.NewTableFormatter(cmd.OutOrStdout())
		table.Header("NAME", "LANGUAGE", "OPENED", "PATH")
		current := now()
		for _, f := range result.Files {
			language := f.Language
			if language == "" {
				language = languages.ForFileName(f.Name)
			}
			table.Row(
				cli.TruncateString(f.Name, 32),
				languages.DisplayName(language),
				recent.RelativeDate(f.LastOpened, current),
				f.Path,
			)
		}
		return table.Flush()
	})
}

func runRecentRemove(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid path %s: %w", args[0], err)
	}

	return withContext(cmd, func(ctx *cli.CommandContext) error {
		registry, err := ctx.Registry()
		if err != nil {
			return err
		}
		if _, ok := registry.Get(path); !ok {
			return fmt.Errorf("not in recent files: %s", path)
		}
		if err := registry.Remove(path); err != nil {
			return err
		}
		cli.PrintSuccess("Removed %s from recent files", path)
		return nil
	})
}

func runRecentClear(cmd *cobra.Command, args []string) error {
	return withContext(cmd, func(ctx *cli.CommandContext) error {
		registry, err := ctx.Registry()
		if err != nil {
			return err
		}
		if registry.Len() == 0 {
			cli.PrintInfo("Recent files list is already empty")
			return nil
		}

		ok, err := cli.Confirm(fmt.Sprintf("Remove all %d recent files?", registry.Len()), false)
		if err != nil {
			return err
		}
		if !ok {
			cli.PrintInfo("Cancelled")
			return nil
		}

		if err := registry.Clear(); err != nil {
			return err
		}
		cli.PrintSuccess("Cleared recent files")
		return nil
	})
}
