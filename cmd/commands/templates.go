package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sourcepad/sourcepad-cli/internal/cli"
	"github.com/sourcepad/sourcepad-cli/pkg/languages"
	"github.com/sourcepad/sourcepad-cli/pkg/templates"
)

// TemplateItem is one template in structured output
type TemplateItem struct {
	Kind     string `json:"kind" yaml:"kind"`
	Language string `json:"language" yaml:"language"`
	FileName string `json:"file_name" yaml:"file_name"`
	Lines    int    `json:"lines" yaml:"lines"`
	Content  string `json:"content,omitempty" yaml:"content,omitempty"`
}

// NewTemplatesCommand creates the templates command
func NewTemplatesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"template"},
		Short:   "List the starter templates",
		Long: `List the starter templates offered on the start page, or print one.

Examples:
  # List templates
  sourcepad templates

  # Print the Python template
  sourcepad templates show python

  # Start a new file from a template
  sourcepad templates show python > main.py`,
		Args: cobra.NoArgs,
		RunE: runTemplatesList,
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "show <kind>",
		Short:     "Print a template's content",
		Args:      cobra.ExactArgs(1),
		ValidArgs: templates.Kinds,
		RunE:      runTemplatesShow,
	})

	return cmd
}

func runTemplatesList(cmd *cobra.Command, args []string) error {
	outputFormat, _ := cmd.Flags().GetString("output")

	items := make([]TemplateItem, 0, len(templates.Kinds))
	for _, t := range templates.All() {
		items = append(items, TemplateItem{
			Kind:     t.Kind,
			Language: t.Language,
			FileName: t.FileName(),
			Lines:    strings.Count(t.Content, "\n") + 1,
		})
	}

	if outputFormat == "json" || outputFormat == "yaml" {
		return cli.OutputResults(cmd.OutOrStdout(), outputFormat, items)
	}

	table := cli.NewTableFormatter(cmd.OutOrStdout())
	table.Header("KIND", "LANGUAGE", "FILE", "LINES")
	for _, item := range items {
		table.Row(item.Kind, languages.DisplayName(item.Language), item.FileName, fmt.Sprint(item.Lines))
	}
	return table.Flush()
}

func runTemplatesShow(cmd *cobra.Command, args []string) error {
	kind, err := cli.ValidateTemplateKind(args[0])
	if err != nil {
		return err
	}
	t, _ := templates.Get(kind)

	outputFormat, _ := cmd.Flags().GetString("output")
	if outputFormat == "json" || outputFormat == "yaml" {
		return cli.OutputResults(cmd.OutOrStdout(), outputFormat, TemplateItem{
			Kind:     t.Kind,
			Language: t.Language,
			FileName: t.FileName(),
			Lines:    strings.Count(t.Content, "\n") + 1,
			Content:  t.Content,
		})
	}

	content := t.Content
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), content)
	return err
}
