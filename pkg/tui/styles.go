package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sourcepad/sourcepad-cli/pkg/theme"
)

// Palette is the set of colors for one UI theme
type Palette struct {
	Active   string
	Inactive string
	Normal   string
	Dim      string
	Warning  string
	Danger   string
	Success  string
	Primary  string
	Title    string
	StatusBg string
	StatusFg string
}

var (
	darkPalette = Palette{
		Active:   "170", // Purple/magenta for active elements
		Inactive: "240",
		Normal:   "245",
		Dim:      "241",
		Warning:  "214",
		Danger:   "196",
		Success:  "42",
		Primary:  "33",
		Title:    "205",
		StatusBg: "236",
		StatusFg: "252",
	}

	lightPalette = Palette{
		Active:   "127",
		Inactive: "250",
		Normal:   "238",
		Dim:      "244",
		Warning:  "166",
		Danger:   "160",
		Success:  "28",
		Primary:  "25",
		Title:    "162",
		StatusBg: "254",
		StatusFg: "235",
	}
)

// Styles are the lipgloss styles of the whole program for one theme
type Styles struct {
	Palette Palette

	ActiveBorder   lipgloss.Style
	InactiveBorder lipgloss.Style
	Selected       lipgloss.Style
	Normal         lipgloss.Style
	SectionHeader  lipgloss.Style
	Title          lipgloss.Style
	Description    lipgloss.Style
	Key            lipgloss.Style
	Badge          lipgloss.Style
	ModifiedBadge  lipgloss.Style
	StatusBar      lipgloss.Style
	Input          lipgloss.Style
	Error          lipgloss.Style
	Padding        lipgloss.Style
}

// NewStyles builds the styles for th
func NewStyles(th theme.Theme) Styles {
	p := darkPalette
	if th.Light() {
		p = lightPalette
	}

	return Styles{
		Palette: p,

		ActiveBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Active)),

		InactiveBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Inactive)),

		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Active)).
			Bold(true),

		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Normal)),

		SectionHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.Warning)),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.Title)),

		Description: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Dim)),

		Key: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Primary)).
			Bold(true),

		Badge: lipgloss.NewStyle().
			Background(lipgloss.Color(p.Primary)).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1),

		ModifiedBadge: lipgloss.NewStyle().
			Background(lipgloss.Color(p.Warning)).
			Foreground(lipgloss.Color("235")).
			Padding(0, 1).
			Bold(true),

		StatusBar: lipgloss.NewStyle().
			Background(lipgloss.Color(p.StatusBg)).
			Foreground(lipgloss.Color(p.StatusFg)).
			Padding(0, 1),

		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Active)).
			Padding(0, 1),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Danger)),

		Padding: lipgloss.NewStyle().
			PaddingLeft(1).
			PaddingRight(1),
	}
}

// StatusStyle colors a notification by its type
func (s Styles) StatusStyle(t StatusType) lipgloss.Style {
	color := s.Palette.Normal
	switch t {
	case StatusTypeSuccess:
		color = s.Palette.Success
	case StatusTypeWarning:
		color = s.Palette.Warning
	case StatusTypeError:
		color = s.Palette.Danger
	case StatusTypeInfo:
		color = s.Palette.Primary
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}

// applyEditorTheme styles the editing widget for an editor theme
func applyEditorTheme(ta *textarea.Model, editorTheme string) {
	focused, blurred := textarea.DefaultStyles()

	switch editorTheme {
	case theme.EditorLight:
		focused.Text = lipgloss.NewStyle().Foreground(lipgloss.Color("235"))
		focused.CursorLine = lipgloss.NewStyle().Background(lipgloss.Color("255")).Foreground(lipgloss.Color("232"))
		focused.LineNumber = lipgloss.NewStyle().Foreground(lipgloss.Color("248"))
		focused.CursorLineNumber = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	case theme.EditorHighContrast:
		focused.Text = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
		focused.CursorLine = lipgloss.NewStyle().Background(lipgloss.Color("0")).Foreground(lipgloss.Color("11")).Bold(true)
		focused.LineNumber = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
		focused.CursorLineNumber = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	default:
		focused.Text = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
		focused.CursorLine = lipgloss.NewStyle().Background(lipgloss.Color("236"))
		focused.LineNumber = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
		focused.CursorLineNumber = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	}

	ta.FocusedStyle = focused
	ta.BlurredStyle = blurred
}
