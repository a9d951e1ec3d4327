package tui

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sourcepad/sourcepad-cli/pkg/models"
)

// allowedTypes turns a dialog filter into filepicker suffixes. A wildcard
// filter allows everything.
func allowedTypes(filter models.FileFilter) []string {
	var types []string
	for _, ext := range filter.Extensions {
		if ext == "*" {
			return nil
		}
		types = append(types, "."+ext)
	}
	return types
}

// openDialog lets the user pick an existing file
type openDialog struct {
	picker   filepicker.Model
	filters  []models.FileFilter
	filter   int
	reply    chan<- dialogResult
	rejected string
}

func newOpenDialog(req openDialogRequestMsg, dir string, height int) *openDialog {
	fp := filepicker.New()
	fp.CurrentDirectory = dir
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.AutoHeight = false
	fp.Height = max(height, 5)

	d := &openDialog{
		picker:  fp,
		filters: req.filters,
		reply:   req.reply,
	}
	d.applyFilter()
	return d
}

func (d *openDialog) Init() tea.Cmd {
	return d.picker.Init()
}

func (d *openDialog) applyFilter() {
	if len(d.filters) == 0 {
		d.picker.AllowedTypes = nil
		return
	}
	d.picker.AllowedTypes = allowedTypes(d.filters[d.filter])
}

// filterName is the label of the active filter
func (d *openDialog) filterName() string {
	if len(d.filters) == 0 {
		return "All Files"
	}
	return d.filters[d.filter].Name
}

// Update returns done when the dialog answered and should be closed
func (d *openDialog) Update(msg tea.Msg) (cmd tea.Cmd, done bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "ctrl+c":
			d.reply <- dialogResult{}
			return nil, true
		case "tab":
			if len(d.filters) > 0 {
				d.filter = (d.filter + 1) % len(d.filters)
				d.applyFilter()
				d.rejected = ""
				return d.picker.Init(), false
			}
			return nil, false
		}
	}

	d.picker, cmd = d.picker.Update(msg)

	if ok, path := d.picker.DidSelectFile(msg); ok {
		d.reply <- dialogResult{path: path, ok: true}
		return cmd, true
	}
	if ok, path := d.picker.DidSelectDisabledFile(msg); ok {
		d.rejected = filepath.Base(path) + " does not match " + d.filterName()
	}
	return cmd, false
}

func (d *openDialog) View(styles Styles, width int) string {
	var b strings.Builder
	b.WriteString(styles.SectionHeader.Render("Open File"))
	b.WriteString("\n")
	b.WriteString(styles.Description.Render(d.picker.CurrentDirectory))
	b.WriteString("\n\n")
	b.WriteString(d.picker.View())
	b.WriteString("\n")
	if d.rejected != "" {
		b.WriteString(styles.Error.Render(d.rejected))
		b.WriteString("\n")
	}
	b.WriteString(styles.Description.Render("Filter: " + d.filterName() + "  •  tab: next filter  •  enter: open  •  esc: cancel"))
	return styles.ActiveBorder.Width(max(width-4, 20)).Padding(0, 1).Render(b.String())
}

// saveDialog asks for a destination path
type saveDialog struct {
	input   textinput.Model
	filters []models.FileFilter
	reply   chan<- dialogResult
	cwd     string

	err     string
	confirm string // path awaiting overwrite confirmation
}

func newSaveDialog(req saveDialogRequestMsg, cwd string, width int) *saveDialog {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = "path/to/file.ext"
	ti.CharLimit = 4096
	ti.Width = max(width-10, 20)
	ti.SetValue(req.suggested)
	ti.CursorEnd()
	ti.Focus()

	return &saveDialog{
		input:   ti,
		filters: req.filters,
		reply:   req.reply,
		cwd:     cwd,
	}
}

func (d *saveDialog) Init() tea.Cmd {
	return textinput.Blink
}

// resolve turns the typed value into an absolute path
func (d *saveDialog) resolve() (string, error) {
	value := strings.TrimSpace(d.input.Value())
	if value == "" {
		return "", errors.New("enter a file name")
	}
	if strings.HasPrefix(value, "~"+string(filepath.Separator)) {
		if home, err := os.UserHomeDir(); err == nil {
			value = filepath.Join(home, value[2:])
		}
	}
	if !filepath.IsAbs(value) {
		value = filepath.Join(d.cwd, value)
	}
	value = filepath.Clean(value)

	info, err := os.Stat(value)
	if err == nil && info.IsDir() {
		return "", errors.New(value + " is a directory")
	}
	if dir, err := os.Stat(filepath.Dir(value)); err != nil || !dir.IsDir() {
		return "", errors.New("directory " + filepath.Dir(value) + " does not exist")
	}
	return value, nil
}

func (d *saveDialog) Update(msg tea.Msg) (cmd tea.Cmd, done bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "ctrl+c":
			d.reply <- dialogResult{}
			return nil, true
		case "enter":
			path, err := d.resolve()
			if err != nil {
				d.err = err.Error()
				return nil, false
			}
			if d.confirm != path {
				if _, err := os.Stat(path); err == nil {
					d.confirm = path
					d.err = ""
					return nil, false
				} else if !errors.Is(err, fs.ErrNotExist) {
					d.err = err.Error()
					return nil, false
				}
			}
			d.reply <- dialogResult{path: path, ok: true}
			return nil, true
		}
	}

	before := d.input.Value()
	d.input, cmd = d.input.Update(msg)
	if d.input.Value() != before {
		d.err = ""
		d.confirm = ""
	}
	return cmd, false
}

func (d *saveDialog) View(styles Styles, width int) string {
	var b strings.Builder
	b.WriteString(styles.SectionHeader.Render("Save As"))
	b.WriteString("\n")
	b.WriteString(styles.Description.Render("Relative paths are resolved against " + d.cwd))
	b.WriteString("\n\n")
	b.WriteString(d.input.View())
	b.WriteString("\n\n")
	switch {
	case d.err != "":
		b.WriteString(styles.Error.Render(d.err))
	case d.confirm != "":
		b.WriteString(styles.SectionHeader.Render(filepath.Base(d.confirm) + " already exists. Press enter again to replace it."))
	default:
		b.WriteString(styles.Description.Render(filterSummary(d.filters)))
	}
	b.WriteString("\n")
	b.WriteString(styles.Description.Render("enter: save  •  esc: cancel"))
	return styles.ActiveBorder.Width(max(width-4, 20)).Padding(0, 1).Render(b.String())
}

// filterSummary lists the supported extensions of the first filter
func filterSummary(filters []models.FileFilter) string {
	if len(filters) == 0 {
		return ""
	}
	exts := make([]string, 0, len(filters[0].Extensions))
	for _, ext := range filters[0].Extensions {
		exts = append(exts, "."+ext)
	}
	return filters[0].Name + ": " + strings.Join(exts, " ")
}
