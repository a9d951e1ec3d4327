package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/sourcepad/sourcepad-cli/pkg/languages"
	"github.com/sourcepad/sourcepad-cli/pkg/models"
	"github.com/sourcepad/sourcepad-cli/pkg/session"
	"github.com/sourcepad/sourcepad-cli/pkg/theme"
)

// editorThemeMsg tells the editor page the editor theme changed
type editorThemeMsg struct {
	theme theme.Theme
}

// editorPage hosts the editing widget
type editorPage struct {
	textarea textarea.Model
	widget   *EditorWidget
	applied  uint64

	stats       models.EditorStats
	cursor      models.CursorPosition
	editorTheme string

	unsubscribe func()
}

func newEditorPage(widget *EditorWidget, settings *models.Settings) *editorPage {
	if settings == nil {
		settings = models.DefaultSettings()
	}

	ta := textarea.New()
	ta.ShowLineNumbers = settings.Editor.ShowLineNumbers
	ta.Prompt = "  "
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetWidth(80)
	ta.SetHeight(20)
	ta.Placeholder = "Start typing..."

	return &editorPage{
		textarea: ta,
		widget:   widget,
		stats:    session.ComputeStats(""),
		cursor:   models.CursorPosition{Line: 1, Column: 1},
	}
}

// enter is called when the page becomes visible. The theme subscription
// lives exactly as long as the page is shown.
func (e *editorPage) enter(pref *theme.Preference, post func(tea.Msg)) tea.Cmd {
	if pref != nil && e.unsubscribe == nil {
		e.setTheme(pref.Current().Editor)
		e.unsubscribe = pref.Subscribe(func(th theme.Theme) {
			post(editorThemeMsg{theme: th})
		})
	}
	e.sync()
	return e.textarea.Focus()
}

// leave is called when the page is hidden
func (e *editorPage) leave() {
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
	e.textarea.Blur()
}

func (e *editorPage) setTheme(name string) {
	e.editorTheme = name
	applyEditorTheme(&e.textarea, name)
}

func (e *editorPage) setSize(width, height int) {
	e.textarea.SetWidth(max(width-2, 10))
	// header and status bar take two lines each
	e.textarea.SetHeight(max(height-4, 3))
}

// sync pulls state the session pushed into the widget
func (e *editorPage) sync() {
	version, changed := e.widget.apply(&e.textarea, e.applied)
	if !changed {
		return
	}
	e.applied = version
	e.stats = session.ComputeStats(e.textarea.Value())
	e.cursor = cursorOf(&e.textarea)
}

// update forwards msg to the textarea and reports edits and cursor moves
func (e *editorPage) update(msg tea.Msg) tea.Cmd {
	before := e.textarea.Value()

	var cmd tea.Cmd
	e.textarea, cmd = e.textarea.Update(msg)

	if value := e.textarea.Value(); value != before {
		e.stats = session.ComputeStats(value)
		e.widget.edited(value, e.applied)
	}
	if pos := cursorOf(&e.textarea); pos != e.cursor {
		e.cursor = pos
		e.widget.cursorMoved(pos)
	}
	return cmd
}

func (e *editorPage) View(styles Styles, width int, doc models.Document, version, notice string, noticeType StatusType) string {
	header := renderHeader(styles, width, doc.Title(), version)
	body := lipgloss.NewStyle().PaddingLeft(1).Render(e.textarea.View())
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		e.statusBar(styles, width, doc, notice, noticeType),
	)
}

func (e *editorPage) statusBar(styles Styles, width int, doc models.Document, notice string, noticeType StatusType) string {
	badge := styles.Badge.Render(languages.DisplayName(doc.Language))
	if doc.Modified {
		badge = styles.ModifiedBadge.Render("Modified") + " " + badge
	}
	info := fmt.Sprintf("Ln %d, Col %d  •  %d lines  •  %d words  •  %d chars  •  %s",
		e.cursor.Line, e.cursor.Column, e.stats.Lines, e.stats.Words, e.stats.Characters, e.editorTheme)
	right := styles.Description.Render(info) + " " + badge

	left := styles.Description.Render(keys.editorHelp(GetOS()))
	if notice != "" {
		left = styles.StatusStyle(noticeType).Render(notice)
	}

	room := width - lipgloss.Width(right) - 3
	if room < 10 {
		// too narrow for both sides; the notice wraps above the info line
		wrapped := wordwrap.String(notice, max(width-2, 10))
		return styles.StatusBar.Width(width).Render(strings.TrimSpace(wrapped + "\n" + right))
	}
	left = truncate.StringWithTail(left, uint(room), "…")
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return styles.StatusBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
