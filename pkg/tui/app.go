// Package tui is the terminal host of SourcePad: a Bubble Tea program that
// plays the window, renders the host dialogs and embeds the editing widget.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/sourcepad/sourcepad-cli/pkg/closing"
	"github.com/sourcepad/sourcepad-cli/pkg/languages"
	"github.com/sourcepad/sourcepad-cli/pkg/models"
	"github.com/sourcepad/sourcepad-cli/pkg/recent"
	"github.com/sourcepad/sourcepad-cli/pkg/session"
	"github.com/sourcepad/sourcepad-cli/pkg/templates"
	"github.com/sourcepad/sourcepad-cli/pkg/theme"
)

type page int

const (
	startView page = iota
	editorView
)

// op names a session operation running in the background
type op int

const (
	opSave op = iota
	opSaveAs
	opOpen
	opNew
	opReopen
	opBack
)

// opDoneMsg reports the end of a background session operation
type opDoneMsg struct {
	op      op
	outcome session.Outcome
	err     error
	name    string
}

// closeDoneMsg reports the end of a close negotiation
type closeDoneMsg struct {
	decision closing.Decision
	err      error
}

// uiThemeMsg tells the root the UI theme changed
type uiThemeMsg struct {
	theme theme.Theme
}

// Deps are the components the program drives
type Deps struct {
	Context  context.Context
	Session  *session.Manager
	Recent   *recent.Registry
	Closing  *closing.Negotiator
	Theme    *theme.Preference
	Host     *TerminalHost
	Widget   *EditorWidget
	Settings *models.Settings
	Logger   zerolog.Logger

	// StartInEditor skips the start page
	StartInEditor bool
}

// App is the root model
type App struct {
	ctx      context.Context
	session  *session.Manager
	registry *recent.Registry
	closer   *closing.Negotiator
	pref     *theme.Preference
	host     *TerminalHost
	settings *models.Settings
	logger   zerolog.Logger

	page   page
	width  int
	height int
	styles Styles

	start  *startPage
	editor *editorPage

	status       *StatusManager
	confirm      *ConfirmationModel
	confirmQueue []confirmRequestMsg
	openDlg      *openDialog
	saveDlg      *saveDialog
	pending      bool // a close negotiation is running
	running      map[op]bool
	lastTitle    string

	unsubscribeTheme func()
}

// NewApp creates the root model
func NewApp(d Deps) *App {
	ctx := d.Context
	if ctx == nil {
		ctx = context.Background()
	}
	settings := d.Settings
	if settings == nil {
		settings = models.DefaultSettings()
	}

	a := &App{
		ctx:      ctx,
		session:  d.Session,
		registry: d.Recent,
		closer:   d.Closing,
		pref:     d.Theme,
		host:     d.Host,
		settings: settings,
		logger:   d.Logger,
		start:    newStartPage(d.Recent),
		editor:   newEditorPage(d.Widget, settings),
		status:   NewStatusManager(),
		confirm:  NewConfirmation(),
		running:  make(map[op]bool),
		styles:   NewStyles(theme.Default),
	}

	if a.pref != nil {
		a.styles = NewStyles(a.pref.Current())
		a.unsubscribeTheme = a.pref.Subscribe(func(th theme.Theme) {
			a.post(uiThemeMsg{theme: th})
		})
	}
	if d.StartInEditor {
		a.page = editorView
	}
	return a
}

// Close releases subscriptions held by the program's views
func (a *App) Close() {
	a.editor.leave()
	if a.unsubscribeTheme != nil {
		a.unsubscribeTheme()
		a.unsubscribeTheme = nil
	}
}

func (a *App) post(msg tea.Msg) {
	if a.host != nil {
		a.host.post(msg)
	}
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.refreshTitle()}
	if a.page == editorView {
		cmds = append(cmds, a.editor.enter(a.pref, a.post))
	}
	return tea.Batch(cmds...)
}

func (a *App) title() string {
	if a.page == editorView {
		return a.session.Document().Title() + " - SourcePad"
	}
	return "SourcePad"
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	a.editor.sync()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.editor.setSize(msg.Width, msg.Height)
		return a, nil

	case widgetSyncMsg:
		return a, a.refreshTitle()

	case ClearStatusMsg:
		a.status.IsActive()
		return a, nil

	case notifyMsg:
		return a, a.status.ShowLevel(msg.level, msg.message)

	case uiThemeMsg:
		a.styles = NewStyles(msg.theme)
		return a, nil

	case editorThemeMsg:
		a.editor.setTheme(msg.theme.Editor)
		return a, nil

	case confirmRequestMsg:
		a.confirmQueue = append(a.confirmQueue, msg)
		a.nextConfirm()
		return a, nil

	case openDialogRequestMsg:
		if a.dialogOpen() {
			// one dialog at a time; the caller sees a cancellation
			msg.reply <- dialogResult{}
			return a, nil
		}
		dir, _ := os.Getwd()
		a.openDlg = newOpenDialog(msg, dir, a.height-8)
		return a, a.openDlg.Init()

	case saveDialogRequestMsg:
		if a.dialogOpen() {
			msg.reply <- dialogResult{}
			return a, nil
		}
		cwd, _ := os.Getwd()
		a.saveDlg = newSaveDialog(msg, cwd, a.width)
		return a, a.saveDlg.Init()

	case opDoneMsg:
		delete(a.running, msg.op)
		return a, a.finish(msg)

	case closeDoneMsg:
		a.pending = false
		if msg.err != nil && !errors.Is(msg.err, closing.ErrTerminated) {
			a.logger.Warn().Err(msg.err).Msg("close request failed")
			return a, a.status.ShowError("Could not close: " + msg.err.Error())
		}
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)
	}

	// Internal messages of the widgets, such as directory listings and
	// cursor blinks
	switch {
	case a.openDlg != nil:
		cmd, done := a.openDlg.Update(msg)
		if done {
			a.openDlg = nil
		}
		return a, cmd
	case a.saveDlg != nil:
		cmd, done := a.saveDlg.Update(msg)
		if done {
			a.saveDlg = nil
		}
		return a, cmd
	case a.page == editorView:
		return a, a.editor.update(msg)
	}
	return a, nil
}

func (a *App) dialogOpen() bool {
	return a.openDlg != nil || a.saveDlg != nil
}

func (a *App) nextConfirm() {
	if a.confirm.Active() || len(a.confirmQueue) == 0 {
		return
	}
	req := a.confirmQueue[0]
	a.confirmQueue = a.confirmQueue[1:]

	answer := func(v bool) func() tea.Cmd {
		return func() tea.Cmd {
			req.reply <- v
			return nil
		}
	}
	a.confirm.ShowDialog("Unsaved Changes", req.prompt, "", true, 56, answer(true), answer(false))
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case a.confirm.Active():
		cmd := a.confirm.Update(msg)
		a.nextConfirm()
		return cmd
	case a.openDlg != nil:
		cmd, done := a.openDlg.Update(msg)
		if done {
			a.openDlg = nil
		}
		return cmd
	case a.saveDlg != nil:
		cmd, done := a.saveDlg.Update(msg)
		if done {
			a.saveDlg = nil
		}
		return cmd
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return a.requestClose(true)
	case key.Matches(msg, keys.Close):
		return a.requestClose(false)
	case key.Matches(msg, keys.Theme):
		return a.toggleTheme()
	}

	if a.page == startView {
		return a.handleStartKey(msg)
	}
	return a.handleEditorKey(msg)
}

func (a *App) handleStartKey(msg tea.KeyMsg) tea.Cmd {
	if kind, ok := templateForKey(msg.String()); ok {
		return a.loadTemplate(kind)
	}

	switch {
	case key.Matches(msg, keys.CloseStart):
		return a.requestClose(false)
	case key.Matches(msg, keys.Up):
		a.start.move(-1)
	case key.Matches(msg, keys.Down):
		a.start.move(1)
	case key.Matches(msg, keys.JumpRecent):
		a.start.firstRecent()
	case key.Matches(msg, keys.New):
		return a.run(opNew, a.session.NewDocument)
	case key.Matches(msg, keys.Open):
		return a.run(opOpen, a.session.Open)
	case key.Matches(msg, keys.Remove):
		if item, ok := a.start.selected(); ok && item.kind == itemRecent {
			return a.removeRecent(item.recent)
		}
	case key.Matches(msg, keys.ClearRecent):
		if a.registry != nil && a.registry.Len() > 0 {
			a.confirm.ShowInline("Clear all recent files?", true, func() tea.Cmd {
				if err := a.registry.Clear(); err != nil {
					a.logger.Warn().Err(err).Msg("failed to clear recent files")
					return a.status.ShowError("Failed to clear recent files")
				}
				return a.status.ShowSuccess("Recent files cleared")
			}, nil)
		}
	case key.Matches(msg, keys.Select):
		item, ok := a.start.selected()
		if !ok {
			return nil
		}
		switch item.kind {
		case itemNewFile:
			return a.run(opNew, a.session.NewDocument)
		case itemOpenFile:
			return a.run(opOpen, a.session.Open)
		case itemTemplate:
			return a.loadTemplate(item.template)
		case itemRecent:
			return a.reopen(item.recent)
		}
	}
	return nil
}

func (a *App) handleEditorKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Save):
		return a.run(opSave, a.session.Save)
	case key.Matches(msg, keys.SaveAs):
		return a.run(opSaveAs, a.session.SaveAs)
	case key.Matches(msg, keys.OpenFile):
		return a.run(opOpen, a.session.Open)
	case key.Matches(msg, keys.NewFile):
		return a.run(opNew, a.session.NewDocument)
	case key.Matches(msg, keys.Language):
		next := languages.Next(a.session.Document().Language)
		if err := a.session.OnLanguageChanged(next); err != nil {
			return a.status.ShowError(err.Error())
		}
		return tea.Batch(
			a.status.ShowInfo("Language: "+languages.DisplayName(next)),
			a.refreshTitle(),
		)
	case key.Matches(msg, keys.Copy):
		return a.copyBuffer()
	case key.Matches(msg, keys.Back):
		return a.back()
	}
	return tea.Batch(a.editor.update(msg), a.refreshTitle())
}

// templateForKey maps the digit keys of the start page to template kinds
func templateForKey(k string) (string, bool) {
	if len(k) != 1 || k[0] < '1' || k[0] > '9' {
		return "", false
	}
	idx := int(k[0] - '1')
	if idx >= len(templates.Kinds) {
		return "", false
	}
	return templates.Kinds[idx], true
}

// refreshTitle updates the terminal title when it changed
func (a *App) refreshTitle() tea.Cmd {
	title := a.title()
	if title == a.lastTitle {
		return nil
	}
	a.lastTitle = title
	return tea.SetWindowTitle(title)
}

// run executes a session operation off the event loop. A second request
// for an operation that is still running is dropped.
func (a *App) run(o op, fn func(context.Context) (session.Outcome, error)) tea.Cmd {
	if a.running[o] {
		return nil
	}
	a.running[o] = true
	return func() tea.Msg {
		outcome, err := fn(a.ctx)
		return opDoneMsg{op: o, outcome: outcome, err: err}
	}
}

func (a *App) finish(msg opDoneMsg) tea.Cmd {
	if msg.err != nil {
		a.logger.Debug().Err(msg.err).Int("op", int(msg.op)).Msg("operation failed")
	}

	switch msg.op {
	case opReopen:
		if errors.Is(msg.err, recent.ErrStaleEntry) {
			return a.status.ShowError(fmt.Sprintf("%s no longer exists and was removed from recent files", msg.name))
		}
		if msg.err != nil {
			return a.status.ShowError("Failed to open " + msg.name)
		}
		return a.showEditor(a.status.ShowSuccess("File opened: " + msg.name))

	case opBack:
		if msg.outcome != session.Done {
			return nil
		}
		a.editor.leave()
		a.page = startView
		return a.refreshTitle()

	case opOpen, opNew:
		if msg.outcome == session.Done {
			return a.showEditor(nil)
		}
	}
	return a.refreshTitle()
}

func (a *App) showEditor(extra tea.Cmd) tea.Cmd {
	a.page = editorView
	return tea.Batch(a.editor.enter(a.pref, a.post), a.refreshTitle(), extra)
}

func (a *App) loadTemplate(kind string) tea.Cmd {
	if err := a.session.LoadTemplate(kind); err != nil {
		return a.status.ShowError(err.Error())
	}
	return a.showEditor(nil)
}

func (a *App) reopen(entry models.RecentFile) tea.Cmd {
	return func() tea.Msg {
		f, err := a.registry.Reopen(a.ctx, a.host, entry.Path)
		if err != nil {
			return opDoneMsg{op: opReopen, outcome: session.Failed, err: err, name: entry.DisplayName}
		}
		a.session.LoadFromExternal(f.Content, f.DisplayName, f.Path)
		return opDoneMsg{op: opReopen, outcome: session.Done, name: f.DisplayName}
	}
}

func (a *App) removeRecent(entry models.RecentFile) tea.Cmd {
	if err := a.registry.Remove(entry.Path); err != nil {
		a.logger.Warn().Err(err).Str("path", entry.Path).Msg("failed to remove recent file")
		return a.status.ShowError("Failed to remove " + entry.DisplayName)
	}
	return a.status.ShowInfo("Removed " + entry.DisplayName + " from recent files")
}

// back returns to the start page once unsaved changes are dealt with
func (a *App) back() tea.Cmd {
	return func() tea.Msg {
		ok, err := a.session.ConfirmDiscard(a.ctx, "You have unsaved changes. Leave the editor?")
		if err != nil || !ok {
			return opDoneMsg{op: opBack, outcome: session.Declined, err: err}
		}
		a.session.LoadWelcome()
		return opDoneMsg{op: opBack, outcome: session.Done}
	}
}

func (a *App) requestClose(quit bool) tea.Cmd {
	if a.closer == nil {
		return tea.Quit
	}
	if a.pending {
		return nil
	}
	a.pending = true
	return func() tea.Msg {
		var (
			decision closing.Decision
			err      error
		)
		if quit {
			decision, err = a.closer.RequestQuit(a.ctx)
		} else {
			decision, err = a.closer.RequestClose(a.ctx)
		}
		return closeDoneMsg{decision: decision, err: err}
	}
}

func (a *App) toggleTheme() tea.Cmd {
	if a.pref == nil {
		return nil
	}
	th, err := a.pref.Toggle()
	if err != nil {
		a.logger.Warn().Err(err).Msg("failed to save theme")
		return a.status.ShowError("Failed to save theme")
	}
	return a.status.ShowInfo("Theme: " + th.Editor)
}

func (a *App) copyBuffer() tea.Cmd {
	content := a.session.Document().Content
	if err := clipboard.WriteAll(content); err != nil {
		a.logger.Warn().Err(err).Msg("clipboard write failed")
		return a.status.ShowError("Clipboard unavailable")
	}
	lines := strings.Count(content, "\n") + 1
	return a.status.ShowSuccess(fmt.Sprintf("Copied %d lines to clipboard", lines))
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	var version string
	if a.host != nil {
		version = a.host.AppVersion()
	}

	notice, noticeType, _ := a.status.GetStatus()

	var content string
	switch a.page {
	case editorView:
		content = a.editor.View(a.styles, a.width, a.session.Document(), version, notice, noticeType)
	default:
		content = a.start.View(a.styles, a.width, version)
		footer := a.styles.Description.Render("↑/↓ select  enter open  n new  o open  1-7 template  d remove  C clear  ctrl+t theme  q quit")
		if notice != "" {
			footer = a.styles.StatusStyle(noticeType).Render(notice)
		}
		content = lipgloss.JoinVertical(lipgloss.Left, content, a.styles.Padding.Render(footer))
	}

	var overlay string
	switch {
	case a.confirm.Active():
		overlay = a.confirm.View(a.styles)
	case a.openDlg != nil:
		overlay = a.openDlg.View(a.styles, a.width)
	case a.saveDlg != nil:
		overlay = a.saveDlg.View(a.styles, a.width)
	}
	if overlay != "" {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, overlay)
	}
	return content
}
