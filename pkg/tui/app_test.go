package tui

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcepad/sourcepad-cli/pkg/closing"
	"github.com/sourcepad/sourcepad-cli/pkg/host"
	"github.com/sourcepad/sourcepad-cli/pkg/languages"
	"github.com/sourcepad/sourcepad-cli/pkg/recent"
	"github.com/sourcepad/sourcepad-cli/pkg/session"
	"github.com/sourcepad/sourcepad-cli/pkg/store"
	"github.com/sourcepad/sourcepad-cli/pkg/templates"
	"github.com/sourcepad/sourcepad-cli/pkg/theme"
)

type testWindow struct {
	mu         sync.Mutex
	terminated bool
	hidden     bool
}

func (w *testWindow) Hide() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hidden = true
}

func (w *testWindow) Terminate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.terminated = true
}

type testApp struct {
	app      *App
	session  *session.Manager
	registry *recent.Registry
	window   *testWindow
	pref     *theme.Preference
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	st := store.NewMemory()
	registry := recent.Load(st)
	pref := theme.Load(st)
	h := NewTerminalHost(host.NewLocalFS(), "1.2.3")
	w := NewEditorWidget(nil)

	sess := session.NewManager(h,
		session.WithConfirmer(h),
		session.WithRecents(registry),
		session.WithNotifier(h),
	)
	sess.Attach(w)

	window := &testWindow{}
	negotiator := closing.New(sess, window, closing.WithConfirmer(h), closing.WithFlusher(registry))

	app := NewApp(Deps{
		Session: sess,
		Recent:  registry,
		Closing: negotiator,
		Theme:   pref,
		Host:    h,
		Widget:  w,
	})
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	t.Cleanup(app.Close)

	return &testApp{app: app, session: sess, registry: registry, window: window, pref: pref}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// runCmd executes cmd and feeds a resulting message back into the app
func (ta *testApp) runCmd(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			ta.runCmd(c)
		}
		return
	}
	switch msg.(type) {
	case opDoneMsg, closeDoneMsg:
		ta.app.Update(msg)
	}
}

func TestApp_StartsOnStartPage(t *testing.T) {
	ta := newTestApp(t)
	assert.Equal(t, startView, ta.app.page)

	view := ta.app.View()
	assert.Contains(t, view, "v1.2.3")
	assert.Contains(t, view, "New File")
	assert.Contains(t, view, "No recent files")
	for _, kind := range templates.Kinds {
		tmpl, _ := templates.Get(kind)
		assert.Contains(t, view, languages.DisplayName(tmpl.Language))
	}
}

func TestApp_ViewBeforeSize(t *testing.T) {
	app := NewApp(Deps{Session: session.NewManager(NewTerminalHost(host.NewLocalFS(), "0")), Widget: NewEditorWidget(nil)})
	assert.Equal(t, "Loading...", app.View())
}

func TestApp_TemplateKeyOpensEditor(t *testing.T) {
	ta := newTestApp(t)

	ta.app.Update(keyRunes("5"))
	assert.Equal(t, editorView, ta.app.page)

	doc := ta.session.Document()
	assert.Equal(t, templates.Kinds[4], doc.Language)
	assert.False(t, doc.Modified)
}

func TestApp_TemplateByCursor(t *testing.T) {
	ta := newTestApp(t)

	ta.app.Update(tea.KeyMsg{Type: tea.KeyDown})
	ta.app.Update(tea.KeyMsg{Type: tea.KeyDown})
	ta.app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, editorView, ta.app.page)
	assert.Equal(t, "Untitled.js", ta.session.Document().DisplayName)
}

func TestApp_TypingMarksModified(t *testing.T) {
	ta := newTestApp(t)
	ta.app.Update(keyRunes("1"))

	ta.app.Update(keyRunes("x"))

	doc := ta.session.Document()
	assert.True(t, doc.Modified)
	assert.Contains(t, doc.Content, "x")
	assert.Contains(t, ta.app.View(), "Untitled.js •")
}

func TestApp_CycleLanguage(t *testing.T) {
	ta := newTestApp(t)
	ta.app.Update(keyRunes("1"))

	ta.app.Update(tea.KeyMsg{Type: tea.KeyCtrlL})

	doc := ta.session.Document()
	assert.Equal(t, "typescript", doc.Language)
	assert.Equal(t, "Untitled.ts", doc.DisplayName)
	assert.False(t, doc.Modified)
}

func TestApp_BackToStart(t *testing.T) {
	ta := newTestApp(t)
	ta.app.Update(keyRunes("1"))

	_, cmd := ta.app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	ta.runCmd(cmd)

	assert.Equal(t, startView, ta.app.page)
	assert.Nil(t, ta.app.editor.unsubscribe)
}

func TestApp_ConfirmRequest(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want bool
	}{
		{"yes", keyRunes("y"), true},
		{"no", keyRunes("n"), false},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t)
			reply := make(chan bool, 1)

			ta.app.Update(confirmRequestMsg{prompt: "Discard?", reply: reply})
			require.True(t, ta.app.confirm.Active())
			assert.Contains(t, ta.app.View(), "Discard?")

			ta.app.Update(tt.key)
			assert.Equal(t, tt.want, <-reply)
			assert.False(t, ta.app.confirm.Active())
		})
	}
}

func TestApp_ConfirmRequestsQueue(t *testing.T) {
	ta := newTestApp(t)
	first := make(chan bool, 1)
	second := make(chan bool, 1)

	ta.app.Update(confirmRequestMsg{prompt: "first", reply: first})
	ta.app.Update(confirmRequestMsg{prompt: "second", reply: second})

	ta.app.Update(keyRunes("y"))
	assert.True(t, <-first)
	require.True(t, ta.app.confirm.Active())
	assert.Contains(t, ta.app.View(), "second")

	ta.app.Update(keyRunes("n"))
	assert.False(t, <-second)
}

func TestApp_OpenDialogCancel(t *testing.T) {
	ta := newTestApp(t)
	reply := make(chan dialogResult, 1)

	ta.app.Update(openDialogRequestMsg{filters: languages.DialogFilters(), reply: reply})
	require.NotNil(t, ta.app.openDlg)
	assert.Contains(t, ta.app.View(), "Open File")

	ta.app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	res := <-reply
	assert.False(t, res.ok)
	assert.Nil(t, ta.app.openDlg)
}

func TestApp_SaveDialog(t *testing.T) {
	dir := t.TempDir()

	t.Run("new file", func(t *testing.T) {
		ta := newTestApp(t)
		reply := make(chan dialogResult, 1)
		target := filepath.Join(dir, "a.py")

		ta.app.Update(saveDialogRequestMsg{suggested: target, reply: reply})
		require.NotNil(t, ta.app.saveDlg)
		ta.app.Update(tea.KeyMsg{Type: tea.KeyEnter})

		res := <-reply
		assert.True(t, res.ok)
		assert.Equal(t, target, res.path)
		assert.Nil(t, ta.app.saveDlg)
	})

	t.Run("existing file asks before replacing", func(t *testing.T) {
		ta := newTestApp(t)
		reply := make(chan dialogResult, 1)
		target := filepath.Join(dir, "exists.txt")
		require.NoError(t, os.WriteFile(target, []byte("old"), 0644))

		ta.app.Update(saveDialogRequestMsg{suggested: target, reply: reply})
		ta.app.Update(tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, ta.app.saveDlg)
		assert.Contains(t, ta.app.View(), "already exists")

		ta.app.Update(tea.KeyMsg{Type: tea.KeyEnter})
		res := <-reply
		assert.True(t, res.ok)
		assert.Equal(t, target, res.path)
	})

	t.Run("missing directory", func(t *testing.T) {
		ta := newTestApp(t)
		reply := make(chan dialogResult, 1)

		ta.app.Update(saveDialogRequestMsg{suggested: filepath.Join(dir, "nope", "a.txt"), reply: reply})
		ta.app.Update(tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, ta.app.saveDlg)
		assert.Contains(t, ta.app.saveDlg.err, "does not exist")

		ta.app.Update(tea.KeyMsg{Type: tea.KeyEsc})
		assert.False(t, (<-reply).ok)
	})
}

func TestApp_SecondDialogRequestIsCancelled(t *testing.T) {
	tests := []struct {
		name   string
		second func(reply chan<- dialogResult) tea.Msg
	}{
		{
			name: "save while saving",
			second: func(reply chan<- dialogResult) tea.Msg {
				return saveDialogRequestMsg{suggested: "b.py", reply: reply}
			},
		},
		{
			name: "open while saving",
			second: func(reply chan<- dialogResult) tea.Msg {
				return openDialogRequestMsg{filters: languages.DialogFilters(), reply: reply}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t)
			first := make(chan dialogResult, 1)
			second := make(chan dialogResult, 1)
			target := filepath.Join(t.TempDir(), "a.py")

			ta.app.Update(saveDialogRequestMsg{suggested: target, reply: first})
			ta.app.Update(tt.second(second))

			select {
			case res := <-second:
				assert.False(t, res.ok)
			default:
				t.Fatal("second dialog request was left unanswered")
			}
			require.NotNil(t, ta.app.saveDlg)
			assert.Nil(t, ta.app.openDlg)

			ta.app.Update(tea.KeyMsg{Type: tea.KeyEnter})
			select {
			case res := <-first:
				assert.True(t, res.ok)
				assert.Equal(t, target, res.path)
			default:
				t.Fatal("first dialog request was left unanswered")
			}
		})
	}
}

func TestApp_OperationRunsOnce(t *testing.T) {
	ta := newTestApp(t)
	ta.app.Update(keyRunes("1"))

	_, cmd := ta.app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)

	_, cmd = ta.app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)

	// a different operation is not held back
	_, cmd = ta.app.Update(tea.KeyMsg{Type: tea.KeyF12})
	assert.NotNil(t, cmd)

	ta.app.Update(opDoneMsg{op: opSave, outcome: session.Cancelled})
	_, cmd = ta.app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.NotNil(t, cmd)
}

func TestApp_ReopenRecent(t *testing.T) {
	ta := newTestApp(t)
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# notes"), 0644))
	require.NoError(t, ta.registry.Add(path, "notes.md", "markdown"))

	assert.Contains(t, ta.app.View(), "notes.md")
	ta.app.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, cmd := ta.app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	ta.runCmd(cmd)

	assert.Equal(t, editorView, ta.app.page)
	doc := ta.session.Document()
	assert.Equal(t, "# notes", doc.Content)
	assert.Equal(t, path, doc.BackingPath)
	assert.Equal(t, "markdown", doc.Language)
}

func TestApp_ReopenStaleRecent(t *testing.T) {
	ta := newTestApp(t)
	path := filepath.Join(t.TempDir(), "gone.js")
	require.NoError(t, ta.registry.Add(path, "gone.js", "javascript"))

	ta.app.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, cmd := ta.app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	ta.runCmd(cmd)

	assert.Equal(t, startView, ta.app.page)
	assert.Zero(t, ta.registry.Len())
	notice, kind, ok := ta.app.status.GetStatus()
	require.True(t, ok)
	assert.Equal(t, StatusTypeError, kind)
	assert.Contains(t, notice, "gone.js")
}

func TestApp_RemoveAndClearRecent(t *testing.T) {
	ta := newTestApp(t)
	require.NoError(t, ta.registry.Add("/tmp/a.txt", "a.txt", ""))
	require.NoError(t, ta.registry.Add("/tmp/b.txt", "b.txt", ""))

	ta.app.Update(tea.KeyMsg{Type: tea.KeyTab})
	ta.app.Update(keyRunes("d"))
	assert.Equal(t, 1, ta.registry.Len())

	ta.app.Update(keyRunes("C"))
	require.True(t, ta.app.confirm.Active())
	ta.app.Update(keyRunes("y"))
	assert.Zero(t, ta.registry.Len())
}

func TestApp_CloseWithoutChangesTerminates(t *testing.T) {
	ta := newTestApp(t)

	_, cmd := ta.app.Update(tea.KeyMsg{Type: tea.KeyCtrlQ})
	ta.runCmd(cmd)

	assert.True(t, ta.window.terminated)
	assert.False(t, ta.app.pending)
}

func TestApp_ToggleTheme(t *testing.T) {
	ta := newTestApp(t)

	ta.app.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, theme.EditorLight, ta.pref.Current().Editor)

	ta.app.Update(uiThemeMsg{theme: ta.pref.Current()})
	assert.Equal(t, lightPalette, ta.app.styles.Palette)
}

func TestApp_Notifications(t *testing.T) {
	ta := newTestApp(t)

	_, cmd := ta.app.Update(notifyMsg{level: session.LevelSuccess, message: "File saved: a.py"})
	assert.NotNil(t, cmd)
	assert.Contains(t, ta.app.View(), "File saved: a.py")

	ta.app.status.CurrentStatus.ShowUntil = time.Now().Add(-time.Second)
	ta.app.Update(ClearStatusMsg{})
	assert.Nil(t, ta.app.status.CurrentStatus)
}
