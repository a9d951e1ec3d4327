package tui

import (
	"sync"

	"github.com/charmbracelet/bubbles/textarea"

	"github.com/sourcepad/sourcepad-cli/pkg/models"
)

// widgetSyncMsg wakes the event loop after the session changed the widget
type widgetSyncMsg struct{}

// EditorWidget adapts the textarea to the session's editing widget. The
// session may push content from any goroutine; the desired state is
// recorded here and applied to the textarea by the event loop.
type EditorWidget struct {
	mu       sync.Mutex
	content  string
	language string
	version  uint64

	// version of the last SetContent
	contentAt uint64

	wake     func()
	onChange func(string)
	onCursor func(models.CursorPosition)
}

// NewEditorWidget creates a widget that calls wake whenever the session
// pushes new state
func NewEditorWidget(wake func()) *EditorWidget {
	if wake == nil {
		wake = func() {}
	}
	return &EditorWidget{wake: wake}
}

func (w *EditorWidget) SetContent(text string) {
	w.mu.Lock()
	w.content = text
	w.version++
	w.contentAt = w.version
	w.mu.Unlock()
	w.wake()
}

func (w *EditorWidget) Content() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.content
}

func (w *EditorWidget) SetLanguage(language string) {
	w.mu.Lock()
	w.language = language
	w.version++
	w.mu.Unlock()
	w.wake()
}

// Language returns the language the session last pushed
func (w *EditorWidget) Language() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.language
}

func (w *EditorWidget) OnContentChanged(fn func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

func (w *EditorWidget) OnCursorMoved(fn func(models.CursorPosition)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onCursor = fn
}

// apply copies pushed content into ta when it is newer than applied. It
// returns the new applied version.
func (w *EditorWidget) apply(ta *textarea.Model, applied uint64) (uint64, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.version == applied {
		return applied, false
	}
	if ta.Value() != w.content {
		ta.SetValue(w.content)
	}
	return w.version, true
}

// edited records text typed by the user and reports it to the session.
// applied is the version the textarea last synced to; when the session has
// pushed content since, text belongs to the replaced document and is
// dropped.
func (w *EditorWidget) edited(text string, applied uint64) {
	w.mu.Lock()
	if w.contentAt > applied || text == w.content {
		w.mu.Unlock()
		return
	}
	w.content = text
	fn := w.onChange
	w.mu.Unlock()

	if fn != nil {
		fn(text)
	}
}

func (w *EditorWidget) cursorMoved(pos models.CursorPosition) {
	w.mu.Lock()
	fn := w.onCursor
	w.mu.Unlock()

	if fn != nil {
		fn(pos)
	}
}

// cursorOf reads the 1-based cursor position of ta
func cursorOf(ta *textarea.Model) models.CursorPosition {
	return models.CursorPosition{
		Line:   ta.Line() + 1,
		Column: ta.LineInfo().ColumnOffset + 1,
	}
}
