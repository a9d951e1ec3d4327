package session

import "github.com/sourcepad/sourcepad-cli/pkg/models"

// Widget is the embedded editing surface. The session pushes content and
// language into it and receives edits and cursor moves back through the
// callbacks registered by Attach.
type Widget interface {
	SetContent(text string)
	Content() string
	SetLanguage(language string)
	OnContentChanged(fn func(text string))
	OnCursorMoved(fn func(pos models.CursorPosition))
}

// Attach binds w to the session and pushes the current document into it.
// Passing nil detaches the current widget.
func (m *Manager) Attach(w Widget) {
	m.mu.Lock()
	m.widget = w
	doc := m.doc
	m.mu.Unlock()

	if w == nil {
		return
	}
	w.OnContentChanged(m.OnContentEdited)
	w.OnCursorMoved(m.OnCursorMoved)
	w.SetLanguage(doc.Language)
	w.SetContent(doc.Content)
}

// Level classifies a notification
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notifier shows short-lived messages to the user
type Notifier interface {
	Notify(level Level, message string)
}

// NotifyFunc adapts a function to Notifier
type NotifyFunc func(level Level, message string)

func (f NotifyFunc) Notify(level Level, message string) { f(level, message) }

// NopNotifier drops every notification
type NopNotifier struct{}

func (NopNotifier) Notify(Level, string) {}
