package tui

import (
	"context"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sourcepad/sourcepad-cli/pkg/host"
	"github.com/sourcepad/sourcepad-cli/pkg/models"
	"github.com/sourcepad/sourcepad-cli/pkg/session"
)

// dialogResult is the answer of an open or save dialog
type dialogResult struct {
	path string
	ok   bool
}

// openDialogRequestMsg asks the event loop to show the open dialog
type openDialogRequestMsg struct {
	filters []models.FileFilter
	reply   chan<- dialogResult
}

// saveDialogRequestMsg asks the event loop to show the save-as dialog
type saveDialogRequestMsg struct {
	suggested string
	filters   []models.FileFilter
	reply     chan<- dialogResult
}

// confirmRequestMsg asks the event loop for a yes/no answer
type confirmRequestMsg struct {
	prompt string
	reply  chan<- bool
}

// notifyMsg carries a notification into the event loop
type notifyMsg struct {
	level   session.Level
	message string
}

// TerminalHost is the host shell of a terminal session. Dialogs and prompts
// are rendered by the Bubble Tea program; callers block on a reply channel
// until the user answers. None of its blocking methods may be called from
// inside Update.
type TerminalHost struct {
	fs      host.FileSystem
	version string

	mu    sync.RWMutex
	send  func(tea.Msg)
	queue chan tea.Msg
}

// postQueueSize bounds the messages waiting for the program
const postQueueSize = 256

// NewTerminalHost creates a host reading and writing through fs
func NewTerminalHost(fs host.FileSystem, version string) *TerminalHost {
	return &TerminalHost{fs: fs, version: version}
}

// Bind connects the host to a running program, usually with p.Send
func (h *TerminalHost) Bind(send func(tea.Msg)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.send = send
	if h.queue == nil {
		h.queue = make(chan tea.Msg, postQueueSize)
		go h.forward(h.queue)
	}
}

// forward hands queued messages to the program one at a time
func (h *TerminalHost) forward(queue <-chan tea.Msg) {
	for msg := range queue {
		h.mu.RLock()
		send := h.send
		h.mu.RUnlock()
		send(msg)
	}
}

// post delivers msg without blocking the caller, in the order posted.
// Messages posted before Bind are dropped. When the queue is full the
// message waits in its own goroutine so that Update never blocks on it.
func (h *TerminalHost) post(msg tea.Msg) {
	h.mu.RLock()
	queue := h.queue
	h.mu.RUnlock()
	if queue == nil {
		return
	}
	select {
	case queue <- msg:
	default:
		go func() { queue <- msg }()
	}
}

func (h *TerminalHost) OpenFileDialog(ctx context.Context, filters []models.FileFilter) (host.OpenedFile, error) {
	reply := make(chan dialogResult, 1)
	h.post(openDialogRequestMsg{filters: filters, reply: reply})

	res, err := await(ctx, reply)
	if err != nil {
		return host.OpenedFile{}, err
	}
	if !res.ok {
		return host.OpenedFile{}, host.ErrCancelled
	}

	content, err := h.fs.ReadFile(ctx, res.path)
	if err != nil {
		return host.OpenedFile{}, err
	}
	return host.OpenedFile{
		Content:     content,
		DisplayName: filepath.Base(res.path),
		Path:        res.path,
	}, nil
}

func (h *TerminalHost) SaveFileDialog(ctx context.Context, suggestedPath string, filters []models.FileFilter) (string, error) {
	reply := make(chan dialogResult, 1)
	h.post(saveDialogRequestMsg{suggested: suggestedPath, filters: filters, reply: reply})

	res, err := await(ctx, reply)
	if err != nil {
		return "", err
	}
	if !res.ok {
		return "", host.ErrCancelled
	}
	return res.path, nil
}

func (h *TerminalHost) ReadFile(ctx context.Context, path string) (string, error) {
	return h.fs.ReadFile(ctx, path)
}

func (h *TerminalHost) WriteFile(ctx context.Context, path, content string) error {
	return h.fs.WriteFile(ctx, path, content)
}

func (h *TerminalHost) AppVersion() string {
	return h.version
}

// Confirm shows a yes/no dialog and waits for the answer
func (h *TerminalHost) Confirm(ctx context.Context, prompt string) (bool, error) {
	reply := make(chan bool, 1)
	h.post(confirmRequestMsg{prompt: prompt, reply: reply})
	return await(ctx, reply)
}

// Notify shows a transient message in the status bar
func (h *TerminalHost) Notify(level session.Level, message string) {
	h.post(notifyMsg{level: level, message: message})
}

// Hide suspends the program, returning the terminal to the shell
func (h *TerminalHost) Hide() {
	h.post(tea.Suspend())
}

// Terminate quits the program
func (h *TerminalHost) Terminate() {
	h.post(tea.Quit())
}

// EditorWidget creates the editing widget hosted by this program. Session
// pushes wake the event loop so the textarea picks them up.
func (h *TerminalHost) EditorWidget() *EditorWidget {
	return NewEditorWidget(func() { h.post(widgetSyncMsg{}) })
}

func await[T any](ctx context.Context, reply <-chan T) (T, error) {
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
