package tui

import (
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// OSType represents the operating system type
type OSType int

const (
	OSMac OSType = iota
	OSLinux
	OSWindows
	OSUnknown
)

// GetOS returns the current operating system type
func GetOS() OSType {
	return osFromGOOS(runtime.GOOS)
}

func osFromGOOS(goos string) OSType {
	switch goos {
	case "darwin":
		return OSMac
	case "linux":
		return OSLinux
	case "windows":
		return OSWindows
	default:
		return OSUnknown
	}
}

// keyMap holds every binding of the program
type keyMap struct {
	// global
	Quit  key.Binding
	Close key.Binding
	Theme key.Binding

	// start page
	Up          key.Binding
	Down        key.Binding
	JumpRecent  key.Binding
	New         key.Binding
	Open        key.Binding
	Remove      key.Binding
	ClearRecent key.Binding
	Select      key.Binding
	CloseStart  key.Binding

	// editor page
	Save     key.Binding
	SaveAs   key.Binding
	OpenFile key.Binding
	NewFile  key.Binding
	Language key.Binding
	Copy     key.Binding
	Back     key.Binding
}

var keys = keyMap{
	Quit:  key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("ctrl+q", "quit")),
	Close: key.NewBinding(key.WithKeys("ctrl+c", "ctrl+w"), key.WithHelp("ctrl+w", "close")),
	Theme: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),

	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	JumpRecent:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "recent files")),
	New:         key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	Open:        key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
	Remove:      key.NewBinding(key.WithKeys("d", "delete", "backspace"), key.WithHelp("d", "remove")),
	ClearRecent: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear recent")),
	Select:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	CloseStart:  key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "close")),

	Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	SaveAs:   key.NewBinding(key.WithKeys("alt+s", "f12"), key.WithHelp("alt+s", "save as")),
	OpenFile: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "open")),
	NewFile:  key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new")),
	Language: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "language")),
	Copy:     key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
}

// editorHelp is the status-bar hint line of the editor page
func (k keyMap) editorHelp(os OSType) string {
	return helpLine(os, k.Save, k.SaveAs, k.OpenFile, k.NewFile, k.Language, k.Back)
}

// startHelp is the hint line under the start page
func (k keyMap) startHelp(os OSType) string {
	return helpLine(os, k.Select, k.New, k.Open, k.Remove, k.ClearRecent, k.Theme, k.CloseStart)
}

func helpLine(os OSType, bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, FormatShortcutForHelp(os, h.Key)+" "+h.Desc)
	}
	return strings.Join(parts, "  ")
}

// FormatShortcutForHelp formats a shortcut key for display in help text
func FormatShortcutForHelp(os OSType, shortcut string) string {
	// M- is the usual terminal spelling of alt outside macOS
	if os == OSMac {
		shortcut = strings.ReplaceAll(shortcut, "alt+", "⌥")
	} else {
		shortcut = strings.ReplaceAll(shortcut, "alt+", "M-")
	}
	shortcut = strings.ReplaceAll(shortcut, "ctrl+", "^")
	shortcut = strings.ReplaceAll(shortcut, "shift+", "⇧")

	if strings.HasPrefix(shortcut, "f") && len(shortcut) > 1 && len(shortcut) <= 3 {
		return strings.ToUpper(shortcut)
	}
	return shortcut
}

// TerminalSetupTip returns advice for terminals that swallow editor keys
func TerminalSetupTip(os OSType) string {
	switch os {
	case OSLinux:
		return "TIP: Run 'stty -ixon' if ctrl+s freezes the terminal"
	case OSWindows:
		return "TIP: For best experience, use Windows Terminal"
	default:
		return ""
	}
}
