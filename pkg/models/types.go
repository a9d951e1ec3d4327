package models

import "time"

// Document is the record of the buffer currently being edited.
type Document struct {
	DisplayName string
	Language    string
	Content     string
	Modified    bool
	BackingPath string // empty for untitled documents
}

// HasBackingPath reports whether a plain save can write without prompting.
func (d Document) HasBackingPath() bool {
	return d.BackingPath != ""
}

// Title is the name shown in the title bar, with a marker while modified.
func (d Document) Title() string {
	if d.Modified {
		return d.DisplayName + " •"
	}
	return d.DisplayName
}

// RecentFile is one entry of the recent-files list. The JSON shape is the
// persisted format of the recentFiles key.
type RecentFile struct {
	Path         string    `json:"path" yaml:"path"`
	DisplayName  string    `json:"name" yaml:"name"`
	LastOpenedAt time.Time `json:"lastOpened" yaml:"last_opened"`
	Language     string    `json:"language,omitempty" yaml:"language,omitempty"`
}

// FileFilter narrows what a file dialog offers.
type FileFilter struct {
	Name       string   `yaml:"name"`
	Extensions []string `yaml:"extensions"`
}

// Template is a canned starting buffer.
type Template struct {
	Kind          string
	Content       string
	Language      string
	FileExtension string
}

// FileName is the derived display name for a buffer created from t.
func (t Template) FileName() string {
	return "Untitled." + t.FileExtension
}

// EditorStats summarizes the buffer for the status bar.
type EditorStats struct {
	Lines      int `json:"lines" yaml:"lines"`
	Characters int `json:"characters" yaml:"characters"`
	Words      int `json:"words" yaml:"words"`
}

// CursorPosition is 1-based.
type CursorPosition struct {
	Line   int
	Column int
}
