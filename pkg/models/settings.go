package models

// Settings represents the application configuration
type Settings struct {
	Editor  EditorSettings  `yaml:"editor"`
	Storage StorageSettings `yaml:"storage"`
	Window  WindowSettings  `yaml:"window"`
	Log     LogSettings     `yaml:"log"`
}

// EditorSettings controls the editor page
type EditorSettings struct {
	DefaultLanguage string `yaml:"default_language"`
	TabSize         int    `yaml:"tab_size"`
	ShowLineNumbers bool   `yaml:"show_line_numbers"`
	// SoftWrapWidth wraps notifications and long paths; 0 uses the terminal width
	SoftWrapWidth int `yaml:"soft_wrap_width"`
}

// StorageSettings selects the local key-value store
type StorageSettings struct {
	Backend string `yaml:"backend"` // "file", "sqlite" or "memory"
	Path    string `yaml:"path,omitempty"`
}

// WindowSettings controls close behavior
type WindowSettings struct {
	// KeepResident hides the window on close instead of terminating,
	// unless an explicit quit was requested.
	KeepResident bool `yaml:"keep_resident"`
}

// LogSettings controls the log file
type LogSettings struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// Storage backends
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// DefaultSettings returns the default configuration
func DefaultSettings() *Settings {
	return &Settings{
		Editor: EditorSettings{
			DefaultLanguage: "javascript",
			TabSize:         2,
			ShowLineNumbers: true,
		},
		Storage: StorageSettings{
			Backend: StorageFile,
		},
		Window: WindowSettings{
			KeepResident: false,
		},
		Log: LogSettings{
			Level: "info",
		},
	}
}
