// Package theme holds the editor and UI theme preference as an observable
// value. The application root owns the Preference and hands it to the views
// that need it; each view unsubscribes when it is torn down.
package theme

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sourcepad/sourcepad-cli/pkg/store"
)

// Editor themes
const (
	EditorDark         = "vs-dark"
	EditorLight        = "vs-light"
	EditorHighContrast = "hc-black"
)

// UI themes
const (
	UIDark  = "dark"
	UILight = "light"
)

// EditorThemes lists the accepted editor theme names
var EditorThemes = []string{EditorDark, EditorLight, EditorHighContrast}

// UIThemes lists the accepted UI theme names
var UIThemes = []string{UIDark, UILight}

// Theme is a snapshot of both preferences
type Theme struct {
	Editor string `json:"editorTheme" yaml:"editorTheme"`
	UI     string `json:"uiTheme" yaml:"uiTheme"`
}

// Light reports whether views should render with the light palette
func (t Theme) Light() bool {
	return t.UI == UILight
}

// Default is used when nothing valid is stored
var Default = Theme{Editor: EditorDark, UI: UIDark}

// Preference is the observable theme setting backed by a store
type Preference struct {
	mu      sync.Mutex
	current Theme
	store   store.Store
	logger  zerolog.Logger

	subs   map[int]func(Theme)
	nextID int
}

// Option configures a Preference
type Option func(*Preference)

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(p *Preference) { p.logger = l }
}

// Load reads the stored preference. Missing or invalid values fall back to
// the defaults.
func Load(st store.Store, opts ...Option) *Preference {
	p := &Preference{
		current: Default,
		store:   st,
		logger:  zerolog.Nop(),
		subs:    make(map[int]func(Theme)),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.current.Editor = p.read(store.KeyEditorTheme, EditorThemes, Default.Editor)
	p.current.UI = p.read(store.KeyUITheme, UIThemes, Default.UI)
	return p
}

func (p *Preference) read(key string, valid []string, fallback string) string {
	value, ok, err := p.store.Get(key)
	if err != nil {
		p.logger.Warn().Err(err).Str("key", key).Msg("failed to read theme, using default")
		return fallback
	}
	if !ok {
		return fallback
	}
	if !contains(valid, value) {
		p.logger.Warn().Str("key", key).Str("value", value).Msg("ignoring invalid theme")
		return fallback
	}
	return value
}

// Current returns the active theme
func (p *Preference) Current() Theme {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// SetEditor changes the editor theme
func (p *Preference) SetEditor(name string) error {
	if !contains(EditorThemes, name) {
		return fmt.Errorf("invalid editor theme %q (valid: %v)", name, EditorThemes)
	}
	return p.set(Theme{Editor: name, UI: p.Current().UI})
}

// SetUI changes the UI theme
func (p *Preference) SetUI(name string) error {
	if !contains(UIThemes, name) {
		return fmt.Errorf("invalid ui theme %q (valid: %v)", name, UIThemes)
	}
	return p.set(Theme{Editor: p.Current().Editor, UI: name})
}

// Toggle switches between the dark and light editor themes and moves the UI
// theme with it. High contrast toggles to light.
func (p *Preference) Toggle() (Theme, error) {
	next := Theme{Editor: EditorLight, UI: UILight}
	if p.Current().Editor == EditorLight {
		next = Theme{Editor: EditorDark, UI: UIDark}
	}
	if err := p.set(next); err != nil {
		return p.Current(), err
	}
	return next, nil
}

// Subscribe calls fn after every change. The returned func unsubscribes.
func (p *Preference) Subscribe(fn func(Theme)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

func (p *Preference) set(next Theme) error {
	if err := p.store.Set(store.KeyEditorTheme, next.Editor); err != nil {
		return fmt.Errorf("failed to save editor theme: %w", err)
	}
	if err := p.store.Set(store.KeyUITheme, next.UI); err != nil {
		return fmt.Errorf("failed to save ui theme: %w", err)
	}

	p.mu.Lock()
	changed := p.current != next
	p.current = next
	fns := make([]func(Theme), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	if !changed {
		return nil
	}
	p.logger.Debug().Str("editor", next.Editor).Str("ui", next.UI).Msg("theme changed")
	for _, fn := range fns {
		fn(next)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
