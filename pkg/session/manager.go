// Package session owns the document currently being edited and every
// transition that can change it: templates, open, save, save-as, new, and
// edits reported by the editing widget.
package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sourcepad/sourcepad-cli/pkg/host"
	"github.com/sourcepad/sourcepad-cli/pkg/languages"
	"github.com/sourcepad/sourcepad-cli/pkg/models"
	"github.com/sourcepad/sourcepad-cli/pkg/templates"
)

var (
	// ErrIOFailure wraps host read/write failures. Session state is left as
	// it was before the attempt.
	ErrIOFailure = errors.New("file operation failed")
	// ErrUnknownTemplate is returned by LoadTemplate; nothing changes.
	ErrUnknownTemplate = errors.New("unknown template")
	// ErrUnknownLanguage is returned for an empty language id; nothing changes.
	ErrUnknownLanguage = errors.New("unknown language")
)

// Outcome is the result of a user-facing operation
type Outcome int

const (
	// Done means the operation completed
	Done Outcome = iota
	// Cancelled means the user dismissed a host dialog
	Cancelled
	// Declined means the user refused to discard unsaved changes
	Declined
	// Failed means the host reported an error; the error is returned alongside
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Done:
		return "done"
	case Cancelled:
		return "cancelled"
	case Declined:
		return "declined"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Recents receives every path the session opens or saves to
type Recents interface {
	Add(path, displayName, language string) error
}

const (
	promptDiscardForOpen = "You have unsaved changes. Open another file?"
	promptDiscardForNew  = "You have unsaved changes. Create a new file?"
	untitledBase         = "Untitled"
)

// Manager owns the single live Document. It is safe for concurrent use:
// host calls run without the lock held, and edits arriving meanwhile are
// detected through the edit generation.
type Manager struct {
	mu sync.Mutex

	doc    models.Document
	cursor models.CursorPosition

	// generation counts edits to the current document; epoch counts
	// document replacements. A save only clears Modified when both are
	// unchanged since its snapshot was taken.
	generation uint64
	epoch      uint64

	host      host.Host
	confirmer host.Confirmer
	recents   Recents
	notifier  Notifier
	widget    Widget
	logger    zerolog.Logger

	defaultLanguage string

	subMu  sync.Mutex
	subs   map[int]func(models.Document)
	nextID int
}

// Option configures a Manager
type Option func(*Manager)

// WithConfirmer sets who answers the discard-changes prompt
func WithConfirmer(c host.Confirmer) Option {
	return func(m *Manager) { m.confirmer = c }
}

// WithRecents sets the recent-files registry
func WithRecents(r Recents) Option {
	return func(m *Manager) { m.recents = r }
}

// WithNotifier sets where user-facing notifications go
func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithDefaultLanguage sets the language of new untitled documents
func WithDefaultLanguage(language string) Option {
	return func(m *Manager) {
		if language != "" {
			m.defaultLanguage = language
		}
	}
}

// NewManager creates a manager holding an empty untitled document
func NewManager(h host.Host, opts ...Option) *Manager {
	m := &Manager{
		host:            h,
		confirmer:       host.AlwaysConfirm,
		notifier:        NopNotifier{},
		logger:          zerolog.Nop(),
		defaultLanguage: "javascript",
		subs:            make(map[int]func(models.Document)),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.doc = m.untitled("")
	return m
}

// Document returns a copy of the current document
func (m *Manager) Document() models.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc
}

// Modified reports whether there are unsaved edits
func (m *Manager) Modified() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.Modified
}

// Cursor returns the last reported cursor position
func (m *Manager) Cursor() models.CursorPosition {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor
}

// Stats computes statistics over the cached content
func (m *Manager) Stats() models.EditorStats {
	return ComputeStats(m.Document().Content)
}

// Subscribe registers fn to be called after every change of the document.
// The returned func removes the subscription.
func (m *Manager) Subscribe(fn func(models.Document)) func() {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subs, id)
	}
}

// LoadTemplate replaces the session with the canned template kind. Unknown
// kinds leave the session untouched.
func (m *Manager) LoadTemplate(kind string) error {
	tmpl, ok := templates.Get(kind)
	if !ok {
		m.logger.Debug().Str("template", kind).Msg("ignoring unknown template")
		return fmt.Errorf("%w: %s", ErrUnknownTemplate, kind)
	}
	m.replace(models.Document{
		DisplayName: tmpl.FileName(),
		Language:    tmpl.Language,
		Content:     tmpl.Content,
	})
	m.logger.Debug().Str("template", kind).Msg("loaded template")
	return nil
}

// LoadWelcome replaces the session with the welcome buffer
func (m *Manager) LoadWelcome() {
	m.replace(models.Document{
		DisplayName: templates.Welcome.FileName(),
		Language:    templates.Welcome.Language,
		Content:     templates.Welcome.Content,
	})
}

// LoadFromExternal replaces the session with content another surface already
// obtained. path may be empty for documents with no backing file.
func (m *Manager) LoadFromExternal(content, displayName, path string) {
	if displayName == "" {
		if path != "" {
			displayName = filepath.Base(path)
		} else {
			displayName = untitledBase + "." + languages.DefaultExtension
		}
	}
	language := languages.ForFileName(displayName)

	m.replace(models.Document{
		DisplayName: displayName,
		Language:    language,
		Content:     content,
		BackingPath: path,
	})
	m.logger.Debug().Str("name", displayName).Str("path", path).Str("language", language).Msg("loaded document")

	if path != "" {
		m.remember(path, displayName, language)
	}
}

// OnContentEdited records an edit reported by the editing widget. Content
// identical to the cached copy is not an edit.
func (m *Manager) OnContentEdited(newContent string) {
	m.mu.Lock()
	if newContent == m.doc.Content {
		m.mu.Unlock()
		return
	}
	m.doc.Content = newContent
	m.doc.Modified = true
	m.generation++
	doc := m.doc
	m.mu.Unlock()

	m.publish(doc)
}

// OnCursorMoved records the cursor position reported by the editing widget
func (m *Manager) OnCursorMoved(pos models.CursorPosition) {
	m.mu.Lock()
	m.cursor = pos
	m.mu.Unlock()
}

// OnLanguageChanged applies an explicit language choice. The display name's
// extension is rewritten to match; Modified is untouched.
func (m *Manager) OnLanguageChanged(language string) error {
	if language == "" {
		return ErrUnknownLanguage
	}

	m.mu.Lock()
	m.doc.Language = language
	m.doc.DisplayName = languages.WithExtension(m.doc.DisplayName, language)
	doc := m.doc
	w := m.widget
	m.mu.Unlock()

	if w != nil {
		w.SetLanguage(language)
	}
	m.logger.Debug().Str("language", language).Str("name", doc.DisplayName).Msg("language changed")
	m.publish(doc)
	return nil
}

// snapshot captures what a save will write
type snapshot struct {
	content     string
	displayName string
	path        string
	generation  uint64
	epoch       uint64
}

func (m *Manager) takeSnapshot() snapshot {
	return snapshot{
		content:     m.doc.Content,
		displayName: m.doc.DisplayName,
		path:        m.doc.BackingPath,
		generation:  m.generation,
		epoch:       m.epoch,
	}
}

// Save writes the document to its backing path, or behaves as SaveAs when
// there is none.
func (m *Manager) Save(ctx context.Context) (Outcome, error) {
	m.mu.Lock()
	if !m.doc.HasBackingPath() {
		m.mu.Unlock()
		return m.SaveAs(ctx)
	}
	snap := m.takeSnapshot()
	m.mu.Unlock()

	if err := m.host.WriteFile(ctx, snap.path, snap.content); err != nil {
		return m.fail("Error saving file", snap.path, err)
	}

	m.mu.Lock()
	if snap.epoch == m.epoch && snap.generation == m.generation {
		m.doc.Modified = false
	}
	doc := m.doc
	m.mu.Unlock()

	m.logger.Info().Str("path", snap.path).Msg("file saved")
	m.notifier.Notify(LevelSuccess, "File saved: "+snap.displayName)
	m.publish(doc)
	return Done, nil
}

// SaveAs prompts for a destination and writes the document there.
func (m *Manager) SaveAs(ctx context.Context) (Outcome, error) {
	m.mu.Lock()
	snap := m.takeSnapshot()
	m.mu.Unlock()

	suggested := snap.displayName
	if snap.path != "" {
		suggested = filepath.Join(filepath.Dir(snap.path), snap.displayName)
	}

	path, err := m.host.SaveFileDialog(ctx, suggested, languages.DialogFilters())
	if errors.Is(err, host.ErrCancelled) {
		m.logger.Debug().Msg("save dialog cancelled")
		return Cancelled, nil
	}
	if err != nil {
		return m.fail("Error saving file", suggested, err)
	}

	if err := m.host.WriteFile(ctx, path, snap.content); err != nil {
		return m.fail("Error saving file", path, err)
	}

	name := filepath.Base(path)

	m.mu.Lock()
	if snap.epoch != m.epoch {
		// The document was replaced while the dialog was open; the bytes are
		// on disk but belong to a session that no longer exists.
		m.mu.Unlock()
		m.logger.Info().Str("path", path).Msg("saved replaced document")
		m.remember(path, name, languages.ForFileName(name))
		return Done, nil
	}
	m.doc.BackingPath = path
	m.doc.DisplayName = name
	inferred := languages.ForFileName(name)
	languageChanged := inferred != m.doc.Language
	if languageChanged {
		m.doc.Language = inferred
	}
	if snap.generation == m.generation {
		m.doc.Modified = false
	}
	doc := m.doc
	w := m.widget
	m.mu.Unlock()

	if languageChanged && w != nil {
		w.SetLanguage(doc.Language)
	}
	m.remember(path, name, doc.Language)
	m.logger.Info().Str("path", path).Msg("file saved as")
	m.notifier.Notify(LevelSuccess, "File saved as: "+name)
	m.publish(doc)
	return Done, nil
}

// Open asks for a file and replaces the session with it. Unsaved changes
// must be discarded first.
func (m *Manager) Open(ctx context.Context) (Outcome, error) {
	if outcome, err := m.gate(ctx, promptDiscardForOpen); outcome != Done {
		return outcome, err
	}

	f, err := m.host.OpenFileDialog(ctx, languages.DialogFilters())
	if errors.Is(err, host.ErrCancelled) {
		m.logger.Debug().Msg("open dialog cancelled")
		return Cancelled, nil
	}
	if err != nil {
		return m.fail("Error opening file", "", err)
	}

	m.LoadFromExternal(f.Content, f.DisplayName, f.Path)
	m.notifier.Notify(LevelSuccess, "File opened: "+m.Document().DisplayName)
	return Done, nil
}

// NewDocument replaces the session with an empty untitled document after the
// same discard gate as Open.
func (m *Manager) NewDocument(ctx context.Context) (Outcome, error) {
	if outcome, err := m.gate(ctx, promptDiscardForNew); outcome != Done {
		return outcome, err
	}
	m.replace(m.untitled(""))
	m.logger.Debug().Msg("new document")
	return Done, nil
}

// ConfirmDiscard runs the discard gate with a custom prompt. It returns true
// when there is nothing to lose or the user agreed to lose it.
func (m *Manager) ConfirmDiscard(ctx context.Context, prompt string) (bool, error) {
	outcome, err := m.gate(ctx, prompt)
	return outcome == Done, err
}

func (m *Manager) gate(ctx context.Context, prompt string) (Outcome, error) {
	if !m.Modified() {
		return Done, nil
	}
	ok, err := m.confirmer.Confirm(ctx, prompt)
	if errors.Is(err, host.ErrCancelled) {
		return Declined, nil
	}
	if err != nil {
		return Failed, fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		m.logger.Debug().Str("prompt", prompt).Msg("discard declined")
		return Declined, nil
	}
	return Done, nil
}

func (m *Manager) fail(message, path string, err error) (Outcome, error) {
	m.logger.Warn().Err(err).Str("path", path).Msg(message)
	m.notifier.Notify(LevelError, message)
	return Failed, fmt.Errorf("%w: %w", ErrIOFailure, err)
}

func (m *Manager) remember(path, name, language string) {
	if m.recents == nil {
		return
	}
	if err := m.recents.Add(path, name, language); err != nil {
		m.logger.Warn().Err(err).Str("path", path).Msg("failed to record recent file")
	}
}

// replace swaps in a whole new document and pushes it to the widget
func (m *Manager) replace(doc models.Document) {
	doc.Modified = false

	m.mu.Lock()
	m.doc = doc
	m.epoch++
	m.generation = 0
	m.cursor = models.CursorPosition{Line: 1, Column: 1}
	w := m.widget
	m.mu.Unlock()

	if w != nil {
		w.SetLanguage(doc.Language)
		w.SetContent(doc.Content)
	}
	m.publish(doc)
}

func (m *Manager) untitled(content string) models.Document {
	return models.Document{
		DisplayName: untitledBase + "." + languages.ExtensionFor(m.defaultLanguage),
		Language:    m.defaultLanguage,
		Content:     content,
	}
}

func (m *Manager) publish(doc models.Document) {
	m.subMu.Lock()
	fns := make([]func(models.Document), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(doc)
	}
}
