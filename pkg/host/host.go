// Package host describes the capabilities the application shell offers the
// editor core: native-style file dialogs, file access, a confirmation prompt
// and the window itself.
package host

import (
	"context"
	"errors"

	"github.com/sourcepad/sourcepad-cli/pkg/models"
)

// ErrCancelled is returned by dialogs the user dismissed. It is a normal
// outcome and callers must not surface it as a failure.
var ErrCancelled = errors.New("cancelled by user")

// OpenedFile is the result of a successful open dialog.
type OpenedFile struct {
	Content     string
	DisplayName string
	Path        string
}

// Dialogs are the file pickers of the host.
type Dialogs interface {
	OpenFileDialog(ctx context.Context, filters []models.FileFilter) (OpenedFile, error)
	SaveFileDialog(ctx context.Context, suggestedPath string, filters []models.FileFilter) (string, error)
}

// FileSystem reads and writes whole files.
type FileSystem interface {
	ReadFile(ctx context.Context, path string) (string, error)
	WriteFile(ctx context.Context, path, content string) error
}

// Confirmer asks the user a yes/no question and blocks until answered.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Window is the host window being negotiated over.
type Window interface {
	Hide()
	Terminate()
}

// Host is the full capability surface.
type Host interface {
	Dialogs
	FileSystem
	AppVersion() string
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm answers yes without asking. Used by non-interactive callers.
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
