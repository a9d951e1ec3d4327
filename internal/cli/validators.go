package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sourcepad/sourcepad-cli/pkg/languages"
	"github.com/sourcepad/sourcepad-cli/pkg/models"
	"github.com/sourcepad/sourcepad-cli/pkg/templates"
)

// ValidateOutputFormat validates the output format flag
func ValidateOutputFormat(format string) error {
	switch OutputFormat(format) {
	case FormatText, FormatJSON, FormatYAML:
		return nil
	}
	return fmt.Errorf("invalid output format: %s (must be: text, json, or yaml)", format)
}

// ValidateFilePath validates that a file path exists and is a file
func ValidateFilePath(path string) error {
	if !filepath.IsAbs(path) {
		path, _ = filepath.Abs(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s", path)
		}
		return fmt.Errorf("error accessing path: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, expected file: %s", path)
	}

	return nil
}

// ValidateTemplateKind accepts a template kind, case-insensitively, and
// returns its canonical form
func ValidateTemplateKind(kind string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(kind))
	if _, ok := templates.Get(normalized); ok {
		return normalized, nil
	}
	return "", fmt.Errorf("unknown template: %s (must be one of: %s)", kind, strings.Join(templates.Kinds, ", "))
}

// ValidateLanguage accepts any language offered by the language selector
func ValidateLanguage(language string) error {
	if languages.IsKnown(language) {
		return nil
	}
	return fmt.Errorf("unknown language: %s", language)
}

// ValidateStorageBackend validates the --store flag
func ValidateStorageBackend(backend string) error {
	switch backend {
	case "", models.StorageFile, models.StorageSQLite, models.StorageMemory:
		return nil
	}
	return fmt.Errorf("invalid storage backend: %s (must be: file, sqlite, or memory)", backend)
}

// Contains checks if a string is in a slice
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
