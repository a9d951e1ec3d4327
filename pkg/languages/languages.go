// Package languages maps between file extensions, editor language ids and
// human readable names.
package languages

import (
	"sort"
	"strings"

	"github.com/sourcepad/sourcepad-cli/pkg/models"
)

const (
	// PlainText is the language id used when an extension is not recognized
	PlainText = "plaintext"
	// DefaultExtension is used when a language has no extension mapping
	DefaultExtension = "txt"
)

var extensionToLanguage = map[string]string{
	"js":       "javascript",
	"jsx":      "javascript",
	"ts":       "typescript",
	"tsx":      "typescript",
	"html":     "html",
	"htm":      "html",
	"css":      "css",
	"scss":     "scss",
	"sass":     "sass",
	"less":     "less",
	"py":       "python",
	"json":     "json",
	"md":       "markdown",
	"markdown": "markdown",
	"xml":      "xml",
	"yaml":     "yaml",
	"yml":      "yaml",
	"sql":      "sql",
}

var languageToExtension = map[string]string{
	"javascript": "js",
	"typescript": "ts",
	"html":       "html",
	"css":        "css",
	"scss":       "scss",
	"sass":       "sass",
	"less":       "less",
	"python":     "py",
	"json":       "json",
	"markdown":   "md",
	"xml":        "xml",
	"yaml":       "yaml",
	"sql":        "sql",
}

var displayNames = map[string]string{
	"javascript": "JavaScript",
	"typescript": "TypeScript",
	"html":       "HTML",
	"css":        "CSS",
	"scss":       "SCSS",
	"less":       "Less",
	"python":     "Python",
	"json":       "JSON",
	"markdown":   "Markdown",
	"xml":        "XML",
	"yaml":       "YAML",
	"sql":        "SQL",
	"plaintext":  "Plain Text",
}

// Selectable is the order languages are offered in the language selector.
var Selectable = []string{
	"javascript",
	"typescript",
	"html",
	"css",
	"scss",
	"less",
	"python",
	"json",
	"markdown",
	"xml",
	"yaml",
	"sql",
	"plaintext",
}

// FileExtension returns the lower-cased text after the last dot, or
// DefaultExtension when the name has none.
func FileExtension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return DefaultExtension
	}
	return strings.ToLower(name[idx+1:])
}

// ForExtension returns the language id for ext, PlainText if unknown.
func ForExtension(ext string) string {
	if lang, ok := extensionToLanguage[strings.ToLower(strings.TrimPrefix(ext, "."))]; ok {
		return lang
	}
	return PlainText
}

// ForFileName infers the language from the extension of name.
func ForFileName(name string) string {
	return ForExtension(FileExtension(name))
}

// ExtensionFor returns the canonical extension for a language id.
func ExtensionFor(language string) string {
	if ext, ok := languageToExtension[language]; ok {
		return ext
	}
	return DefaultExtension
}

// DisplayName returns the status-bar label for a language id.
func DisplayName(language string) string {
	if name, ok := displayNames[language]; ok {
		return name
	}
	return strings.ToUpper(language)
}

// IsKnown reports whether language is offered by the selector.
func IsKnown(language string) bool {
	for _, l := range Selectable {
		if l == language {
			return true
		}
	}
	return false
}

// Next returns the selector entry after language, wrapping around.
func Next(language string) string {
	for i, l := range Selectable {
		if l == language {
			return Selectable[(i+1)%len(Selectable)]
		}
	}
	return Selectable[0]
}

// WithExtension rewrites the extension of a display name for language.
// The base name is everything before the first dot.
func WithExtension(displayName, language string) string {
	base := displayName
	if idx := strings.Index(base, "."); idx >= 0 {
		base = base[:idx]
	}
	if base == "" {
		base = "Untitled"
	}
	return base + "." + ExtensionFor(language)
}

// Extensions lists every recognized extension, sorted.
func Extensions() []string {
	exts := make([]string, 0, len(extensionToLanguage))
	for ext := range extensionToLanguage {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// DialogFilters is the filter list offered by open and save dialogs.
func DialogFilters() []models.FileFilter {
	return []models.FileFilter{
		{Name: "All Supported", Extensions: Extensions()},
		{Name: "JavaScript", Extensions: []string{"js", "jsx"}},
		{Name: "TypeScript", Extensions: []string{"ts", "tsx"}},
		{Name: "HTML", Extensions: []string{"html", "htm"}},
		{Name: "Stylesheets", Extensions: []string{"css", "scss", "sass", "less"}},
		{Name: "Python", Extensions: []string{"py"}},
		{Name: "JSON", Extensions: []string{"json"}},
		{Name: "Markdown", Extensions: []string{"md", "markdown"}},
		{Name: "Data", Extensions: []string{"xml", "yaml", "yml", "sql"}},
		{Name: "Text", Extensions: []string{"txt"}},
		{Name: "All Files", Extensions: []string{"*"}},
	}
}
