package session

import (
	"strings"
	"unicode/utf8"

	"github.com/sourcepad/sourcepad-cli/pkg/models"
)

// ComputeStats counts lines, characters and whitespace-separated words.
// An empty buffer still has one line.
func ComputeStats(content string) models.EditorStats {
	return models.EditorStats{
		Lines:      strings.Count(content, "\n") + 1,
		Characters: utf8.RuneCountInString(content),
		Words:      len(strings.Fields(content)),
	}
}
