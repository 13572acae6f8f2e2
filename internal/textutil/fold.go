package textutil

import (
	"strings"

	"golang.org/x/text/cases"
)

var folder = cases.Fold()

// Fold returns the Unicode case-folded form of s.
func Fold(s string) string {
	return folder.String(s)
}

// EqualFold reports whether a and b are equal under Unicode case folding.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

// ContainsFold reports whether s contains substr under Unicode case folding.
func ContainsFold(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}

// SanitizeSeriesQuery trims decorations that hurt destination series search:
// ampersands and a leading "The ".
func SanitizeSeriesQuery(name string) string {
	cleaned := strings.ReplaceAll(name, "&", "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if len(cleaned) > 4 && strings.EqualFold(cleaned[:4], "the ") {
		cleaned = cleaned[4:]
	}
	return cleaned
}
