package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Normalize canonicalizes s for comparison: surrounding whitespace trimmed,
// interior whitespace runs collapsed to single spaces, result case-folded.
// The folded form is used for equality and sorting only, never for display.
func Normalize(s string) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	return cases.Fold().String(collapsed)
}

// DisplayForm prepares s for presentation: whitespace collapsed and the
// first rune upper-cased. Interior characters keep their original case.
func DisplayForm(s string) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	if collapsed == "" {
		return ""
	}
	runes := []rune(collapsed)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
