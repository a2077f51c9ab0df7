// Package textnorm canonicalizes free-form text before it is hashed.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize returns a deterministic canonical form of text:
// NFKD decomposition, combining marks removed, lowercased, every rune that is
// not a word character turned into a space, space runs collapsed to one and
// the result trimmed. Empty input yields "".
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	// A fresh transformer per call: transform.Chain keeps internal state.
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	decomposed, _, err := transform.String(t, text)
	if err != nil {
		// Only reachable on invalid transformer state; fall back to the raw input.
		decomposed = text
	}

	lowered := strings.ToLower(decomposed)

	// Punctuation separates words: "Déjà-Vu" becomes "deja vu", not "dejavu".
	spaced := strings.Map(func(r rune) rune {
		if isWordRune(r) {
			return r
		}
		return ' '
	}, lowered)

	return strings.Join(strings.Fields(spaced), " ")
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
