package nlp

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases an utterance and strips diacritics so that "Déque"
// and "deque" classify the same way. Punctuation and inner spacing are kept:
// several trigger phrases depend on them ("std::vector", "big-o").
func Normalize(s string) string {
	// A Caser is stateful; build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC, cases.Lower(language.Und))
	out, _, err := transform.String(t, s)
	if err != nil {
		out = strings.ToLower(s)
	}
	return strings.TrimSpace(out)
}

// Compact normalises s and then drops every rune that is not a letter or a
// digit, so "What is a Stack?" becomes "whatisastack".
func Compact(s string) string {
	s = Normalize(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
