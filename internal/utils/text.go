package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lower-cases s and strips diacritics so "Suprafață" and "SUPRAFATA"
// compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// NormalizeHeader folds a column label and collapses punctuation and
// whitespace: "Nr. ap." -> "nr ap".
func NormalizeHeader(s string) string {
	s = Fold(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ", ".", " ", ":", " ", "/", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
