package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Fold strips combining marks so that "Kwamé" and "Kwame" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return norm.NFKC.String(s)
	}
	return norm.NFKC.String(folded)
}

// CollapseSpace trims the string and replaces every run of whitespace with a
// single space.
func CollapseSpace(s string) string {
	return whitespaceRegex.ReplaceAllString(strings.TrimSpace(s), " ")
}

// NormalizeName lower-cases, trims and collapses whitespace, this is the form
// used as a key when remembering names.
func NormalizeName(name string) string {
	return CollapseSpace(strings.ToLower(name))
}

// NormalizeFolded is NormalizeName with diacritics removed.
func NormalizeFolded(name string) string {
	return NormalizeName(Fold(name))
}
