package reconcile

import (
	"strings"
	"unicode"
)

var ocrConfusions = map[rune]rune{
	'0': 'o',
	'1': 'l',
	'|': 'l',
	'!': 'l',
	'5': 's',
	'$': 's',
	'8': 'b',
	'@': 'a',
	'3': 'e',
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// CleanOCRName undoes common handwriting recognition slips in a name. Glyphs
// that look like letters are replaced inside words, tokens without any
// letters (row numbers, stray marks) are dropped.
func CleanOCRName(name string) string {
	fields := strings.Fields(name)
	kept := make([]string, 0, len(fields))
	for _, f := range fields {
		if !hasLetter(f) {
			continue
		}

		var b strings.Builder
		for _, r := range f {
			if repl, ok := ocrConfusions[r]; ok {
				b.WriteRune(repl)
				continue
			}
			if unicode.IsLetter(r) || r == '.' || r == '-' || r == '\'' {
				b.WriteRune(r)
			}
		}
		if cleaned := strings.Trim(b.String(), "-'"); cleaned != "" {
			kept = append(kept, cleaned)
		}
	}
	return strings.Join(kept, " ")
}
