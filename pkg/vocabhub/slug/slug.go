// Package slug derives URL-safe identifiers from human-readable names.
package slug

import (
	"strings"
	"unicode"
)

// Style selects the compaction style for a normalized slug.
type Style int

const (
	// Camel produces lowerCamelCase, used for vocabularies and properties.
	Camel Style = iota
	// Pascal produces UpperCamelCase, used for classes.
	Pascal
)

// Normalize converts a display name into a slug. It splits the name on
// any non-alphanumeric runs, lowercases each word and joins them in the
// requested style. Deterministic, no I/O; returns "" for input with no
// alphanumeric characters.
func Normalize(name string, style Style) string {
	words := split(name)
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	for i, w := range words {
		if i == 0 && style == Camel {
			b.WriteString(w)
			continue
		}
		r := []rune(w)
		b.WriteString(strings.ToUpper(string(r[0])))
		b.WriteString(string(r[1:]))
	}
	return b.String()
}

// split breaks a name into lowercased words on non-alphanumeric runs.
func split(name string) []string {
	fields := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		words = append(words, strings.ToLower(f))
	}
	return words
}
