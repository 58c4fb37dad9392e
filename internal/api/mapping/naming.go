package mapping

import (
	"strings"
	"unicode"
)

// SnakeToCamel upper-cases every lowercase ASCII letter that follows an
// underscore and drops that underscore. Other underscores are kept.
func SnakeToCamel(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '_' && i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z' {
			b.WriteRune(unicode.ToUpper(runes[i+1]))
			i++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CamelToSnake replaces every uppercase ASCII letter with an underscore
// followed by its lowercase form. A leading capital therefore yields a
// leading underscore: "A" becomes "_a", which SnakeToCamel turns back
// into "A".
func CamelToSnake(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)

	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
