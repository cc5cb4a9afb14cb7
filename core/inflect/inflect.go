package inflect

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// titleCaser returns a fresh caser; cases.Caser keeps state and must not be
// shared between goroutines.
func titleCaser() cases.Caser {
	return cases.Title(language.Und, cases.NoLower)
}

// Pluralize returns the plural form of word.
func Pluralize(word string) string {
	return inflection.Plural(word)
}

// Singularize returns the singular form of word.
func Singularize(word string) string {
	return inflection.Singular(word)
}

// IsPlural reports whether word is already plural, i.e. pluralizing it
// leaves it unchanged.
func IsPlural(word string) bool {
	return word != "" && Pluralize(word) == word
}

// UpperFirst upper-cases the first letter and keeps the rest untouched.
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return titleCaser().String(string(r)) + s[size:]
}

// LowerFirst lower-cases the first letter and keeps the rest untouched.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

// Camelize converts snake_case, kebab-case or space separated words to
// lowerCamelCase. Words that are already camel-cased are kept as they are.
func Camelize(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	if len(parts) == 0 {
		return ""
	}
	caser := titleCaser()
	var b strings.Builder
	b.WriteString(LowerFirst(parts[0]))
	for _, p := range parts[1:] {
		b.WriteString(caser.String(p))
	}
	return b.String()
}

// LowerCamel turns an exported Go identifier into a lowerCamelCase key,
// keeping initialisms together: "ID" -> "id", "URLPath" -> "urlPath",
// "PublicName" -> "publicName".
func LowerCamel(name string) string {
	runes := []rune(name)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	switch {
	case n == 0:
		return name
	case n == len(runes):
		return strings.ToLower(name)
	case n > 1:
		// The last upper-case rune starts the next word.
		n--
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
