// Package slug converts between judge display names and the URL-safe
// identifiers used as lookup keys and route segments.
//
// The transforms are intentionally lossy: ToDisplayName is only an inverse of
// ToSlug for names made of single-space separated words.
package slug

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var lower = cases.Lower(language.Und)

// ToSlug lower-cases name and replaces every run of whitespace with a single
// hyphen. Leading and trailing whitespace also become hyphens; callers trim
// first if they don't want that.
func ToSlug(name string) string {
	s := lower.String(norm.NFC.String(name))

	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('-')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// ToDisplayName splits a slug on hyphens, upper-cases the first letter of
// each segment and joins the segments with spaces.
func ToDisplayName(s string) string {
	parts := strings.Split(s, "-")
	for i, p := range parts {
		parts[i] = upperFirst(p)
	}
	return strings.Join(parts, " ")
}

// TitleCase lower-cases name and upper-cases the first letter of each
// space-separated word. Empty words (from repeated spaces) are preserved.
func TitleCase(name string) string {
	words := strings.Split(lower.String(norm.NFC.String(name)), " ")
	for i, w := range words {
		words[i] = upperFirst(w)
	}
	return strings.Join(words, " ")
}

// Route is the UI path of a judge's detail view.
func Route(s string) string {
	return "/judge/" + s
}

func upperFirst(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return w
	}
	return string(unicode.ToUpper(r)) + w[size:]
}
