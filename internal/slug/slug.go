// Package slug converts note titles into URL-safe slugs.
// The slug is the note's user-facing address and must be unique store-wide;
// uniqueness is enforced by the store, this package only normalizes.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Matches spaces, underscores, and slashes (for replacement with dashes).
	wordSeparatorRe = regexp.MustCompile(`[\s_/]+`)
	// Matches non-alphanumeric characters (except dashes).
	nonAlphanumericRe = regexp.MustCompile(`[^a-z0-9-]`)
	// Matches multiple consecutive dashes.
	multipleDashRe = regexp.MustCompile(`-+`)
	// Valid user-supplied slug: letters, digits, underscore, dash.
	validSlugRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// MaxLength is the maximum accepted slug length.
const MaxLength = 100

// cyrillicToLatin transliterates Russian Cyrillic into Latin.
// Hard and soft signs are dropped.
var cyrillicToLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "j", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "c", 'ч': "ch", 'ш': "sh", 'щ': "sch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

// foldDiacritics strips combining marks so "café" folds to "cafe".
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize converts an arbitrary title into a canonical slug.
// Deterministic and idempotent; empty and whitespace-only input yields "".
//
// Normalization rules:
//  1. Trim whitespace and lowercase
//  2. Transliterate Cyrillic, fold Latin diacritics
//  3. Replace spaces, underscores, and slashes with dashes
//  4. Remove remaining non-alphanumeric characters (except dashes)
//  5. Collapse multiple dashes, trim leading/trailing dashes
//
// Examples:
//
//	"Новая заметка"  → "novaya-zametka"
//	"Shopping List"  → "shopping-list"
//	"  Café // 3  "  → "cafe-3"
func Normalize(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if lat, ok := cyrillicToLatin[r]; ok {
			b.WriteString(lat)
			continue
		}
		b.WriteRune(r)
	}
	s = b.String()

	if folded, _, err := transform.String(foldDiacritics, s); err == nil {
		s = folded
	}

	s = wordSeparatorRe.ReplaceAllString(s, "-")
	s = nonAlphanumericRe.ReplaceAllString(s, "")
	s = multipleDashRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > MaxLength {
		s = strings.Trim(s[:MaxLength], "-")
	}

	return s
}

// Resolve returns the slug to use for a note: a non-empty requested slug is
// returned unchanged (the store validates uniqueness downstream), otherwise
// the title is normalized.
func Resolve(requested, title string) string {
	if requested != "" {
		return requested
	}
	return Normalize(title)
}

// IsValid reports whether a user-supplied slug is acceptable:
// letters, digits, underscores, and dashes, up to MaxLength characters.
func IsValid(s string) bool {
	return len(s) <= MaxLength && validSlugRe.MatchString(s)
}
