package common

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrEmptySlug = errors.New("slug cannot be empty")
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify builds a URL slug from input, folding accents ("Diseño" -> "diseno").
// fallback is used when input has no slug-able characters.
func Slugify(input, fallback string) (string, error) {
	slug := slugify(input)
	if slug == "" {
		slug = slugify(fallback)
	}
	if slug == "" {
		return "", ErrEmptySlug
	}
	return slug, nil
}

func slugify(s string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		strings.TrimSpace(s),
	)
	if err != nil {
		folded = s
	}
	lower := strings.ToLower(folded)
	slug := nonSlugChars.ReplaceAllString(lower, "-")
	return strings.Trim(slug, "-")
}
