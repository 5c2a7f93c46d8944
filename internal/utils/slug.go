package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name, folds accented letters to their base letter and
// joins the remaining words with hyphens: "Le Cañón Trek" -> "le-canon-trek".
func Slugify(name string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, name)
	if err != nil {
		folded = name
	}
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(slug, "-")
}
