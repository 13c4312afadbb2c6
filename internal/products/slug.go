package product

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugStripRe = regexp.MustCompile(`[^a-zA-Z0-9 -]`)

	// letters that do not decompose into an ASCII base plus combining marks
	ligatures = strings.NewReplacer(
		"ß", "ss", "ẞ", "SS",
		"æ", "ae", "Æ", "AE",
		"œ", "oe", "Œ", "OE",
		"ø", "o", "Ø", "O",
		"ł", "l", "Ł", "L",
		"đ", "d", "Đ", "D",
		"þ", "th", "Þ", "TH",
	)
)

// Slugify transliterates value to ASCII, trims it, drops everything outside
// [a-zA-Z0-9 -], lower-cases it and turns spaces into dashes.
func Slugify(value string) string {
	value = transliterate(value)
	value = slugStripRe.ReplaceAllString(strings.TrimSpace(value), "")
	value = strings.ToLower(value)
	return strings.ReplaceAll(value, " ", "-")
}

func transliterate(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, ligatures.Replace(value))
	if err != nil {
		return value
	}
	return out
}
