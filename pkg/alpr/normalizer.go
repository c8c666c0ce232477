package alpr

import (
	"regexp"
	"strings"
)

// plateRe matches a full Vietnamese plate: two province digits, a series of
// one or two letters (or letter+digit / digit+letter), then 4 or 5 digits.
var plateRe = regexp.MustCompile(`^(\d{2})([A-Z]{1,2}|[A-Z]\d|\d[A-Z])(\d{4,5})$`)

var plateCleaner = strings.NewReplacer(" ", "", "-", "", ".", "")

// Clean uppercases the text and strips spaces, hyphens and periods.
func Clean(text string) string {
	return plateCleaner.Replace(strings.ToUpper(text))
}

// Validate reports whether the cleaned text is a well-formed plate and
// returns the cleaned text.
func Validate(text string) (bool, string) {
	cleaned := Clean(text)
	return plateRe.MatchString(cleaned), cleaned
}

// Format renders a valid plate as "51F-12345". Text that does not match the
// plate grammar is returned cleaned but otherwise untouched, so Format is
// idempotent: Format(Format(x)) == Format(x).
func Format(text string) string {
	cleaned := Clean(text)
	m := plateRe.FindStringSubmatch(cleaned)
	if m == nil {
		return cleaned
	}
	return m[1] + m[2] + "-" + m[3]
}
