package forms

import (
	"regexp"
	"strings"
)

var (
	slugStrip   = regexp.MustCompile(`[^a-z0-9]+`)
	slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// Slugify lower-cases title, collapses every run of other characters into a
// single hyphen and trims hyphens from both ends.
func Slugify(title string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}

func validateSlug(slug string) error {
	if len(slug) < 2 {
		return ErrSlugTooShort
	}
	if !slugPattern.MatchString(slug) {
		return ErrSlugInvalid
	}
	return nil
}
