// Package util provides small helpers shared across handlers: slug
// generation, upload path validation and user agent summaries.
package util

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var (
	slugInvalid   = regexp.MustCompile(`[^a-z0-9-]+`)
	slugCollapsed = regexp.MustCompile(`-{2,}`)
)

// Slugify converts a string into a URL-friendly slug. Non-ASCII text,
// including Cyrillic, is transliterated first so Russian and Uzbek titles
// produce readable slugs.
func Slugify(s string) string {
	s = unidecode.Unidecode(s)
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugCollapsed.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// IsValidSlug reports whether s is a well-formed slug: lowercase
// alphanumerics and single hyphens, not empty, no leading or trailing hyphen.
func IsValidSlug(s string) bool {
	if s == "" || len(s) > 200 {
		return false
	}
	if strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") {
		return false
	}
	if strings.Contains(s, "--") {
		return false
	}
	return !slugInvalid.MatchString(s)
}
