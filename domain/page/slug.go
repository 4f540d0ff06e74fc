package page

import "strings"

// SlugFromTitle derives a URL-friendly slug from a page title: lowercase,
// non-alphanumeric runs collapsed to single hyphens, edge hyphens trimmed.
// Titles that reduce to nothing yield "untitled". Slugs are capped at 100
// characters without a trailing hyphen.
func SlugFromTitle(title string) string {
	lowered := strings.ToLower(strings.TrimSpace(title))

	var b strings.Builder
	lastHyphen := false
	for _, c := range lowered {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteRune(c)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "untitled"
	}
	if len(slug) > 100 {
		slug = strings.TrimRight(slug[:100], "-")
	}
	return slug
}
