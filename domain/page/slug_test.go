package page_test

import (
	"strings"
	"testing"

	"github.com/jhiver/doxyde-sub000/domain/page"
)

func TestSlugFromTitle(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"About Us", "about-us"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Multiple   Spaces", "multiple-spaces"},
		{"Special!@#Characters", "special-characters"},
		{"CamelCaseTitle", "camelcasetitle"},
		{"Numbers 123 Here", "numbers-123-here"},
		{"---Hyphens---", "hyphens"},
		{"Ünïcödé Tïtlé", "n-c-d-t-tl"},
		{"", "untitled"},
		{"!@#$%", "untitled"},
		{"   ", "untitled"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := page.SlugFromTitle(tt.title); got != tt.want {
				t.Errorf("SlugFromTitle(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestSlugFromTitle_Truncation(t *testing.T) {
	long := strings.Repeat("word ", 40) // 200 chars before slugging

	slug := page.SlugFromTitle(long)
	if len(slug) > 100 {
		t.Errorf("slug length = %d, want <= 100", len(slug))
	}
	if strings.HasSuffix(slug, "-") {
		t.Errorf("truncated slug ends with hyphen: %q", slug)
	}
}
