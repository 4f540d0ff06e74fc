// Package page provides page value types and pure validation functions.
// Pages form the content tree: every page except the root has a parent,
// and siblings are kept at contiguous zero-based positions.
package page

import (
	"fmt"
	"strings"
	"time"
)

// SortMode describes how a page's children are displayed.
// Only ModeManual is maintained by move operations; the other modes are
// advisory sort instructions for a renderer.
type SortMode string

const (
	SortCreatedAsc  SortMode = "created_at_asc"
	SortCreatedDesc SortMode = "created_at_desc"
	SortTitleAsc    SortMode = "title_asc"
	SortTitleDesc   SortMode = "title_desc"
	SortManual      SortMode = "manual"
)

// Page represents a node in the content tree (value type).
type Page struct {
	ID       string
	ParentID string // empty for the single root page
	Slug     string // empty only for the root page
	Title    string

	// SEO metadata, passed through unchanged by the engine.
	Description        string
	Keywords           string
	MetaRobots         string
	CanonicalURL       string
	OGImageURL         string
	StructuredDataType string

	Template string
	Position int
	SortMode SortMode

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsRoot reports whether the page is the tree root.
func (p Page) IsRoot() bool {
	return p.ParentID == ""
}

// New returns a page with the original defaults applied.
func New(parentID, slug, title string, now time.Time) Page {
	return Page{
		ParentID:           parentID,
		Slug:               slug,
		Title:              title,
		Template:           "default",
		MetaRobots:         "index,follow",
		StructuredDataType: "WebPage",
		SortMode:           SortCreatedAsc,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// ValidateSlug checks slug shape. An empty slug is legal only for the root.
func (p Page) ValidateSlug() error {
	if p.Slug == "" {
		if p.ParentID != "" {
			return fmt.Errorf("slug cannot be empty for non-root pages")
		}
		return nil
	}
	if len(p.Slug) > 255 {
		return fmt.Errorf("slug cannot exceed 255 characters")
	}
	if strings.Contains(p.Slug, " ") {
		return fmt.Errorf("slug cannot contain spaces")
	}
	for _, c := range p.Slug {
		if !isSlugChar(c) {
			return fmt.Errorf("slug can only contain letters, numbers, hyphens, underscores, dots, and slashes")
		}
	}
	if strings.HasPrefix(p.Slug, "/") || strings.HasSuffix(p.Slug, "/") {
		return fmt.Errorf("slug cannot start or end with a slash")
	}
	if strings.Contains(p.Slug, "//") {
		return fmt.Errorf("slug cannot contain consecutive slashes")
	}
	return nil
}

func isSlugChar(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.' || c == '/':
		return true
	}
	return false
}

// ValidateTitle checks that the title is present and within bounds.
func (p Page) ValidateTitle() error {
	if p.Title == "" {
		return fmt.Errorf("title cannot be empty")
	}
	if len(p.Title) > 255 {
		return fmt.Errorf("title cannot exceed 255 characters")
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("title cannot be only whitespace")
	}
	return nil
}

// ValidateTemplate checks that a template name is present. Templates are
// discovered dynamically by the renderer, so only presence is enforced.
func (p Page) ValidateTemplate() error {
	if strings.TrimSpace(p.Template) == "" {
		return fmt.Errorf("template cannot be empty")
	}
	return nil
}

var validRobotsDirectives = map[string]bool{
	"index":        true,
	"noindex":      true,
	"follow":       true,
	"nofollow":     true,
	"noarchive":    true,
	"nosnippet":    true,
	"noimageindex": true,
}

// ValidateMetaRobots checks the comma-separated robots directive list.
func (p Page) ValidateMetaRobots() error {
	for _, d := range strings.Split(p.MetaRobots, ",") {
		d = strings.TrimSpace(d)
		if d != "" && !validRobotsDirectives[d] {
			return fmt.Errorf("invalid robots directive: %s", d)
		}
	}
	return nil
}

var validStructuredDataTypes = map[string]bool{
	"WebPage":      true,
	"Article":      true,
	"BlogPosting":  true,
	"Product":      true,
	"Organization": true,
	"Person":       true,
	"Event":        true,
	"FAQPage":      true,
}

// ValidateStructuredDataType checks the schema.org type tag.
func (p Page) ValidateStructuredDataType() error {
	if !validStructuredDataTypes[p.StructuredDataType] {
		return fmt.Errorf("invalid structured data type %q", p.StructuredDataType)
	}
	return nil
}

// ValidateSortMode checks the child display mode.
func (p Page) ValidateSortMode() error {
	switch p.SortMode {
	case SortCreatedAsc, SortCreatedDesc, SortTitleAsc, SortTitleDesc, SortManual:
		return nil
	}
	return fmt.Errorf("invalid sort mode %q", p.SortMode)
}

// Validate runs all field checks.
func (p Page) Validate() error {
	if err := p.ValidateSlug(); err != nil {
		return err
	}
	if err := p.ValidateTitle(); err != nil {
		return err
	}
	if err := p.ValidateTemplate(); err != nil {
		return err
	}
	if err := p.ValidateMetaRobots(); err != nil {
		return err
	}
	if err := p.ValidateStructuredDataType(); err != nil {
		return err
	}
	return p.ValidateSortMode()
}
