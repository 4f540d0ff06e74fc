package web

import (
	"encoding/json"
	"time"

	"github.com/jhiver/doxyde-sub000/app"
	"github.com/jhiver/doxyde-sub000/domain/component"
	"github.com/jhiver/doxyde-sub000/domain/page"
	"github.com/jhiver/doxyde-sub000/domain/version"
)

type pageJSON struct {
	ID                 string    `json:"id"`
	ParentID           string    `json:"parent_id,omitempty"`
	Slug               string    `json:"slug"`
	Title              string    `json:"title"`
	Description        string    `json:"description,omitempty"`
	Keywords           string    `json:"keywords,omitempty"`
	MetaRobots         string    `json:"meta_robots"`
	CanonicalURL       string    `json:"canonical_url,omitempty"`
	OGImageURL         string    `json:"og_image_url,omitempty"`
	StructuredDataType string    `json:"structured_data_type"`
	Template           string    `json:"template"`
	Position           int       `json:"position"`
	SortMode           string    `json:"sort_mode"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func toPageJSON(p page.Page) pageJSON {
	return pageJSON{
		ID:                 p.ID,
		ParentID:           p.ParentID,
		Slug:               p.Slug,
		Title:              p.Title,
		Description:        p.Description,
		Keywords:           p.Keywords,
		MetaRobots:         p.MetaRobots,
		CanonicalURL:       p.CanonicalURL,
		OGImageURL:         p.OGImageURL,
		StructuredDataType: p.StructuredDataType,
		Template:           p.Template,
		Position:           p.Position,
		SortMode:           string(p.SortMode),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func toPageListJSON(pages []page.Page) []pageJSON {
	out := make([]pageJSON, len(pages))
	for i, p := range pages {
		out[i] = toPageJSON(p)
	}
	return out
}

type treeJSON struct {
	Page     pageJSON   `json:"page"`
	Children []treeJSON `json:"children,omitempty"`
}

func toTreeJSON(node app.PageNode) treeJSON {
	out := treeJSON{Page: toPageJSON(node.Page)}
	for _, child := range node.Children {
		out.Children = append(out.Children, toTreeJSON(child))
	}
	return out
}

type versionJSON struct {
	ID          string    `json:"id"`
	PageID      string    `json:"page_id"`
	Number      int       `json:"version_number"`
	IsPublished bool      `json:"is_published"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toVersionJSON(v version.Version) versionJSON {
	return versionJSON{
		ID:          v.ID,
		PageID:      v.PageID,
		Number:      v.Number,
		IsPublished: v.IsPublished,
		CreatedBy:   v.CreatedBy,
		CreatedAt:   v.CreatedAt,
	}
}

type componentJSON struct {
	ID        string          `json:"id"`
	VersionID string          `json:"version_id"`
	Type      string          `json:"type"`
	Position  int             `json:"position"`
	Template  string          `json:"template"`
	Title     string          `json:"title,omitempty"`
	Content   json.RawMessage `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toComponentJSON(c component.Component) componentJSON {
	content := c.Content
	if len(content) == 0 {
		content = json.RawMessage("null")
	}
	return componentJSON{
		ID:        c.ID,
		VersionID: c.VersionID,
		Type:      c.Type,
		Position:  c.Position,
		Template:  c.Template,
		Title:     c.Title,
		Content:   content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toComponentListJSON(components []component.Component) []componentJSON {
	out := make([]componentJSON, len(components))
	for i, c := range components {
		out[i] = toComponentJSON(c)
	}
	return out
}

// versionContentJSON pairs a version with its components.
type versionContentJSON struct {
	Version    versionJSON     `json:"version"`
	Components []componentJSON `json:"components"`
}
