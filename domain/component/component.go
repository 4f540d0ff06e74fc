// Package component provides the content block value type.
// A component belongs to exactly one page version and carries an opaque
// payload: the engine preserves Type and Content without interpreting them,
// and only enforces structural rules (position, draft-only mutation).
package component

import (
	"encoding/json"
	"fmt"
	"time"
)

// Component represents one ordered content block of a page version.
type Component struct {
	ID        string
	VersionID string
	Type      string // open tag set: "markdown", "html", "code", "image", ...
	Position  int
	Template  string
	Title     string
	Content   json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New returns a component with the default template applied.
func New(versionID, componentType string, position int, content json.RawMessage, now time.Time) Component {
	return Component{
		VersionID: versionID,
		Type:      componentType,
		Position:  position,
		Template:  "default",
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks structural invariants.
func (c Component) Validate() error {
	if c.VersionID == "" {
		return fmt.Errorf("component must belong to a version")
	}
	if c.Type == "" {
		return fmt.Errorf("component type cannot be empty")
	}
	if c.Position < 0 {
		return fmt.Errorf("position cannot be negative, got %d", c.Position)
	}
	if c.Template == "" {
		return fmt.Errorf("template cannot be empty")
	}
	return nil
}

// ContentEqual reports whether two opaque payloads are byte-equal after
// normalizing absent payloads to null.
func ContentEqual(a, b json.RawMessage) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return string(a) == string(b)
}

// CloneContent returns an independent copy of an opaque payload.
func CloneContent(c json.RawMessage) json.RawMessage {
	if c == nil {
		return nil
	}
	out := make(json.RawMessage, len(c))
	copy(out, c)
	return out
}
