package component_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jhiver/doxyde-sub000/domain/component"
)

func TestNew_Defaults(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := component.New("v1", "markdown", 2, json.RawMessage(`{"text":"hi"}`), now)

	if c.Template != "default" {
		t.Errorf("Template = %q, want default", c.Template)
	}
	if c.Position != 2 {
		t.Errorf("Position = %d, want 2", c.Position)
	}
	if !c.CreatedAt.Equal(now) || !c.UpdatedAt.Equal(now) {
		t.Error("timestamps should be set to now")
	}
}

func TestValidate(t *testing.T) {
	base := component.New("v1", "markdown", 0, nil, time.Now())

	if err := base.Validate(); err != nil {
		t.Errorf("valid component failed: %v", err)
	}

	c := base
	c.VersionID = ""
	if err := c.Validate(); err == nil {
		t.Error("missing version should fail")
	}

	c = base
	c.Type = ""
	if err := c.Validate(); err == nil {
		t.Error("empty type should fail")
	}

	c = base
	c.Position = -1
	if err := c.Validate(); err == nil {
		t.Error("negative position should fail")
	}

	c = base
	c.Template = ""
	if err := c.Validate(); err == nil {
		t.Error("empty template should fail")
	}
}

func TestContentEqual(t *testing.T) {
	a := json.RawMessage(`{"text":"hello"}`)
	b := json.RawMessage(`{"text":"hello"}`)
	c := json.RawMessage(`{"text":"other"}`)

	if !component.ContentEqual(a, b) {
		t.Error("identical payloads should be equal")
	}
	if component.ContentEqual(a, c) {
		t.Error("different payloads should not be equal")
	}
	if !component.ContentEqual(nil, nil) {
		t.Error("two absent payloads should be equal")
	}
	if component.ContentEqual(nil, a) {
		t.Error("absent and present payloads should not be equal")
	}
}

func TestCloneContent(t *testing.T) {
	src := json.RawMessage(`{"n":1}`)
	dst := component.CloneContent(src)

	if string(dst) != string(src) {
		t.Fatalf("clone = %s, want %s", dst, src)
	}
	src[1] = 'x'
	if string(dst) == string(src) {
		t.Error("clone should not share backing array with source")
	}

	if component.CloneContent(nil) != nil {
		t.Error("cloning nil should stay nil")
	}
}
