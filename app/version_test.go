package app_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jhiver/doxyde-sub000/app"
	"github.com/jhiver/doxyde-sub000/pkg/errs"
)

func TestGetOrCreateDraft_ReturnsInitialDraft(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	root := env.mustCreateRoot(t)
	p := env.mustCreatePage(t, root.ID, "About")

	draft, err := env.engine.GetOrCreateDraft(ctx, p.ID, "alice")
	if err != nil {
		t.Fatalf("GetOrCreateDraft failed: %v", err)
	}
	if draft.IsNew {
		t.Error("page creation already made version 1, IsNew should be false")
	}
	if draft.Version.Number != 1 {
		t.Errorf("draft number = %d, want 1", draft.Version.Number)
	}

	// Idempotent: the same draft comes back.
	again, err := env.engine.GetOrCreateDraft(ctx, p.ID, "alice")
	if err != nil {
		t.Fatalf("second GetOrCreateDraft failed: %v", err)
	}
	if again.Version.ID != draft.Version.ID {
		t.Error("repeated calls should return the same draft")
	}
}

func TestPublishThenDraft_CopyOnWrite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	root := env.mustCreateRoot(t)
	p := env.mustCreatePage(t, root.ID, "About")

	draft, err := env.engine.GetOrCreateDraft(ctx, p.ID, "alice")
	if err != nil {
		t.Fatalf("GetOrCreateDraft failed: %v", err)
	}
	c1, err := env.engine.CreateComponent(ctx, app.CreateComponentInput{
		VersionID: draft.Version.ID,
		Type:      "markdown",
		Content:   json.RawMessage(`{"text":"hello"}`),
	})
	if err != nil {
		t.Fatalf("CreateComponent failed: %v", err)
	}

	published, err := env.engine.PublishDraft(ctx, p.ID)
	if err != nil {
		t.Fatalf("PublishDraft failed: %v", err)
	}
	if !published.IsPublished || published.Number != 1 {
		t.Errorf("published = %+v, want published number 1", published)
	}

	// New draft is a deep copy of the published components.
	next, err := env.engine.GetOrCreateDraft(ctx, p.ID, "bob")
	if err != nil {
		t.Fatalf("GetOrCreateDraft after publish failed: %v", err)
	}
	if !next.IsNew {
		t.Error("draft after publish should be newly created")
	}
	if next.Version.Number != 2 {
		t.Errorf("new draft number = %d, want 2", next.Version.Number)
	}
	if len(next.Components) != 1 {
		t.Fatalf("copied components = %d, want 1", len(next.Components))
	}
	copied := next.Components[0]
	if copied.ID == c1.ID {
		t.Error("copied component must have a fresh ID")
	}
	if string(copied.Content) != `{"text":"hello"}` {
		t.Errorf("copied content = %s", copied.Content)
	}

	// Editing the copy leaves the published version untouched.
	if _, err := env.engine.UpdateComponent(ctx, copied.ID, app.UpdateComponentInput{
		Content: json.RawMessage(`{"text":"edited"}`),
	}); err != nil {
		t.Fatalf("UpdateComponent failed: %v", err)
	}
	_, pubComponents, err := env.engine.GetPublishedContent(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPublishedContent failed: %v", err)
	}
	if string(pubComponents[0].Content) != `{"text":"hello"}` {
		t.Errorf("published content changed: %s", pubComponents[0].Content)
	}
}

func TestPublishDraft_SupersedesAndRetains(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	root := env.mustCreateRoot(t)
	p := env.mustCreatePage(t, root.ID, "About")

	if _, err := env.engine.PublishDraft(ctx, p.ID); err != nil {
		t.Fatalf("first publish failed: %v", err)
	}
	if _, err := env.engine.GetOrCreateDraft(ctx, p.ID, ""); err != nil {
		t.Fatalf("draft failed: %v", err)
	}
	v2, err := env.engine.PublishDraft(ctx, p.ID)
	if err != nil {
		t.Fatalf("second publish failed: %v", err)
	}
	if v2.Number != 2 {
		t.Errorf("published number = %d, want 2", v2.Number)
	}

	// Superseded versions stay in history, exactly one is published.
	versions, err := env.engine.ListVersions(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListVersions failed: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("versions = %d, want 2 (history retained)", len(versions))
	}
	publishedCount := 0
	for _, v := range versions {
		if v.IsPublished {
			publishedCount++
			if v.Number != 2 {
				t.Errorf("published version = %d, want 2", v.Number)
			}
		}
	}
	if publishedCount != 1 {
		t.Errorf("published count = %d, want 1", publishedCount)
	}
}

func TestPublishDraft_NoDraft(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	root := env.mustCreateRoot(t)
	p := env.mustCreatePage(t, root.ID, "About")

	if _, err := env.engine.PublishDraft(ctx, p.ID); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	// The draft was just consumed.
	if _, err := env.engine.PublishDraft(ctx, p.ID); !errs.IsNotFound(err) {
		t.Errorf("publish without draft: err = %v, want not found", err)
	}
}

func TestDiscardDraft(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	root := env.mustCreateRoot(t)
	p := env.mustCreatePage(t, root.ID, "About")

	if _, err := env.engine.PublishDraft(ctx, p.ID); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	draft, err := env.engine.GetOrCreateDraft(ctx, p.ID, "")
	if err != nil {
		t.Fatalf("draft failed: %v", err)
	}
	if _, err := env.engine.CreateComponent(ctx, app.CreateComponentInput{
		VersionID: draft.Version.ID,
		Type:      "markdown",
		Content:   json.RawMessage(`{"text":"scratch"}`),
	}); err != nil {
		t.Fatalf("CreateComponent failed: %v", err)
	}

	if err := env.engine.DiscardDraft(ctx, p.ID); err != nil {
		t.Fatalf("DiscardDraft failed: %v", err)
	}

	if _, _, err := env.engine.GetDraftContent(ctx, p.ID); !errs.IsNotFound(err) {
		t.Errorf("draft should be gone, err = %v", err)
	}
	// The published version survives.
	v, _, err := env.engine.GetPublishedContent(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPublishedContent failed: %v", err)
	}
	if v.Number != 1 {
		t.Errorf("published number = %d, want 1", v.Number)
	}

	// Nothing left to discard.
	if err := env.engine.DiscardDraft(ctx, p.ID); !errs.IsNotFound(err) {
		t.Errorf("discard without draft: err = %v, want not found", err)
	}
}

func TestListComponents_DraftFallsBackToPublished(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	root := env.mustCreateRoot(t)
	p := env.mustCreatePage(t, root.ID, "About")

	draft, _ := env.engine.GetOrCreateDraft(ctx, p.ID, "")
	if _, err := env.engine.CreateComponent(ctx, app.CreateComponentInput{
		VersionID: draft.Version.ID,
		Type:      "markdown",
		Content:   json.RawMessage(`{"text":"v1"}`),
	}); err != nil {
		t.Fatalf("CreateComponent failed: %v", err)
	}
	if _, err := env.engine.PublishDraft(ctx, p.ID); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	// No draft: falls back to published.
	v, components, err := env.engine.ListComponents(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListComponents failed: %v", err)
	}
	if !v.IsPublished || len(components) != 1 {
		t.Errorf("fallback = version %+v with %d components", v, len(components))
	}

	// With a draft the draft wins.
	next, _ := env.engine.GetOrCreateDraft(ctx, p.ID, "")
	v, _, err = env.engine.ListComponents(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListComponents with draft failed: %v", err)
	}
	if v.ID != next.Version.ID {
		t.Errorf("draft should win, got version %s", v.ID)
	}
}

func TestVersionOps_MissingPage(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreateRoot(t)
	ctx := context.Background()

	if _, err := env.engine.GetOrCreateDraft(ctx, "nope", ""); !errs.IsNotFound(err) {
		t.Errorf("GetOrCreateDraft: err = %v, want not found", err)
	}
	if _, err := env.engine.PublishDraft(ctx, "nope"); !errs.IsNotFound(err) {
		t.Errorf("PublishDraft: err = %v, want not found", err)
	}
	if err := env.engine.DiscardDraft(ctx, "nope"); !errs.IsNotFound(err) {
		t.Errorf("DiscardDraft: err = %v, want not found", err)
	}
	if _, _, err := env.engine.GetPublishedContent(ctx, "nope"); !errs.IsNotFound(err) {
		t.Errorf("GetPublishedContent: err = %v, want not found", err)
	}
}

func TestGetPublishedContent_NeverPublished(t *testing.T) {
	env := newTestEnv(t)
	root := env.mustCreateRoot(t)
	p := env.mustCreatePage(t, root.ID, "About")

	if _, _, err := env.engine.GetPublishedContent(context.Background(), p.ID); !errs.IsNotFound(err) {
		t.Errorf("never published: err = %v, want not found", err)
	}
}
