package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhiver/doxyde-sub000/adapters/memory"
	"github.com/jhiver/doxyde-sub000/domain/component"
	"github.com/jhiver/doxyde-sub000/domain/order"
	"github.com/jhiver/doxyde-sub000/domain/page"
	"github.com/jhiver/doxyde-sub000/domain/version"
	"github.com/jhiver/doxyde-sub000/ports"
)

func testPage(id, parentID, slug string, position int) page.Page {
	p := page.New(parentID, slug, "Title "+id, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	p.ID = id
	p.Position = position
	return p
}

func TestPageStore_CreateAndGet(t *testing.T) {
	db := memory.NewDB()
	store := memory.NewPageStore(db)
	ctx := context.Background()

	p := testPage("p1", "", "", 0)
	if err := store.Create(ctx, p); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != "p1" || got.Title != p.Title {
		t.Errorf("got %+v", got)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("missing page: err = %v, want ErrNotFound", err)
	}
}

func TestPageStore_SlugUniquePerParent(t *testing.T) {
	db := memory.NewDB()
	store := memory.NewPageStore(db)
	ctx := context.Background()

	if err := store.Create(ctx, testPage("p1", "root", "about", 0)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Create(ctx, testPage("p2", "root", "about", 1)); !errors.Is(err, ports.ErrDuplicate) {
		t.Errorf("duplicate slug: err = %v, want ErrDuplicate", err)
	}
	// Same slug under another parent is fine.
	if err := store.Create(ctx, testPage("p3", "other", "about", 0)); err != nil {
		t.Errorf("same slug different parent failed: %v", err)
	}
}

func TestPageStore_GetBySlugAndRoot(t *testing.T) {
	db := memory.NewDB()
	store := memory.NewPageStore(db)
	ctx := context.Background()

	root := testPage("root", "", "", 0)
	child := testPage("c1", "root", "about", 0)
	if err := store.Create(ctx, root); err != nil {
		t.Fatal(err)
	}
	if err := store.Create(ctx, child); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetBySlug(ctx, "root", "about")
	if err != nil || got.ID != "c1" {
		t.Errorf("GetBySlug = %v, %v", got.ID, err)
	}

	gotRoot, err := store.GetRoot(ctx)
	if err != nil || gotRoot.ID != "root" {
		t.Errorf("GetRoot = %v, %v", gotRoot.ID, err)
	}
}

func TestPageStore_ListChildrenOrdered(t *testing.T) {
	db := memory.NewDB()
	store := memory.NewPageStore(db)
	ctx := context.Background()

	// Insert out of order.
	for _, p := range []page.Page{
		testPage("c2", "root", "b", 1),
		testPage("c3", "root", "c", 2),
		testPage("c1", "root", "a", 0),
	} {
		if err := store.Create(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	children, err := store.ListChildren(ctx, "root")
	if err != nil {
		t.Fatalf("ListChildren failed: %v", err)
	}
	want := []string{"c1", "c2", "c3"}
	if len(children) != len(want) {
		t.Fatalf("children = %d, want %d", len(children), len(want))
	}
	for i, id := range want {
		if children[i].ID != id {
			t.Errorf("children[%d] = %s, want %s", i, children[i].ID, id)
		}
	}
}

func TestPageStore_UpdatePositions(t *testing.T) {
	db := memory.NewDB()
	store := memory.NewPageStore(db)
	ctx := context.Background()

	for i, id := range []string{"a", "b", "c"} {
		if err := store.Create(ctx, testPage(id, "root", id, i)); err != nil {
			t.Fatal(err)
		}
	}

	err := store.UpdatePositions(ctx, []order.Write{{ID: "a", Position: 2}, {ID: "b", Position: 0}, {ID: "c", Position: 1}})
	if err != nil {
		t.Fatalf("UpdatePositions failed: %v", err)
	}

	children, _ := store.ListChildren(ctx, "root")
	want := []string{"b", "c", "a"}
	for i, id := range want {
		if children[i].ID != id {
			t.Errorf("children[%d] = %s, want %s", i, children[i].ID, id)
		}
	}
}

func TestVersionStore_DraftIsNewestUnpublished(t *testing.T) {
	db := memory.NewDB()
	store := memory.NewVersionStore(db)
	ctx := context.Background()
	now := time.Now()

	v1 := version.New("p1", 1, "", now)
	v1.ID = "v1"
	if err := store.Create(ctx, v1); err != nil {
		t.Fatal(err)
	}

	draft, err := store.GetDraft(ctx, "p1")
	if err != nil || draft.ID != "v1" {
		t.Errorf("GetDraft = %v, %v", draft.ID, err)
	}

	// Publish v1: no draft remains.
	if err := store.SetPublished(ctx, "v1", true); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetDraft(ctx, "p1"); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("after publish: err = %v, want ErrNotFound", err)
	}

	// New draft v2, then supersede v1 with it. The retained v1 must not
	// be mistaken for a draft.
	v2 := version.New("p1", 2, "", now)
	v2.ID = "v2"
	if err := store.Create(ctx, v2); err != nil {
		t.Fatal(err)
	}
	if err := store.SetPublished(ctx, "v1", false); err != nil {
		t.Fatal(err)
	}
	if err := store.SetPublished(ctx, "v2", true); err != nil {
		t.Fatal(err)
	}

	if _, err := store.GetDraft(ctx, "p1"); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("retained version counted as draft: err = %v, want ErrNotFound", err)
	}
	published, err := store.GetPublished(ctx, "p1")
	if err != nil || published.ID != "v2" {
		t.Errorf("GetPublished = %v, %v", published.ID, err)
	}
}

func TestVersionStore_NextNumber(t *testing.T) {
	db := memory.NewDB()
	store := memory.NewVersionStore(db)
	ctx := context.Background()

	n, err := store.NextNumber(ctx, "p1")
	if err != nil || n != 1 {
		t.Errorf("NextNumber on empty = %d, %v, want 1", n, err)
	}

	v := version.New("p1", 3, "", time.Now())
	v.ID = "v3"
	if err := store.Create(ctx, v); err != nil {
		t.Fatal(err)
	}
	n, _ = store.NextNumber(ctx, "p1")
	if n != 4 {
		t.Errorf("NextNumber = %d, want 4", n)
	}
}

func TestVersionStore_UniqueConstraints(t *testing.T) {
	db := memory.NewDB()
	store := memory.NewVersionStore(db)
	ctx := context.Background()
	now := time.Now()

	v1 := version.New("p1", 1, "", now)
	v1.ID = "v1"
	v1.IsPublished = true
	if err := store.Create(ctx, v1); err != nil {
		t.Fatal(err)
	}

	dupNumber := version.New("p1", 1, "", now)
	dupNumber.ID = "vx"
	if err := store.Create(ctx, dupNumber); !errors.Is(err, ports.ErrDuplicate) {
		t.Errorf("duplicate number: err = %v, want ErrDuplicate", err)
	}

	secondPublished := version.New("p1", 2, "", now)
	secondPublished.ID = "vy"
	secondPublished.IsPublished = true
	if err := store.Create(ctx, secondPublished); !errors.Is(err, ports.ErrDuplicate) {
		t.Errorf("second published: err = %v, want ErrDuplicate", err)
	}
}

func TestComponentStore_ListByVersionOrdered(t *testing.T) {
	db := memory.NewDB()
	store := memory.NewComponentStore(db)
	ctx := context.Background()
	now := time.Now()

	positions := map[string]int{"c1": 0, "c2": 1, "c3": 2}
	for _, id := range []string{"c3", "c1", "c2"} {
		c := component.New("v1", "markdown", positions[id], nil, now)
		c.ID = id
		if err := store.Create(ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	list, err := store.ListByVersion(ctx, "v1")
	if err != nil {
		t.Fatalf("ListByVersion failed: %v", err)
	}
	want := []string{"c1", "c2", "c3"}
	for i, id := range want {
		if list[i].ID != id {
			t.Errorf("list[%d] = %s, want %s", i, list[i].ID, id)
		}
	}
}

func TestComponentStore_DeleteByVersion(t *testing.T) {
	db := memory.NewDB()
	store := memory.NewComponentStore(db)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 3; i++ {
		c := component.New("v1", "markdown", i, nil, now)
		c.ID = string(rune('a' + i))
		if err := store.Create(ctx, c); err != nil {
			t.Fatal(err)
		}
	}
	keep := component.New("v2", "markdown", 0, nil, now)
	keep.ID = "keep"
	if err := store.Create(ctx, keep); err != nil {
		t.Fatal(err)
	}

	if err := store.DeleteByVersion(ctx, "v1"); err != nil {
		t.Fatalf("DeleteByVersion failed: %v", err)
	}
	list, _ := store.ListByVersion(ctx, "v1")
	if len(list) != 0 {
		t.Errorf("v1 components remaining = %d, want 0", len(list))
	}
	if _, err := store.Get(ctx, "keep"); err != nil {
		t.Errorf("other version's component should survive: %v", err)
	}
}

func TestInTx_SerializesAndNests(t *testing.T) {
	db := memory.NewDB()
	pages := memory.NewPageStore(db)
	ctx := context.Background()

	err := db.InTx(ctx, func(ctx context.Context) error {
		if err := pages.Create(ctx, testPage("p1", "", "", 0)); err != nil {
			return err
		}
		// Nested InTx joins the outer one instead of deadlocking.
		return db.InTx(ctx, func(ctx context.Context) error {
			_, err := pages.Get(ctx, "p1")
			return err
		})
	})
	if err != nil {
		t.Fatalf("InTx failed: %v", err)
	}

	if _, err := pages.Get(ctx, "p1"); err != nil {
		t.Errorf("page should be visible after InTx: %v", err)
	}
}
