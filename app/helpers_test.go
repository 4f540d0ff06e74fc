package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhiver/doxyde-sub000/adapters/clock"
	"github.com/jhiver/doxyde-sub000/adapters/idgen"
	"github.com/jhiver/doxyde-sub000/adapters/memory"
	"github.com/jhiver/doxyde-sub000/app"
	"github.com/jhiver/doxyde-sub000/domain/page"
)

type testEnv struct {
	engine *app.Engine
	clock  *clock.Fake
	db     *memory.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := memory.NewDB()
	fake := clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	engine := app.NewEngine(
		memory.NewPageStore(db),
		memory.NewVersionStore(db),
		memory.NewComponentStore(db),
		db,
		fake,
		idgen.NewSequential("id-"),
		nil,
		zerolog.Nop(),
	)
	return &testEnv{engine: engine, clock: fake, db: db}
}

// mustCreateRoot bootstraps the tree and returns the root page.
func (e *testEnv) mustCreateRoot(t *testing.T) page.Page {
	t.Helper()
	root, err := e.engine.CreatePage(context.Background(), app.CreatePageInput{Title: "Home"})
	if err != nil {
		t.Fatalf("create root: %v", err)
	}
	return root
}

// mustCreatePage creates a child page and fails the test on error.
func (e *testEnv) mustCreatePage(t *testing.T, parentID, title string) page.Page {
	t.Helper()
	p, err := e.engine.CreatePage(context.Background(), app.CreatePageInput{
		ParentID: parentID,
		Title:    title,
	})
	if err != nil {
		t.Fatalf("create page %q: %v", title, err)
	}
	return p
}
