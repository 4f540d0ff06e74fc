package memory

import (
	"context"
	"sort"

	"github.com/jhiver/doxyde-sub000/domain/order"
	"github.com/jhiver/doxyde-sub000/domain/page"
	"github.com/jhiver/doxyde-sub000/ports"
)

// PageStore is an in-memory implementation of ports.PageStore.
type PageStore struct {
	db *DB
}

// NewPageStore creates a page store backed by db.
func NewPageStore(db *DB) *PageStore {
	return &PageStore{db: db}
}

// Get retrieves a page by ID.
func (s *PageStore) Get(ctx context.Context, id string) (page.Page, error) {
	defer s.db.rlock(ctx)()

	p, ok := s.db.pages[id]
	if !ok {
		return page.Page{}, ports.ErrNotFound
	}
	return p, nil
}

// GetBySlug retrieves a page by parent and slug.
func (s *PageStore) GetBySlug(ctx context.Context, parentID, slug string) (page.Page, error) {
	defer s.db.rlock(ctx)()

	for _, p := range s.db.pages {
		if p.ParentID == parentID && p.Slug == slug {
			return p, nil
		}
	}
	return page.Page{}, ports.ErrNotFound
}

// GetRoot retrieves the single parentless page.
func (s *PageStore) GetRoot(ctx context.Context) (page.Page, error) {
	defer s.db.rlock(ctx)()

	for _, p := range s.db.pages {
		if p.ParentID == "" {
			return p, nil
		}
	}
	return page.Page{}, ports.ErrNotFound
}

// List returns every page ordered by parent then position.
func (s *PageStore) List(ctx context.Context) ([]page.Page, error) {
	defer s.db.rlock(ctx)()

	pages := make([]page.Page, 0, len(s.db.pages))
	for _, p := range s.db.pages {
		pages = append(pages, p)
	}
	sort.Slice(pages, func(i, j int) bool {
		if pages[i].ParentID != pages[j].ParentID {
			return pages[i].ParentID < pages[j].ParentID
		}
		return pages[i].Position < pages[j].Position
	})
	return pages, nil
}

// ListChildren returns the children of a parent ordered by position.
func (s *PageStore) ListChildren(ctx context.Context, parentID string) ([]page.Page, error) {
	defer s.db.rlock(ctx)()

	var children []page.Page
	for _, p := range s.db.pages {
		if p.ParentID == parentID {
			children = append(children, p)
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i].Position < children[j].Position })
	return children, nil
}

// Count returns the total page count.
func (s *PageStore) Count(ctx context.Context) (int, error) {
	defer s.db.rlock(ctx)()
	return len(s.db.pages), nil
}

// Create stores a new page.
func (s *PageStore) Create(ctx context.Context, p page.Page) error {
	defer s.db.lock(ctx)()

	if _, exists := s.db.pages[p.ID]; exists {
		return ports.ErrDuplicate
	}
	for _, existing := range s.db.pages {
		if existing.ParentID == p.ParentID && existing.Slug == p.Slug {
			return ports.ErrDuplicate
		}
	}
	s.db.pages[p.ID] = p
	return nil
}

// Update modifies an existing page.
func (s *PageStore) Update(ctx context.Context, p page.Page) error {
	defer s.db.lock(ctx)()

	if _, ok := s.db.pages[p.ID]; !ok {
		return ports.ErrNotFound
	}
	for _, existing := range s.db.pages {
		if existing.ID != p.ID && existing.ParentID == p.ParentID && existing.Slug == p.Slug {
			return ports.ErrDuplicate
		}
	}
	s.db.pages[p.ID] = p
	return nil
}

// UpdatePositions applies a batch of sibling position writes.
func (s *PageStore) UpdatePositions(ctx context.Context, writes []order.Write) error {
	defer s.db.lock(ctx)()

	for _, w := range writes {
		p, ok := s.db.pages[w.ID]
		if !ok {
			return ports.ErrNotFound
		}
		p.Position = w.Position
		s.db.pages[w.ID] = p
	}
	return nil
}

// Delete removes a single page row.
func (s *PageStore) Delete(ctx context.Context, id string) error {
	defer s.db.lock(ctx)()

	if _, ok := s.db.pages[id]; !ok {
		return ports.ErrNotFound
	}
	delete(s.db.pages, id)
	return nil
}

// Ensure interface compliance.
var _ ports.PageStore = (*PageStore)(nil)
