package memory

import (
	"context"
	"sort"

	"github.com/jhiver/doxyde-sub000/domain/version"
	"github.com/jhiver/doxyde-sub000/ports"
)

// VersionStore is an in-memory implementation of ports.VersionStore.
type VersionStore struct {
	db *DB
}

// NewVersionStore creates a version store backed by db.
func NewVersionStore(db *DB) *VersionStore {
	return &VersionStore{db: db}
}

// Get retrieves a version by ID.
func (s *VersionStore) Get(ctx context.Context, id string) (version.Version, error) {
	defer s.db.rlock(ctx)()

	v, ok := s.db.versions[id]
	if !ok {
		return version.Version{}, ports.ErrNotFound
	}
	return v, nil
}

// GetDraft retrieves the draft version of a page, if any. The draft is the
// newest version when it is unpublished; older unpublished rows are retained
// history, not drafts.
func (s *VersionStore) GetDraft(ctx context.Context, pageID string) (version.Version, error) {
	defer s.db.rlock(ctx)()

	var newest version.Version
	found := false
	for _, v := range s.db.versions {
		if v.PageID == pageID && (!found || v.Number > newest.Number) {
			newest = v
			found = true
		}
	}
	if !found || newest.IsPublished {
		return version.Version{}, ports.ErrNotFound
	}
	return newest, nil
}

// GetPublished retrieves the published version of a page, if any.
func (s *VersionStore) GetPublished(ctx context.Context, pageID string) (version.Version, error) {
	defer s.db.rlock(ctx)()

	for _, v := range s.db.versions {
		if v.PageID == pageID && v.IsPublished {
			return v, nil
		}
	}
	return version.Version{}, ports.ErrNotFound
}

// ListByPage returns all versions of a page ordered by number.
func (s *VersionStore) ListByPage(ctx context.Context, pageID string) ([]version.Version, error) {
	defer s.db.rlock(ctx)()

	var versions []version.Version
	for _, v := range s.db.versions {
		if v.PageID == pageID {
			versions = append(versions, v)
		}
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i].Number < versions[j].Number })
	return versions, nil
}

// NextNumber returns max(version number)+1 for a page, starting at 1.
func (s *VersionStore) NextNumber(ctx context.Context, pageID string) (int, error) {
	defer s.db.rlock(ctx)()

	max := 0
	for _, v := range s.db.versions {
		if v.PageID == pageID && v.Number > max {
			max = v.Number
		}
	}
	return max + 1, nil
}

// Create stores a new version.
func (s *VersionStore) Create(ctx context.Context, v version.Version) error {
	defer s.db.lock(ctx)()

	if _, exists := s.db.versions[v.ID]; exists {
		return ports.ErrDuplicate
	}
	for _, existing := range s.db.versions {
		if existing.PageID != v.PageID {
			continue
		}
		if existing.Number == v.Number {
			return ports.ErrDuplicate
		}
		if existing.IsPublished && v.IsPublished {
			return ports.ErrDuplicate
		}
	}
	s.db.versions[v.ID] = v
	return nil
}

// SetPublished flips the published flag of a version.
func (s *VersionStore) SetPublished(ctx context.Context, id string, published bool) error {
	defer s.db.lock(ctx)()

	v, ok := s.db.versions[id]
	if !ok {
		return ports.ErrNotFound
	}
	v.IsPublished = published
	s.db.versions[id] = v
	return nil
}

// Delete removes a version row.
func (s *VersionStore) Delete(ctx context.Context, id string) error {
	defer s.db.lock(ctx)()

	if _, ok := s.db.versions[id]; !ok {
		return ports.ErrNotFound
	}
	delete(s.db.versions, id)
	return nil
}

// DeleteByPage removes all versions of a page.
func (s *VersionStore) DeleteByPage(ctx context.Context, pageID string) error {
	defer s.db.lock(ctx)()

	for id, v := range s.db.versions {
		if v.PageID == pageID {
			delete(s.db.versions, id)
		}
	}
	return nil
}

// Ensure interface compliance.
var _ ports.VersionStore = (*VersionStore)(nil)
