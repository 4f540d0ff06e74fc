package memory

import (
	"context"
	"sort"

	"github.com/jhiver/doxyde-sub000/domain/component"
	"github.com/jhiver/doxyde-sub000/domain/order"
	"github.com/jhiver/doxyde-sub000/ports"
)

// ComponentStore is an in-memory implementation of ports.ComponentStore.
type ComponentStore struct {
	db *DB
}

// NewComponentStore creates a component store backed by db.
func NewComponentStore(db *DB) *ComponentStore {
	return &ComponentStore{db: db}
}

// Get retrieves a component by ID.
func (s *ComponentStore) Get(ctx context.Context, id string) (component.Component, error) {
	defer s.db.rlock(ctx)()

	c, ok := s.db.components[id]
	if !ok {
		return component.Component{}, ports.ErrNotFound
	}
	return c, nil
}

// ListByVersion returns a version's components ordered by position.
func (s *ComponentStore) ListByVersion(ctx context.Context, versionID string) ([]component.Component, error) {
	defer s.db.rlock(ctx)()

	var components []component.Component
	for _, c := range s.db.components {
		if c.VersionID == versionID {
			components = append(components, c)
		}
	}
	sort.Slice(components, func(i, j int) bool { return components[i].Position < components[j].Position })
	return components, nil
}

// Create stores a new component.
func (s *ComponentStore) Create(ctx context.Context, c component.Component) error {
	defer s.db.lock(ctx)()

	if _, exists := s.db.components[c.ID]; exists {
		return ports.ErrDuplicate
	}
	s.db.components[c.ID] = c
	return nil
}

// Update modifies an existing component.
func (s *ComponentStore) Update(ctx context.Context, c component.Component) error {
	defer s.db.lock(ctx)()

	if _, ok := s.db.components[c.ID]; !ok {
		return ports.ErrNotFound
	}
	s.db.components[c.ID] = c
	return nil
}

// UpdatePositions applies a batch of position writes.
func (s *ComponentStore) UpdatePositions(ctx context.Context, writes []order.Write) error {
	defer s.db.lock(ctx)()

	for _, w := range writes {
		c, ok := s.db.components[w.ID]
		if !ok {
			return ports.ErrNotFound
		}
		c.Position = w.Position
		s.db.components[w.ID] = c
	}
	return nil
}

// Delete removes a component row.
func (s *ComponentStore) Delete(ctx context.Context, id string) error {
	defer s.db.lock(ctx)()

	if _, ok := s.db.components[id]; !ok {
		return ports.ErrNotFound
	}
	delete(s.db.components, id)
	return nil
}

// DeleteByVersion removes all components of a version.
func (s *ComponentStore) DeleteByVersion(ctx context.Context, versionID string) error {
	defer s.db.lock(ctx)()

	for id, c := range s.db.components {
		if c.VersionID == versionID {
			delete(s.db.components, id)
		}
	}
	return nil
}

// Ensure interface compliance.
var _ ports.ComponentStore = (*ComponentStore)(nil)
