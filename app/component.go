package app

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"github.com/jhiver/doxyde-sub000/domain/component"
	"github.com/jhiver/doxyde-sub000/domain/order"
	"github.com/jhiver/doxyde-sub000/domain/version"
	"github.com/jhiver/doxyde-sub000/pkg/errs"
	"github.com/jhiver/doxyde-sub000/ports"
)

// ComponentService manages the ordered components of unpublished versions.
type ComponentService struct {
	versions   ports.VersionStore
	components ports.ComponentStore
	tx         ports.Transactor
	clock      ports.Clock
	ids        ports.IDGenerator
	logger     zerolog.Logger
}

// NewComponentService creates a new component service.
func NewComponentService(
	versions ports.VersionStore,
	components ports.ComponentStore,
	tx ports.Transactor,
	clock ports.Clock,
	ids ports.IDGenerator,
	logger zerolog.Logger,
) *ComponentService {
	return &ComponentService{
		versions:   versions,
		components: components,
		tx:         tx,
		clock:      clock,
		ids:        ids,
		logger:     logger.With().Str("service", "component").Logger(),
	}
}

// CreateComponentInput carries the fields for a new component. A nil
// Position appends to the end; out-of-range positions are clamped.
type CreateComponentInput struct {
	VersionID string
	Type      string
	Content   json.RawMessage
	Position  *int
	Template  string
	Title     string
}

// Create adds a component to an unpublished version, shifting later siblings
// to keep positions contiguous.
func (s *ComponentService) Create(ctx context.Context, in CreateComponentInput) (component.Component, error) {
	var created component.Component

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		v, err := s.mutableVersion(ctx, in.VersionID)
		if err != nil {
			return err
		}

		siblings, err := s.components.ListByVersion(ctx, v.ID)
		if err != nil {
			return err
		}
		target := len(siblings)
		if in.Position != nil {
			target = *in.Position
		}
		insertPos, writes := order.InsertAt(componentEntries(siblings), target)

		now := s.clock.Now()
		c := component.New(v.ID, in.Type, insertPos, in.Content, now)
		c.ID = s.ids.New()
		if in.Template != "" {
			c.Template = in.Template
		}
		c.Title = in.Title
		if err := c.Validate(); err != nil {
			return errs.InvalidInput("%s", err)
		}

		if err := s.components.UpdatePositions(ctx, writes); err != nil {
			return err
		}
		if err := s.components.Create(ctx, c); err != nil {
			return err
		}
		created = c
		return nil
	})
	if err != nil {
		return component.Component{}, err
	}

	s.logger.Debug().Str("component_id", created.ID).Str("type", created.Type).Msg("component created")
	return created, nil
}

// UpdateComponentInput carries a partial component update; nil fields are
// left untouched. Position is not updatable here, use the move operations.
type UpdateComponentInput struct {
	Type     *string
	Content  json.RawMessage
	Template *string
	Title    *string
}

// Update applies a partial update to a component of an unpublished version.
// When nothing changes, no write happens and the timestamp is not bumped.
func (s *ComponentService) Update(ctx context.Context, id string, in UpdateComponentInput) (component.Component, error) {
	var updated component.Component

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		c, err := s.components.Get(ctx, id)
		if err != nil {
			return componentErr(id, err)
		}
		if _, err := s.mutableVersion(ctx, c.VersionID); err != nil {
			return err
		}

		changed := false
		if in.Type != nil && *in.Type != c.Type {
			c.Type = *in.Type
			changed = true
		}
		if in.Content != nil && !component.ContentEqual(c.Content, in.Content) {
			c.Content = component.CloneContent(in.Content)
			changed = true
		}
		if in.Template != nil && *in.Template != c.Template {
			c.Template = *in.Template
			changed = true
		}
		if in.Title != nil && *in.Title != c.Title {
			c.Title = *in.Title
			changed = true
		}

		if !changed {
			updated = c
			return nil
		}
		if err := c.Validate(); err != nil {
			return errs.InvalidInput("%s", err)
		}

		c.UpdatedAt = s.clock.Now()
		if err := s.components.Update(ctx, c); err != nil {
			return componentErr(id, err)
		}
		updated = c
		return nil
	})
	if err != nil {
		return component.Component{}, err
	}
	return updated, nil
}

// Delete removes a component from an unpublished version and closes the
// position gap it leaves behind.
func (s *ComponentService) Delete(ctx context.Context, id string) error {
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		c, err := s.components.Get(ctx, id)
		if err != nil {
			return componentErr(id, err)
		}
		v, err := s.mutableVersion(ctx, c.VersionID)
		if err != nil {
			return err
		}

		siblings, err := s.components.ListByVersion(ctx, v.ID)
		if err != nil {
			return err
		}
		writes, err := order.Remove(componentEntries(siblings), id)
		if err != nil {
			return err
		}
		if err := s.components.Delete(ctx, id); err != nil {
			return componentErr(id, err)
		}
		return s.components.UpdatePositions(ctx, writes)
	})
	if err != nil {
		return err
	}

	s.logger.Debug().Str("component_id", id).Msg("component deleted")
	return nil
}

// MoveAfter places component id immediately after target within their shared
// version. Moving a component after its current predecessor is a no-op.
func (s *ComponentService) MoveAfter(ctx context.Context, id, targetID string) error {
	return s.move(ctx, id, targetID, true)
}

// MoveBefore places component id immediately before target within their
// shared version. Moving a component before its current successor is a no-op.
func (s *ComponentService) MoveBefore(ctx context.Context, id, targetID string) error {
	return s.move(ctx, id, targetID, false)
}

func (s *ComponentService) move(ctx context.Context, id, targetID string, after bool) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		c, err := s.components.Get(ctx, id)
		if err != nil {
			return componentErr(id, err)
		}
		target, err := s.components.Get(ctx, targetID)
		if err != nil {
			return componentErr(targetID, err)
		}
		if c.VersionID != target.VersionID {
			return errs.InvalidInput("components belong to different versions")
		}
		if id == targetID {
			return errs.InvalidInput("cannot move a component relative to itself")
		}
		if _, err := s.mutableVersion(ctx, c.VersionID); err != nil {
			return err
		}

		siblings, err := s.components.ListByVersion(ctx, c.VersionID)
		if err != nil {
			return err
		}
		var writes []order.Write
		if after {
			writes, err = order.PlaceAfter(componentEntries(siblings), id, targetID)
		} else {
			writes, err = order.PlaceBefore(componentEntries(siblings), id, targetID)
		}
		if err != nil {
			return errs.InvalidInput("%s", err)
		}
		return s.components.UpdatePositions(ctx, writes)
	})
}

// Get retrieves a component by ID.
func (s *ComponentService) Get(ctx context.Context, id string) (component.Component, error) {
	c, err := s.components.Get(ctx, id)
	if err != nil {
		return component.Component{}, componentErr(id, err)
	}
	return c, nil
}

// List returns a version's components in position order.
func (s *ComponentService) List(ctx context.Context, versionID string) ([]component.Component, error) {
	if _, err := s.versions.Get(ctx, versionID); err != nil {
		return nil, versionErr(versionID, err)
	}
	return s.components.ListByVersion(ctx, versionID)
}

// mutableVersion loads a version and rejects mutation of published content.
func (s *ComponentService) mutableVersion(ctx context.Context, versionID string) (version.Version, error) {
	v, err := s.versions.Get(ctx, versionID)
	if err != nil {
		return version.Version{}, versionErr(versionID, err)
	}
	if v.IsPublished {
		return version.Version{}, errs.InvalidState("version", "published content is immutable")
	}
	return v, nil
}

func componentEntries(components []component.Component) []order.Entry {
	entries := make([]order.Entry, len(components))
	for i, c := range components {
		entries[i] = order.Entry{ID: c.ID, Position: c.Position}
	}
	return entries
}

func componentErr(id string, err error) error {
	if errors.Is(err, ports.ErrNotFound) {
		return errs.NotFound("component", id)
	}
	return err
}

func versionErr(id string, err error) error {
	if errors.Is(err, ports.ErrNotFound) {
		return errs.NotFound("version", id)
	}
	return err
}
