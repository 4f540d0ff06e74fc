package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/jhiver/doxyde-sub000/domain/component"
	"github.com/jhiver/doxyde-sub000/domain/version"
	"github.com/jhiver/doxyde-sub000/pkg/errs"
	"github.com/jhiver/doxyde-sub000/ports"
)

// VersionService manages the draft/published lifecycle of page versions.
type VersionService struct {
	pages      ports.PageStore
	versions   ports.VersionStore
	components ports.ComponentStore
	tx         ports.Transactor
	clock      ports.Clock
	ids        ports.IDGenerator
	logger     zerolog.Logger
}

// NewVersionService creates a new version service.
func NewVersionService(
	pages ports.PageStore,
	versions ports.VersionStore,
	components ports.ComponentStore,
	tx ports.Transactor,
	clock ports.Clock,
	ids ports.IDGenerator,
	logger zerolog.Logger,
) *VersionService {
	return &VersionService{
		pages:      pages,
		versions:   versions,
		components: components,
		tx:         tx,
		clock:      clock,
		ids:        ids,
		logger:     logger.With().Str("service", "version").Logger(),
	}
}

// Draft is the result of GetOrCreateDraft: the draft version, its components
// in position order, and whether the draft was created by this call.
type Draft struct {
	Version    version.Version
	Components []component.Component
	IsNew      bool
}

// GetOrCreateDraft returns the page's existing draft, or creates one by
// copy-on-write from the published version. The new draft gets version number
// published+1 (or max+1 when nothing is published yet) and a deep copy of the
// published components with fresh IDs.
func (s *VersionService) GetOrCreateDraft(ctx context.Context, pageID, createdBy string) (Draft, error) {
	var draft Draft

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.pages.Get(ctx, pageID); err != nil {
			return pageErr(pageID, err)
		}

		existing, err := s.versions.GetDraft(ctx, pageID)
		if err == nil {
			components, err := s.components.ListByVersion(ctx, existing.ID)
			if err != nil {
				return err
			}
			draft = Draft{Version: existing, Components: components}
			return nil
		}
		if !errors.Is(err, ports.ErrNotFound) {
			return err
		}

		number, err := s.versions.NextNumber(ctx, pageID)
		if err != nil {
			return err
		}
		now := s.clock.Now()
		v := version.New(pageID, number, createdBy, now)
		v.ID = s.ids.New()
		if err := s.versions.Create(ctx, v); err != nil {
			return err
		}

		var copied []component.Component
		published, err := s.versions.GetPublished(ctx, pageID)
		switch {
		case err == nil:
			source, err := s.components.ListByVersion(ctx, published.ID)
			if err != nil {
				return err
			}
			for _, src := range source {
				c := src
				c.ID = s.ids.New()
				c.VersionID = v.ID
				c.Content = component.CloneContent(src.Content)
				c.CreatedAt = now
				c.UpdatedAt = now
				if err := s.components.Create(ctx, c); err != nil {
					return err
				}
				copied = append(copied, c)
			}
		case errors.Is(err, ports.ErrNotFound):
			// No published version: the draft starts empty.
		default:
			return err
		}

		draft = Draft{Version: v, Components: copied, IsNew: true}
		return nil
	})
	if err != nil {
		return Draft{}, err
	}

	if draft.IsNew {
		s.logger.Info().Str("page_id", pageID).Int("version", draft.Version.Number).Msg("draft created")
	}
	return draft, nil
}

// PublishDraft marks the page's draft as published and unmarks the previously
// published version, atomically. Superseded versions are retained as history.
func (s *VersionService) PublishDraft(ctx context.Context, pageID string) (version.Version, error) {
	var published version.Version

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.pages.Get(ctx, pageID); err != nil {
			return pageErr(pageID, err)
		}

		draft, err := s.versions.GetDraft(ctx, pageID)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				return errs.NotFound("draft version", pageID)
			}
			return err
		}

		previous, err := s.versions.GetPublished(ctx, pageID)
		switch {
		case err == nil:
			if err := s.versions.SetPublished(ctx, previous.ID, false); err != nil {
				return err
			}
		case errors.Is(err, ports.ErrNotFound):
		default:
			return err
		}

		if err := s.versions.SetPublished(ctx, draft.ID, true); err != nil {
			return err
		}
		draft.IsPublished = true
		published = draft
		return nil
	})
	if err != nil {
		return version.Version{}, err
	}

	s.logger.Info().Str("page_id", pageID).Int("version", published.Number).Msg("draft published")
	return published, nil
}

// DiscardDraft deletes the page's draft and its components. Published
// versions are never touched.
func (s *VersionService) DiscardDraft(ctx context.Context, pageID string) error {
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.pages.Get(ctx, pageID); err != nil {
			return pageErr(pageID, err)
		}
		draft, err := s.versions.GetDraft(ctx, pageID)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				return errs.NotFound("draft version", pageID)
			}
			return err
		}
		if err := s.components.DeleteByVersion(ctx, draft.ID); err != nil {
			return err
		}
		return s.versions.Delete(ctx, draft.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("page_id", pageID).Msg("draft discarded")
	return nil
}

// GetPublishedContent returns the components of the page's published version
// in position order.
func (s *VersionService) GetPublishedContent(ctx context.Context, pageID string) (version.Version, []component.Component, error) {
	if _, err := s.pages.Get(ctx, pageID); err != nil {
		return version.Version{}, nil, pageErr(pageID, err)
	}
	v, err := s.versions.GetPublished(ctx, pageID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return version.Version{}, nil, errs.NotFound("published version", pageID)
		}
		return version.Version{}, nil, err
	}
	components, err := s.components.ListByVersion(ctx, v.ID)
	if err != nil {
		return version.Version{}, nil, err
	}
	return v, components, nil
}

// GetDraftContent returns the components of the page's draft in position
// order, without creating one.
func (s *VersionService) GetDraftContent(ctx context.Context, pageID string) (version.Version, []component.Component, error) {
	if _, err := s.pages.Get(ctx, pageID); err != nil {
		return version.Version{}, nil, pageErr(pageID, err)
	}
	v, err := s.versions.GetDraft(ctx, pageID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return version.Version{}, nil, errs.NotFound("draft version", pageID)
		}
		return version.Version{}, nil, err
	}
	components, err := s.components.ListByVersion(ctx, v.ID)
	if err != nil {
		return version.Version{}, nil, err
	}
	return v, components, nil
}

// ListComponents returns the page's draft components when a draft exists,
// falling back to the published version otherwise.
func (s *VersionService) ListComponents(ctx context.Context, pageID string) (version.Version, []component.Component, error) {
	v, components, err := s.GetDraftContent(ctx, pageID)
	if err == nil {
		return v, components, nil
	}
	if !errs.IsNotFound(err) {
		return version.Version{}, nil, err
	}
	return s.GetPublishedContent(ctx, pageID)
}

// ListVersions returns all versions of a page ordered by version number.
func (s *VersionService) ListVersions(ctx context.Context, pageID string) ([]version.Version, error) {
	if _, err := s.pages.Get(ctx, pageID); err != nil {
		return nil, pageErr(pageID, err)
	}
	return s.versions.ListByPage(ctx, pageID)
}
