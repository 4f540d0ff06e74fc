package app

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/jhiver/doxyde-sub000/adapters/metrics"
	"github.com/jhiver/doxyde-sub000/domain/component"
	"github.com/jhiver/doxyde-sub000/domain/page"
	"github.com/jhiver/doxyde-sub000/domain/version"
	"github.com/jhiver/doxyde-sub000/pkg/errs"
	"github.com/jhiver/doxyde-sub000/ports"
)

// Engine is the single entry point for content versioning: page tree
// management, the draft/published lifecycle, and component editing. All
// mutations run inside store transactions.
type Engine struct {
	tree       *TreeService
	versions   *VersionService
	components *ComponentService

	pages     ports.PageStore
	collector *metrics.Collector
	logger    zerolog.Logger
}

// NewEngine wires the engine from its stores and environment. collector may
// be nil when metrics are disabled.
func NewEngine(
	pages ports.PageStore,
	versions ports.VersionStore,
	components ports.ComponentStore,
	tx ports.Transactor,
	clock ports.Clock,
	ids ports.IDGenerator,
	collector *metrics.Collector,
	logger zerolog.Logger,
) *Engine {
	return &Engine{
		tree:       NewTreeService(pages, versions, components, tx, clock, ids, logger),
		versions:   NewVersionService(pages, versions, components, tx, clock, ids, logger),
		components: NewComponentService(versions, components, tx, clock, ids, logger),
		pages:      pages,
		collector:  collector,
		logger:     logger.With().Str("component", "engine").Logger(),
	}
}

// instrument records one operation outcome. Failed operations are labelled
// with their error kind.
func (e *Engine) instrument(op string, err error) {
	if e.collector == nil {
		return
	}
	e.collector.OperationsTotal.WithLabelValues(op).Inc()
	if err != nil {
		e.collector.OperationErrors.WithLabelValues(op, string(errs.KindOf(err))).Inc()
	}
}

func (e *Engine) trackPages(ctx context.Context) {
	if e.collector == nil {
		return
	}
	if n, err := e.pages.Count(ctx); err == nil {
		e.collector.PagesTotal.Set(float64(n))
	}
}

// CreatePage creates a page with an initial unpublished version.
func (e *Engine) CreatePage(ctx context.Context, in CreatePageInput) (page.Page, error) {
	p, err := e.tree.CreatePage(ctx, in)
	e.instrument("create_page", err)
	if err == nil {
		e.trackPages(ctx)
	}
	return p, err
}

// UpdatePage applies a partial metadata update to a page.
func (e *Engine) UpdatePage(ctx context.Context, id string, in UpdatePageInput) (page.Page, error) {
	p, err := e.tree.UpdatePage(ctx, id, in)
	e.instrument("update_page", err)
	return p, err
}

// MovePage reparents and/or repositions a page.
func (e *Engine) MovePage(ctx context.Context, id, newParentID string, position *int) (page.Page, error) {
	p, err := e.tree.MovePage(ctx, id, newParentID, position)
	e.instrument("move_page", err)
	return p, err
}

// DeletePage removes a page and its subtree, returning the page count removed.
func (e *Engine) DeletePage(ctx context.Context, id string) (int, error) {
	n, err := e.tree.DeletePage(ctx, id)
	e.instrument("delete_page", err)
	if err == nil {
		e.trackPages(ctx)
	}
	return n, err
}

// GetPage retrieves a page by ID.
func (e *Engine) GetPage(ctx context.Context, id string) (page.Page, error) {
	p, err := e.tree.GetPage(ctx, id)
	e.instrument("get_page", err)
	return p, err
}

// GetPageByPath resolves a slash-separated slug path from the root.
func (e *Engine) GetPageByPath(ctx context.Context, path string) (page.Page, error) {
	p, err := e.tree.GetPageByPath(ctx, path)
	e.instrument("get_page_by_path", err)
	return p, err
}

// ListPages returns the full page hierarchy.
func (e *Engine) ListPages(ctx context.Context) (PageNode, error) {
	node, err := e.tree.ListPages(ctx)
	e.instrument("list_pages", err)
	return node, err
}

// SearchPages returns pages matching the query in metadata or published content.
func (e *Engine) SearchPages(ctx context.Context, query string) ([]page.Page, error) {
	results, err := e.tree.SearchPages(ctx, query)
	e.instrument("search_pages", err)
	return results, err
}

// GetOrCreateDraft returns the page's draft, creating one by copy-on-write
// from the published version when needed.
func (e *Engine) GetOrCreateDraft(ctx context.Context, pageID, createdBy string) (Draft, error) {
	d, err := e.versions.GetOrCreateDraft(ctx, pageID, createdBy)
	e.instrument("get_or_create_draft", err)
	return d, err
}

// PublishDraft promotes the page's draft to the published version.
func (e *Engine) PublishDraft(ctx context.Context, pageID string) (version.Version, error) {
	v, err := e.versions.PublishDraft(ctx, pageID)
	e.instrument("publish_draft", err)
	return v, err
}

// DiscardDraft deletes the page's draft and its components.
func (e *Engine) DiscardDraft(ctx context.Context, pageID string) error {
	err := e.versions.DiscardDraft(ctx, pageID)
	e.instrument("discard_draft", err)
	return err
}

// GetPublishedContent returns the published version and its components.
func (e *Engine) GetPublishedContent(ctx context.Context, pageID string) (version.Version, []component.Component, error) {
	v, cs, err := e.versions.GetPublishedContent(ctx, pageID)
	e.instrument("get_published_content", err)
	return v, cs, err
}

// GetDraftContent returns the draft version and its components without
// creating a draft.
func (e *Engine) GetDraftContent(ctx context.Context, pageID string) (version.Version, []component.Component, error) {
	v, cs, err := e.versions.GetDraftContent(ctx, pageID)
	e.instrument("get_draft_content", err)
	return v, cs, err
}

// ListComponents returns the page's draft components, falling back to the
// published version when no draft exists.
func (e *Engine) ListComponents(ctx context.Context, pageID string) (version.Version, []component.Component, error) {
	v, cs, err := e.versions.ListComponents(ctx, pageID)
	e.instrument("list_components", err)
	return v, cs, err
}

// ListVersions returns all versions of a page.
func (e *Engine) ListVersions(ctx context.Context, pageID string) ([]version.Version, error) {
	vs, err := e.versions.ListVersions(ctx, pageID)
	e.instrument("list_versions", err)
	return vs, err
}

// CreateComponent adds a component to an unpublished version.
func (e *Engine) CreateComponent(ctx context.Context, in CreateComponentInput) (component.Component, error) {
	c, err := e.components.Create(ctx, in)
	e.instrument("create_component", err)
	return c, err
}

// UpdateComponent applies a partial update to a draft component.
func (e *Engine) UpdateComponent(ctx context.Context, id string, in UpdateComponentInput) (component.Component, error) {
	c, err := e.components.Update(ctx, id, in)
	e.instrument("update_component", err)
	return c, err
}

// DeleteComponent removes a draft component and closes the position gap.
func (e *Engine) DeleteComponent(ctx context.Context, id string) error {
	err := e.components.Delete(ctx, id)
	e.instrument("delete_component", err)
	return err
}

// MoveComponentAfter places a component immediately after another.
func (e *Engine) MoveComponentAfter(ctx context.Context, id, targetID string) error {
	err := e.components.MoveAfter(ctx, id, targetID)
	e.instrument("move_component_after", err)
	return err
}

// MoveComponentBefore places a component immediately before another.
func (e *Engine) MoveComponentBefore(ctx context.Context, id, targetID string) error {
	err := e.components.MoveBefore(ctx, id, targetID)
	e.instrument("move_component_before", err)
	return err
}

// ListVersionComponents returns a specific version's components in position order.
func (e *Engine) ListVersionComponents(ctx context.Context, versionID string) ([]component.Component, error) {
	cs, err := e.components.List(ctx, versionID)
	e.instrument("list_version_components", err)
	return cs, err
}

// GetComponent retrieves a component by ID.
func (e *Engine) GetComponent(ctx context.Context, id string) (component.Component, error) {
	c, err := e.components.Get(ctx, id)
	e.instrument("get_component", err)
	return c, err
}

// SetContent replaces a component's content, a convenience wrapper over
// UpdateComponent for callers that only edit the payload.
func (e *Engine) SetContent(ctx context.Context, id string, content json.RawMessage) (component.Component, error) {
	return e.UpdateComponent(ctx, id, UpdateComponentInput{Content: content})
}
