// Package app provides application services that orchestrate domain logic.
package app

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhiver/doxyde-sub000/domain/order"
	"github.com/jhiver/doxyde-sub000/domain/page"
	"github.com/jhiver/doxyde-sub000/domain/version"
	"github.com/jhiver/doxyde-sub000/pkg/errs"
	"github.com/jhiver/doxyde-sub000/ports"
)

// TreeService manages the page tree: creation, metadata updates, moves,
// cascade deletes, slug uniqueness, and cycle prevention.
type TreeService struct {
	pages      ports.PageStore
	versions   ports.VersionStore
	components ports.ComponentStore
	tx         ports.Transactor
	clock      ports.Clock
	ids        ports.IDGenerator
	logger     zerolog.Logger
}

// NewTreeService creates a new tree service.
func NewTreeService(
	pages ports.PageStore,
	versions ports.VersionStore,
	components ports.ComponentStore,
	tx ports.Transactor,
	clock ports.Clock,
	ids ports.IDGenerator,
	logger zerolog.Logger,
) *TreeService {
	return &TreeService{
		pages:      pages,
		versions:   versions,
		components: components,
		tx:         tx,
		clock:      clock,
		ids:        ids,
		logger:     logger.With().Str("service", "tree").Logger(),
	}
}

// CreatePageInput carries the fields for a new page. Empty optional fields
// fall back to the domain defaults.
type CreatePageInput struct {
	ParentID string // empty creates the tree root (legal only once)
	Slug     string // empty derives the slug from the title
	Title    string

	Description        string
	Keywords           string
	Template           string
	MetaRobots         string
	CanonicalURL       string
	OGImageURL         string
	StructuredDataType string
	SortMode           page.SortMode

	CreatedBy string // opaque actor identity for the initial version
}

// CreatePage creates a page appended to its parent's children, together with
// an initial empty unpublished version (number 1). A parentless page is the
// tree root and can only be created into an empty tree.
func (s *TreeService) CreatePage(ctx context.Context, in CreatePageInput) (page.Page, error) {
	var created page.Page

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		now := s.clock.Now()

		if in.ParentID == "" {
			count, err := s.pages.Count(ctx)
			if err != nil {
				return err
			}
			if count > 0 {
				return errs.Conflict("page", "a root page already exists")
			}
		} else {
			if _, err := s.pages.Get(ctx, in.ParentID); err != nil {
				return pageErr(in.ParentID, err)
			}
		}

		slug := in.Slug
		if slug == "" && in.ParentID != "" {
			slug = page.SlugFromTitle(in.Title)
		}

		p := page.New(in.ParentID, slug, in.Title, now)
		p.ID = s.ids.New()
		applyPageDefaults(&p, in)

		if err := p.Validate(); err != nil {
			return errs.InvalidInput("%s", err)
		}

		if in.ParentID != "" {
			if _, err := s.pages.GetBySlug(ctx, in.ParentID, slug); err == nil {
				return errs.Conflict("page", "slug %q already exists under this parent", slug)
			} else if !errors.Is(err, ports.ErrNotFound) {
				return err
			}
		}

		siblings, err := s.pages.ListChildren(ctx, in.ParentID)
		if err != nil {
			return err
		}
		p.Position = len(siblings)

		if err := s.pages.Create(ctx, p); err != nil {
			if errors.Is(err, ports.ErrDuplicate) {
				return errs.Conflict("page", "slug %q already exists under this parent", slug)
			}
			return err
		}

		v := version.New(p.ID, 1, in.CreatedBy, now)
		v.ID = s.ids.New()
		if err := s.versions.Create(ctx, v); err != nil {
			return err
		}

		created = p
		return nil
	})
	if err != nil {
		return page.Page{}, err
	}

	s.logger.Info().Str("page_id", created.ID).Str("slug", created.Slug).Msg("page created")
	return created, nil
}

func applyPageDefaults(p *page.Page, in CreatePageInput) {
	if in.Description != "" {
		p.Description = in.Description
	}
	if in.Keywords != "" {
		p.Keywords = in.Keywords
	}
	if in.Template != "" {
		p.Template = in.Template
	}
	if in.MetaRobots != "" {
		p.MetaRobots = in.MetaRobots
	}
	if in.CanonicalURL != "" {
		p.CanonicalURL = in.CanonicalURL
	}
	if in.OGImageURL != "" {
		p.OGImageURL = in.OGImageURL
	}
	if in.StructuredDataType != "" {
		p.StructuredDataType = in.StructuredDataType
	}
	if in.SortMode != "" {
		p.SortMode = in.SortMode
	}
}

// UpdatePageInput carries a partial metadata update; nil fields are left
// untouched.
type UpdatePageInput struct {
	Slug               *string
	Title              *string
	Description        *string
	Keywords           *string
	Template           *string
	MetaRobots         *string
	CanonicalURL       *string
	OGImageURL         *string
	StructuredDataType *string
	SortMode           *page.SortMode
}

// UpdatePage applies a partial update. When no field differs from the
// current value nothing is written and the timestamp is not bumped.
func (s *TreeService) UpdatePage(ctx context.Context, id string, in UpdatePageInput) (page.Page, error) {
	var updated page.Page

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		p, err := s.pages.Get(ctx, id)
		if err != nil {
			return pageErr(id, err)
		}

		changed := false
		setStr := func(dst *string, v *string) {
			if v != nil && *v != *dst {
				*dst = *v
				changed = true
			}
		}

		slugChanged := in.Slug != nil && *in.Slug != p.Slug
		if slugChanged && p.IsRoot() {
			return errs.InvalidState("page", "cannot change the root page slug")
		}
		setStr(&p.Slug, in.Slug)
		setStr(&p.Title, in.Title)
		setStr(&p.Description, in.Description)
		setStr(&p.Keywords, in.Keywords)
		setStr(&p.Template, in.Template)
		setStr(&p.MetaRobots, in.MetaRobots)
		setStr(&p.CanonicalURL, in.CanonicalURL)
		setStr(&p.OGImageURL, in.OGImageURL)
		setStr(&p.StructuredDataType, in.StructuredDataType)
		if in.SortMode != nil && *in.SortMode != p.SortMode {
			p.SortMode = *in.SortMode
			changed = true
		}

		if !changed {
			updated = p
			return nil
		}

		if err := p.Validate(); err != nil {
			return errs.InvalidInput("%s", err)
		}

		if slugChanged {
			if other, err := s.pages.GetBySlug(ctx, p.ParentID, p.Slug); err == nil && other.ID != p.ID {
				return errs.Conflict("page", "slug %q already exists under this parent", p.Slug)
			} else if err != nil && !errors.Is(err, ports.ErrNotFound) {
				return err
			}
		}

		p.UpdatedAt = s.clock.Now()
		if err := s.pages.Update(ctx, p); err != nil {
			if errors.Is(err, ports.ErrDuplicate) {
				return errs.Conflict("page", "slug %q already exists under this parent", p.Slug)
			}
			return err
		}

		updated = p
		return nil
	})
	if err != nil {
		return page.Page{}, err
	}
	return updated, nil
}

// MovePage reparents and/or repositions a page. The target position defaults
// to the end of the destination sibling group and is clamped to its bounds.
// Both the vacated and the receiving sibling groups are reindexed inside the
// same transaction.
func (s *TreeService) MovePage(ctx context.Context, id, newParentID string, position *int) (page.Page, error) {
	var moved page.Page

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		p, err := s.pages.Get(ctx, id)
		if err != nil {
			return pageErr(id, err)
		}
		if p.IsRoot() {
			return errs.InvalidState("page", "cannot move the root page")
		}
		if newParentID == "" {
			// A root always exists in a bootstrapped tree, so a second
			// parentless page would break the single-root invariant.
			return errs.InvalidState("page", "cannot move a page to the root level: a root page already exists")
		}
		if newParentID == id {
			return errs.Conflict("page", "cannot move a page under itself")
		}
		if _, err := s.pages.Get(ctx, newParentID); err != nil {
			return pageErr(newParentID, err)
		}
		circular, err := s.isDescendant(ctx, newParentID, id)
		if err != nil {
			return err
		}
		if circular {
			return errs.Conflict("page", "circular reference: cannot move a page under its own descendant")
		}

		if newParentID == p.ParentID {
			return s.reorderWithinParent(ctx, &p, position)
		}
		return s.reparent(ctx, &p, newParentID, position)
	})
	if err != nil {
		return page.Page{}, err
	}

	moved, err = s.pages.Get(ctx, id)
	if err != nil {
		return page.Page{}, pageErr(id, err)
	}
	s.logger.Info().Str("page_id", id).Str("parent_id", moved.ParentID).Int("position", moved.Position).Msg("page moved")
	return moved, nil
}

func (s *TreeService) reorderWithinParent(ctx context.Context, p *page.Page, position *int) error {
	siblings, err := s.pages.ListChildren(ctx, p.ParentID)
	if err != nil {
		return err
	}
	target := len(siblings) - 1
	if position != nil {
		target = *position
	}
	writes, err := order.MoveTo(pageEntries(siblings), p.ID, target)
	if err != nil {
		return err
	}
	if len(writes) == 0 {
		return nil
	}

	var rest []order.Write
	for _, w := range writes {
		if w.ID == p.ID {
			p.Position = w.Position
			continue
		}
		rest = append(rest, w)
	}
	if err := s.pages.UpdatePositions(ctx, rest); err != nil {
		return err
	}
	p.UpdatedAt = s.clock.Now()
	return s.pages.Update(ctx, *p)
}

func (s *TreeService) reparent(ctx context.Context, p *page.Page, newParentID string, position *int) error {
	// Slug must stay unique inside the destination group.
	if other, err := s.pages.GetBySlug(ctx, newParentID, p.Slug); err == nil && other.ID != p.ID {
		return errs.Conflict("page", "slug %q already exists under the new parent", p.Slug)
	} else if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return err
	}

	oldSiblings, err := s.pages.ListChildren(ctx, p.ParentID)
	if err != nil {
		return err
	}
	gapWrites, err := order.Remove(pageEntries(oldSiblings), p.ID)
	if err != nil {
		return err
	}
	if err := s.pages.UpdatePositions(ctx, gapWrites); err != nil {
		return err
	}

	destSiblings, err := s.pages.ListChildren(ctx, newParentID)
	if err != nil {
		return err
	}
	target := len(destSiblings)
	if position != nil {
		target = *position
	}
	insertPos, shiftWrites := order.InsertAt(pageEntries(destSiblings), target)
	if err := s.pages.UpdatePositions(ctx, shiftWrites); err != nil {
		return err
	}

	p.ParentID = newParentID
	p.Position = insertPos
	p.UpdatedAt = s.clock.Now()
	if err := s.pages.Update(ctx, *p); err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return errs.Conflict("page", "slug %q already exists under the new parent", p.Slug)
		}
		return err
	}
	return nil
}

// isDescendant walks candidate's ancestor chain looking for ancestorID.
func (s *TreeService) isDescendant(ctx context.Context, candidateID, ancestorID string) (bool, error) {
	currentID := candidateID
	for currentID != "" {
		if currentID == ancestorID {
			return true, nil
		}
		p, err := s.pages.Get(ctx, currentID)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				return false, nil
			}
			return false, err
		}
		currentID = p.ParentID
	}
	return false, nil
}

// DeletePage removes a page and its whole descendant subtree, cascading to
// every version and component, then closes the gap in the vacated sibling
// group. It returns the number of pages removed.
func (s *TreeService) DeletePage(ctx context.Context, id string) (int, error) {
	removed := 0

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		p, err := s.pages.Get(ctx, id)
		if err != nil {
			return pageErr(id, err)
		}
		if p.IsRoot() {
			return errs.InvalidState("page", "cannot delete the root page")
		}

		// Breadth-first over parent back-references.
		doomed := []page.Page{p}
		queue := []string{p.ID}
		for len(queue) > 0 {
			currentID := queue[0]
			queue = queue[1:]
			children, err := s.pages.ListChildren(ctx, currentID)
			if err != nil {
				return err
			}
			for _, child := range children {
				doomed = append(doomed, child)
				queue = append(queue, child.ID)
			}
		}

		// Delete leaves first so parent references never dangle.
		for i := len(doomed) - 1; i >= 0; i-- {
			d := doomed[i]
			versions, err := s.versions.ListByPage(ctx, d.ID)
			if err != nil {
				return err
			}
			for _, v := range versions {
				if err := s.components.DeleteByVersion(ctx, v.ID); err != nil {
					return err
				}
			}
			if err := s.versions.DeleteByPage(ctx, d.ID); err != nil {
				return err
			}
			if err := s.pages.Delete(ctx, d.ID); err != nil {
				return err
			}
		}

		siblings, err := s.pages.ListChildren(ctx, p.ParentID)
		if err != nil {
			return err
		}
		if err := s.pages.UpdatePositions(ctx, order.Normalize(pageEntries(siblings))); err != nil {
			return err
		}

		removed = len(doomed)
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info().Str("page_id", id).Int("removed", removed).Msg("page deleted")
	return removed, nil
}

// GetPage retrieves a page by ID.
func (s *TreeService) GetPage(ctx context.Context, id string) (page.Page, error) {
	p, err := s.pages.Get(ctx, id)
	if err != nil {
		return page.Page{}, pageErr(id, err)
	}
	return p, nil
}

// GetPageByPath resolves a slash-separated slug path from the root.
// "/" (or the empty path) resolves to the root page itself.
func (s *TreeService) GetPageByPath(ctx context.Context, path string) (page.Page, error) {
	current, err := s.pages.GetRoot(ctx)
	if err != nil {
		return page.Page{}, pageErr("root", err)
	}
	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		if seg == "" {
			continue
		}
		current, err = s.pages.GetBySlug(ctx, current.ID, seg)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				return page.Page{}, errs.NotFound("page", path)
			}
			return page.Page{}, err
		}
	}
	return current, nil
}

// PageNode is one node of the page hierarchy.
type PageNode struct {
	Page     page.Page
	Children []PageNode
}

// ListPages returns the whole tree rooted at the single parentless page.
func (s *TreeService) ListPages(ctx context.Context) (PageNode, error) {
	root, err := s.pages.GetRoot(ctx)
	if err != nil {
		return PageNode{}, pageErr("root", err)
	}
	all, err := s.pages.List(ctx)
	if err != nil {
		return PageNode{}, err
	}

	byParent := make(map[string][]page.Page)
	for _, p := range all {
		if p.ParentID != "" {
			byParent[p.ParentID] = append(byParent[p.ParentID], p)
		}
	}
	for _, children := range byParent {
		sort.Slice(children, func(i, j int) bool { return children[i].Position < children[j].Position })
	}

	var build func(p page.Page) PageNode
	build = func(p page.Page) PageNode {
		node := PageNode{Page: p}
		for _, child := range byParent[p.ID] {
			node.Children = append(node.Children, build(child))
		}
		return node
	}
	return build(root), nil
}

// SearchPages returns pages whose title, slug, description or keywords
// contain the query (case-insensitive), plus pages whose published
// components match in title or content. Results are sorted by title.
func (s *TreeService) SearchPages(ctx context.Context, query string) ([]page.Page, error) {
	all, err := s.pages.List(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(query)

	var results []page.Page
	for _, p := range all {
		matched := strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(p.Slug), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) ||
			strings.Contains(strings.ToLower(p.Keywords), needle)

		if !matched {
			matched, err = s.publishedContentMatches(ctx, p.ID, needle)
			if err != nil {
				return nil, err
			}
		}
		if matched {
			results = append(results, p)
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Title < results[j].Title })
	return results, nil
}

func (s *TreeService) publishedContentMatches(ctx context.Context, pageID, needle string) (bool, error) {
	published, err := s.versions.GetPublished(ctx, pageID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	components, err := s.components.ListByVersion(ctx, published.ID)
	if err != nil {
		return false, err
	}
	for _, c := range components {
		if strings.Contains(strings.ToLower(c.Title), needle) ||
			strings.Contains(strings.ToLower(string(c.Content)), needle) {
			return true, nil
		}
	}
	return false, nil
}

func pageEntries(pages []page.Page) []order.Entry {
	entries := make([]order.Entry, len(pages))
	for i, p := range pages {
		entries[i] = order.Entry{ID: p.ID, Position: p.Position}
	}
	return entries
}

// pageErr translates store sentinels into the engine taxonomy.
func pageErr(id string, err error) error {
	if errors.Is(err, ports.ErrNotFound) {
		return errs.NotFound("page", id)
	}
	return err
}
