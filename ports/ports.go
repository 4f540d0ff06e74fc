// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"errors"
	"time"

	"github.com/jhiver/doxyde-sub000/domain/component"
	"github.com/jhiver/doxyde-sub000/domain/order"
	"github.com/jhiver/doxyde-sub000/domain/page"
	"github.com/jhiver/doxyde-sub000/domain/version"
)

// ErrNotFound is returned by stores when a row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned by stores when a unique constraint is violated.
var ErrDuplicate = errors.New("already exists")

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// Transactor runs a function inside one storage transaction. Every
// multi-step mutation (publish flips, dual reindex, cascade delete,
// copy-on-write draft creation) must execute within a single InTx call:
// the function either commits as one unit or leaves no side effects.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// -----------------------------------------------------------------------------
// Data Store Ports
// -----------------------------------------------------------------------------

// PageStore persists the page tree. ListChildren with an empty parentID
// returns root-level pages.
type PageStore interface {
	// Get retrieves a page by ID.
	Get(ctx context.Context, id string) (page.Page, error)

	// GetBySlug retrieves a page by parent and slug.
	GetBySlug(ctx context.Context, parentID, slug string) (page.Page, error)

	// GetRoot retrieves the single parentless page.
	GetRoot(ctx context.Context) (page.Page, error)

	// List returns every page in the tree.
	List(ctx context.Context) ([]page.Page, error)

	// ListChildren returns the children of a parent ordered by position.
	ListChildren(ctx context.Context, parentID string) ([]page.Page, error)

	// Count returns the total page count.
	Count(ctx context.Context) (int, error)

	// Create stores a new page.
	Create(ctx context.Context, p page.Page) error

	// Update modifies an existing page.
	Update(ctx context.Context, p page.Page) error

	// UpdatePositions applies a batch of sibling position writes.
	UpdatePositions(ctx context.Context, writes []order.Write) error

	// Delete removes a single page row.
	Delete(ctx context.Context, id string) error
}

// VersionStore persists page versions.
type VersionStore interface {
	// Get retrieves a version by ID.
	Get(ctx context.Context, id string) (version.Version, error)

	// GetDraft retrieves the draft version of a page, if any: the newest
	// version when it is unpublished. Older unpublished versions are
	// retained history, never drafts.
	GetDraft(ctx context.Context, pageID string) (version.Version, error)

	// GetPublished retrieves the published version of a page, if any.
	GetPublished(ctx context.Context, pageID string) (version.Version, error)

	// ListByPage returns all versions of a page ordered by number.
	ListByPage(ctx context.Context, pageID string) ([]version.Version, error)

	// NextNumber returns max(version number)+1 for a page, starting at 1.
	NextNumber(ctx context.Context, pageID string) (int, error)

	// Create stores a new version.
	Create(ctx context.Context, v version.Version) error

	// SetPublished flips the published flag of a version.
	SetPublished(ctx context.Context, id string, published bool) error

	// Delete removes a version row.
	Delete(ctx context.Context, id string) error

	// DeleteByPage removes all versions of a page.
	DeleteByPage(ctx context.Context, pageID string) error
}

// ComponentStore persists content components.
type ComponentStore interface {
	// Get retrieves a component by ID.
	Get(ctx context.Context, id string) (component.Component, error)

	// ListByVersion returns a version's components ordered by position.
	ListByVersion(ctx context.Context, versionID string) ([]component.Component, error)

	// Create stores a new component.
	Create(ctx context.Context, c component.Component) error

	// Update modifies an existing component.
	Update(ctx context.Context, c component.Component) error

	// UpdatePositions applies a batch of position writes.
	UpdatePositions(ctx context.Context, writes []order.Write) error

	// Delete removes a component row.
	Delete(ctx context.Context, id string) error

	// DeleteByVersion removes all components of a version.
	DeleteByVersion(ctx context.Context, versionID string) error
}
