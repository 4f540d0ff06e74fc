// Package version provides the page version value type.
// A version is a snapshot container: unpublished while being edited (the
// draft), immutable once published. A page has at most one draft and at most
// one published version at any time.
package version

import (
	"fmt"
	"time"
)

// Version represents one snapshot of a page's content.
type Version struct {
	ID          string
	PageID      string
	Number      int // positive, unique and monotonically increasing per page
	IsPublished bool
	CreatedBy   string // opaque actor identity, may be empty
	CreatedAt   time.Time
}

// New returns an unpublished version for a page.
func New(pageID string, number int, createdBy string, now time.Time) Version {
	return Version{
		PageID:    pageID,
		Number:    number,
		CreatedBy: createdBy,
		CreatedAt: now,
	}
}

// Validate checks structural invariants.
func (v Version) Validate() error {
	if v.PageID == "" {
		return fmt.Errorf("version must belong to a page")
	}
	if v.Number < 1 {
		return fmt.Errorf("version number must be positive, got %d", v.Number)
	}
	return nil
}
