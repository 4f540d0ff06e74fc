package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jhiver/doxyde-sub000/domain/order"
	"github.com/jhiver/doxyde-sub000/domain/page"
	"github.com/jhiver/doxyde-sub000/ports"
)

const pageColumns = `id, parent_id, slug, title, description, keywords, template,
	meta_robots, canonical_url, og_image_url, structured_data_type,
	position, sort_mode, created_at, updated_at`

// PageStore implements ports.PageStore using SQLite.
type PageStore struct {
	db *DB
}

// NewPageStore creates a new SQLite page store.
func NewPageStore(db *DB) *PageStore {
	return &PageStore{db: db}
}

// Get retrieves a page by ID.
func (s *PageStore) Get(ctx context.Context, id string) (page.Page, error) {
	row := s.db.q(ctx).QueryRowContext(ctx, `
		SELECT `+pageColumns+`
		FROM pages
		WHERE id = ?
	`, id)
	return scanPage(row)
}

// GetBySlug retrieves a page by parent and slug. An empty parentID matches
// root-level pages.
func (s *PageStore) GetBySlug(ctx context.Context, parentID, slug string) (page.Page, error) {
	row := s.db.q(ctx).QueryRowContext(ctx, `
		SELECT `+pageColumns+`
		FROM pages
		WHERE parent_id IS ? AND slug = ?
	`, nullString(parentID), slug)
	return scanPage(row)
}

// GetRoot retrieves the single parentless page.
func (s *PageStore) GetRoot(ctx context.Context) (page.Page, error) {
	row := s.db.q(ctx).QueryRowContext(ctx, `
		SELECT `+pageColumns+`
		FROM pages
		WHERE parent_id IS NULL
	`)
	return scanPage(row)
}

// List returns every page ordered by parent then position.
func (s *PageStore) List(ctx context.Context) ([]page.Page, error) {
	rows, err := s.db.q(ctx).QueryContext(ctx, `
		SELECT `+pageColumns+`
		FROM pages
		ORDER BY parent_id, position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPages(rows)
}

// ListChildren returns the children of a parent ordered by position.
func (s *PageStore) ListChildren(ctx context.Context, parentID string) ([]page.Page, error) {
	rows, err := s.db.q(ctx).QueryContext(ctx, `
		SELECT `+pageColumns+`
		FROM pages
		WHERE parent_id IS ?
		ORDER BY position
	`, nullString(parentID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPages(rows)
}

// Count returns the total page count.
func (s *PageStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.q(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM pages`).Scan(&n)
	return n, err
}

// Create stores a new page.
func (s *PageStore) Create(ctx context.Context, p page.Page) error {
	_, err := s.db.q(ctx).ExecContext(ctx, `
		INSERT INTO pages (
			id, parent_id, slug, title, description, keywords, template,
			meta_robots, canonical_url, og_image_url, structured_data_type,
			position, sort_mode, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID, nullString(p.ParentID), p.Slug, p.Title, p.Description, p.Keywords, p.Template,
		p.MetaRobots, p.CanonicalURL, p.OGImageURL, p.StructuredDataType,
		p.Position, string(p.SortMode), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil && isUniqueConstraintError(err) {
		return ports.ErrDuplicate
	}
	return err
}

// Update modifies an existing page.
func (s *PageStore) Update(ctx context.Context, p page.Page) error {
	result, err := s.db.q(ctx).ExecContext(ctx, `
		UPDATE pages
		SET parent_id = ?, slug = ?, title = ?, description = ?, keywords = ?,
		    template = ?, meta_robots = ?, canonical_url = ?, og_image_url = ?,
		    structured_data_type = ?, position = ?, sort_mode = ?, updated_at = ?
		WHERE id = ?
	`,
		nullString(p.ParentID), p.Slug, p.Title, p.Description, p.Keywords,
		p.Template, p.MetaRobots, p.CanonicalURL, p.OGImageURL,
		p.StructuredDataType, p.Position, string(p.SortMode), p.UpdatedAt, p.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ports.ErrDuplicate
		}
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// UpdatePositions applies a batch of sibling position writes.
func (s *PageStore) UpdatePositions(ctx context.Context, writes []order.Write) error {
	q := s.db.q(ctx)
	for _, w := range writes {
		if _, err := q.ExecContext(ctx, `UPDATE pages SET position = ? WHERE id = ?`, w.Position, w.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a single page row.
func (s *PageStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.q(ctx).ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func scanPage(row *sql.Row) (page.Page, error) {
	var p page.Page
	var parentID sql.NullString
	var sortMode string

	err := row.Scan(
		&p.ID, &parentID, &p.Slug, &p.Title, &p.Description, &p.Keywords, &p.Template,
		&p.MetaRobots, &p.CanonicalURL, &p.OGImageURL, &p.StructuredDataType,
		&p.Position, &sortMode, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return page.Page{}, ports.ErrNotFound
	}
	if err != nil {
		return page.Page{}, err
	}
	if parentID.Valid {
		p.ParentID = parentID.String
	}
	p.SortMode = page.SortMode(sortMode)
	return p, nil
}

func collectPages(rows *sql.Rows) ([]page.Page, error) {
	var pages []page.Page
	for rows.Next() {
		var p page.Page
		var parentID sql.NullString
		var sortMode string
		err := rows.Scan(
			&p.ID, &parentID, &p.Slug, &p.Title, &p.Description, &p.Keywords, &p.Template,
			&p.MetaRobots, &p.CanonicalURL, &p.OGImageURL, &p.StructuredDataType,
			&p.Position, &sortMode, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if parentID.Valid {
			p.ParentID = parentID.String
		}
		p.SortMode = page.SortMode(sortMode)
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// Ensure interface compliance.
var _ ports.PageStore = (*PageStore)(nil)
