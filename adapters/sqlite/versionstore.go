package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jhiver/doxyde-sub000/domain/version"
	"github.com/jhiver/doxyde-sub000/ports"
)

const versionColumns = `id, page_id, version_number, is_published, created_by, created_at`

// VersionStore implements ports.VersionStore using SQLite.
type VersionStore struct {
	db *DB
}

// NewVersionStore creates a new SQLite version store.
func NewVersionStore(db *DB) *VersionStore {
	return &VersionStore{db: db}
}

// Get retrieves a version by ID.
func (s *VersionStore) Get(ctx context.Context, id string) (version.Version, error) {
	row := s.db.q(ctx).QueryRowContext(ctx, `
		SELECT `+versionColumns+`
		FROM page_versions
		WHERE id = ?
	`, id)
	return scanVersion(row)
}

// GetDraft retrieves the draft version of a page, if any. The draft is the
// newest version when it is unpublished; older unpublished rows are retained
// history, not drafts.
func (s *VersionStore) GetDraft(ctx context.Context, pageID string) (version.Version, error) {
	row := s.db.q(ctx).QueryRowContext(ctx, `
		SELECT `+versionColumns+`
		FROM page_versions
		WHERE page_id = ? AND is_published = 0
		  AND version_number = (SELECT MAX(version_number) FROM page_versions WHERE page_id = ?)
	`, pageID, pageID)
	return scanVersion(row)
}

// GetPublished retrieves the published version of a page, if any.
func (s *VersionStore) GetPublished(ctx context.Context, pageID string) (version.Version, error) {
	row := s.db.q(ctx).QueryRowContext(ctx, `
		SELECT `+versionColumns+`
		FROM page_versions
		WHERE page_id = ? AND is_published = 1
	`, pageID)
	return scanVersion(row)
}

// ListByPage returns all versions of a page ordered by number.
func (s *VersionStore) ListByPage(ctx context.Context, pageID string) ([]version.Version, error) {
	rows, err := s.db.q(ctx).QueryContext(ctx, `
		SELECT `+versionColumns+`
		FROM page_versions
		WHERE page_id = ?
		ORDER BY version_number
	`, pageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []version.Version
	for rows.Next() {
		var v version.Version
		var published int
		var createdBy sql.NullString
		if err := rows.Scan(&v.ID, &v.PageID, &v.Number, &published, &createdBy, &v.CreatedAt); err != nil {
			return nil, err
		}
		v.IsPublished = published == 1
		if createdBy.Valid {
			v.CreatedBy = createdBy.String
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// NextNumber returns max(version number)+1 for a page, starting at 1.
func (s *VersionStore) NextNumber(ctx context.Context, pageID string) (int, error) {
	var max sql.NullInt64
	err := s.db.q(ctx).QueryRowContext(ctx, `
		SELECT MAX(version_number) FROM page_versions WHERE page_id = ?
	`, pageID).Scan(&max)
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return 1, nil
	}
	return int(max.Int64) + 1, nil
}

// Create stores a new version.
func (s *VersionStore) Create(ctx context.Context, v version.Version) error {
	_, err := s.db.q(ctx).ExecContext(ctx, `
		INSERT INTO page_versions (id, page_id, version_number, is_published, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, v.ID, v.PageID, v.Number, boolToInt(v.IsPublished), v.CreatedBy, v.CreatedAt)
	if err != nil && isUniqueConstraintError(err) {
		return ports.ErrDuplicate
	}
	return err
}

// SetPublished flips the published flag of a version.
func (s *VersionStore) SetPublished(ctx context.Context, id string, published bool) error {
	result, err := s.db.q(ctx).ExecContext(ctx, `
		UPDATE page_versions SET is_published = ? WHERE id = ?
	`, boolToInt(published), id)
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

// Delete removes a version row.
func (s *VersionStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.q(ctx).ExecContext(ctx, `DELETE FROM page_versions WHERE id = ?`, id)
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

// DeleteByPage removes all versions of a page.
func (s *VersionStore) DeleteByPage(ctx context.Context, pageID string) error {
	_, err := s.db.q(ctx).ExecContext(ctx, `DELETE FROM page_versions WHERE page_id = ?`, pageID)
	return err
}

func scanVersion(row *sql.Row) (version.Version, error) {
	var v version.Version
	var published int
	var createdBy sql.NullString

	err := row.Scan(&v.ID, &v.PageID, &v.Number, &published, &createdBy, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return version.Version{}, ports.ErrNotFound
	}
	if err != nil {
		return version.Version{}, err
	}
	v.IsPublished = published == 1
	if createdBy.Valid {
		v.CreatedBy = createdBy.String
	}
	return v, nil
}

// Ensure interface compliance.
var _ ports.VersionStore = (*VersionStore)(nil)
