package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jhiver/doxyde-sub000/domain/component"
	"github.com/jhiver/doxyde-sub000/domain/order"
	"github.com/jhiver/doxyde-sub000/ports"
)

const componentColumns = `id, version_id, component_type, position, template, title, content, created_at, updated_at`

// ComponentStore implements ports.ComponentStore using SQLite.
type ComponentStore struct {
	db *DB
}

// NewComponentStore creates a new SQLite component store.
func NewComponentStore(db *DB) *ComponentStore {
	return &ComponentStore{db: db}
}

// Get retrieves a component by ID.
func (s *ComponentStore) Get(ctx context.Context, id string) (component.Component, error) {
	row := s.db.q(ctx).QueryRowContext(ctx, `
		SELECT `+componentColumns+`
		FROM components
		WHERE id = ?
	`, id)
	return scanComponent(row)
}

// ListByVersion returns a version's components ordered by position.
func (s *ComponentStore) ListByVersion(ctx context.Context, versionID string) ([]component.Component, error) {
	rows, err := s.db.q(ctx).QueryContext(ctx, `
		SELECT `+componentColumns+`
		FROM components
		WHERE version_id = ?
		ORDER BY position
	`, versionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var components []component.Component
	for rows.Next() {
		var c component.Component
		var content string
		if err := rows.Scan(&c.ID, &c.VersionID, &c.Type, &c.Position, &c.Template, &c.Title, &content, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.Content = json.RawMessage(content)
		components = append(components, c)
	}
	return components, rows.Err()
}

// Create stores a new component.
func (s *ComponentStore) Create(ctx context.Context, c component.Component) error {
	_, err := s.db.q(ctx).ExecContext(ctx, `
		INSERT INTO components (id, version_id, component_type, position, template, title, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.VersionID, c.Type, c.Position, c.Template, c.Title, contentText(c.Content), c.CreatedAt, c.UpdatedAt)
	if err != nil && isUniqueConstraintError(err) {
		return ports.ErrDuplicate
	}
	return err
}

// Update modifies an existing component.
func (s *ComponentStore) Update(ctx context.Context, c component.Component) error {
	result, err := s.db.q(ctx).ExecContext(ctx, `
		UPDATE components
		SET component_type = ?, position = ?, template = ?, title = ?, content = ?, updated_at = ?
		WHERE id = ?
	`, c.Type, c.Position, c.Template, c.Title, contentText(c.Content), c.UpdatedAt, c.ID)
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

// UpdatePositions applies a batch of position writes.
func (s *ComponentStore) UpdatePositions(ctx context.Context, writes []order.Write) error {
	q := s.db.q(ctx)
	for _, w := range writes {
		if _, err := q.ExecContext(ctx, `UPDATE components SET position = ? WHERE id = ?`, w.Position, w.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a component row.
func (s *ComponentStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.q(ctx).ExecContext(ctx, `DELETE FROM components WHERE id = ?`, id)
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

// DeleteByVersion removes all components of a version.
func (s *ComponentStore) DeleteByVersion(ctx context.Context, versionID string) error {
	_, err := s.db.q(ctx).ExecContext(ctx, `DELETE FROM components WHERE version_id = ?`, versionID)
	return err
}

func scanComponent(row *sql.Row) (component.Component, error) {
	var c component.Component
	var content string

	err := row.Scan(&c.ID, &c.VersionID, &c.Type, &c.Position, &c.Template, &c.Title, &content, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return component.Component{}, ports.ErrNotFound
	}
	if err != nil {
		return component.Component{}, err
	}
	c.Content = json.RawMessage(content)
	return c, nil
}

func contentText(c json.RawMessage) string {
	if len(c) == 0 {
		return "null"
	}
	return string(c)
}

// Ensure interface compliance.
var _ ports.ComponentStore = (*ComponentStore)(nil)
