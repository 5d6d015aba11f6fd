package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jdotfite/couchlist/internal/domain"
	"github.com/jdotfite/couchlist/internal/store"
)

// listColumns is the ordered list of columns selected in list queries.
// Must match the scan order in scanList.
const listColumns = `id, created_at, updated_at, owner_id, slug, name, description,
	list_type, filter_rules, sort_by, sort_direction, item_limit, position`

// scanList scans a sql.Row (or sql.Rows via its Scan method) into a domain.List.
// Stored rules that no longer decode are replaced by rules that match nothing.
func (s *Store) scanList(scanner interface{ Scan(dest ...any) error }) (*domain.List, error) {
	var (
		l           domain.List
		createdAt   string
		updatedAt   string
		description sql.NullString
		listType    string
		rules       string
		sortBy      string
		sortDir     string
	)

	err := scanner.Scan(
		&l.ID,
		&createdAt,
		&updatedAt,
		&l.OwnerID,
		&l.Slug,
		&l.Name,
		&description,
		&listType,
		&rules,
		&sortBy,
		&sortDir,
		&l.ItemLimit,
		&l.Position,
	)
	if err != nil {
		return nil, err
	}

	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if l.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	l.Description = description.String
	l.Type = domain.ListType(listType)
	l.Sort = domain.SortSpec{By: domain.SortKey(sortBy), Direction: domain.Direction(sortDir)}

	if rules != "" {
		if err := json.Unmarshal([]byte(rules), &l.Rules); err != nil {
			s.logger.Warn("stored filter rules do not decode",
				"list_id", l.ID,
				"error", err,
			)
			l.Rules = domain.UnmatchableRules()
		}
	}

	return &l, nil
}

func encodeRules(r domain.FilterRules) (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encode filter rules: %w", err)
	}
	return string(b), nil
}

// CreateList inserts a list at the end of its owner's ordering together with
// its initial pins. Either everything is written or nothing is.
// Returns store.ErrAlreadyExists when the owner already has a list with the slug.
func (s *Store) CreateList(ctx context.Context, list *domain.List, pins []domain.Pin) error {
	rules, err := encodeRules(list.Rules)
	if err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &list.Position,
			`SELECT COALESCE(MAX(position) + 1, 0) FROM lists WHERE owner_id = ?`, list.OwnerID); err != nil {
			return fmt.Errorf("next list position: %w", err)
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO lists (
				id, created_at, updated_at, owner_id, slug, name, description,
				list_type, filter_rules, sort_by, sort_direction, item_limit, position
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			list.ID,
			formatTime(list.CreatedAt),
			formatTime(list.UpdatedAt),
			list.OwnerID,
			list.Slug,
			list.Name,
			nullString(list.Description),
			string(list.Type),
			rules,
			string(list.Sort.By),
			string(list.Sort.Direction),
			list.ItemLimit,
			list.Position,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return store.ErrAlreadyExists
			}
			return err
		}

		for _, pin := range pins {
			if _, err := upsertPin(ctx, tx, list.ID, pin.MediaItemID, pin.Type, list.CreatedAt); err != nil {
				return fmt.Errorf("insert pin %s: %w", pin.MediaItemID, err)
			}
		}
		return nil
	})
}

// GetList retrieves a list by ID.
// Returns store.ErrNotFound if the list does not exist.
func (s *Store) GetList(ctx context.Context, id string) (*domain.List, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+listColumns+` FROM lists WHERE id = ?`, id)
	l, err := s.scanList(row)
	if err != nil {
		return nil, notFound(err)
	}
	return l, nil
}

// GetListBySlug retrieves an owner's list by slug.
// Returns store.ErrNotFound if no such list exists.
func (s *Store) GetListBySlug(ctx context.Context, ownerID, slug string) (*domain.List, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+listColumns+` FROM lists WHERE owner_id = ? AND slug = ?`, ownerID, slug)
	l, err := s.scanList(row)
	if err != nil {
		return nil, notFound(err)
	}
	return l, nil
}

// UpdateList overwrites a list's mutable columns.
// Returns store.ErrNotFound if the list does not exist and
// store.ErrAlreadyExists if the new slug collides with another of the owner's lists.
func (s *Store) UpdateList(ctx context.Context, list *domain.List) error {
	rules, err := encodeRules(list.Rules)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE lists SET
			updated_at = ?,
			slug = ?,
			name = ?,
			description = ?,
			list_type = ?,
			filter_rules = ?,
			sort_by = ?,
			sort_direction = ?,
			item_limit = ?,
			position = ?
		WHERE id = ?`,
		formatTime(list.UpdatedAt),
		list.Slug,
		list.Name,
		nullString(list.Description),
		string(list.Type),
		rules,
		string(list.Sort.By),
		string(list.Sort.Direction),
		list.ItemLimit,
		list.Position,
		list.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteList hard-deletes a list. Pins and collaborator grants go with it via
// ON DELETE CASCADE.
// Returns store.ErrNotFound if the list does not exist.
func (s *Store) DeleteList(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM lists WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListListsByOwner returns an owner's lists in position order.
func (s *Store) ListListsByOwner(ctx context.Context, ownerID string) ([]*domain.List, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+listColumns+` FROM lists WHERE owner_id = ? ORDER BY position, created_at`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []*domain.List
	for rows.Next() {
		l, err := s.scanList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}
