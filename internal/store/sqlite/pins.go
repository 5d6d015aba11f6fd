package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jdotfite/couchlist/internal/domain"
	"github.com/jdotfite/couchlist/internal/store"
)

// AddPin pins an item to a list. Re-adding a pin of the same type leaves it
// untouched; a pin of the opposite type is overwritten. New include pins go
// after every existing include pin.
// Returns the pin as stored.
func (s *Store) AddPin(ctx context.Context, listID, mediaItemID string, pinType domain.PinType) (*domain.Pin, error) {
	var pin *domain.Pin
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		pin, err = upsertPin(ctx, tx, listID, mediaItemID, pinType, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return pin, nil
}

// upsertPin is the shared pin write used by AddPin and CreateList.
func upsertPin(ctx context.Context, tx *sqlx.Tx, listID, mediaItemID string, pinType domain.PinType, now time.Time) (*domain.Pin, error) {
	var existing struct {
		Type      string `db:"pin_type"`
		Position  int    `db:"position"`
		CreatedAt string `db:"created_at"`
	}
	err := tx.GetContext(ctx, &existing,
		`SELECT pin_type, position, created_at FROM list_pins WHERE list_id = ? AND media_item_id = ?`,
		listID, mediaItemID)
	switch {
	case err == nil && domain.PinType(existing.Type) == pinType:
		createdAt, err := parseTime(existing.CreatedAt)
		if err != nil {
			return nil, err
		}
		return &domain.Pin{
			ListID:      listID,
			MediaItemID: mediaItemID,
			Type:        pinType,
			Position:    existing.Position,
			CreatedAt:   createdAt,
		}, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return nil, err
	}

	position := 0
	if pinType == domain.PinInclude {
		if err := tx.GetContext(ctx, &position, `
			SELECT COALESCE(MAX(position) + 1, 0) FROM list_pins
			WHERE list_id = ? AND pin_type = ?`, listID, string(domain.PinInclude)); err != nil {
			return nil, fmt.Errorf("next pin position: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO list_pins (list_id, media_item_id, pin_type, position, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(list_id, media_item_id) DO UPDATE SET
			pin_type = excluded.pin_type,
			position = excluded.position,
			created_at = excluded.created_at`,
		listID, mediaItemID, string(pinType), position, formatTime(now))
	if err != nil {
		return nil, err
	}

	return &domain.Pin{
		ListID:      listID,
		MediaItemID: mediaItemID,
		Type:        pinType,
		Position:    position,
		CreatedAt:   now,
	}, nil
}

// RemovePin deletes any pin for the item. Removing a missing pin is a no-op.
func (s *Store) RemovePin(ctx context.Context, listID, mediaItemID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM list_pins WHERE list_id = ? AND media_item_id = ?`, listID, mediaItemID)
	return err
}

// ReorderPins moves the given include pins to the front in the given order.
// Include pins not named keep their relative order after them, and positions
// are rewritten as 0..n-1.
// Returns store.ErrInvalidInput if an ID is repeated or is not an include pin of the list.
func (s *Store) ReorderPins(ctx context.Context, listID string, mediaItemIDs []string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		var current []string
		if err := tx.SelectContext(ctx, &current, `
			SELECT media_item_id FROM list_pins
			WHERE list_id = ? AND pin_type = ?
			ORDER BY position, media_item_id`, listID, string(domain.PinInclude)); err != nil {
			return err
		}

		known := make(map[string]bool, len(current))
		for _, id := range current {
			known[id] = true
		}

		order := make([]string, 0, len(current))
		seen := make(map[string]bool, len(mediaItemIDs))
		for _, id := range mediaItemIDs {
			if !known[id] || seen[id] {
				return store.ErrInvalidInput.WithMessage(fmt.Sprintf("%s is not an include pin of this list", id))
			}
			seen[id] = true
			order = append(order, id)
		}
		for _, id := range current {
			if !seen[id] {
				order = append(order, id)
			}
		}

		for pos, id := range order {
			if _, err := tx.ExecContext(ctx,
				`UPDATE list_pins SET position = ? WHERE list_id = ? AND media_item_id = ?`,
				pos, listID, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListPins returns every pin of a list: include pins in position order, then
// exclude pins oldest first.
func (s *Store) ListPins(ctx context.Context, listID string) ([]domain.Pin, error) {
	var rows []struct {
		MediaItemID string `db:"media_item_id"`
		Type        string `db:"pin_type"`
		Position    int    `db:"position"`
		CreatedAt   string `db:"created_at"`
	}
	if err := s.x.SelectContext(ctx, &rows, `
		SELECT media_item_id, pin_type, position, created_at FROM list_pins
		WHERE list_id = ?
		ORDER BY CASE pin_type WHEN 'include' THEN 0 ELSE 1 END,
			CASE pin_type WHEN 'include' THEN position ELSE 0 END,
			created_at, media_item_id`, listID); err != nil {
		return nil, err
	}

	pins := make([]domain.Pin, 0, len(rows))
	for _, r := range rows {
		createdAt, err := parseTime(r.CreatedAt)
		if err != nil {
			return nil, err
		}
		pins = append(pins, domain.Pin{
			ListID:      listID,
			MediaItemID: r.MediaItemID,
			Type:        domain.PinType(r.Type),
			Position:    r.Position,
			CreatedAt:   createdAt,
		})
	}
	return pins, nil
}

// ExcludedPinIDs returns the media items a list suppresses.
func (s *Store) ExcludedPinIDs(ctx context.Context, listID string) ([]string, error) {
	var ids []string
	err := s.x.SelectContext(ctx, &ids,
		`SELECT media_item_id FROM list_pins WHERE list_id = ? AND pin_type = ?`,
		listID, string(domain.PinExclude))
	return ids, err
}
