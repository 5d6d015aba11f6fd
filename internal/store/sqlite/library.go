package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jdotfite/couchlist/internal/domain"
	"github.com/jdotfite/couchlist/internal/store"
)

// The surrounding library subsystem owns users, the catalog and per-user
// records. These writers exist for seeding and tests; resolution only reads.

// CreateUser inserts a user. Returns store.ErrAlreadyExists on duplicate ID.
func (s *Store) CreateUser(ctx context.Context, id, displayName string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, display_name, created_at) VALUES (?, ?, ?)`,
		id, displayName, formatTime(time.Now()))
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

// UserExists reports whether a user row exists.
func (s *Store) UserExists(ctx context.Context, id string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, id).Scan(&n)
	return n > 0, err
}

// UpsertMediaItem inserts or replaces a catalog entry and its genre set.
func (s *Store) UpsertMediaItem(ctx context.Context, item *domain.MediaItem) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO media_items (id, media_type, title, release_year, poster_path, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				media_type = excluded.media_type,
				title = excluded.title,
				release_year = excluded.release_year,
				poster_path = excluded.poster_path`,
			item.ID, string(item.Type), item.Title, nullInt(item.ReleaseYear),
			nullString(item.PosterPath), formatTime(time.Now()),
		)
		if err != nil {
			return fmt.Errorf("upsert media item %s: %w", item.ID, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM media_genres WHERE media_item_id = ?`, item.ID); err != nil {
			return err
		}
		for _, g := range item.Genres {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO media_genres (media_item_id, genre) VALUES (?, ?)`,
				item.ID, domain.NormalizeTag(g)); err != nil {
				return fmt.Errorf("insert genre %s: %w", g, err)
			}
		}
		return nil
	})
}

// MediaItemExists reports whether a catalog entry exists.
func (s *Store) MediaItemExists(ctx context.Context, id string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media_items WHERE id = ?`, id).Scan(&n)
	return n > 0, err
}

// SetRecord inserts or replaces a user's record for an item. Tags are not touched.
// Status aliases are stored in canonical form.
func (s *Store) SetRecord(ctx context.Context, rec *domain.TaggedMediaRecord) error {
	status := rec.Status
	if canonical, ok := domain.ParseStatus(string(status)); ok {
		status = canonical
	}
	updatedAt := rec.StatusUpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_media (user_id, media_item_id, status, rating, watched_year, status_updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, media_item_id) DO UPDATE SET
			status = excluded.status,
			rating = excluded.rating,
			watched_year = excluded.watched_year,
			status_updated_at = excluded.status_updated_at`,
		rec.UserID, rec.MediaItemID, nullString(string(status)),
		nullFloat(rec.Rating), nullInt(rec.WatchedYear), formatTime(updatedAt),
	)
	return err
}

// AddTag assigns a tag to a user's item, creating an unclassified record if needed.
// Adding an existing tag is a no-op.
func (s *Store) AddTag(ctx context.Context, userID, mediaItemID, tag string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		now := formatTime(time.Now())
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO user_media (user_id, media_item_id, status_updated_at)
			VALUES (?, ?, ?)`, userID, mediaItemID, now); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO item_tags (user_id, media_item_id, tag, created_at)
			VALUES (?, ?, ?, ?)`, userID, mediaItemID, domain.NormalizeTag(tag), now)
		return err
	})
}

// RemoveTag removes a tag assignment. Removing an absent tag is a no-op.
func (s *Store) RemoveTag(ctx context.Context, userID, mediaItemID, tag string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM item_tags WHERE user_id = ? AND media_item_id = ? AND tag = ?`,
		userID, mediaItemID, domain.NormalizeTag(tag))
	return err
}

// GetRecord returns a user's record for an item including its tags.
// Returns store.ErrNotFound if the user has no record.
func (s *Store) GetRecord(ctx context.Context, userID, mediaItemID string) (*domain.TaggedMediaRecord, error) {
	var (
		status      sql.NullString
		rating      sql.NullFloat64
		watchedYear sql.NullInt64
		updatedAt   string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT status, rating, watched_year, status_updated_at
		FROM user_media WHERE user_id = ? AND media_item_id = ?`,
		userID, mediaItemID).Scan(&status, &rating, &watchedYear, &updatedAt)
	if err != nil {
		return nil, notFound(err)
	}

	rec := &domain.TaggedMediaRecord{
		UserID:      userID,
		MediaItemID: mediaItemID,
		Status:      domain.Status(status.String),
		Rating:      floatPtr(rating),
		WatchedYear: intPtr(watchedYear),
	}
	if rec.StatusUpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	if err := s.x.SelectContext(ctx, &rec.Tags,
		`SELECT tag FROM item_tags WHERE user_id = ? AND media_item_id = ? ORDER BY tag`,
		userID, mediaItemID); err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	return rec, nil
}
