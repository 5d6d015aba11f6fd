package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/jdotfite/couchlist/internal/domain"
	"github.com/jdotfite/couchlist/internal/query"
)

// itemRow is the projection produced by the query package's item builders.
type itemRow struct {
	MediaItemID     string          `db:"media_item_id"`
	Title           string          `db:"title"`
	MediaType       string          `db:"media_type"`
	ReleaseYear     sql.NullInt64   `db:"release_year"`
	PosterPath      sql.NullString  `db:"poster_path"`
	OwnerID         sql.NullString  `db:"owner_id"`
	Status          sql.NullString  `db:"status"`
	Rating          sql.NullFloat64 `db:"rating"`
	WatchedYear     sql.NullInt64   `db:"watched_year"`
	StatusUpdatedAt sql.NullString  `db:"status_updated_at"`
	IsFavorite      bool            `db:"is_favorite"`
	PinPosition     sql.NullInt64   `db:"pin_position"`
}

func (r itemRow) toResolved(pinned bool) (domain.ResolvedItem, error) {
	item := domain.ResolvedItem{
		MediaItemID: r.MediaItemID,
		Title:       r.Title,
		MediaType:   domain.MediaType(r.MediaType),
		ReleaseYear: intPtr(r.ReleaseYear),
		PosterPath:  r.PosterPath.String,
		OwnerID:     r.OwnerID.String,
		Rating:      floatPtr(r.Rating),
		WatchedYear: intPtr(r.WatchedYear),
		IsPinned:    pinned,
		IsFavorite:  r.IsFavorite,
	}
	if r.Status.Valid {
		st, ok := domain.ParseStatus(r.Status.String)
		if !ok {
			st = domain.Status(r.Status.String)
		}
		item.Status = &st
	}
	// A pinned item without a viewer record carries no per-user timestamp.
	if r.OwnerID.Valid {
		ts, err := parseNullableTime(r.StatusUpdatedAt)
		if err != nil {
			return domain.ResolvedItem{}, fmt.Errorf("parse status_updated_at: %w", err)
		}
		item.StatusUpdatedAt = ts
	}
	return item, nil
}

// MatchItems returns one item per (owner, media item) record satisfying rules
// among the given owners. Rules must already be normalized. Order is unspecified.
func (s *Store) MatchItems(ctx context.Context, rules domain.FilterRules, owners []string) ([]domain.ResolvedItem, error) {
	return s.selectItems(ctx, query.Matches(rules, owners), false)
}

// CountMatches counts distinct media items satisfying rules among owners.
func (s *Store) CountMatches(ctx context.Context, rules domain.FilterRules, owners []string) (int, error) {
	sqlStr, args, err := query.CountMatches(rules, owners).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}
	var n int
	if err := s.x.GetContext(ctx, &n, sqlStr, args...); err != nil {
		return 0, err
	}
	return n, nil
}

// IncludedPinItems returns a list's include pins in pin order, each carrying
// the viewer's record when the viewer has one.
func (s *Store) IncludedPinItems(ctx context.Context, listID, viewerID string) ([]domain.ResolvedItem, error) {
	return s.selectItems(ctx, query.IncludedPins(listID, viewerID), true)
}

func (s *Store) selectItems(ctx context.Context, b sq.SelectBuilder, pinned bool) ([]domain.ResolvedItem, error) {
	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build item query: %w", err)
	}

	var rows []itemRow
	if err := s.x.SelectContext(ctx, &rows, sqlStr, args...); err != nil {
		return nil, err
	}

	items := make([]domain.ResolvedItem, 0, len(rows))
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		item, err := r.toResolved(pinned)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		ids = append(ids, r.MediaItemID)
	}

	genres, err := s.genresFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load genres: %w", err)
	}
	for i := range items {
		items[i].Genres = genres[items[i].MediaItemID]
	}
	return items, nil
}

// genresFor loads genre names keyed by media item ID.
func (s *Store) genresFor(ctx context.Context, ids []string) (map[string][]string, error) {
	out := make(map[string][]string)
	if len(ids) == 0 {
		return out, nil
	}

	q, args, err := sqlx.In(
		`SELECT media_item_id, genre FROM media_genres WHERE media_item_id IN (?) ORDER BY media_item_id, genre`, ids)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		MediaItemID string `db:"media_item_id"`
		Genre       string `db:"genre"`
	}
	if err := s.x.SelectContext(ctx, &rows, s.x.Rebind(q), args...); err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.MediaItemID] = append(out[r.MediaItemID], r.Genre)
	}
	return out, nil
}
