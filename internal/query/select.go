package query

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/jdotfite/couchlist/internal/domain"
)

// recordColumns is the projection scanned into a store row by every item query.
// The owner may be NULL for pinned items the viewer never tracked.
//
//nolint:gochecknoglobals // Shared projection.
var recordColumns = []string{
	"mi.id AS media_item_id",
	"mi.title",
	"mi.media_type",
	"mi.release_year",
	"mi.poster_path",
	"um.user_id AS owner_id",
	"um.status",
	"um.rating",
	"um.watched_year",
	"um.status_updated_at",
}

func favoriteColumn() sq.Sqlizer {
	return sq.Alias(sq.Expr(
		"EXISTS (SELECT 1 FROM item_tags ft WHERE ft.user_id = um.user_id AND ft.media_item_id = mi.id AND ft.tag = ?)",
		domain.FavoriteTag,
	), "is_favorite")
}

// Matches selects every record satisfying rules over owners. The result is
// unordered; one row per (owner, item).
func Matches(rules domain.FilterRules, owners []string) sq.SelectBuilder {
	return sq.Select(recordColumns...).
		Column(favoriteColumn()).
		From("user_media um").
		Join("media_items mi ON mi.id = um.media_item_id").
		Where(Predicate(rules, owners))
}

// CountMatches counts distinct items satisfying rules over owners.
func CountMatches(rules domain.FilterRules, owners []string) sq.SelectBuilder {
	return sq.Select("COUNT(DISTINCT um.media_item_id)").
		From("user_media um").
		Join("media_items mi ON mi.id = um.media_item_id").
		Where(Predicate(rules, owners))
}

// IncludedPins selects a list's include pins in position order, each joined
// to the viewer's record when one exists.
func IncludedPins(listID, viewerID string) sq.SelectBuilder {
	return sq.Select(recordColumns...).
		Column(favoriteColumn()).
		Column("p.position AS pin_position").
		From("list_pins p").
		Join("media_items mi ON mi.id = p.media_item_id").
		LeftJoin("user_media um ON um.media_item_id = p.media_item_id AND um.user_id = ?", viewerID).
		Where(sq.Eq{"p.list_id": listID, "p.pin_type": string(domain.PinInclude)}).
		OrderBy("p.position", "p.media_item_id")
}
