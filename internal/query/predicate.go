// Package query translates list filter rules into parameterized SQL predicates.
//
// Each rule field has its own Condition. Conditions are independent, are
// applied in a fixed order and are AND-ed into one squirrel expression.
// Every user value is a bound argument.
//
// Queries read user_media as "um" joined to media_items as "mi".
package query

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/jdotfite/couchlist/internal/domain"
)

// Condition builds the predicate for one rule field. ok is false when the
// field imposes no constraint.
type Condition func(r domain.FilterRules) (expr sq.Sqlizer, ok bool)

// Conditions is the ordered set applied by Predicate.
//
//nolint:gochecknoglobals // Fixed evaluation order.
var Conditions = []Condition{
	StatusCondition,
	MediaTypeCondition,
	WatchedYearCondition,
	ReleaseYearMinCondition,
	ReleaseYearMaxCondition,
	RatingMinCondition,
	LabelsAllCondition,
	LabelsAnyCondition,
	FavoriteCondition,
	GenresCondition,
}

// Predicate returns the combined predicate for rules over the given owners.
// Only classified records (non-null status) ever match.
// An empty owner set matches nothing.
func Predicate(rules domain.FilterRules, owners []string) sq.Sqlizer {
	and := sq.And{
		OwnerCondition(owners),
		sq.NotEq{"um.status": nil},
	}
	for _, cond := range Conditions {
		if expr, ok := cond(rules); ok {
			and = append(and, expr)
		}
	}
	return and
}

// OwnerCondition restricts records to the visible owner set.
func OwnerCondition(owners []string) sq.Sqlizer {
	if len(owners) == 0 {
		return sq.Expr("1 = 0")
	}
	return sq.Eq{"um.user_id": owners}
}

// StatusCondition matches any of the listed statuses. Each canonical value
// also matches rows stored under one of its aliases.
func StatusCondition(r domain.FilterRules) (sq.Sqlizer, bool) {
	if len(r.Status) == 0 {
		return nil, false
	}
	spellings := make([]string, 0, len(r.Status))
	for _, v := range r.Status {
		if all := domain.StatusSpellings(domain.Status(v)); all != nil {
			spellings = append(spellings, all...)
			continue
		}
		spellings = append(spellings, v)
	}
	return sq.Eq{"um.status": spellings}, true
}

// MediaTypeCondition matches any of the listed media types.
func MediaTypeCondition(r domain.FilterRules) (sq.Sqlizer, bool) {
	if len(r.MediaType) == 0 {
		return nil, false
	}
	return sq.Eq{"mi.media_type": r.MediaType}, true
}

// WatchedYearCondition matches an exact watched year.
func WatchedYearCondition(r domain.FilterRules) (sq.Sqlizer, bool) {
	if r.WatchedYear == nil {
		return nil, false
	}
	return sq.Eq{"um.watched_year": *r.WatchedYear}, true
}

// ReleaseYearMinCondition is an inclusive lower bound. Items without a release year fail it.
func ReleaseYearMinCondition(r domain.FilterRules) (sq.Sqlizer, bool) {
	if r.ReleaseYearMin == nil {
		return nil, false
	}
	return sq.GtOrEq{"mi.release_year": *r.ReleaseYearMin}, true
}

// ReleaseYearMaxCondition is an inclusive upper bound.
func ReleaseYearMaxCondition(r domain.FilterRules) (sq.Sqlizer, bool) {
	if r.ReleaseYearMax == nil {
		return nil, false
	}
	return sq.LtOrEq{"mi.release_year": *r.ReleaseYearMax}, true
}

// RatingMinCondition is an inclusive lower bound on the record owner's rating.
// Unrated records fail it.
func RatingMinCondition(r domain.FilterRules) (sq.Sqlizer, bool) {
	if r.RatingMin == nil {
		return nil, false
	}
	return sq.GtOrEq{"um.rating": *r.RatingMin}, true
}

// LabelsAllCondition requires every listed tag on the record.
func LabelsAllCondition(r domain.FilterRules) (sq.Sqlizer, bool) {
	if len(r.Labels) == 0 {
		return nil, false
	}
	and := make(sq.And, 0, len(r.Labels))
	for _, label := range r.Labels {
		and = append(and, hasTags([]string{label}))
	}
	return and, true
}

// LabelsAnyCondition requires at least one of the listed tags.
func LabelsAnyCondition(r domain.FilterRules) (sq.Sqlizer, bool) {
	if len(r.LabelsAny) == 0 {
		return nil, false
	}
	return hasTags(r.LabelsAny), true
}

// FavoriteCondition requires the reserved favorite tag when isFavorite is true.
// false is treated as no constraint.
func FavoriteCondition(r domain.FilterRules) (sq.Sqlizer, bool) {
	if r.IsFavorite == nil || !*r.IsFavorite {
		return nil, false
	}
	return hasTags([]string{domain.FavoriteTag}), true
}

// GenresCondition matches items carrying any of the listed genres.
func GenresCondition(r domain.FilterRules) (sq.Sqlizer, bool) {
	if len(r.Genres) == 0 {
		return nil, false
	}
	return sq.Expr(
		"EXISTS (SELECT 1 FROM media_genres mg WHERE mg.media_item_id = mi.id AND mg.genre IN ("+
			sq.Placeholders(len(r.Genres))+"))",
		toArgs(r.Genres)...,
	), true
}

// hasTags is an EXISTS over the record owner's tags for the item.
func hasTags(tags []string) sq.Sqlizer {
	return sq.Expr(
		"EXISTS (SELECT 1 FROM item_tags it WHERE it.user_id = um.user_id AND it.media_item_id = um.media_item_id AND it.tag IN ("+
			sq.Placeholders(len(tags))+"))",
		toArgs(tags)...,
	)
}

func toArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
