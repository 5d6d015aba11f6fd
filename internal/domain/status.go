package domain

import (
	"slices"
	"strings"
)

// Status is a user's classification of a media item.
type Status string

// Canonical statuses.
const (
	StatusWatchlist Status = "watchlist"
	StatusWatching  Status = "watching"
	StatusFinished  Status = "finished"
	StatusPaused    Status = "paused"
	StatusDropped   Status = "dropped"
)

// statusAliases maps every accepted spelling to its canonical status.
//
//nolint:gochecknoglobals // Static lookup table for status normalization
var statusAliases = map[string]Status{
	"watchlist":     StatusWatchlist,
	"planned":       StatusWatchlist,
	"want_to_watch": StatusWatchlist,
	"watching":      StatusWatching,
	"in_progress":   StatusWatching,
	"in-progress":   StatusWatching,
	"finished":      StatusFinished,
	"watched":       StatusFinished,
	"completed":     StatusFinished,
	"paused":        StatusPaused,
	"on_hold":       StatusPaused,
	"dropped":       StatusDropped,
}

// ParseStatus normalizes a status name or alias. The second return is false for unknown values.
func ParseStatus(s string) (Status, bool) {
	st, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]
	return st, ok
}

// StatusSpellings returns every stored spelling of st: the canonical value
// first, then its aliases in lexical order. Unknown statuses yield nil.
func StatusSpellings(st Status) []string {
	if canonical, ok := statusAliases[string(st)]; !ok || canonical != st {
		return nil
	}
	var aliases []string
	for alias, canonical := range statusAliases {
		if canonical == st && alias != string(st) {
			aliases = append(aliases, alias)
		}
	}
	slices.Sort(aliases)
	return append([]string{string(st)}, aliases...)
}

// CanonicalStatuses returns the canonical status set in display order.
func CanonicalStatuses() []Status {
	return []Status{StatusWatchlist, StatusWatching, StatusFinished, StatusPaused, StatusDropped}
}

// MediaType distinguishes catalog entries.
type MediaType string

// Media types.
const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeShow  MediaType = "show"
)

//nolint:gochecknoglobals // Static lookup table for media type normalization
var mediaTypeAliases = map[string]MediaType{
	"movie":  MediaTypeMovie,
	"film":   MediaTypeMovie,
	"show":   MediaTypeShow,
	"tv":     MediaTypeShow,
	"series": MediaTypeShow,
}

// ParseMediaType normalizes a media type name or alias.
func ParseMediaType(s string) (MediaType, bool) {
	mt, ok := mediaTypeAliases[strings.ToLower(strings.TrimSpace(s))]
	return mt, ok
}

// FavoriteTag is the reserved tag behind the isFavorite rule.
const FavoriteTag = "favorite"
