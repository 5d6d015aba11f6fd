package domain

import "time"

// MediaItem is a catalog entry. The resolver joins against it but never creates it.
type MediaItem struct {
	ID          string    `json:"id"`
	Type        MediaType `json:"media_type"`
	Title       string    `json:"title"`
	ReleaseYear *int      `json:"release_year,omitempty"`
	PosterPath  string    `json:"poster_path,omitempty"`
	Genres      []string  `json:"genres,omitempty"`
}

// TaggedMediaRecord is one user's classification of one item.
type TaggedMediaRecord struct {
	UserID          string    `json:"user_id"`
	MediaItemID     string    `json:"media_item_id"`
	Status          Status    `json:"status"`
	Rating          *float64  `json:"rating,omitempty"`
	WatchedYear     *int      `json:"watched_year,omitempty"`
	StatusUpdatedAt time.Time `json:"status_updated_at"`
	Tags            []string  `json:"tags,omitempty"`
}

// ResolvedItem is one entry of a resolved list. Per-user fields are nil when
// the item resolved without a record (a pinned item the viewer never tracked).
type ResolvedItem struct {
	MediaItemID string    `json:"media_item_id"`
	Title       string    `json:"title"`
	MediaType   MediaType `json:"media_type"`
	ReleaseYear *int      `json:"release_year,omitempty"`
	PosterPath  string    `json:"poster_path,omitempty"`
	Genres      []string  `json:"genres,omitempty"`

	OwnerID         string     `json:"owner_id,omitempty"`
	Status          *Status    `json:"status,omitempty"`
	Rating          *float64   `json:"rating,omitempty"`
	WatchedYear     *int       `json:"watched_year,omitempty"`
	StatusUpdatedAt *time.Time `json:"status_updated_at,omitempty"`

	IsPinned   bool `json:"is_pinned"`
	IsFavorite bool `json:"is_favorite"`
}
