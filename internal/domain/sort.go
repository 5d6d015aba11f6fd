package domain

import "strings"

// SortKey names the primary ordering of a resolved list.
type SortKey string

// Sort keys.
const (
	SortTitle           SortKey = "title"
	SortReleaseYear     SortKey = "release_year"
	SortRating          SortKey = "rating"
	SortWatchedYear     SortKey = "watched_year"
	SortStatusUpdatedAt SortKey = "status_updated_at"
)

// Valid reports whether k is a known sort key.
func (k SortKey) Valid() bool {
	switch k {
	case SortTitle, SortReleaseYear, SortRating, SortWatchedYear, SortStatusUpdatedAt:
		return true
	}
	return false
}

// Direction is the direction applied to the primary sort key.
type Direction string

// Directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == Asc || d == Desc
}

// ParseDirection normalizes a direction name, tolerating case and whitespace.
func ParseDirection(s string) (Direction, bool) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	return d, d.Valid()
}

// SortSpec is a primary key plus direction.
type SortSpec struct {
	By        SortKey   `json:"sort_by"`
	Direction Direction `json:"sort_direction"`
}

// DefaultSort is the most recently touched items first.
func DefaultSort() SortSpec {
	return SortSpec{By: SortStatusUpdatedAt, Direction: Desc}
}

// ParseSortSpec builds a spec from raw strings, tolerating case and whitespace.
// The second return is false when either part is unknown.
func ParseSortSpec(by, direction string) (SortSpec, bool) {
	spec := SortSpec{
		By:        SortKey(strings.ToLower(strings.TrimSpace(by))),
		Direction: Direction(strings.ToLower(strings.TrimSpace(direction))),
	}
	if spec.Direction == "" {
		spec.Direction = Asc
		if spec.By == SortStatusUpdatedAt {
			spec.Direction = Desc
		}
	}
	return spec, spec.By.Valid() && spec.Direction.Valid()
}

// WithDirection returns s with its direction replaced by d. Unknown directions leave s unchanged.
func (s SortSpec) WithDirection(d Direction) SortSpec {
	if d.Valid() {
		s.Direction = d
	}
	return s
}

// OrDefault returns s, or DefaultSort when s names an unknown key or direction.
func (s SortSpec) OrDefault() SortSpec {
	if !s.By.Valid() {
		return DefaultSort()
	}
	if !s.Direction.Valid() {
		s.Direction = Asc
	}
	return s
}
