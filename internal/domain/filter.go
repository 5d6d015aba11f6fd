package domain

import (
	"fmt"
	"slices"
	"strings"
)

// FilterRules is the predicate definition of a smart or hybrid list.
// Absent fields and empty sets impose no constraint. Fields are AND-ed; values
// within a set field are OR-ed, except Labels which requires every tag.
type FilterRules struct {
	Status         []string `json:"status,omitempty"`
	MediaType      []string `json:"mediaType,omitempty"`
	WatchedYear    *int     `json:"watchedYear,omitempty"`
	ReleaseYearMin *int     `json:"releaseYearMin,omitempty"`
	ReleaseYearMax *int     `json:"releaseYearMax,omitempty"`
	RatingMin      *float64 `json:"ratingMin,omitempty"`
	Labels         []string `json:"labels,omitempty"`
	LabelsAny      []string `json:"labelsAny,omitempty"`
	IsFavorite     *bool    `json:"isFavorite,omitempty"`
	Genres         []string `json:"genres,omitempty"`
}

// IsEmpty reports whether the rules impose no constraint at all.
func (r FilterRules) IsEmpty() bool {
	return len(r.Status) == 0 && len(r.MediaType) == 0 &&
		r.WatchedYear == nil && r.ReleaseYearMin == nil && r.ReleaseYearMax == nil &&
		r.RatingMin == nil && len(r.Labels) == 0 && len(r.LabelsAny) == 0 &&
		(r.IsFavorite == nil || !*r.IsFavorite) && len(r.Genres) == 0
}

// Normalize returns a copy with statuses and media types mapped to canonical
// values and tag/genre names lowercased, trimmed and de-duplicated.
// Unknown status or media type values are reported as an error so callers can
// reject them at write time.
func (r FilterRules) Normalize() (FilterRules, error) {
	out := r

	out.Status = nil
	for _, s := range r.Status {
		st, ok := ParseStatus(s)
		if !ok {
			return FilterRules{}, fmt.Errorf("unknown status %q", s)
		}
		out.Status = appendUnique(out.Status, string(st))
	}

	out.MediaType = nil
	for _, m := range r.MediaType {
		mt, ok := ParseMediaType(m)
		if !ok {
			return FilterRules{}, fmt.Errorf("unknown media type %q", m)
		}
		out.MediaType = appendUnique(out.MediaType, string(mt))
	}

	out.Labels = normalizeNames(r.Labels)
	out.LabelsAny = normalizeNames(r.LabelsAny)
	out.Genres = normalizeNames(r.Genres)

	return out, nil
}

// Lenient is like Normalize but drops unknown status and media type values
// instead of failing. Stored rules are read back through this path.
// A set whose every value is unknown matches nothing rather than everything.
func (r FilterRules) Lenient() FilterRules {
	out := r

	out.Status = nil
	for _, s := range r.Status {
		if st, ok := ParseStatus(s); ok {
			out.Status = appendUnique(out.Status, string(st))
		}
	}
	if len(r.Status) > 0 && len(out.Status) == 0 {
		out.Status = []string{unmatchable}
	}

	out.MediaType = nil
	for _, m := range r.MediaType {
		if mt, ok := ParseMediaType(m); ok {
			out.MediaType = appendUnique(out.MediaType, string(mt))
		}
	}
	if len(r.MediaType) > 0 && len(out.MediaType) == 0 {
		out.MediaType = []string{unmatchable}
	}

	out.Labels = normalizeNames(r.Labels)
	out.LabelsAny = normalizeNames(r.LabelsAny)
	out.Genres = normalizeNames(r.Genres)
	return out
}

// unmatchable is a sentinel value that no stored status or media type can equal.
const unmatchable = "\x00"

// UnmatchableRules returns rules that select no record.
func UnmatchableRules() FilterRules {
	return FilterRules{Status: []string{unmatchable}}
}

// NormalizeTag lowercases and trims a tag or genre name.
func NormalizeTag(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeNames(in []string) []string {
	var out []string
	for _, s := range in {
		if s = NormalizeTag(s); s != "" {
			out = appendUnique(out, s)
		}
	}
	return out
}

func appendUnique(dst []string, v string) []string {
	if slices.Contains(dst, v) {
		return dst
	}
	return append(dst, v)
}
