package resolver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jdotfite/couchlist/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func ids(items []domain.ResolvedItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.MediaItemID
	}
	return out
}

func TestSort_NullRatingsLastInBothDirections(t *testing.T) {
	build := func() []domain.ResolvedItem {
		return []domain.ResolvedItem{
			{MediaItemID: "m1", Title: "Zodiac"},
			{MediaItemID: "m2", Title: "Alien", Rating: ptr(3.0)},
			{MediaItemID: "m3", Title: "Brazil"},
			{MediaItemID: "m4", Title: "Heat", Rating: ptr(4.5)},
		}
	}

	asc := build()
	Sort(asc, domain.SortSpec{By: domain.SortRating, Direction: domain.Asc})
	assert.Equal(t, []string{"m2", "m4", "m3", "m1"}, ids(asc))

	desc := build()
	Sort(desc, domain.SortSpec{By: domain.SortRating, Direction: domain.Desc})
	assert.Equal(t, []string{"m4", "m2", "m3", "m1"}, ids(desc))
}

func TestSort_TitleIgnoresCase(t *testing.T) {
	items := []domain.ResolvedItem{
		{MediaItemID: "m1", Title: "banshee"},
		{MediaItemID: "m2", Title: "Arrival"},
		{MediaItemID: "m3", Title: "Cube"},
	}
	Sort(items, domain.SortSpec{By: domain.SortTitle, Direction: domain.Asc})
	assert.Equal(t, []string{"m2", "m1", "m3"}, ids(items))

	Sort(items, domain.SortSpec{By: domain.SortTitle, Direction: domain.Desc})
	assert.Equal(t, []string{"m3", "m1", "m2"}, ids(items))
}

func TestSort_TitleTiesFallBackToRecency(t *testing.T) {
	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	items := []domain.ResolvedItem{
		{MediaItemID: "m1", Title: "Dune"},
		{MediaItemID: "m2", Title: "Dune", StatusUpdatedAt: &older},
		{MediaItemID: "m3", Title: "Dune", StatusUpdatedAt: &newer},
	}
	Sort(items, domain.SortSpec{By: domain.SortTitle, Direction: domain.Asc})
	assert.Equal(t, []string{"m3", "m2", "m1"}, ids(items))
}

func TestSort_NumericTiesFallBackToTitleThenID(t *testing.T) {
	items := []domain.ResolvedItem{
		{MediaItemID: "m9", Title: "Solaris", ReleaseYear: ptr(1972)},
		{MediaItemID: "m2", Title: "Stalker", ReleaseYear: ptr(1979)},
		{MediaItemID: "m1", Title: "Solaris", ReleaseYear: ptr(1972)},
		{MediaItemID: "m3", Title: "Mirror", ReleaseYear: ptr(1972)},
	}
	Sort(items, domain.SortSpec{By: domain.SortReleaseYear, Direction: domain.Desc})
	assert.Equal(t, []string{"m2", "m3", "m1", "m9"}, ids(items))
}

func TestSort_UnknownKeyUsesDefault(t *testing.T) {
	older := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	newer := older.AddDate(0, 1, 0)

	items := []domain.ResolvedItem{
		{MediaItemID: "m1", Title: "A", StatusUpdatedAt: &older},
		{MediaItemID: "m2", Title: "B"},
		{MediaItemID: "m3", Title: "C", StatusUpdatedAt: &newer},
	}
	Sort(items, domain.SortSpec{By: "popularity", Direction: domain.Asc})
	assert.Equal(t, []string{"m3", "m1", "m2"}, ids(items))
}

func TestSort_WatchedYear(t *testing.T) {
	items := []domain.ResolvedItem{
		{MediaItemID: "m1", Title: "One", WatchedYear: ptr(2023)},
		{MediaItemID: "m2", Title: "Two"},
		{MediaItemID: "m3", Title: "Three", WatchedYear: ptr(2021)},
	}
	Sort(items, domain.SortSpec{By: domain.SortWatchedYear, Direction: domain.Asc})
	assert.Equal(t, []string{"m3", "m1", "m2"}, ids(items))
}
