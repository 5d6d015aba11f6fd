package resolver

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jdotfite/couchlist/internal/domain"
)

// Sort orders items in place by spec. Unknown keys fall back to the default sort.
//
// Items missing the primary key's value go after every item that has one,
// whichever the direction. Ties fall back to title ascending, or to
// status_updated_at descending when title is the primary key, and finally to
// media item ID so the order is total.
func Sort(items []domain.ResolvedItem, spec domain.SortSpec) {
	spec = spec.OrDefault()
	// A collator keeps internal buffers, so each call gets its own.
	titles := collate.New(language.Und, collate.IgnoreCase)

	slices.SortStableFunc(items, func(a, b domain.ResolvedItem) int {
		if c := comparePrimary(a, b, spec, titles); c != 0 {
			return c
		}
		var c int
		if spec.By == domain.SortTitle {
			c = compareTimes(a.StatusUpdatedAt, b.StatusUpdatedAt, true)
		} else {
			c = titles.CompareString(a.Title, b.Title)
		}
		if c != 0 {
			return c
		}
		return strings.Compare(a.MediaItemID, b.MediaItemID)
	})
}

func comparePrimary(a, b domain.ResolvedItem, spec domain.SortSpec, titles *collate.Collator) int {
	desc := spec.Direction == domain.Desc
	switch spec.By {
	case domain.SortTitle:
		return directed(titles.CompareString(a.Title, b.Title), desc)
	case domain.SortReleaseYear:
		return nullsLast(a.ReleaseYear, b.ReleaseYear, desc)
	case domain.SortRating:
		return nullsLast(a.Rating, b.Rating, desc)
	case domain.SortWatchedYear:
		return nullsLast(a.WatchedYear, b.WatchedYear, desc)
	default:
		return compareTimes(a.StatusUpdatedAt, b.StatusUpdatedAt, desc)
	}
}

// nullsLast orders present values by direction and puts nil after any present value.
func nullsLast[T cmp.Ordered](a, b *T, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return directed(cmp.Compare(*a, *b), desc)
}

func compareTimes(a, b *time.Time, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return directed(a.Compare(*b), desc)
}

func directed(c int, desc bool) int {
	if desc {
		return -c
	}
	return c
}
