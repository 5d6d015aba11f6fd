// Package resolver turns a list definition into its ordered item sequence.
package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jdotfite/couchlist/internal/domain"
	domainerrors "github.com/jdotfite/couchlist/internal/errors"
	"github.com/jdotfite/couchlist/internal/store"
)

// Store is the read surface the resolver needs.
type Store interface {
	GetList(ctx context.Context, id string) (*domain.List, error)
	MatchItems(ctx context.Context, rules domain.FilterRules, owners []string) ([]domain.ResolvedItem, error)
	IncludedPinItems(ctx context.Context, listID, viewerID string) ([]domain.ResolvedItem, error)
	ExcludedPinIDs(ctx context.Context, listID string) ([]string, error)
}

// Directory answers access and owner-set questions.
type Directory interface {
	CanRead(ctx context.Context, userID string, list *domain.List) (bool, error)
	VisibleOwners(ctx context.Context, viewerID string, scope domain.OwnerScope) ([]string, error)
}

// Options adjusts a single resolution.
type Options struct {
	// Resort re-orders a manual list's pins (and a hybrid list's pinned
	// prefix) by the sort spec instead of pin position.
	Resort bool
	// Sort overrides the list's stored sort spec when set.
	Sort *domain.SortSpec
	// Direction overrides only the direction of the effective sort spec.
	Direction domain.Direction
}

// Resolver computes resolved lists. It never writes.
type Resolver struct {
	store     Store
	directory Directory
	logger    *slog.Logger
}

// New creates a Resolver.
func New(s Store, d Directory, logger *slog.Logger) *Resolver {
	return &Resolver{store: s, directory: d, logger: logger}
}

// ResolveByID loads the list and resolves it for viewerID.
func (r *Resolver) ResolveByID(ctx context.Context, viewerID, listID string, opts Options) ([]domain.ResolvedItem, error) {
	list, err := r.store.GetList(ctx, listID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domainerrors.NotFoundf("list %s not found", listID)
		}
		return nil, fmt.Errorf("load list: %w", err)
	}
	return r.Resolve(ctx, viewerID, list, opts)
}

// Resolve returns the list's items as seen by viewerID.
// Access is checked before any item query runs.
func (r *Resolver) Resolve(ctx context.Context, viewerID string, list *domain.List, opts Options) ([]domain.ResolvedItem, error) {
	ok, err := r.directory.CanRead(ctx, viewerID, list)
	if err != nil {
		return nil, fmt.Errorf("check access: %w", err)
	}
	if !ok {
		return nil, domainerrors.Forbidden("you do not have access to this list")
	}

	spec := r.sortSpec(list, opts)

	var items []domain.ResolvedItem
	pins, rules := list.Type.UsesPins(), list.Type.UsesRules()
	switch {
	case !list.Type.Valid():
		return nil, domainerrors.Internal(fmt.Sprintf("list %s has unknown type %q", list.ID, list.Type))
	case pins && rules:
		items, err = r.hybrid(ctx, viewerID, list, spec, opts.Resort)
	case pins:
		items, err = r.pinned(ctx, viewerID, list, spec, opts.Resort)
	case rules:
		items, err = r.filtered(ctx, viewerID, list, spec, nil)
	}
	if err != nil {
		return nil, err
	}

	items = applyLimit(items, list.ItemLimit)
	r.logger.Debug("list resolved",
		"list_id", list.ID,
		"viewer_id", viewerID,
		"list_type", list.Type,
		"item_count", len(items),
	)
	return items, nil
}

// ResolveRules evaluates ad-hoc rules over an explicit owner set. Preview and
// system views use it; owners must already be ordered viewer first.
func (r *Resolver) ResolveRules(ctx context.Context, owners []string, rules domain.FilterRules, spec domain.SortSpec, limit int) ([]domain.ResolvedItem, error) {
	matches, err := r.store.MatchItems(ctx, rules, owners)
	if err != nil {
		return nil, fmt.Errorf("match items: %w", err)
	}
	items := dedupe(matches, owners)
	Sort(items, spec)
	return applyLimit(items, limit), nil
}

func (r *Resolver) sortSpec(list *domain.List, opts Options) domain.SortSpec {
	spec := list.Sort
	if opts.Sort != nil {
		spec = *opts.Sort
	}
	resolved := spec.OrDefault()
	if resolved != spec {
		r.logger.Debug("falling back to default sort",
			"list_id", list.ID,
			"sort_by", spec.By,
			"sort_direction", spec.Direction,
		)
	}
	return resolved.WithDirection(opts.Direction)
}

// pinned returns the include pins joined to the viewer's own records.
func (r *Resolver) pinned(ctx context.Context, viewerID string, list *domain.List, spec domain.SortSpec, resort bool) ([]domain.ResolvedItem, error) {
	items, err := r.store.IncludedPinItems(ctx, list.ID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("load pinned items: %w", err)
	}
	for _, it := range items {
		if it.Status == nil {
			r.logger.Debug("pinned item has no viewer record",
				"list_id", list.ID,
				"media_item_id", it.MediaItemID,
			)
		}
	}
	if resort {
		Sort(items, spec)
	}
	return items, nil
}

// filtered evaluates the list's rules over its visible owner set, skipping
// any media item in skip.
func (r *Resolver) filtered(ctx context.Context, viewerID string, list *domain.List, spec domain.SortSpec, skip map[string]struct{}) ([]domain.ResolvedItem, error) {
	owners, err := r.directory.VisibleOwners(ctx, viewerID, domain.ListScope(list))
	if err != nil {
		return nil, fmt.Errorf("resolve owners: %w", err)
	}
	matches, err := r.store.MatchItems(ctx, list.Rules.Lenient(), owners)
	if err != nil {
		return nil, fmt.Errorf("match items: %w", err)
	}

	items := dedupe(matches, preferViewer(viewerID, owners))
	if len(skip) > 0 {
		kept := items[:0]
		for _, it := range items {
			if _, ok := skip[it.MediaItemID]; !ok {
				kept = append(kept, it)
			}
		}
		items = kept
	}
	Sort(items, spec)
	return items, nil
}

func (r *Resolver) hybrid(ctx context.Context, viewerID string, list *domain.List, spec domain.SortSpec, resort bool) ([]domain.ResolvedItem, error) {
	pinned, err := r.pinned(ctx, viewerID, list, spec, resort)
	if err != nil {
		return nil, err
	}
	excluded, err := r.store.ExcludedPinIDs(ctx, list.ID)
	if err != nil {
		return nil, fmt.Errorf("load excluded pins: %w", err)
	}

	skip := make(map[string]struct{}, len(pinned)+len(excluded))
	for _, it := range pinned {
		skip[it.MediaItemID] = struct{}{}
	}
	for _, id := range excluded {
		skip[id] = struct{}{}
	}

	matched, err := r.filtered(ctx, viewerID, list, spec, skip)
	if err != nil {
		return nil, err
	}
	return append(pinned, matched...), nil
}

// preferViewer moves viewerID to the front of owners when present.
func preferViewer(viewerID string, owners []string) []string {
	out := make([]string, 0, len(owners))
	for _, id := range owners {
		if id == viewerID {
			out = append(out, id)
		}
	}
	for _, id := range owners {
		if id != viewerID {
			out = append(out, id)
		}
	}
	return out
}

// dedupe keeps one record per media item, choosing the owner that comes
// first in owners. First-seen order of items is preserved.
func dedupe(items []domain.ResolvedItem, owners []string) []domain.ResolvedItem {
	rank := make(map[string]int, len(owners))
	for i, id := range owners {
		if _, ok := rank[id]; !ok {
			rank[id] = i
		}
	}
	rankOf := func(owner string) int {
		if r, ok := rank[owner]; ok {
			return r
		}
		return len(owners)
	}

	index := make(map[string]int, len(items))
	out := make([]domain.ResolvedItem, 0, len(items))
	for _, it := range items {
		i, seen := index[it.MediaItemID]
		if !seen {
			index[it.MediaItemID] = len(out)
			out = append(out, it)
			continue
		}
		if rankOf(it.OwnerID) < rankOf(out[i].OwnerID) {
			out[i] = it
		}
	}
	return out
}

// applyLimit truncates items to limit; zero or negative means unbounded.
func applyLimit(items []domain.ResolvedItem, limit int) []domain.ResolvedItem {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
