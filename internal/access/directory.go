// Package access answers who may see a list and whose library records a view unions.
package access

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/jdotfite/couchlist/internal/domain"
)

// GrantStore reads accepted sharing grants.
type GrantStore interface {
	AcceptedCollaborators(ctx context.Context, listID string) ([]string, error)
	IsAcceptedCollaborator(ctx context.Context, listID, userID string) (bool, error)
	SharingOwners(ctx context.Context, viewerID string, scope domain.ShareScope, value string) ([]string, error)
}

// Directory is the single source of visible owner sets and list access decisions.
type Directory struct {
	grants GrantStore
	logger *slog.Logger
}

// NewDirectory creates a Directory over a grant store.
func NewDirectory(grants GrantStore, logger *slog.Logger) *Directory {
	return &Directory{grants: grants, logger: logger}
}

// CanRead reports whether userID may resolve the list: the owner always can,
// accepted collaborators can on shareable list types.
func (d *Directory) CanRead(ctx context.Context, userID string, list *domain.List) (bool, error) {
	if list.OwnerID == userID {
		return true, nil
	}
	if !list.Type.Shareable() {
		return false, nil
	}
	ok, err := d.grants.IsAcceptedCollaborator(ctx, list.ID, userID)
	if err != nil {
		return false, fmt.Errorf("check collaborator: %w", err)
	}
	return ok, nil
}

// CanEditPins reports whether userID may add, remove or reorder pins.
// Collaborators curate pins on the lists they can read.
func (d *Directory) CanEditPins(ctx context.Context, userID string, list *domain.List) (bool, error) {
	return d.CanRead(ctx, userID, list)
}

// CanEditDefinition reports whether userID may change or delete the list itself.
func (d *Directory) CanEditDefinition(userID string, list *domain.List) bool {
	return list.OwnerID == userID
}

// VisibleOwners returns the users whose records a view unions, viewer first
// and the rest in ID order.
//
// For a list scope that is the owner plus accepted collaborators on shareable
// types. For status and tag scopes it is the viewer plus every owner with an
// accepted share of that scope.
func (d *Directory) VisibleOwners(ctx context.Context, viewerID string, scope domain.OwnerScope) ([]string, error) {
	var others []string

	switch {
	case scope.List != nil:
		list := scope.List
		others = append(others, list.OwnerID)
		if list.Type.Shareable() {
			collaborators, err := d.grants.AcceptedCollaborators(ctx, list.ID)
			if err != nil {
				return nil, fmt.Errorf("load collaborators: %w", err)
			}
			others = append(others, collaborators...)
		}
		// A viewer outside the list's owner set sees only the owner set.
		if !slices.Contains(others, viewerID) {
			return orderOwners("", others), nil
		}
	case scope.Share != "":
		owners, err := d.grants.SharingOwners(ctx, viewerID, scope.Share, scope.Value)
		if err != nil {
			return nil, fmt.Errorf("load library shares: %w", err)
		}
		others = owners
	}

	owners := orderOwners(viewerID, others)
	d.logger.Debug("visible owners resolved", "viewer_id", viewerID, "owner_count", len(owners))
	return owners, nil
}

// orderOwners puts first (when non-empty) ahead of the de-duplicated, sorted rest.
func orderOwners(first string, rest []string) []string {
	sorted := slices.Clone(rest)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	out := make([]string, 0, len(sorted)+1)
	if first != "" {
		out = append(out, first)
	}
	for _, id := range sorted {
		if id != first {
			out = append(out, id)
		}
	}
	return out
}
