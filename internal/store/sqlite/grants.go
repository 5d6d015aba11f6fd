package sqlite

import (
	"context"
	"time"

	"github.com/jdotfite/couchlist/internal/domain"
	"github.com/jdotfite/couchlist/internal/store"
)

// Invites are issued and accepted by the surrounding sharing workflow. The
// directory only ever reads accepted rows.

// InviteCollaborator records a pending collaborator grant on a list.
// Returns store.ErrAlreadyExists if the user is already invited.
func (s *Store) InviteCollaborator(ctx context.Context, listID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO list_collaborators (list_id, user_id, invited_at) VALUES (?, ?, ?)`,
		listID, userID, formatTime(time.Now()))
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

// AcceptCollaborator marks a collaborator grant accepted.
// Returns store.ErrNotFound if no invite exists.
func (s *Store) AcceptCollaborator(ctx context.Context, listID, userID string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE list_collaborators SET accepted_at = COALESCE(accepted_at, ?) WHERE list_id = ? AND user_id = ?`,
		formatTime(time.Now()), listID, userID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// AcceptedCollaborators returns the user IDs holding an accepted grant on a list.
func (s *Store) AcceptedCollaborators(ctx context.Context, listID string) ([]string, error) {
	var ids []string
	err := s.x.SelectContext(ctx, &ids, `
		SELECT user_id FROM list_collaborators
		WHERE list_id = ? AND accepted_at IS NOT NULL
		ORDER BY user_id`, listID)
	return ids, err
}

// IsAcceptedCollaborator reports whether userID holds an accepted grant on a list.
func (s *Store) IsAcceptedCollaborator(ctx context.Context, listID, userID string) (bool, error) {
	var n int
	err := s.x.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM list_collaborators
		WHERE list_id = ? AND user_id = ? AND accepted_at IS NOT NULL`, listID, userID)
	return n > 0, err
}

// ShareLibrary records a pending share of one status bucket or tag from owner to viewer.
// Returns store.ErrAlreadyExists if the share already exists.
func (s *Store) ShareLibrary(ctx context.Context, share domain.LibraryShare) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO library_shares (owner_id, viewer_id, scope_kind, scope_value, invited_at)
		VALUES (?, ?, ?, ?, ?)`,
		share.OwnerID, share.ViewerID, string(share.Scope), share.ScopeValue, formatTime(time.Now()))
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

// AcceptLibraryShare marks a library share accepted.
// Returns store.ErrNotFound if no such share exists.
func (s *Store) AcceptLibraryShare(ctx context.Context, share domain.LibraryShare) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE library_shares SET accepted_at = COALESCE(accepted_at, ?)
		WHERE owner_id = ? AND viewer_id = ? AND scope_kind = ? AND scope_value = ?`,
		formatTime(time.Now()), share.OwnerID, share.ViewerID, string(share.Scope), share.ScopeValue)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// SharingOwners returns the owners who have an accepted share of the given
// scope with viewerID, in ID order.
func (s *Store) SharingOwners(ctx context.Context, viewerID string, scope domain.ShareScope, value string) ([]string, error) {
	var ids []string
	err := s.x.SelectContext(ctx, &ids, `
		SELECT DISTINCT owner_id FROM library_shares
		WHERE viewer_id = ? AND scope_kind = ? AND scope_value = ? AND accepted_at IS NOT NULL
		ORDER BY owner_id`, viewerID, string(scope), value)
	return ids, err
}
