package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/jdotfite/couchlist/internal/domain"
	"github.com/jdotfite/couchlist/internal/store"
)

func TestCollaborators_OnlyAcceptedAreVisible(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestUser(t, s, "user-2")
	insertTestUser(t, s, "user-3")
	insertTestList(t, s, "list-1", "user-1", domain.ListTypeHybrid)

	for _, u := range []string{"user-2", "user-3"} {
		if err := s.InviteCollaborator(ctx, "list-1", u); err != nil {
			t.Fatalf("InviteCollaborator %s: %v", u, err)
		}
	}
	if err := s.InviteCollaborator(ctx, "list-1", "user-2"); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("duplicate invite: expected store.ErrAlreadyExists, got %v", err)
	}
	if err := s.AcceptCollaborator(ctx, "list-1", "user-3"); err != nil {
		t.Fatalf("AcceptCollaborator: %v", err)
	}

	ids, err := s.AcceptedCollaborators(ctx, "list-1")
	if err != nil {
		t.Fatalf("AcceptedCollaborators: %v", err)
	}
	if len(ids) != 1 || ids[0] != "user-3" {
		t.Errorf("got %v, want [user-3]", ids)
	}

	pending, err := s.IsAcceptedCollaborator(ctx, "list-1", "user-2")
	if err != nil {
		t.Fatalf("IsAcceptedCollaborator: %v", err)
	}
	if pending {
		t.Error("pending invite must not grant access")
	}

	if err := s.AcceptCollaborator(ctx, "list-1", "user-9"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("accept without invite: expected store.ErrNotFound, got %v", err)
	}
}

func TestSharingOwners(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, u := range []string{"user-1", "user-2", "user-3", "viewer"} {
		insertTestUser(t, s, u)
	}

	shares := []domain.LibraryShare{
		{OwnerID: "user-2", ViewerID: "viewer", Scope: domain.ShareScopeStatus, ScopeValue: "watching"},
		{OwnerID: "user-1", ViewerID: "viewer", Scope: domain.ShareScopeStatus, ScopeValue: "watching"},
		{OwnerID: "user-3", ViewerID: "viewer", Scope: domain.ShareScopeTag, ScopeValue: "favorite"},
	}
	for _, sh := range shares {
		if err := s.ShareLibrary(ctx, sh); err != nil {
			t.Fatalf("ShareLibrary: %v", err)
		}
	}
	for _, sh := range shares[1:] {
		if err := s.AcceptLibraryShare(ctx, sh); err != nil {
			t.Fatalf("AcceptLibraryShare: %v", err)
		}
	}

	owners, err := s.SharingOwners(ctx, "viewer", domain.ShareScopeStatus, "watching")
	if err != nil {
		t.Fatalf("SharingOwners: %v", err)
	}
	if len(owners) != 1 || owners[0] != "user-1" {
		t.Errorf("status scope: got %v, want [user-1]", owners)
	}

	owners, err = s.SharingOwners(ctx, "viewer", domain.ShareScopeTag, "favorite")
	if err != nil {
		t.Fatalf("SharingOwners: %v", err)
	}
	if len(owners) != 1 || owners[0] != "user-3" {
		t.Errorf("tag scope: got %v, want [user-3]", owners)
	}
}
