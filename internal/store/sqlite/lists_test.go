package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jdotfite/couchlist/internal/domain"
	"github.com/jdotfite/couchlist/internal/store"
)

func TestCreateAndGetList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")

	now := time.Now()
	list := &domain.List{
		CreatedAt:   now,
		UpdatedAt:   now,
		ID:          "list-1",
		OwnerID:     "user-1",
		Slug:        "nineties-horror",
		Name:        "Nineties Horror",
		Description: "Scary and old",
		Type:        domain.ListTypeSmart,
		Rules: domain.FilterRules{
			Genres:         []string{"horror"},
			ReleaseYearMin: ptr(1990),
			ReleaseYearMax: ptr(1999),
		},
		Sort:      domain.SortSpec{By: domain.SortReleaseYear, Direction: domain.Asc},
		ItemLimit: 25,
	}

	if err := s.CreateList(ctx, list, nil); err != nil {
		t.Fatalf("CreateList: %v", err)
	}

	got, err := s.GetList(ctx, "list-1")
	if err != nil {
		t.Fatalf("GetList: %v", err)
	}

	if got.Name != list.Name || got.Slug != list.Slug || got.Description != list.Description {
		t.Errorf("got %q/%q/%q", got.Name, got.Slug, got.Description)
	}
	if got.Type != domain.ListTypeSmart {
		t.Errorf("Type: got %q", got.Type)
	}
	if got.Sort != list.Sort {
		t.Errorf("Sort: got %+v, want %+v", got.Sort, list.Sort)
	}
	if got.ItemLimit != 25 {
		t.Errorf("ItemLimit: got %d", got.ItemLimit)
	}
	if len(got.Rules.Genres) != 1 || got.Rules.Genres[0] != "horror" {
		t.Errorf("Rules.Genres: got %v", got.Rules.Genres)
	}
	if got.Rules.ReleaseYearMin == nil || *got.Rules.ReleaseYearMin != 1990 {
		t.Errorf("Rules.ReleaseYearMin: got %v", got.Rules.ReleaseYearMin)
	}
	if got.CreatedAt.Unix() != now.Unix() {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, now)
	}

	bySlug, err := s.GetListBySlug(ctx, "user-1", "nineties-horror")
	if err != nil {
		t.Fatalf("GetListBySlug: %v", err)
	}
	if bySlug.ID != "list-1" {
		t.Errorf("GetListBySlug: got %s", bySlug.ID)
	}
}

func TestGetList_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetList(context.Background(), "nonexistent")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected store.ErrNotFound, got %v", err)
	}
}

func TestCreateList_AppendsPosition(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestUser(t, s, "user-2")

	a := insertTestList(t, s, "list-a", "user-1", domain.ListTypeManual)
	b := insertTestList(t, s, "list-b", "user-1", domain.ListTypeManual)
	other := insertTestList(t, s, "list-c", "user-2", domain.ListTypeManual)

	if a.Position != 0 || b.Position != 1 {
		t.Errorf("positions: got %d, %d; want 0, 1", a.Position, b.Position)
	}
	if other.Position != 0 {
		t.Errorf("positions are per owner: got %d", other.Position)
	}

	lists, err := s.ListListsByOwner(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListListsByOwner: %v", err)
	}
	if len(lists) != 2 || lists[0].ID != "list-a" || lists[1].ID != "list-b" {
		t.Errorf("unexpected order: %v", lists)
	}
}

func TestCreateList_DuplicateSlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestList(t, s, "list-a", "user-1", domain.ListTypeManual)

	dup := &domain.List{
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
		ID: "list-b", OwnerID: "user-1", Slug: "list-a", Name: "Again",
		Type: domain.ListTypeManual, Sort: domain.DefaultSort(),
	}
	if err := s.CreateList(ctx, dup, nil); !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected store.ErrAlreadyExists, got %v", err)
	}
}

func TestCreateList_RollsBackOnPinFailure(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestMedia(t, s, "media-1", domain.MediaTypeMovie, "Alien", 1979)

	list := &domain.List{
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
		ID: "list-1", OwnerID: "user-1", Slug: "half", Name: "Half",
		Type: domain.ListTypeManual, Sort: domain.DefaultSort(),
	}
	pins := []domain.Pin{
		{MediaItemID: "media-1", Type: domain.PinInclude},
		{MediaItemID: "media-missing", Type: domain.PinInclude}, // violates FK
	}

	if err := s.CreateList(ctx, list, pins); err == nil {
		t.Fatal("expected error for missing media item")
	}

	if _, err := s.GetList(ctx, "list-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("list should not exist after rollback, got %v", err)
	}
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM list_pins`).Scan(&n); err != nil {
		t.Fatalf("count pins: %v", err)
	}
	if n != 0 {
		t.Errorf("expected no pins after rollback, got %d", n)
	}
}

func TestUpdateList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	list := insertTestList(t, s, "list-1", "user-1", domain.ListTypeManual)
	insertTestList(t, s, "list-2", "user-1", domain.ListTypeManual)

	list.Name = "Renamed"
	list.Type = domain.ListTypeHybrid
	list.Rules = domain.FilterRules{MediaType: []string{"movie"}}
	list.UpdatedAt = time.Now()
	if err := s.UpdateList(ctx, list); err != nil {
		t.Fatalf("UpdateList: %v", err)
	}

	got, err := s.GetList(ctx, "list-1")
	if err != nil {
		t.Fatalf("GetList: %v", err)
	}
	if got.Name != "Renamed" || got.Type != domain.ListTypeHybrid || len(got.Rules.MediaType) != 1 {
		t.Errorf("update not persisted: %+v", got)
	}

	list.Slug = "list-2"
	if err := s.UpdateList(ctx, list); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected slug conflict, got %v", err)
	}

	missing := *list
	missing.ID = "nope"
	missing.Slug = "nope"
	if err := s.UpdateList(ctx, &missing); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected store.ErrNotFound, got %v", err)
	}
}

func TestDeleteList_CascadesPinsAndGrants(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestUser(t, s, "user-2")
	insertTestMedia(t, s, "media-1", domain.MediaTypeMovie, "Alien", 1979)
	insertTestList(t, s, "list-1", "user-1", domain.ListTypeManual,
		domain.Pin{MediaItemID: "media-1", Type: domain.PinInclude})

	if err := s.InviteCollaborator(ctx, "list-1", "user-2"); err != nil {
		t.Fatalf("InviteCollaborator: %v", err)
	}

	if err := s.DeleteList(ctx, "list-1"); err != nil {
		t.Fatalf("DeleteList: %v", err)
	}

	for _, table := range []string{"list_pins", "list_collaborators"} {
		var n int
		if err := s.db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if n != 0 {
			t.Errorf("%s: expected 0 rows after delete, got %d", table, n)
		}
	}

	if err := s.DeleteList(ctx, "list-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete: expected store.ErrNotFound, got %v", err)
	}
}

func TestGetList_UndecodableRulesMatchNothing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestMedia(t, s, "media-1", domain.MediaTypeMovie, "Heat", 1995)
	insertTestRecord(t, s, "user-1", "media-1", domain.StatusFinished, nil, time.Now())
	insertTestList(t, s, "list-1", "user-1", domain.ListTypeSmart)

	if _, err := s.db.ExecContext(ctx,
		`UPDATE lists SET filter_rules = ? WHERE id = ?`, `{"status": "finished"`, "list-1"); err != nil {
		t.Fatalf("corrupt rules: %v", err)
	}

	list, err := s.GetList(ctx, "list-1")
	if err != nil {
		t.Fatalf("GetList: %v", err)
	}
	items, err := s.MatchItems(ctx, list.Rules.Lenient(), []string{"user-1"})
	if err != nil {
		t.Fatalf("MatchItems: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("undecodable rules matched %d items, want none", len(items))
	}
}
