package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/jdotfite/couchlist/internal/domain"
	"github.com/jdotfite/couchlist/internal/store"
)

func setupPinFixture(t *testing.T) *Store {
	t.Helper()
	s := newTestStore(t)
	insertTestUser(t, s, "user-1")
	for _, id := range []string{"media-a", "media-b", "media-c"} {
		insertTestMedia(t, s, id, domain.MediaTypeMovie, "Title "+id, 2000)
	}
	insertTestList(t, s, "list-1", "user-1", domain.ListTypeHybrid)
	return s
}

func TestAddPin_AssignsAppendPositions(t *testing.T) {
	s := setupPinFixture(t)
	ctx := context.Background()

	for i, id := range []string{"media-a", "media-b"} {
		pin, err := s.AddPin(ctx, "list-1", id, domain.PinInclude)
		if err != nil {
			t.Fatalf("AddPin %s: %v", id, err)
		}
		if pin.Position != i {
			t.Errorf("%s: got position %d, want %d", id, pin.Position, i)
		}
	}

	// Exclude pins do not consume include positions.
	if _, err := s.AddPin(ctx, "list-1", "media-c", domain.PinExclude); err != nil {
		t.Fatalf("AddPin exclude: %v", err)
	}
	if err := s.RemovePin(ctx, "list-1", "media-c"); err != nil {
		t.Fatalf("RemovePin: %v", err)
	}
	pin, err := s.AddPin(ctx, "list-1", "media-c", domain.PinInclude)
	if err != nil {
		t.Fatalf("AddPin: %v", err)
	}
	if pin.Position != 2 {
		t.Errorf("got position %d, want 2", pin.Position)
	}
}

func TestAddPin_SameTypeIsIdempotent(t *testing.T) {
	s := setupPinFixture(t)
	ctx := context.Background()

	first, err := s.AddPin(ctx, "list-1", "media-a", domain.PinInclude)
	if err != nil {
		t.Fatalf("AddPin: %v", err)
	}
	if _, err := s.AddPin(ctx, "list-1", "media-b", domain.PinInclude); err != nil {
		t.Fatalf("AddPin: %v", err)
	}
	again, err := s.AddPin(ctx, "list-1", "media-a", domain.PinInclude)
	if err != nil {
		t.Fatalf("AddPin again: %v", err)
	}
	if again.Position != first.Position {
		t.Errorf("position changed: %d -> %d", first.Position, again.Position)
	}

	pins, err := s.ListPins(ctx, "list-1")
	if err != nil {
		t.Fatalf("ListPins: %v", err)
	}
	if len(pins) != 2 {
		t.Fatalf("expected 2 pins, got %d", len(pins))
	}
}

func TestAddPin_OppositeTypeOverwrites(t *testing.T) {
	s := setupPinFixture(t)
	ctx := context.Background()

	if _, err := s.AddPin(ctx, "list-1", "media-a", domain.PinInclude); err != nil {
		t.Fatalf("AddPin include: %v", err)
	}
	if _, err := s.AddPin(ctx, "list-1", "media-a", domain.PinExclude); err != nil {
		t.Fatalf("AddPin exclude: %v", err)
	}

	pins, err := s.ListPins(ctx, "list-1")
	if err != nil {
		t.Fatalf("ListPins: %v", err)
	}
	if len(pins) != 1 || pins[0].Type != domain.PinExclude {
		t.Fatalf("expected single exclude pin, got %+v", pins)
	}

	excluded, err := s.ExcludedPinIDs(ctx, "list-1")
	if err != nil {
		t.Fatalf("ExcludedPinIDs: %v", err)
	}
	if len(excluded) != 1 || excluded[0] != "media-a" {
		t.Errorf("ExcludedPinIDs: got %v", excluded)
	}
}

func TestRemovePin_MissingIsNoop(t *testing.T) {
	s := setupPinFixture(t)

	if err := s.RemovePin(context.Background(), "list-1", "media-a"); err != nil {
		t.Fatalf("RemovePin on missing pin: %v", err)
	}
}

func TestReorderPins(t *testing.T) {
	s := setupPinFixture(t)
	ctx := context.Background()

	for _, id := range []string{"media-a", "media-b", "media-c"} {
		if _, err := s.AddPin(ctx, "list-1", id, domain.PinInclude); err != nil {
			t.Fatalf("AddPin %s: %v", id, err)
		}
	}

	if err := s.ReorderPins(ctx, "list-1", []string{"media-c"}); err != nil {
		t.Fatalf("ReorderPins: %v", err)
	}

	pins, err := s.ListPins(ctx, "list-1")
	if err != nil {
		t.Fatalf("ListPins: %v", err)
	}
	want := []string{"media-c", "media-a", "media-b"}
	for i, pin := range pins {
		if pin.MediaItemID != want[i] || pin.Position != i {
			t.Errorf("pin %d: got %s@%d, want %s@%d", i, pin.MediaItemID, pin.Position, want[i], i)
		}
	}

	err = s.ReorderPins(ctx, "list-1", []string{"media-a", "media-a"})
	var storeErr *store.Error
	if !errors.As(err, &storeErr) || storeErr.Code != store.ErrInvalidInput.Code {
		t.Errorf("expected invalid input for duplicate ID, got %v", err)
	}

	if err := s.ReorderPins(ctx, "list-1", []string{"media-zzz"}); !errors.As(err, &storeErr) {
		t.Errorf("expected invalid input for unknown ID, got %v", err)
	}
}
