package sqlite

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jdotfite/couchlist/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func insertTestUser(t *testing.T, s *Store, id string) {
	t.Helper()
	if err := s.CreateUser(context.Background(), id, "User "+id); err != nil {
		t.Fatalf("insert test user %s: %v", id, err)
	}
}

func insertTestMedia(t *testing.T, s *Store, id string, mediaType domain.MediaType, title string, year int, genres ...string) {
	t.Helper()
	item := &domain.MediaItem{ID: id, Type: mediaType, Title: title, Genres: genres}
	if year != 0 {
		item.ReleaseYear = &year
	}
	if err := s.UpsertMediaItem(context.Background(), item); err != nil {
		t.Fatalf("insert test media %s: %v", id, err)
	}
}

func insertTestRecord(t *testing.T, s *Store, userID, mediaID string, status domain.Status, rating *float64, at time.Time) {
	t.Helper()
	rec := &domain.TaggedMediaRecord{
		UserID:          userID,
		MediaItemID:     mediaID,
		Status:          status,
		Rating:          rating,
		StatusUpdatedAt: at,
	}
	if err := s.SetRecord(context.Background(), rec); err != nil {
		t.Fatalf("insert test record %s/%s: %v", userID, mediaID, err)
	}
}

func insertTestList(t *testing.T, s *Store, id, ownerID string, listType domain.ListType, pins ...domain.Pin) *domain.List {
	t.Helper()
	now := time.Now()
	list := &domain.List{
		CreatedAt: now,
		UpdatedAt: now,
		ID:        id,
		OwnerID:   ownerID,
		Slug:      id,
		Name:      "List " + id,
		Type:      listType,
		Sort:      domain.DefaultSort(),
	}
	if err := s.CreateList(context.Background(), list, pins); err != nil {
		t.Fatalf("insert test list %s: %v", id, err)
	}
	return list
}

func ptr[T any](v T) *T { return &v }

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	var fk int
	if err := s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	tables := []string{
		"users", "media_items", "media_genres", "user_media", "item_tags",
		"lists", "list_pins", "list_collaborators", "library_shares",
	}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestOpen_ReopenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	insertTestUser(t, s, "user-1")
	if err := s.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	s2, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("re-open store: %v", err)
	}
	defer s2.Close()

	ok, err := s2.UserExists(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("UserExists: %v", err)
	}
	if !ok {
		t.Error("expected user to survive reopen")
	}
}

func TestAddTag_CreatesUnclassifiedRecord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestMedia(t, s, "media-1", domain.MediaTypeMovie, "Alien", 1979)

	if err := s.AddTag(ctx, "user-1", "media-1", " Favorite "); err != nil {
		t.Fatalf("AddTag: %v", err)
	}
	if err := s.AddTag(ctx, "user-1", "media-1", "favorite"); err != nil {
		t.Fatalf("AddTag again: %v", err)
	}

	rec, err := s.GetRecord(ctx, "user-1", "media-1")
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if rec.Status != "" {
		t.Errorf("Status: got %q, want empty", rec.Status)
	}
	if len(rec.Tags) != 1 || rec.Tags[0] != "favorite" {
		t.Errorf("Tags: got %v, want [favorite]", rec.Tags)
	}

	// Setting a status keeps the tags.
	insertTestRecord(t, s, "user-1", "media-1", domain.StatusWatching, nil, time.Now())
	rec, err = s.GetRecord(ctx, "user-1", "media-1")
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if rec.Status != domain.StatusWatching || len(rec.Tags) != 1 {
		t.Errorf("got status %q tags %v", rec.Status, rec.Tags)
	}

	if err := s.RemoveTag(ctx, "user-1", "media-1", "favorite"); err != nil {
		t.Fatalf("RemoveTag: %v", err)
	}
	rec, _ = s.GetRecord(ctx, "user-1", "media-1")
	if len(rec.Tags) != 0 {
		t.Errorf("Tags after remove: got %v", rec.Tags)
	}
}
