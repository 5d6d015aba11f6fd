package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jdotfite/couchlist/internal/access"
	"github.com/jdotfite/couchlist/internal/config"
	"github.com/jdotfite/couchlist/internal/domain"
	"github.com/jdotfite/couchlist/internal/resolver"
	"github.com/jdotfite/couchlist/internal/store/sqlite"
	"github.com/jdotfite/couchlist/internal/validation"
)

type testEnv struct {
	store *sqlite.Store
	lists *ListService
	views *ViewService
	clock time.Time
}

// setupServices wires the services over a temporary database.
func setupServices(t *testing.T, lists config.ListsConfig) *testEnv {
	t.Helper()

	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	logger := slog.New(slog.DiscardHandler)
	directory := access.NewDirectory(s, logger)
	res := resolver.New(s, directory, logger)
	preview := config.PreviewConfig{MaxLimit: 50, RatePerSecond: 5, Burst: 10}

	return &testEnv{
		store: s,
		lists: NewListService(s, res, directory, validation.New(), lists, preview, logger),
		views: NewViewService(res, directory, logger),
		clock: time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (e *testEnv) user(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, e.store.CreateUser(context.Background(), id, "User "+id))
}

func (e *testEnv) media(t *testing.T, id string, mediaType domain.MediaType, title string) {
	t.Helper()
	require.NoError(t, e.store.UpsertMediaItem(context.Background(), &domain.MediaItem{
		ID: id, Type: mediaType, Title: title,
	}))
}

// record classifies an item for a user. Each call is one minute newer than the last.
func (e *testEnv) record(t *testing.T, userID, mediaID string, status domain.Status, rating *float64) {
	t.Helper()
	e.clock = e.clock.Add(time.Minute)
	require.NoError(t, e.store.SetRecord(context.Background(), &domain.TaggedMediaRecord{
		UserID:          userID,
		MediaItemID:     mediaID,
		Status:          status,
		Rating:          rating,
		StatusUpdatedAt: e.clock,
	}))
}

func (e *testEnv) tag(t *testing.T, userID, mediaID, tag string) {
	t.Helper()
	require.NoError(t, e.store.AddTag(context.Background(), userID, mediaID, tag))
}

func ptr[T any](v T) *T { return &v }

func itemIDs(items []domain.ResolvedItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.MediaItemID
	}
	return out
}
