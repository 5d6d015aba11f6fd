package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/jdotfite/couchlist/internal/access"
	"github.com/jdotfite/couchlist/internal/config"
	"github.com/jdotfite/couchlist/internal/domain"
	"github.com/jdotfite/couchlist/internal/resolver"
	"github.com/jdotfite/couchlist/internal/service"
	"github.com/jdotfite/couchlist/internal/store/sqlite"
	"github.com/jdotfite/couchlist/internal/validation"
)

// testEnvelope decodes the response envelope around data of type T.
type testEnvelope[T any] struct {
	Version int               `json:"v"`
	Success bool              `json:"success"`
	Data    T                 `json:"data"`
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details"`
}

type testServer struct {
	*Server
	api   humatest.TestAPI
	clock time.Time
}

// setupTestServer wires the full stack over a temporary database.
func setupTestServer(t *testing.T, preview config.PreviewConfig) *testServer {
	t.Helper()

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	if preview.MaxLimit == 0 {
		preview.MaxLimit = 50
	}
	if preview.RatePerSecond == 0 {
		preview.RatePerSecond = 100
		preview.Burst = 100
	}

	logger := slog.New(slog.DiscardHandler)
	directory := access.NewDirectory(st, logger)
	res := resolver.New(st, directory, logger)
	services := &Services{
		Lists: service.NewListService(st, res, directory, validation.New(), config.ListsConfig{}, preview, logger),
		Views: service.NewViewService(res, directory, logger),
	}

	s := NewServer(st, services, config.ServerConfig{AllowedOrigins: []string{"*"}}, preview, logger)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
		clock:  time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (ts *testServer) user(t *testing.T, id string) string {
	t.Helper()
	require.NoError(t, ts.store.CreateUser(context.Background(), id, "User "+id))
	return "X-User-ID: " + id
}

func (ts *testServer) media(t *testing.T, id, title string) {
	t.Helper()
	require.NoError(t, ts.store.UpsertMediaItem(context.Background(), &domain.MediaItem{
		ID: id, Type: domain.MediaTypeMovie, Title: title,
	}))
}

func (ts *testServer) record(t *testing.T, userID, mediaID string, status domain.Status) {
	t.Helper()
	ts.clock = ts.clock.Add(time.Hour)
	require.NoError(t, ts.store.SetRecord(context.Background(), &domain.TaggedMediaRecord{
		UserID: userID, MediaItemID: mediaID, Status: status, StatusUpdatedAt: ts.clock,
	}))
}

func decode[T any](t *testing.T, body []byte) testEnvelope[T] {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &env), "body: %s", body)
	return env
}
