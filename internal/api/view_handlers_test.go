package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdotfite/couchlist/internal/config"
	"github.com/jdotfite/couchlist/internal/domain"
)

func TestStatusView(t *testing.T) {
	ts := setupTestServer(t, config.PreviewConfig{})
	viewer := ts.user(t, "user-1")
	ts.user(t, "user-2")
	ts.media(t, "media-1", "Arrival")
	ts.media(t, "media-2", "Brazil")
	ts.record(t, "user-1", "media-1", domain.StatusWatchlist)
	ts.record(t, "user-2", "media-2", domain.StatusWatchlist)

	share := domain.LibraryShare{OwnerID: "user-2", ViewerID: "user-1", Scope: domain.ShareScopeStatus, ScopeValue: "watchlist"}
	require.NoError(t, ts.store.ShareLibrary(context.Background(), share))
	require.NoError(t, ts.store.AcceptLibraryShare(context.Background(), share))

	resp := ts.api.Get("/api/v1/views/status/planned?sort_by=title", viewer)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	items := decode[ItemsResponse](t, resp.Body.Bytes()).Data.Items
	assert.Equal(t, []string{"media-1", "media-2"}, itemIDs(items))
	assert.Equal(t, "user-2", items[1].OwnerID)

	resp = ts.api.Get("/api/v1/views/status/planned?limit=1&sort_by=title", viewer)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 1, decode[ItemsResponse](t, resp.Body.Bytes()).Data.Count)

	resp = ts.api.Get("/api/v1/views/status/planned", viewer)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []string{"media-2", "media-1"}, itemIDs(decode[ItemsResponse](t, resp.Body.Bytes()).Data.Items))

	resp = ts.api.Get("/api/v1/views/status/planned?sort_direction=asc", viewer)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []string{"media-1", "media-2"}, itemIDs(decode[ItemsResponse](t, resp.Body.Bytes()).Data.Items))

	resp = ts.api.Get("/api/v1/views/status/abandoned", viewer)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestTagView(t *testing.T) {
	ts := setupTestServer(t, config.PreviewConfig{})
	viewer := ts.user(t, "user-1")
	ts.media(t, "media-1", "Arrival")
	ts.record(t, "user-1", "media-1", domain.StatusFinished)
	require.NoError(t, ts.store.AddTag(context.Background(), "user-1", "media-1", "favorite"))

	resp := ts.api.Get("/api/v1/views/tags/favorite", viewer)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	items := decode[ItemsResponse](t, resp.Body.Bytes()).Data.Items
	require.Len(t, items, 1)
	assert.True(t, items[0].IsFavorite)
}
