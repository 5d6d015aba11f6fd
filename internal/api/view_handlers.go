package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jdotfite/couchlist/internal/domain"
)

func (s *Server) registerViewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "statusView",
		Method:      http.MethodGet,
		Path:        "/api/v1/views/status/{status}",
		Summary:     "Status view",
		Description: "Returns every item in a status across the caller's library and libraries shared with them",
		Tags:        []string{"Views"},
	}, s.handleStatusView)

	huma.Register(s.api, huma.Operation{
		OperationID: "tagView",
		Method:      http.MethodGet,
		Path:        "/api/v1/views/tags/{tag}",
		Summary:     "Tag view",
		Description: "Returns every item carrying a tag across the caller's library and libraries shared with them",
		Tags:        []string{"Views"},
	}, s.handleTagView)
}

// ViewQuery holds sorting and limit parameters for system views.
type ViewQuery struct {
	SortBy        string `query:"sort_by" doc:"Primary sort key"`
	SortDirection string `query:"sort_direction" doc:"asc or desc"`
	Limit         int    `query:"limit" minimum:"0" doc:"Maximum items, 0 for no limit"`
}

func (q ViewQuery) sort() domain.SortSpec {
	if strings.TrimSpace(q.SortBy) == "" {
		d, _ := domain.ParseDirection(q.SortDirection)
		return domain.DefaultSort().WithDirection(d)
	}
	spec, _ := domain.ParseSortSpec(q.SortBy, q.SortDirection)
	return spec.OrDefault()
}

// StatusViewInput contains parameters for the status view.
type StatusViewInput struct {
	Status string `path:"status" doc:"Status or status alias"`
	ViewQuery
}

// TagViewInput contains parameters for the tag view.
type TagViewInput struct {
	Tag string `path:"tag" doc:"Tag name"`
	ViewQuery
}

func (s *Server) handleStatusView(ctx context.Context, input *StatusViewInput) (*ItemsOutput, error) {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.services.Views.StatusView(ctx, userID, input.Status, input.sort(), input.Limit)
	if err != nil {
		return nil, err
	}
	return toItemsOutput(items), nil
}

func (s *Server) handleTagView(ctx context.Context, input *TagViewInput) (*ItemsOutput, error) {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.services.Views.TagView(ctx, userID, input.Tag, input.sort(), input.Limit)
	if err != nil {
		return nil, err
	}
	return toItemsOutput(items), nil
}
