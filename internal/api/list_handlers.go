package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jdotfite/couchlist/internal/domain"
	domainerrors "github.com/jdotfite/couchlist/internal/errors"
	"github.com/jdotfite/couchlist/internal/resolver"
	"github.com/jdotfite/couchlist/internal/service"
)

func (s *Server) registerListRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listMyLists",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists",
		Summary:     "List my lists",
		Description: "Returns the caller's lists ordered by position",
		Tags:        []string{"Lists"},
	}, s.handleListMyLists)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createList",
		Method:        http.MethodPost,
		Path:          "/api/v1/lists",
		Summary:       "Create list",
		Description:   "Creates a manual, smart or hybrid list, optionally with initial pins",
		Tags:          []string{"Lists"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateList)

	huma.Register(s.api, huma.Operation{
		OperationID: "getList",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists/{id}",
		Summary:     "Get list",
		Description: "Returns a list definition",
		Tags:        []string{"Lists"},
	}, s.handleGetList)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateList",
		Method:      http.MethodPatch,
		Path:        "/api/v1/lists/{id}",
		Summary:     "Update list",
		Description: "Partially updates a list definition. Owner only.",
		Tags:        []string{"Lists"},
	}, s.handleUpdateList)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteList",
		Method:      http.MethodDelete,
		Path:        "/api/v1/lists/{id}",
		Summary:     "Delete list",
		Description: "Deletes a list with its pins and collaborator grants. Owner only.",
		Tags:        []string{"Lists"},
	}, s.handleDeleteList)

	huma.Register(s.api, huma.Operation{
		OperationID: "resolveList",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists/{id}/items",
		Summary:     "Resolve list",
		Description: "Returns the list's items in display order",
		Tags:        []string{"Lists"},
	}, s.handleResolveList)

	huma.Register(s.api, huma.Operation{
		OperationID: "resolveListBySlug",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{ownerId}/lists/{slug}/items",
		Summary:     "Resolve list by slug",
		Description: "Returns the items of the list an owner published under a slug",
		Tags:        []string{"Lists"},
	}, s.handleResolveListBySlug)

	huma.Register(s.api, huma.Operation{
		OperationID: "previewFilter",
		Method:      http.MethodPost,
		Path:        "/api/v1/lists/preview",
		Summary:     "Preview filter",
		Description: "Evaluates unsaved filter rules against the caller's library",
		Tags:        []string{"Lists"},
	}, s.handlePreviewFilter)

	huma.Register(s.api, huma.Operation{
		OperationID: "countFilterMatches",
		Method:      http.MethodPost,
		Path:        "/api/v1/lists/count",
		Summary:     "Count filter matches",
		Description: "Counts the items unsaved filter rules select from the caller's library",
		Tags:        []string{"Lists"},
	}, s.handleCountFilterMatches)
}

// === DTOs ===

// ListResponse contains list data in API responses.
type ListResponse struct {
	ID            string             `json:"id" doc:"List ID"`
	OwnerID       string             `json:"owner_id" doc:"Owning user ID"`
	Slug          string             `json:"slug" doc:"URL-safe slug, unique per owner"`
	Name          string             `json:"name" doc:"Display name"`
	Description   string             `json:"description,omitempty" doc:"Description"`
	ListType      string             `json:"list_type" doc:"manual, smart or hybrid"`
	FilterRules   domain.FilterRules `json:"filter_rules" doc:"Filter rules (ignored for manual lists)"`
	SortBy        string             `json:"sort_by" doc:"Primary sort key"`
	SortDirection string             `json:"sort_direction" doc:"asc or desc"`
	ItemLimit     int                `json:"item_limit" doc:"Maximum items returned, 0 for no limit"`
	Position      int                `json:"position" doc:"Order among the owner's lists"`
	CreatedAt     time.Time          `json:"created_at" doc:"Creation time"`
	UpdatedAt     time.Time          `json:"updated_at" doc:"Last update time"`
}

// ListOutput wraps a single list for Huma.
type ListOutput struct {
	Body ListResponse
}

// ListsResponse contains the caller's lists.
type ListsResponse struct {
	Lists []ListResponse `json:"lists" doc:"Lists ordered by position"`
}

// ListsOutput wraps the lists response for Huma.
type ListsOutput struct {
	Body ListsResponse
}

// PinRequest is an initial pin in a create request.
type PinRequest struct {
	MediaItemID string `json:"media_item_id" doc:"Media item ID"`
	PinType     string `json:"pin_type" doc:"include or exclude"`
}

// CreateListRequest is the request body for creating a list.
type CreateListRequest struct {
	Name          string              `json:"name" doc:"Display name (1-100 characters)"`
	Slug          string              `json:"slug,omitempty" doc:"URL slug, derived from the name when empty"`
	Description   string              `json:"description,omitempty" doc:"Description (up to 500 characters)"`
	ListType      string              `json:"list_type" doc:"manual, smart or hybrid"`
	FilterRules   *domain.FilterRules `json:"filter_rules,omitempty" doc:"Filter rules for smart and hybrid lists"`
	SortBy        string              `json:"sort_by,omitempty" doc:"title, release_year, rating, watched_year or status_updated_at"`
	SortDirection string              `json:"sort_direction,omitempty" doc:"asc or desc"`
	ItemLimit     int                 `json:"item_limit,omitempty" doc:"Maximum items returned, 0 for no limit"`
	Pins          []PinRequest        `json:"pins,omitempty" doc:"Initial pins"`
}

// CreateListInput wraps the create list request for Huma.
type CreateListInput struct {
	Body CreateListRequest
}

// UpdateListRequest is the request body for a partial list update.
type UpdateListRequest struct {
	Name          *string             `json:"name,omitempty" doc:"Display name"`
	Slug          *string             `json:"slug,omitempty" doc:"URL slug"`
	Description   *string             `json:"description,omitempty" doc:"Description"`
	ListType      *string             `json:"list_type,omitempty" doc:"manual, smart or hybrid"`
	FilterRules   *domain.FilterRules `json:"filter_rules,omitempty" doc:"Replacement filter rules"`
	SortBy        *string             `json:"sort_by,omitempty" doc:"Primary sort key"`
	SortDirection *string             `json:"sort_direction,omitempty" doc:"asc or desc"`
	ItemLimit     *int                `json:"item_limit,omitempty" doc:"Maximum items returned, 0 for no limit"`
	Position      *int                `json:"position,omitempty" doc:"Order among the owner's lists"`
}

// UpdateListInput wraps the update list request for Huma.
type UpdateListInput struct {
	ID   string `path:"id" doc:"List ID"`
	Body UpdateListRequest
}

// ListIDInput identifies a list by path.
type ListIDInput struct {
	ID string `path:"id" doc:"List ID"`
}

// ResolveListInput contains parameters for resolving a list.
type ResolveListInput struct {
	ID string `path:"id" doc:"List ID"`
	ResolveQuery
}

// ResolveListBySlugInput contains parameters for resolving a list by slug.
type ResolveListBySlugInput struct {
	OwnerID string `path:"ownerId" doc:"Owning user ID"`
	Slug    string `path:"slug" doc:"List slug"`
	ResolveQuery
}

// ResolveQuery holds the per-request resolution overrides.
type ResolveQuery struct {
	Resort        bool   `query:"resort" doc:"Sort pinned items by the sort key instead of pin order"`
	SortBy        string `query:"sort_by" doc:"Override the list's sort key"`
	SortDirection string `query:"sort_direction" doc:"Sort direction; applies to the list's own key when sort_by is absent"`
}

func (q ResolveQuery) options() resolver.Options {
	opts := resolver.Options{Resort: q.Resort}
	if strings.TrimSpace(q.SortBy) == "" {
		opts.Direction, _ = domain.ParseDirection(q.SortDirection)
		return opts
	}
	// Unknown keys fall back to the default sort during resolution.
	spec, _ := domain.ParseSortSpec(q.SortBy, q.SortDirection)
	opts.Sort = &spec
	return opts
}

// ItemResponse is one resolved list entry.
type ItemResponse struct {
	MediaItemID     string     `json:"media_item_id" doc:"Media item ID"`
	Title           string     `json:"title" doc:"Title"`
	MediaType       string     `json:"media_type" doc:"movie or show"`
	ReleaseYear     *int       `json:"release_year,omitempty" doc:"Release year"`
	PosterPath      string     `json:"poster_path,omitempty" doc:"Poster image path"`
	Genres          []string   `json:"genres,omitempty" doc:"Genre names"`
	OwnerID         string     `json:"owner_id,omitempty" doc:"User whose record supplied the per-user fields"`
	Status          string     `json:"status,omitempty" doc:"Status in the owner's library"`
	Rating          *float64   `json:"rating,omitempty" doc:"Owner's rating"`
	WatchedYear     *int       `json:"watched_year,omitempty" doc:"Year the owner watched it"`
	StatusUpdatedAt *time.Time `json:"status_updated_at,omitempty" doc:"Last status change"`
	IsPinned        bool       `json:"is_pinned" doc:"Item is an include pin"`
	IsFavorite      bool       `json:"is_favorite" doc:"Owner tagged it favorite"`
}

// ItemsResponse contains a resolved item sequence.
type ItemsResponse struct {
	Items []ItemResponse `json:"items" doc:"Items in display order"`
	Count int            `json:"count" doc:"Number of items returned"`
}

// ItemsOutput wraps the items response for Huma.
type ItemsOutput struct {
	Body ItemsResponse
}

// PreviewRequest is an unsaved rule set to evaluate.
type PreviewRequest struct {
	FilterRules   domain.FilterRules `json:"filter_rules" doc:"Rules to evaluate"`
	SortBy        string             `json:"sort_by,omitempty" doc:"Primary sort key"`
	SortDirection string             `json:"sort_direction,omitempty" doc:"asc or desc"`
	Limit         int                `json:"limit,omitempty" doc:"Maximum items, capped by the server"`
}

// PreviewInput wraps the preview request for Huma.
type PreviewInput struct {
	Body PreviewRequest
}

// CountRequest is the request body for counting matches.
type CountRequest struct {
	FilterRules domain.FilterRules `json:"filter_rules" doc:"Rules to evaluate"`
}

// CountInput wraps the count request for Huma.
type CountInput struct {
	Body CountRequest
}

// CountResponse contains a match count.
type CountResponse struct {
	Count int `json:"count" doc:"Distinct matching items"`
}

// CountOutput wraps the count response for Huma.
type CountOutput struct {
	Body CountResponse
}

// === Handlers ===

func (s *Server) handleListMyLists(ctx context.Context, _ *struct{}) (*ListsOutput, error) {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	lists, err := s.services.Lists.ListMyLists(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]ListResponse, len(lists))
	for i, l := range lists {
		resp[i] = toListResponse(l)
	}
	return &ListsOutput{Body: ListsResponse{Lists: resp}}, nil
}

func (s *Server) handleCreateList(ctx context.Context, input *CreateListInput) (*ListOutput, error) {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	req := input.Body
	in := service.CreateListInput{
		Name:          req.Name,
		Slug:          req.Slug,
		Description:   req.Description,
		Type:          req.ListType,
		SortBy:        req.SortBy,
		SortDirection: req.SortDirection,
		ItemLimit:     req.ItemLimit,
	}
	if req.FilterRules != nil {
		in.Rules = *req.FilterRules
	}
	for _, p := range req.Pins {
		in.Pins = append(in.Pins, service.PinInput{MediaItemID: p.MediaItemID, Type: p.PinType})
	}

	list, err := s.services.Lists.CreateList(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	return &ListOutput{Body: toListResponse(list)}, nil
}

func (s *Server) handleGetList(ctx context.Context, input *ListIDInput) (*ListOutput, error) {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.services.Lists.GetList(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &ListOutput{Body: toListResponse(list)}, nil
}

func (s *Server) handleUpdateList(ctx context.Context, input *UpdateListInput) (*ListOutput, error) {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	req := input.Body
	list, err := s.services.Lists.UpdateList(ctx, userID, input.ID, service.UpdateListInput{
		Name:          req.Name,
		Slug:          req.Slug,
		Description:   req.Description,
		Type:          req.ListType,
		Rules:         req.FilterRules,
		SortBy:        req.SortBy,
		SortDirection: req.SortDirection,
		ItemLimit:     req.ItemLimit,
		Position:      req.Position,
	})
	if err != nil {
		return nil, err
	}
	return &ListOutput{Body: toListResponse(list)}, nil
}

func (s *Server) handleDeleteList(ctx context.Context, input *ListIDInput) (*struct{}, error) {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Lists.DeleteList(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleResolveList(ctx context.Context, input *ResolveListInput) (*ItemsOutput, error) {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.services.Lists.ResolveList(ctx, userID, input.ID, input.options())
	if err != nil {
		return nil, err
	}
	return toItemsOutput(items), nil
}

func (s *Server) handleResolveListBySlug(ctx context.Context, input *ResolveListBySlugInput) (*ItemsOutput, error) {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.services.Lists.ResolveListBySlug(ctx, userID, input.OwnerID, input.Slug, input.options())
	if err != nil {
		return nil, err
	}
	return toItemsOutput(items), nil
}

func (s *Server) handlePreviewFilter(ctx context.Context, input *PreviewInput) (*ItemsOutput, error) {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.allowPreview(userID); err != nil {
		return nil, err
	}

	items, err := s.services.Lists.PreviewFilter(ctx, userID, service.PreviewInput{
		Rules:         input.Body.FilterRules,
		SortBy:        input.Body.SortBy,
		SortDirection: input.Body.SortDirection,
		Limit:         input.Body.Limit,
	})
	if err != nil {
		return nil, err
	}
	return toItemsOutput(items), nil
}

func (s *Server) handleCountFilterMatches(ctx context.Context, input *CountInput) (*CountOutput, error) {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.allowPreview(userID); err != nil {
		return nil, err
	}

	n, err := s.services.Lists.CountFilterMatches(ctx, userID, input.Body.FilterRules)
	if err != nil {
		return nil, err
	}
	return &CountOutput{Body: CountResponse{Count: n}}, nil
}

// allowPreview applies the per-user budget shared by preview and count.
func (s *Server) allowPreview(userID string) error {
	if s.previewLimiter.Allow(userID) {
		return nil
	}
	s.logger.Debug("preview rate limited", "user_id", userID)
	return domainerrors.RateLimited("too many preview requests, slow down")
}

// === Mapping ===

func toListResponse(l *domain.List) ListResponse {
	return ListResponse{
		ID:            l.ID,
		OwnerID:       l.OwnerID,
		Slug:          l.Slug,
		Name:          l.Name,
		Description:   l.Description,
		ListType:      string(l.Type),
		FilterRules:   l.Rules,
		SortBy:        string(l.Sort.By),
		SortDirection: string(l.Sort.Direction),
		ItemLimit:     l.ItemLimit,
		Position:      l.Position,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func toItemsOutput(items []domain.ResolvedItem) *ItemsOutput {
	resp := make([]ItemResponse, len(items))
	for i, it := range items {
		r := ItemResponse{
			MediaItemID:     it.MediaItemID,
			Title:           it.Title,
			MediaType:       string(it.MediaType),
			ReleaseYear:     it.ReleaseYear,
			PosterPath:      it.PosterPath,
			Genres:          it.Genres,
			OwnerID:         it.OwnerID,
			Rating:          it.Rating,
			WatchedYear:     it.WatchedYear,
			StatusUpdatedAt: it.StatusUpdatedAt,
			IsPinned:        it.IsPinned,
			IsFavorite:      it.IsFavorite,
		}
		if it.Status != nil {
			r.Status = string(*it.Status)
		}
		resp[i] = r
	}
	return &ItemsOutput{Body: ItemsResponse{Items: resp, Count: len(resp)}}
}
