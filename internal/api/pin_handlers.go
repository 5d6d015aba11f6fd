package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jdotfite/couchlist/internal/domain"
)

func (s *Server) registerPinRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPins",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists/{id}/pins",
		Summary:     "List pins",
		Description: "Returns include pins in position order, then exclude pins",
		Tags:        []string{"Pins"},
	}, s.handleListPins)

	huma.Register(s.api, huma.Operation{
		OperationID: "addPin",
		Method:      http.MethodPut,
		Path:        "/api/v1/lists/{id}/pins/{mediaId}",
		Summary:     "Pin item",
		Description: "Includes or excludes a media item. Re-pinning with the other type replaces the pin.",
		Tags:        []string{"Pins"},
	}, s.handleAddPin)

	huma.Register(s.api, huma.Operation{
		OperationID: "removePin",
		Method:      http.MethodDelete,
		Path:        "/api/v1/lists/{id}/pins/{mediaId}",
		Summary:     "Unpin item",
		Description: "Removes any pin for the media item. Removing a missing pin succeeds.",
		Tags:        []string{"Pins"},
	}, s.handleRemovePin)

	huma.Register(s.api, huma.Operation{
		OperationID: "reorderPins",
		Method:      http.MethodPut,
		Path:        "/api/v1/lists/{id}/pins",
		Summary:     "Reorder pins",
		Description: "Sets the include pin order. Every media ID must be an include pin of the list.",
		Tags:        []string{"Pins"},
	}, s.handleReorderPins)
}

// === DTOs ===

// PinResponse contains pin data in API responses.
type PinResponse struct {
	MediaItemID string    `json:"media_item_id" doc:"Media item ID"`
	PinType     string    `json:"pin_type" doc:"include or exclude"`
	Position    int       `json:"position" doc:"Display position, include pins only"`
	CreatedAt   time.Time `json:"created_at" doc:"When the pin was created"`
}

// PinOutput wraps a single pin for Huma.
type PinOutput struct {
	Body PinResponse
}

// PinsResponse contains a list's pins.
type PinsResponse struct {
	Pins []PinResponse `json:"pins" doc:"Pins"`
}

// PinsOutput wraps the pins response for Huma.
type PinsOutput struct {
	Body PinsResponse
}

// AddPinRequest is the request body for pinning an item.
type AddPinRequest struct {
	PinType string `json:"pin_type" doc:"include or exclude"`
}

// AddPinInput wraps the add pin request for Huma.
type AddPinInput struct {
	ID      string `path:"id" doc:"List ID"`
	MediaID string `path:"mediaId" doc:"Media item ID"`
	Body    AddPinRequest
}

// PinPathInput identifies one pin by path.
type PinPathInput struct {
	ID      string `path:"id" doc:"List ID"`
	MediaID string `path:"mediaId" doc:"Media item ID"`
}

// ReorderPinsRequest is the request body for reordering include pins.
type ReorderPinsRequest struct {
	MediaIDs []string `json:"media_ids" doc:"Include pin media IDs in the new order"`
}

// ReorderPinsInput wraps the reorder request for Huma.
type ReorderPinsInput struct {
	ID   string `path:"id" doc:"List ID"`
	Body ReorderPinsRequest
}

// === Handlers ===

func (s *Server) handleListPins(ctx context.Context, input *ListIDInput) (*PinsOutput, error) {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	pins, err := s.services.Lists.ListPins(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return toPinsOutput(pins), nil
}

func (s *Server) handleAddPin(ctx context.Context, input *AddPinInput) (*PinOutput, error) {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	pin, err := s.services.Lists.AddPin(ctx, userID, input.ID, input.MediaID, domain.PinType(input.Body.PinType))
	if err != nil {
		return nil, err
	}
	return &PinOutput{Body: toPinResponse(*pin)}, nil
}

func (s *Server) handleRemovePin(ctx context.Context, input *PinPathInput) (*struct{}, error) {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Lists.RemovePin(ctx, userID, input.ID, input.MediaID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleReorderPins(ctx context.Context, input *ReorderPinsInput) (*PinsOutput, error) {
	userID, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	pins, err := s.services.Lists.ReorderPins(ctx, userID, input.ID, input.Body.MediaIDs)
	if err != nil {
		return nil, err
	}
	return toPinsOutput(pins), nil
}

func toPinResponse(p domain.Pin) PinResponse {
	return PinResponse{
		MediaItemID: p.MediaItemID,
		PinType:     string(p.Type),
		Position:    p.Position,
		CreatedAt:   p.CreatedAt,
	}
}

func toPinsOutput(pins []domain.Pin) *PinsOutput {
	resp := make([]PinResponse, len(pins))
	for i, p := range pins {
		resp[i] = toPinResponse(p)
	}
	return &PinsOutput{Body: PinsResponse{Pins: resp}}
}
