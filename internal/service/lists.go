package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jdotfite/couchlist/internal/access"
	"github.com/jdotfite/couchlist/internal/config"
	"github.com/jdotfite/couchlist/internal/domain"
	domainerrors "github.com/jdotfite/couchlist/internal/errors"
	"github.com/jdotfite/couchlist/internal/id"
	"github.com/jdotfite/couchlist/internal/normalize"
	"github.com/jdotfite/couchlist/internal/resolver"
	"github.com/jdotfite/couchlist/internal/store"
	"github.com/jdotfite/couchlist/internal/store/sqlite"
	"github.com/jdotfite/couchlist/internal/validation"
)

// PinInput is an initial pin supplied when creating a list.
type PinInput struct {
	MediaItemID string `json:"media_item_id" validate:"required"`
	Type        string `json:"pin_type" validate:"required,pin_type"`
}

// CreateListInput is the definition of a new list.
type CreateListInput struct {
	Name          string             `json:"name" validate:"required,min=1,max=100"`
	Slug          string             `json:"slug,omitempty" validate:"max=100"`
	Description   string             `json:"description,omitempty" validate:"max=500"`
	Type          string             `json:"list_type" validate:"required,list_type"`
	Rules         domain.FilterRules `json:"filter_rules"`
	SortBy        string             `json:"sort_by,omitempty" validate:"sort_key"`
	SortDirection string             `json:"sort_direction,omitempty" validate:"sort_direction"`
	ItemLimit     int                `json:"item_limit" validate:"gte=0"`
	Pins          []PinInput         `json:"pins,omitempty" validate:"dive"`
}

// UpdateListInput is a partial update; nil fields are left unchanged.
type UpdateListInput struct {
	Name          *string             `json:"name,omitempty" validate:"omitnil,min=1,max=100"`
	Slug          *string             `json:"slug,omitempty" validate:"omitnil,min=1,max=100"`
	Description   *string             `json:"description,omitempty" validate:"omitnil,max=500"`
	Type          *string             `json:"list_type,omitempty" validate:"omitnil,list_type"`
	Rules         *domain.FilterRules `json:"filter_rules,omitempty"`
	SortBy        *string             `json:"sort_by,omitempty" validate:"omitnil,sort_key"`
	SortDirection *string             `json:"sort_direction,omitempty" validate:"omitnil,sort_direction"`
	ItemLimit     *int                `json:"item_limit,omitempty" validate:"omitnil,gte=0"`
	Position      *int                `json:"position,omitempty" validate:"omitnil,gte=0"`
}

// PreviewInput is an unsaved rule set to evaluate.
type PreviewInput struct {
	Rules         domain.FilterRules `json:"filter_rules"`
	SortBy        string             `json:"sort_by,omitempty" validate:"sort_key"`
	SortDirection string             `json:"sort_direction,omitempty" validate:"sort_direction"`
	Limit         int                `json:"limit" validate:"gte=0"`
}

// ListService orchestrates list definitions, pins and resolution with access enforcement.
type ListService struct {
	store     *sqlite.Store
	resolver  *resolver.Resolver
	directory *access.Directory
	validator *validation.Validator
	lists     config.ListsConfig
	preview   config.PreviewConfig
	logger    *slog.Logger
}

// NewListService creates a new list service.
func NewListService(
	s *sqlite.Store,
	r *resolver.Resolver,
	d *access.Directory,
	v *validation.Validator,
	lists config.ListsConfig,
	preview config.PreviewConfig,
	logger *slog.Logger,
) *ListService {
	return &ListService{
		store:     s,
		resolver:  r,
		directory: d,
		validator: v,
		lists:     lists,
		preview:   preview,
		logger:    logger,
	}
}

// CreateList creates a list owned by ownerID together with its initial pins.
// Either the list and every pin are stored, or nothing is.
func (s *ListService) CreateList(ctx context.Context, ownerID string, in CreateListInput) (*domain.List, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	rules, err := normalizeRules(in.Rules)
	if err != nil {
		return nil, err
	}
	sort, err := sortFromInput(in.SortBy, in.SortDirection)
	if err != nil {
		return nil, err
	}
	slug, err := deriveSlug(in.Slug, in.Name)
	if err != nil {
		return nil, err
	}

	pins := make([]domain.Pin, 0, len(in.Pins))
	for _, p := range in.Pins {
		if err := s.requireMediaItem(ctx, p.MediaItemID); err != nil {
			return nil, err
		}
		pins = append(pins, domain.Pin{MediaItemID: p.MediaItemID, Type: domain.PinType(p.Type)})
	}

	listID, err := id.Generate(id.PrefixList)
	if err != nil {
		return nil, fmt.Errorf("generate list ID: %w", err)
	}

	now := time.Now()
	list := &domain.List{
		CreatedAt:   now,
		UpdatedAt:   now,
		ID:          listID,
		OwnerID:     ownerID,
		Slug:        slug,
		Name:        normalize.Text(in.Name),
		Description: normalize.Text(in.Description),
		Type:        domain.ListType(in.Type),
		Rules:       rules,
		Sort:        sort,
		ItemLimit:   in.ItemLimit,
	}
	for i := range pins {
		pins[i].ListID = listID
	}

	if err := s.store.CreateList(ctx, list, pins); err != nil {
		if store.IsAlreadyExists(err) {
			return nil, domainerrors.AlreadyExists(fmt.Sprintf("you already have a list with slug %q", slug))
		}
		return nil, fmt.Errorf("create list: %w", err)
	}

	s.logger.Info("list created",
		"list_id", listID,
		"owner_id", ownerID,
		"list_type", list.Type,
		"pin_count", len(pins),
	)
	return list, nil
}

// GetList returns a list definition the user may read.
func (s *ListService) GetList(ctx context.Context, userID, listID string) (*domain.List, error) {
	list, err := s.loadList(ctx, listID)
	if err != nil {
		return nil, err
	}
	ok, err := s.directory.CanRead(ctx, userID, list)
	if err != nil {
		return nil, fmt.Errorf("check access: %w", err)
	}
	if !ok {
		return nil, s.denied(listID, false)
	}
	return list, nil
}

// ListMyLists returns the lists ownerID owns, by position.
func (s *ListService) ListMyLists(ctx context.Context, ownerID string) ([]*domain.List, error) {
	lists, err := s.store.ListListsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	return lists, nil
}

// UpdateList applies a partial update. Requires ownership.
func (s *ListService) UpdateList(ctx context.Context, userID, listID string, in UpdateListInput) (*domain.List, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	list, err := s.editableList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		list.Name = normalize.Text(*in.Name)
	}
	if in.Slug != nil {
		slug, err := deriveSlug(*in.Slug, list.Name)
		if err != nil {
			return nil, err
		}
		list.Slug = slug
	}
	if in.Description != nil {
		list.Description = normalize.Text(*in.Description)
	}
	if in.Type != nil {
		list.Type = domain.ListType(*in.Type)
	}
	if in.Rules != nil {
		rules, err := normalizeRules(*in.Rules)
		if err != nil {
			return nil, err
		}
		list.Rules = rules
	}
	if in.SortBy != nil || in.SortDirection != nil {
		by, dir := string(list.Sort.By), ""
		if in.SortBy != nil {
			by = *in.SortBy
		}
		if in.SortDirection != nil {
			dir = *in.SortDirection
		} else if in.SortBy == nil {
			dir = string(list.Sort.Direction)
		}
		sort, err := sortFromInput(by, dir)
		if err != nil {
			return nil, err
		}
		list.Sort = sort
	}
	if in.ItemLimit != nil {
		list.ItemLimit = *in.ItemLimit
	}
	if in.Position != nil {
		list.Position = *in.Position
	}
	list.UpdatedAt = time.Now()

	if err := s.store.UpdateList(ctx, list); err != nil {
		if store.IsAlreadyExists(err) {
			return nil, domainerrors.AlreadyExists(fmt.Sprintf("you already have a list with slug %q", list.Slug))
		}
		return nil, fmt.Errorf("update list: %w", err)
	}

	s.logger.Info("list updated", "list_id", listID, "user_id", userID)
	return list, nil
}

// DeleteList removes a list with its pins and grants. Requires ownership.
func (s *ListService) DeleteList(ctx context.Context, userID, listID string) error {
	if _, err := s.editableList(ctx, userID, listID); err != nil {
		return err
	}
	if err := s.store.DeleteList(ctx, listID); err != nil {
		if store.IsNotFound(err) {
			return domainerrors.NotFoundf("list %s not found", listID)
		}
		return fmt.Errorf("delete list: %w", err)
	}
	s.logger.Info("list deleted", "list_id", listID, "user_id", userID)
	return nil
}

// AddPin pins a media item to a list. Re-pinning with the same type is a no-op.
func (s *ListService) AddPin(ctx context.Context, userID, listID, mediaItemID string, pinType domain.PinType) (*domain.Pin, error) {
	if !pinType.Valid() {
		return nil, domainerrors.ValidationWithDetails("validation failed",
			map[string]string{"pin_type": "must be one of: include, exclude"})
	}
	if _, err := s.pinnableList(ctx, userID, listID); err != nil {
		return nil, err
	}
	if err := s.requireMediaItem(ctx, mediaItemID); err != nil {
		return nil, err
	}

	pin, err := s.store.AddPin(ctx, listID, mediaItemID, pinType)
	if err != nil {
		return nil, fmt.Errorf("add pin: %w", err)
	}
	s.logger.Info("pin added",
		"list_id", listID,
		"media_item_id", mediaItemID,
		"pin_type", pinType,
		"user_id", userID,
	)
	return pin, nil
}

// RemovePin deletes any pin for the item. Removing a missing pin succeeds.
func (s *ListService) RemovePin(ctx context.Context, userID, listID, mediaItemID string) error {
	if _, err := s.pinnableList(ctx, userID, listID); err != nil {
		return err
	}
	if err := s.store.RemovePin(ctx, listID, mediaItemID); err != nil {
		return fmt.Errorf("remove pin: %w", err)
	}
	s.logger.Info("pin removed", "list_id", listID, "media_item_id", mediaItemID, "user_id", userID)
	return nil
}

// ReorderPins moves the named include pins to the front in the given order and
// returns the list's pins afterwards.
func (s *ListService) ReorderPins(ctx context.Context, userID, listID string, mediaItemIDs []string) ([]domain.Pin, error) {
	if len(mediaItemIDs) == 0 {
		return nil, domainerrors.Validation("media_ids must not be empty")
	}
	if _, err := s.pinnableList(ctx, userID, listID); err != nil {
		return nil, err
	}
	if err := s.store.ReorderPins(ctx, listID, mediaItemIDs); err != nil {
		if store.IsInvalidInput(err) {
			return nil, domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid pin order")
		}
		return nil, fmt.Errorf("reorder pins: %w", err)
	}
	pins, err := s.store.ListPins(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("list pins: %w", err)
	}
	return pins, nil
}

// ListPins returns every pin of a list the user may read, includes first by position.
func (s *ListService) ListPins(ctx context.Context, userID, listID string) ([]domain.Pin, error) {
	if _, err := s.GetList(ctx, userID, listID); err != nil {
		return nil, err
	}
	pins, err := s.store.ListPins(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("list pins: %w", err)
	}
	return pins, nil
}

// ResolveList resolves a list for the user.
func (s *ListService) ResolveList(ctx context.Context, userID, listID string, opts resolver.Options) ([]domain.ResolvedItem, error) {
	items, err := s.resolver.ResolveByID(ctx, userID, listID, opts)
	if err != nil {
		return nil, s.conceal(listID, err)
	}
	return items, nil
}

// ResolveListBySlug resolves the list ownerID published under slug.
func (s *ListService) ResolveListBySlug(ctx context.Context, userID, ownerID, slug string, opts resolver.Options) ([]domain.ResolvedItem, error) {
	list, err := s.store.GetListBySlug(ctx, ownerID, slug)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domainerrors.NotFoundf("list %s not found", slug)
		}
		return nil, fmt.Errorf("load list: %w", err)
	}
	items, err := s.resolver.Resolve(ctx, userID, list, opts)
	if err != nil {
		return nil, s.conceal(list.ID, err)
	}
	return items, nil
}

// PreviewFilter evaluates an unsaved rule set over the user's own library.
// A zero limit, or one above the configured maximum, is clamped to the maximum.
func (s *ListService) PreviewFilter(ctx context.Context, userID string, in PreviewInput) ([]domain.ResolvedItem, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	rules, err := normalizeRules(in.Rules)
	if err != nil {
		return nil, err
	}
	sort, err := sortFromInput(in.SortBy, in.SortDirection)
	if err != nil {
		return nil, err
	}

	limit := in.Limit
	if limit == 0 || limit > s.preview.MaxLimit {
		limit = s.preview.MaxLimit
	}
	return s.resolver.ResolveRules(ctx, []string{userID}, rules, sort, limit)
}

// CountFilterMatches counts the distinct items an unsaved rule set selects
// from the user's own library.
func (s *ListService) CountFilterMatches(ctx context.Context, userID string, rules domain.FilterRules) (int, error) {
	normalized, err := normalizeRules(rules)
	if err != nil {
		return 0, err
	}
	n, err := s.store.CountMatches(ctx, normalized, []string{userID})
	if err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return n, nil
}

func (s *ListService) loadList(ctx context.Context, listID string) (*domain.List, error) {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domainerrors.NotFoundf("list %s not found", listID)
		}
		return nil, fmt.Errorf("load list: %w", err)
	}
	return list, nil
}

// editableList loads a list whose definition userID may change.
func (s *ListService) editableList(ctx context.Context, userID, listID string) (*domain.List, error) {
	list, err := s.loadList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if s.directory.CanEditDefinition(userID, list) {
		return list, nil
	}
	canRead, err := s.directory.CanRead(ctx, userID, list)
	if err != nil {
		return nil, fmt.Errorf("check access: %w", err)
	}
	return nil, s.denied(listID, canRead)
}

// pinnableList loads a list whose pins userID may change.
func (s *ListService) pinnableList(ctx context.Context, userID, listID string) (*domain.List, error) {
	list, err := s.loadList(ctx, listID)
	if err != nil {
		return nil, err
	}
	ok, err := s.directory.CanEditPins(ctx, userID, list)
	if err != nil {
		return nil, fmt.Errorf("check access: %w", err)
	}
	if !ok {
		return nil, s.denied(listID, false)
	}
	return list, nil
}

// denied builds the error for a refused list operation. Users who cannot
// even read the list get not found when private lists are concealed.
func (s *ListService) denied(listID string, canRead bool) error {
	if !canRead && s.lists.ConcealPrivate {
		return domainerrors.NotFoundf("list %s not found", listID)
	}
	return domainerrors.Forbidden("you do not have access to this list")
}

func (s *ListService) conceal(listID string, err error) error {
	if s.lists.ConcealPrivate && domainerrors.Is(err, domainerrors.ErrForbidden) {
		return domainerrors.NotFoundf("list %s not found", listID)
	}
	return err
}

func (s *ListService) requireMediaItem(ctx context.Context, mediaItemID string) error {
	ok, err := s.store.MediaItemExists(ctx, mediaItemID)
	if err != nil {
		return fmt.Errorf("check media item: %w", err)
	}
	if !ok {
		return domainerrors.NotFoundf("media item %s not found", mediaItemID)
	}
	return nil
}

func normalizeRules(rules domain.FilterRules) (domain.FilterRules, error) {
	out, err := rules.Normalize()
	if err != nil {
		return domain.FilterRules{}, domainerrors.ValidationWithDetails("validation failed",
			map[string]string{"filter_rules": err.Error()})
	}
	return out, nil
}

// sortFromInput parses a write-time sort spec. Empty input selects the default.
func sortFromInput(by, direction string) (domain.SortSpec, error) {
	if by == "" && direction == "" {
		return domain.DefaultSort(), nil
	}
	if by == "" {
		by = string(domain.DefaultSort().By)
	}
	spec, ok := domain.ParseSortSpec(by, direction)
	if !ok {
		return domain.SortSpec{}, domainerrors.ValidationWithDetails("validation failed",
			map[string]string{"sort_by": fmt.Sprintf("unknown sort %q %q", by, direction)})
	}
	return spec, nil
}

func deriveSlug(slug, name string) (string, error) {
	source := slug
	if source == "" {
		source = name
	}
	out := normalize.Slugify(source)
	if out == "" {
		return "", domainerrors.ValidationWithDetails("validation failed",
			map[string]string{"slug": "must contain at least one letter or digit"})
	}
	return out, nil
}
