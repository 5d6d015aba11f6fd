package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jdotfite/couchlist/internal/access"
	"github.com/jdotfite/couchlist/internal/domain"
	domainerrors "github.com/jdotfite/couchlist/internal/errors"
	"github.com/jdotfite/couchlist/internal/resolver"
)

// ViewService serves the built-in status and tag views, which union the
// viewer's library with every library shared with them for that scope.
type ViewService struct {
	resolver  *resolver.Resolver
	directory *access.Directory
	logger    *slog.Logger
}

// NewViewService creates a new view service.
func NewViewService(r *resolver.Resolver, d *access.Directory, logger *slog.Logger) *ViewService {
	return &ViewService{resolver: r, directory: d, logger: logger}
}

// StatusView returns every visible item in one status bucket.
// The status may be any accepted alias.
func (s *ViewService) StatusView(ctx context.Context, viewerID, status string, sort domain.SortSpec, limit int) ([]domain.ResolvedItem, error) {
	st, ok := domain.ParseStatus(status)
	if !ok {
		return nil, domainerrors.ValidationWithDetails("validation failed",
			map[string]string{"status": "must be a known status"})
	}
	rules := domain.FilterRules{Status: []string{string(st)}}
	return s.view(ctx, viewerID, domain.StatusScope(st), rules, sort, limit)
}

// TagView returns every visible item carrying tag.
func (s *ViewService) TagView(ctx context.Context, viewerID, tag string, sort domain.SortSpec, limit int) ([]domain.ResolvedItem, error) {
	tag = domain.NormalizeTag(tag)
	if tag == "" {
		return nil, domainerrors.ValidationWithDetails("validation failed",
			map[string]string{"tag": "is required"})
	}
	rules := domain.FilterRules{Labels: []string{tag}}
	return s.view(ctx, viewerID, domain.TagScope(tag), rules, sort, limit)
}

func (s *ViewService) view(ctx context.Context, viewerID string, scope domain.OwnerScope, rules domain.FilterRules, sort domain.SortSpec, limit int) ([]domain.ResolvedItem, error) {
	owners, err := s.directory.VisibleOwners(ctx, viewerID, scope)
	if err != nil {
		return nil, fmt.Errorf("resolve owners: %w", err)
	}
	items, err := s.resolver.ResolveRules(ctx, owners, rules, sort.OrDefault(), limit)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("system view resolved",
		"viewer_id", viewerID,
		"scope", scope.Share,
		"scope_value", scope.Value,
		"owner_count", len(owners),
		"item_count", len(items),
	)
	return items, nil
}
