package usecases

import (
	"context"

	"github.com/nahanni/placekeeper/internal/core/domain"
	"github.com/nahanni/placekeeper/internal/core/ports"
)

// TenantIsolationGuard wraps a SpatialBackend and is the only reference the
// service layer ever holds. It rejects calls without a community scope so
// that no code path can issue a query that crosses tenant boundaries; the
// backends then compile the id into every statement's predicate.
type TenantIsolationGuard struct {
	backend ports.SpatialBackend
}

// NewTenantIsolationGuard wraps a backend.
func NewTenantIsolationGuard(backend ports.SpatialBackend) *TenantIsolationGuard {
	return &TenantIsolationGuard{backend: backend}
}

var _ ports.SpatialBackend = (*TenantIsolationGuard)(nil)

func (g *TenantIsolationGuard) scope(communityID int64) error {
	if communityID <= 0 {
		return domain.NewValidationError("community_id", "must be a positive community id, got %d", communityID)
	}
	return nil
}

func (g *TenantIsolationGuard) Insert(ctx context.Context, place *domain.Place) (*domain.Place, error) {
	if err := g.scope(place.CommunityID); err != nil {
		return nil, err
	}
	return g.backend.Insert(ctx, place)
}

func (g *TenantIsolationGuard) GetByID(ctx context.Context, id, communityID int64) (*domain.Place, error) {
	if err := g.scope(communityID); err != nil {
		return nil, err
	}
	return g.backend.GetByID(ctx, id, communityID)
}

func (g *TenantIsolationGuard) ListByCommunity(ctx context.Context, communityID int64, filter ports.PlaceFilter, page ports.PageRequest) ([]domain.Place, int, error) {
	if err := g.scope(communityID); err != nil {
		return nil, 0, err
	}
	return g.backend.ListByCommunity(ctx, communityID, filter, page)
}

func (g *TenantIsolationGuard) Update(ctx context.Context, id, communityID int64, patch domain.PlacePatch, expectRestricted bool) (*domain.Place, error) {
	if err := g.scope(communityID); err != nil {
		return nil, err
	}
	return g.backend.Update(ctx, id, communityID, patch, expectRestricted)
}

func (g *TenantIsolationGuard) Delete(ctx context.Context, id, communityID int64) error {
	if err := g.scope(communityID); err != nil {
		return err
	}
	return g.backend.Delete(ctx, id, communityID)
}

func (g *TenantIsolationGuard) FindWithinRadius(ctx context.Context, center domain.Coordinate, radiusKm float64, communityID int64, filter ports.PlaceFilter, page ports.PageRequest) ([]domain.Place, int, error) {
	if err := g.scope(communityID); err != nil {
		return nil, 0, err
	}
	return g.backend.FindWithinRadius(ctx, center, radiusKm, communityID, filter, page)
}

func (g *TenantIsolationGuard) FindInBounds(ctx context.Context, bbox domain.Bounds, communityID int64, filter ports.PlaceFilter, page ports.PageRequest) ([]domain.Place, int, error) {
	if err := g.scope(communityID); err != nil {
		return nil, 0, err
	}
	return g.backend.FindInBounds(ctx, bbox, communityID, filter, page)
}
