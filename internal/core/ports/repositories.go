package ports

import (
	"context"

	"github.com/nahanni/placekeeper/internal/core/domain"
)

// PlaceFilter restricts which places a query returns.
type PlaceFilter struct {
	// IncludeRestricted controls whether culturally restricted places are
	// part of the result set. Derived from the caller's role, never from
	// client input.
	IncludeRestricted bool
	// Region, when non-empty, narrows results to an exact region match.
	Region string
}

// PageRequest is a 1-based page selector.
type PageRequest struct {
	Page  int
	Limit int
}

// Offset returns the row offset for the page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// SpatialBackend persists and queries places. Two implementations exist:
// one backed by native geometry types with spatial indexing, one backed by
// plain latitude/longitude columns with distance math done in the
// application. Every method takes the owning community id; implementations
// must compile it into the predicate of every statement, counts included.
type SpatialBackend interface {
	Insert(ctx context.Context, place *domain.Place) (*domain.Place, error)
	GetByID(ctx context.Context, id, communityID int64) (*domain.Place, error)
	ListByCommunity(ctx context.Context, communityID int64, filter PlaceFilter, page PageRequest) ([]domain.Place, int, error)
	// Update applies a patch if and only if the stored restriction flag
	// still equals expectRestricted. A zero-row update surfaces as
	// domain.ErrPlaceNotFound; callers distinguish a true miss from a
	// concurrent restriction change by re-fetching.
	Update(ctx context.Context, id, communityID int64, patch domain.PlacePatch, expectRestricted bool) (*domain.Place, error)
	Delete(ctx context.Context, id, communityID int64) error
	FindWithinRadius(ctx context.Context, center domain.Coordinate, radiusKm float64, communityID int64, filter PlaceFilter, page PageRequest) ([]domain.Place, int, error)
	FindInBounds(ctx context.Context, bbox domain.Bounds, communityID int64, filter PlaceFilter, page PageRequest) ([]domain.Place, int, error)
}

// CommunityRepository answers existence checks for communities. Community
// CRUD itself lives outside this service.
type CommunityRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// EventPublisher emits place change events for downstream consumers.
type EventPublisher interface {
	PublishPlaceCreated(ctx context.Context, place *domain.Place) error
	PublishPlaceUpdated(ctx context.Context, place *domain.Place) error
	PublishPlaceDeleted(ctx context.Context, communityID, placeID int64) error
}
