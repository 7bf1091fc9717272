package ports

import (
	"context"

	"github.com/nahanni/placekeeper/internal/core/domain"
)

// CreatePlaceInput carries the fields for a new place. IsRestricted
// defaults to false; setting it requires cultural authority.
type CreatePlaceInput struct {
	Name                 string             `json:"name"`
	Description          string             `json:"description,omitempty"`
	Coordinate           domain.Coordinate  `json:"coordinate"`
	Boundary             *domain.Polygon    `json:"boundary,omitempty"`
	Region               string             `json:"region,omitempty"`
	MediaURLs            []string           `json:"media_urls,omitempty"`
	CulturalSignificance string             `json:"cultural_significance,omitempty"`
	IsRestricted         bool               `json:"is_restricted,omitempty"`
}

// PlaceOperations is the single public entry point for all place
// operations. Implementations run validation, the cultural access policy,
// and tenant scoping before any storage call.
type PlaceOperations interface {
	CreatePlace(ctx context.Context, caller domain.Caller, communityID int64, in CreatePlaceInput) (*domain.Place, error)
	GetPlaceByID(ctx context.Context, caller domain.Caller, communityID, id int64) (*domain.Place, error)
	GetPlacesByCommunity(ctx context.Context, caller domain.Caller, communityID int64, region string, page, limit int) (*domain.PlacePage, error)
	UpdatePlace(ctx context.Context, caller domain.Caller, communityID, id int64, patch domain.PlacePatch) (*domain.Place, error)
	DeletePlace(ctx context.Context, caller domain.Caller, communityID, id int64) error
	SearchPlacesNear(ctx context.Context, caller domain.Caller, communityID int64, center domain.Coordinate, radiusKm float64, page, limit int) (*domain.PlacePage, error)
	GetPlacesByBounds(ctx context.Context, caller domain.Caller, communityID int64, bbox domain.Bounds, page, limit int) (*domain.PlacePage, error)
}
