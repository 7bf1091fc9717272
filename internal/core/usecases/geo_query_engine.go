package usecases

import (
	"context"

	"github.com/nahanni/placekeeper/internal/core/domain"
	"github.com/nahanni/placekeeper/internal/core/ports"
	"github.com/nahanni/placekeeper/internal/pkg/geovalid"
	"github.com/nahanni/placekeeper/internal/pkg/metrics"
)

const (
	MaxRadiusKm  = geovalid.MaxRadiusKm
	DefaultLimit = 20
	MaxLimit     = 100
)

// GeoQueryEngine runs radius and bounding-box searches on top of whichever
// SpatialBackend is active, with uniform pagination and a cultural filter
// applied on top of what the backend already excludes.
type GeoQueryEngine struct {
	backend ports.SpatialBackend
	policy  CulturalAccessPolicy
}

// NewGeoQueryEngine builds an engine over the given backend, normally the
// tenant guard.
func NewGeoQueryEngine(backend ports.SpatialBackend) *GeoQueryEngine {
	return &GeoQueryEngine{backend: backend}
}

// clampPage normalizes page/limit: page >= 1, limit clamped to
// [1, MaxLimit]. A zero limit means the caller left it unset and gets
// DefaultLimit.
func clampPage(page, limit int) ports.PageRequest {
	if page < 1 {
		page = 1
	}
	switch {
	case limit == 0:
		limit = DefaultLimit
	case limit < 1:
		limit = 1
	case limit > MaxLimit:
		limit = MaxLimit
	}
	return ports.PageRequest{Page: page, Limit: limit}
}

// SearchNear returns places within radiusKm of center, ordered by distance.
func (e *GeoQueryEngine) SearchNear(ctx context.Context, communityID int64, center domain.Coordinate, radiusKm float64, page, limit int, role domain.Role) (*domain.PlacePage, error) {
	if err := geovalid.ValidateCoordinate(center.Latitude, center.Longitude); err != nil {
		return nil, err
	}
	if err := geovalid.ValidateRadiusKm(radiusKm); err != nil {
		return nil, err
	}

	pg := clampPage(page, limit)
	filter := ports.PlaceFilter{IncludeRestricted: role.HasCulturalAuthority()}

	metrics.GeoQueries.WithLabelValues("radius").Inc()
	rows, total, err := e.backend.FindWithinRadius(ctx, center, radiusKm, communityID, filter, pg)
	if err != nil {
		return nil, err
	}

	return e.shape(role, rows, total, pg), nil
}

// SearchInBounds returns places inside the bounding box.
func (e *GeoQueryEngine) SearchInBounds(ctx context.Context, communityID int64, bbox domain.Bounds, page, limit int, role domain.Role) (*domain.PlacePage, error) {
	if err := geovalid.ValidateBounds(bbox); err != nil {
		return nil, err
	}

	pg := clampPage(page, limit)
	filter := ports.PlaceFilter{IncludeRestricted: role.HasCulturalAuthority()}

	metrics.GeoQueries.WithLabelValues("bounds").Inc()
	rows, total, err := e.backend.FindInBounds(ctx, bbox, communityID, filter, pg)
	if err != nil {
		return nil, err
	}

	return e.shape(role, rows, total, pg), nil
}

// shape applies the cultural filter a second time on the returned rows.
// The backend already excludes restricted records for callers without
// authority, but the filter is cheap and a backend bug must not leak a
// restricted place. Total is adjusted by whatever the defense pass drops.
func (e *GeoQueryEngine) shape(role domain.Role, rows []domain.Place, total int, pg ports.PageRequest) *domain.PlacePage {
	visible := e.policy.FilterVisible(role, rows)
	if dropped := len(rows) - len(visible); dropped > 0 {
		metrics.RestrictedFiltered.Add(float64(dropped))
		total -= dropped
	}
	if visible == nil {
		visible = []domain.Place{}
	}
	return &domain.PlacePage{Data: visible, Total: total, Page: pg.Page, Limit: pg.Limit}
}
