// Package memory holds an in-memory SpatialBackend used in unit tests and
// local development. It mirrors the coordinate-pair backend's semantics:
// haversine distance, inclusive bounds, compare-and-swap updates.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nahanni/placekeeper/internal/core/domain"
	"github.com/nahanni/placekeeper/internal/core/ports"
	"github.com/nahanni/placekeeper/internal/pkg/geospatial"
	"github.com/nahanni/placekeeper/internal/pkg/geovalid"
)

// PlaceStore is a map-backed SpatialBackend. Safe for concurrent use.
type PlaceStore struct {
	mu     sync.RWMutex
	nextID int64
	places map[int64]domain.Place
}

// NewPlaceStore creates an empty store.
func NewPlaceStore() *PlaceStore {
	return &PlaceStore{nextID: 1, places: make(map[int64]domain.Place)}
}

var _ ports.SpatialBackend = (*PlaceStore)(nil)

func (s *PlaceStore) Insert(_ context.Context, place *domain.Place) (*domain.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := *place
	// Detach from caller-owned memory so later mutation of the input does
	// not reach into the store.
	p.MediaURLs = append([]string(nil), place.MediaURLs...)
	p.Boundary = clonePolygon(place.Boundary)
	p.ID = s.nextID
	s.nextID++
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.places[p.ID] = p

	out := p
	return &out, nil
}

func (s *PlaceStore) GetByID(_ context.Context, id, communityID int64) (*domain.Place, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.places[id]
	if !ok || p.CommunityID != communityID {
		return nil, domain.ErrPlaceNotFound
	}
	out := p
	return &out, nil
}

func clonePolygon(p *domain.Polygon) *domain.Polygon {
	if p == nil {
		return nil
	}
	rings := make([][]domain.Coordinate, len(p.Rings))
	for i, ring := range p.Rings {
		rings[i] = append([]domain.Coordinate(nil), ring...)
	}
	return &domain.Polygon{Rings: rings}
}

func matches(p domain.Place, communityID int64, f ports.PlaceFilter) bool {
	if p.CommunityID != communityID {
		return false
	}
	if !f.IncludeRestricted && p.IsRestricted {
		return false
	}
	if f.Region != "" && p.Region != f.Region {
		return false
	}
	return true
}

func (s *PlaceStore) collect(communityID int64, f ports.PlaceFilter) []domain.Place {
	var out []domain.Place
	for _, p := range s.places {
		if matches(p, communityID, f) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func page(all []domain.Place, pg ports.PageRequest) ([]domain.Place, int) {
	total := len(all)
	offset := pg.Offset()
	if offset >= total {
		return nil, total
	}
	end := offset + pg.Limit
	if end > total {
		end = total
	}
	return all[offset:end], total
}

func (s *PlaceStore) ListByCommunity(_ context.Context, communityID int64, filter ports.PlaceFilter, pg ports.PageRequest) ([]domain.Place, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, total := page(s.collect(communityID, filter), pg)
	return rows, total, nil
}

func (s *PlaceStore) Update(_ context.Context, id, communityID int64, patch domain.PlacePatch, expectRestricted bool) (*domain.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.places[id]
	if !ok || p.CommunityID != communityID || p.IsRestricted != expectRestricted {
		return nil, domain.ErrPlaceNotFound
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Coordinate != nil {
		p.Coordinate = *patch.Coordinate
	}
	if patch.Boundary != nil {
		p.Boundary = clonePolygon(patch.Boundary)
	}
	if patch.Region != nil {
		p.Region = *patch.Region
	}
	if patch.MediaURLs != nil {
		p.MediaURLs = append([]string(nil), (*patch.MediaURLs)...)
	}
	if patch.CulturalSignificance != nil {
		p.CulturalSignificance = *patch.CulturalSignificance
	}
	if patch.IsRestricted != nil {
		p.IsRestricted = *patch.IsRestricted
	}
	p.UpdatedAt = time.Now().UTC()
	s.places[id] = p

	out := p
	return &out, nil
}

func (s *PlaceStore) Delete(_ context.Context, id, communityID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.places[id]
	if !ok || p.CommunityID != communityID {
		return domain.ErrPlaceNotFound
	}
	delete(s.places, id)
	return nil
}

func (s *PlaceStore) FindWithinRadius(_ context.Context, center domain.Coordinate, radiusKm float64, communityID int64, filter ports.PlaceFilter, pg ports.PageRequest) ([]domain.Place, int, error) {
	if err := geovalid.ValidateRadiusKm(radiusKm); err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var within []domain.Place
	for _, p := range s.collect(communityID, filter) {
		km := geospatial.HaversineKm(center.Latitude, center.Longitude,
			p.Coordinate.Latitude, p.Coordinate.Longitude)
		if km <= radiusKm {
			m := km * 1000
			p.DistanceMeters = &m
			within = append(within, p)
		}
	}
	sort.Slice(within, func(i, j int) bool {
		di, dj := *within[i].DistanceMeters, *within[j].DistanceMeters
		if di != dj {
			return di < dj
		}
		return within[i].ID < within[j].ID
	})

	rows, total := page(within, pg)
	return rows, total, nil
}

func (s *PlaceStore) FindInBounds(_ context.Context, bbox domain.Bounds, communityID int64, filter ports.PlaceFilter, pg ports.PageRequest) ([]domain.Place, int, error) {
	if err := geovalid.ValidateBounds(bbox); err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var inside []domain.Place
	for _, p := range s.collect(communityID, filter) {
		if bbox.Contains(p.Coordinate) {
			inside = append(inside, p)
		}
	}

	rows, total := page(inside, pg)
	return rows, total, nil
}
