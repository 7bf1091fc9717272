package plainsql

import (
	"sort"

	"github.com/nahanni/placekeeper/internal/core/domain"
	"github.com/nahanni/placekeeper/internal/pkg/geospatial"
)

// filterByRadius scores bounding-box candidates with the haversine formula
// and keeps those within radiusKm, sorted by distance then id. The
// pre-filter box is conservative, so this pass only ever removes rows.
func filterByRadius(candidates []domain.Place, center domain.Coordinate, radiusKm float64) []domain.Place {
	kept := make([]domain.Place, 0, len(candidates))
	for _, p := range candidates {
		km := geospatial.HaversineKm(center.Latitude, center.Longitude,
			p.Coordinate.Latitude, p.Coordinate.Longitude)
		if km <= radiusKm {
			m := km * 1000
			p.DistanceMeters = &m
			kept = append(kept, p)
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		di, dj := *kept[i].DistanceMeters, *kept[j].DistanceMeters
		if di != dj {
			return di < dj
		}
		return kept[i].ID < kept[j].ID
	})
	return kept
}

// pageSlice cuts one page out of the full result set.
func pageSlice(places []domain.Place, offset, limit int) []domain.Place {
	if offset >= len(places) {
		return nil
	}
	end := offset + limit
	if end > len(places) {
		end = len(places)
	}
	return places[offset:end]
}
