// Package geovalid validates WGS 84 coordinates and polygon rings and
// converts between the domain types and their GeoJSON encodings.
package geovalid

import (
	"math"

	"github.com/nahanni/placekeeper/internal/core/domain"
)

// ValidateCoordinate checks that lat/lng are finite and within WGS 84
// ranges: latitude in [-90, 90], longitude in [-180, 180].
func ValidateCoordinate(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) {
		return domain.NewValidationError("latitude", "must be a finite number")
	}
	if math.IsNaN(lng) || math.IsInf(lng, 0) {
		return domain.NewValidationError("longitude", "must be a finite number")
	}
	if lat < -90 || lat > 90 {
		return domain.NewValidationError("latitude", "must be within [-90, 90], got %v", lat)
	}
	if lng < -180 || lng > 180 {
		return domain.NewValidationError("longitude", "must be within [-180, 180], got %v", lng)
	}
	return nil
}

// ValidatePolygon checks every ring of the polygon: at least four points,
// first point equal to the last (closed ring), every vertex within range.
// Holes are validated the same way as the outer ring.
func ValidatePolygon(p *domain.Polygon) error {
	if p == nil {
		return nil
	}
	if len(p.Rings) == 0 {
		return domain.NewValidationError("boundary", "polygon must have at least one ring")
	}
	for i, ring := range p.Rings {
		if len(ring) < 4 {
			return domain.NewValidationError("boundary", "ring %d must have at least 4 points, got %d", i, len(ring))
		}
		first, last := ring[0], ring[len(ring)-1]
		if first.Latitude != last.Latitude || first.Longitude != last.Longitude {
			return domain.NewValidationError("boundary", "ring %d is not closed: first and last points differ", i)
		}
		for j, c := range ring {
			if err := ValidateCoordinate(c.Latitude, c.Longitude); err != nil {
				return domain.NewValidationError("boundary", "ring %d point %d: %v", i, j, err)
			}
		}
	}
	return nil
}

// MaxRadiusKm caps radius searches; anything wider is a caller mistake,
// not a map query.
const MaxRadiusKm = 1000.0

// ValidateRadiusKm checks that a search radius is finite and within
// (0, MaxRadiusKm].
func ValidateRadiusKm(radiusKm float64) error {
	if math.IsNaN(radiusKm) || radiusKm <= 0 || radiusKm > MaxRadiusKm {
		return domain.NewValidationError("radius_km", "must be within (0, %v], got %v", MaxRadiusKm, radiusKm)
	}
	return nil
}

// ValidateBounds checks that the box corners are valid coordinates and the
// box is non-degenerate (north > south, east > west).
func ValidateBounds(b domain.Bounds) error {
	if err := ValidateCoordinate(b.North, b.East); err != nil {
		return err
	}
	if err := ValidateCoordinate(b.South, b.West); err != nil {
		return err
	}
	if b.North <= b.South {
		return domain.NewValidationError("bounds", "north (%v) must be greater than south (%v)", b.North, b.South)
	}
	if b.East <= b.West {
		return domain.NewValidationError("bounds", "east (%v) must be greater than west (%v)", b.East, b.West)
	}
	return nil
}
