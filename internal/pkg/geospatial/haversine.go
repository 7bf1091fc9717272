// Package geospatial provides spherical distance math for the
// coordinate-pair storage backend, which has no native spatial engine.
package geospatial

import "math"

const (
	earthRadiusKm = 6371.0
	// Kilometers per degree of latitude (and per degree of longitude at
	// the equator) on the R = 6371 km sphere. One degree is
	// pi*R/180 ~= 111.195 km; the pre-filter divides by this constant, so
	// it must not exceed the true value or the box under-covers the
	// radius and the exact haversine check loses true positives.
	kmPerDegree = 111.0
)

// HaversineKm calculates the great-circle distance in kilometers between
// two points using a spherical Earth approximation. The geometry backend
// computes geodesic distance natively; results from the two backends may
// differ slightly near a radius boundary.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// HaversineMeters is HaversineKm expressed in meters.
func HaversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	return HaversineKm(lat1, lng1, lat2, lng2) * 1000
}

// PreFilterBox is a conservative bounding box used to narrow candidate
// rows before the exact haversine check. FullLongitude is set when the box
// would cross the antimeridian or touch a pole; in that case no longitude
// predicate can be applied and the caller must scan all longitudes.
type PreFilterBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
	FullLongitude  bool
}

// RadiusPreFilter returns a bounding box guaranteed to contain every point
// within radiusKm of (lat, lng). Latitude is clamped at the poles. The
// longitude window degenerates near the poles (cos(lat) -> 0) and when the
// box wraps the antimeridian; both cases fall back to the full longitude
// range rather than silently dropping candidates.
func RadiusPreFilter(lat, lng, radiusKm float64) PreFilterBox {
	latDelta := radiusKm / kmPerDegree

	box := PreFilterBox{
		MinLat: math.Max(lat-latDelta, -90),
		MaxLat: math.Min(lat+latDelta, 90),
	}

	// If the box reaches a pole, every longitude is within reach.
	if box.MinLat <= -90+1e-9 || box.MaxLat >= 90-1e-9 {
		box.FullLongitude = true
		return box
	}

	// Shrink per-degree longitude distance by the widest-latitude cosine
	// so the box stays conservative.
	widestLat := math.Max(math.Abs(box.MinLat), math.Abs(box.MaxLat))
	cosLat := math.Cos(toRad(widestLat))
	if cosLat < 1e-9 {
		box.FullLongitude = true
		return box
	}

	lngDelta := radiusKm / (kmPerDegree * cosLat)
	if lngDelta >= 180 {
		box.FullLongitude = true
		return box
	}

	box.MinLng = lng - lngDelta
	box.MaxLng = lng + lngDelta
	if box.MinLng < -180 || box.MaxLng > 180 {
		// Wraps the antimeridian; a single BETWEEN predicate cannot
		// express the window.
		box.FullLongitude = true
	}
	return box
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
