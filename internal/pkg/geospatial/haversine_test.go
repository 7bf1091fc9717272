package geospatial_test

import (
	"math"
	"testing"

	"github.com/nahanni/placekeeper/internal/pkg/geospatial"
)

func TestHaversineKm(t *testing.T) {
	tests := []struct {
		name       string
		lat1, lng1 float64
		lat2, lng2 float64
		wantKm     float64
		tolKm      float64
	}{
		{"same point", 62.45, -114.37, 62.45, -114.37, 0, 1e-9},
		// Paris - London, a well-known reference pair.
		{"paris london", 48.8566, 2.3522, 51.5074, -0.1278, 343.5, 2},
		// One degree of latitude is roughly 111 km anywhere.
		{"one degree latitude", 0, 0, 1, 0, 111.2, 1},
		// Antipodal points are half the circumference apart.
		{"antipodes", 0, 0, 0, 180, math.Pi * 6371, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := geospatial.HaversineKm(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.wantKm) > tt.tolKm {
				t.Errorf("got %.3f km, want %.3f ± %.3f", got, tt.wantKm, tt.tolKm)
			}
		})
	}
}

func TestHaversineMeters(t *testing.T) {
	km := geospatial.HaversineKm(62, -114, 62.1, -114)
	m := geospatial.HaversineMeters(62, -114, 62.1, -114)
	if math.Abs(m-km*1000) > 1e-6 {
		t.Errorf("meters should be km*1000: got %v vs %v", m, km*1000)
	}
}

func TestRadiusPreFilter_ContainsRadius(t *testing.T) {
	// Every point at exactly the radius must fall inside the box.
	center := struct{ lat, lng float64 }{62.45, -114.37}
	const radiusKm = 25.0

	box := geospatial.RadiusPreFilter(center.lat, center.lng, radiusKm)
	if box.FullLongitude {
		t.Fatal("expected a bounded longitude window at mid latitude")
	}

	for deg := 0; deg < 360; deg += 15 {
		rad := float64(deg) * math.Pi / 180
		lat := center.lat + (radiusKm/111.32)*math.Cos(rad)
		lng := center.lng + (radiusKm/(111.32*math.Cos(center.lat*math.Pi/180)))*math.Sin(rad)

		d := geospatial.HaversineKm(center.lat, center.lng, lat, lng)
		if d > radiusKm*1.01 {
			continue // construction overshoots slightly at some bearings
		}
		if lat < box.MinLat || lat > box.MaxLat {
			t.Errorf("bearing %d: lat %v outside [%v, %v]", deg, lat, box.MinLat, box.MaxLat)
		}
		if lng < box.MinLng || lng > box.MaxLng {
			t.Errorf("bearing %d: lng %v outside [%v, %v]", deg, lng, box.MinLng, box.MaxLng)
		}
	}
}

func TestRadiusPreFilter_KeepsPointsNearRadiusEdge(t *testing.T) {
	// A point just inside the radius but near the box's latitude edge:
	// 0.8990 degrees of latitude is ~99.96 km, within a 100 km radius, so
	// the box must reach at least that far or the exact check never sees
	// the candidate.
	box := geospatial.RadiusPreFilter(0, 0, 100)
	if box.FullLongitude {
		t.Fatal("expected bounded window at the equator")
	}

	const edgeLat = 0.8990
	if d := geospatial.HaversineKm(0, 0, edgeLat, 0); d > 100 {
		t.Fatalf("test point drifted outside the radius: %.4f km", d)
	}
	if box.MaxLat < edgeLat {
		t.Errorf("box MaxLat %.5f excludes in-radius point at lat %.5f", box.MaxLat, edgeLat)
	}
	if box.MinLat > -edgeLat {
		t.Errorf("box MinLat %.5f excludes in-radius point at lat %.5f", box.MinLat, -edgeLat)
	}
}

func TestRadiusPreFilter_PoleFallsBackToFullLongitude(t *testing.T) {
	box := geospatial.RadiusPreFilter(89.9, 0, 100)
	if !box.FullLongitude {
		t.Error("a box touching the pole must cover all longitudes")
	}
	if box.MaxLat != 90 {
		t.Errorf("latitude must clamp at 90, got %v", box.MaxLat)
	}
}

func TestRadiusPreFilter_AntimeridianFallsBackToFullLongitude(t *testing.T) {
	box := geospatial.RadiusPreFilter(0, 179.9, 100)
	if !box.FullLongitude {
		t.Error("a box wrapping the antimeridian cannot use a single longitude window")
	}
}

func TestRadiusPreFilter_MidLatitudeWindow(t *testing.T) {
	box := geospatial.RadiusPreFilter(45, 10, 50)
	if box.FullLongitude {
		t.Fatal("expected bounded window")
	}
	if box.MinLat >= 45 || box.MaxLat <= 45 {
		t.Errorf("latitude window must straddle the center: [%v, %v]", box.MinLat, box.MaxLat)
	}
	if box.MinLng >= 10 || box.MaxLng <= 10 {
		t.Errorf("longitude window must straddle the center: [%v, %v]", box.MinLng, box.MaxLng)
	}
	// The longitude window widens with latitude: it must be wider than the
	// latitude window at 45°N.
	if (box.MaxLng - box.MinLng) <= (box.MaxLat - box.MinLat) {
		t.Error("longitude window should be wider than latitude window off the equator")
	}
}
