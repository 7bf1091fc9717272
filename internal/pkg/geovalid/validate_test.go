package geovalid_test

import (
	"math"
	"testing"

	"github.com/nahanni/placekeeper/internal/core/domain"
	"github.com/nahanni/placekeeper/internal/pkg/geovalid"
)

func TestValidateCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lng     float64
		wantErr bool
	}{
		{"valid", 62.1, -123.4, false},
		{"north pole", 90, 0, false},
		{"south pole", -90, 0, false},
		{"antimeridian east", 0, 180, false},
		{"antimeridian west", 0, -180, false},
		{"lat too high", 90.0001, 0, true},
		{"lat too low", -90.0001, 0, true},
		{"lng too high", 0, 180.0001, true},
		{"lng too low", 0, -180.0001, true},
		{"lat NaN", math.NaN(), 0, true},
		{"lng NaN", 0, math.NaN(), true},
		{"lat Inf", math.Inf(1), 0, true},
		{"lng -Inf", 0, math.Inf(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := geovalid.ValidateCoordinate(tt.lat, tt.lng)
			if tt.wantErr && err == nil {
				t.Errorf("expected error for (%v, %v)", tt.lat, tt.lng)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error for (%v, %v): %v", tt.lat, tt.lng, err)
			}
			if tt.wantErr && err != nil && !domain.IsValidation(err) {
				t.Errorf("expected ValidationError, got %T", err)
			}
		})
	}
}

func TestValidateRadiusKm(t *testing.T) {
	tests := []struct {
		name     string
		radiusKm float64
		wantErr  bool
	}{
		{"small radius", 0.5, false},
		{"at the cap", geovalid.MaxRadiusKm, false},
		{"zero", 0, true},
		{"negative", -5, true},
		{"over the cap", geovalid.MaxRadiusKm + 1, true},
		{"NaN", math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := geovalid.ValidateRadiusKm(tt.radiusKm)
			if tt.wantErr && !domain.IsValidation(err) {
				t.Errorf("expected validation error for %v, got %v", tt.radiusKm, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error for %v: %v", tt.radiusKm, err)
			}
		})
	}
}

func ring(points ...[2]float64) []domain.Coordinate {
	out := make([]domain.Coordinate, 0, len(points))
	for _, p := range points {
		out = append(out, domain.Coordinate{Latitude: p[0], Longitude: p[1]})
	}
	return out
}

func TestValidatePolygon(t *testing.T) {
	closed := ring([2]float64{0, 0}, [2]float64{0, 1}, [2]float64{1, 1}, [2]float64{0, 0})
	open := ring([2]float64{0, 0}, [2]float64{0, 1}, [2]float64{1, 1}, [2]float64{1, 0})

	tests := []struct {
		name    string
		poly    *domain.Polygon
		wantErr bool
	}{
		{"nil polygon is allowed", nil, false},
		{"closed ring", &domain.Polygon{Rings: [][]domain.Coordinate{closed}}, false},
		{"no rings", &domain.Polygon{}, true},
		{"too few points", &domain.Polygon{Rings: [][]domain.Coordinate{closed[:3]}}, true},
		{"unclosed ring", &domain.Polygon{Rings: [][]domain.Coordinate{open}}, true},
		{"bad hole", &domain.Polygon{Rings: [][]domain.Coordinate{closed, open}}, true},
		{"out-of-range vertex", &domain.Polygon{Rings: [][]domain.Coordinate{
			ring([2]float64{0, 0}, [2]float64{91, 1}, [2]float64{1, 1}, [2]float64{0, 0}),
		}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := geovalid.ValidatePolygon(tt.poly)
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateBounds(t *testing.T) {
	tests := []struct {
		name    string
		bounds  domain.Bounds
		wantErr bool
	}{
		{"valid", domain.Bounds{North: 63, South: 62, East: -122, West: -124}, false},
		{"north equals south", domain.Bounds{North: 62, South: 62, East: -122, West: -124}, true},
		{"north below south", domain.Bounds{North: 61, South: 62, East: -122, West: -124}, true},
		{"east equals west", domain.Bounds{North: 63, South: 62, East: -124, West: -124}, true},
		{"east below west", domain.Bounds{North: 63, South: 62, East: -125, West: -124}, true},
		{"corner out of range", domain.Bounds{North: 91, South: 62, East: -122, West: -124}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := geovalid.ValidateBounds(tt.bounds)
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
