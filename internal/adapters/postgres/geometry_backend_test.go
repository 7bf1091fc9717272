package postgres

import (
	"context"
	"testing"

	"github.com/nahanni/placekeeper/internal/core/domain"
	"github.com/nahanni/placekeeper/internal/core/ports"
)

// Range checks run before any statement, so a nil pool never gets hit.
func TestFindWithinRadius_RejectsBadRadius(t *testing.T) {
	b := NewGeometryBackend(nil)
	center := domain.Coordinate{Latitude: 62.45, Longitude: -114.37}

	for _, radius := range []float64{-5, 0, 5000} {
		_, _, err := b.FindWithinRadius(context.Background(), center, radius, 1,
			ports.PlaceFilter{}, ports.PageRequest{Page: 1, Limit: 10})
		if !domain.IsValidation(err) {
			t.Errorf("radius %v: want validation error, got %v", radius, err)
		}
	}
}

func TestFindInBounds_RejectsDegenerateBox(t *testing.T) {
	b := NewGeometryBackend(nil)

	_, _, err := b.FindInBounds(context.Background(),
		domain.Bounds{North: 62.40, South: 62.50, East: -114.30, West: -114.40}, 1,
		ports.PlaceFilter{}, ports.PageRequest{Page: 1, Limit: 10})
	if !domain.IsValidation(err) {
		t.Errorf("inverted box: want validation error, got %v", err)
	}
}
