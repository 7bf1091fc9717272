package usecases_test

import (
	"context"
	"testing"

	"github.com/nahanni/placekeeper/internal/adapters/memory"
	"github.com/nahanni/placekeeper/internal/core/domain"
	"github.com/nahanni/placekeeper/internal/core/usecases"
)

// seedYellowknife loads a small map around Yellowknife: three open places
// at roughly 1.5 km, 7 km, and 14 km from the center, plus one restricted
// place inside the closest ring.
func seedYellowknife(t *testing.T, store *memory.PlaceStore) {
	t.Helper()
	center := domain.Coordinate{Latitude: 62.4540, Longitude: -114.3718}
	places := []domain.Place{
		{CommunityID: 1, Name: "Old Town", Coordinate: domain.Coordinate{Latitude: center.Latitude + 0.013, Longitude: center.Longitude}},
		{CommunityID: 1, Name: "Dettah Road Lookout", Coordinate: domain.Coordinate{Latitude: center.Latitude + 0.063, Longitude: center.Longitude}},
		{CommunityID: 1, Name: "Prelude Lake", Coordinate: domain.Coordinate{Latitude: center.Latitude + 0.126, Longitude: center.Longitude}},
		{CommunityID: 1, Name: "Sacred Mountain", IsRestricted: true, Coordinate: domain.Coordinate{Latitude: center.Latitude + 0.009, Longitude: center.Longitude}},
	}
	for i := range places {
		if _, err := store.Insert(context.Background(), &places[i]); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func newEngine(store *memory.PlaceStore) *usecases.GeoQueryEngine {
	return usecases.NewGeoQueryEngine(usecases.NewTenantIsolationGuard(store))
}

func TestSearchNear_RadiusTiers(t *testing.T) {
	store := memory.NewPlaceStore()
	seedYellowknife(t, store)
	engine := newEngine(store)
	ctx := context.Background()
	center := domain.Coordinate{Latitude: 62.4540, Longitude: -114.3718}

	tests := []struct {
		radiusKm float64
		want     int
	}{
		{2, 1},  // Old Town only
		{8, 2},  // + Dettah Road Lookout
		{15, 3}, // + Prelude Lake
	}
	for _, tt := range tests {
		page, err := engine.SearchNear(ctx, 1, center, tt.radiusKm, 1, 10, domain.RoleViewer)
		if err != nil {
			t.Fatalf("radius %v: %v", tt.radiusKm, err)
		}
		if len(page.Data) != tt.want {
			t.Errorf("radius %v km: expected %d places, got %d", tt.radiusKm, tt.want, len(page.Data))
		}
	}
}

func TestSearchNear_OrderedByDistance(t *testing.T) {
	store := memory.NewPlaceStore()
	seedYellowknife(t, store)
	engine := newEngine(store)

	page, err := engine.SearchNear(context.Background(), 1,
		domain.Coordinate{Latitude: 62.4540, Longitude: -114.3718}, 20, 1, 10, domain.RoleViewer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Data) != 3 {
		t.Fatalf("expected 3 places, got %d", len(page.Data))
	}
	for i := 1; i < len(page.Data); i++ {
		prev, cur := page.Data[i-1].DistanceMeters, page.Data[i].DistanceMeters
		if prev == nil || cur == nil {
			t.Fatal("distance must be populated on radius results")
		}
		if *cur < *prev {
			t.Errorf("results out of order at index %d: %v before %v", i, *prev, *cur)
		}
	}
}

func TestSearchNear_RestrictedHiddenFromViewer(t *testing.T) {
	store := memory.NewPlaceStore()
	seedYellowknife(t, store)
	engine := newEngine(store)
	ctx := context.Background()
	center := domain.Coordinate{Latitude: 62.4540, Longitude: -114.3718}

	viewerPage, err := engine.SearchNear(ctx, 1, center, 2, 1, 10, domain.RoleViewer)
	if err != nil {
		t.Fatalf("viewer search: %v", err)
	}
	for _, p := range viewerPage.Data {
		if p.IsRestricted {
			t.Errorf("restricted place %q leaked to viewer", p.Name)
		}
	}

	elderPage, err := engine.SearchNear(ctx, 1, center, 2, 1, 10, domain.RoleElder)
	if err != nil {
		t.Fatalf("elder search: %v", err)
	}
	if len(elderPage.Data) != len(viewerPage.Data)+1 {
		t.Errorf("elder should see one more place: viewer=%d elder=%d",
			len(viewerPage.Data), len(elderPage.Data))
	}
}

func TestSearchNear_InvalidInput(t *testing.T) {
	engine := newEngine(memory.NewPlaceStore())
	ctx := context.Background()
	good := domain.Coordinate{Latitude: 62, Longitude: -114}

	cases := []struct {
		name     string
		center   domain.Coordinate
		radiusKm float64
	}{
		{"zero radius", good, 0},
		{"negative radius", good, -5},
		{"radius over cap", good, usecases.MaxRadiusKm + 1},
		{"bad latitude", domain.Coordinate{Latitude: 95, Longitude: 0}, 10},
		{"bad longitude", domain.Coordinate{Latitude: 0, Longitude: 181}, 10},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.SearchNear(ctx, 1, tt.center, tt.radiusKm, 1, 10, domain.RoleViewer)
			if !domain.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestSearchNear_ClampsPagination(t *testing.T) {
	store := memory.NewPlaceStore()
	seedYellowknife(t, store)
	engine := newEngine(store)

	page, err := engine.SearchNear(context.Background(), 1,
		domain.Coordinate{Latitude: 62.4540, Longitude: -114.3718}, 20, -3, 999, domain.RoleViewer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Page != 1 {
		t.Errorf("page should clamp to 1, got %d", page.Page)
	}
	if page.Limit != usecases.MaxLimit {
		t.Errorf("limit should clamp to %d, got %d", usecases.MaxLimit, page.Limit)
	}

	page, err = engine.SearchNear(context.Background(), 1,
		domain.Coordinate{Latitude: 62.4540, Longitude: -114.3718}, 20, 1, 0, domain.RoleViewer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Limit != usecases.DefaultLimit {
		t.Errorf("limit 0 should default to %d, got %d", usecases.DefaultLimit, page.Limit)
	}

	page, err = engine.SearchNear(context.Background(), 1,
		domain.Coordinate{Latitude: 62.4540, Longitude: -114.3718}, 20, 1, -7, domain.RoleViewer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Limit != 1 {
		t.Errorf("negative limit should clamp to 1, got %d", page.Limit)
	}
}

func TestSearchInBounds(t *testing.T) {
	store := memory.NewPlaceStore()
	seedYellowknife(t, store)
	engine := newEngine(store)
	ctx := context.Background()

	// A box holding Old Town and the restricted place, but not the two
	// farther places.
	bbox := domain.Bounds{North: 62.48, South: 62.44, East: -114.3, West: -114.4}

	page, err := engine.SearchInBounds(ctx, 1, bbox, 1, 10, domain.RoleViewer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Data) != 1 || page.Data[0].Name != "Old Town" {
		t.Errorf("viewer should see only Old Town, got %+v", page.Data)
	}

	elderPage, err := engine.SearchInBounds(ctx, 1, bbox, 1, 10, domain.RoleElder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(elderPage.Data) != 2 {
		t.Errorf("elder should see 2 places, got %d", len(elderPage.Data))
	}
}

func TestSearchInBounds_InvalidBox(t *testing.T) {
	engine := newEngine(memory.NewPlaceStore())
	_, err := engine.SearchInBounds(context.Background(), 1,
		domain.Bounds{North: 62, South: 63, East: -114, West: -115}, 1, 10, domain.RoleViewer)
	if !domain.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}
