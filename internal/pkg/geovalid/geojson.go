package geovalid

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"

	"github.com/nahanni/placekeeper/internal/core/domain"
)

// GeoJSON coordinates are longitude-first. This ordering is a hard
// contract with both storage backends; stores that keep lat/lng in
// separate columns still round-trip through these helpers.

// EncodePoint renders a coordinate as a GeoJSON Point document.
func EncodePoint(c domain.Coordinate) ([]byte, error) {
	p := orb.Point{c.Longitude, c.Latitude}
	return json.Marshal(struct {
		Type        string     `json:"type"`
		Coordinates [2]float64 `json:"coordinates"`
	}{Type: "Point", Coordinates: [2]float64{p.Lon(), p.Lat()}})
}

// DecodePoint parses a GeoJSON Point document into a coordinate. Malformed
// input is a validation failure, not a panic.
func DecodePoint(data []byte) (domain.Coordinate, error) {
	var doc struct {
		Type        string    `json:"type"`
		Coordinates []float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Coordinate{}, domain.NewValidationError("point", "malformed GeoJSON: %v", err)
	}
	if doc.Type != "Point" {
		return domain.Coordinate{}, domain.NewValidationError("point", "expected type Point, got %q", doc.Type)
	}
	if len(doc.Coordinates) < 2 {
		return domain.Coordinate{}, domain.NewValidationError("point", "expected [lng, lat] coordinates")
	}
	p := orb.Point{doc.Coordinates[0], doc.Coordinates[1]}
	c := domain.Coordinate{Latitude: p.Lat(), Longitude: p.Lon()}
	if err := ValidateCoordinate(c.Latitude, c.Longitude); err != nil {
		return domain.Coordinate{}, err
	}
	return c, nil
}

// EncodePolygon renders a polygon as a GeoJSON Polygon document, outer
// ring first, holes after.
func EncodePolygon(p *domain.Polygon) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("nil polygon")
	}
	rings := make(orb.Polygon, 0, len(p.Rings))
	for _, ring := range p.Rings {
		r := make(orb.Ring, 0, len(ring))
		for _, c := range ring {
			r = append(r, orb.Point{c.Longitude, c.Latitude})
		}
		rings = append(rings, r)
	}
	coords := make([][][2]float64, 0, len(rings))
	for _, r := range rings {
		ring := make([][2]float64, 0, len(r))
		for _, pt := range r {
			ring = append(ring, [2]float64{pt.Lon(), pt.Lat()})
		}
		coords = append(coords, ring)
	}
	return json.Marshal(struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}{Type: "Polygon", Coordinates: coords})
}

// DecodePolygon parses a GeoJSON Polygon document.
func DecodePolygon(data []byte) (*domain.Polygon, error) {
	var doc struct {
		Type        string        `json:"type"`
		Coordinates [][][]float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, domain.NewValidationError("boundary", "malformed GeoJSON: %v", err)
	}
	if doc.Type != "Polygon" {
		return nil, domain.NewValidationError("boundary", "expected type Polygon, got %q", doc.Type)
	}
	out := &domain.Polygon{Rings: make([][]domain.Coordinate, 0, len(doc.Coordinates))}
	for _, ring := range doc.Coordinates {
		r := make([]domain.Coordinate, 0, len(ring))
		for _, pair := range ring {
			if len(pair) < 2 {
				return nil, domain.NewValidationError("boundary", "expected [lng, lat] pairs")
			}
			p := orb.Point{pair[0], pair[1]}
			r = append(r, domain.Coordinate{Latitude: p.Lat(), Longitude: p.Lon()})
		}
		out.Rings = append(out.Rings, r)
	}
	if err := ValidatePolygon(out); err != nil {
		return nil, err
	}
	return out, nil
}
