package geovalid_test

import (
	"math"
	"testing"

	"github.com/nahanni/placekeeper/internal/core/domain"
	"github.com/nahanni/placekeeper/internal/pkg/geovalid"
)

func TestPointRoundTrip(t *testing.T) {
	in := domain.Coordinate{Latitude: 62.4539, Longitude: -114.3718}

	data, err := geovalid.EncodePoint(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	out, err := geovalid.DecodePoint(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if math.Abs(out.Latitude-in.Latitude) > 1e-9 || math.Abs(out.Longitude-in.Longitude) > 1e-9 {
		t.Errorf("round trip changed coordinate: got %+v, want %+v", out, in)
	}
}

func TestDecodePoint_LngFirst(t *testing.T) {
	// GeoJSON stores [lng, lat]; a swapped pair must not decode silently.
	c, err := geovalid.DecodePoint([]byte(`{"type":"Point","coordinates":[-114.37,62.45]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Latitude != 62.45 || c.Longitude != -114.37 {
		t.Errorf("expected lat=62.45 lng=-114.37, got %+v", c)
	}
}

func TestDecodePoint_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":          `{`,
		"wrong type":        `{"type":"Polygon","coordinates":[1,2]}`,
		"too few coords":    `{"type":"Point","coordinates":[1]}`,
		"out of range pair": `{"type":"Point","coordinates":[200,95]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := geovalid.DecodePoint([]byte(raw)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPolygonRoundTrip(t *testing.T) {
	in := &domain.Polygon{Rings: [][]domain.Coordinate{{
		{Latitude: 62.0, Longitude: -114.0},
		{Latitude: 62.0, Longitude: -113.0},
		{Latitude: 63.0, Longitude: -113.0},
		{Latitude: 62.0, Longitude: -114.0},
	}}}

	data, err := geovalid.EncodePolygon(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	out, err := geovalid.DecodePolygon(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(out.Rings) != 1 || len(out.Rings[0]) != 4 {
		t.Fatalf("unexpected ring shape: %+v", out.Rings)
	}
	for i := range in.Rings[0] {
		if out.Rings[0][i] != in.Rings[0][i] {
			t.Errorf("point %d changed: got %+v, want %+v", i, out.Rings[0][i], in.Rings[0][i])
		}
	}
}

func TestDecodePolygon_RejectsUnclosedRing(t *testing.T) {
	raw := `{"type":"Polygon","coordinates":[[[-114,62],[-113,62],[-113,63],[-112,63]]]}`
	if _, err := geovalid.DecodePolygon([]byte(raw)); err == nil {
		t.Error("expected error for unclosed ring")
	}
}
