package domain

// Coordinate is a geographic point (WGS 84).
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Polygon is a set of closed rings of coordinates. The outer ring comes
// first; any further rings are holes. Every ring has at least four points
// with the first equal to the last.
type Polygon struct {
	Rings [][]Coordinate `json:"rings"`
}

// Bounds is a geographic bounding box. Valid bounds satisfy North > South
// and East > West.
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Contains reports whether the point lies inside the box, edges included.
func (b Bounds) Contains(c Coordinate) bool {
	return c.Latitude >= b.South && c.Latitude <= b.North &&
		c.Longitude >= b.West && c.Longitude <= b.East
}
