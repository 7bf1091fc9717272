package domain

import (
	"time"
)

// Field limits for Place, enforced before any persistence attempt.
const (
	MaxNameLen                 = 200
	MaxDescriptionLen          = 2000
	MaxRegionLen               = 100
	MaxCulturalSignificanceLen = 1000
	MaxMediaURLs               = 10
)

// Place is a located cultural record owned by exactly one community.
// CommunityID is the tenant key and never changes after creation.
type Place struct {
	ID                   int64      `json:"id"`
	CommunityID          int64      `json:"community_id"`
	Name                 string     `json:"name"`
	Description          string     `json:"description,omitempty"`
	Coordinate           Coordinate `json:"coordinate"`
	Boundary             *Polygon   `json:"boundary,omitempty"`
	Region               string     `json:"region,omitempty"`
	MediaURLs            []string   `json:"media_urls,omitempty"`
	CulturalSignificance string     `json:"cultural_significance,omitempty"`
	IsRestricted         bool       `json:"is_restricted"`
	DistanceMeters       *float64   `json:"distance_meters,omitempty"` // computed field
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// PlacePatch is a partial update. Nil fields are left untouched.
// There is deliberately no CommunityID field: a place cannot move
// between communities.
type PlacePatch struct {
	Name                 *string     `json:"name,omitempty"`
	Description          *string     `json:"description,omitempty"`
	Coordinate           *Coordinate `json:"coordinate,omitempty"`
	Boundary             *Polygon    `json:"boundary,omitempty"`
	Region               *string     `json:"region,omitempty"`
	MediaURLs            *[]string   `json:"media_urls,omitempty"`
	CulturalSignificance *string     `json:"cultural_significance,omitempty"`
	IsRestricted         *bool       `json:"is_restricted,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p PlacePatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Coordinate == nil &&
		p.Boundary == nil && p.Region == nil && p.MediaURLs == nil &&
		p.CulturalSignificance == nil && p.IsRestricted == nil
}

// PlacePage wraps a page of places with pagination metadata. Total reflects
// the number of places visible to the caller after cultural filtering.
type PlacePage struct {
	Data  []Place `json:"data"`
	Total int     `json:"total"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}
