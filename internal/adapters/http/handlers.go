package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/nahanni/placekeeper/internal/core/domain"
	"github.com/nahanni/placekeeper/internal/core/ports"
)

// communityParam parses the :communityId path parameter.
func communityParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("communityId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadRequest(c, "communityId must be a positive integer")
	}
	return id, nil
}

// placeParam parses the :id path parameter.
func placeParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadRequest(c, "place id must be a positive integer")
	}
	return id, nil
}

// queryFloat parses a required float query parameter. Fiber's QueryFloat
// would silently turn garbage into its default, so parse strictly.
func queryFloat(c *fiber.Ctx, name string) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, errBadRequest(c, name+" is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errBadRequest(c, name+" must be a number")
	}
	return v, nil
}

// CreatePlaceHandler creates a place within a community.
func CreatePlaceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		communityID, err := communityParam(c)
		if err != nil {
			return err
		}

		var in ports.CreatePlaceInput
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		place, err := deps.Places.CreatePlace(c.UserContext(), callerFrom(c), communityID, in)
		if err != nil {
			return domainError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(place)
	}
}

// GetPlaceHandler returns a single place by ID.
func GetPlaceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		communityID, err := communityParam(c)
		if err != nil {
			return err
		}
		id, err := placeParam(c)
		if err != nil {
			return err
		}

		place, err := deps.Places.GetPlaceByID(c.UserContext(), callerFrom(c), communityID, id)
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON(place)
	}
}

// ListPlacesHandler lists a community's places, optionally filtered by region.
func ListPlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		communityID, err := communityParam(c)
		if err != nil {
			return err
		}
		region := c.Query("region")
		page, limit := parsePage(c)

		result, err := deps.Places.GetPlacesByCommunity(c.UserContext(), callerFrom(c), communityID, region, page, limit)
		if err != nil {
			return domainError(c, err)
		}
		SetLinkHeaders(c, result)
		return c.JSON(result)
	}
}

// UpdatePlaceHandler applies a partial update to a place.
func UpdatePlaceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		communityID, err := communityParam(c)
		if err != nil {
			return err
		}
		id, err := placeParam(c)
		if err != nil {
			return err
		}

		var patch domain.PlacePatch
		if err := c.BodyParser(&patch); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		place, err := deps.Places.UpdatePlace(c.UserContext(), callerFrom(c), communityID, id, patch)
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON(place)
	}
}

// DeletePlaceHandler removes a place.
func DeletePlaceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		communityID, err := communityParam(c)
		if err != nil {
			return err
		}
		id, err := placeParam(c)
		if err != nil {
			return err
		}

		if err := deps.Places.DeletePlace(c.UserContext(), callerFrom(c), communityID, id); err != nil {
			return domainError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// NearbyPlacesHandler finds places within a radius of a point, nearest first.
func NearbyPlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		communityID, err := communityParam(c)
		if err != nil {
			return err
		}

		lat, err := queryFloat(c, "lat")
		if err != nil {
			return err
		}
		lng, err := queryFloat(c, "lng")
		if err != nil {
			return err
		}
		center := domain.Coordinate{Latitude: lat, Longitude: lng}

		radiusKm := 10.0
		if raw := c.Query("radius_km"); raw != "" {
			radiusKm, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				return errBadRequest(c, "radius_km must be a number")
			}
		}
		page, limit := parsePage(c)

		result, err := deps.Places.SearchPlacesNear(c.UserContext(), callerFrom(c), communityID, center, radiusKm, page, limit)
		if err != nil {
			return domainError(c, err)
		}
		SetLinkHeaders(c, result)
		return c.JSON(result)
	}
}

// BoundsPlacesHandler finds places inside a bounding box.
func BoundsPlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		communityID, err := communityParam(c)
		if err != nil {
			return err
		}

		var bbox domain.Bounds
		for _, edge := range []struct {
			name string
			dst  *float64
		}{
			{"north", &bbox.North},
			{"south", &bbox.South},
			{"east", &bbox.East},
			{"west", &bbox.West},
		} {
			v, err := queryFloat(c, edge.name)
			if err != nil {
				return err
			}
			*edge.dst = v
		}
		page, limit := parsePage(c)

		result, err := deps.Places.GetPlacesByBounds(c.UserContext(), callerFrom(c), communityID, bbox, page, limit)
		if err != nil {
			return domainError(c, err)
		}
		SetLinkHeaders(c, result)
		return c.JSON(result)
	}
}
