package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/nahanni/placekeeper/internal/core/domain"
)

const callerKey = "caller"

// CallerMiddleware resolves the authenticated caller from the gateway
// headers X-User-ID and X-User-Role. Authentication itself happens
// upstream; requests arriving without both headers are rejected.
func CallerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rawID := c.Get("X-User-ID")
		rawRole := c.Get("X-User-Role")
		if rawID == "" || rawRole == "" {
			return errUnauthorized(c, "X-User-ID and X-User-Role headers are required")
		}

		userID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || userID <= 0 {
			return errUnauthorized(c, "X-User-ID must be a positive integer")
		}

		role, err := domain.ParseRole(rawRole)
		if err != nil {
			return errUnauthorized(c, "X-User-Role must be one of viewer, editor, admin, elder")
		}

		c.Locals(callerKey, domain.Caller{UserID: userID, Role: role})
		return c.Next()
	}
}

// callerFrom retrieves the caller stored by CallerMiddleware.
func callerFrom(c *fiber.Ctx) domain.Caller {
	caller, _ := c.Locals(callerKey).(domain.Caller)
	return caller
}
