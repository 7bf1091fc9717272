package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/nahanni/placekeeper/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, etc.
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// domainError maps a core error onto the HTTP taxonomy. Unrecognized
// errors become a generic 500 without leaking detail.
func domainError(c *fiber.Ctx, err error) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return newError(c, fiber.StatusBadRequest, "validation_failed", ve.Error())
	case errors.Is(err, domain.ErrPlaceNotFound):
		return newError(c, fiber.StatusNotFound, "place_not_found", "place not found")
	case errors.Is(err, domain.ErrCommunityNotFound):
		return newError(c, fiber.StatusNotFound, "community_not_found", "community not found")
	case errors.Is(err, domain.ErrCulturalProtocolViolation):
		return newError(c, fiber.StatusForbidden, "cultural_protocol_violation",
			"access to this place is restricted by cultural protocol")
	case errors.Is(err, domain.ErrInsufficientPermissions):
		return newError(c, fiber.StatusForbidden, "insufficient_permissions",
			"your role does not permit this operation")
	default:
		return newError(c, fiber.StatusInternalServerError, "internal_error", "internal error")
	}
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errUnauthorized returns a 401 error.
func errUnauthorized(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusUnauthorized, "unauthorized", msg)
}
