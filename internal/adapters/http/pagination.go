package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/nahanni/placekeeper/internal/core/domain"
)

// parsePage reads page-based pagination query parameters. Out-of-range
// values are clamped by the service, so only syntax is checked here.
func parsePage(c *fiber.Ctx) (page, limit int) {
	page = c.QueryInt("page", 1)
	limit = c.QueryInt("limit", 0) // 0 lets the service apply its default
	return page, limit
}

// SetLinkHeaders adds RFC 8288 Link headers for a paginated place response.
func SetLinkHeaders(c *fiber.Ctx, p *domain.PlacePage) {
	base := c.Path()
	lastPage := 1
	if p.Limit > 0 {
		lastPage = (p.Total + p.Limit - 1) / p.Limit
		if lastPage < 1 {
			lastPage = 1
		}
	}

	var links []string
	links = append(links, fmt.Sprintf(`<%s?page=1&limit=%d>; rel="first"`, base, p.Limit))
	if p.Page > 1 {
		links = append(links, fmt.Sprintf(`<%s?page=%d&limit=%d>; rel="prev"`, base, p.Page-1, p.Limit))
	}
	if p.Page < lastPage {
		links = append(links, fmt.Sprintf(`<%s?page=%d&limit=%d>; rel="next"`, base, p.Page+1, p.Limit))
	}
	links = append(links, fmt.Sprintf(`<%s?page=%d&limit=%d>; rel="last"`, base, lastPage, p.Limit))

	c.Set("Link", strings.Join(links, ", "))
}
