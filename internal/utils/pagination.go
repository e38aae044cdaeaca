package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// ListQuery holds common list endpoint parameters.
type ListQuery struct {
	Skip     int
	Limit    int
	IsActive bool
}

// ParseListQuery reads skip, limit and is_active query params with the
// storefront defaults: first page of 100, active rows only.
func ParseListQuery(c *fiber.Ctx) ListQuery {
	skip := parseInt(c.Query("skip", "0"), 0)
	limit := parseInt(c.Query("limit", "100"), 100)
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 100
	}

	isActive := true
	if v := c.Query("is_active"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			isActive = parsed
		}
	}

	return ListQuery{Skip: skip, Limit: limit, IsActive: isActive}
}

func parseInt(value string, fallback int) int {
	if parsed, err := strconv.Atoi(value); err == nil {
		return parsed
	}
	return fallback
}
