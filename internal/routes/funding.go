package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/koleka/koleka/internal/funding"
)

// RegisterFundingRoutes wires the pledge funding endpoint behind its rate limiter.
func RegisterFundingRoutes(r fiber.Router, h *funding.Handler, rateLimiter fiber.Handler) {
	r.Post("/campaigns/:id/fund", rateLimiter, h.Fund)
}
