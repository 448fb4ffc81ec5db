package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/koleka/koleka/internal/campaign"
)

// RegisterCampaignRoutes wires campaign listing and creation endpoints.
func RegisterCampaignRoutes(r fiber.Router, h *campaign.Handler) {
	r.Get("/campaigns", h.List)
	r.Get("/campaigns/:id", h.Get)
	r.Post("/campaigns", h.Create)
}
