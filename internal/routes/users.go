package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/koleka/koleka/internal/user"
)

// RegisterUserRoutes wires the signup endpoint.
func RegisterUserRoutes(r fiber.Router, h *user.Handler) {
	r.Post("/signup", h.Signup)
}
