package user

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes user HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a user HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type signupRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Signup registers a new user account.
func (h *Handler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	u, err := h.service.Signup(c.UserContext(), SignupInput{Name: req.Name, Email: req.Email})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return fiber.NewError(http.StatusConflict, err.Error())
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"user": fiber.Map{
			"id":        u.ID,
			"name":      u.Name,
			"email":     u.Email,
			"createdAt": u.CreatedAt.Format(time.RFC3339),
		},
		"message": "Signed up",
	})
}
