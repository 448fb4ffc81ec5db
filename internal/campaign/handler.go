package campaign

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes campaign HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a campaign HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Goal        string `json:"goal"`
	OwnerName   string `json:"ownerName"`
	OwnerEmail  string `json:"ownerEmail"`
}

type campaignResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Goal        string `json:"goal"`
	Raised      string `json:"raised"`
	OwnerName   string `json:"ownerName"`
	OwnerEmail  string `json:"ownerEmail"`
	CreatedAt   string `json:"createdAt"`
}

type pledgeResponse struct {
	ID         string `json:"id"`
	CampaignID string `json:"campaignId"`
	Amount     string `json:"amount"`
	Phone      string `json:"phone"`
	CreatedAt  string `json:"createdAt"`
}

// Create opens a new campaign.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	created, err := h.service.Create(c.UserContext(), CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Goal:        req.Goal,
		OwnerName:   req.OwnerName,
		OwnerEmail:  req.OwnerEmail,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"campaign": toCampaignResponse(created),
		"message":  "Campaign created",
	})
}

// List returns every campaign, newest first.
func (h *Handler) List(c *fiber.Ctx) error {
	campaigns, err := h.service.List(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "failed to list campaigns")
	}
	out := make([]campaignResponse, 0, len(campaigns))
	for _, item := range campaigns {
		out = append(out, toCampaignResponse(item))
	}
	return c.JSON(fiber.Map{"campaigns": out})
}

// Get returns one campaign together with its pledge history.
func (h *Handler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	found, pledges, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "Campaign not found")
		}
		return fiber.NewError(http.StatusInternalServerError, "failed to load campaign")
	}
	out := make([]pledgeResponse, 0, len(pledges))
	for _, p := range pledges {
		out = append(out, pledgeResponse{
			ID:         p.ID,
			CampaignID: p.CampaignID,
			Amount:     p.Amount.StringFixed(2),
			Phone:      p.Phone,
			CreatedAt:  p.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(fiber.Map{
		"campaign": toCampaignResponse(found),
		"pledges":  out,
	})
}

func toCampaignResponse(c Campaign) campaignResponse {
	return campaignResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Goal:        c.Goal.StringFixed(2),
		Raised:      c.Raised.StringFixed(2),
		OwnerName:   c.OwnerName,
		OwnerEmail:  c.OwnerEmail,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
}
