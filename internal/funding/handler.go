package funding

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the funding HTTP endpoint.
type Handler struct {
	service *Service
}

// NewHandler constructs a funding handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Fund processes a pledge against a campaign. The call can block for up to
// the poll deadline while the payment is reconciled.
func (h *Handler) Fund(c *fiber.Ctx) error {
	campaignID := c.Params("id")
	var req FundRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Fund(c.UserContext(), campaignID, req.Phone, req.Amount)
	if err != nil {
		kind, ok := KindOf(err)
		if !ok {
			return fiber.NewError(http.StatusInternalServerError, "Transaction failed")
		}
		switch kind {
		case KindValidation:
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case KindNotFound:
			return fiber.NewError(http.StatusNotFound, err.Error())
		case KindPaymentNotSuccessful:
			return fiber.NewError(http.StatusPaymentRequired, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, "Transaction failed")
		}
	}

	return c.JSON(fiber.Map{
		"message": "Payment successful",
		"transaction": TransactionResponse{
			ID:        result.TransactionID,
			Provider:  result.Provider,
			Status:    result.Status,
			Amount:    result.Amount.StringFixed(2),
			Phone:     result.Phone,
			Simulated: result.Simulated,
		},
		"campaign": fiber.Map{
			"id":          result.Campaign.ID,
			"title":       result.Campaign.Title,
			"description": result.Campaign.Description,
			"goal":        result.Campaign.Goal.StringFixed(2),
			"raised":      result.Campaign.Raised.StringFixed(2),
			"ownerName":   result.Campaign.OwnerName,
			"ownerEmail":  result.Campaign.OwnerEmail,
			"createdAt":   result.Campaign.CreatedAt.Format(time.RFC3339),
		},
	})
}
