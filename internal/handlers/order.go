package handlers

import (
	"math"

	"github.com/gofiber/fiber/v2"

	"github.com/kalyan-enterprises/rsa-backend/internal/models"
	"github.com/kalyan-enterprises/rsa-backend/internal/payment"
)

// OrderHandler creates gateway payment orders
type OrderHandler struct {
	gateway payment.Gateway
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(gateway payment.Gateway) *OrderHandler {
	return &OrderHandler{gateway: gateway}
}

// CreateOrder handles POST /create-order
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req models.OrderRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if req.Amount <= 0 || req.Receipt == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Amount and receipt are required",
		})
	}

	if req.Currency == "" {
		req.Currency = "INR"
	}

	// Gateway expects the amount in paise
	amountPaise := int64(math.Round(req.Amount * 100))

	order, err := h.gateway.CreateOrder(amountPaise, req.Currency, req.Receipt)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}
