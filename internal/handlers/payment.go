package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/kalyan-enterprises/rsa-backend/internal/models"
	"github.com/kalyan-enterprises/rsa-backend/internal/services"
)

// PaymentHandler verifies gateway callbacks and materializes policies
type PaymentHandler struct {
	policyService *services.PolicyService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(policyService *services.PolicyService) *PaymentHandler {
	return &PaymentHandler{policyService: policyService}
}

// VerifyAndSave handles POST /api/payments/verify-and-save
func (h *PaymentHandler) VerifyAndSave(c *fiber.Ctx) error {
	var req models.VerifyRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Payment ID, order ID and signature are required",
		})
	}

	result, err := h.policyService.VerifyAndSave(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSignature) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid payment signature",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error during payment verification",
		})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "Payment verified and data saved successfully",
		"policyId":   result.PolicyID,
		"customerId": result.CustomerID,
		"data": fiber.Map{
			"policy":   result.Policy,
			"customer": result.Customer,
		},
	})
}
