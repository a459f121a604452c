package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/kalyan-enterprises/rsa-backend/internal/models"
	"github.com/kalyan-enterprises/rsa-backend/internal/services"
)

// WizardHandler handles the purchase wizard session endpoints
type WizardHandler struct {
	sessions *services.WizardSessionManager
}

// NewWizardHandler creates a new wizard handler
func NewWizardHandler(sessions *services.WizardSessionManager) *WizardHandler {
	return &WizardHandler{sessions: sessions}
}

// ListPlans handles GET /api/plans
func (h *WizardHandler) ListPlans(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"plans":   models.PlanCatalog(),
	})
}

// StartSession handles POST /api/wizard/start
func (h *WizardHandler) StartSession(c *fiber.Ctx) error {
	session := h.sessions.Start()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"session": session,
	})
}

// GetSession handles GET /api/wizard/:id
func (h *WizardHandler) GetSession(c *fiber.Ctx) error {
	session, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Session not found or expired",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"session": session,
	})
}

// SelectPlan handles PUT /api/wizard/:id/plan
func (h *WizardHandler) SelectPlan(c *fiber.Ctx) error {
	var req struct {
		PlanID string `json:"planId"`
	}
	if err := c.BodyParser(&req); err != nil || req.PlanID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Plan ID is required",
		})
	}

	session, err := h.sessions.SelectPlan(c.Params("id"), req.PlanID)
	if err != nil {
		if errors.Is(err, services.ErrUnknownPlan) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Unknown plan",
			})
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Session not found or expired",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"session": session,
	})
}

// UpdateDetails handles PUT /api/wizard/:id/details
func (h *WizardHandler) UpdateDetails(c *fiber.Ctx) error {
	var req struct {
		models.CustomerInput
		TermsAccepted bool `json:"termsAccepted"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	session, err := h.sessions.UpdateDetails(c.Params("id"), &req.CustomerInput, req.TermsAccepted)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Session not found or expired",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"session": session,
	})
}
