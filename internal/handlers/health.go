package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kalyan-enterprises/rsa-backend/internal/storage"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	Version string
	store   storage.Store
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, store storage.Store) *HealthHandler {
	return &HealthHandler{
		Version: version,
		store:   store,
	}
}

// Check returns the health status of the service with record counts
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	policies, customers, err := h.store.Counts()
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":  "unhealthy",
			"version": h.Version,
		})
	}

	return c.JSON(fiber.Map{
		"status":    "healthy",
		"service":   "RSA Policy Backend",
		"version":   h.Version,
		"policies":  policies,
		"customers": customers,
	})
}
