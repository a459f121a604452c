package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kalyan-enterprises/rsa-backend/internal/models"
	"github.com/kalyan-enterprises/rsa-backend/internal/storage"
)

// DashboardHandler serves the admin dashboard summary
type DashboardHandler struct {
	store storage.Store
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(store storage.Store) *DashboardHandler {
	return &DashboardHandler{store: store}
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	policies, err := h.store.GetAllPolicies()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch dashboard data",
		})
	}

	stats := computeDashboard(policies, time.Now())
	return c.JSON(fiber.Map{
		"success":   true,
		"dashboard": stats,
	})
}

func computeDashboard(policies []*models.Policy, now time.Time) *models.DashboardStats {
	stats := &models.DashboardStats{
		RecentPolicies: []*models.Policy{},
	}

	for _, policy := range policies {
		policy.Status = policy.StatusAt(now)
		stats.TotalRevenue += policy.Amount

		switch policy.Status {
		case models.PolicyStatusActive:
			stats.ActivePolicies++
		case models.PolicyStatusExpiringSoon:
			stats.ExpiringSoon++
		}

		switch {
		case strings.HasPrefix(policy.Duration, "1"):
			stats.PolicyDistribution.OneYear++
		case strings.HasPrefix(policy.Duration, "2"):
			stats.PolicyDistribution.TwoYear++
		case strings.HasPrefix(policy.Duration, "3"):
			stats.PolicyDistribution.ThreeYear++
		}
	}

	// GetAllPolicies returns newest first
	recent := policies
	if len(recent) > 5 {
		recent = recent[:5]
	}
	stats.RecentPolicies = recent

	return stats
}
