package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kalyan-enterprises/rsa-backend/internal/models"
	"github.com/kalyan-enterprises/rsa-backend/internal/services"
	"github.com/kalyan-enterprises/rsa-backend/internal/storage"
)

// PolicyHandler handles the admin policy CRUD views
type PolicyHandler struct {
	store        storage.Store
	certificates *services.CertificateService
}

// NewPolicyHandler creates a new policy handler
func NewPolicyHandler(store storage.Store, certificates *services.CertificateService) *PolicyHandler {
	return &PolicyHandler{
		store:        store,
		certificates: certificates,
	}
}

// ListPolicies handles GET /api/policies with optional free-text search,
// status tab filter and pagination
func (h *PolicyHandler) ListPolicies(c *fiber.Ctx) error {
	policies, err := h.store.GetAllPolicies()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch policies",
		})
	}

	search := c.Query("search")
	status := c.Query("status")
	now := time.Now()

	filtered := make([]*models.Policy, 0, len(policies))
	for _, policy := range policies {
		policy.Status = policy.StatusAt(now)
		if status != "" && policy.Status != status {
			continue
		}
		if !policy.MatchesSearch(search) {
			continue
		}
		filtered = append(filtered, policy)
	}

	page, limit := pageParams(c)
	paged, totalPages := paginate(filtered, page, limit)

	return c.JSON(fiber.Map{
		"success":    true,
		"policies":   paged,
		"total":      len(filtered),
		"page":       page,
		"totalPages": totalPages,
	})
}

// GetPolicy handles GET /api/policies/:id (public ID or policy number)
func (h *PolicyHandler) GetPolicy(c *fiber.Ctx) error {
	policy, err := h.store.GetPolicy(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Policy not found",
		})
	}

	policy.RefreshStatus()
	return c.JSON(fiber.Map{
		"success": true,
		"policy":  policy,
	})
}

// UpdatePolicy handles PUT /api/policies/:id
func (h *PolicyHandler) UpdatePolicy(c *fiber.Ctx) error {
	policy, err := h.store.GetPolicy(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Policy not found",
		})
	}

	var req struct {
		PolicyType    *string  `json:"policyType"`
		Amount        *float64 `json:"amount"`
		OriginalPrice *float64 `json:"originalPrice"`
		Duration      *string  `json:"duration"`
		StartDate     *string  `json:"startDate"` // "2006-01-02"
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if req.PolicyType != nil {
		policy.PolicyType = *req.PolicyType
	}
	if req.Amount != nil {
		policy.Amount = *req.Amount
	}
	if req.OriginalPrice != nil {
		policy.OriginalPrice = *req.OriginalPrice
	}

	recompute := false
	if req.Duration != nil {
		policy.Duration = *req.Duration
		recompute = true
	}
	if req.StartDate != nil {
		start, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Start date must be in YYYY-MM-DD format",
			})
		}
		policy.StartDate = start
		recompute = true
	}
	if recompute {
		// Expiry always follows start date + duration
		policy.ExpiryDate = policy.ComputeExpiry(policy.StartDate)
	}
	policy.RefreshStatus()

	if err := h.store.UpdatePolicy(policy); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update policy",
		})
	}

	log.Printf("Policy %s updated", policy.PolicyNumber)
	return c.JSON(fiber.Map{
		"success": true,
		"policy":  policy,
	})
}

// DeletePolicy handles DELETE /api/policies/:id
func (h *PolicyHandler) DeletePolicy(c *fiber.Ctx) error {
	policy, err := h.store.GetPolicy(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Policy not found",
		})
	}

	if err := h.store.DeletePolicy(policy.PolicyID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to delete policy",
		})
	}

	log.Printf("Policy %s deleted", policy.PolicyNumber)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Policy deleted",
	})
}

// Certificate handles GET /api/policies/:id/certificate, returning the
// policy certificate PDF
func (h *PolicyHandler) Certificate(c *fiber.Ctx) error {
	policy, err := h.store.GetPolicy(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Policy not found",
		})
	}

	customer, err := h.store.GetCustomer(policy.CustomerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Deleted customers do not cascade; render with empty details
			customer = &models.Customer{}
		} else {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to load customer",
			})
		}
	}

	pdf, err := h.certificates.Render(policy, customer)
	if err != nil {
		log.Printf("Certificate render failed for policy %s: %v", policy.PolicyNumber, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to generate certificate",
		})
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="Policy_%s.pdf"`, policy.PolicyNumber))
	return c.Send(pdf)
}

// pageParams reads page/limit query values with admin-table defaults
func pageParams(c *fiber.Ctx) (page, limit int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.Query("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

func paginate[T any](items []T, page, limit int) ([]T, int) {
	totalPages := (len(items) + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}, totalPages
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], totalPages
}
