package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/kalyan-enterprises/rsa-backend/internal/models"
	"github.com/kalyan-enterprises/rsa-backend/internal/storage"
)

// CustomerHandler handles the admin customer CRUD views
type CustomerHandler struct {
	store storage.Store
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(store storage.Store) *CustomerHandler {
	return &CustomerHandler{store: store}
}

// ListCustomers handles GET /api/customers with optional free-text search
// and pagination
func (h *CustomerHandler) ListCustomers(c *fiber.Ctx) error {
	customers, err := h.store.GetAllCustomers()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch customers",
		})
	}

	search := c.Query("search")
	filtered := make([]*models.Customer, 0, len(customers))
	for _, customer := range customers {
		if customer.MatchesSearch(search) {
			filtered = append(filtered, customer)
		}
	}

	page, limit := pageParams(c)
	paged, totalPages := paginate(filtered, page, limit)

	return c.JSON(fiber.Map{
		"success":    true,
		"customers":  paged,
		"total":      len(filtered),
		"page":       page,
		"totalPages": totalPages,
	})
}

// GetCustomer handles GET /api/customers/:id
func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	customer, err := h.store.GetCustomer(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Customer not found",
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"customer": customer,
	})
}

// UpdateCustomer handles PUT /api/customers/:id
func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	customer, err := h.store.GetCustomer(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Customer not found",
		})
	}

	var req struct {
		CustomerName  *string `json:"customerName"`
		Email         *string `json:"email"`
		PhoneNumber   *string `json:"phoneNumber"`
		Address       *string `json:"address"`
		City          *string `json:"city"`
		VehicleNumber *string `json:"vehicleNumber"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if req.CustomerName != nil {
		customer.CustomerName = *req.CustomerName
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		customer.PhoneNumber = *req.PhoneNumber
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.City != nil {
		customer.City = *req.City
	}
	if req.VehicleNumber != nil {
		customer.VehicleNumber = *req.VehicleNumber
	}
	// Same normalization the create path applies
	customer.Normalize()

	if err := h.store.UpdateCustomer(customer); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update customer",
		})
	}

	log.Printf("Customer %s updated", customer.CustomerID)
	return c.JSON(fiber.Map{
		"success":  true,
		"customer": customer,
	})
}

// DeleteCustomer handles DELETE /api/customers/:id. Deletion does not
// cascade to the customer's policies.
func (h *CustomerHandler) DeleteCustomer(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.store.DeleteCustomer(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Customer not found",
		})
	}

	log.Printf("Customer %s deleted", id)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Customer deleted",
	})
}
