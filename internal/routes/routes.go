package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kalyan-enterprises/rsa-backend/internal/handlers"
	"github.com/kalyan-enterprises/rsa-backend/internal/middleware"
	"github.com/kalyan-enterprises/rsa-backend/internal/payment"
	"github.com/kalyan-enterprises/rsa-backend/internal/services"
	"github.com/kalyan-enterprises/rsa-backend/internal/storage"
)

// Deps carries everything the route handlers need
type Deps struct {
	Store         storage.Store
	Gateway       payment.Gateway
	PolicyService *services.PolicyService
	Sessions      *services.WizardSessionManager
	Certificates  *services.CertificateService
	AdminAPIKey   string
	Version       string
}

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, deps Deps) {
	orderHandler := handlers.NewOrderHandler(deps.Gateway)
	paymentHandler := handlers.NewPaymentHandler(deps.PolicyService)
	policyHandler := handlers.NewPolicyHandler(deps.Store, deps.Certificates)
	customerHandler := handlers.NewCustomerHandler(deps.Store)
	dashboardHandler := handlers.NewDashboardHandler(deps.Store)
	wizardHandler := handlers.NewWizardHandler(deps.Sessions)
	healthHandler := handlers.NewHealthHandler(deps.Version, deps.Store)

	// Root endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to the RSA Policy API",
			"version": deps.Version,
			"endpoints": fiber.Map{
				"health":    "/health",
				"plans":     "/api/plans",
				"order":     "/create-order",
				"verify":    "/api/payments/verify-and-save",
				"policies":  "/api/policies",
				"customers": "/api/customers",
				"dashboard": "/api/dashboard",
			},
		})
	})

	app.Get("/health", healthHandler.Check)

	// Storefront: order creation + payment callback verification
	app.Post("/create-order", orderHandler.CreateOrder)

	api := app.Group("/api")
	api.Post("/payments/verify-and-save", paymentHandler.VerifyAndSave)

	// Plan catalog + purchase wizard sessions
	api.Get("/plans", wizardHandler.ListPlans)

	wizard := api.Group("/wizard")
	wizard.Post("/start", wizardHandler.StartSession)
	wizard.Get("/:id", wizardHandler.GetSession)
	wizard.Put("/:id/plan", wizardHandler.SelectPlan)
	wizard.Put("/:id/details", wizardHandler.UpdateDetails)

	// Admin back-office, guarded by shared API key
	adminAuth := middleware.RequireAdminKey(deps.AdminAPIKey)

	policies := api.Group("/policies", adminAuth)
	policies.Get("/", policyHandler.ListPolicies)
	policies.Get("/:id", policyHandler.GetPolicy)
	policies.Get("/:id/certificate", policyHandler.Certificate)
	policies.Put("/:id", policyHandler.UpdatePolicy)
	policies.Delete("/:id", policyHandler.DeletePolicy)

	customers := api.Group("/customers", adminAuth)
	customers.Get("/", customerHandler.ListCustomers)
	customers.Get("/:id", customerHandler.GetCustomer)
	customers.Put("/:id", customerHandler.UpdateCustomer)
	customers.Delete("/:id", customerHandler.DeleteCustomer)

	api.Get("/dashboard", adminAuth, dashboardHandler.GetDashboard)
}
