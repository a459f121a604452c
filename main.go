package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/kalyan-enterprises/rsa-backend/database"
	"github.com/kalyan-enterprises/rsa-backend/internal/config"
	"github.com/kalyan-enterprises/rsa-backend/internal/jobs"
	"github.com/kalyan-enterprises/rsa-backend/internal/models"
	"github.com/kalyan-enterprises/rsa-backend/internal/payment"
	"github.com/kalyan-enterprises/rsa-backend/internal/routes"
	"github.com/kalyan-enterprises/rsa-backend/internal/services"
	"github.com/kalyan-enterprises/rsa-backend/internal/storage"
)

const version = "1.0.0"

func main() {
	// Load .env file for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("No .env file found - checking environment variables")
		}
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize storage
	var store storage.Store

	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("Connecting to PostgreSQL database...")
		database.Connect(&cfg.DB)

		log.Println("Running database migrations...")
		if err := database.DB.AutoMigrate(
			&models.Policy{},
			&models.Customer{},
		); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("Database migrations completed")

		store = storage.NewDatabaseStore(database.DB)
	}

	// Initialize services
	gateway := payment.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	emailService := services.NewEmailService(cfg.SMTP, cfg.Company.Name)
	policyService := services.NewPolicyService(store, cfg.Razorpay.KeySecret, emailService)
	sessionManager := services.NewWizardSessionManager()
	certificateService := services.NewCertificateService(cfg.Company.Name)

	// Start scheduled expiry reminders
	expiryJob := jobs.NewExpiryReminderJob(store, emailService)
	expiryJob.Start()

	log.Println("All services initialized")

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "RSA Policy Backend v" + version,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Admin-Key",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	routes.SetupRoutes(app, routes.Deps{
		Store:         store,
		Gateway:       gateway,
		PolicyService: policyService,
		Sessions:      sessionManager,
		Certificates:  certificateService,
		AdminAPIKey:   cfg.Admin.APIKey,
		Version:       version,
	})

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		expiryJob.Stop()
		_ = app.Shutdown()
	}()

	log.Printf("RSA Policy Backend starting on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
