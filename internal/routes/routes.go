// Package routes defines the API routing configuration.
// It wires repositories, services and handlers together and groups
// routes by audience: public, customer and admin.
package routes

import (
	"time"

	"cardbank/internal/config"
	"cardbank/internal/handlers"
	"cardbank/internal/middleware"
	"cardbank/internal/repositories"
	"cardbank/internal/services/card"
	"cardbank/internal/services/customer"
	"cardbank/internal/services/funds"
	"cardbank/internal/services/idempotency"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App) {
	// Repositories
	lockTimeout := config.GetDurationEnv("LOCK_TIMEOUT", 3*time.Second)
	cardRepo := repositories.NewCardRepository(repositories.DB, lockTimeout)
	customerRepo := repositories.NewCustomerRepository(repositories.DB, repositories.CacheService)

	// Services
	resultTTL := config.GetDurationEnv("IDEMPOTENCY_RESULT_TTL", time.Hour)
	reserveTTL := config.GetDurationEnv("IDEMPOTENCY_RESERVE_TTL", time.Minute)
	idemService := idempotency.NewService(repositories.CacheService, resultTTL, reserveTTL)

	fundsService := funds.NewService(cardRepo, idemService)
	cardService := card.NewService(cardRepo, customerRepo, idemService)
	customerService := customer.NewService(customerRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(customerService)
	fundsHandler := handlers.NewFundsHandler(fundsService)
	cardHandler := handlers.NewCardHandler(cardService)
	adminHandler := handlers.NewAdminHandler(cardService)

	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")

	// Public endpoints
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)

	// Customer endpoints
	protected := api.Use(middleware.Auth)

	cards := protected.Group("/cards")
	cards.Get("/", cardHandler.ListCards)

	// Funds movement. Registered before the :number routes so the
	// literal paths are not swallowed by the parameter.
	cards.Post("/transfer", fundsHandler.Transfer)
	cards.Post("/withdraw", fundsHandler.Withdraw)
	cards.Post("/deposit", fundsHandler.Deposit)

	protected.Get("/transactions/:id", cardHandler.GetTransaction)

	cards.Get("/:number", cardHandler.GetCard)
	cards.Post("/:number/block", cardHandler.RequestBlock)
	cards.Get("/:number/transactions", cardHandler.CardTransactions)

	// Admin endpoints
	admin := app.Group("/api/admin", middleware.Auth, middleware.AdminOnly)

	adminCards := admin.Group("/cards")
	adminCards.Post("/", adminHandler.CreateCard)
	adminCards.Get("/", adminHandler.ListCards)
	adminCards.Put("/:number", adminHandler.UpdateCard)
	adminCards.Post("/:number/block", adminHandler.BlockCard)
	adminCards.Post("/:number/activate", adminHandler.ActivateCard)
	adminCards.Delete("/:number", adminHandler.DeleteCard)
}
