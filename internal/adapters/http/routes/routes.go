package routes

import (
	"stockroom/internal/adapters/http/handlers"
	"stockroom/internal/adapters/http/middleware"
	"stockroom/internal/adapters/persistence/repositories"
	"stockroom/internal/config"
	"stockroom/internal/core/services"
	"stockroom/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers onto the app
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	tokenRepo := repositories.NewTokenRepository(db)
	productRepo := repositories.NewProductRepository(db)

	// Token issuer built from config; the secret lives nowhere else
	issuer := jwt.NewIssuer(cfg.JWT.Secret, cfg.JWT.AccessTokenMins, cfg.JWT.RefreshTokenDays)

	// Services
	authService := services.NewAuthService(userRepo, tokenRepo, issuer)
	userService := services.NewUserService(userRepo, tokenRepo)
	productService := services.NewProductService(productRepo)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)

	// Shared middleware
	requireAuth := middleware.RequireAuth(authService)

	app.Get("/health", healthHandler.Check)
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api/v1")

	// Auth routes with a stricter rate limit
	auth := api.Group("/auth", middleware.AuthRateLimiter())
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", requireAuth, authHandler.Logout)

	// User routes
	users := api.Group("/users", requireAuth)
	users.Get("/me", userHandler.Me)
	users.Patch("/me", userHandler.UpdateMe)
	users.Get("/", middleware.RequireAdmin(), userHandler.List)
	users.Post("/:id/approve", middleware.RequireAdmin(), userHandler.Approve)
	users.Delete("/:id", middleware.RequireAdmin(), userHandler.Delete)

	// Product routes: every operation requires an approved account
	products := api.Group("/products", requireAuth, middleware.RequireApproved())
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.Get)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
}
