package router

import (
	"log"
	"net/http"

	"github.com/hamidullaorifov/EffectiveMobileTask/internal/handlers"
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/middleware"
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/models"
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/repositories"
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/seed"
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/services"
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/web"
	"github.com/hamidullaorifov/EffectiveMobileTask/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *gorm.DB, cfg *config.Config) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Ad{},
		&models.ExchangeProposal{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db)
	adRepo := repositories.NewPostgresAdRepository(db)
	proposalRepo := repositories.NewPostgresProposalRepository(db)

	emailService := services.NewEmailService(cfg)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/auth")
	authHandler := handlers.NewAuthHandler(userRepo)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- API routes: public reads, JWT-protected mutations ---
	public := e.Group("/api")
	protected := e.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware())

	adHandler := handlers.NewAdHandler(adRepo)
	adHandler.RegisterAdRoutes(public, protected)
	log.Println("Ad routes configured.")

	proposalHandler := handlers.NewProposalHandler(proposalRepo, adRepo, emailService)
	proposalHandler.RegisterProposalRoutes(protected)
	log.Println("Proposal routes configured.")

	userHandler := handlers.NewUserHandler(userRepo, adRepo)
	userHandler.RegisterUserRoutes(public, protected)
	log.Println("User profile routes configured.")

	// --- Server-rendered web UI ---
	e.Renderer = web.NewRenderer()
	webHandler := web.NewWebHandler(adRepo, proposalRepo, userRepo, authHandler)
	webHandler.RegisterWebRoutes(e)
	log.Println("Web routes configured.")

	// Sample-data generation, development only
	if cfg.Env == "development" {
		e.GET("/generate", func(c echo.Context) error {
			if err := seed.GenerateAds(db); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
			return c.String(http.StatusOK, "Ads generated successfully.")
		})
		log.Println("Development seed route configured.")
	}

	log.Println("All routes configured.")
}
