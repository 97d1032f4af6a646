package router

import (
	"log"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sebbyk/supportdesk/backend/internal/handlers"
	"github.com/sebbyk/supportdesk/backend/internal/middleware"
	"github.com/sebbyk/supportdesk/backend/internal/models"
	"github.com/sebbyk/supportdesk/backend/internal/push"
	"github.com/sebbyk/supportdesk/backend/internal/repositories"
	"github.com/sebbyk/supportdesk/backend/pkg/config"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, firebaseAuthClient *auth.Client, cfg *config.Config) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Ticket{},
		&models.Response{},
		&models.PushSubscription{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check and metrics - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	ticketRepo := repositories.NewPostgresTicketRepository(pgdb)
	responseRepo := repositories.NewPostgresResponseRepository(pgdb)
	subscriptionRepo := repositories.NewPostgresPushSubscriptionRepository(pgdb)

	// --- Push delivery core ---
	vapid := push.VAPIDConfig{
		PublicKey:  cfg.VAPIDPublicKey,
		PrivateKey: cfg.VAPIDPrivateKey,
		Subscriber: cfg.VAPIDSubscriber,
		TTL:        cfg.PushTTLSeconds,
		Timeout:    time.Duration(cfg.PushTimeoutSeconds) * time.Second,
	}
	if vapid.Enabled() {
		log.Println("Push notifications enabled.")
	} else {
		log.Println("VAPID keys not configured, push notifications disabled.")
	}
	subscriptions := push.NewSubscriptions(subscriptionRepo)
	dispatcher := push.NewDispatcher(vapid, push.NewWebPushClient(vapid), subscriptionRepo, userRepo, subscriptions)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	// Ticket routes
	ticketHandler := handlers.NewTicketHandler(ticketRepo, userRepo, dispatcher)
	ticketHandler.RegisterTicketRoutes(api)
	log.Println("Ticket routes configured.")

	// Response routes
	responseHandler := handlers.NewResponseHandler(responseRepo, ticketRepo, userRepo, dispatcher)
	responseHandler.RegisterResponseRoutes(api)
	log.Println("Response routes configured.")

	// Push subscription routes
	pushHandler := handlers.NewPushHandler(subscriptions)
	pushHandler.RegisterPushRoutes(api)
	log.Println("Push subscription routes configured.")

	log.Println("All routes configured.")
}
