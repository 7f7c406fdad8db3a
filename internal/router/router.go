package router

import (
	"net/http"
	"time"

	"github.com/anonto42/social-network/internal/app"
	"github.com/anonto42/social-network/internal/handlers"
	"github.com/anonto42/social-network/internal/middleware"
	"github.com/anonto42/social-network/pkg/firebase"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthConfig configures token issuing and checking
type AuthConfig struct {
	JWTSecret string
	JWTTTL    time.Duration
	// Verifier enables Firebase ID tokens; nil disables them.
	Verifier firebase.TokenVerifier
	// AdminEmails may call /api/v1/admin routes.
	AdminEmails []string
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, a *app.App, auth AuthConfig, log *zap.Logger) {
	log = log.Named("router")

	e.GET("/health", handlers.HealthCheck)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "social network api"})
	})

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(a.Accounts, a.Resolver, auth.Verifier, auth.JWTSecret, auth.JWTTTL, log)
	authHandler.RegisterAuthRoutes(authGroup)

	// --- Protected routes ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(auth.JWTSecret, a.Resolver, auth.Verifier, log))

	handlers.NewUserHandler(a.Resolver).RegisterProfileRoutes(api)
	followHandler := handlers.NewFollowHandler(a.Graph, a.Resolver)
	followHandler.RegisterFollowRoutes(api)
	handlers.NewPostHandler(a.Engagement, a.Feed, a.Resolver).RegisterPostRoutes(api)
	handlers.NewLikeHandler(a.Engagement).RegisterLikeRoutes(api)
	handlers.NewCommentHandler(a.Engagement, a.Resolver).RegisterCommentRoutes(api)
	handlers.NewFeedHandler(a.Feed).RegisterFeedRoutes(api)

	admin := api.Group("/admin", middleware.RequireAdmin(auth.AdminEmails))
	followHandler.RegisterAdminRoutes(admin)

	if a.Notifications != nil {
		handlers.NewNotificationHandler(a.Notifications, a.Resolver).RegisterNotificationRoutes(api)
	} else {
		log.Info("notification routes disabled: no PostgreSQL connection")
	}

	log.Info("routes configured", zap.Bool("firebase", auth.Verifier != nil), zap.Int("admins", len(auth.AdminEmails)))
}
