package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/facesocial/facesocial-backend/internal/handlers"
	"github.com/facesocial/facesocial-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler    *handlers.AuthHandler
	UserHandler    *handlers.UserHandler
	AuthMiddleware *middleware.AuthMiddleware
	MediaDir       string
	AllowOrigins   []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("facesocial-backend"))

	allowOrigins := cfg.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	if cfg.MediaDir != "" {
		router.Static("/uploads", cfg.MediaDir)
	}

	api := router.Group("/api")

	// Public
	api.GET("/health", handlers.HealthCheck)
	auth := api.Group("/auth")
	{
		auth.GET("/check-duplicate", cfg.AuthHandler.CheckDuplicate)
		auth.POST("/register", cfg.AuthHandler.Register)
		auth.POST("/login", cfg.AuthHandler.Login)
		auth.POST("/face-login", cfg.AuthHandler.FaceLogin)
	}

	// Protected
	users := api.Group("/users")
	users.Use(cfg.AuthMiddleware.RequireAuth())
	{
		users.GET("/me", cfg.UserHandler.GetMe)
		users.PATCH("/me/theme", cfg.UserHandler.UpdateTheme)
	}

	return router
}
