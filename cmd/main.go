package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/facesocial/facesocial-backend/internal/db"
	"github.com/facesocial/facesocial-backend/internal/handlers"
	"github.com/facesocial/facesocial-backend/internal/middleware"
	"github.com/facesocial/facesocial-backend/internal/observability"
	"github.com/facesocial/facesocial-backend/internal/platform/logger"
	"github.com/facesocial/facesocial-backend/internal/repos"
	"github.com/facesocial/facesocial-backend/internal/server"
	"github.com/facesocial/facesocial-backend/internal/services"
	"github.com/facesocial/facesocial-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env: .env is optional, production environments set real variables.
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using process environment")
	}

	jwtSecretKey := utils.GetEnv("JWT_SECRET", "", log)
	if jwtSecretKey == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	tokenTTLHours := utils.GetEnvAsInt("JWT_EXPIRES_IN_HOURS", 168, log)
	mediaDir := utils.GetEnv("MEDIA_DIR", "uploads", log)
	allowOrigins := utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", log)

	// Tracing
	shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "facesocial-backend",
		Environment: utils.GetEnv("ENVIRONMENT", "development", log),
	})
	defer func() {
		_ = shutdownOTel(context.Background())
	}()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)

	// Services
	log.Info("Setting up services from main...")
	faceAI, err := services.NewFaceAIClient(log)
	if err != nil {
		log.Fatal("Could not init FaceAIClient", "error", err)
	}
	avatarService, err := services.NewAvatarService(log, mediaDir)
	if err != nil {
		log.Warn("Could not init AvatarService, continuing without avatars", "error", err)
		avatarService = nil
	}
	faceMatchService := services.NewFaceMatchService(thePG, log, userRepo, faceAI)
	authService := services.NewAuthService(
		thePG,
		log,
		userRepo,
		faceAI,
		faceMatchService,
		avatarService,
		jwtSecretKey,
		time.Duration(tokenTTLHours)*time.Hour,
	)
	userService := services.NewUserService(thePG, log, userRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:    authHandler,
		UserHandler:    userHandler,
		AuthMiddleware: authMiddleware,
		MediaDir:       mediaDir,
		AllowOrigins:   strings.Split(allowOrigins, ","),
	})

	port := utils.GetEnv("PORT", "3001", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server stopped", "error", err)
	}
}
