package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apicontrollers "agenthub/internal/api/controllers"
	apimiddleware "agenthub/internal/api/middleware"
	"agenthub/internal/domain/services"
	"agenthub/internal/impl/config"
	"agenthub/internal/impl/database"
	"agenthub/internal/impl/repositories"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.InitConfig(logger)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	db, err := database.NewMongoDB(cfg.MongoURI, cfg.MongoDBName, logger)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer db.Disconnect(context.Background())

	agentRepo := repositories.NewMongoAgentRepository(db.Collection("agents"))
	userRepo := repositories.NewMongoUserRepository(db.Collection("users"))
	likeRepo := repositories.NewMongoLikeRepository(db.Collection("likes"))

	ctx := context.Background()
	if err := agentRepo.EnsureIndexes(ctx); err != nil {
		logger.Fatal("Failed to create agent indexes", zap.Error(err))
	}
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		logger.Fatal("Failed to create user indexes", zap.Error(err))
	}
	if err := likeRepo.EnsureIndexes(ctx); err != nil {
		logger.Fatal("Failed to create like indexes", zap.Error(err))
	}

	agentService := services.NewAgentService(agentRepo, userRepo, likeRepo, logger)
	likeService := services.NewLikeService(likeRepo, agentRepo, userRepo, logger)
	userService := services.NewUserService(userRepo, agentRepo, logger)

	agentController := apicontrollers.NewAgentController(logger, agentService, likeService)
	userController := apicontrollers.NewUserController(logger, userService)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())
	e.Use(apimiddleware.Identity(cfg.JWTSecret))

	api := e.Group("/api")
	agentController.RegisterRoutes(api)
	userController.RegisterRoutes(api)

	quit, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", cfg.ListenAddr))
		if err := e.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server stopped", zap.Error(err))
		}
		stop()
	}()

	<-quit.Done()

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down server", zap.Error(err))
	}
}
