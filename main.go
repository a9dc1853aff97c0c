package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/curriculum-service/internal/config"
	"github.com/SAP-F-2025/curriculum-service/internal/events"
	"github.com/SAP-F-2025/curriculum-service/internal/handlers"
	"github.com/SAP-F-2025/curriculum-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/curriculum-service/internal/services"
	"github.com/SAP-F-2025/curriculum-service/internal/utils"
	"github.com/SAP-F-2025/curriculum-service/internal/validator"
	"github.com/SAP-F-2025/curriculum-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if cfg.LogLevel == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	appLogger := utils.NewSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(cfg, logger)
	if err != nil {
		logger.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}

	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})

	ctx := context.Background()
	if err := repoManager.Initialize(ctx); err != nil {
		logger.Error("Failed to initialize repositories", "error", err)
		os.Exit(1)
	}

	var publisher events.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = events.NewKafkaEventPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		if err != nil {
			logger.Error("Failed to create event publisher", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("Kafka not configured, events disabled")
	}

	serviceManager := services.NewServiceManager(
		repoManager.GetRepository(),
		logger,
		validator.New(),
		publisher,
		nil,
	)
	if err := serviceManager.Initialize(ctx); err != nil {
		logger.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}

	auth := handlers.NewCasdoorAuthMiddleware(cfg.Casdoor, appLogger)
	handlerManager := handlers.NewHandlerManager(serviceManager, auth, appLogger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	handlers.SetupMiddleware(router, appLogger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
	if err := serviceManager.Shutdown(shutdownCtx); err != nil {
		logger.Error("Service shutdown failed", "error", err)
	}
	if err := repoManager.Shutdown(shutdownCtx); err != nil {
		logger.Error("Repository shutdown failed", "error", err)
	}

	logger.Info("Server stopped")
}
