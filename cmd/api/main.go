package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/joshua-takyi/vena/internal/config"
	"github.com/joshua-takyi/vena/internal/connect"
	"github.com/joshua-takyi/vena/internal/container"
	"github.com/joshua-takyi/vena/internal/helpers"
	"github.com/joshua-takyi/vena/internal/routes"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	logger.Info("Starting Vena API server", "environment", cfg.Environment)

	clients := container.Clients{}

	if cfg.HasCloudinary() {
		clients.Cloudinary, err = connect.CloudinaryCredentials(cfg)
		if err != nil {
			logger.Error("Failed to connect to Cloudinary", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("Cloudinary is not configured, package covers are stored as given")
	}

	clients.Supabase, clients.Service, err = connect.InitSupabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to Supabase", "error", err)
		os.Exit(1)
	}
	if clients.Service == nil {
		logger.Warn("SUPABASE_SERVICE_ROLE_KEY is not set, public forms write with the anon key")
	}
	logger.Info("Connected to Supabase successfully")

	clients.MongoDB, err = connect.MongoDBConnect(cfg)
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to MongoDB successfully")

	clients.Redis, err = connect.RedisConnect(cfg)
	if err != nil {
		// bookings still dedupe in-process without it
		logger.Warn("Redis unavailable, using in-memory booking ledger", "error", err)
	} else if clients.Redis == nil {
		logger.Info("REDIS_URL not set, using in-memory booking ledger")
	}

	validator, err := helpers.NewJWTValidator(cfg.SupabaseURL, cfg.SupabaseJWTSecret, logger)
	if err != nil {
		logger.Error("Failed to initialize token validator", "error", err)
		os.Exit(1)
	}

	appContainer := container.NewContainer(cfg, logger, clients, validator)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	appContainer.Start(workerCtx)

	router := routes.SetupRoutes(cfg, appContainer)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// drain queued notifications before the stores go away
	appContainer.Stop()
	stopWorkers()
	validator.Close()

	connect.Disconnect()
	if err := connect.MongoDBDisconnect(); err != nil {
		logger.Error("Error disconnecting from MongoDB", "error", err)
	}
	if err := connect.RedisDisconnect(); err != nil {
		logger.Error("Error disconnecting from Redis", "error", err)
	}

	logger.Info("Server exited")
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelDebug
	if cfg.IsProduction() {
		level = slog.LevelInfo
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	if cfg.IsProduction() {
		// JSON logging for production
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		// Human-readable logging for development
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}
