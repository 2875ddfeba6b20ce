package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"videorelay/config"
	"videorelay/internal/flow"
	"videorelay/internal/handler"
	"videorelay/internal/provider"
	"videorelay/internal/service"
	"videorelay/pkg/logger"
	"videorelay/pkg/middleware"
	"videorelay/pkg/validator"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	if err := logger.Init(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Video Relay Server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("provider", cfg.Provider.Name),
	)

	// Initialize provider
	p, err := provider.New(&cfg.Provider)
	if err != nil {
		logger.Logger.Fatal("Failed to initialize provider", zap.Error(err))
	}

	// Initialize services
	v := validator.New(cfg.Security.AllowedDomains)
	videoService := service.NewVideoService(p)
	downloadService := service.NewDownloadService(p, &cfg.Relay)
	flows := flow.New(v, videoService, downloadService)

	// Setup Gin router
	mode, ok := config.GinMode(cfg.Server.Mode)
	if !ok {
		logger.Logger.Warn("Unknown GIN_MODE, using release",
			zap.String("gin_mode", cfg.Server.Mode))
	}
	gin.SetMode(mode)
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(logger.GinLogger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(&cfg.CORS))

	// Routes
	handler.RegisterRoutes(router,
		handler.NewVideoHandler(videoService, v),
		handler.NewDownloadHandler(downloadService, v),
		handler.NewFlowHandler(flows),
	)

	// Start server. WriteTimeout stays 0 unless configured: a long download
	// would otherwise be cut off mid-stream.
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.Timeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Logger.Info("Server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal("Server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server stopped")
}
