package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nimeshabuddhika/ecommerce-data-api/pkg"
	"github.com/nimeshabuddhika/ecommerce-data-api/services/ecommerce-api/app"
	"go.uber.org/zap"
)

// @title E-commerce Data API
// @version 1.0
// @description CRUD for customers, customer accounts and products, plus order creation.
// @BasePath /
func main() {
	// Initialize logger
	pkg.InitLogger()
	logger := pkg.Logger

	srv, cfg, cleanup, err := app.NewApp(context.Background(), logger)
	if err != nil {
		logger.Fatal("failed to initialize app", zap.Error(err))
	}
	defer cleanup()

	// Start a server in goroutine to allow signal handling
	go func() {
		logger.Info("ecommerce api started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	// Drain in-flight requests before closing the pools
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	_ = logger.Sync()
}
