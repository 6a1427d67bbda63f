package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-teeth-classifier/internal/config"
	"go-teeth-classifier/internal/container"
	"go-teeth-classifier/internal/logger"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func serveCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	// Initialize dependency injection container
	c, err := container.NewContainer(ctx, cfg)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize container")
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.WithError(err).Warn("Failed to release classifier")
		}
	}()

	// Create HTTP server with configurable timeouts
	server := &http.Server{
		Addr:         cfg.ServerAddress(),
		Handler:      c.Handler(),
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}

	// Start server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"address":       cfg.ServerAddress(),
			"timeout":       cfg.RequestTimeout,
			"model_backend": cfg.ModelBackend,
		}).Info("Starting HTTP server")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		logger.WithError(err).Error("Failed to start server")
		return err
	}

	logger.Info("Shutting down server...")

	// Create a deadline for shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
		return err
	}

	logger.Info("Server exited")
	return nil
}
