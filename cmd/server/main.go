package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KARTHIKEYASHARMA672/elctronic/internal/api"
	"github.com/KARTHIKEYASHARMA672/elctronic/internal/config"
	"github.com/KARTHIKEYASHARMA672/elctronic/internal/generator"
	"github.com/KARTHIKEYASHARMA672/elctronic/internal/llm"
	"github.com/KARTHIKEYASHARMA672/elctronic/internal/logging"
	"github.com/KARTHIKEYASHARMA672/elctronic/internal/task"
)

// taskRetention is how long finished tasks stay downloadable
const taskRetention = 30 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.App.LogFormat, cfg.App.LogLevel)
	slog.SetDefault(logger)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// A missing key is shown to users instead of stopping the server
	configErr := cfg.RequireProvider()
	if configErr != nil {
		logger.Warn("no LLM provider configured, report generation is disabled", "error", configErr)
	}

	registry, err := llm.NewRegistryFromConfig(context.Background(), cfg.LLM, nil)
	if err != nil {
		logger.Error("failed to set up LLM providers", "error", err)
		os.Exit(1)
	}
	for _, m := range registry.Models() {
		logger.Debug("model", "id", m.ID, "provider", m.Provider, "available", m.Available)
	}
	logger.Info("LLM providers initialized", "default_model", registry.Default())

	taskManager := task.NewManager(cfg.Task.MaxConcurrentTasks, taskRetention)
	gen := generator.NewGenerator(registry, cfg.LLM.RequestTimeout)

	handler := api.NewHandler(gen, taskManager, registry, api.ServiceInfo{
		Name:        "electronics-project-assistant",
		Version:     cfg.App.Version,
		ConfigError: configErr,
	})
	router := api.SetupRouter(handler, api.RouterOptions{Logger: logger})

	// Writes must outlast the slowest model call made by the page
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LLM.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	taskManager.Shutdown()

	logger.Info("server stopped")
}
