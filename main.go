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

	"metricchart/internal/config"
	"metricchart/internal/dashboard"
	"metricchart/internal/fetchers"
	"metricchart/internal/logger"
	"metricchart/internal/mocks"
	"metricchart/internal/server"
	"metricchart/internal/storage"
)

// newSource selects the data source for cfg
func newSource(cfg *config.Config) fetchers.Source {
	if cfg.MockupMode {
		logger.Info("Mockup mode enabled", map[string]interface{}{"fixtures": cfg.FixturesDir})
		return mocks.NewMockSource(cfg.FixturesDir)
	}
	return fetchers.NewMetricsFetcher(cfg.MetricsURL, cfg.MetricsTenant, cfg.ForecastURL)
}

// logFormat resolves LOG_FORMAT; "auto" means JSON in production, text elsewhere
func logFormat(cfg *config.Config) logger.LogFormat {
	if f := logger.ParseFormat(cfg.LogFormat); f != -1 {
		return f
	}
	if cfg.IsProduction() {
		return logger.JSONFormat
	}
	return logger.TextFormat
}

// setup wires the dashboard, storage and server from cfg
func setup(ctx context.Context, cfg *config.Config) (*server.Server, error) {
	def, err := config.LoadDashboard(cfg.DashboardFile)
	if err != nil {
		return nil, err
	}
	d, err := dashboard.New(def, newSource(cfg), cfg.ChartWidth, cfg.ChartHeight)
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard: %w", err)
	}
	store, err := storage.NewStorageClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return server.NewServer(cfg, d, store, config.GetVersion()), nil
}

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.SetGlobalLogger(logger.New(logger.Config{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logFormat(cfg),
		Output: os.Stdout,
	}))
	log := logger.GetGlobalLogger().WithComponent("main")

	log.Info("Starting chart service", map[string]interface{}{
		"port":        cfg.Port,
		"environment": cfg.Environment,
		"version":     config.GetVersion(),
		"storage":     cfg.StorageMode,
	})

	srv, err := setup(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to create server", err)
	}
	defer srv.Close()

	// Draw every chart once before serving
	initCtx, cancel := context.WithTimeout(ctx, cfg.RefreshTimeout)
	if err := srv.Dashboard.RefreshAll(initCtx); err != nil {
		log.Warn("Initial refresh incomplete", map[string]interface{}{"error": err.Error()})
	}
	cancel()

	refresher, err := dashboard.NewRefresher(srv.Dashboard, cfg.RefreshSchedule, cfg.RefreshTimeout)
	if err != nil {
		log.Fatal("Failed to schedule refreshes", err)
	}
	refresher.Start()

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.SetupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Longer timeout for exports
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{"addr": httpServer.Addr})
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	refresher.Stop(shutdownCtx)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", err)
	}

	log.Info("Server stopped")
}
