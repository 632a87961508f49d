package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carewell/clinic-portal/internal/api/router"
	"github.com/carewell/clinic-portal/internal/app/bootstrap"
	"github.com/carewell/clinic-portal/internal/auth"
	"github.com/carewell/clinic-portal/internal/booking"
	appconfig "github.com/carewell/clinic-portal/internal/config"
	"github.com/carewell/clinic-portal/internal/dashboard"
	"github.com/carewell/clinic-portal/internal/observability/metrics"
	"github.com/carewell/clinic-portal/internal/patients"
	"github.com/carewell/clinic-portal/internal/prescriptions"
	"github.com/carewell/clinic-portal/internal/reports"
	"github.com/carewell/clinic-portal/internal/schedule"
	"github.com/carewell/clinic-portal/internal/session"
	"github.com/carewell/clinic-portal/internal/upstream"
	"github.com/carewell/clinic-portal/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-portal API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"upstream", cfg.UpstreamBaseURL,
	)

	// Metrics registry and upstream client
	registry := prometheus.NewRegistry()
	portalMetrics := metrics.NewPortalMetrics(registry)
	api := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, portalMetrics, logger)

	// Redis-backed session and login flow stores
	redisClient := bootstrap.BuildRedisClient(context.Background(), cfg, logger, true)
	if redisClient == nil {
		logger.Error("redis is required for sessions", "addr", cfg.RedisAddr)
		os.Exit(1)
	}
	sessions := session.NewStore(redisClient, cfg.SessionTTL)
	flows := auth.NewFlowStore(redisClient, cfg.LoginFlowTTL)

	// Services
	authService := auth.NewService(api, cfg.AdminEmail, portalMetrics, logger)
	dashboardService := dashboard.NewService(api, registry, logger)

	// Handlers
	authHandler := auth.NewHandler(authService, flows, sessions, cfg.CookieSecure, logger)
	bookingHandler := booking.NewHandler(api, logger)
	dashboardHandler := dashboard.NewHandler(dashboardService, logger)
	patientsHandler := patients.NewHandler(api, logger)
	scheduleHandler := schedule.NewHandler(api, logger)
	reportsHandler := reports.NewHandler(api, logger)
	prescriptionsHandler := prescriptions.NewHandler(api, dashboardService, logger)

	// Setup router
	routerCfg := &router.Config{
		Logger:               logger,
		AuthHandler:          authHandler,
		BookingHandler:       bookingHandler,
		DashboardHandler:     dashboardHandler,
		PatientsHandler:      patientsHandler,
		ScheduleHandler:      scheduleHandler,
		ReportsHandler:       reportsHandler,
		PrescriptionsHandler: prescriptionsHandler,
		SessionStore:         sessions,
		MetricsHandler:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:   cfg.CORSAllowedOrigins,
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		logger.Warn("redis close failed", "error", err)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
