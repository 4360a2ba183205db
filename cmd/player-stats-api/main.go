package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/app"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/config"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/metrics"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/middleware"
)

func main() {
	configPath := flag.String("config", getEnv("PLAYER_STATS_CONFIG", "config.yaml"), "path to YAML config file")
	flag.Parse()

	fmt.Println("=== Player Stats API ===")

	if err := config.LoadDotEnv(); err != nil {
		fmt.Printf("❌ Failed to load .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := app.NewLogger(cfg.Logging, os.Stderr)
	slog.SetDefault(logger)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg, logger, m)
	if err != nil {
		fmt.Printf("❌ Failed to initialize player data: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	count, err := a.Players.Count(ctx)
	if err != nil {
		fmt.Printf("❌ Failed to read players: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Loaded %d players (%s storage)\n", count, cfg.Storage.Driver)
	if cfg.Redis.Enabled {
		fmt.Println("✓ Connected to Redis")
	}

	// Initialize handlers
	var recorder handlers.ComparisonRecorder
	if m != nil {
		recorder = m
	}
	handler := handlers.NewHandler(a.Players, a.Compare, recorder, logger)
	adminHandler := handlers.NewAdminHandler(a.Importer, cfg.Importer.RunTimeout, logger)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	if m != nil {
		r.Use(middleware.Metrics(m))
	}
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.Server.RequestTimeout))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Routes
	r.Get("/health", handler.HealthCheck)
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", handler.GetStatus)

		// Players
		r.Get("/players", handler.GetPlayers)
		r.Get("/players/{playerID}", handler.GetPlayer)
		r.Get("/players/{playerID}/seasons", handler.GetPlayerSeasons)
		r.Get("/players/{playerID}/seasons/trend", handler.GetSeasonTrend)
		r.Get("/players/{playerID}/seasons/trend.png", handler.GetSeasonTrendChart)
		r.Get("/players/{playerID}/seasons/export.xlsx", handler.ExportPlayerSeasons)

		// Comparison
		r.Get("/compare", handler.Compare)
		r.Get("/compare/chart.png", handler.CompareChart)
		r.Get("/compare/export.xlsx", handler.CompareExport)

		// Admin
		r.Post("/admin/update-stats", adminHandler.UpdateStats)
	})

	// Start server
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	serverErrors := make(chan error, 1)
	go func() {
		fmt.Printf("✓ Player Stats API listening on %s\n", cfg.Server.Addr)
		fmt.Println("  Endpoints:")
		fmt.Println("    GET  /health")
		if m != nil {
			fmt.Println("    GET  /metrics")
		}
		fmt.Println("    GET  /api/v1/status")
		fmt.Println("    GET  /api/v1/players")
		fmt.Println("    GET  /api/v1/players/{playerID}")
		fmt.Println("    GET  /api/v1/players/{playerID}/seasons")
		fmt.Println("    GET  /api/v1/players/{playerID}/seasons/trend")
		fmt.Println("    GET  /api/v1/players/{playerID}/seasons/trend.png")
		fmt.Println("    GET  /api/v1/players/{playerID}/seasons/export.xlsx")
		fmt.Println("    GET  /api/v1/compare")
		fmt.Println("    GET  /api/v1/compare/chart.png")
		fmt.Println("    GET  /api/v1/compare/export.xlsx")
		fmt.Println("    POST /api/v1/admin/update-stats")

		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		fmt.Printf("❌ Server error: %v\n", err)
		os.Exit(1)

	case sig := <-shutdown:
		fmt.Printf("\n⚠️  Received signal: %v\n", sig)

		// Give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			fmt.Printf("⚠️  Graceful shutdown failed: %v\n", err)
			if err := srv.Close(); err != nil {
				fmt.Printf("❌ Could not stop server: %v\n", err)
			}
		}
	}

	fmt.Println("✓ Shutdown complete")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
