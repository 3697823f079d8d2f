package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/wayfarerhq/wayfarer/internal/adapters/geocode"
	"github.com/wayfarerhq/wayfarer/internal/adapters/http"
	natsadapter "github.com/wayfarerhq/wayfarer/internal/adapters/nats"
	"github.com/wayfarerhq/wayfarer/internal/adapters/postgres"
	"github.com/wayfarerhq/wayfarer/internal/adapters/valkey"
	"github.com/wayfarerhq/wayfarer/internal/core/usecases"
	"github.com/wayfarerhq/wayfarer/internal/pkg/config"
	"github.com/wayfarerhq/wayfarer/internal/pkg/logging"
	"github.com/wayfarerhq/wayfarer/internal/pkg/metrics"
	"github.com/wayfarerhq/wayfarer/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("wayfarer-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Connection pool gauges
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Cache
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
	}

	// NATS
	nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer nc.Close()
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Geocoder. Disabled config leaves the map in degraded mode rather
	// than failing startup.
	geocoderBaseURL := cfg.Geocoder.BaseURL
	if !cfg.Geocoder.Enabled {
		geocoderBaseURL = ""
		slog.Info("geocoder disabled, map views will carry no markers")
	}
	geocoder := geocode.New(
		geocoderBaseURL,
		cfg.Geocoder.UserAgent,
		time.Duration(cfg.Geocoder.MinIntervalMs)*time.Millisecond,
	)

	// Repos
	tripRepo := postgres.NewTripRepo(db)
	reservationRepo := postgres.NewReservationRepo(db)

	// Use cases
	tripSvc := usecases.NewTripService(tripRepo, cache)
	reservationSvc := usecases.NewReservationService(reservationRepo, tripRepo, cache, nc)
	tripMapSvc := usecases.NewTripMapService(tripRepo, reservationRepo, geocoder, nc)

	deps := &http.Dependencies{
		Trips:        tripSvc,
		Reservations: reservationSvc,
		TripMaps:     tripMapSvc,
		NATS:         natsConn,
		DB:           db,
		Cache:        cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Wayfarer API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.wayfarerhq.com",
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
