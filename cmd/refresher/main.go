package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wayfarerhq/wayfarer/internal/adapters/geocode"
	natsadapter "github.com/wayfarerhq/wayfarer/internal/adapters/nats"
	"github.com/wayfarerhq/wayfarer/internal/adapters/postgres"
	"github.com/wayfarerhq/wayfarer/internal/core/domain"
	"github.com/wayfarerhq/wayfarer/internal/core/ports"
	"github.com/wayfarerhq/wayfarer/internal/core/usecases"
	"github.com/wayfarerhq/wayfarer/internal/pkg/config"
	"github.com/wayfarerhq/wayfarer/internal/pkg/logging"
	"github.com/wayfarerhq/wayfarer/internal/pkg/metrics"
	"github.com/wayfarerhq/wayfarer/internal/pkg/telemetry"
)

// refresher consumes reservations-changed events and re-resolves the
// affected trip's map, publishing the fresh view for WebSocket clients.
// One controller per trip keeps runs for the same trip serialized through
// the supersede logic while trips refresh independently.
type refresher struct {
	trips        ports.TripRepository
	reservations ports.ReservationRepository
	geocoder     ports.Geocoder
	publisher    ports.EventPublisher

	mu          sync.Mutex
	controllers map[string]*usecases.Controller
}

func (r *refresher) controllerFor(tripID string) *usecases.Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.controllers[tripID]
	if !ok {
		c = usecases.NewController(r.geocoder)
		r.controllers[tripID] = c
	}
	return c
}

func (r *refresher) handle(ctx context.Context, tripID string) error {
	trip, err := r.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, domain.ErrTripNotFound) {
			// Trip deleted after the event was queued; drop its controller.
			r.mu.Lock()
			delete(r.controllers, tripID)
			r.mu.Unlock()
			return nil
		}
		return err
	}

	reservations, err := r.reservations.ListByTrip(ctx, tripID)
	if err != nil {
		return err
	}

	result, committed := r.controllerFor(tripID).Update(ctx, trip, reservations, usecases.CollectOptions{})
	if !committed {
		metrics.MapRunsSuperseded.Inc()
		return nil
	}
	if result.Err != nil {
		metrics.MapRuns.WithLabelValues("failed").Inc()
		slog.Warn("map refresh failed", "trip_id", tripID, "error", result.Err)
		return nil // geocode failures are not redelivery-worthy
	}
	metrics.MapRuns.WithLabelValues("ok").Inc()

	m := &domain.TripMap{
		TripID:  tripID,
		Region:  result.Region,
		Markers: result.Markers,
		Status:  result.Status,
	}
	if err := r.publisher.PublishMapUpdated(ctx, m); err != nil {
		slog.Warn("publish map update failed", "trip_id", tripID, "error", err)
	}
	slog.Info("map refreshed", "trip_id", tripID, "markers", len(result.Markers), "status", string(result.Status))
	return nil
}

func main() {
	cfg, err := config.Load("wayfarer-refresher")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats publisher: %v", err)
	}
	defer publisher.Close()

	subscriber, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer subscriber.Close()

	geocoderBaseURL := cfg.Geocoder.BaseURL
	if !cfg.Geocoder.Enabled {
		geocoderBaseURL = ""
	}
	geocoder := geocode.New(
		geocoderBaseURL,
		cfg.Geocoder.UserAgent,
		time.Duration(cfg.Geocoder.MinIntervalMs)*time.Millisecond,
	)

	r := &refresher{
		trips:        postgres.NewTripRepo(db),
		reservations: postgres.NewReservationRepo(db),
		geocoder:     geocoder,
		publisher:    publisher,
		controllers:  make(map[string]*usecases.Controller),
	}

	if err := subscriber.SubscribeReservationsChanged(ctx, r.handle); err != nil {
		log.Fatalf("subscribe: %v", err)
	}
	slog.Info("refresher started", "nats", cfg.NATS.URL)

	// Metrics endpoint for scraping
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(":9091", mux); err != nil {
			slog.Warn("metrics server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())
}
