package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wayfarerhq/wayfarer/internal/core/domain"
	"github.com/wayfarerhq/wayfarer/internal/core/ports"
)

// ReservationService handles reservation CRUD. Mutations invalidate the
// per-trip cache and publish a reservations-changed event so live map
// views re-resolve.
type ReservationService struct {
	reservations ports.ReservationRepository
	trips        ports.TripRepository
	cache        ports.CacheService
	publisher    ports.EventPublisher
}

// NewReservationService creates a new ReservationService.
func NewReservationService(
	reservations ports.ReservationRepository,
	trips ports.TripRepository,
	cache ports.CacheService,
	publisher ports.EventPublisher,
) *ReservationService {
	return &ReservationService{reservations: reservations, trips: trips, cache: cache, publisher: publisher}
}

// Create validates and stores a reservation for an existing trip.
func (s *ReservationService) Create(ctx context.Context, res *domain.Reservation) error {
	if res.TripID == "" {
		return fmt.Errorf("trip id is required")
	}
	if res.Title == "" {
		return fmt.Errorf("reservation title is required")
	}
	if res.Kind == "" {
		res.Kind = "other"
	}

	if _, err := s.trips.GetByID(ctx, res.TripID); err != nil {
		return fmt.Errorf("lookup trip %s: %w", res.TripID, err)
	}

	if err := s.reservations.Create(ctx, res); err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}

	s.invalidate(ctx, res.TripID)
	return nil
}

// ListByTrip returns the reservations for a trip in stored order.
func (s *ReservationService) ListByTrip(ctx context.Context, tripID string) ([]domain.Reservation, error) {
	cacheKey := "reservations:trip:" + tripID
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var out []domain.Reservation
			if err := json.Unmarshal(data, &out); err == nil {
				return out, nil
			}
		}
	}

	out, err := s.reservations.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(out); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}

	return out, nil
}

// Delete removes a reservation.
func (s *ReservationService) Delete(ctx context.Context, id string) error {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.reservations.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, res.TripID)
	return nil
}

func (s *ReservationService) invalidate(ctx context.Context, tripID string) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "reservations:trip:"+tripID)
	}
	if s.publisher != nil {
		_ = s.publisher.PublishReservationsChanged(ctx, tripID)
	}
}
