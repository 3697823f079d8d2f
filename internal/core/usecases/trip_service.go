package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wayfarerhq/wayfarer/internal/core/domain"
	"github.com/wayfarerhq/wayfarer/internal/core/ports"
)

// TripService handles trip CRUD with read-through caching.
type TripService struct {
	trips ports.TripRepository
	cache ports.CacheService
}

// NewTripService creates a new TripService.
func NewTripService(trips ports.TripRepository, cache ports.CacheService) *TripService {
	return &TripService{trips: trips, cache: cache}
}

// Create validates and stores a trip.
func (s *TripService) Create(ctx context.Context, trip *domain.Trip) error {
	if trip.Name == "" {
		return fmt.Errorf("trip name is required")
	}
	if trip.Destination == "" {
		return fmt.Errorf("trip destination is required")
	}
	if err := s.trips.Create(ctx, trip); err != nil {
		return fmt.Errorf("create trip: %w", err)
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "trips:all")
	}
	return nil
}

// GetByID returns a single trip.
func (s *TripService) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	cacheKey := "trips:id:" + id
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var trip domain.Trip
			if err := json.Unmarshal(data, &trip); err == nil {
				return &trip, nil
			}
		}
	}

	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(trip); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}

	return trip, nil
}

// List returns all trips.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, "trips:all"); err == nil {
			var trips []domain.Trip
			if err := json.Unmarshal(data, &trips); err == nil {
				return trips, nil
			}
		}
	}

	trips, err := s.trips.List(ctx)
	if err != nil {
		return nil, err
	}

	// Short TTL; the list changes whenever a trip is created or deleted.
	if s.cache != nil {
		if data, err := json.Marshal(trips); err == nil {
			_ = s.cache.Set(ctx, "trips:all", data, 60)
		}
	}

	return trips, nil
}

// Delete removes a trip.
func (s *TripService) Delete(ctx context.Context, id string) error {
	if err := s.trips.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "trips:id:"+id)
		_ = s.cache.Delete(ctx, "trips:all")
	}
	return nil
}
