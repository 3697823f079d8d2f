package usecases

import (
	"context"
	"fmt"
	"sync"

	"github.com/wayfarerhq/wayfarer/internal/core/domain"
	"github.com/wayfarerhq/wayfarer/internal/core/ports"
)

// TripMapService derives the map view for a trip on demand: concurrent
// trip and reservation fetches feed the location pipeline, and the result
// is published for live consumers.
type TripMapService struct {
	trips        ports.TripRepository
	reservations ports.ReservationRepository
	geocoder     ports.Geocoder
	publisher    ports.EventPublisher
}

// NewTripMapService creates a new TripMapService.
func NewTripMapService(
	trips ports.TripRepository,
	reservations ports.ReservationRepository,
	geocoder ports.Geocoder,
	publisher ports.EventPublisher,
) *TripMapService {
	return &TripMapService{trips: trips, reservations: reservations, geocoder: geocoder, publisher: publisher}
}

// Resolve computes the trip map. destinationOnly skips the reservation
// fetch entirely and maps only the trip destination. A total geocode
// failure is returned as an error wrapping domain.ErrGeocodeFailed;
// unavailable geocoding and unresolvable addresses are not errors; the
// returned map simply has no data.
func (s *TripMapService) Resolve(ctx context.Context, tripID string, destinationOnly bool) (*domain.TripMap, error) {
	if tripID == "" {
		return nil, fmt.Errorf("trip id is required")
	}

	var (
		trip         *domain.Trip
		reservations []domain.Reservation
		tripErr      error
		resErr       error
	)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		trip, tripErr = s.trips.GetByID(ctx, tripID)
	}()
	if !destinationOnly {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reservations, resErr = s.reservations.ListByTrip(ctx, tripID)
		}()
	}
	wg.Wait()

	if tripErr != nil {
		return nil, fmt.Errorf("fetch trip: %w", tripErr)
	}
	if trip == nil {
		return nil, domain.ErrTripNotFound
	}
	if resErr != nil {
		return nil, fmt.Errorf("fetch reservations: %w", resErr)
	}

	reqs := CollectLocationRequests(trip, reservations, CollectOptions{DestinationOnly: destinationOnly})

	outcomes, status, err := NewOrchestrator(s.geocoder).Resolve(ctx, reqs)
	if err != nil {
		return nil, err
	}

	markers := AssembleMarkers(reqs, outcomes)
	AnnotateDistances(markers)

	m := &domain.TripMap{
		TripID:  tripID,
		Region:  ComputeRegion(markers),
		Markers: markers,
		Status:  status,
	}

	if s.publisher != nil {
		// Best effort; the map is still returned if the broker is down.
		_ = s.publisher.PublishMapUpdated(ctx, m)
	}

	return m, nil
}
