package ports

import (
	"context"

	"github.com/wayfarerhq/wayfarer/internal/core/domain"
)

// TripRepository persists trips.
type TripRepository interface {
	Create(ctx context.Context, trip *domain.Trip) error
	GetByID(ctx context.Context, id string) (*domain.Trip, error)
	List(ctx context.Context) ([]domain.Trip, error)
	Delete(ctx context.Context, id string) error
}

// ReservationRepository persists reservations.
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) error
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	ListByTrip(ctx context.Context, tripID string) ([]domain.Reservation, error)
	Delete(ctx context.Context, id string) error
}
