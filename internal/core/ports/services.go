package ports

import (
	"context"

	"github.com/wayfarerhq/wayfarer/internal/core/domain"
)

// Geocoder resolves free-text addresses to coordinates.
type Geocoder interface {
	// Available reports whether geocoding is configured in this deployment.
	// When false, callers must degrade silently instead of erroring.
	Available() bool

	// ResolveBatch geocodes all addresses in one run. The result is
	// positionally aligned with the input: a nil entry means that address
	// did not resolve (a per-item soft failure). A non-nil error means the
	// whole batch failed. Cancelling ctx aborts the in-flight work.
	ResolveBatch(ctx context.Context, addresses []string) ([]*domain.Coordinate, error)
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishReservationsChanged(ctx context.Context, tripID string) error
	PublishMapUpdated(ctx context.Context, m *domain.TripMap) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeReservationsChanged(ctx context.Context, handler func(ctx context.Context, tripID string) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
