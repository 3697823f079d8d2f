package http

import (
	"github.com/nats-io/nats.go"

	"github.com/wayfarerhq/wayfarer/internal/adapters/postgres"
	"github.com/wayfarerhq/wayfarer/internal/adapters/valkey"
	"github.com/wayfarerhq/wayfarer/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Trips        *usecases.TripService
	Reservations *usecases.ReservationService
	TripMaps     *usecases.TripMapService
	NATS         *nats.Conn
	DB           *postgres.DB
	Cache        *valkey.Cache
}
