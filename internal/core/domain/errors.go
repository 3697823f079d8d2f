package domain

import "errors"

var (
	// ErrTripNotFound is returned when a trip ID does not exist.
	ErrTripNotFound = errors.New("trip not found")

	// ErrReservationNotFound is returned when a reservation ID does not exist.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrGeocodeFailed marks a total geocode batch failure (transport-level).
	// Per-address misses are not errors; they become nil outcomes.
	ErrGeocodeFailed = errors.New("geocode batch failed")
)
