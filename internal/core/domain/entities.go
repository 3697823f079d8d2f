package domain

import (
	"time"
)

// Trip is a planned trip with a free-text overall destination
// (e.g. "Paris, France"). The destination address seeds the trip map.
type Trip struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Destination string    `json:"destination"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Reservation is a booking attached to a trip: lodging, flight,
// restaurant, activity. Address may be empty (e.g. a flight).
type Reservation struct {
	ID               string     `json:"id"`
	TripID           string     `json:"trip_id"`
	Kind             string     `json:"kind"`
	Title            string     `json:"title"`
	Address          string     `json:"address,omitempty"`
	ConfirmationCode string     `json:"confirmation_code,omitempty"`
	StartsAt         *time.Time `json:"starts_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}
