package domain

// LocationRequest is one address queued for geocoding. IDs are derived
// deterministically from the source record ("destination-<tripID>" or
// "res-<reservationID>") so they stay stable across recomputation and
// thread through to marker IDs for list reconciliation downstream.
type LocationRequest struct {
	ID            string `json:"id"`
	Address       string `json:"address"`
	Title         string `json:"title"`
	IsDestination bool   `json:"is_destination"`
}

// DestinationRequestID returns the request ID for a trip's destination.
func DestinationRequestID(tripID string) string {
	return "destination-" + tripID
}

// ReservationRequestID returns the request ID for a reservation address.
func ReservationRequestID(reservationID string) string {
	return "res-" + reservationID
}

// MapMarker is a geocoded point on the trip map. Markers are only built
// for requests that resolved; they are replaced wholesale on every
// pipeline run and never mutated in place.
type MapMarker struct {
	ID            string   `json:"id"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	Title         string   `json:"title"`
	IsDestination bool     `json:"is_destination"`
	DistanceM     *float64 `json:"distance_m,omitempty"` // computed: meters from the destination marker
}

// GeocodeStatus classifies the outcome of a geocode run. Unavailable and
// NoResults are observably identical to API consumers (no data, no error);
// they stay distinct internally for metrics and logging.
type GeocodeStatus string

const (
	GeocodeResolved    GeocodeStatus = "resolved"
	GeocodeNoResults   GeocodeStatus = "no_results"
	GeocodeUnavailable GeocodeStatus = "unavailable"
	GeocodeFailed      GeocodeStatus = "failed"
)

// TripMap is the derived map view for one trip: a viewport plus markers.
type TripMap struct {
	TripID  string        `json:"trip_id"`
	Region  *MapRegion    `json:"region"`
	Markers []MapMarker   `json:"markers"`
	Status  GeocodeStatus `json:"status"`
}

// HasData reports whether there is anything to draw.
func (m *TripMap) HasData() bool {
	return m.Region != nil && len(m.Markers) > 0
}
