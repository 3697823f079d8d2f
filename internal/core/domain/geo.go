package domain

// Coordinate represents a geographic coordinate (WGS 84).
// A nil *Coordinate in a geocode result means the address did not resolve.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// MapRegion is a map viewport: a center point plus latitude/longitude spans.
// It is always derived from the current marker set, never stored.
type MapRegion struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	LatitudeDelta  float64 `json:"latitude_delta"`
	LongitudeDelta float64 `json:"longitude_delta"`
}
