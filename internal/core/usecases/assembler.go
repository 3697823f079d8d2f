package usecases

import (
	"github.com/wayfarerhq/wayfarer/internal/core/domain"
	"github.com/wayfarerhq/wayfarer/internal/pkg/geospatial"
)

// AssembleMarkers zips geocode outcomes back onto their originating
// requests, dropping any request whose outcome is nil. Order is preserved;
// marker IDs thread through from the requests.
func AssembleMarkers(requests []domain.LocationRequest, outcomes []*domain.Coordinate) []domain.MapMarker {
	n := len(requests)
	if len(outcomes) < n {
		n = len(outcomes)
	}

	markers := make([]domain.MapMarker, 0, n)
	for i := 0; i < n; i++ {
		c := outcomes[i]
		if c == nil {
			continue
		}
		markers = append(markers, domain.MapMarker{
			ID:            requests[i].ID,
			Latitude:      c.Lat,
			Longitude:     c.Lon,
			Title:         requests[i].Title,
			IsDestination: requests[i].IsDestination,
		})
	}
	return markers
}

// AnnotateDistances fills each marker's DistanceM with the great-circle
// distance from the destination marker. No-op when the destination did not
// resolve; the destination itself gets distance 0.
func AnnotateDistances(markers []domain.MapMarker) {
	var dest *domain.MapMarker
	for i := range markers {
		if markers[i].IsDestination {
			dest = &markers[i]
			break
		}
	}
	if dest == nil {
		return
	}
	for i := range markers {
		d := geospatial.Haversine(dest.Latitude, dest.Longitude, markers[i].Latitude, markers[i].Longitude)
		markers[i].DistanceM = &d
	}
}
