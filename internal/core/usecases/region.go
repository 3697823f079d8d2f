package usecases

import (
	"github.com/wayfarerhq/wayfarer/internal/core/domain"
)

// singleDelta is the fixed viewport span in degrees, used for single- and
// multi-marker maps alike. The map deliberately opens focused on the
// destination instead of fitting a bounding box around every marker.
const singleDelta = 0.5

// ComputeRegion derives the map viewport from the assembled markers:
// centered on the destination marker if present, else the first marker.
// Returns nil when there are no markers.
func ComputeRegion(markers []domain.MapMarker) *domain.MapRegion {
	if len(markers) == 0 {
		return nil
	}

	center := markers[0]
	for _, m := range markers {
		if m.IsDestination {
			center = m
			break
		}
	}

	return &domain.MapRegion{
		Latitude:       center.Latitude,
		Longitude:      center.Longitude,
		LatitudeDelta:  singleDelta,
		LongitudeDelta: singleDelta,
	}
}
