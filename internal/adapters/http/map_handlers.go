package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wayfarerhq/wayfarer/internal/core/domain"
)

// tripMapResponse is the GET /v1/trips/:id/map payload.
type tripMapResponse struct {
	TripID  string               `json:"trip_id"`
	Region  *domain.MapRegion    `json:"region"`
	Markers []domain.MapMarker   `json:"markers"`
	Status  domain.GeocodeStatus `json:"status"`
	HasData bool                 `json:"has_data"`
}

// TripMapHandler resolves a trip's locations into map markers and a
// viewport region. With destination_only=true only the trip destination
// is resolved, which keeps the response fast while reservations load.
func TripMapHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tripID := c.Params("id")
		if tripID == "" {
			return errBadRequest(c, "trip id is required")
		}
		destOnly := c.QueryBool("destination_only", false)

		m, err := deps.TripMaps.Resolve(c.Context(), tripID, destOnly)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrTripNotFound):
				return errNotFound(c, "trip not found")
			case errors.Is(err, domain.ErrGeocodeFailed):
				return errGeocodeFailed(c, "geocoding upstream failed")
			default:
				return errInternal(c, err.Error())
			}
		}

		return c.JSON(tripMapResponse{
			TripID:  m.TripID,
			Region:  m.Region,
			Markers: m.Markers,
			Status:  m.Status,
			HasData: m.HasData(),
		})
	}
}
