package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/wayfarerhq/wayfarer/internal/core/domain"
)

// createTripRequest is the POST /v1/trips payload.
type createTripRequest struct {
	Name        string    `json:"name"`
	Destination string    `json:"destination"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Notes       string    `json:"notes"`
}

// CreateTripHandler creates a trip.
func CreateTripHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createTripRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		trip := &domain.Trip{
			Name:        req.Name,
			Destination: req.Destination,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			Notes:       req.Notes,
		}
		if err := deps.Trips.Create(c.Context(), trip); err != nil {
			return errBadRequest(c, err.Error())
		}

		return c.Status(201).JSON(trip)
	}
}

// ListTripsHandler returns all trips with offset/limit pagination.
func ListTripsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		trips, err := deps.Trips.List(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}

		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 100)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 200 {
			limit = 100
		}

		total := len(trips)
		if offset >= total {
			trips = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			trips = trips[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: trips, Pagination: pg})
	}
}

// GetTripHandler returns a single trip by ID.
func GetTripHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "trip id is required")
		}
		trip, err := deps.Trips.GetByID(c.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrTripNotFound) {
				return errNotFound(c, "trip not found")
			}
			return errInternal(c, err.Error())
		}
		return c.JSON(trip)
	}
}

// DeleteTripHandler removes a trip.
func DeleteTripHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "trip id is required")
		}
		if err := deps.Trips.Delete(c.Context(), id); err != nil {
			if errors.Is(err, domain.ErrTripNotFound) {
				return errNotFound(c, "trip not found")
			}
			return errInternal(c, err.Error())
		}
		return c.SendStatus(204)
	}
}

// createReservationRequest is the POST /v1/trips/:id/reservations payload.
type createReservationRequest struct {
	Kind             string     `json:"kind"`
	Title            string     `json:"title"`
	Address          string     `json:"address"`
	ConfirmationCode string     `json:"confirmation_code"`
	StartsAt         *time.Time `json:"starts_at"`
}

// CreateReservationHandler attaches a reservation to a trip.
func CreateReservationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tripID := c.Params("id")
		if tripID == "" {
			return errBadRequest(c, "trip id is required")
		}

		var req createReservationRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		res := &domain.Reservation{
			TripID:           tripID,
			Kind:             req.Kind,
			Title:            req.Title,
			Address:          req.Address,
			ConfirmationCode: req.ConfirmationCode,
			StartsAt:         req.StartsAt,
		}
		if err := deps.Reservations.Create(c.Context(), res); err != nil {
			if errors.Is(err, domain.ErrTripNotFound) {
				return errNotFound(c, "trip not found")
			}
			return errBadRequest(c, err.Error())
		}

		return c.Status(201).JSON(res)
	}
}

// ListReservationsHandler returns a trip's reservations.
func ListReservationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tripID := c.Params("id")
		if tripID == "" {
			return errBadRequest(c, "trip id is required")
		}
		out, err := deps.Reservations.ListByTrip(c.Context(), tripID)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(out)
	}
}

// DeleteReservationHandler removes a reservation.
func DeleteReservationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "reservation id is required")
		}
		if err := deps.Reservations.Delete(c.Context(), id); err != nil {
			if errors.Is(err, domain.ErrReservationNotFound) {
				return errNotFound(c, "reservation not found")
			}
			return errInternal(c, err.Error())
		}
		return c.SendStatus(204)
	}
}
