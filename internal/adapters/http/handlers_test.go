package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	handler "github.com/wayfarerhq/wayfarer/internal/adapters/http"
	"github.com/wayfarerhq/wayfarer/internal/core/domain"
	"github.com/wayfarerhq/wayfarer/internal/core/usecases"
)

// ---- Mock repositories ----

type mockTripRepo struct {
	createFn  func(ctx context.Context, trip *domain.Trip) error
	getByIDFn func(ctx context.Context, id string) (*domain.Trip, error)
	listFn    func(ctx context.Context) ([]domain.Trip, error)
	deleteFn  func(ctx context.Context, id string) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip *domain.Trip) error {
	if m.createFn != nil {
		return m.createFn(ctx, trip)
	}
	return nil
}
func (m *mockTripRepo) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrTripNotFound
}
func (m *mockTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockTripRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockReservationRepo struct {
	createFn     func(ctx context.Context, res *domain.Reservation) error
	getByIDFn    func(ctx context.Context, id string) (*domain.Reservation, error)
	listByTripFn func(ctx context.Context, tripID string) ([]domain.Reservation, error)
	deleteFn     func(ctx context.Context, id string) error
}

func (m *mockReservationRepo) Create(ctx context.Context, res *domain.Reservation) error {
	if m.createFn != nil {
		return m.createFn(ctx, res)
	}
	return nil
}
func (m *mockReservationRepo) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrReservationNotFound
}
func (m *mockReservationRepo) ListByTrip(ctx context.Context, tripID string) ([]domain.Reservation, error) {
	if m.listByTripFn != nil {
		return m.listByTripFn(ctx, tripID)
	}
	return nil, nil
}
func (m *mockReservationRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockGeocoder struct {
	available      bool
	resolveBatchFn func(ctx context.Context, addresses []string) ([]*domain.Coordinate, error)
}

func (m *mockGeocoder) Available() bool { return m.available }
func (m *mockGeocoder) ResolveBatch(ctx context.Context, addresses []string) ([]*domain.Coordinate, error) {
	if m.resolveBatchFn != nil {
		return m.resolveBatchFn(ctx, addresses)
	}
	return make([]*domain.Coordinate, len(addresses)), nil
}

// ---- Test helpers ----

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func makeDeps(opts ...func(*handler.Dependencies)) *handler.Dependencies {
	d := &handler.Dependencies{
		Trips:        usecases.NewTripService(&mockTripRepo{}, nil),
		Reservations: usecases.NewReservationService(&mockReservationRepo{}, &mockTripRepo{}, nil, nil),
		TripMaps:     usecases.NewTripMapService(&mockTripRepo{}, &mockReservationRepo{}, &mockGeocoder{}, nil),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// ---- Trip handler tests ----

func TestListTrips_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Trips = usecases.NewTripService(&mockTripRepo{
			listFn: func(ctx context.Context) ([]domain.Trip, error) {
				return []domain.Trip{
					{ID: "t1", Name: "Japan 2026", Destination: "Tokyo"},
					{ID: "t2", Name: "Spring break", Destination: "Lisbon"},
				}, nil
			},
		}, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/trips", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data       []domain.Trip `json:"data"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Pagination.Total != 2 {
		t.Errorf("expected total 2, got %d", result.Pagination.Total)
	}
	if len(result.Data) != 2 {
		t.Errorf("expected 2 trips, got %d", len(result.Data))
	}
}

func TestListTrips_Pagination(t *testing.T) {
	trips := make([]domain.Trip, 5)
	for i := range trips {
		trips[i] = domain.Trip{ID: fmt.Sprintf("t%d", i), Name: fmt.Sprintf("Trip %d", i), Destination: "X"}
	}

	deps := makeDeps(func(d *handler.Dependencies) {
		d.Trips = usecases.NewTripService(&mockTripRepo{
			listFn: func(ctx context.Context) ([]domain.Trip, error) { return trips, nil },
		}, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/trips?offset=2&limit=2", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data       []domain.Trip `json:"data"`
		Pagination struct {
			Offset int `json:"offset"`
			Total  int `json:"total"`
		} `json:"pagination"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Pagination.Total != 5 {
		t.Errorf("expected total 5, got %d", result.Pagination.Total)
	}
	if len(result.Data) != 2 {
		t.Errorf("expected 2 trips in page, got %d", len(result.Data))
	}
	if result.Pagination.Offset != 2 {
		t.Errorf("expected offset 2, got %d", result.Pagination.Offset)
	}
}

func TestCreateTrip_Success(t *testing.T) {
	deps := makeDeps()
	app := setupApp(deps)

	body := `{"name":"Japan 2026","destination":"Tokyo, Japan"}`
	req := httptest.NewRequest("POST", "/v1/trips", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
}

func TestCreateTrip_MissingName(t *testing.T) {
	deps := makeDeps()
	app := setupApp(deps)

	body := `{"destination":"Tokyo, Japan"}`
	req := httptest.NewRequest("POST", "/v1/trips", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetTrip_NotFound(t *testing.T) {
	deps := makeDeps()
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/trips/nope", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	var apiErr handler.APIError
	json.NewDecoder(resp.Body).Decode(&apiErr)
	if apiErr.Code != "not_found" {
		t.Errorf("expected code not_found, got %q", apiErr.Code)
	}
}

func TestGetTrip_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Trips = usecases.NewTripService(&mockTripRepo{
			getByIDFn: func(ctx context.Context, id string) (*domain.Trip, error) {
				return &domain.Trip{ID: id, Name: "Japan 2026", Destination: "Tokyo"}, nil
			},
		}, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/trips/t1", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var trip domain.Trip
	json.NewDecoder(resp.Body).Decode(&trip)
	if trip.ID != "t1" || trip.Name != "Japan 2026" {
		t.Errorf("unexpected trip: %+v", trip)
	}
}

func TestDeleteTrip_Success(t *testing.T) {
	deps := makeDeps()
	app := setupApp(deps)

	req := httptest.NewRequest("DELETE", "/v1/trips/t1", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 204 {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
}

// ---- Reservation handler tests ----

func TestCreateReservation_TripNotFound(t *testing.T) {
	deps := makeDeps()
	app := setupApp(deps)

	body := `{"title":"Hotel","address":"Somewhere 1"}`
	req := httptest.NewRequest("POST", "/v1/trips/nope/reservations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCreateReservation_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Reservations = usecases.NewReservationService(&mockReservationRepo{}, &mockTripRepo{
			getByIDFn: func(ctx context.Context, id string) (*domain.Trip, error) {
				return &domain.Trip{ID: id, Name: "Trip", Destination: "X"}, nil
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	body := `{"kind":"hotel","title":"Hotel Le Six","address":"14 Rue Stanislas, Paris"}`
	req := httptest.NewRequest("POST", "/v1/trips/t1/reservations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var res domain.Reservation
	json.NewDecoder(resp.Body).Decode(&res)
	if res.TripID != "t1" || res.Kind != "hotel" {
		t.Errorf("unexpected reservation: %+v", res)
	}
}

func TestListReservations_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Reservations = usecases.NewReservationService(&mockReservationRepo{
			listByTripFn: func(ctx context.Context, tripID string) ([]domain.Reservation, error) {
				return []domain.Reservation{
					{ID: "r1", TripID: tripID, Title: "Hotel"},
				}, nil
			},
		}, &mockTripRepo{}, nil, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/trips/t1/reservations", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out []domain.Reservation
	json.NewDecoder(resp.Body).Decode(&out)
	if len(out) != 1 || out[0].ID != "r1" {
		t.Errorf("unexpected reservations: %+v", out)
	}
}

func TestDeleteReservation_NotFound(t *testing.T) {
	deps := makeDeps()
	app := setupApp(deps)

	req := httptest.NewRequest("DELETE", "/v1/reservations/nope", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

// ---- Map handler tests ----

func mapDeps(geocoder *mockGeocoder) *handler.Dependencies {
	return makeDeps(func(d *handler.Dependencies) {
		trips := &mockTripRepo{
			getByIDFn: func(ctx context.Context, id string) (*domain.Trip, error) {
				return &domain.Trip{ID: id, Name: "Japan 2026", Destination: "Tokyo, Japan"}, nil
			},
		}
		reservations := &mockReservationRepo{
			listByTripFn: func(ctx context.Context, tripID string) ([]domain.Reservation, error) {
				return []domain.Reservation{
					{ID: "r1", TripID: tripID, Title: "Hotel", Address: "1-1 Yoyogi, Shibuya"},
				}, nil
			},
		}
		d.TripMaps = usecases.NewTripMapService(trips, reservations, geocoder, nil)
	})
}

func TestTripMap_Success(t *testing.T) {
	geocoder := &mockGeocoder{
		available: true,
		resolveBatchFn: func(ctx context.Context, addresses []string) ([]*domain.Coordinate, error) {
			out := make([]*domain.Coordinate, len(addresses))
			for i := range out {
				out[i] = &domain.Coordinate{Lat: 35.6762, Lon: 139.6503}
			}
			return out, nil
		},
	}
	app := setupApp(mapDeps(geocoder))

	req := httptest.NewRequest("GET", "/v1/trips/t1/map", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		TripID  string             `json:"trip_id"`
		Region  *domain.MapRegion  `json:"region"`
		Markers []domain.MapMarker `json:"markers"`
		Status  string             `json:"status"`
		HasData bool               `json:"has_data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.TripID != "t1" {
		t.Errorf("expected trip_id t1, got %q", result.TripID)
	}
	if len(result.Markers) != 2 {
		t.Errorf("expected 2 markers, got %d", len(result.Markers))
	}
	if result.Region == nil {
		t.Error("expected a region")
	}
	if result.Status != "resolved" || !result.HasData {
		t.Errorf("unexpected status %q has_data=%v", result.Status, result.HasData)
	}
}

func TestTripMap_NotFound(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/trips/nope/map", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestTripMap_GeocoderUnavailable(t *testing.T) {
	app := setupApp(mapDeps(&mockGeocoder{available: false}))

	req := httptest.NewRequest("GET", "/v1/trips/t1/map", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("degraded mode should still be 200, got %d", resp.StatusCode)
	}

	var result struct {
		Markers []domain.MapMarker `json:"markers"`
		Status  string             `json:"status"`
		HasData bool               `json:"has_data"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.HasData || len(result.Markers) != 0 {
		t.Errorf("expected empty map, got %+v", result)
	}
	if result.Status != "unavailable" {
		t.Errorf("expected status unavailable, got %q", result.Status)
	}
}

func TestTripMap_GeocodeFailure(t *testing.T) {
	geocoder := &mockGeocoder{
		available: true,
		resolveBatchFn: func(ctx context.Context, addresses []string) ([]*domain.Coordinate, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}
	app := setupApp(mapDeps(geocoder))

	req := httptest.NewRequest("GET", "/v1/trips/t1/map", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 502 {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}

	var apiErr handler.APIError
	json.NewDecoder(resp.Body).Decode(&apiErr)
	if apiErr.Code != "geocode_failed" {
		t.Errorf("expected code geocode_failed, got %q", apiErr.Code)
	}
}

func TestTripMap_DestinationOnly(t *testing.T) {
	var batchLen int
	geocoder := &mockGeocoder{
		available: true,
		resolveBatchFn: func(ctx context.Context, addresses []string) ([]*domain.Coordinate, error) {
			batchLen = len(addresses)
			out := make([]*domain.Coordinate, len(addresses))
			for i := range out {
				out[i] = &domain.Coordinate{Lat: 35.6762, Lon: 139.6503}
			}
			return out, nil
		},
	}
	app := setupApp(mapDeps(geocoder))

	req := httptest.NewRequest("GET", "/v1/trips/t1/map?destination_only=true", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if batchLen != 1 {
		t.Errorf("destination-only should geocode 1 address, got %d", batchLen)
	}
}

// ---- Health tests ----

func TestHealth(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/health", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestReady_NoDatabase(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/ready", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 503 {
		t.Fatalf("expected 503 without a database, got %d", resp.StatusCode)
	}
}

// ---- GraphQL tests ----

func TestGraphQL_Trips(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Trips = usecases.NewTripService(&mockTripRepo{
			listFn: func(ctx context.Context) ([]domain.Trip, error) {
				return []domain.Trip{{ID: "t1", Name: "Japan 2026", Destination: "Tokyo"}}, nil
			},
		}, nil)
	})
	app := setupApp(deps)

	body := `{"query":"{ trips { id name destination } }"}`
	req := httptest.NewRequest("POST", "/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data struct {
			Trips []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"trips"`
		} `json:"data"`
		Errors []interface{} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) > 0 {
		t.Fatalf("graphql errors: %v", result.Errors)
	}
	if len(result.Data.Trips) != 1 || result.Data.Trips[0].Name != "Japan 2026" {
		t.Errorf("unexpected result: %+v", result.Data)
	}
}
