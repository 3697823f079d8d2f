package usecases_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/wayfarerhq/wayfarer/internal/core/domain"
	"github.com/wayfarerhq/wayfarer/internal/core/usecases"
)

func TestTripService_CreateValidation(t *testing.T) {
	svc := usecases.NewTripService(&mockTripRepo{}, nil)

	if err := svc.Create(context.Background(), &domain.Trip{Destination: "Paris"}); err == nil {
		t.Error("expected error for missing name")
	}
	if err := svc.Create(context.Background(), &domain.Trip{Name: "Spring break"}); err == nil {
		t.Error("expected error for missing destination")
	}
	if err := svc.Create(context.Background(), &domain.Trip{Name: "Spring break", Destination: "Paris"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestTripService_CreateInvalidatesListCache(t *testing.T) {
	cache := newMockCache()
	cache.store["trips:all"] = []byte(`[]`)
	svc := usecases.NewTripService(&mockTripRepo{}, cache)

	if err := svc.Create(context.Background(), &domain.Trip{Name: "A", Destination: "B"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cache.store["trips:all"]; ok {
		t.Error("create should invalidate the trip list cache")
	}
}

func TestTripService_GetByID_CacheHit(t *testing.T) {
	cached, _ := json.Marshal(domain.Trip{ID: "t1", Name: "Cached"})
	cache := newMockCache()
	cache.store["trips:id:t1"] = cached

	repoCalled := false
	repo := &mockTripRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Trip, error) {
			repoCalled = true
			return &domain.Trip{ID: id, Name: "Fresh"}, nil
		},
	}
	svc := usecases.NewTripService(repo, cache)

	trip, err := svc.GetByID(context.Background(), "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.Name != "Cached" {
		t.Errorf("expected cached trip, got %q", trip.Name)
	}
	if repoCalled {
		t.Error("cache hit must not touch the repository")
	}
}

func TestTripService_GetByID_CacheMissPopulates(t *testing.T) {
	cache := newMockCache()
	repo := &mockTripRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Trip, error) {
			return &domain.Trip{ID: id, Name: "Fresh"}, nil
		},
	}
	svc := usecases.NewTripService(repo, cache)

	if _, err := svc.GetByID(context.Background(), "t1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cache.store["trips:id:t1"]; !ok {
		t.Error("cache miss should populate the cache")
	}
}

func TestTripService_DeleteInvalidatesCaches(t *testing.T) {
	cache := newMockCache()
	cache.store["trips:id:t1"] = []byte(`{}`)
	cache.store["trips:all"] = []byte(`[]`)
	svc := usecases.NewTripService(&mockTripRepo{}, cache)

	if err := svc.Delete(context.Background(), "t1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cache.store["trips:id:t1"]; ok {
		t.Error("delete should drop the per-trip cache entry")
	}
	if _, ok := cache.store["trips:all"]; ok {
		t.Error("delete should drop the trip list cache entry")
	}
}
