package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wayfarerhq/wayfarer/internal/core/domain"
	"github.com/wayfarerhq/wayfarer/internal/core/ports"
)

// ErrSuperseded is returned when a geocode run was replaced by a newer one
// before it could commit. Its result must be discarded, never applied.
var ErrSuperseded = errors.New("geocode run superseded")

// Orchestrator issues one batched geocode call per pipeline run and
// guarantees that at most one outstanding run's result is ever applied.
// Every Resolve supersedes the previous one: the older run's context is
// cancelled, and its eventual result (success or failure) is dropped at
// commit time via a monotonic sequence token.
type Orchestrator struct {
	geocoder ports.Geocoder

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewOrchestrator creates an Orchestrator for one trip view.
func NewOrchestrator(geocoder ports.Geocoder) *Orchestrator {
	return &Orchestrator{geocoder: geocoder}
}

// Resolve geocodes all requests in a single batch, preserving input order
// in the outcome slice. A nil outcome means the address did not resolve.
// When geocoding is unavailable, it resolves immediately to all-nil
// outcomes with GeocodeUnavailable: silent degraded mode, not an error.
// Only a total batch failure returns an error (wrapping ErrGeocodeFailed),
// and a superseded run returns ErrSuperseded.
func (o *Orchestrator) Resolve(ctx context.Context, requests []domain.LocationRequest) ([]*domain.Coordinate, domain.GeocodeStatus, error) {
	o.mu.Lock()
	o.seq++
	seq := o.seq
	if o.cancel != nil {
		// Signal the superseded run's transport to abort; its result is
		// discarded below regardless of whether it completes.
		o.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.mu.Unlock()
	defer cancel()

	outcomes, status, err := o.run(runCtx, requests)

	o.mu.Lock()
	defer o.mu.Unlock()
	if seq != o.seq {
		return nil, "", ErrSuperseded
	}
	return outcomes, status, err
}

func (o *Orchestrator) run(ctx context.Context, requests []domain.LocationRequest) ([]*domain.Coordinate, domain.GeocodeStatus, error) {
	if len(requests) == 0 {
		return nil, domain.GeocodeNoResults, nil
	}
	if !o.geocoder.Available() {
		return make([]*domain.Coordinate, len(requests)), domain.GeocodeUnavailable, nil
	}

	addresses := make([]string, len(requests))
	for i, r := range requests {
		addresses[i] = r.Address
	}

	outcomes, err := o.geocoder.ResolveBatch(ctx, addresses)
	if err != nil {
		return nil, domain.GeocodeFailed, fmt.Errorf("%w: %v", domain.ErrGeocodeFailed, err)
	}

	// Downstream assembly relies on positional alignment; tolerate a
	// misbehaving adapter by padding short results with unresolved entries.
	if len(outcomes) < len(requests) {
		outcomes = append(outcomes, make([]*domain.Coordinate, len(requests)-len(outcomes))...)
	}
	outcomes = outcomes[:len(requests)]

	resolved := 0
	for _, c := range outcomes {
		if c != nil {
			resolved++
		}
	}
	if resolved == 0 {
		return outcomes, domain.GeocodeNoResults, nil
	}
	return outcomes, domain.GeocodeResolved, nil
}
