package usecases

import (
	"context"
	"errors"
	"sync"

	"github.com/wayfarerhq/wayfarer/internal/core/domain"
	"github.com/wayfarerhq/wayfarer/internal/core/ports"
)

// Result is a controller's externally visible state: the current viewport,
// markers, loading flag, and error. Markers are replaced wholesale on each
// run; an errored run clears them rather than leaving stale ones visible.
type Result struct {
	Region  *domain.MapRegion
	Markers []domain.MapMarker
	Status  domain.GeocodeStatus
	Loading bool
	Err     error
}

// HasData reports whether the result has anything to draw.
func (r Result) HasData() bool {
	return r.Region != nil && len(r.Markers) > 0
}

// Controller runs the trip-map pipeline for a single trip view. Each call
// to Update recomputes the request list from the given snapshot; a run is
// started only when the list differs in content from the previous one, and
// any outstanding run is superseded. Commits are atomic: a superseded run
// never touches the result.
type Controller struct {
	orch *Orchestrator

	mu       sync.Mutex
	gen      uint64
	hasRun   bool
	lastReqs []domain.LocationRequest
	result   Result
}

// NewController creates a Controller in the loading state.
func NewController(geocoder ports.Geocoder) *Controller {
	return &Controller{
		orch:   NewOrchestrator(geocoder),
		result: Result{Loading: true},
	}
}

// Update feeds the controller a loaded trip/reservation snapshot and
// returns the committed result. When the derived request list is unchanged
// the previous result is returned without re-running the pipeline. The
// second return reports whether this call's outcome was committed: false
// means a newer update superseded the run and the returned result is the
// current state, untouched by the stale outcome.
func (c *Controller) Update(ctx context.Context, trip *domain.Trip, reservations []domain.Reservation, opts CollectOptions) (Result, bool) {
	reqs := CollectLocationRequests(trip, reservations, opts)

	c.mu.Lock()
	if c.hasRun && requestsEqual(reqs, c.lastReqs) {
		r := c.result
		c.mu.Unlock()
		return r, true
	}
	c.hasRun = true
	c.lastReqs = reqs
	c.gen++
	gen := c.gen
	c.result.Loading = true
	c.mu.Unlock()

	outcomes, status, err := c.orch.Resolve(ctx, reqs)

	c.mu.Lock()
	defer c.mu.Unlock()
	if errors.Is(err, ErrSuperseded) || gen != c.gen {
		return c.result, false
	}
	if err != nil {
		c.result = Result{Status: status, Err: err}
		return c.result, true
	}

	markers := AssembleMarkers(reqs, outcomes)
	AnnotateDistances(markers)
	c.result = Result{
		Region:  ComputeRegion(markers),
		Markers: markers,
		Status:  status,
	}
	return c.result, true
}

// Current returns the last committed result.
func (c *Controller) Current() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}
