package usecases

import (
	"strings"

	"github.com/wayfarerhq/wayfarer/internal/core/domain"
)

// CollectOptions controls address collection for a trip map.
type CollectOptions struct {
	// DestinationOnly restricts the map to the trip destination, ignoring
	// reservation addresses even when they are loaded.
	DestinationOnly bool
}

// CollectLocationRequests derives the ordered, deduplicated geocode request
// list for a trip. The destination is considered first, so it wins any dedup
// collision; reservation addresses follow in list order. Two addresses are
// duplicates when they compare equal after trimming and lower-casing.
// Matching is deliberately literal, not fuzzy.
func CollectLocationRequests(trip *domain.Trip, reservations []domain.Reservation, opts CollectOptions) []domain.LocationRequest {
	if trip == nil {
		return nil
	}

	var out []domain.LocationRequest
	seen := make(map[string]struct{})

	if addr := strings.TrimSpace(trip.Destination); addr != "" {
		out = append(out, domain.LocationRequest{
			ID:            domain.DestinationRequestID(trip.ID),
			Address:       addr,
			Title:         addr,
			IsDestination: true,
		})
		seen[normalizeAddress(addr)] = struct{}{}
	}

	if opts.DestinationOnly {
		return out
	}

	for _, res := range reservations {
		addr := strings.TrimSpace(res.Address)
		if addr == "" {
			continue
		}
		key := normalizeAddress(addr)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, domain.LocationRequest{
			ID:      domain.ReservationRequestID(res.ID),
			Address: addr,
			Title:   res.Title,
		})
	}

	return out
}

func normalizeAddress(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// requestsEqual compares two request lists by content. The controller uses
// it to decide whether a new snapshot actually changes anything; a fresh
// slice built from equal inputs must not re-trigger a geocode run.
func requestsEqual(a, b []domain.LocationRequest) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
