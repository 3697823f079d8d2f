package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wayfarerhq/wayfarer/internal/core/domain"
	"github.com/wayfarerhq/wayfarer/internal/pkg/metrics"
)

// Client implements ports.Geocoder against a Nominatim-compatible search
// endpoint. The provider has no true batch call, so a batch is resolved as
// sequential lookups spaced by minInterval (public Nominatim allows one
// request per second); the batch contract holds at the pipeline boundary.
type Client struct {
	http        *http.Client
	baseURL     string
	userAgent   string
	minInterval time.Duration
}

// New creates a geocoding client. An empty baseURL yields an unavailable
// client: ResolveBatch callers are expected to short-circuit on Available.
func New(baseURL, userAgent string, minInterval time.Duration) *Client {
	return &Client{
		http:        &http.Client{Timeout: 15 * time.Second},
		baseURL:     strings.TrimRight(baseURL, "/"),
		userAgent:   userAgent,
		minInterval: minInterval,
	}
}

// Available reports whether the client is configured with an endpoint.
func (c *Client) Available() bool {
	return c.baseURL != ""
}

// ResolveBatch geocodes all addresses, preserving input order. An address
// that does not resolve yields a nil entry. An error is returned only when
// the whole batch is unusable: the context was cancelled, or every single
// lookup failed at the transport level.
func (c *Client) ResolveBatch(ctx context.Context, addresses []string) ([]*domain.Coordinate, error) {
	start := time.Now()

	out := make([]*domain.Coordinate, len(addresses))
	if !c.Available() {
		return out, nil
	}

	var firstErr error
	failed := 0

	for i, addr := range addresses {
		if i > 0 && c.minInterval > 0 {
			select {
			case <-ctx.Done():
				metrics.GeocodeBatches.WithLabelValues("failed").Inc()
				return nil, ctx.Err()
			case <-time.After(c.minInterval):
			}
		}

		coord, err := c.lookup(ctx, addr)
		if err != nil {
			if ctx.Err() != nil {
				metrics.GeocodeBatches.WithLabelValues("failed").Inc()
				return nil, ctx.Err()
			}
			// Per-address transport failure: soft, becomes a nil outcome.
			failed++
			if firstErr == nil {
				firstErr = err
			}
			metrics.GeocodeUnresolved.Inc()
			continue
		}
		if coord == nil {
			metrics.GeocodeUnresolved.Inc()
		}
		out[i] = coord
	}

	metrics.GeocodeBatchDuration.Observe(time.Since(start).Seconds())

	if failed == len(addresses) && firstErr != nil {
		metrics.GeocodeBatches.WithLabelValues("failed").Inc()
		return nil, firstErr
	}

	metrics.GeocodeBatches.WithLabelValues("ok").Inc()
	return out, nil
}

// nominatimResult is the subset of the search response we read.
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (c *Client) lookup(ctx context.Context, address string) (*domain.Coordinate, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("accept-language", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", address, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode %q: unexpected status %s", address, resp.Status)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return nil, nil
	}

	return &domain.Coordinate{Lat: lat, Lon: lon}, nil
}
