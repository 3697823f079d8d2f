package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on
// endpoint. Handlers may set their own header, which wins.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != "GET" {
			return err
		}

		if existing := c.Get("Cache-Control"); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10" // Very short for system checks

		case path == "/metrics":
			ttl = "no-cache" // Metrics are real-time

		case path == "/graphql":
			ttl = "private, max-age=0"

		case strings.HasSuffix(path, "/map"):
			// A map view must reflect the trip's current reservations
			ttl = "no-store"

		case strings.HasSuffix(path, "/reservations"):
			ttl = "public, max-age=60"

		case strings.HasPrefix(path, "/v1/trips/"):
			ttl = "public, max-age=300" // 5 min for a single trip

		case strings.HasPrefix(path, "/v1/"):
			ttl = "public, max-age=60" // 1 min default for API endpoints
		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}

		return err
	}
}
