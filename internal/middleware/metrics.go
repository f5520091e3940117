package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/qlture/engagement/internal/metrics"
)

// Metrics records request latency by route pattern.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordRequest(c.Method(), route, status, time.Since(start))
		return err
	}
}
