package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestTimeout puts a deadline on the request's user context. Handlers
// pass c.UserContext() to the services, so store calls are cancelled when it
// expires.
func RequestTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if d <= 0 {
			return c.Next()
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)

		err := c.Next()
		if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fiber.NewError(fiber.StatusGatewayTimeout, "request timed out")
		}
		return err
	}
}
