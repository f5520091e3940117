package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"

	"github.com/qlture/engagement/internal/config"
	"github.com/qlture/engagement/internal/dto"
)

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtConfig(cfg, nil))
}

// OptionalAuth verifies a bearer token when one is sent and lets anonymous
// requests through. A bad token is still rejected.
func OptionalAuth(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtConfig(cfg, func(c *fiber.Ctx) bool {
		return c.Get(fiber.HeaderAuthorization) == ""
	}))
}

func jwtConfig(cfg *config.Config, skip func(*fiber.Ctx) bool) jwtware.Config {
	return jwtware.Config{
		Filter:     skip,
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	}
}
