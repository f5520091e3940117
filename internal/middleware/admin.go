package middleware

import (
	"slices"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/qlture/engagement/internal/config"
	"github.com/qlture/engagement/internal/dto"
)

// AdminRequired admits requests carrying the configured X-Admin-Token, or a
// verified JWT whose sub is one of ADMIN_USER_IDS. Mount it after
// OptionalAuth so token-only callers are not rejected first.
func AdminRequired(cfg *config.Config) fiber.Handler {
	adminUserIDs := cfg.AdminIDs()

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" && c.Get("X-Admin-Token") == cfg.AdminToken {
			return c.Next()
		}

		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid claims",
			})
		}

		sub, _ := claims["sub"].(string)
		if sub != "" && slices.Contains(adminUserIDs, sub) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}
