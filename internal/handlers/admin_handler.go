package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/qlture/engagement/internal/services"
)

// AdminHandler exposes the counter repair operations.
type AdminHandler struct {
	stats *services.StatsSynchronizer
}

func NewAdminHandler(stats *services.StatsSynchronizer) *AdminHandler {
	return &AdminHandler{stats: stats}
}

// RecomputeContent handles POST /admin/recompute/contents/:id.
func (h *AdminHandler) RecomputeContent(c *fiber.Ctx) error {
	contentID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}
	repair, err := h.stats.RepairContent(c.UserContext(), contentID)
	if err != nil {
		slog.Error("content repair failed", "content_id", contentID.Hex(), "action", "recompute_content", "error", err)
		return respondError(c, err)
	}
	slog.Info("content repaired", "content_id", contentID.Hex())
	return c.JSON(repair)
}

// RecomputeUser handles POST /admin/recompute/users/:id.
func (h *AdminHandler) RecomputeUser(c *fiber.Ctx) error {
	userID, ok := userIDParam(c, "id")
	if !ok {
		return nil
	}
	counters, err := h.stats.RepairUserCounters(c.UserContext(), userID)
	if err != nil {
		slog.Error("user counter repair failed", "user_id", userID.String(), "action", "recompute_user", "error", err)
		return respondError(c, err)
	}
	slog.Info("user counters repaired", "user_id", userID.String())
	return c.JSON(fiber.Map{"user_id": userID, "counters": counters})
}
