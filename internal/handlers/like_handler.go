package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/qlture/engagement/internal/identity"
	"github.com/qlture/engagement/internal/services"
)

// LikeHandler serves one like collection; routes mount one per target kind.
type LikeHandler struct {
	likeService *services.LikeService
}

func NewLikeHandler(likeService *services.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

// Toggle handles POST /<target>/:id/like.
func (h *LikeHandler) Toggle(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return nil
	}
	targetID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}
	result, err := h.likeService.ToggleLike(c.UserContext(), targetID, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// State handles GET /<target>/:id/like. Anonymous callers get liked=false.
func (h *LikeHandler) State(c *fiber.Ctx) error {
	targetID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}
	state, err := h.likeService.State(c.UserContext(), targetID, identity.Optional(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(state)
}
