package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/qlture/engagement/internal/dto"
	"github.com/qlture/engagement/internal/services"
)

type FollowHandler struct {
	followService *services.FollowService
}

func NewFollowHandler(followService *services.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

func (h *FollowHandler) Follow(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return nil
	}
	target, ok := userIDParam(c, "id")
	if !ok {
		return nil
	}
	if err := h.followService.Follow(c.UserContext(), userID, target); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "User followed successfully"})
}

func (h *FollowHandler) Unfollow(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return nil
	}
	target, ok := userIDParam(c, "id")
	if !ok {
		return nil
	}
	if err := h.followService.Unfollow(c.UserContext(), userID, target); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Following handles GET /followers/:id/following.
func (h *FollowHandler) Following(c *fiber.Ctx) error {
	userID, ok := userIDParam(c, "id")
	if !ok {
		return nil
	}
	users, err := h.followService.ListFollowing(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}
