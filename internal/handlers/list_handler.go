package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qlture/engagement/internal/dto"
	"github.com/qlture/engagement/internal/identity"
	"github.com/qlture/engagement/internal/models"
	"github.com/qlture/engagement/internal/services"
)

type listFeed func(ctx context.Context, userID identity.UserID, page services.Page) (*services.PageResult[services.ListItemView], error)

// ListHandler serves the wishlist or the history.
type ListHandler struct {
	listService *services.ListService
	feed        listFeed
}

func NewWishlistHandler(wishlist *services.ListService, feed *services.FeedService) *ListHandler {
	return &ListHandler{listService: wishlist, feed: feed.GetWishlistFromFollowed}
}

func NewHistoryHandler(history *services.ListService, feed *services.FeedService) *ListHandler {
	return &ListHandler{listService: history, feed: feed.GetHistoryFromFollowed}
}

func (h *ListHandler) Add(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return nil
	}
	var req dto.ListItemRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	contentID, _ := primitive.ObjectIDFromHex(req.ContentID)

	item, err := h.listService.Add(c.UserContext(), userID, contentID, req.ConsumedAt)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *ListHandler) Remove(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return nil
	}
	var req dto.RemoveListItemRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	contentID, _ := primitive.ObjectIDFromHex(req.ContentID)

	if err := h.listService.Remove(c.UserContext(), userID, contentID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Mine handles GET /<list>/me?type&page&limit.
func (h *ListHandler) Mine(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return nil
	}
	page, err := h.listService.ListMine(c.UserContext(), userID, models.ContentType(c.Query("type")), pageQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// Following handles GET /<list>/feed/following.
func (h *ListHandler) Following(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return nil
	}
	page, err := h.feed(c.UserContext(), userID, pageQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}
