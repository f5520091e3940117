package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qlture/engagement/internal/dto"
	"github.com/qlture/engagement/internal/identity"
	"github.com/qlture/engagement/internal/models"
	"github.com/qlture/engagement/internal/services"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
	feedService   *services.FeedService
}

func NewReviewHandler(reviewService *services.ReviewService, feedService *services.FeedService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, feedService: feedService}
}

func reviewStatus(created bool) int {
	if created {
		return fiber.StatusCreated
	}
	return fiber.StatusOK
}

// Create handles POST /reviews. A second submission for the same content
// updates the existing review.
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return nil
	}
	var req dto.CreateReviewRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	contentID, _ := primitive.ObjectIDFromHex(req.ContentID)

	review, created, err := h.reviewService.CreateOrUpdateReview(c.UserContext(), userID, contentID, req.Rating, req.ReviewText)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(reviewStatus(created)).JSON(review)
}

// CreateRating handles POST /reviews/rating.
func (h *ReviewHandler) CreateRating(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return nil
	}
	var req dto.RatingRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	contentID, _ := primitive.ObjectIDFromHex(req.ContentID)

	review, created, err := h.reviewService.CreateOrUpdateRating(c.UserContext(), userID, contentID, req.Rating)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(reviewStatus(created)).JSON(review)
}

func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return nil
	}
	contentID, ok := objectIDParam(c, "contentId")
	if !ok {
		return nil
	}
	var req dto.UpdateReviewRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	review, err := h.reviewService.UpdateReview(c.UserContext(), userID, contentID, services.UpdateReviewInput{
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(review)
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return nil
	}
	contentID, ok := objectIDParam(c, "contentId")
	if !ok {
		return nil
	}
	if err := h.reviewService.DeleteReview(c.UserContext(), userID, contentID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetOwn handles GET /reviews/user/:contentId with the caller's raw rating
// and text.
func (h *ReviewHandler) GetOwn(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return nil
	}
	contentID, ok := objectIDParam(c, "contentId")
	if !ok {
		return nil
	}
	review, err := h.reviewService.GetOwnReview(c.UserContext(), userID, contentID)
	if err != nil {
		return respondError(c, err)
	}
	var resp dto.OwnReviewResponse
	if review != nil {
		resp.Rating = review.Rating
		resp.ReviewText = review.ReviewText
	}
	return c.JSON(resp)
}

// GetMine handles GET /reviews/me/:contentId with the enriched own review,
// or null.
func (h *ReviewHandler) GetMine(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return nil
	}
	contentID, ok := objectIDParam(c, "contentId")
	if !ok {
		return nil
	}
	view, err := h.reviewService.GetUserReviewForContent(c.UserContext(), contentID, userID, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// GetForUser handles GET /reviews/:userId/:contentId.
func (h *ReviewHandler) GetForUser(c *fiber.Ctx) error {
	userID, ok := userIDParam(c, "userId")
	if !ok {
		return nil
	}
	contentID, ok := objectIDParam(c, "contentId")
	if !ok {
		return nil
	}
	view, err := h.reviewService.GetUserReviewForContent(c.UserContext(), contentID, userID, identity.Optional(c))
	if err != nil {
		return respondError(c, err)
	}
	if view == nil {
		return respondError(c, services.ErrReviewNotFound)
	}
	return c.JSON(view)
}

// ListForContent handles GET /contents/:contentId/reviews.
func (h *ReviewHandler) ListForContent(c *fiber.Ctx) error {
	contentID, ok := objectIDParam(c, "contentId")
	if !ok {
		return nil
	}
	page, err := h.reviewService.GetPaginatedReviewsForContent(c.UserContext(), services.ReviewPageQuery{
		ContentID: contentID,
		Page:      pageQuery(c),
		Sort:      models.ReviewSort(c.Query("sort")),
		Viewer:    identity.Optional(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// ListByUser handles GET /reviews/user/:userId/all?sort&order.
func (h *ReviewHandler) ListByUser(c *fiber.Ctx) error {
	userID, ok := userIDParam(c, "userId")
	if !ok {
		return nil
	}
	var asc bool
	switch c.Query("order", "desc") {
	case "asc":
		asc = true
	case "desc":
	default:
		return badRequest(c, "order must be asc or desc")
	}
	reviews, err := h.reviewService.ListUserReviews(c.UserContext(), userID, identity.Optional(c), models.UserReviewSort(c.Query("sort")), asc)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reviews)
}

// Following handles GET /reviews/feed/following.
func (h *ReviewHandler) Following(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return nil
	}
	page, err := h.feedService.GetReviewsFromFollowed(c.UserContext(), userID, pageQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}
