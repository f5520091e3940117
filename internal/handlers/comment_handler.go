package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qlture/engagement/internal/dto"
	"github.com/qlture/engagement/internal/identity"
	"github.com/qlture/engagement/internal/models"
	"github.com/qlture/engagement/internal/services"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// Create handles POST /reviews/:id/comments/add.
func (h *CommentHandler) Create(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return nil
	}
	reviewID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}
	var req dto.CreateCommentRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	var replyTo *primitive.ObjectID
	if req.ReplyToCommentID != nil {
		id, _ := primitive.ObjectIDFromHex(*req.ReplyToCommentID)
		replyTo = &id
	}

	comment, err := h.commentService.Create(c.UserContext(), reviewID, userID, req.Comment, replyTo)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return nil
	}
	commentID, ok := objectIDParam(c, "commentId")
	if !ok {
		return nil
	}
	if err := h.commentService.Delete(c.UserContext(), commentID, userID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func listQueryFrom(c *fiber.Ctx) services.CommentListQuery {
	return services.CommentListQuery{
		Page:         pageQuery(c),
		Sort:         models.CommentSort(c.Query("sort")),
		RepliesLimit: int64(c.QueryInt("repliesLimit", services.DefaultRepliesLimit)),
		Viewer:       identity.Optional(c),
	}
}

// ListRoots handles GET /reviews/:id/comments/racines.
func (h *CommentHandler) ListRoots(c *fiber.Ctx) error {
	reviewID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}
	page, err := h.commentService.ListRootComments(c.UserContext(), reviewID, listQueryFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// ListReplies handles GET /reviews/comments/:id/replies.
func (h *CommentHandler) ListReplies(c *fiber.Ctx) error {
	parentID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}
	page, err := h.commentService.ListReplies(c.UserContext(), parentID, listQueryFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// List handles GET /reviews/:id/comments, every comment of the review.
func (h *CommentHandler) List(c *fiber.Ctx) error {
	reviewID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}
	page, err := h.commentService.ListComments(c.UserContext(), reviewID, listQueryFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}
