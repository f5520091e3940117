package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qlture/engagement/internal/dto"
	"github.com/qlture/engagement/internal/identity"
	"github.com/qlture/engagement/internal/services"
	"github.com/qlture/engagement/internal/validation"
)

// respondError maps service error kinds to statuses. Anything else is a
// store failure and goes to the app error handler as a 500.
func respondError(c *fiber.Ctx, err error) error {
	var reqErr *validation.RequestError
	if errors.As(err, &reqErr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{
			Error: true, Message: reqErr.Error(), Fields: reqErr.Fields,
		})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Error: true, Message: fe.Message})
	}

	var status int
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrValidation):
		status = fiber.StatusBadRequest
	default:
		return err
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

// caller returns the verified user or writes a 401.
func caller(c *fiber.Ctx) (identity.UserID, bool) {
	id, err := identity.FromContext(c)
	if err != nil {
		_ = c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
		return identity.Anonymous, false
	}
	return id, true
}

var errBadBody = fiber.NewError(fiber.StatusBadRequest, "Invalid request body")

// bind parses the JSON body into req and validates it.
func bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return errBadBody
	}
	return validation.ValidateStruct(req)
}

func objectIDParam(c *fiber.Ctx, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Params(name))
	if err != nil {
		_ = badRequest(c, "Invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}

func userIDParam(c *fiber.Ctx, name string) (identity.UserID, bool) {
	id, err := identity.Parse(c.Params(name))
	if err != nil {
		_ = badRequest(c, "Invalid "+name)
		return identity.Anonymous, false
	}
	return id, true
}

func pageQuery(c *fiber.Ctx) services.Page {
	return services.NewPage(int64(c.QueryInt("page", 1)), int64(c.QueryInt("limit", services.DefaultPageLimit)))
}

// listQuery collects a query parameter given either repeated or comma
// separated.
func listQuery(c *fiber.Ctx, key string) []string {
	var out []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		for _, v := range strings.Split(string(raw), ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
