// Package identity resolves the caller once at the HTTP boundary into a UserID
// value that the rest of the service passes around explicitly.
package identity

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// UserID identifies a user of the relational store. The zero value is the
// anonymous caller.
type UserID string

// Anonymous is the identity of a caller without a token.
const Anonymous UserID = ""

var (
	ErrNoToken     = errors.New("invalid token in context")
	ErrInvalidSub  = errors.New("missing sub claim")
	ErrInvalidUser = errors.New("invalid user id")
)

// Parse validates s as a UUID and returns it in canonical form.
func Parse(s string) (UserID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return Anonymous, ErrInvalidUser
	}
	return UserID(id.String()), nil
}

func (u UserID) IsAnonymous() bool { return u == Anonymous }

func (u UserID) String() string { return string(u) }

// Strings converts ids for store queries.
func Strings(ids []UserID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// FromContext extracts the caller from JWT claims stored by the jwt middleware.
// It fails when no token was verified for the request.
func FromContext(c *fiber.Ctx) (UserID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return Anonymous, ErrNoToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Anonymous, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return Anonymous, ErrInvalidSub
	}

	return Parse(sub)
}

// Optional returns the caller or Anonymous when the request carries no token.
func Optional(c *fiber.Ctx) UserID {
	id, err := FromContext(c)
	if err != nil {
		return Anonymous
	}
	return id
}
