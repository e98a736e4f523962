package middleware

import (
	"akaguriroo-backend/internal/pkg/apperr"
	"akaguriroo-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errInvalidSession = apperr.Unauthorized("Invalid session")

// RequireAuth ensures a user is in the session. Returns 401 with standard error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetUser(c) == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) *SessionUser {
	u, _ := c.Locals(userLocal).(*SessionUser)
	return u
}

// SetUser puts u in Locals as Session would.
func SetUser(c *fiber.Ctx, u *SessionUser) {
	c.Locals(userLocal, u)
}

// ActorID is the authenticated user's id.
func ActorID(c *fiber.Ctx) (uuid.UUID, error) {
	u := GetUser(c)
	if u == nil {
		return uuid.Nil, errInvalidSession
	}
	id, err := uuid.Parse(u.UserID)
	if err != nil {
		return uuid.Nil, errInvalidSession
	}
	return id, nil
}
