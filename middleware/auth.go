package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// Role values set by the Gateway in X-User-Role.
const (
	RolePlayer    = "player"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// UserContextMiddleware extracts user identity and role set by the Gateway.
// Routes registered behind it require an authenticated caller.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		role := c.Get("X-User-Role")

		if userID == "" {
			log.Printf("❌ [USER_CTX] X-User-ID required but missing on secured route: %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through gateway with auth context",
			})
		}

		if role == "" {
			role = RolePlayer
		}

		// Attach to ctx for handlers
		c.Locals("user_id", userID)
		c.Locals("user_role", role)

		return c.Next()
	}
}

// UserID returns the authenticated caller's id, empty if unauthenticated.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

// UserRole returns the caller's role, defaulting to player.
func UserRole(c *fiber.Ctx) string {
	role, _ := c.Locals("user_role").(string)
	if role == "" {
		return RolePlayer
	}
	return role
}

// IsModerator reports whether the caller may curate content (moderator or
// admin). The ranking math itself is identical for all roles; this only
// gates writes and the prior_weight override.
func IsModerator(c *fiber.Ctx) bool {
	role := UserRole(c)
	return role == RoleModerator || role == RoleAdmin
}

// IsAdmin reports whether the caller holds the admin role.
func IsAdmin(c *fiber.Ctx) bool {
	return UserRole(c) == RoleAdmin
}

// RequireModerator short-circuits with 403 for non-curator callers.
func RequireModerator() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !IsModerator(c) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "moderator role required",
			})
		}
		return c.Next()
	}
}

// RequireAdmin short-circuits with 403 for non-admin callers.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !IsAdmin(c) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin role required",
			})
		}
		return c.Next()
	}
}
