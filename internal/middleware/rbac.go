package middleware

import (
	"github.com/gofiber/fiber/v2"
)

func RequireGroup(group string) fiber.Handler {
	return RequireAnyGroup(group)
}

func RequireAnyGroup(groups ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetCurrentUser(c)
		if user == nil {
			return Unauthorized("User not found")
		}

		for _, group := range groups {
			if user.InGroup(group) {
				return c.Next()
			}
		}

		return Forbidden("Insufficient permissions for this operation")
	}
}
