package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// RequireActor ensures a reviewing actor is authenticated.
func RequireActor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := ActorFromContext(c); !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		return c.Next()
	}
}
