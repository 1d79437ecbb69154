// handlers/user.go
package handlers

import (
	"match-prediction-system/middleware"
	"match-prediction-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes registers the profile endpoints. EnsureUser makes the local
// row exist for whatever identity the gateway forwarded, so every downstream
// foreign key has something to point at.
func SetupUserRoutes(app *fiber.App, userService *services.UserService) {
	users := app.Group("/users", middleware.UserContextMiddleware())

	users.Post("/sync", func(c *fiber.Ctx) error {
		username, _ := c.Locals("username").(string)
		var input struct {
			Email string `json:"email"`
		}
		if err := c.BodyParser(&input); err != nil && len(c.Body()) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		user, err := userService.EnsureUser(c.UserContext(), userID(c), username, input.Email)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(user)
	})

	users.Get("/me", func(c *fiber.Ctx) error {
		user, err := userService.GetUser(c.UserContext(), userID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(user)
	})
}
