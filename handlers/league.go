// handlers/league.go
package handlers

import (
	"match-prediction-system/middleware"
	"match-prediction-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupLeagueRoutes registers user-league management.
func SetupLeagueRoutes(app *fiber.App, leagueService *services.LeagueService, cacheMw fiber.Handler) {
	leagues := app.Group("/leagues")

	leagues.Get("/public", cacheMw, func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		page, err := leagueService.GetPublicLeagues(c.UserContext(), limit, offset)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(page)
	})

	secured := leagues.Group("/", middleware.UserContextMiddleware())

	secured.Post("/", func(c *fiber.Ctx) error {
		var input services.CreateLeagueInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		league, err := leagueService.CreateLeague(c.UserContext(), userID(c), input)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(league)
	})

	secured.Get("/mine", func(c *fiber.Ctx) error {
		out, err := leagueService.GetUserLeagues(c.UserContext(), userID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(out)
	})

	secured.Get("/:id", func(c *fiber.Ctx) error {
		league, err := leagueService.GetLeagueByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(league)
	})

	secured.Post("/:id/join", func(c *fiber.Ctx) error {
		var input struct {
			InviteCode string `json:"invite_code"`
		}
		if err := c.BodyParser(&input); err != nil && len(c.Body()) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if err := leagueService.JoinLeague(c.UserContext(), userID(c), c.Params("id"), input.InviteCode); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"status": "joined"})
	})

	secured.Post("/:id/leave", func(c *fiber.Ctx) error {
		if err := leagueService.LeaveLeague(c.UserContext(), userID(c), c.Params("id")); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"status": "left"})
	})

	secured.Delete("/:id", func(c *fiber.Ctx) error {
		if err := leagueService.DeleteLeague(c.UserContext(), userID(c), c.Params("id")); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"status": "deleted"})
	})

	secured.Post("/:id/invite-code", func(c *fiber.Ctx) error {
		code, err := leagueService.RegenerateInviteCode(c.UserContext(), userID(c), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"invite_code": code})
	})
}
