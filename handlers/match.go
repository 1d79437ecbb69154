// handlers/match.go
package handlers

import (
	"match-prediction-system/middleware"
	"match-prediction-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupMatchRoutes registers the match lifecycle endpoints. Writes are
// admin-only; reads go through the response cache.
func SetupMatchRoutes(app *fiber.App, matchService *services.MatchService, cacheMw fiber.Handler) {
	matches := app.Group("/matches")

	matches.Get("/upcoming", cacheMw, func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		page, err := matchService.GetUpcomingMatches(c.UserContext(), limit, offset)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(page)
	})

	matches.Get("/live", cacheMw, func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		page, err := matchService.GetLiveMatches(c.UserContext(), limit, offset)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(page)
	})

	matches.Get("/completed", cacheMw, func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		page, err := matchService.GetCompletedMatches(c.UserContext(), limit, offset)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(page)
	})

	matches.Get("/league/:league", cacheMw, func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		page, err := matchService.GetMatchesByLeague(c.UserContext(), c.Params("league"), limit, offset)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(page)
	})

	matches.Get("/season/:season", cacheMw, func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		page, err := matchService.GetMatchesBySeason(c.UserContext(), c.Params("season"), limit, offset)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(page)
	})

	matches.Get("/:id", cacheMw, func(c *fiber.Ctx) error {
		match, err := matchService.GetMatchByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(match)
	})

	admin := matches.Group("/", middleware.UserContextMiddleware(), middleware.RequireRole("admin"))

	admin.Post("/", func(c *fiber.Ctx) error {
		var input services.CreateMatchInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		match, err := matchService.CreateMatch(c.UserContext(), input)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(match)
	})

	admin.Put("/:id", func(c *fiber.Ctx) error {
		var input services.UpdateMatchInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		match, err := matchService.UpdateMatch(c.UserContext(), c.Params("id"), input)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(match)
	})

	// Finalizing a result runs the whole settlement pipeline: scoring,
	// leaderboard refresh, cache invalidation, notifications.
	admin.Post("/:id/result", func(c *fiber.Ctx) error {
		var input struct {
			HomeScore *int `json:"home_score"`
			AwayScore *int `json:"away_score"`
		}
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if input.HomeScore == nil || input.AwayScore == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "home_score and away_score are required"})
		}

		match, processed, err := matchService.FinalizeResult(c.UserContext(), c.Params("id"), *input.HomeScore, *input.AwayScore)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"match":                 match,
			"predictions_processed": processed,
		})
	})
}
