// handlers/leaderboard.go
package handlers

import (
	"match-prediction-system/middleware"
	"match-prediction-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupLeaderboardRoutes registers ranked reads and the admin refresh/archive
// triggers. Reads are cached at both the service layer and the response
// middleware.
func SetupLeaderboardRoutes(app *fiber.App, leaderboardService *services.LeaderboardService,
	archiveService *services.ArchiveService, cacheMw fiber.Handler) {
	leaderboard := app.Group("/leaderboard")

	leaderboard.Get("/global", cacheMw, func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		page, err := leaderboardService.GetGlobalLeaderboard(c.UserContext(), limit, offset)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(page)
	})

	leaderboard.Get("/league/:leagueId", cacheMw, func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		page, err := leaderboardService.GetLeagueLeaderboard(c.UserContext(), c.Params("leagueId"), limit, offset)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(page)
	})

	secured := leaderboard.Group("/", middleware.UserContextMiddleware())

	secured.Get("/me", func(c *fiber.Ctx) error {
		var leagueID *string
		if v := c.Query("league_id"); v != "" {
			leagueID = &v
		}
		info, err := leaderboardService.GetUserRank(c.UserContext(), userID(c), leagueID)
		if err != nil {
			return fail(c, err)
		}
		if info == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no leaderboard entry for user"})
		}
		return c.JSON(info)
	})

	admin := secured.Group("/", middleware.RequireRole("admin"))

	admin.Post("/refresh", func(c *fiber.Ctx) error {
		if err := leaderboardService.RefreshLeaderboards(c.UserContext()); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"status": "refreshed"})
	})

	admin.Post("/archive/:season", func(c *fiber.Ctx) error {
		url, err := archiveService.ArchiveSeasonStandings(c.UserContext(), c.Params("season"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"url": url})
	})
}
