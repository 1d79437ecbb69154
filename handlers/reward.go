// handlers/reward.go
package handlers

import (
	"match-prediction-system/middleware"
	"match-prediction-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupRewardRoutes registers reward history reads.
func SetupRewardRoutes(app *fiber.App, rewardService *services.RewardService, cacheMw fiber.Handler) {
	rewards := app.Group("/rewards")

	rewards.Get("/recent", cacheMw, func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		page, err := rewardService.GetRecentRewards(c.UserContext(), limit, offset)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(page)
	})

	rewards.Get("/match/:matchId", cacheMw, func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		page, err := rewardService.GetMatchRewards(c.UserContext(), c.Params("matchId"), limit, offset)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(page)
	})

	secured := rewards.Group("/", middleware.UserContextMiddleware())

	secured.Get("/mine", func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		page, err := rewardService.GetUserRewards(c.UserContext(), userID(c), limit, offset)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(page)
	})
}
