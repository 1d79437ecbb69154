// handlers/prediction.go
package handlers

import (
	"match-prediction-system/middleware"
	"match-prediction-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupPredictionRoutes registers prediction submission, history reads and
// the admin settlement trigger.
func SetupPredictionRoutes(app *fiber.App, predictionService *services.PredictionService) {
	predictions := app.Group("/predictions")

	secured := predictions.Group("/", middleware.UserContextMiddleware())

	secured.Post("/", func(c *fiber.Ctx) error {
		var input services.CreatePredictionInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		prediction, err := predictionService.CreatePrediction(c.UserContext(), userID(c), input)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(prediction)
	})

	secured.Get("/mine", func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		page, err := predictionService.GetUserPredictions(c.UserContext(), userID(c), limit, offset)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(page)
	})

	predictions.Get("/match/:matchId", func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		page, err := predictionService.GetMatchPredictions(c.UserContext(), c.Params("matchId"), limit, offset)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(page)
	})

	// Manual settlement trigger; FinalizeResult normally drives this. Safe to
	// re-run: an already-settled match processes zero predictions.
	secured.Post("/calculate/:matchId", middleware.RequireRole("admin"), func(c *fiber.Ctx) error {
		processed, err := predictionService.CalculatePoints(c.UserContext(), c.Params("matchId"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"predictions_processed": processed})
	})
}
