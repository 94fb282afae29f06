package handlers

import (
	"deck-stats-system/middleware"
	"deck-stats-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupMatchResultRoutes registers the raw match record endpoints.
func SetupMatchResultRoutes(app *fiber.App, matchResultService *services.MatchResultService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/match-results", matchResultService.GetAllMatchResults)
	secured.Get("/match-results/:id", matchResultService.GetMatchResultByID)
	secured.Post("/match-results", matchResultService.CreateMatchResult)
	secured.Post("/match-results/batch", matchResultService.CreateBatchMatchResults)
	secured.Delete("/match-results/:id", middleware.RequireModerator(), matchResultService.DeleteMatchResult)
}
