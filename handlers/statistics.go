package handlers

import (
	"deck-stats-system/middleware"
	"deck-stats-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupStatisticsRoutes registers the aggregation surface: raw statistics,
// the matchup grid, the ranked win-rate table, priors, and exports.
func SetupStatisticsRoutes(
	app *fiber.App,
	statisticsService *services.StatisticsService,
	winRateService *services.WinRateService,
	priorService *services.PriorService,
	exportService *services.ExportService,
) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/statistics", statisticsService.GetStatistics)
	secured.Get("/statistics/deck-matchups", statisticsService.GetDeckMatchups)

	secured.Post("/win-rates/calculate", winRateService.CalculateWinRates)
	secured.Get("/win-rates/presets", winRateService.GetPhasePresets)
	secured.Get("/win-rates/snapshots", winRateService.GetSnapshots)

	// Priors are curator-entered assumptions
	secured.Get("/matchup-priors", middleware.RequireModerator(), priorService.GetMatchupPriors)
	secured.Post("/matchup-priors", middleware.RequireModerator(), priorService.UpsertMatchupPrior)

	// 🔒 Admin-only routes
	admin := secured.Group("/admin", middleware.RequireAdmin())
	admin.Post("/statistics/export", exportService.ExportWinRates)
}
