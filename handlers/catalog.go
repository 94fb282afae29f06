package handlers

import (
	"deck-stats-system/middleware"
	"deck-stats-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupCatalogRoutes registers environment, deck, and match-type CRUD.
func SetupCatalogRoutes(
	app *fiber.App,
	environmentService *services.EnvironmentService,
	deckService *services.DeckService,
	matchTypeService *services.MatchTypeService,
) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	// Environments — any authenticated user may manage the scope list
	secured.Get("/environments", environmentService.GetAllEnvironments)
	secured.Get("/environments/:id", environmentService.GetEnvironmentByID)
	secured.Post("/environments", environmentService.CreateEnvironment)
	secured.Put("/environments/:id", environmentService.UpdateEnvironment)
	secured.Delete("/environments/:id", environmentService.DeleteEnvironment)

	// Decks — writes are curator territory, deletion destroys history
	secured.Get("/decks", deckService.GetAllDecks)
	secured.Get("/decks/:id", deckService.GetDeckByID)
	secured.Post("/decks", middleware.RequireModerator(), deckService.CreateDeck)
	secured.Put("/decks/:id", middleware.RequireModerator(), deckService.UpdateDeck)
	secured.Delete("/decks/:id", middleware.RequireAdmin(), deckService.DeleteDeck)

	// Match types — visibility filtering happens inside the service
	secured.Get("/match-types", matchTypeService.GetAllMatchTypes)
	secured.Get("/match-types/:id", matchTypeService.GetMatchTypeByID)
	secured.Post("/match-types", middleware.RequireModerator(), matchTypeService.CreateMatchType)
	secured.Put("/match-types/:id", middleware.RequireModerator(), matchTypeService.UpdateMatchType)
	secured.Delete("/match-types/:id", middleware.RequireModerator(), matchTypeService.DeleteMatchType)
	secured.Post("/match-types/:id/join", matchTypeService.JoinMatchType)
}
