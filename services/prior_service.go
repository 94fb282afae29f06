package services

import (
	"deck-stats-system/models"
	"deck-stats-system/stats"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PriorService struct {
	DB *gorm.DB
}

func NewPriorService(db *gorm.DB) *PriorService {
	return &PriorService{DB: db}
}

type priorInput struct {
	DeckAID      int `json:"deck_a_id"`
	DeckBID      int `json:"deck_b_id"`
	PriorMatches int `json:"prior_matches"`
	PriorWins    int `json:"prior_wins"`
}

// GetMatchupPriors returns every stored prior keyed by its directional
// "{deck_a_id}_{deck_b_id}" key, the shape the matchup grid consumes.
func (s *PriorService) GetMatchupPriors(c *fiber.Ctx) error {
	var rows []models.DeckMatchupPrior
	if err := s.DB.Find(&rows).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch matchup priors"})
	}

	priors := make(map[string]models.DeckMatchupPrior, len(rows))
	for _, r := range rows {
		priors[stats.PairKey(r.DeckAID, r.DeckBID)] = r
	}
	return c.JSON(fiber.Map{"matchup_priors": priors})
}

// UpsertMatchupPrior writes a prior under the submitted direction. The same
// transaction removes any reverse-direction row, so at most one record per
// unordered pair survives. Concurrent writers to the same pair are
// last-write-wins.
func (s *PriorService) UpsertMatchupPrior(c *fiber.Ctx) error {
	var input priorInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	// Same validation the engine's prior book applies.
	probe := stats.NewPriorBook()
	if err := probe.Set(input.DeckAID, input.DeckBID, input.PriorMatches, input.PriorWins); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	for _, deckID := range []int{input.DeckAID, input.DeckBID} {
		var count int64
		if err := s.DB.Model(&models.Deck{}).Where("id = ?", deckID).Count(&count).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		if count == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "deck does not exist"})
		}
	}

	row := models.DeckMatchupPrior{
		DeckAID:      input.DeckAID,
		DeckBID:      input.DeckBID,
		PriorMatches: input.PriorMatches,
		PriorWins:    input.PriorWins,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("deck_a_id = ? AND deck_b_id = ?", input.DeckBID, input.DeckAID).
			Delete(&models.DeckMatchupPrior{}).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "deck_a_id"}, {Name: "deck_b_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"prior_matches", "prior_wins", "updated_at"}),
		}).Create(&row).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store matchup prior"})
	}
	return c.JSON(fiber.Map{"message": "matchup prior stored", "prior": row})
}

// loadPriorBook snapshots the stored priors for a ranking or grid query.
func loadPriorBook(db *gorm.DB) (*stats.PriorBook, error) {
	var rows []models.DeckMatchupPrior
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	return stats.NewPriorBookFromRecords(rows), nil
}
