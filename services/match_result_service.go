package services

import (
	"errors"
	"fmt"

	"deck-stats-system/middleware"
	"deck-stats-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MatchResultService struct {
	DB *gorm.DB
}

func NewMatchResultService(db *gorm.DB) *MatchResultService {
	return &MatchResultService{DB: db}
}

type matchResultInput struct {
	EnvironmentID int `json:"environment_id"`
	MatchTypeID   int `json:"match_type_id"`
	FirstDeckID   int `json:"first_deck_id"`
	SecondDeckID  int `json:"second_deck_id"`
	WinningDeckID int `json:"winning_deck_id"`
	LosingDeckID  int `json:"losing_deck_id"`
}

type batchMatchResultInput struct {
	IgnoreFirstPlayer bool               `json:"ignore_first_player"`
	MatchResults      []matchResultInput `json:"match_results"`
}

// validateRecord checks winner/loser consistency for one record. Hand order
// columns are checked only when the record carries them.
func validateRecord(in matchResultInput) error {
	if in.WinningDeckID == in.LosingDeckID {
		return fmt.Errorf("winning and losing deck must differ")
	}
	if in.FirstDeckID != models.HandUnknown || in.SecondDeckID != models.HandUnknown {
		if in.FirstDeckID == in.SecondDeckID {
			return fmt.Errorf("first and second deck must differ")
		}
		pair := map[int]bool{in.FirstDeckID: true, in.SecondDeckID: true}
		if !pair[in.WinningDeckID] {
			return fmt.Errorf("winning deck must be the first or second deck")
		}
		if !pair[in.LosingDeckID] {
			return fmt.Errorf("losing deck must be the first or second deck")
		}
	}
	return nil
}

// checkScope verifies the environment, match type, and decks referenced by a
// record exist, and that the caller may write into the match type.
func (s *MatchResultService) checkScope(c *fiber.Ctx, tx *gorm.DB, in matchResultInput) error {
	if err := tx.First(&models.Environment{}, "id = ?", in.EnvironmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("environment does not exist")
		}
		return err
	}

	var mt models.MatchType
	if err := tx.First(&mt, "id = ?", in.MatchTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("match type does not exist")
		}
		return err
	}
	if mt.IsPrivate && !middleware.IsModerator(c) {
		var count int64
		if err := tx.Model(&models.MatchTypeMember{}).
			Where("match_type_id = ? AND user_id = ?", mt.ID, middleware.UserID(c)).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("not a member of this match type")
		}
	}

	for _, deckID := range []int{in.WinningDeckID, in.LosingDeckID} {
		var count int64
		if err := tx.Model(&models.Deck{}).
			Where("id = ? AND environment_id = ?", deckID, in.EnvironmentID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("deck %d does not exist in this environment", deckID)
		}
	}
	return nil
}

// CreateMatchResult records a single observed match.
func (s *MatchResultService) CreateMatchResult(c *fiber.Ctx) error {
	var input matchResultInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := validateRecord(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var created models.MatchResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.checkScope(c, tx, input); err != nil {
			return err
		}
		created = models.MatchResult{
			EnvironmentID: input.EnvironmentID,
			MatchTypeID:   input.MatchTypeID,
			FirstDeckID:   input.FirstDeckID,
			SecondDeckID:  input.SecondDeckID,
			WinningDeckID: input.WinningDeckID,
			LosingDeckID:  input.LosingDeckID,
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// CreateBatchMatchResults stores a batch atomically — every record succeeds
// or none do. With ignore_first_player set, each stored record carries the
// hand-unknown sentinel instead of the submitted hand order.
func (s *MatchResultService) CreateBatchMatchResults(c *fiber.Ctx) error {
	var input batchMatchResultInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if len(input.MatchResults) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "match_results must not be empty"})
	}

	records := make([]models.MatchResult, 0, len(input.MatchResults))
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for i, in := range input.MatchResults {
			if input.IgnoreFirstPlayer {
				in.FirstDeckID = models.HandUnknown
				in.SecondDeckID = models.HandUnknown
			}
			if err := validateRecord(in); err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
			if err := s.checkScope(c, tx, in); err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
			records = append(records, models.MatchResult{
				EnvironmentID: in.EnvironmentID,
				MatchTypeID:   in.MatchTypeID,
				FirstDeckID:   in.FirstDeckID,
				SecondDeckID:  in.SecondDeckID,
				WinningDeckID: in.WinningDeckID,
				LosingDeckID:  in.LosingDeckID,
			})
		}
		return tx.Create(&records).Error
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(records)
}

// GetAllMatchResults lists raw records with optional field filters.
func (s *MatchResultService) GetAllMatchResults(c *fiber.Ctx) error {
	query := s.DB.Model(&models.MatchResult{})

	filters := map[string]string{
		"environment_id":  "environment_id",
		"match_type_id":   "match_type_id",
		"first_deck_id":   "first_deck_id",
		"second_deck_id":  "second_deck_id",
		"winning_deck_id": "winning_deck_id",
		"losing_deck_id":  "losing_deck_id",
	}
	for param, column := range filters {
		if v := c.QueryInt(param, 0); v > 0 {
			query = query.Where(column+" = ?", v)
		}
	}

	var results []models.MatchResult
	if err := query.Order("id asc").Find(&results).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch match results"})
	}
	return c.JSON(results)
}

func (s *MatchResultService) GetMatchResultByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid match result id"})
	}

	var result models.MatchResult
	if err := s.DB.First(&result, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "match result not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(result)
}

// DeleteMatchResult removes one record. Moderator+; records are otherwise
// append-only.
func (s *MatchResultService) DeleteMatchResult(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid match result id"})
	}

	res := s.DB.Delete(&models.MatchResult{}, "id = ?", id)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete match result"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "match result not found"})
	}
	return c.JSON(fiber.Map{"message": "match result deleted"})
}
