package services

import (
	"errors"

	"deck-stats-system/middleware"
	"deck-stats-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DeckService struct {
	DB *gorm.DB
}

func NewDeckService(db *gorm.DB) *DeckService {
	return &DeckService{DB: db}
}

type deckInput struct {
	Name          string  `json:"name"`
	EnvironmentID int     `json:"environment_id"`
	DeckCode      *string `json:"deck_code,omitempty"`
	Description   string  `json:"description"`
}

// CreateDeck registers a deck in an environment. Moderator+. The author
// label is taken from the authenticated caller, matching the convention that
// the curator who entered the deck is credited as its author.
func (s *DeckService) CreateDeck(c *fiber.Ctx) error {
	var input deckInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	if err := s.DB.First(&models.Environment{}, "id = ?", input.EnvironmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "environment does not exist"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	deck := models.Deck{
		Name:          input.Name,
		EnvironmentID: input.EnvironmentID,
		AuthorID:      middleware.UserID(c),
		DeckCode:      input.DeckCode,
		Description:   input.Description,
	}
	if err := s.DB.Create(&deck).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create deck"})
	}
	return c.Status(fiber.StatusCreated).JSON(deck)
}

// GetAllDecks lists decks, optionally filtered by environment, author, or a
// name substring.
func (s *DeckService) GetAllDecks(c *fiber.Ctx) error {
	query := s.DB.Model(&models.Deck{})

	if envID := c.QueryInt("environment_id", 0); envID > 0 {
		query = query.Where("environment_id = ?", envID)
	}
	if author := c.Query("author_id"); author != "" {
		query = query.Where("author_id = ?", author)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var decks []models.Deck
	if err := query.Order("id asc").Find(&decks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch decks"})
	}
	return c.JSON(decks)
}

func (s *DeckService) GetDeckByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid deck id"})
	}

	var deck models.Deck
	if err := s.DB.First(&deck, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "deck not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(deck)
}

func (s *DeckService) UpdateDeck(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid deck id"})
	}

	var input deckInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	var deck models.Deck
	if err := s.DB.First(&deck, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "deck not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if err := s.DB.First(&models.Environment{}, "id = ?", input.EnvironmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "environment does not exist"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	deck.Name = input.Name
	deck.EnvironmentID = input.EnvironmentID
	deck.DeckCode = input.DeckCode
	deck.Description = input.Description
	if err := s.DB.Save(&deck).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update deck"})
	}
	return c.JSON(deck)
}

// DeleteDeck removes a deck and every match result it appears in. Admin
// only — this destroys observed history, so it is the most privileged write
// in the system.
func (s *DeckService) DeleteDeck(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid deck id"})
	}

	var deck models.Deck
	if err := s.DB.First(&deck, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "deck not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("winning_deck_id = ? OR losing_deck_id = ?", id, id).
			Delete(&models.MatchResult{}).Error; err != nil {
			return err
		}
		if err := tx.Where("deck_a_id = ? OR deck_b_id = ?", id, id).
			Delete(&models.DeckMatchupPrior{}).Error; err != nil {
			return err
		}
		return tx.Delete(&deck).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete deck"})
	}
	return c.JSON(fiber.Map{"message": "deck and related match records deleted"})
}
