package services

import (
	"errors"

	"deck-stats-system/middleware"
	"deck-stats-system/models"
	"deck-stats-system/stats"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type WinRateService struct {
	DB      *gorm.DB
	Presets map[string]float64
}

func NewWinRateService(db *gorm.DB, presets map[string]float64) *WinRateService {
	return &WinRateService{DB: db, Presets: presets}
}

type winRateRequest struct {
	EnvironmentID      int             `json:"environment_id"`
	MatchTypeID        int             `json:"match_type_id"`
	Sensitivity        float64         `json:"sensitivity"`
	PriorWeight        *float64        `json:"prior_weight,omitempty"`
	EnvironmentOffsets map[int]float64 `json:"environment_offsets,omitempty"`
}

// CalculateWinRates runs the sensitivity ranker over the requested scope and
// returns the per-deck calculations with the sensitivity echoed back for UI
// confirmation. Setting prior_weight away from 1.0 is a curator capability.
func (s *WinRateService) CalculateWinRates(c *fiber.Ctx) error {
	var req winRateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	priorWeight := 1.0
	if req.PriorWeight != nil {
		priorWeight = *req.PriorWeight
	}
	if priorWeight != 1.0 && !middleware.IsModerator(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "adjusting prior_weight requires moderator role"})
	}

	ranker, err := stats.NewRanker(req.Sensitivity, priorWeight)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.MatchTypeID > 0 {
		if ok, resp := checkMatchTypeAccess(c, s.DB, req.MatchTypeID); !ok {
			return resp
		}
	}

	// Fetch the full snapshot before computing: decks, records, priors.
	deckQuery := s.DB.Model(&models.Deck{})
	recordQuery := s.DB.Model(&models.MatchResult{})
	if req.EnvironmentID > 0 {
		if err := s.DB.First(&models.Environment{}, "id = ?", req.EnvironmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "environment not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		deckQuery = deckQuery.Where("environment_id = ?", req.EnvironmentID)
		recordQuery = recordQuery.Where("environment_id = ?", req.EnvironmentID)
	}
	if req.MatchTypeID > 0 {
		recordQuery = recordQuery.Where("match_type_id = ?", req.MatchTypeID)
	}

	var decks []models.Deck
	if err := deckQuery.Order("id asc").Find(&decks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch decks"})
	}
	var records []models.MatchResult
	if err := recordQuery.Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch match results"})
	}
	priors, err := loadPriorBook(s.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch matchup priors"})
	}

	deckIDs := make([]int, len(decks))
	for i, d := range decks {
		deckIDs[i] = d.ID
	}

	table, err := ranker.Rank(deckIDs, records, priors, req.EnvironmentOffsets)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	calculations := make(map[int]stats.WinRateCalculation, len(table))
	for _, calc := range table {
		calculations[calc.DeckID] = calc
	}

	return c.JSON(fiber.Map{
		"calculations": calculations,
		"sensitivity":  req.Sensitivity,
	})
}

// GetPhasePresets exposes the evolution-phase sensitivity table so the UI
// selector and the ranking math can never drift apart.
func (s *WinRateService) GetPhasePresets(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"presets": s.Presets})
}

// GetSnapshots returns the stored ranking history for an environment,
// newest first.
func (s *WinRateService) GetSnapshots(c *fiber.Ctx) error {
	environmentID := c.QueryInt("environment_id", 0)
	if environmentID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "environment_id is required"})
	}

	limit := c.QueryInt("limit", 500)
	if limit <= 0 || limit > 5000 {
		limit = 500
	}

	var snapshots []models.WinRateSnapshot
	if err := s.DB.Where("environment_id = ?", environmentID).
		Order("created_at desc, deck_id asc").
		Limit(limit).
		Find(&snapshots).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch snapshots"})
	}
	return c.JSON(fiber.Map{
		"environment_id": environmentID,
		"snapshots":      snapshots,
	})
}
