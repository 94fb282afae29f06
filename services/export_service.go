package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"deck-stats-system/stats"
	"deck-stats-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExportService struct {
	DB *gorm.DB
}

func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{DB: db}
}

type exportRequest struct {
	EnvironmentID int     `json:"environment_id"`
	MatchTypeID   int     `json:"match_type_id"`
	Sensitivity   float64 `json:"sensitivity"`
}

// ExportWinRates renders the ranked table of one environment to CSV and
// uploads it to R2. Admin only. Returns the public URL of the export.
func (s *ExportService) ExportWinRates(c *fiber.Ctx) error {
	var req exportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.EnvironmentID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "environment_id is required"})
	}
	if req.Sensitivity == 0 {
		req.Sensitivity = 30.0
	}

	ranker, err := stats.NewRanker(req.Sensitivity, 1.0)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	env, decks, records, err := fetchScope(s.DB, req.EnvironmentID, req.MatchTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "environment not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch export data"})
	}

	priors, err := loadPriorBook(s.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch matchup priors"})
	}

	deckIDs := make([]int, len(decks))
	names := make(map[int]string, len(decks))
	for i, d := range decks {
		deckIDs[i] = d.ID
		names[d.ID] = d.Name
	}

	table, err := ranker.Rank(deckIDs, records, priors, nil)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"rank", "deck_id", "deck_name", "observed_matches", "average_win_rate", "weighted_win_rate"})
	for i, calc := range table {
		_ = w.Write([]string{
			strconv.Itoa(i + 1),
			strconv.Itoa(calc.DeckID),
			names[calc.DeckID],
			strconv.Itoa(calc.ObservedMatches),
			strconv.FormatFloat(calc.AverageWinRate, 'f', 4, 64),
			strconv.FormatFloat(calc.WeightedWinRate, 'f', 4, 64),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to render CSV"})
	}

	key := fmt.Sprintf("exports/win-rates-%d-%s.csv", env.ID, uuid.NewString())
	url, err := utils.UploadBytesToR2(buf.Bytes(), key, "text/csv")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload export"})
	}

	return c.JSON(fiber.Map{
		"environment_id": env.ID,
		"rows":           len(table),
		"url":            url,
	})
}
