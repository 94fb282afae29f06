package services

import (
	"errors"
	"math"

	"deck-stats-system/middleware"
	"deck-stats-system/models"
	"deck-stats-system/stats"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type StatisticsService struct {
	DB *gorm.DB
}

func NewStatisticsService(db *gorm.DB) *StatisticsService {
	return &StatisticsService{DB: db}
}

// DeckStatistics is the raw per-deck line of the statistics table.
// Zero-sample decks are listed with rate 0 and rendered as "-" client-side.
type DeckStatistics struct {
	DeckID       int     `json:"deck_id"`
	DeckName     string  `json:"deck_name"`
	TotalMatches int     `json:"total_matches"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      float64 `json:"win_rate"`
}

// MatchupCell pairs the observed matchup numbers with the resolved prior for
// the same ordered pair; the dashboard shows both in one cell.
type MatchupCell struct {
	OpponentName string `json:"opponent_name"`
	stats.MatchupStats
	PriorMatches int `json:"prior_matches"`
	PriorWins    int `json:"prior_wins"`
}

// DeckMatchups is one row of the matchup grid.
type DeckMatchups struct {
	DeckName string              `json:"deck_name"`
	Matchups map[int]MatchupCell `json:"matchups"`
}

// checkMatchTypeAccess validates an optional match type filter: existence,
// permission gating, and private membership. When access is denied it writes
// the response itself and reports ok=false; the returned error is the write
// result to hand back to fiber.
func checkMatchTypeAccess(c *fiber.Ctx, db *gorm.DB, matchTypeID int) (bool, error) {
	var mt models.MatchType
	if err := db.First(&mt, "id = ?", matchTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "match type not found"})
		}
		return false, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if middleware.IsModerator(c) {
		return true, nil
	}
	if mt.RequirePermission {
		return false, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "no access to this match type"})
	}
	if mt.IsPrivate {
		var count int64
		if err := db.Model(&models.MatchTypeMember{}).
			Where("match_type_id = ? AND user_id = ?", mt.ID, middleware.UserID(c)).
			Count(&count).Error; err != nil {
			return false, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		if count == 0 {
			return false, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "no access to this match type"})
		}
	}
	return true, nil
}

// fetchScope loads the environment, its deck roster, and the scoped match
// records in one place so every aggregation runs against a consistent
// snapshot rather than interleaved reads.
func fetchScope(db *gorm.DB, environmentID, matchTypeID int) (models.Environment, []models.Deck, []models.MatchResult, error) {
	var env models.Environment
	if err := db.First(&env, "id = ?", environmentID).Error; err != nil {
		return env, nil, nil, err
	}

	var decks []models.Deck
	if err := db.Where("environment_id = ?", environmentID).Order("id asc").Find(&decks).Error; err != nil {
		return env, nil, nil, err
	}

	query := db.Where("environment_id = ?", environmentID)
	if matchTypeID > 0 {
		query = query.Where("match_type_id = ?", matchTypeID)
	}
	var records []models.MatchResult
	if err := query.Find(&records).Error; err != nil {
		return env, nil, nil, err
	}
	return env, decks, records, nil
}

// GetStatistics returns the per-deck win/loss table for one environment,
// optionally narrowed to a match type.
func (s *StatisticsService) GetStatistics(c *fiber.Ctx) error {
	environmentID := c.QueryInt("environment_id", 0)
	if environmentID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "environment_id is required"})
	}
	matchTypeID := c.QueryInt("match_type_id", 0)
	if matchTypeID > 0 {
		if ok, resp := checkMatchTypeAccess(c, s.DB, matchTypeID); !ok {
			return resp
		}
	}

	env, decks, records, err := fetchScope(s.DB, environmentID, matchTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "environment not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch statistics data"})
	}

	deckIDs := make([]int, len(decks))
	for i, d := range decks {
		deckIDs[i] = d.ID
	}
	tallies := stats.TallyDecks(records, deckIDs)

	deckStats := make([]DeckStatistics, 0, len(decks))
	for _, d := range decks {
		t := tallies[d.ID]
		deckStats = append(deckStats, DeckStatistics{
			DeckID:       d.ID,
			DeckName:     d.Name,
			TotalMatches: t.Total,
			Wins:         t.Wins,
			Losses:       t.Losses,
			WinRate:      roundRate(t.WinRate()),
		})
	}

	return c.JSON(fiber.Map{
		"environment_id":   env.ID,
		"environment_name": env.Name,
		"deck_statistics":  deckStats,
	})
}

// GetDeckMatchups returns the pairwise matchup grid for one environment,
// each cell carrying observed counts plus the resolved prior for that pair.
func (s *StatisticsService) GetDeckMatchups(c *fiber.Ctx) error {
	environmentID := c.QueryInt("environment_id", 0)
	if environmentID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "environment_id is required"})
	}

	hand := stats.HandFilter(c.Query("hand", string(stats.HandAll)))
	if !hand.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "hand must be one of all, both, first, second"})
	}

	matchTypeID := c.QueryInt("match_type_id", 0)
	if matchTypeID > 0 {
		if ok, resp := checkMatchTypeAccess(c, s.DB, matchTypeID); !ok {
			return resp
		}
	}

	env, decks, records, err := fetchScope(s.DB, environmentID, matchTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "environment not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch matchup data"})
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

	grid := stats.MatchupGrid(records, deckIDs, hand)

	matchupStats := make(map[int]DeckMatchups, len(decks))
	for _, d := range decks {
		row := DeckMatchups{DeckName: d.Name, Matchups: make(map[int]MatchupCell)}
		for opp, cell := range grid[d.ID] {
			prior := priors.Resolve(d.ID, opp)
			row.Matchups[opp] = MatchupCell{
				OpponentName: names[opp],
				MatchupStats: withRoundedRate(cell),
				PriorMatches: prior.Matches,
				PriorWins:    prior.Wins,
			}
		}
		// Prior-only cells: pairs with no observed matches still get an
		// entry so curators can see their priors on the grid.
		for _, opp := range deckIDs {
			if opp == d.ID {
				continue
			}
			if _, ok := row.Matchups[opp]; ok {
				continue
			}
			if prior := priors.Resolve(d.ID, opp); !prior.IsZero() {
				row.Matchups[opp] = MatchupCell{
					OpponentName: names[opp],
					PriorMatches: prior.Matches,
					PriorWins:    prior.Wins,
				}
			}
		}
		matchupStats[d.ID] = row
	}

	return c.JSON(fiber.Map{
		"environment_id":     env.ID,
		"environment_name":   env.Name,
		"hand":               hand,
		"matchup_statistics": matchupStats,
	})
}

func withRoundedRate(s stats.MatchupStats) stats.MatchupStats {
	s.WinRate = roundRate(s.WinRate)
	return s
}

func roundRate(r float64) float64 {
	return math.Round(r*100) / 100
}
