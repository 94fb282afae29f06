// services/scheduler.go
package services

import (
	"log"
	"os"
	"strconv"
	"time"

	"deck-stats-system/models"
	"deck-stats-system/stats"

	"github.com/go-co-op/gocron/v2"
)

// snapshotSensitivity is the fixed dial used for the stored history so the
// trend charts are comparable across snapshots.
const snapshotSensitivity = 30.0

// StartSnapshotScheduler periodically persists the ranked table of every
// environment, building the history behind the trend charts.
func (s *WinRateService) StartSnapshotScheduler() {
	interval := 60
	if raw := os.Getenv("SNAPSHOT_INTERVAL_MINUTES"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			log.Printf("[Scheduler] Invalid SNAPSHOT_INTERVAL_MINUTES %q, using 60", raw)
		} else {
			interval = parsed
		}
	}

	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(time.Duration(interval)*time.Minute),
		gocron.NewTask(func() {
			if err := s.snapshotAllEnvironments(); err != nil {
				log.Printf("[Scheduler] Snapshot run failed: %v", err)
			}
		}),
	)

	log.Printf("✅ Win-rate snapshot scheduler running (every %dm)", interval)
}

func (s *WinRateService) snapshotAllEnvironments() error {
	var envs []models.Environment
	if err := s.DB.Find(&envs).Error; err != nil {
		return err
	}

	priors, err := loadPriorBook(s.DB)
	if err != nil {
		return err
	}

	ranker, err := stats.NewRanker(snapshotSensitivity, 1.0)
	if err != nil {
		return err
	}

	for _, env := range envs {
		var decks []models.Deck
		if err := s.DB.Where("environment_id = ?", env.ID).Find(&decks).Error; err != nil {
			log.Printf("[Scheduler] Failed to load decks for environment %d: %v", env.ID, err)
			continue
		}
		if len(decks) == 0 {
			continue
		}

		var records []models.MatchResult
		if err := s.DB.Where("environment_id = ?", env.ID).Find(&records).Error; err != nil {
			log.Printf("[Scheduler] Failed to load match results for environment %d: %v", env.ID, err)
			continue
		}
		if len(records) == 0 {
			continue
		}

		deckIDs := make([]int, len(decks))
		for i, d := range decks {
			deckIDs[i] = d.ID
		}

		table, err := ranker.Rank(deckIDs, records, priors, nil)
		if err != nil {
			log.Printf("[Scheduler] Ranking failed for environment %d: %v", env.ID, err)
			continue
		}

		snapshots := make([]models.WinRateSnapshot, 0, len(table))
		for _, calc := range table {
			snapshots = append(snapshots, models.WinRateSnapshot{
				EnvironmentID:   env.ID,
				DeckID:          calc.DeckID,
				Sensitivity:     snapshotSensitivity,
				AverageWinRate:  calc.AverageWinRate,
				WeightedWinRate: calc.WeightedWinRate,
			})
		}
		if len(snapshots) == 0 {
			continue
		}
		if err := s.DB.Create(&snapshots).Error; err != nil {
			log.Printf("[Scheduler] Failed to store snapshots for environment %d: %v", env.ID, err)
		} else {
			log.Printf("📸 Stored %d win-rate snapshots for environment %q", len(snapshots), env.Name)
		}
	}
	return nil
}
