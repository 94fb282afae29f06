package models

import "time"

// WinRateSnapshot is an append-only history row written by the snapshot
// scheduler so the dashboard can chart ranking drift over time.
type WinRateSnapshot struct {
	ID              int       `json:"id" gorm:"primaryKey;autoIncrement"`
	EnvironmentID   int       `json:"environment_id" gorm:"index;not null"`
	DeckID          int       `json:"deck_id" gorm:"index;not null"`
	Sensitivity     float64   `json:"sensitivity"`
	AverageWinRate  float64   `json:"average_win_rate"`
	WeightedWinRate float64   `json:"weighted_win_rate"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}
