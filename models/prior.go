package models

import "time"

// DeckMatchupPrior is a curator-entered assumed record for a deck pair:
// "treat this matchup as if DeckA had won PriorWins of PriorMatches games."
// At most one row exists per unordered pair; the write path removes any
// reverse-direction row when upserting.
type DeckMatchupPrior struct {
	DeckAID      int       `json:"deck_a_id" gorm:"primaryKey;autoIncrement:false"`
	DeckBID      int       `json:"deck_b_id" gorm:"primaryKey;autoIncrement:false"`
	PriorMatches int       `json:"prior_matches" gorm:"not null"`
	PriorWins    int       `json:"prior_wins" gorm:"not null"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
