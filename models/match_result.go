package models

import "time"

// HandUnknown is the sentinel stored in FirstDeckID/SecondDeckID when the
// submitter chose to ignore hand order. Such records count toward overall
// win/loss totals but never toward first/second-hand breakdowns.
const HandUnknown = 0

// MatchResult is a single observed game between two decks. Append-only:
// records are never updated, only individually deleted by moderators.
type MatchResult struct {
	ID            int `json:"id" gorm:"primaryKey;autoIncrement"`
	EnvironmentID int `json:"environment_id" gorm:"index;not null"`
	MatchTypeID   int `json:"match_type_id" gorm:"index;not null"`

	// FirstDeckID/SecondDeckID carry hand order; both are HandUnknown when
	// the batch was submitted with ignore_first_player.
	FirstDeckID  int `json:"first_deck_id"`
	SecondDeckID int `json:"second_deck_id"`

	// WinningDeckID/LosingDeckID are the authoritative pair identity.
	WinningDeckID int `json:"winning_deck_id" gorm:"index;not null"`
	LosingDeckID  int `json:"losing_deck_id" gorm:"index;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
