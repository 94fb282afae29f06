package models

// Deck belongs to exactly one environment. AuthorID is a free-text label
// (usually the creator's email), not a foreign key into the auth service.
type Deck struct {
	ID            int     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name          string  `json:"name" gorm:"not null"`
	EnvironmentID int     `json:"environment_id" gorm:"index;not null"`
	AuthorID      string  `json:"author_id"`
	DeckCode      *string `json:"deck_code,omitempty"`
	Description   string  `json:"description"`

	Timestamps
}
