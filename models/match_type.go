package models

import "time"

// MatchType is a competitive context (ladder, tournament bracket, testing
// group). RequirePermission hides the type from plain players entirely;
// IsPrivate additionally restricts it to the invited member list.
type MatchType struct {
	ID                int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name              string `json:"name" gorm:"uniqueIndex;not null"`
	RequirePermission bool   `json:"require_permission" gorm:"default:false"`
	IsPrivate         bool   `json:"is_private" gorm:"default:false"`
	InviteCode        string `json:"invite_code,omitempty"`

	Members []MatchTypeMember `json:"members,omitempty" gorm:"foreignKey:MatchTypeID"`

	Timestamps
}

// MatchTypeMember records membership of a private match type.
type MatchTypeMember struct {
	MatchTypeID int       `json:"match_type_id" gorm:"primaryKey;autoIncrement:false"`
	UserID      string    `json:"user_id" gorm:"primaryKey"`
	JoinedAt    time.Time `json:"joined_at" gorm:"autoCreateTime"`
}
