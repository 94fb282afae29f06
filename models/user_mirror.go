package models

import "time"

// MirroredUser is a read-only local copy of the auth service roster, kept
// fresh by the user sync worker. Used for display names on deck authors and
// private match-type member lists; never written by request handlers.
type MirroredUser struct {
	UserID    string    `json:"user_id" gorm:"primaryKey"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role" gorm:"default:'player'"`
	UpdatedAt time.Time `json:"updated_at"`
}
