package models

import "time"

// UserBadge associates a user with an earned badge. The composite unique
// index is what makes concurrent award attempts collapse into a single row.
type UserBadge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"uniqueIndex:idx_user_badges_user_code;size:64;not null" json:"user_id"`
	BadgeCode string    `gorm:"uniqueIndex:idx_user_badges_user_code;size:64;not null" json:"badge_code"`
	EarnedAt  time.Time `json:"earned_at"`
}
