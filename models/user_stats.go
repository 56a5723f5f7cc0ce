package models

import (
	"time"

	"gorm.io/gorm"
)

// UserStats holds the progression record for one user. UserID is an opaque
// key supplied by the chat platform or the web API; rows are created on the
// first trigger for a user and never deleted.
type UserStats struct {
	UserID             string     `gorm:"primaryKey;size:64" json:"user_id"`
	DisplayName        string     `gorm:"size:64" json:"display_name"`
	TotalXP            int        `gorm:"default:0" json:"total_xp"`
	Level              int        `gorm:"default:1" json:"level"`
	StreakDays         int        `gorm:"default:0" json:"streak_days"`
	LastCheckinDate    *time.Time `json:"last_checkin_date"`
	NightStreak        int        `gorm:"default:0" json:"night_streak"`
	EarlyStreak        int        `gorm:"default:0" json:"early_streak"`
	LuckyValue         int        `gorm:"default:0" json:"lucky_value"`
	TotalDraws         int        `gorm:"default:0" json:"total_draws"`
	TotalRegistrations int        `gorm:"default:0" json:"total_registrations"`
	TotalRemovals      int        `gorm:"default:0" json:"total_removals"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *UserStats) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *UserStats) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
