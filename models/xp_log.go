package models

import "time"

// XP grant action types recorded in the ledger.
const (
	ActionCheckin  = "checkin"
	ActionRegister = "register"
	ActionRemove   = "remove"
	ActionStreak   = "streak"
	ActionBadge    = "badge"
	ActionDraw     = "draw"
)

// XPLogEntry is one append-only XP grant. Entries are never mutated; the
// leaderboard windows and the daily report are derived from them.
type XPLogEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"index;size:64;not null" json:"user_id"`
	Amount      int       `gorm:"not null" json:"amount"`
	ActionType  string    `gorm:"index;size:16;not null" json:"action_type"`
	Description string    `gorm:"size:255" json:"description"`
	TraceID     string    `gorm:"size:36" json:"trace_id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}
