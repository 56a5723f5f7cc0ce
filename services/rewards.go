package services

import "fmt"

// StreakMilestone pairs a streak length with its bonus XP.
type StreakMilestone struct {
	Days    int `json:"days"`
	BonusXP int `json:"bonus_xp"`
}

// RewardTable holds the fixed XP values granted per trigger. Loaded from
// configuration at startup, immutable afterwards.
type RewardTable struct {
	CheckinXP  int               `json:"checkin_xp"`
	RegisterXP int               `json:"register_xp"`
	RemoveXP   int               `json:"remove_xp"`
	DrawXP     int               `json:"draw_xp"`
	Milestones []StreakMilestone `json:"streak_milestones"`

	// Hidden shift-badge thresholds, checked against the night/early tracks.
	NightBadges map[int]string `json:"-"`
	EarlyBadges map[int]string `json:"-"`
}

// NewRewardTable validates the reward values.
func NewRewardTable(t RewardTable) (RewardTable, error) {
	if t.CheckinXP <= 0 || t.RegisterXP <= 0 || t.RemoveXP <= 0 || t.DrawXP <= 0 {
		return RewardTable{}, fmt.Errorf("XP rewards must be positive")
	}
	seen := map[int]bool{}
	for _, m := range t.Milestones {
		if m.Days <= 0 || m.BonusXP <= 0 {
			return RewardTable{}, fmt.Errorf("invalid streak milestone %d days / %d XP", m.Days, m.BonusXP)
		}
		if seen[m.Days] {
			return RewardTable{}, fmt.Errorf("duplicate streak milestone at %d days", m.Days)
		}
		seen[m.Days] = true
	}
	return t, nil
}

// DefaultRewardTable returns the built-in XP reward values.
func DefaultRewardTable() RewardTable {
	return RewardTable{
		CheckinXP:  10,
		RegisterXP: 5,
		RemoveXP:   3,
		DrawXP:     5,
		Milestones: []StreakMilestone{
			{Days: 7, BonusXP: 50},
			{Days: 14, BonusXP: 100},
			{Days: 30, BonusXP: 300},
		},
		NightBadges: map[int]string{7: "night_7", 30: "night_30"},
		EarlyBadges: map[int]string{7: "early_7"},
	}
}

// MilestoneBonus returns the bonus for exactly reaching the given streak
// length, or 0 when the length is not a milestone.
func (t RewardTable) MilestoneBonus(days int) int {
	for _, m := range t.Milestones {
		if m.Days == days {
			return m.BonusXP
		}
	}
	return 0
}
