package services

import "testing"

func TestNewBadgeCatalogValidation(t *testing.T) {
	tests := []struct {
		name string
		defs []BadgeDef
	}{
		{"empty code", []BadgeDef{
			{Code: "", Name: "x", Condition: ConditionRegister, Threshold: 1},
		}},
		{"duplicate code", []BadgeDef{
			{Code: "dup", Name: "a", Condition: ConditionRegister, Threshold: 1},
			{Code: "dup", Name: "b", Condition: ConditionRemove, Threshold: 1},
		}},
		{"zero threshold on counted badge", []BadgeDef{
			{Code: "x", Name: "x", Condition: ConditionStreak, Threshold: 0},
		}},
		{"negative reward", []BadgeDef{
			{Code: "x", Name: "x", Condition: ConditionLevel, Threshold: 1, XPReward: -5},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewBadgeCatalog(tt.defs); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestMatching(t *testing.T) {
	catalog := DefaultBadgeCatalog()

	got := catalog.Matching(ConditionRegister, 50)
	codes := map[string]bool{}
	for _, d := range got {
		codes[d.Code] = true
	}
	if !codes["register_10"] || !codes["register_50"] {
		t.Errorf("Matching(register, 50) = %v, want register_10 and register_50", codes)
	}
	if codes["register_100"] {
		t.Error("register_100 must not match at 50")
	}

	if len(catalog.Matching(ConditionSpecial, 100)) != 0 {
		t.Error("special badges must never threshold-match")
	}
}

func TestByCode(t *testing.T) {
	catalog := DefaultBadgeCatalog()
	def, ok := catalog.ByCode("night_7")
	if !ok {
		t.Fatal("night_7 missing from default catalog")
	}
	if !def.Hidden {
		t.Error("night_7 must be hidden")
	}
	if _, ok := catalog.ByCode("nope"); ok {
		t.Error("unknown code must return false")
	}
}

func TestMilestoneBonusExactMatchOnly(t *testing.T) {
	rewards := DefaultRewardTable()

	tests := []struct {
		days int
		want int
	}{
		{6, 0},
		{7, 50},
		{8, 0},
		{14, 100},
		{30, 300},
		{31, 0},
	}
	for _, tt := range tests {
		if got := rewards.MilestoneBonus(tt.days); got != tt.want {
			t.Errorf("MilestoneBonus(%d) = %d, want %d", tt.days, got, tt.want)
		}
	}
}

func TestNewRewardTableValidation(t *testing.T) {
	bad := DefaultRewardTable()
	bad.CheckinXP = 0
	if _, err := NewRewardTable(bad); err == nil {
		t.Error("zero checkin XP must fail validation")
	}

	dup := DefaultRewardTable()
	dup.Milestones = append(dup.Milestones, StreakMilestone{Days: 7, BonusXP: 10})
	if _, err := NewRewardTable(dup); err == nil {
		t.Error("duplicate milestone must fail validation")
	}
}
