package services

import "fmt"

// BadgeCondition is the counter a badge threshold is checked against.
type BadgeCondition string

const (
	ConditionRegister BadgeCondition = "register"
	ConditionRemove   BadgeCondition = "remove"
	ConditionStreak   BadgeCondition = "streak"
	ConditionLevel    BadgeCondition = "level"
	// ConditionSpecial badges are never threshold-matched; they are awarded
	// directly by code (hidden night/early shift badges, manual grants).
	ConditionSpecial BadgeCondition = "special"
)

// BadgeDef is one entry of the static badge catalog.
type BadgeDef struct {
	Code      string         `json:"code"`
	Name      string         `json:"name"`
	Condition BadgeCondition `json:"condition_type"`
	Threshold int            `json:"condition_value"`
	XPReward  int            `json:"xp_reward"`
	Hidden    bool           `json:"hidden"`
}

// BadgeCatalog is the validated, immutable badge rule set.
type BadgeCatalog struct {
	defs   []BadgeDef
	byCode map[string]BadgeDef
}

// NewBadgeCatalog validates codes for uniqueness and thresholds for sanity.
func NewBadgeCatalog(defs []BadgeDef) (*BadgeCatalog, error) {
	byCode := make(map[string]BadgeDef, len(defs))
	for _, d := range defs {
		if d.Code == "" {
			return nil, fmt.Errorf("badge with empty code")
		}
		if _, dup := byCode[d.Code]; dup {
			return nil, fmt.Errorf("duplicate badge code %q", d.Code)
		}
		if d.Condition != ConditionSpecial && d.Threshold <= 0 {
			return nil, fmt.Errorf("badge %q has non-positive threshold %d", d.Code, d.Threshold)
		}
		if d.XPReward < 0 {
			return nil, fmt.Errorf("badge %q has negative XP reward", d.Code)
		}
		byCode[d.Code] = d
	}
	copied := make([]BadgeDef, len(defs))
	copy(copied, defs)
	return &BadgeCatalog{defs: copied, byCode: byCode}, nil
}

// DefaultBadgeCatalog returns the built-in badge set.
func DefaultBadgeCatalog() *BadgeCatalog {
	c, err := NewBadgeCatalog([]BadgeDef{
		{Code: "register_10", Name: "登録デビュー", Condition: ConditionRegister, Threshold: 10, XPReward: 30},
		{Code: "register_50", Name: "登録の達人", Condition: ConditionRegister, Threshold: 50, XPReward: 100},
		{Code: "register_100", Name: "登録マスター", Condition: ConditionRegister, Threshold: 100, XPReward: 300},
		{Code: "remove_10", Name: "在庫整理係", Condition: ConditionRemove, Threshold: 10, XPReward: 30},
		{Code: "remove_50", Name: "整理の鬼", Condition: ConditionRemove, Threshold: 50, XPReward: 100},
		{Code: "streak_7", Name: "7日連続出勤", Condition: ConditionStreak, Threshold: 7, XPReward: 50},
		{Code: "streak_14", Name: "2週間皆勤", Condition: ConditionStreak, Threshold: 14, XPReward: 100},
		{Code: "streak_30", Name: "1ヶ月皆勤", Condition: ConditionStreak, Threshold: 30, XPReward: 300},
		{Code: "level_5", Name: "主任昇格", Condition: ConditionLevel, Threshold: 5, XPReward: 100},
		{Code: "level_10", Name: "レジェンド", Condition: ConditionLevel, Threshold: 10, XPReward: 500},
		{Code: "night_7", Name: "夜型店員", Condition: ConditionSpecial, XPReward: 100, Hidden: true},
		{Code: "night_30", Name: "夜の主", Condition: ConditionSpecial, XPReward: 500, Hidden: true},
		{Code: "early_7", Name: "早起き店員", Condition: ConditionSpecial, XPReward: 100, Hidden: true},
	})
	if err != nil {
		panic(err) // built-in catalog is validated by tests
	}
	return c
}

// Matching returns every threshold badge of the given kind whose threshold
// the value has reached. Special badges never match here.
func (c *BadgeCatalog) Matching(kind BadgeCondition, value int) []BadgeDef {
	var out []BadgeDef
	for _, d := range c.defs {
		if d.Condition == kind && d.Condition != ConditionSpecial && d.Threshold <= value {
			out = append(out, d)
		}
	}
	return out
}

// ByCode looks up one badge definition.
func (c *BadgeCatalog) ByCode(code string) (BadgeDef, bool) {
	d, ok := c.byCode[code]
	return d, ok
}

// Defs returns a copy of the full catalog in declaration order.
func (c *BadgeCatalog) Defs() []BadgeDef {
	out := make([]BadgeDef, len(c.defs))
	copy(out, c.defs)
	return out
}
