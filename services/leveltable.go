package services

import (
	"fmt"
	"math"
)

// UnboundedXP marks the MaxXP of the final level.
const UnboundedXP = math.MaxInt

// LevelDef is one tier of the level table.
type LevelDef struct {
	Level int    `json:"level"`
	Name  string `json:"name"`
	MinXP int    `json:"min_xp"`
	MaxXP int    `json:"max_xp"`
}

// LevelTable is an ordered, contiguous sequence of XP thresholds. It is
// validated once at startup and immutable afterwards.
type LevelTable struct {
	defs []LevelDef
}

// NewLevelTable validates the given tiers: levels numbered from 1, first tier
// starting at 0 XP, ranges contiguous and non-overlapping.
func NewLevelTable(defs []LevelDef) (*LevelTable, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("level table is empty")
	}
	if defs[0].MinXP != 0 {
		return nil, fmt.Errorf("first level must start at 0 XP, got %d", defs[0].MinXP)
	}
	for i, d := range defs {
		if d.Level != i+1 {
			return nil, fmt.Errorf("level numbering broken at index %d: got %d, want %d", i, d.Level, i+1)
		}
		if d.Name == "" {
			return nil, fmt.Errorf("level %d has no name", d.Level)
		}
		if d.MaxXP <= d.MinXP {
			return nil, fmt.Errorf("level %d has empty range [%d, %d]", d.Level, d.MinXP, d.MaxXP)
		}
		if i > 0 && d.MinXP != defs[i-1].MaxXP+1 {
			return nil, fmt.Errorf("level %d not contiguous: starts at %d, previous ends at %d", d.Level, d.MinXP, defs[i-1].MaxXP)
		}
	}
	if defs[len(defs)-1].MaxXP != UnboundedXP {
		return nil, fmt.Errorf("last level must be unbounded")
	}
	copied := make([]LevelDef, len(defs))
	copy(copied, defs)
	return &LevelTable{defs: copied}, nil
}

// DefaultLevelTable returns the built-in ten-tier store career ladder.
func DefaultLevelTable() *LevelTable {
	t, err := NewLevelTable([]LevelDef{
		{Level: 1, Name: "見習い店員", MinXP: 0, MaxXP: 99},
		{Level: 2, Name: "新人店員", MinXP: 100, MaxXP: 299},
		{Level: 3, Name: "一人前店員", MinXP: 300, MaxXP: 599},
		{Level: 4, Name: "ベテラン店員", MinXP: 600, MaxXP: 999},
		{Level: 5, Name: "主任", MinXP: 1000, MaxXP: 1999},
		{Level: 6, Name: "副店長", MinXP: 2000, MaxXP: 3499},
		{Level: 7, Name: "店長", MinXP: 3500, MaxXP: 5499},
		{Level: 8, Name: "エリアマネージャー", MinXP: 5500, MaxXP: 7999},
		{Level: 9, Name: "本部スタッフ", MinXP: 8000, MaxXP: 11999},
		{Level: 10, Name: "レジェンド店員", MinXP: 12000, MaxXP: UnboundedXP},
	})
	if err != nil {
		panic(err) // built-in table is validated by tests
	}
	return t
}

// Resolve returns the highest tier whose MinXP does not exceed totalXP.
func (t *LevelTable) Resolve(totalXP int) LevelDef {
	cur := t.defs[0]
	for _, d := range t.defs {
		if d.MinXP <= totalXP {
			cur = d
		} else {
			break
		}
	}
	return cur
}

// Next returns the tier after the given level, or false at the top.
func (t *LevelTable) Next(level int) (LevelDef, bool) {
	if level < 1 || level >= len(t.defs) {
		return LevelDef{}, false
	}
	return t.defs[level], true
}

// ProgressPercent reports how far totalXP has advanced through its current
// tier, 0..100. At the top tier it is always 0.
func (t *LevelTable) ProgressPercent(totalXP int) int {
	cur := t.Resolve(totalXP)
	next, ok := t.Next(cur.Level)
	if !ok {
		return 0
	}
	span := next.MinXP - cur.MinXP
	if span <= 0 {
		return 0
	}
	return (totalXP - cur.MinXP) * 100 / span
}

// Defs returns a copy of all tiers in order.
func (t *LevelTable) Defs() []LevelDef {
	out := make([]LevelDef, len(t.defs))
	copy(out, t.defs)
	return out
}
