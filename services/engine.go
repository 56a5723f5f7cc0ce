package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storemate/storemate/models"
)

// Leaderboard windows.
const (
	WindowAll     = "all"
	WindowWeekly  = "weekly"
	WindowMonthly = "monthly"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100

	defaultStorageTimeout = 5 * time.Second
)

// Engine orchestrates XP grants, streaks, badges and the derived read
// projections. All mutations for one user run under that user's lock and a
// single database transaction, so a trigger either lands completely (stats +
// ledger + badge cascade) or not at all.
type Engine struct {
	db          *gorm.DB
	levels      *LevelTable
	catalog     *BadgeCatalog
	rewards     RewardTable
	loc         *time.Location
	defaultName string
	timeout     time.Duration
	locks       *lockRegistry
}

// NewEngine wires the engine with its validated static tables. storageTimeout
// bounds every transaction and projection query; a hung store surfaces as
// ErrStorageUnavailable instead of holding the user's lock forever.
func NewEngine(db *gorm.DB, levels *LevelTable, catalog *BadgeCatalog, rewards RewardTable, loc *time.Location, defaultName string, storageTimeout time.Duration) *Engine {
	if loc == nil {
		loc = time.Local
	}
	if defaultName == "" {
		defaultName = "店員"
	}
	if storageTimeout <= 0 {
		storageTimeout = defaultStorageTimeout
	}
	return &Engine{
		db:          db,
		levels:      levels,
		catalog:     catalog,
		rewards:     rewards,
		loc:         loc,
		defaultName: defaultName,
		timeout:     storageTimeout,
		locks:       newLockRegistry(),
	}
}

// opCtx derives the deadline-bounded context for one storage operation.
func (e *Engine) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.timeout)
}

// Levels exposes the static level table for config reads.
func (e *Engine) Levels() *LevelTable { return e.levels }

// Catalog exposes the static badge catalog for config reads.
func (e *Engine) Catalog() *BadgeCatalog { return e.catalog }

// Rewards exposes the static XP reward table for config reads.
func (e *Engine) Rewards() RewardTable { return e.rewards }

// Location exposes the configured time zone so callers interpret calendar
// dates the same way the engine does.
func (e *Engine) Location() *time.Location { return e.loc }

// BadgeAward is one badge granted during a trigger, cascaded XP included in
// the user's totals and ledger.
type BadgeAward struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	XPReward int    `json:"xp_reward"`
}

// XPResult describes a single XP grant. NewXP/NewLevel reflect the grant
// itself; XP from cascaded badge awards lands in the ledger and in the
// user's stats but is reported through Badges.
type XPResult struct {
	PreviousXP    int          `json:"previous_xp"`
	NewXP         int          `json:"new_xp"`
	PreviousLevel int          `json:"previous_level"`
	NewLevel      int          `json:"new_level"`
	LeveledUp     bool         `json:"leveled_up"`
	LevelName     string       `json:"level_name"`
	Badges        []BadgeAward `json:"badges,omitempty"`
}

// CheckinResult is the outcome of one check-in trigger.
type CheckinResult struct {
	Success          bool         `json:"success"`
	AlreadyCheckedIn bool         `json:"already_checked_in"`
	StreakDays       int          `json:"streak_days"`
	NightStreak      int          `json:"night_streak"`
	EarlyStreak      int          `json:"early_streak"`
	IsNightShift     bool         `json:"is_night_shift"`
	IsEarlyShift     bool         `json:"is_early_shift"`
	XPGranted        int          `json:"xp_granted"`
	MilestoneBonus   int          `json:"milestone_bonus"`
	TotalXP          int          `json:"total_xp"`
	Level            int          `json:"level"`
	LevelName        string       `json:"level_name"`
	LeveledUp        bool         `json:"leveled_up"`
	Badges           []BadgeAward `json:"badges,omitempty"`
}

// ActionResult is the outcome of a register/remove trigger.
type ActionResult struct {
	ActionType string       `json:"action_type"`
	NewCount   int          `json:"new_count"`
	XPGranted  int          `json:"xp_granted"`
	TotalXP    int          `json:"total_xp"`
	Level      int          `json:"level"`
	LevelName  string       `json:"level_name"`
	LeveledUp  bool         `json:"leveled_up"`
	Badges     []BadgeAward `json:"badges,omitempty"`
}

// DrawResult is the outcome of a card-draw trigger.
type DrawResult struct {
	TotalDraws int          `json:"total_draws"`
	LuckyValue int          `json:"lucky_value"`
	XPGranted  int          `json:"xp_granted"`
	TotalXP    int          `json:"total_xp"`
	Level      int          `json:"level"`
	LevelName  string       `json:"level_name"`
	LeveledUp  bool         `json:"leveled_up"`
	Badges     []BadgeAward `json:"badges,omitempty"`
}

// BadgeGrantResult is the outcome of an explicit badge grant.
type BadgeGrantResult struct {
	Awarded      bool         `json:"awarded"`
	AlreadyOwned bool         `json:"already_owned"`
	Badge        BadgeAward   `json:"badge"`
	Cascaded     []BadgeAward `json:"cascaded,omitempty"`
}

// EarnedBadge is a badge with its award timestamp, for the user projection.
type EarnedBadge struct {
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	XPReward int       `json:"xp_reward"`
	EarnedAt time.Time `json:"earned_at"`
}

// GameData is the read-only aggregate for one user.
type GameData struct {
	Stats           models.UserStats `json:"stats"`
	LevelName       string           `json:"level_name"`
	NextLevelXP     int              `json:"next_level_xp"`
	ProgressPercent int              `json:"progress_percent"`
	Badges          []EarnedBadge    `json:"badges"`
}

// LeaderboardEntry is one ranked row of a leaderboard window.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	XP          int    `json:"xp"`
	Level       int    `json:"level"`
}

// DailyReport aggregates one calendar day of ledger activity.
type DailyReport struct {
	Date          string `json:"date"`
	Checkins      int    `json:"checkins"`
	Registrations int    `json:"registrations"`
	Removals      int    `json:"removals"`
	ActiveUsers   int    `json:"active_users"`
	XPGranted     int    `json:"xp_granted"`
}

// CheckIn applies the once-per-day check-in trigger: streak counters, base
// XP, milestone bonus, streak badges and the hidden shift badges. A repeat
// check-in on the same calendar day is a complete no-op.
func (e *Engine) CheckIn(ctx context.Context, userID, displayName string, now time.Time) (CheckinResult, error) {
	var out CheckinResult
	traceID := uuid.NewString()

	err := e.withUser(ctx, userID, func(tx *gorm.DB) error {
		stats, err := e.getOrCreateTx(tx, userID, displayName)
		if err != nil {
			return err
		}

		res := ComputeStreaks(StreakState{
			LastCheckinDate: stats.LastCheckinDate,
			StreakDays:      stats.StreakDays,
			NightStreak:     stats.NightStreak,
			EarlyStreak:     stats.EarlyStreak,
		}, now, e.loc)

		if res.AlreadyCheckedInToday {
			out = CheckinResult{
				AlreadyCheckedIn: true,
				StreakDays:       res.StreakDays,
				NightStreak:      res.NightStreak,
				EarlyStreak:      res.EarlyStreak,
				TotalXP:          stats.TotalXP,
				Level:            stats.Level,
				LevelName:        e.levels.Resolve(stats.TotalXP).Name,
			}
			return nil
		}

		startLevel := stats.Level
		today := res.Today
		stats.StreakDays = res.StreakDays
		stats.NightStreak = res.NightStreak
		stats.EarlyStreak = res.EarlyStreak
		stats.LastCheckinDate = &today

		var badges []BadgeAward

		xpRes, err := e.grantTx(tx, stats, e.rewards.CheckinXP, models.ActionCheckin, "デイリーチェックイン", traceID, now)
		if err != nil {
			return err
		}
		badges = append(badges, xpRes.Badges...)

		bonus := e.rewards.MilestoneBonus(res.StreakDays)
		if bonus > 0 {
			desc := fmt.Sprintf("%d日連続チェックインボーナス", res.StreakDays)
			bonusRes, err := e.grantTx(tx, stats, bonus, models.ActionStreak, desc, traceID, now)
			if err != nil {
				return err
			}
			badges = append(badges, bonusRes.Badges...)

			streakAwards, err := e.evaluateTx(tx, stats, ConditionStreak, res.StreakDays, traceID, now)
			if err != nil {
				return err
			}
			badges = append(badges, streakAwards...)
		}

		shiftAwards, err := e.shiftBadgesTx(tx, stats, res, traceID, now)
		if err != nil {
			return err
		}
		badges = append(badges, shiftAwards...)

		out = CheckinResult{
			Success:        true,
			StreakDays:     res.StreakDays,
			NightStreak:    res.NightStreak,
			EarlyStreak:    res.EarlyStreak,
			IsNightShift:   res.IsNightShift,
			IsEarlyShift:   res.IsEarlyShift,
			XPGranted:      e.rewards.CheckinXP,
			MilestoneBonus: bonus,
			TotalXP:        stats.TotalXP,
			Level:          stats.Level,
			LevelName:      e.levels.Resolve(stats.TotalXP).Name,
			LeveledUp:      stats.Level > startLevel,
			Badges:         badges,
		}
		return nil
	})
	if err != nil {
		return CheckinResult{}, err
	}
	return out, nil
}

// RecordAction applies a product register/remove trigger: lifetime counter,
// fixed XP, threshold badges for the new counter value.
func (e *Engine) RecordAction(ctx context.Context, userID, displayName, actionType string, now time.Time) (ActionResult, error) {
	var amount int
	var kind BadgeCondition
	var desc string
	switch actionType {
	case models.ActionRegister:
		amount, kind, desc = e.rewards.RegisterXP, ConditionRegister, "商品登録"
	case models.ActionRemove:
		amount, kind, desc = e.rewards.RemoveXP, ConditionRemove, "商品削除"
	default:
		return ActionResult{}, fmt.Errorf("%w: unknown action type %q", ErrInvalidArgument, actionType)
	}

	var out ActionResult
	traceID := uuid.NewString()

	err := e.withUser(ctx, userID, func(tx *gorm.DB) error {
		stats, err := e.getOrCreateTx(tx, userID, displayName)
		if err != nil {
			return err
		}

		startLevel := stats.Level
		var newCount int
		if actionType == models.ActionRegister {
			stats.TotalRegistrations++
			newCount = stats.TotalRegistrations
		} else {
			stats.TotalRemovals++
			newCount = stats.TotalRemovals
		}

		xpRes, err := e.grantTx(tx, stats, amount, actionType, desc, traceID, now)
		if err != nil {
			return err
		}
		badges := append([]BadgeAward{}, xpRes.Badges...)

		awards, err := e.evaluateTx(tx, stats, kind, newCount, traceID, now)
		if err != nil {
			return err
		}
		badges = append(badges, awards...)

		out = ActionResult{
			ActionType: actionType,
			NewCount:   newCount,
			XPGranted:  amount,
			TotalXP:    stats.TotalXP,
			Level:      stats.Level,
			LevelName:  e.levels.Resolve(stats.TotalXP).Name,
			LeveledUp:  stats.Level > startLevel,
			Badges:     badges,
		}
		return nil
	})
	if err != nil {
		return ActionResult{}, err
	}
	return out, nil
}

// RecordDraw applies a card-draw signal from the fortune-card collaborator.
// Card content stays opaque; only the draw count, the supplied lucky value
// and the fixed draw XP belong to the engine.
func (e *Engine) RecordDraw(ctx context.Context, userID, displayName string, luckyValue int, now time.Time) (DrawResult, error) {
	var out DrawResult
	traceID := uuid.NewString()

	err := e.withUser(ctx, userID, func(tx *gorm.DB) error {
		stats, err := e.getOrCreateTx(tx, userID, displayName)
		if err != nil {
			return err
		}

		startLevel := stats.Level
		stats.TotalDraws++
		stats.LuckyValue = luckyValue

		xpRes, err := e.grantTx(tx, stats, e.rewards.DrawXP, models.ActionDraw, "運勢カードを引いた", traceID, now)
		if err != nil {
			return err
		}

		out = DrawResult{
			TotalDraws: stats.TotalDraws,
			LuckyValue: stats.LuckyValue,
			XPGranted:  e.rewards.DrawXP,
			TotalXP:    stats.TotalXP,
			Level:      stats.Level,
			LevelName:  e.levels.Resolve(stats.TotalXP).Name,
			LeveledUp:  stats.Level > startLevel,
			Badges:     xpRes.Badges,
		}
		return nil
	})
	if err != nil {
		return DrawResult{}, err
	}
	return out, nil
}

// GrantXP is the shared XP primitive: positive amount, known action type,
// stats + ledger written atomically, level badges evaluated on level-up.
func (e *Engine) GrantXP(ctx context.Context, userID, displayName string, amount int, actionType, description string, now time.Time) (XPResult, error) {
	if amount <= 0 {
		return XPResult{}, fmt.Errorf("%w: XP amount must be positive, got %d", ErrInvalidArgument, amount)
	}
	if !validActionType(actionType) {
		return XPResult{}, fmt.Errorf("%w: unknown action type %q", ErrInvalidArgument, actionType)
	}

	var out XPResult
	traceID := uuid.NewString()

	err := e.withUser(ctx, userID, func(tx *gorm.DB) error {
		stats, err := e.getOrCreateTx(tx, userID, displayName)
		if err != nil {
			return err
		}
		out, err = e.grantTx(tx, stats, amount, actionType, description, traceID, now)
		return err
	})
	if err != nil {
		return XPResult{}, err
	}
	return out, nil
}

// AwardBadge grants a badge by code, used for hidden shift badges and manual
// grants. Awarding an already-owned badge is a benign no-op.
func (e *Engine) AwardBadge(ctx context.Context, userID, displayName, code string, now time.Time) (BadgeGrantResult, error) {
	def, ok := e.catalog.ByCode(code)
	if !ok {
		return BadgeGrantResult{}, fmt.Errorf("%w: unknown badge code %q", ErrInvalidArgument, code)
	}

	var out BadgeGrantResult
	traceID := uuid.NewString()

	err := e.withUser(ctx, userID, func(tx *gorm.DB) error {
		stats, err := e.getOrCreateTx(tx, userID, displayName)
		if err != nil {
			return err
		}
		awards, err := e.awardTx(tx, stats, def, traceID, now)
		if err != nil {
			return err
		}
		if len(awards) == 0 {
			out = BadgeGrantResult{AlreadyOwned: true, Badge: BadgeAward{Code: def.Code, Name: def.Name, XPReward: def.XPReward}}
			return nil
		}
		out = BadgeGrantResult{Awarded: true, Badge: awards[0], Cascaded: awards[1:]}
		return nil
	})
	if err != nil {
		return BadgeGrantResult{}, err
	}
	return out, nil
}

// GetUserGameData returns the read-only aggregate for one user. Unknown
// users yield ErrNotFound; reads never create rows.
func (e *Engine) GetUserGameData(ctx context.Context, userID string) (GameData, error) {
	ctx, cancel := e.opCtx(ctx)
	defer cancel()

	var stats models.UserStats
	if err := e.db.WithContext(ctx).First(&stats, "user_id = ?", userID).Error; err != nil {
		return GameData{}, storageErr(err)
	}

	var rows []models.UserBadge
	if err := e.db.WithContext(ctx).Where("user_id = ?", userID).Order("earned_at ASC, id ASC").Find(&rows).Error; err != nil {
		return GameData{}, storageErr(err)
	}

	badges := make([]EarnedBadge, 0, len(rows))
	for _, r := range rows {
		def, ok := e.catalog.ByCode(r.BadgeCode)
		if !ok {
			// Catalog shrank since the row was written; keep the code visible.
			def = BadgeDef{Code: r.BadgeCode, Name: r.BadgeCode}
		}
		badges = append(badges, EarnedBadge{Code: def.Code, Name: def.Name, XPReward: def.XPReward, EarnedAt: r.EarnedAt})
	}

	cur := e.levels.Resolve(stats.TotalXP)
	nextXP := 0
	if next, ok := e.levels.Next(cur.Level); ok {
		nextXP = next.MinXP
	}

	return GameData{
		Stats:           stats,
		LevelName:       cur.Name,
		NextLevelXP:     nextXP,
		ProgressPercent: e.levels.ProgressPercent(stats.TotalXP),
		Badges:          badges,
	}, nil
}

// GetLeaderboard ranks users by total XP (window "all") or by ledger sums
// within a rolling window. Ties break on ascending user id so the order is
// deterministic.
func (e *Engine) GetLeaderboard(ctx context.Context, window string, limit int, now time.Time) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	var since time.Time
	switch window {
	case WindowAll:
		// no window
	case WindowWeekly:
		since = now.AddDate(0, 0, -7)
	case WindowMonthly:
		since = now.AddDate(0, 0, -30)
	default:
		return nil, fmt.Errorf("%w: unknown leaderboard window %q", ErrInvalidArgument, window)
	}

	ctx, cancel := e.opCtx(ctx)
	defer cancel()

	var entries []LeaderboardEntry
	var err error
	if window == WindowAll {
		err = e.db.WithContext(ctx).Raw(
			`SELECT user_id, display_name, total_xp AS xp, level
			 FROM user_stats
			 ORDER BY total_xp DESC, user_id ASC
			 LIMIT ?`, limit).Scan(&entries).Error
	} else {
		err = e.db.WithContext(ctx).Raw(
			`SELECT l.user_id AS user_id,
			        COALESCE(s.display_name, '') AS display_name,
			        SUM(l.amount) AS xp,
			        COALESCE(s.level, 1) AS level
			 FROM xp_log_entries l
			 LEFT JOIN user_stats s ON s.user_id = l.user_id
			 WHERE l.created_at >= ?
			 GROUP BY l.user_id, s.display_name, s.level
			 ORDER BY xp DESC, l.user_id ASC
			 LIMIT ?`, since, limit).Scan(&entries).Error
	}
	if err != nil {
		return nil, storageErr(err)
	}

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// GetDailyReport aggregates ledger activity for one calendar day in the
// configured time zone.
func (e *Engine) GetDailyReport(ctx context.Context, day time.Time) (DailyReport, error) {
	ctx, cancel := e.opCtx(ctx)
	defer cancel()

	start := dateOf(day.In(e.loc))
	end := start.AddDate(0, 0, 1)

	db := e.db.WithContext(ctx)
	report := DailyReport{Date: start.Format("2006-01-02")}

	type countRow struct {
		ActionType string
		N          int
	}
	var counts []countRow
	if err := db.Model(&models.XPLogEntry{}).
		Select("action_type, COUNT(*) AS n").
		Where("created_at >= ? AND created_at < ?", start, end).
		Group("action_type").
		Scan(&counts).Error; err != nil {
		return DailyReport{}, storageErr(err)
	}
	for _, c := range counts {
		switch c.ActionType {
		case models.ActionCheckin:
			report.Checkins = c.N
		case models.ActionRegister:
			report.Registrations = c.N
		case models.ActionRemove:
			report.Removals = c.N
		}
	}

	var active int64
	if err := db.Model(&models.XPLogEntry{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Distinct("user_id").
		Count(&active).Error; err != nil {
		return DailyReport{}, storageErr(err)
	}
	report.ActiveUsers = int(active)

	var granted int64
	if err := db.Model(&models.XPLogEntry{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&granted).Error; err != nil {
		return DailyReport{}, storageErr(err)
	}
	report.XPGranted = int(granted)

	return report, nil
}

// withUser runs fn inside the user's lock and one transaction.
func (e *Engine) withUser(ctx context.Context, userID string, fn func(tx *gorm.DB) error) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: empty user id", ErrInvalidArgument)
	}
	e.locks.Lock(userID)
	defer e.locks.Unlock(userID)

	ctx, cancel := e.opCtx(ctx)
	defer cancel()
	err := e.db.WithContext(ctx).Transaction(fn)
	return storageErr(err)
}

// getOrCreateTx loads the stats row, creating it with defaults on first
// contact. A non-empty display name refreshes a stale one; the configured
// default is applied only at creation.
func (e *Engine) getOrCreateTx(tx *gorm.DB, userID, displayName string) (*models.UserStats, error) {
	name := strings.TrimSpace(displayName)

	var stats models.UserStats
	err := tx.First(&stats, "user_id = ?", userID).Error
	if err == nil {
		if name != "" && name != stats.DisplayName {
			stats.DisplayName = name
		}
		return &stats, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if name == "" {
		name = e.defaultName
	}
	stats = models.UserStats{UserID: userID, DisplayName: name, Level: 1}
	if err := tx.Create(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// grantTx applies one XP grant to the loaded stats row: totals, derived
// level, ledger entry, and level badges when the grant crosses a tier.
func (e *Engine) grantTx(tx *gorm.DB, stats *models.UserStats, amount int, actionType, description, traceID string, now time.Time) (XPResult, error) {
	prevXP := stats.TotalXP
	prevLevel := stats.Level

	stats.TotalXP += amount
	def := e.levels.Resolve(stats.TotalXP)
	stats.Level = def.Level
	if err := tx.Save(stats).Error; err != nil {
		return XPResult{}, err
	}

	entry := models.XPLogEntry{
		UserID:      stats.UserID,
		Amount:      amount,
		ActionType:  actionType,
		Description: description,
		TraceID:     traceID,
		CreatedAt:   now,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return XPResult{}, err
	}

	res := XPResult{
		PreviousXP:    prevXP,
		NewXP:         stats.TotalXP,
		PreviousLevel: prevLevel,
		NewLevel:      def.Level,
		LeveledUp:     def.Level > prevLevel,
		LevelName:     def.Name,
	}

	if res.LeveledUp {
		awards, err := e.evaluateTx(tx, stats, ConditionLevel, def.Level, traceID, now)
		if err != nil {
			return XPResult{}, err
		}
		res.Badges = awards
	}
	return res, nil
}

// evaluateTx awards every catalog badge of the given kind whose threshold
// the value has reached. Already-owned badges are skipped silently.
func (e *Engine) evaluateTx(tx *gorm.DB, stats *models.UserStats, kind BadgeCondition, value int, traceID string, now time.Time) ([]BadgeAward, error) {
	var awards []BadgeAward
	for _, def := range e.catalog.Matching(kind, value) {
		got, err := e.awardTx(tx, stats, def, traceID, now)
		if err != nil {
			return nil, err
		}
		awards = append(awards, got...)
	}
	return awards, nil
}

// awardTx inserts the badge row and grants its XP reward. The insert relies
// on the (user_id, badge_code) unique index: a conflicting concurrent award
// collapses into zero affected rows and is treated as already owned.
func (e *Engine) awardTx(tx *gorm.DB, stats *models.UserStats, def BadgeDef, traceID string, now time.Time) ([]BadgeAward, error) {
	row := models.UserBadge{UserID: stats.UserID, BadgeCode: def.Code, EarnedAt: now}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	awards := []BadgeAward{{Code: def.Code, Name: def.Name, XPReward: def.XPReward}}
	if def.XPReward > 0 {
		xpRes, err := e.grantTx(tx, stats, def.XPReward, models.ActionBadge, "バッジ獲得: "+def.Name, traceID, now)
		if err != nil {
			return nil, err
		}
		awards = append(awards, xpRes.Badges...)
	}
	return awards, nil
}

// shiftBadgesTx awards hidden night/early badges once their track reaches a
// configured threshold during a check-in inside that window.
func (e *Engine) shiftBadgesTx(tx *gorm.DB, stats *models.UserStats, res StreakResult, traceID string, now time.Time) ([]BadgeAward, error) {
	var awards []BadgeAward
	award := func(code string) error {
		def, ok := e.catalog.ByCode(code)
		if !ok {
			return nil // catalog without hidden badges is allowed
		}
		got, err := e.awardTx(tx, stats, def, traceID, now)
		if err != nil {
			return err
		}
		awards = append(awards, got...)
		return nil
	}

	if res.IsNightShift {
		for days, code := range e.rewards.NightBadges {
			if res.NightStreak >= days {
				if err := award(code); err != nil {
					return nil, err
				}
			}
		}
	}
	if res.IsEarlyShift {
		for days, code := range e.rewards.EarlyBadges {
			if res.EarlyStreak >= days {
				if err := award(code); err != nil {
					return nil, err
				}
			}
		}
	}
	return awards, nil
}

func validActionType(actionType string) bool {
	switch actionType {
	case models.ActionCheckin, models.ActionRegister, models.ActionRemove,
		models.ActionStreak, models.ActionBadge, models.ActionDraw:
		return true
	}
	return false
}
