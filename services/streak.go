package services

import (
	"math"
	"time"
)

// Shift windows, by local hour of day.
const (
	nightWindowEnd   = 6 // 00:00–05:59 counts as night shift
	earlyWindowStart = 6
	earlyWindowEnd   = 9 // 06:00–08:59 counts as early shift
)

// StreakState is the prior streak snapshot read from UserStats.
type StreakState struct {
	LastCheckinDate *time.Time
	StreakDays      int
	NightStreak     int
	EarlyStreak     int
}

// StreakResult is the outcome of applying one check-in to a StreakState.
// When AlreadyCheckedInToday is set, all counters carry the prior values
// unchanged and the caller must not persist anything.
type StreakResult struct {
	AlreadyCheckedInToday bool
	StreakDays            int
	NightStreak           int
	EarlyStreak           int
	IsNightShift          bool
	IsEarlyShift          bool
	Today                 time.Time
}

// ComputeStreaks derives the new streak counters for a check-in at now.
// Pure function: normalizes now to a calendar date in loc, applies the
// 1-day-gap continuity rule to the daily streak, and scopes the night and
// early tracks to their hour windows. A check-in outside a window hard-resets
// that track to 0 even when the daily streak continues.
func ComputeStreaks(prev StreakState, now time.Time, loc *time.Location) StreakResult {
	local := now.In(loc)
	today := dateOf(local)
	h := local.Hour()

	if prev.LastCheckinDate != nil && dateOf(prev.LastCheckinDate.In(loc)).Equal(today) {
		return StreakResult{
			AlreadyCheckedInToday: true,
			StreakDays:            prev.StreakDays,
			NightStreak:           prev.NightStreak,
			EarlyStreak:           prev.EarlyStreak,
			Today:                 today,
		}
	}

	gapDays := -1 // first ever
	if prev.LastCheckinDate != nil {
		last := dateOf(prev.LastCheckinDate.In(loc))
		// Rounding absorbs DST-shortened or -lengthened days.
		gapDays = int(math.Round(today.Sub(last).Hours() / 24))
	}
	continued := gapDays == 1

	res := StreakResult{
		IsNightShift: h < nightWindowEnd,
		IsEarlyShift: h >= earlyWindowStart && h < earlyWindowEnd,
		Today:        today,
	}

	if continued {
		res.StreakDays = prev.StreakDays + 1
	} else {
		res.StreakDays = 1
	}

	res.NightStreak = trackStreak(res.IsNightShift, continued, prev.NightStreak)
	res.EarlyStreak = trackStreak(res.IsEarlyShift, continued, prev.EarlyStreak)
	return res
}

// trackStreak applies the window rule for one shift track: inside the window
// the track continues or restarts at 1, outside it resets to 0.
func trackStreak(inWindow, continued bool, prev int) int {
	switch {
	case inWindow && continued:
		return prev + 1
	case inWindow:
		return 1
	default:
		return 0
	}
}

// dateOf truncates t to midnight of its own calendar day, keeping location.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
