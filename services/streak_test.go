package services

import (
	"testing"
	"time"
)

func datePtr(t time.Time) *time.Time { return &t }

func TestComputeStreaksFirstEver(t *testing.T) {
	now := time.Date(2026, 3, 10, 2, 30, 0, 0, time.UTC)
	res := ComputeStreaks(StreakState{}, now, time.UTC)

	if res.AlreadyCheckedInToday {
		t.Fatal("first check-in must not be flagged as duplicate")
	}
	if res.StreakDays != 1 {
		t.Errorf("StreakDays = %d, want 1", res.StreakDays)
	}
	if res.NightStreak != 1 {
		t.Errorf("NightStreak = %d, want 1", res.NightStreak)
	}
	if res.EarlyStreak != 0 {
		t.Errorf("EarlyStreak = %d, want 0", res.EarlyStreak)
	}
	if !res.IsNightShift || res.IsEarlyShift {
		t.Errorf("shift flags = night %v early %v, want night only", res.IsNightShift, res.IsEarlyShift)
	}
}

func TestComputeStreaksSameDayIsNoop(t *testing.T) {
	morning := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 10, 21, 0, 0, 0, time.UTC)

	prev := StreakState{
		LastCheckinDate: datePtr(morning),
		StreakDays:      4,
		NightStreak:     2,
		EarlyStreak:     3,
	}
	res := ComputeStreaks(prev, evening, time.UTC)

	if !res.AlreadyCheckedInToday {
		t.Fatal("second check-in on the same day must be flagged")
	}
	if res.StreakDays != 4 || res.NightStreak != 2 || res.EarlyStreak != 3 {
		t.Errorf("counters changed on duplicate: got %d/%d/%d, want 4/2/3",
			res.StreakDays, res.NightStreak, res.EarlyStreak)
	}
}

func TestComputeStreaksContinuityAndReset(t *testing.T) {
	day := func(d, h int) time.Time {
		return time.Date(2026, 3, d, h, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name       string
		last       time.Time
		prevStreak int
		now        time.Time
		want       int
	}{
		{"next day continues", day(10, 12), 5, day(11, 12), 6},
		{"gap of two days resets", day(10, 12), 5, day(13, 12), 1},
		{"late night into next morning continues", day(10, 23), 2, day(11, 1), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := StreakState{LastCheckinDate: datePtr(tt.last), StreakDays: tt.prevStreak}
			res := ComputeStreaks(prev, tt.now, time.UTC)
			if res.StreakDays != tt.want {
				t.Errorf("StreakDays = %d, want %d", res.StreakDays, tt.want)
			}
		})
	}
}

func TestComputeStreaksShiftWindows(t *testing.T) {
	day10 := time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)
	prev := StreakState{
		LastCheckinDate: datePtr(day10),
		StreakDays:      3,
		NightStreak:     3,
		EarlyStreak:     0,
	}

	tests := []struct {
		name      string
		hour      int
		wantNight int
		wantEarly int
	}{
		{"night window continues the night track", 5, 4, 0},
		{"boundary 06:00 is early not night", 6, 0, 1},
		{"08:59 still early", 8, 0, 1},
		{"daytime resets both tracks", 10, 0, 0},
		{"09:00 is outside the early window", 9, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Date(2026, 3, 11, tt.hour, 0, 0, 0, time.UTC)
			res := ComputeStreaks(prev, now, time.UTC)
			if res.NightStreak != tt.wantNight {
				t.Errorf("NightStreak = %d, want %d", res.NightStreak, tt.wantNight)
			}
			if res.EarlyStreak != tt.wantEarly {
				t.Errorf("EarlyStreak = %d, want %d", res.EarlyStreak, tt.wantEarly)
			}
			if res.StreakDays != 4 {
				t.Errorf("StreakDays = %d, want 4", res.StreakDays)
			}
		})
	}
}

func TestComputeStreaksNightTrackRestartsAfterGap(t *testing.T) {
	// Daily streak broken: night track restarts at 1, not prev+1.
	last := time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)
	prev := StreakState{LastCheckinDate: datePtr(last), StreakDays: 6, NightStreak: 6}

	now := time.Date(2026, 3, 13, 2, 0, 0, 0, time.UTC)
	res := ComputeStreaks(prev, now, time.UTC)

	if res.StreakDays != 1 {
		t.Errorf("StreakDays = %d, want 1", res.StreakDays)
	}
	if res.NightStreak != 1 {
		t.Errorf("NightStreak = %d, want 1", res.NightStreak)
	}
}
