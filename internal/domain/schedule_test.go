package domain

import (
	"errors"
	"testing"
	"time"
)

// helper: wall-clock instant in UTC
func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func tod(t *testing.T, s string) TimeOfDay {
	t.Helper()
	v, err := ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}

func TestIsInSleepPeriod(t *testing.T) {
	cases := []struct {
		name       string
		now        time.Time
		start, end string
		want       bool
	}{
		{"night inside crossing window", at(2025, 11, 27, 1, 0), "23:00", "07:00", true},
		{"exactly at start", at(2025, 11, 27, 23, 0), "23:00", "07:00", true},
		{"exactly at end", at(2025, 11, 27, 7, 0), "23:00", "07:00", false},
		{"awake afternoon", at(2025, 11, 27, 14, 0), "23:00", "07:00", false},
		{"one minute before end", at(2025, 11, 27, 6, 59), "23:00", "07:00", true},
		{"non-crossing nap inside", at(2025, 11, 27, 14, 0), "13:00", "15:00", true},
		{"non-crossing nap outside", at(2025, 11, 27, 16, 0), "13:00", "15:00", false},
		{"non-crossing start", at(2025, 11, 27, 13, 0), "13:00", "15:00", true},
		{"non-crossing end", at(2025, 11, 27, 15, 0), "13:00", "15:00", false},
		{"midnight start", at(2025, 11, 27, 0, 0), "00:00", "06:00", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := IsInSleepPeriod(tc.now, tod(t, tc.start), tod(t, tc.end))
			if got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestIsInSleepPeriod_TruncatesSeconds(t *testing.T) {
	now := time.Date(2025, 11, 27, 6, 59, 59, 999, time.UTC)
	if !IsInSleepPeriod(now, tod(t, "23:00"), tod(t, "07:00")) {
		t.Fatal("06:59:59 should still be asleep")
	}
}

func TestIsInSleepPeriod_EqualBoundsNeverAsleep(t *testing.T) {
	w := tod(t, "22:00")
	for m := 0; m < 24*60; m++ {
		now := at(2025, 11, 27, 0, 0).Add(time.Duration(m) * time.Minute)
		if IsInSleepPeriod(now, w, w) {
			t.Fatalf("minute %d classified as asleep for empty window", m)
		}
	}
}

func TestIsInSleepPeriod_PartitionsDay(t *testing.T) {
	windows := [][2]string{
		{"23:00", "07:00"},
		{"13:00", "15:00"},
		{"00:00", "23:59"},
		{"23:59", "00:00"},
		{"22:30", "06:15"},
	}
	day := at(2025, 11, 27, 0, 0)
	for _, w := range windows {
		s, e := tod(t, w[0]), tod(t, w[1])
		wantLen := e.Minutes() - s.Minutes()
		if wantLen < 0 {
			wantLen += 24 * 60
		}

		asleep, transitions := 0, 0
		prev := IsInSleepPeriod(day.Add(-time.Minute), s, e)
		for m := 0; m < 24*60; m++ {
			cur := IsInSleepPeriod(day.Add(time.Duration(m)*time.Minute), s, e)
			if cur {
				asleep++
			}
			if cur != prev {
				transitions++
			}
			prev = cur
		}
		if asleep != wantLen {
			t.Fatalf("%s-%s: want %d asleep minutes, got %d", w[0], w[1], wantLen, asleep)
		}
		// one contiguous (possibly wrapping) sleep region and one awake region
		if transitions != 2 {
			t.Fatalf("%s-%s: want 2 transitions, got %d", w[0], w[1], transitions)
		}
		if !IsInSleepPeriod(s.On(day), s, e) {
			t.Fatalf("%s-%s: start should be asleep", w[0], w[1])
		}
		if IsInSleepPeriod(e.On(day), s, e) {
			t.Fatalf("%s-%s: end should be awake", w[0], w[1])
		}
	}
}

func TestNextWakeTime(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		end  string
		want time.Time
	}{
		{"later today", at(2025, 11, 27, 1, 0), "07:00", at(2025, 11, 27, 7, 0)},
		{"passed today", at(2025, 11, 27, 22, 0), "07:00", at(2025, 11, 28, 7, 0)},
		{"exactly now rolls over", at(2025, 11, 27, 7, 0), "07:00", at(2025, 11, 28, 7, 0)},
		{"month boundary", at(2025, 11, 30, 8, 0), "07:00", at(2025, 12, 1, 7, 0)},
		{"year boundary", at(2025, 12, 31, 23, 30), "06:30", at(2026, 1, 1, 6, 30)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextWakeTime(tc.now, tod(t, tc.end))
			if !got.Equal(tc.want) {
				t.Fatalf("want %s, got %s", tc.want, got)
			}
		})
	}
}

func TestNextWakeTime_SecondsAreZeroedAndStrictlyAfter(t *testing.T) {
	now := time.Date(2025, 11, 27, 7, 0, 30, 5, time.UTC)
	got := NextWakeTime(now, tod(t, "07:00"))
	want := at(2025, 11, 28, 7, 0)
	if !got.Equal(want) {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestNextWakeTime_PeriodIsOneDay(t *testing.T) {
	end := tod(t, "07:00")
	now := at(2025, 11, 27, 3, 17)
	for i := 0; i < 5; i++ {
		w := NextWakeTime(now, end)
		if !w.After(now) {
			t.Fatalf("wake %s not after %s", w, now)
		}
		if i > 0 && w.Sub(now) != 24*time.Hour {
			t.Fatalf("want 24h step, got %s", w.Sub(now))
		}
		now = w
	}
}

func TestNextReminder_NoLastEventUsesNow(t *testing.T) {
	now := at(2025, 11, 27, 10, 0)
	got, err := NextReminder(nil, DefaultSettings(), now)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if want := at(2025, 11, 27, 12, 0); !got.Equal(want) {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestNextReminder_FromLastEvent(t *testing.T) {
	now := at(2025, 11, 27, 14, 0)
	last := at(2025, 11, 27, 13, 30)
	got, err := NextReminder(&last, DefaultSettings(), now)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if want := at(2025, 11, 27, 15, 30); !got.Equal(want) {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestNextReminder_CandidateInSleepDefersToWake(t *testing.T) {
	now := at(2025, 11, 27, 22, 0)
	last := now
	got, err := NextReminder(&last, DefaultSettings(), now)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if want := at(2025, 11, 28, 7, 0); !got.Equal(want) {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestNextReminder_CrossMidnightCandidate(t *testing.T) {
	now := at(2025, 11, 27, 23, 30)
	last := now
	got, err := NextReminder(&last, DefaultSettings(), now)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if want := at(2025, 11, 28, 7, 0); !got.Equal(want) {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestNextReminder_AsleepWithoutLastEvent(t *testing.T) {
	now := at(2025, 11, 27, 1, 0)
	got, err := NextReminder(nil, DefaultSettings(), now)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if want := at(2025, 11, 27, 7, 0); !got.Equal(want) {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestNextReminder_StaleLastEventIsOverdue(t *testing.T) {
	now := at(2025, 11, 27, 14, 0)
	last := at(2025, 11, 27, 9, 0)
	got, err := NextReminder(&last, DefaultSettings(), now)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if want := at(2025, 11, 27, 11, 0); !got.Equal(want) {
		t.Fatalf("want %s, got %s", want, got)
	}
	if !got.Before(now) {
		t.Fatal("stale reminder should stay in the past")
	}
}

func TestNextReminder_CustomInterval(t *testing.T) {
	now := at(2025, 11, 27, 10, 0)
	last := now
	s := DefaultSettings()
	s.ReminderIntervalMinutes = 30
	got, err := NextReminder(&last, s, now)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if want := at(2025, 11, 27, 10, 30); !got.Equal(want) {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestNextReminder_LastEventAsleepButCandidateAwake(t *testing.T) {
	// Drink logged at 06:30 during sleep; 06:30+2h = 08:30 is awake.
	now := at(2025, 11, 27, 6, 45)
	last := at(2025, 11, 27, 6, 30)
	got, err := NextReminder(&last, DefaultSettings(), now)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if want := at(2025, 11, 27, 8, 30); !got.Equal(want) {
		t.Fatalf("want %s, got %s", want, got)
	}
}

// The deferred wake time is counted from now, even when the candidate sits in a later night.
func TestNextReminder_DeferralAnchoredToNow(t *testing.T) {
	now := at(2025, 11, 27, 10, 0)
	last := at(2025, 11, 28, 22, 0) // clock skew: intake recorded a day ahead
	got, err := NextReminder(&last, DefaultSettings(), now)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	// candidate 2025-11-29 00:00 is asleep; wake is taken from now.
	if want := at(2025, 11, 28, 7, 0); !got.Equal(want) {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestNextReminder_DaytimeWindowDefersSameDay(t *testing.T) {
	s := DefaultSettings()
	s.SleepStart, s.SleepEnd = tod(t, "13:00"), tod(t, "15:00")
	s.ReminderIntervalMinutes = 90
	now := at(2025, 11, 27, 12, 0)
	got, err := NextReminder(nil, s, now)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if want := at(2025, 11, 27, 15, 0); !got.Equal(want) {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestNextReminder_Idempotent(t *testing.T) {
	now := at(2025, 11, 27, 22, 10)
	last := at(2025, 11, 27, 21, 40)
	a, errA := NextReminder(&last, DefaultSettings(), now)
	b, errB := NextReminder(&last, DefaultSettings(), now)
	if errA != nil || errB != nil {
		t.Fatalf("errors: %v, %v", errA, errB)
	}
	if !a.Equal(b) {
		t.Fatalf("results differ: %s vs %s", a, b)
	}
}

func TestNextReminder_InvalidSettings(t *testing.T) {
	s := DefaultSettings()
	s.ReminderIntervalMinutes = 5
	_, err := NextReminder(nil, s, at(2025, 11, 27, 10, 0))
	if !errors.Is(err, ErrIntervalOutOfRange) {
		t.Fatalf("want ErrIntervalOutOfRange, got %v", err)
	}
}

func TestFixedClock(t *testing.T) {
	want := at(2025, 11, 27, 10, 0)
	var c Clock = FixedClock(want)
	if !c.Now().Equal(want) {
		t.Fatalf("want %s, got %s", want, c.Now())
	}
}
