package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestLogIntake(t *testing.T) {
	now := at(2025, 11, 27, 10, 0)
	h := NewHydrationState(now)

	entry, err := h.LogIntake(250, DefaultSettings(), now, uuid.New())
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if entry.AmountMl != 250 || !entry.Timestamp.Equal(now) {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if h.TodayTotal != 250 || len(h.IntakeLogs) != 1 {
		t.Fatalf("state not updated: %+v", h)
	}
	if h.LastDrinkTime == nil || !h.LastDrinkTime.Equal(now) {
		t.Fatalf("last drink = %v", h.LastDrinkTime)
	}
	if h.NextReminderTime == nil || !h.NextReminderTime.Equal(at(2025, 11, 27, 12, 0)) {
		t.Fatalf("next reminder = %v", h.NextReminderTime)
	}

	later := at(2025, 11, 27, 22, 0)
	if _, err := h.LogIntake(500, DefaultSettings(), later, uuid.New()); err != nil {
		t.Fatalf("log: %v", err)
	}
	if h.TodayTotal != 750 {
		t.Fatalf("total = %d", h.TodayTotal)
	}
	if !h.NextReminderTime.Equal(at(2025, 11, 28, 7, 0)) {
		t.Fatalf("next reminder = %v", h.NextReminderTime)
	}
}

func TestLogIntake_RejectsBadAmount(t *testing.T) {
	now := at(2025, 11, 27, 10, 0)
	h := NewHydrationState(now)
	for _, amt := range []int{0, -5, 2001} {
		if _, err := h.LogIntake(amt, DefaultSettings(), now, uuid.New()); !errors.Is(err, ErrIntakeOutOfRange) {
			t.Fatalf("%d: want ErrIntakeOutOfRange, got %v", amt, err)
		}
	}
	if h.TodayTotal != 0 || len(h.IntakeLogs) != 0 {
		t.Fatalf("state changed on rejected intake: %+v", h)
	}
}

func TestLogIntake_ResetsOnNewDay(t *testing.T) {
	h := NewHydrationState(at(2025, 11, 27, 10, 0))
	if _, err := h.LogIntake(300, DefaultSettings(), at(2025, 11, 27, 10, 0), uuid.New()); err != nil {
		t.Fatalf("log: %v", err)
	}
	if _, err := h.LogIntake(200, DefaultSettings(), at(2025, 11, 28, 9, 0), uuid.New()); err != nil {
		t.Fatalf("log: %v", err)
	}
	if h.TodayDate != "2025-11-28" || h.TodayTotal != 200 || len(h.IntakeLogs) != 1 {
		t.Fatalf("day not reset: %+v", h)
	}
}

func TestResetIfNewDay(t *testing.T) {
	h := NewHydrationState(at(2025, 11, 27, 10, 0))
	h.TodayTotal = 900
	if h.ResetIfNewDay(at(2025, 11, 27, 23, 59)) {
		t.Fatal("same day should not reset")
	}
	if !h.ResetIfNewDay(at(2025, 11, 28, 0, 0)) {
		t.Fatal("next day should reset")
	}
	if h.TodayTotal != 0 || h.LastDrinkTime != nil || h.NextReminderTime != nil {
		t.Fatalf("reset left data: %+v", h)
	}
}

func TestRefreshNextReminder(t *testing.T) {
	now := at(2025, 11, 27, 1, 0)
	h := NewHydrationState(now)

	changed, err := h.RefreshNextReminder(DefaultSettings(), now)
	if err != nil || !changed {
		t.Fatalf("first refresh: changed=%v err=%v", changed, err)
	}
	if !h.NextReminderTime.Equal(at(2025, 11, 27, 7, 0)) {
		t.Fatalf("next = %v", h.NextReminderTime)
	}

	changed, err = h.RefreshNextReminder(DefaultSettings(), at(2025, 11, 27, 1, 30))
	if err != nil || changed {
		t.Fatalf("second refresh: changed=%v err=%v", changed, err)
	}
}

func TestGoalHelpers(t *testing.T) {
	if got := RemainingToGoal(1500, 2000); got != 500 {
		t.Fatalf("remaining = %d", got)
	}
	if got := RemainingToGoal(2500, 2000); got != 0 {
		t.Fatalf("remaining = %d", got)
	}
	if got := ProgressPercent(500, 2000); got != 25 {
		t.Fatalf("progress = %v", got)
	}
	if got := ProgressPercent(3000, 2000); got != 100 {
		t.Fatalf("progress = %v", got)
	}
	if !IsGoalMet(2000, 2000) || IsGoalMet(1999, 2000) {
		t.Fatal("IsGoalMet boundary wrong")
	}
	if got := ExcessAmount(2300, 2000); got != 300 {
		t.Fatalf("excess = %d", got)
	}
	if got := ExcessAmount(100, 2000); got != 0 {
		t.Fatalf("excess = %d", got)
	}
}
