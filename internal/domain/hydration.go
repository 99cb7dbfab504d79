package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	MinIntakeMl = 1
	MaxIntakeMl = 2000

	// DateLayout is the layout of HydrationState.TodayDate.
	DateLayout = "2006-01-02"
)

var ErrIntakeOutOfRange = errors.New("intake amount out of range")

// IntakeLog is a single logged drink.
type IntakeLog struct {
	ID        uuid.UUID
	Timestamp time.Time
	AmountMl  int
}

// HydrationState is the per-profile tracking state for the current day.
type HydrationState struct {
	LastDrinkTime    *time.Time // nil when nothing was logged today
	TodayTotal       int
	TodayDate        string // YYYY-MM-DD in the profile's wall clock
	IntakeLogs       []IntakeLog
	NextReminderTime *time.Time
}

// NewHydrationState returns an empty state for now's calendar day.
func NewHydrationState(now time.Time) HydrationState {
	return HydrationState{TodayDate: now.Format(DateLayout)}
}

// ResetIfNewDay clears the state when now falls on a different day than TodayDate.
// It reports whether a reset happened.
func (h *HydrationState) ResetIfNewDay(now time.Time) bool {
	today := now.Format(DateLayout)
	if h.TodayDate == today {
		return false
	}
	*h = NewHydrationState(now)
	return true
}

// ValidateIntake checks a drink amount.
func ValidateIntake(amountMl int) error {
	if amountMl < MinIntakeMl || amountMl > MaxIntakeMl {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrIntakeOutOfRange, amountMl, MinIntakeMl, MaxIntakeMl)
	}
	return nil
}

// LogIntake records a drink at now and recomputes the next reminder from it.
func (h *HydrationState) LogIntake(amountMl int, s Settings, now time.Time, id uuid.UUID) (IntakeLog, error) {
	if err := ValidateIntake(amountMl); err != nil {
		return IntakeLog{}, err
	}
	next, err := NextReminder(&now, s, now)
	if err != nil {
		return IntakeLog{}, err
	}

	h.ResetIfNewDay(now)
	entry := IntakeLog{ID: id, Timestamp: now, AmountMl: amountMl}
	h.IntakeLogs = append(h.IntakeLogs, entry)
	h.TodayTotal += amountMl
	last := now
	h.LastDrinkTime = &last
	h.NextReminderTime = &next
	return entry, nil
}

// RefreshNextReminder recomputes NextReminderTime from LastDrinkTime.
// It reports whether the stored value changed.
func (h *HydrationState) RefreshNextReminder(s Settings, now time.Time) (bool, error) {
	next, err := NextReminder(h.LastDrinkTime, s, now)
	if err != nil {
		return false, err
	}
	if h.NextReminderTime != nil && h.NextReminderTime.Equal(next) {
		return false, nil
	}
	h.NextReminderTime = &next
	return true, nil
}

// RemainingToGoal returns the ml left to reach the goal, never negative.
func RemainingToGoal(todayTotal, dailyGoalMl int) int {
	return max(dailyGoalMl-todayTotal, 0)
}

// ProgressPercent returns progress toward the goal, capped at 100.
func ProgressPercent(todayTotal, dailyGoalMl int) float64 {
	if dailyGoalMl <= 0 {
		return 100
	}
	return min(float64(todayTotal)/float64(dailyGoalMl)*100, 100)
}

func IsGoalMet(todayTotal, dailyGoalMl int) bool {
	return todayTotal >= dailyGoalMl
}

// ExcessAmount returns the ml over the goal, or 0.
func ExcessAmount(todayTotal, dailyGoalMl int) int {
	return max(todayTotal-dailyGoalMl, 0)
}
