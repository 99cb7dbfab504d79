package domain

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MinIntervalMinutes = 15
	MaxIntervalMinutes = 480
	MinDailyGoalMl     = 500
	MaxDailyGoalMl     = 5000
	MinDefaultAmountMl = 50
	MaxDefaultAmountMl = 1000
)

var (
	ErrIntervalOutOfRange = errors.New("reminder interval out of range")
	ErrGoalOutOfRange     = errors.New("daily goal out of range")
	ErrAmountOutOfRange   = errors.New("default amount out of range")
)

// Settings holds a profile's reminder schedule and hydration goals.
type Settings struct {
	ReminderIntervalMinutes int
	SleepStart              TimeOfDay
	SleepEnd                TimeOfDay
	DailyGoalMl             int
	DefaultAmountMl         int
}

// DefaultSettings returns the settings used for new profiles and as a fallback for corrupted rows.
func DefaultSettings() Settings {
	return Settings{
		ReminderIntervalMinutes: 120,
		SleepStart:              TimeOfDay{Hour: 23},
		SleepEnd:                TimeOfDay{Hour: 7},
		DailyGoalMl:             2000,
		DefaultAmountMl:         250,
	}
}

// FieldError describes one invalid settings field.
type FieldError struct {
	Field  string
	Reason string
	Err    error
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	return "invalid settings: " + strings.Join(parts, "; ")
}

// Is lets errors.Is match any of the field sentinels.
func (e *ValidationError) Is(target error) bool {
	for _, f := range e.Fields {
		if errors.Is(f.Err, target) {
			return true
		}
	}
	return false
}

// Validate checks every field and returns a *ValidationError, or nil.
func (s Settings) Validate() error {
	var ve ValidationError
	add := func(field string, err error, format string, args ...any) {
		ve.Fields = append(ve.Fields, FieldError{Field: field, Reason: fmt.Sprintf(format, args...), Err: err})
	}

	if s.ReminderIntervalMinutes < MinIntervalMinutes || s.ReminderIntervalMinutes > MaxIntervalMinutes {
		add("reminderIntervalMinutes", ErrIntervalOutOfRange, "%d not in [%d, %d]",
			s.ReminderIntervalMinutes, MinIntervalMinutes, MaxIntervalMinutes)
	}
	if !s.SleepStart.Valid() {
		add("sleepStart", ErrInvalidTimeOfDay, "%02d:%02d is not a valid HH:MM", s.SleepStart.Hour, s.SleepStart.Minute)
	}
	if !s.SleepEnd.Valid() {
		add("sleepEnd", ErrInvalidTimeOfDay, "%02d:%02d is not a valid HH:MM", s.SleepEnd.Hour, s.SleepEnd.Minute)
	}
	if s.DailyGoalMl < MinDailyGoalMl || s.DailyGoalMl > MaxDailyGoalMl {
		add("dailyGoalMl", ErrGoalOutOfRange, "%d not in [%d, %d]", s.DailyGoalMl, MinDailyGoalMl, MaxDailyGoalMl)
	}
	if s.DefaultAmountMl < MinDefaultAmountMl || s.DefaultAmountMl > MaxDefaultAmountMl {
		add("defaultAmountMl", ErrAmountOutOfRange, "%d not in [%d, %d]",
			s.DefaultAmountMl, MinDefaultAmountMl, MaxDefaultAmountMl)
	}

	if len(ve.Fields) == 0 {
		return nil
	}
	return &ve
}

// SettingsPatch is a partial settings update; nil fields are left unchanged.
type SettingsPatch struct {
	ReminderIntervalMinutes *int
	SleepStart              *TimeOfDay
	SleepEnd                *TimeOfDay
	DailyGoalMl             *int
	DefaultAmountMl         *int
}

// Apply merges p into s and validates the result. s is returned unchanged on error.
func (s Settings) Apply(p SettingsPatch) (Settings, error) {
	merged := s
	if p.ReminderIntervalMinutes != nil {
		merged.ReminderIntervalMinutes = *p.ReminderIntervalMinutes
	}
	if p.SleepStart != nil {
		merged.SleepStart = *p.SleepStart
	}
	if p.SleepEnd != nil {
		merged.SleepEnd = *p.SleepEnd
	}
	if p.DailyGoalMl != nil {
		merged.DailyGoalMl = *p.DailyGoalMl
	}
	if p.DefaultAmountMl != nil {
		merged.DefaultAmountMl = *p.DefaultAmountMl
	}
	if err := merged.Validate(); err != nil {
		return s, err
	}
	return merged, nil
}

// Empty reports whether the patch changes nothing.
func (p SettingsPatch) Empty() bool {
	return p.ReminderIntervalMinutes == nil && p.SleepStart == nil && p.SleepEnd == nil &&
		p.DailyGoalMl == nil && p.DefaultAmountMl == nil
}
