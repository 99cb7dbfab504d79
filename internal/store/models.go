package store

import (
	"database/sql"
	"time"

	"github.com/ykvlv/hydration-bot/internal/domain"
)

func toNullInt64(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UTC().Unix(), Valid: true}
}

func fromNullInt64(ns sql.NullInt64) *time.Time {
	if !ns.Valid {
		return nil
	}
	t := time.Unix(ns.Int64, 0).UTC()
	return &t
}

// settingsRow mirrors the settings columns of the profiles table.
type settingsRow struct {
	IntervalMin     int
	SleepStart      string
	SleepEnd        string
	DailyGoalMl     int
	DefaultAmountMl int
}

func encodeSettings(s domain.Settings) settingsRow {
	return settingsRow{
		IntervalMin:     s.ReminderIntervalMinutes,
		SleepStart:      s.SleepStart.String(),
		SleepEnd:        s.SleepEnd.String(),
		DailyGoalMl:     s.DailyGoalMl,
		DefaultAmountMl: s.DefaultAmountMl,
	}
}

// decodeSettings converts stored columns back to settings. Rows that fail
// parsing or validation yield the defaults and ok=false.
func decodeSettings(r settingsRow) (s domain.Settings, ok bool) {
	start, err := domain.ParseTimeOfDay(r.SleepStart)
	if err != nil {
		return domain.DefaultSettings(), false
	}
	end, err := domain.ParseTimeOfDay(r.SleepEnd)
	if err != nil {
		return domain.DefaultSettings(), false
	}
	s = domain.Settings{
		ReminderIntervalMinutes: r.IntervalMin,
		SleepStart:              start,
		SleepEnd:                end,
		DailyGoalMl:             r.DailyGoalMl,
		DefaultAmountMl:         r.DefaultAmountMl,
	}
	if s.Validate() != nil {
		return domain.DefaultSettings(), false
	}
	return s, true
}
