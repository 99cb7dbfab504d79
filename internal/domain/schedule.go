package domain

import "time"

// Clock provides the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Useful in tests and one-off computations.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// InWindow reports whether localM (minutes since midnight) lies in [fromM, toM).
// Supports wrap-around windows like 23:00–07:00 (fromM > toM).
func InWindow(localM, fromM, toM int) bool {
	if fromM == toM {
		return false // zero-length window
	}
	if fromM < toM {
		return localM >= fromM && localM < toM
	}
	// wrap: [from..1440) U [0..to)
	return localM >= fromM || localM < toM
}

// IsInSleepPeriod reports whether t's wall-clock time falls inside the sleep window.
// Start is inclusive, end is exclusive; start == end is never asleep.
func IsInSleepPeriod(t time.Time, sleepStart, sleepEnd TimeOfDay) bool {
	return InWindow(TimeOfDayOf(t).Minutes(), sleepStart.Minutes(), sleepEnd.Minutes())
}

// NextWakeTime returns the first occurrence of sleepEnd strictly after now.
func NextWakeTime(now time.Time, sleepEnd TimeOfDay) time.Time {
	wake := sleepEnd.On(now)
	if !wake.After(now) {
		wake = wake.AddDate(0, 0, 1)
	}
	return wake
}

// NextReminder computes when the next reminder should fire.
//
// With no prior intake and now inside the sleep window, the reminder waits for
// the next wake time. Otherwise it fires interval minutes after the last intake
// (or now), unless that lands in the sleep window, in which case it moves to the
// next wake time counted from now, not from the candidate. A candidate already
// in the past is returned as is; callers treat it as due.
func NextReminder(lastEvent *time.Time, s Settings, now time.Time) (time.Time, error) {
	if err := s.Validate(); err != nil {
		return time.Time{}, err
	}

	if lastEvent == nil && IsInSleepPeriod(now, s.SleepStart, s.SleepEnd) {
		return NextWakeTime(now, s.SleepEnd), nil
	}

	base := now
	if lastEvent != nil {
		base = *lastEvent
	}
	candidate := base.Add(time.Duration(s.ReminderIntervalMinutes) * time.Minute)

	if IsInSleepPeriod(candidate, s.SleepStart, s.SleepEnd) {
		return NextWakeTime(now, s.SleepEnd), nil
	}
	return candidate, nil
}
