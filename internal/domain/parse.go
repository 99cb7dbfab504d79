package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrEmptyInterval   = errors.New("empty interval")
	ErrInvalidInterval = errors.New("invalid interval")
	ErrInvalidWindow   = errors.New("invalid sleep window")
)

var (
	hoursRe   = regexp.MustCompile(`(\d+)\s*h`)
	minutesRe = regexp.MustCompile(`(\d+)\s*m`)
)

// ParseInterval parses human-friendly intervals like "90", "45m", "1h30m", "2h"
// into minutes. The result must be within [MinIntervalMinutes, MaxIntervalMinutes].
func ParseInterval(s string) (int, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, ErrEmptyInterval
	}

	var total int
	if isAllDigits(s) {
		// Plain number means minutes.
		total, _ = strconv.Atoi(s)
	} else {
		if mh := hoursRe.FindStringSubmatch(s); len(mh) == 2 {
			h, _ := strconv.Atoi(mh[1])
			total += h * 60
		}
		if mm := minutesRe.FindStringSubmatch(s); len(mm) == 2 {
			m, _ := strconv.Atoi(mm[1])
			total += m
		}
		if total == 0 {
			return 0, fmt.Errorf("%w: %s", ErrInvalidInterval, s)
		}
	}

	if total < MinIntervalMinutes || total > MaxIntervalMinutes {
		return 0, fmt.Errorf("%w: %dm not in [%dm, %dm]", ErrIntervalOutOfRange, total, MinIntervalMinutes, MaxIntervalMinutes)
	}
	return total, nil
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// ParseSleepWindow parses "HH:MM–HH:MM" or "HH:MM-HH:MM".
func ParseSleepWindow(s string) (start, end TimeOfDay, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return start, end, fmt.Errorf("%w: empty", ErrInvalidWindow)
	}
	sep := "–"
	if strings.Contains(s, "-") && !strings.Contains(s, "–") {
		sep = "-"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 2 {
		return start, end, fmt.Errorf("%w: expected HH:MM–HH:MM", ErrInvalidWindow)
	}
	start, err = ParseTimeOfDay(strings.TrimSpace(parts[0]))
	if err != nil {
		return start, end, fmt.Errorf("start: %w", err)
	}
	end, err = ParseTimeOfDay(strings.TrimSpace(parts[1]))
	if err != nil {
		return start, end, fmt.Errorf("end: %w", err)
	}
	return start, end, nil
}

// ValidateTZ checks that the tz is a valid IANA location.
func ValidateTZ(tz string) (string, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return "", err
	}
	return loc.String(), nil
}

// FormatDuration renders minutes as "45m", "2h" or "1h 30m".
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// DifferenceInMinutes returns a-b rounded to whole minutes.
func DifferenceInMinutes(a, b time.Time) int {
	return int(a.Sub(b).Round(time.Minute) / time.Minute)
}

// FormatCountdown describes next relative to now: "in 1h 30m", or "due now" once passed.
func FormatCountdown(next, now time.Time) string {
	diff := DifferenceInMinutes(next, now)
	if diff <= 0 {
		return "due now"
	}
	return "in " + FormatDuration(diff)
}

// FormatDateTime renders t as "Nov 27, 14:30" on t's wall clock.
func FormatDateTime(t time.Time) string {
	return t.Format("Jan 2, 15:04")
}
