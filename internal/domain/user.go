package domain

import "time"

// Profile is a tracked person: a Telegram chat, or the fixed MCP profile.
type Profile struct {
	ChatID    int64
	TZ        string // IANA name; only selects the wall clock "now" is read in
	Settings  Settings
	CreatedAt time.Time // UTC
}

// Location returns the profile's location, falling back to UTC.
func (p *Profile) Location() *time.Location {
	loc, err := time.LoadLocation(p.TZ)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LocalNow returns clock's current instant on the profile's wall clock.
func (p *Profile) LocalNow(clock Clock) time.Time {
	return clock.Now().In(p.Location())
}
