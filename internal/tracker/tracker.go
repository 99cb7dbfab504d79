// Package tracker owns the per-profile hydration workflow shared by the
// Telegram bot, the MCP server and the refresh scheduler: it loads settings
// and state from the store, reads the clock on the profile's wall clock, runs
// the reminder calculator after every mutation and persists the result.
package tracker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ykvlv/hydration-bot/internal/domain"
	"github.com/ykvlv/hydration-bot/internal/store"
)

// Tracker coordinates profiles, hydration state and reminder computation.
type Tracker struct {
	repo      store.Repo
	clock     domain.Clock
	log       *zap.Logger
	defaultTZ string
	newID     func() uuid.UUID
}

// New creates a Tracker. defaultTZ is assigned to profiles created on first use.
func New(repo store.Repo, clock domain.Clock, log *zap.Logger, defaultTZ string) *Tracker {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		repo:      repo,
		clock:     clock,
		log:       log,
		defaultTZ: defaultTZ,
		newID:     uuid.New,
	}
}

// Status is a snapshot of a profile's settings and today's hydration.
type Status struct {
	Profile   domain.Profile
	Hydration domain.HydrationState
	Now       time.Time // on the profile's wall clock
}

func (s Status) Remaining() int {
	return domain.RemainingToGoal(s.Hydration.TodayTotal, s.Profile.Settings.DailyGoalMl)
}

func (s Status) Progress() float64 {
	return domain.ProgressPercent(s.Hydration.TodayTotal, s.Profile.Settings.DailyGoalMl)
}

func (s Status) GoalMet() bool {
	return domain.IsGoalMet(s.Hydration.TodayTotal, s.Profile.Settings.DailyGoalMl)
}

func (s Status) Excess() int {
	return domain.ExcessAmount(s.Hydration.TodayTotal, s.Profile.Settings.DailyGoalMl)
}

// NextReminder returns the stored next reminder on the profile's wall clock.
func (s Status) NextReminder() (time.Time, bool) {
	if s.Hydration.NextReminderTime == nil {
		return time.Time{}, false
	}
	return s.Hydration.NextReminderTime.In(s.Now.Location()), true
}

// Due reports whether the next reminder is at or before now.
func (s Status) Due() bool {
	next, ok := s.NextReminder()
	return ok && !next.After(s.Now)
}

// EnsureProfile returns the profile for chatID, creating it with defaults when missing.
func (t *Tracker) EnsureProfile(ctx context.Context, chatID int64) (*domain.Profile, error) {
	p, err := t.repo.GetProfile(ctx, chatID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	p = &domain.Profile{
		ChatID:    chatID,
		TZ:        t.defaultTZ,
		Settings:  domain.DefaultSettings(),
		CreatedAt: t.clock.Now().UTC(),
	}
	if err := t.repo.UpsertProfile(ctx, p); err != nil {
		return nil, err
	}
	t.log.Info("profile created", zap.Int64("chatID", chatID), zap.String("tz", p.TZ))
	return p, nil
}

// load reads profile and state, applies the daily reset and reports whether
// the state needs saving.
func (t *Tracker) load(ctx context.Context, chatID int64) (Status, bool, error) {
	p, err := t.EnsureProfile(ctx, chatID)
	if err != nil {
		return Status{}, false, err
	}
	now := p.LocalNow(t.clock)

	dirty := false
	h, err := t.repo.LoadHydration(ctx, chatID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		fresh := domain.NewHydrationState(now)
		h, dirty = &fresh, true
	case err != nil:
		return Status{}, false, err
	default:
		localize(h, now.Location())
	}

	if h.ResetIfNewDay(now) {
		t.log.Debug("daily reset", zap.Int64("chatID", chatID), zap.String("date", h.TodayDate))
		dirty = true
	}
	return Status{Profile: *p, Hydration: *h, Now: now}, dirty, nil
}

func (t *Tracker) save(ctx context.Context, st *Status) error {
	return t.repo.SaveHydration(ctx, st.Profile.ChatID, &st.Hydration)
}

// Status returns the current snapshot. A missing next reminder is computed and persisted.
func (t *Tracker) Status(ctx context.Context, chatID int64) (Status, error) {
	st, dirty, err := t.load(ctx, chatID)
	if err != nil {
		return Status{}, err
	}
	if st.Hydration.NextReminderTime == nil {
		if _, err := st.Hydration.RefreshNextReminder(st.Profile.Settings, st.Now); err != nil {
			return Status{}, err
		}
		dirty = true
	}
	if dirty {
		if err := t.save(ctx, &st); err != nil {
			return Status{}, err
		}
	}
	return st, nil
}

// LogIntake records a drink of amountMl. Amounts outside the intake range are
// rejected with domain.ErrIntakeOutOfRange.
func (t *Tracker) LogIntake(ctx context.Context, chatID int64, amountMl int) (Status, domain.IntakeLog, error) {
	return t.logIntake(ctx, chatID, &amountMl)
}

// LogDefaultIntake records a drink of the profile's default amount.
func (t *Tracker) LogDefaultIntake(ctx context.Context, chatID int64) (Status, domain.IntakeLog, error) {
	return t.logIntake(ctx, chatID, nil)
}

func (t *Tracker) logIntake(ctx context.Context, chatID int64, amountMl *int) (Status, domain.IntakeLog, error) {
	st, _, err := t.load(ctx, chatID)
	if err != nil {
		return Status{}, domain.IntakeLog{}, err
	}
	amount := st.Profile.Settings.DefaultAmountMl
	if amountMl != nil {
		amount = *amountMl
	}

	entry, err := st.Hydration.LogIntake(amount, st.Profile.Settings, st.Now, t.newID())
	if err != nil {
		return Status{}, domain.IntakeLog{}, err
	}
	if err := t.save(ctx, &st); err != nil {
		return Status{}, domain.IntakeLog{}, err
	}
	t.log.Info("intake logged",
		zap.Int64("chatID", chatID),
		zap.Int("amountMl", amount),
		zap.Int("todayTotal", st.Hydration.TodayTotal),
		zap.Timep("nextReminder", st.Hydration.NextReminderTime),
	)
	return st, entry, nil
}

// UpdateSettings applies a partial settings change and recomputes the next reminder.
func (t *Tracker) UpdateSettings(ctx context.Context, chatID int64, patch domain.SettingsPatch) (Status, error) {
	st, _, err := t.load(ctx, chatID)
	if err != nil {
		return Status{}, err
	}
	updated, err := st.Profile.Settings.Apply(patch)
	if err != nil {
		return Status{}, err
	}
	st.Profile.Settings = updated
	if err := t.repo.UpsertProfile(ctx, &st.Profile); err != nil {
		return Status{}, err
	}
	return t.recompute(ctx, st)
}

// ResetSettings restores the default settings.
func (t *Tracker) ResetSettings(ctx context.Context, chatID int64) (Status, error) {
	st, _, err := t.load(ctx, chatID)
	if err != nil {
		return Status{}, err
	}
	st.Profile.Settings = domain.DefaultSettings()
	if err := t.repo.UpsertProfile(ctx, &st.Profile); err != nil {
		return Status{}, err
	}
	return t.recompute(ctx, st)
}

// SetTimezone changes the wall clock the profile is tracked on.
func (t *Tracker) SetTimezone(ctx context.Context, chatID int64, tz string) (Status, error) {
	name, err := domain.ValidateTZ(tz)
	if err != nil {
		return Status{}, err
	}
	p, err := t.EnsureProfile(ctx, chatID)
	if err != nil {
		return Status{}, err
	}
	p.TZ = name
	if err := t.repo.UpsertProfile(ctx, p); err != nil {
		return Status{}, err
	}
	st, _, err := t.load(ctx, chatID)
	if err != nil {
		return Status{}, err
	}
	return t.recompute(ctx, st)
}

// ResetToday discards today's intake and starts a fresh day.
func (t *Tracker) ResetToday(ctx context.Context, chatID int64) (Status, error) {
	st, _, err := t.load(ctx, chatID)
	if err != nil {
		return Status{}, err
	}
	st.Hydration = domain.NewHydrationState(st.Now)
	return t.recompute(ctx, st)
}

// Refresh applies the daily reset and fills in a missing next reminder. A
// stored reminder is left alone so it can become due; settings changes and
// intake recompute it instead.
func (t *Tracker) Refresh(ctx context.Context, chatID int64) (bool, error) {
	st, dirty, err := t.load(ctx, chatID)
	if err != nil {
		return false, err
	}
	if !dirty && st.Hydration.NextReminderTime != nil {
		return false, nil
	}
	if _, err := st.Hydration.RefreshNextReminder(st.Profile.Settings, st.Now); err != nil {
		return false, err
	}
	return true, t.save(ctx, &st)
}

// History returns the latest intake logs on the profile's wall clock.
func (t *Tracker) History(ctx context.Context, chatID int64, limit int) ([]domain.IntakeLog, error) {
	p, err := t.EnsureProfile(ctx, chatID)
	if err != nil {
		return nil, err
	}
	logs, err := t.repo.IntakeHistory(ctx, chatID, limit)
	if err != nil {
		return nil, err
	}
	loc := p.Location()
	for i := range logs {
		logs[i].Timestamp = logs[i].Timestamp.In(loc)
	}
	return logs, nil
}

// Clear removes all stored data for chatID.
func (t *Tracker) Clear(ctx context.Context, chatID int64) error {
	if err := t.repo.ClearProfile(ctx, chatID); err != nil {
		return err
	}
	t.log.Info("profile cleared", zap.Int64("chatID", chatID))
	return nil
}

func (t *Tracker) recompute(ctx context.Context, st Status) (Status, error) {
	if _, err := st.Hydration.RefreshNextReminder(st.Profile.Settings, st.Now); err != nil {
		return Status{}, err
	}
	if err := t.save(ctx, &st); err != nil {
		return Status{}, err
	}
	return st, nil
}

// localize moves stored UTC instants onto loc so wall-clock arithmetic uses local time.
func localize(h *domain.HydrationState, loc *time.Location) {
	if h.LastDrinkTime != nil {
		v := h.LastDrinkTime.In(loc)
		h.LastDrinkTime = &v
	}
	if h.NextReminderTime != nil {
		v := h.NextReminderTime.In(loc)
		h.NextReminderTime = &v
	}
	for i := range h.IntakeLogs {
		h.IntakeLogs[i].Timestamp = h.IntakeLogs[i].Timestamp.In(loc)
	}
}
