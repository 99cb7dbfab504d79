package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ykvlv/hydration-bot/internal/store"
)

// Refresher recomputes and persists one profile's next reminder.
// tracker.Tracker implements this.
type Refresher interface {
	Refresh(ctx context.Context, chatID int64) (bool, error)
}

// Scheduler periodically re-runs the reminder calculator for every profile so
// stored next-reminder values and daily totals stay current without user input.
type Scheduler struct {
	repo      store.Repo
	log       *zap.Logger
	refresher Refresher
	interval  time.Duration
	batch     int
}

// New creates a new Scheduler. A non-positive interval falls back to one minute.
func New(repo store.Repo, log *zap.Logger, refresher Refresher, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		repo:      repo,
		log:       log,
		refresher: refresher,
		interval:  interval,
		batch:     1000,
	}
}

// Run starts the loop until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopping")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick performs one refresh cycle over all profiles, batch by batch, and
// returns how many were updated.
func (s *Scheduler) Tick(ctx context.Context) int {
	var (
		afterID int64
		seen    int
		updated int
	)
	for {
		profiles, err := s.repo.ListProfiles(ctx, afterID, s.batch)
		if err != nil {
			s.log.Error("ListProfiles failed", zap.Error(err), zap.Int64("afterID", afterID))
			return updated
		}

		for _, p := range profiles {
			if ctx.Err() != nil {
				return updated
			}
			afterID = p.ChatID
			seen++
			changed, err := s.refresher.Refresh(ctx, p.ChatID)
			if err != nil {
				s.log.Error("refresh failed", zap.Error(err), zap.Int64("chatID", p.ChatID))
				continue
			}
			if changed {
				updated++
			}
		}
		if len(profiles) < s.batch {
			break
		}
	}
	if updated > 0 {
		s.log.Debug("reminders refreshed", zap.Int("updated", updated), zap.Int("profiles", seen))
	}
	return updated
}
