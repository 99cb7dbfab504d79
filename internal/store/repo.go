package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ykvlv/hydration-bot/internal/domain"
)

// ErrNotFound is returned when a profile or its hydration row does not exist.
var ErrNotFound = fmt.Errorf("not found: %w", sql.ErrNoRows)

// Repo defines storage operations for profiles and hydration tracking.
type Repo interface {
	UpsertProfile(ctx context.Context, p *domain.Profile) error
	GetProfile(ctx context.Context, chatID int64) (*domain.Profile, error)
	ListProfiles(ctx context.Context, afterID int64, limit int) ([]domain.Profile, error)
	LoadHydration(ctx context.Context, chatID int64) (*domain.HydrationState, error)
	SaveHydration(ctx context.Context, chatID int64, h *domain.HydrationState) error
	IntakeHistory(ctx context.Context, chatID int64, limit int) ([]domain.IntakeLog, error)
	ClearProfile(ctx context.Context, chatID int64) error
	Close() error
}
