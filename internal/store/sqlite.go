package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/ykvlv/hydration-bot/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct {
	db  *sql.DB
	log *zap.Logger
}

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string, log *zap.Logger) (*SQLiteRepo, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Reasonable pooling for SQLite; it's a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db, log: log}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// UpsertProfile inserts or updates a profile's timezone and settings.
func (r *SQLiteRepo) UpsertProfile(ctx context.Context, p *domain.Profile) error {
	if p == nil {
		return errors.New("nil profile")
	}
	if err := p.Settings.Validate(); err != nil {
		return err
	}

	created := p.CreatedAt.UTC().Unix()
	if p.CreatedAt.IsZero() {
		created = time.Now().UTC().Unix()
	}
	s := encodeSettings(p.Settings)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (
			chat_id, created_at, tz, interval_min,
			sleep_start, sleep_end, daily_goal_ml, default_amount_ml
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			tz                = excluded.tz,
			interval_min      = excluded.interval_min,
			sleep_start       = excluded.sleep_start,
			sleep_end         = excluded.sleep_end,
			daily_goal_ml     = excluded.daily_goal_ml,
			default_amount_ml = excluded.default_amount_ml`,
		p.ChatID, created, p.TZ, s.IntervalMin,
		s.SleepStart, s.SleepEnd, s.DailyGoalMl, s.DefaultAmountMl,
	)
	return err
}

const profileColumns = `chat_id, created_at, tz, interval_min,
	sleep_start, sleep_end, daily_goal_ml, default_amount_ml`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteRepo) scanProfile(row rowScanner) (*domain.Profile, error) {
	var (
		p         domain.Profile
		createdAt int64
		s         settingsRow
	)
	if err := row.Scan(
		&p.ChatID, &createdAt, &p.TZ, &s.IntervalMin,
		&s.SleepStart, &s.SleepEnd, &s.DailyGoalMl, &s.DefaultAmountMl,
	); err != nil {
		return nil, err
	}

	settings, ok := decodeSettings(s)
	if !ok {
		r.log.Warn("stored settings invalid, using defaults",
			zap.Int64("chatID", p.ChatID),
			zap.Int("intervalMin", s.IntervalMin),
			zap.String("sleepStart", s.SleepStart),
			zap.String("sleepEnd", s.SleepEnd),
		)
	}
	p.Settings = settings
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &p, nil
}

// GetProfile returns a profile by chatID, or ErrNotFound.
// Settings that no longer validate are replaced by the defaults.
func (r *SQLiteRepo) GetProfile(ctx context.Context, chatID int64) (*domain.Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE chat_id = ?`, chatID)
	p, err := r.scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

// ListProfiles returns up to limit profiles with chat id greater than afterID,
// ordered by chat id.
func (r *SQLiteRepo) ListProfiles(ctx context.Context, afterID int64, limit int) ([]domain.Profile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE chat_id > ?
		ORDER BY chat_id
		LIMIT ?`,
		afterID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Profile
	for rows.Next() {
		p, err := r.scanProfile(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// LoadHydration returns the stored state with today's intake logs, or ErrNotFound.
// Timestamps are returned in UTC.
func (r *SQLiteRepo) LoadHydration(ctx context.Context, chatID int64) (*domain.HydrationState, error) {
	var (
		h      domain.HydrationState
		lastNS sql.NullInt64
		nextNS sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT today_date, today_total, last_drink_at, next_reminder_at
		FROM hydration
		WHERE chat_id = ?`,
		chatID,
	).Scan(&h.TodayDate, &h.TodayTotal, &lastNS, &nextNS)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	h.LastDrinkTime = fromNullInt64(lastNS)
	h.NextReminderTime = fromNullInt64(nextNS)

	h.IntakeLogs, err = r.queryLogs(ctx, `
		SELECT id, ts, amount_ml FROM intake_logs
		WHERE chat_id = ? AND log_date = ?
		ORDER BY ts ASC`,
		chatID, h.TodayDate,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// SaveHydration writes the state row and replaces the intake logs of h.TodayDate.
// Logs of earlier days are kept as history.
func (r *SQLiteRepo) SaveHydration(ctx context.Context, chatID int64, h *domain.HydrationState) error {
	if h == nil {
		return errors.New("nil hydration state")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO hydration (chat_id, today_date, today_total, last_drink_at, next_reminder_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			today_date       = excluded.today_date,
			today_total      = excluded.today_total,
			last_drink_at    = excluded.last_drink_at,
			next_reminder_at = excluded.next_reminder_at`,
		chatID, h.TodayDate, h.TodayTotal, toNullInt64(h.LastDrinkTime), toNullInt64(h.NextReminderTime),
	); err != nil {
		return fmt.Errorf("save hydration: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM intake_logs WHERE chat_id = ? AND log_date = ?`, chatID, h.TodayDate,
	); err != nil {
		return fmt.Errorf("clear intake logs: %w", err)
	}
	for _, l := range h.IntakeLogs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO intake_logs (id, chat_id, log_date, ts, amount_ml)
			VALUES (?, ?, ?, ?, ?)`,
			l.ID.String(), chatID, h.TodayDate, l.Timestamp.UTC().Unix(), l.AmountMl,
		); err != nil {
			return fmt.Errorf("insert intake log %s: %w", l.ID, err)
		}
	}
	return tx.Commit()
}

// IntakeHistory returns the latest intake logs across all days, newest first.
func (r *SQLiteRepo) IntakeHistory(ctx context.Context, chatID int64, limit int) ([]domain.IntakeLog, error) {
	return r.queryLogs(ctx, `
		SELECT id, ts, amount_ml FROM intake_logs
		WHERE chat_id = ?
		ORDER BY ts DESC
		LIMIT ?`,
		chatID, limit,
	)
}

func (r *SQLiteRepo) queryLogs(ctx context.Context, query string, args ...any) ([]domain.IntakeLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []domain.IntakeLog
	for rows.Next() {
		var (
			id     string
			ts     int64
			amount int
		)
		if err := rows.Scan(&id, &ts, &amount); err != nil {
			return nil, err
		}
		uid, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("intake log id %q: %w", id, err)
		}
		logs = append(logs, domain.IntakeLog{ID: uid, Timestamp: time.Unix(ts, 0).UTC(), AmountMl: amount})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

// ClearProfile removes a profile together with its hydration state and logs.
func (r *SQLiteRepo) ClearProfile(ctx context.Context, chatID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{
		`DELETE FROM intake_logs WHERE chat_id = ?`,
		`DELETE FROM hydration WHERE chat_id = ?`,
		`DELETE FROM profiles WHERE chat_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, chatID); err != nil {
			return err
		}
	}
	return tx.Commit()
}
