package telegram

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ykvlv/hydration-bot/internal/domain"
	"github.com/ykvlv/hydration-bot/internal/store"
	"github.com/ykvlv/hydration-bot/internal/tracker"
)

type fakeBot struct {
	mu       sync.Mutex
	sent     []tgbotapi.MessageConfig
	answered []string
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		b.sent = append(b.sent, m)
	}
	return tgbotapi.Message{}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cb, ok := c.(tgbotapi.CallbackConfig); ok {
		b.answered = append(b.answered, cb.CallbackQueryID)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) last(t *testing.T) string {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.sent) == 0 {
		t.Fatal("nothing sent")
	}
	return b.sent[len(b.sent)-1].Text
}

func newTestRouter(t *testing.T) (*Router, *fakeBot, *tracker.Tracker) {
	t.Helper()
	repo, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "tg.db"), nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	clock := domain.FixedClock(time.Date(2025, 11, 27, 10, 0, 0, 0, time.UTC))
	tr := tracker.New(repo, clock, zap.NewNop(), "UTC")
	bot := &fakeBot{}
	return NewRouter(bot, zap.NewNop(), tr), bot, tr
}

func message(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}, Text: text}}
}

func callback(chatID int64, id, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      id,
		Data:    data,
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
	}}
}

func TestDrinkCommand_LogsAmount(t *testing.T) {
	ctx := context.Background()
	r, bot, tr := newTestRouter(t)

	r.HandleUpdate(ctx, message(7, "/drink 300"))

	if got := bot.last(t); !strings.Contains(got, "Logged 300 ml") {
		t.Fatalf("unexpected reply: %q", got)
	}
	st, err := tr.Status(ctx, 7)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.Hydration.TodayTotal != 300 {
		t.Fatalf("total=%d, want 300", st.Hydration.TodayTotal)
	}
}

func TestDrinkCommand_RejectsOutOfRange(t *testing.T) {
	ctx := context.Background()
	r, bot, tr := newTestRouter(t)

	r.HandleUpdate(ctx, message(7, "/drink 5000"))

	if got := bot.last(t); !strings.Contains(got, "between 1 and 2000") {
		t.Fatalf("unexpected reply: %q", got)
	}
	st, _ := tr.Status(ctx, 7)
	if st.Hydration.TodayTotal != 0 {
		t.Fatalf("out of range amount was logged: %d", st.Hydration.TodayTotal)
	}
}

func TestDrinkCommand_RejectsNonPositive(t *testing.T) {
	ctx := context.Background()
	r, bot, tr := newTestRouter(t)

	for _, cmd := range []string{"/drink 0", "/drink -300"} {
		r.HandleUpdate(ctx, message(7, cmd))
		if got := bot.last(t); !strings.Contains(got, "between 1 and 2000") {
			t.Fatalf("%s: unexpected reply: %q", cmd, got)
		}
	}
	st, _ := tr.Status(ctx, 7)
	if st.Hydration.TodayTotal != 0 {
		t.Fatalf("rejected amounts were logged: %d", st.Hydration.TodayTotal)
	}
}

func TestTimezone_InvalidAndStorageFailure(t *testing.T) {
	ctx := context.Background()
	repo, err := store.OpenSQLite(ctx, filepath.Join(t.TempDir(), "tz.db"), nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	tr := tracker.New(repo, domain.FixedClock(time.Date(2025, 11, 27, 10, 0, 0, 0, time.UTC)), zap.NewNop(), "UTC")
	bot := &fakeBot{}
	r := NewRouter(bot, zap.NewNop(), tr)

	r.HandleUpdate(ctx, callback(7, "cb", "tz:Mars/Base"))
	if got := bot.last(t); !strings.HasPrefix(got, "Invalid timezone") {
		t.Fatalf("unexpected reply: %q", got)
	}

	r.HandleUpdate(ctx, callback(7, "cb", "tz:Europe/Moscow"))
	if got := bot.last(t); got != "Timezone updated: Europe/Moscow" {
		t.Fatalf("unexpected reply: %q", got)
	}

	_ = repo.Close()
	r.HandleUpdate(ctx, callback(7, "cb", "tz:Asia/Almaty"))
	if got := bot.last(t); got != "Could not save timezone." {
		t.Fatalf("storage failure reported as %q", got)
	}
}

func TestCustomIntervalFlow(t *testing.T) {
	ctx := context.Background()
	r, bot, tr := newTestRouter(t)

	r.HandleUpdate(ctx, callback(7, "cb1", "interval:custom"))
	if r.getPending(7) != pendingInterval {
		t.Fatalf("pending=%q", r.getPending(7))
	}
	r.HandleUpdate(ctx, message(7, "1h30m"))

	if r.getPending(7) != "" {
		t.Fatal("pending state not cleared")
	}
	if got := bot.last(t); !strings.Contains(got, "Interval updated: 1h 30m") {
		t.Fatalf("unexpected reply: %q", got)
	}
	st, _ := tr.Status(ctx, 7)
	if st.Profile.Settings.ReminderIntervalMinutes != 90 {
		t.Fatalf("interval=%d", st.Profile.Settings.ReminderIntervalMinutes)
	}
	if len(bot.answered) != 1 || bot.answered[0] != "cb1" {
		t.Fatalf("callback not answered: %v", bot.answered)
	}
}

func TestSleepPresetCallback(t *testing.T) {
	ctx := context.Background()
	r, _, tr := newTestRouter(t)

	r.HandleUpdate(ctx, callback(7, "cb", "sleep:22:00-06:00"))

	st, _ := tr.Status(ctx, 7)
	s := st.Profile.Settings
	if s.SleepStart.String() != "22:00" || s.SleepEnd.String() != "06:00" {
		t.Fatalf("sleep window %s-%s", s.SleepStart, s.SleepEnd)
	}
}

func TestGoalOutOfRange_KeepsSettings(t *testing.T) {
	ctx := context.Background()
	r, bot, tr := newTestRouter(t)

	r.HandleUpdate(ctx, callback(7, "cb", "goal:custom"))
	r.HandleUpdate(ctx, message(7, "100"))

	if got := bot.last(t); !strings.HasPrefix(got, "Not saved: dailyGoalMl") {
		t.Fatalf("unexpected reply: %q", got)
	}
	st, _ := tr.Status(ctx, 7)
	if st.Profile.Settings.DailyGoalMl != domain.DefaultSettings().DailyGoalMl {
		t.Fatalf("goal changed to %d", st.Profile.Settings.DailyGoalMl)
	}
}

func TestForget_RemovesHistory(t *testing.T) {
	ctx := context.Background()
	r, bot, tr := newTestRouter(t)

	r.HandleUpdate(ctx, message(7, "/drink 200"))
	r.HandleUpdate(ctx, message(7, "/forget"))

	if got := bot.last(t); !strings.HasPrefix(got, "All your data was deleted") {
		t.Fatalf("unexpected reply: %q", got)
	}
	logs, err := tr.History(ctx, 7, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(logs) != 0 {
		t.Fatalf("history not cleared: %v", logs)
	}
}

func TestFreeFormWithoutPending_Ignored(t *testing.T) {
	r, bot, _ := newTestRouter(t)

	r.HandleUpdate(context.Background(), message(7, "hello"))

	if len(bot.sent) != 0 {
		t.Fatalf("unexpected replies: %d", len(bot.sent))
	}
}

func TestFormatStatus(t *testing.T) {
	now := time.Date(2025, 11, 27, 10, 0, 0, 0, time.UTC)
	next := now.Add(90 * time.Minute)
	st := tracker.Status{
		Profile: domain.Profile{ChatID: 1, TZ: "UTC", Settings: domain.DefaultSettings()},
		Hydration: domain.HydrationState{
			TodayTotal:       2250,
			TodayDate:        "2025-11-27",
			NextReminderTime: &next,
		},
		Now: now,
	}

	got := formatStatus(st)
	for _, want := range []string{"2250 / 2000 ml (100%)", "Goal reached (+250 ml)", "Nov 27, 11:30 (in 1h 30m)", "Sleep: 23:00–07:00"} {
		if !strings.Contains(got, want) {
			t.Errorf("status missing %q:\n%s", want, got)
		}
	}
}
