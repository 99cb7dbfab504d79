package telegram

import (
	"context"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ykvlv/hydration-bot/internal/tracker"
)

// Pending state keys used in conversational flows.
const (
	pendingInterval = "await_interval_text"
	pendingSleep    = "await_sleep_text"
	pendingGoal     = "await_goal_text"
	pendingAmount   = "await_amount_text"
	pendingDrink    = "await_drink_text"
	pendingTZ       = "await_tz_text"
)

// BotAPI is the subset of *tgbotapi.BotAPI the router uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Router wires Telegram updates to handlers and holds minimal in-memory state.
type Router struct {
	bot     BotAPI
	log     *zap.Logger
	tracker *tracker.Tracker
	state   map[int64]string // chatID -> pending state
	mu      sync.RWMutex
}

// NewRouter creates a new Telegram router.
func NewRouter(bot BotAPI, log *zap.Logger, tr *tracker.Tracker) *Router {
	return &Router{
		bot:     bot,
		log:     log,
		tracker: tr,
		state:   make(map[int64]string),
	}
}

// setPending sets a pending state for a chat (non-persistent, in-memory).
func (r *Router) setPending(chatID int64, s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state[chatID] = s
}

// getPending returns current pending state for a chat.
func (r *Router) getPending(chatID int64) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state[chatID]
}

// clearPending clears a pending state for a chat.
func (r *Router) clearPending(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.state, chatID)
}

// HandleUpdate routes a single update to appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil {
		msg := upd.Message
		chatID := msg.Chat.ID
		text := strings.TrimSpace(msg.Text)

		switch {
		case strings.HasPrefix(text, "/start"):
			r.clearPending(chatID)
			r.handleStart(ctx, chatID)
		case strings.HasPrefix(text, "/status"):
			r.clearPending(chatID)
			r.handleStatus(ctx, chatID)
		case strings.HasPrefix(text, "/drink"):
			r.clearPending(chatID)
			r.handleDrink(ctx, chatID, strings.TrimSpace(strings.TrimPrefix(text, "/drink")))
		case strings.HasPrefix(text, "/settings"):
			r.clearPending(chatID)
			r.handleSettings(ctx, chatID)
		case strings.HasPrefix(text, "/history"):
			r.clearPending(chatID)
			r.handleHistory(ctx, chatID)
		case strings.HasPrefix(text, "/forget"):
			r.clearPending(chatID)
			r.handleForget(ctx, chatID)
		case strings.HasPrefix(text, "/reset"):
			r.clearPending(chatID)
			r.handleResetToday(ctx, chatID)
		default:
			// Free-form text used in "Custom" flows
			r.handleFreeForm(ctx, chatID, text)
		}
		return
	}

	if upd.CallbackQuery != nil {
		cb := upd.CallbackQuery
		if cb.Message == nil {
			return
		}
		data := cb.Data
		chatID := cb.Message.Chat.ID

		switch {
		case strings.HasPrefix(data, "drink:"):
			r.handleDrinkCallback(ctx, chatID, data, cb.ID)

		case data == "set_interval":
			r.askPresets(chatID, cb.ID, "Choose a reminder interval (or Custom):", intervalPresetsKeyboard())
		case strings.HasPrefix(data, "interval:"):
			r.handleIntervalCallback(ctx, chatID, data, cb.ID)

		case data == "set_sleep":
			r.askPresets(chatID, cb.ID, "Choose your sleep window (or Custom):", sleepPresetsKeyboard())
		case strings.HasPrefix(data, "sleep:"):
			r.handleSleepCallback(ctx, chatID, data, cb.ID)

		case data == "set_goal":
			r.askPresets(chatID, cb.ID, "Choose a daily goal (or Custom):", goalPresetsKeyboard())
		case strings.HasPrefix(data, "goal:"):
			r.handleGoalCallback(ctx, chatID, data, cb.ID)

		case data == "set_amount":
			r.askPresets(chatID, cb.ID, "Choose the default glass size (or Custom):", amountPresetsKeyboard())
		case strings.HasPrefix(data, "amount:"):
			r.handleAmountCallback(ctx, chatID, data, cb.ID)

		case data == "set_tz":
			r.askPresets(chatID, cb.ID, "Choose a timezone or enter your own (Region/City):", tzPresetsKeyboard())
		case strings.HasPrefix(data, "tz:"):
			r.handleTZCallback(ctx, chatID, data, cb.ID)

		case data == "reset_settings":
			r.handleResetSettings(ctx, chatID, cb.ID)
		case data == "back_to_menu":
			_ = r.answerCallback(cb.ID, "")
			r.handleSettings(ctx, chatID)

		default:
			// Unknown callback: ignore silently
			_ = r.answerCallback(cb.ID, "")
		}
	}
}
