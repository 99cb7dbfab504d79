package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ykvlv/hydration-bot/internal/domain"
)

// --- Generic helpers ---

func (r *Router) sendText(chatID int64, text string) {
	if _, err := r.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.log.Warn("send failed", zap.Error(err), zap.Int64("chatID", chatID))
	}
}

func (r *Router) sendWithMarkup(chatID int64, text string, markup any) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	if _, err := r.bot.Send(msg); err != nil {
		r.log.Warn("send failed", zap.Error(err), zap.Int64("chatID", chatID))
	}
}

func (r *Router) answerCallback(id, text string) error {
	_, err := r.bot.Request(tgbotapi.NewCallback(id, text))
	return err
}

func (r *Router) askPresets(chatID int64, cbID, prompt string, kb tgbotapi.InlineKeyboardMarkup) {
	_ = r.answerCallback(cbID, "")
	r.sendWithMarkup(chatID, prompt, kb)
}

// userError turns validation failures into a short hint; other errors are logged.
func (r *Router) userError(chatID int64, op string, err error, fallback string) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		r.sendText(chatID, "Not saved: "+ve.Fields[0].Field+" "+ve.Fields[0].Reason+".")
	case errors.Is(err, domain.ErrIntakeOutOfRange):
		r.sendText(chatID, "Amount must be between 1 and 2000 ml.")
	default:
		r.log.Error(op+" failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.sendText(chatID, fallback)
	}
}

// --- Core commands ---

func (r *Router) handleStart(ctx context.Context, chatID int64) {
	if _, err := r.tracker.EnsureProfile(ctx, chatID); err != nil {
		r.log.Error("EnsureProfile failed", zap.Error(err))
		r.sendText(chatID, "Profile initialization error. Please try again later.")
		return
	}
	r.sendWithMarkup(chatID, startText, mainMenuKeyboard())
}

func (r *Router) handleStatus(ctx context.Context, chatID int64) {
	st, err := r.tracker.Status(ctx, chatID)
	if err != nil {
		r.log.Error("Status failed", zap.Error(err))
		r.sendText(chatID, "Error reading your progress.")
		return
	}
	r.sendWithMarkup(chatID, formatStatus(st), mainMenuKeyboard())
}

func (r *Router) handleHistory(ctx context.Context, chatID int64) {
	logs, err := r.tracker.History(ctx, chatID, 10)
	if err != nil {
		r.log.Error("History failed", zap.Error(err))
		r.sendText(chatID, "Error reading your history.")
		return
	}
	r.sendText(chatID, formatHistory(logs))
}

func (r *Router) handleResetToday(ctx context.Context, chatID int64) {
	st, err := r.tracker.ResetToday(ctx, chatID)
	if err != nil {
		r.log.Error("ResetToday failed", zap.Error(err))
		r.sendText(chatID, "Could not reset today.")
		return
	}
	r.sendText(chatID, "Today's intake was reset.\n\n"+formatStatus(st))
}

// handleForget deletes the profile, its settings and all logged drinks.
func (r *Router) handleForget(ctx context.Context, chatID int64) {
	if err := r.tracker.Clear(ctx, chatID); err != nil {
		r.log.Error("Clear failed", zap.Error(err))
		r.sendText(chatID, "Could not delete your data.")
		return
	}
	r.sendText(chatID, "All your data was deleted. Send /start to begin again.")
}

func (r *Router) handleSettings(ctx context.Context, chatID int64) {
	st, err := r.tracker.Status(ctx, chatID)
	if err != nil {
		r.log.Error("Status failed", zap.Error(err))
		r.sendText(chatID, "Error opening settings.")
		return
	}
	s := st.Profile.Settings
	text := "What do you want to configure?\n\n" +
		"• Interval: " + domain.FormatDuration(s.ReminderIntervalMinutes) + "\n" +
		"• Sleep: " + s.SleepStart.String() + "–" + s.SleepEnd.String() + "\n" +
		"• Goal: " + strconv.Itoa(s.DailyGoalMl) + " ml\n" +
		"• Glass: " + strconv.Itoa(s.DefaultAmountMl) + " ml"
	r.sendWithMarkup(chatID, text, settingsInlineKeyboard())
}

// --- Drink flow ---

// handleDrink logs the amount given after /drink, or asks for one.
func (r *Router) handleDrink(ctx context.Context, chatID int64, arg string) {
	if arg != "" {
		r.logDrink(ctx, chatID, arg)
		return
	}
	st, err := r.tracker.Status(ctx, chatID)
	if err != nil {
		r.log.Error("Status failed", zap.Error(err))
		r.sendText(chatID, "Error reading your settings.")
		return
	}
	r.sendWithMarkup(chatID, "How much did you drink?", drinkAmountKeyboard(st.Profile.Settings.DefaultAmountMl))
}

func (r *Router) handleDrinkCallback(ctx context.Context, chatID int64, data, cbID string) {
	_ = r.answerCallback(cbID, "")
	val := strings.TrimPrefix(data, "drink:")
	if val == "custom" {
		r.sendText(chatID, "Enter the amount in ml, e.g. 300")
		r.setPending(chatID, pendingDrink)
		return
	}
	r.logDrink(ctx, chatID, val)
}

func (r *Router) logDrink(ctx context.Context, chatID int64, text string) {
	amount, err := parseMl(text)
	if err != nil {
		r.sendText(chatID, "Invalid amount. Example: 250")
		return
	}
	if err := domain.ValidateIntake(amount); err != nil {
		r.userError(chatID, "logDrink", err, "Could not log your drink.")
		return
	}
	st, entry, err := r.tracker.LogIntake(ctx, chatID, amount)
	if err != nil {
		r.userError(chatID, "LogIntake", err, "Could not log your drink.")
		return
	}
	r.sendText(chatID, formatLogged(entry, st))
}

// --- Settings flows ---

func (r *Router) handleIntervalCallback(ctx context.Context, chatID int64, data, cbID string) {
	_ = r.answerCallback(cbID, "")
	val := strings.TrimPrefix(data, "interval:")
	if val == "custom" {
		r.sendText(chatID, "Enter interval between 15m and 8h, e.g.: 45m, 1h30m, 90")
		r.setPending(chatID, pendingInterval)
		return
	}
	r.updateInterval(ctx, chatID, val)
}

func (r *Router) updateInterval(ctx context.Context, chatID int64, text string) {
	mins, err := domain.ParseInterval(text)
	if err != nil {
		r.sendText(chatID, "Invalid interval. Use 15m to 8h, e.g. 30m, 1h, 1h30m.")
		return
	}
	st, err := r.tracker.UpdateSettings(ctx, chatID, domain.SettingsPatch{ReminderIntervalMinutes: &mins})
	if err != nil {
		r.userError(chatID, "updateInterval", err, "Could not save interval.")
		return
	}
	r.sendText(chatID, "Interval updated: "+domain.FormatDuration(mins)+"\n\n"+formatStatus(st))
}

func (r *Router) handleSleepCallback(ctx context.Context, chatID int64, data, cbID string) {
	_ = r.answerCallback(cbID, "")
	val := strings.TrimPrefix(data, "sleep:")
	if val == "custom" {
		r.sendText(chatID, "Enter your sleep window as HH:MM–HH:MM (e.g., 23:00–07:00)")
		r.setPending(chatID, pendingSleep)
		return
	}
	r.updateSleep(ctx, chatID, val)
}

func (r *Router) updateSleep(ctx context.Context, chatID int64, text string) {
	start, end, err := domain.ParseSleepWindow(text)
	if err != nil {
		r.sendText(chatID, "Invalid format. Example: 23:00–07:00")
		return
	}
	st, err := r.tracker.UpdateSettings(ctx, chatID, domain.SettingsPatch{SleepStart: &start, SleepEnd: &end})
	if err != nil {
		r.userError(chatID, "updateSleep", err, "Could not save sleep window.")
		return
	}
	msg := "Sleep window updated: " + start.String() + "–" + end.String()
	if start == end {
		msg += "\n(Start equals end, so reminders are never paused.)"
	}
	r.sendText(chatID, msg+"\n\n"+formatStatus(st))
}

func (r *Router) handleGoalCallback(ctx context.Context, chatID int64, data, cbID string) {
	_ = r.answerCallback(cbID, "")
	val := strings.TrimPrefix(data, "goal:")
	if val == "custom" {
		r.sendText(chatID, "Enter your daily goal in ml (500–5000):")
		r.setPending(chatID, pendingGoal)
		return
	}
	r.updateGoal(ctx, chatID, val)
}

func (r *Router) updateGoal(ctx context.Context, chatID int64, text string) {
	goal, err := parseMl(text)
	if err != nil {
		r.sendText(chatID, "Invalid goal. Example: 2000")
		return
	}
	if _, err := r.tracker.UpdateSettings(ctx, chatID, domain.SettingsPatch{DailyGoalMl: &goal}); err != nil {
		r.userError(chatID, "updateGoal", err, "Could not save goal.")
		return
	}
	r.sendText(chatID, "Daily goal updated: "+strconv.Itoa(goal)+" ml")
}

func (r *Router) handleAmountCallback(ctx context.Context, chatID int64, data, cbID string) {
	_ = r.answerCallback(cbID, "")
	val := strings.TrimPrefix(data, "amount:")
	if val == "custom" {
		r.sendText(chatID, "Enter your usual glass size in ml (50–1000):")
		r.setPending(chatID, pendingAmount)
		return
	}
	r.updateAmount(ctx, chatID, val)
}

func (r *Router) updateAmount(ctx context.Context, chatID int64, text string) {
	amount, err := parseMl(text)
	if err != nil {
		r.sendText(chatID, "Invalid amount. Example: 250")
		return
	}
	if _, err := r.tracker.UpdateSettings(ctx, chatID, domain.SettingsPatch{DefaultAmountMl: &amount}); err != nil {
		r.userError(chatID, "updateAmount", err, "Could not save glass size.")
		return
	}
	r.sendText(chatID, "Glass size updated: "+strconv.Itoa(amount)+" ml")
}

func (r *Router) handleTZCallback(ctx context.Context, chatID int64, data, cbID string) {
	_ = r.answerCallback(cbID, "")
	val := strings.TrimPrefix(data, "tz:")
	if val == "custom" {
		r.sendText(chatID, "Enter timezone (e.g., Europe/Moscow):")
		r.setPending(chatID, pendingTZ)
		return
	}
	r.updateTZ(ctx, chatID, val)
}

func (r *Router) updateTZ(ctx context.Context, chatID int64, text string) {
	tz, err := domain.ValidateTZ(strings.TrimSpace(text))
	if err != nil {
		r.sendText(chatID, "Invalid timezone. Example: Europe/Moscow")
		return
	}
	st, err := r.tracker.SetTimezone(ctx, chatID, tz)
	if err != nil {
		r.userError(chatID, "updateTZ", err, "Could not save timezone.")
		return
	}
	r.sendText(chatID, "Timezone updated: "+st.Profile.TZ)
}

func (r *Router) handleResetSettings(ctx context.Context, chatID int64, cbID string) {
	_ = r.answerCallback(cbID, "")
	st, err := r.tracker.ResetSettings(ctx, chatID)
	if err != nil {
		r.log.Error("ResetSettings failed", zap.Error(err))
		r.sendText(chatID, "Could not restore defaults.")
		return
	}
	r.sendText(chatID, "Settings restored to defaults.\n\n"+formatStatus(st))
}

// --- Free-form dispatcher (for all "Custom" inputs) ---

func (r *Router) handleFreeForm(ctx context.Context, chatID int64, text string) {
	pending := r.getPending(chatID)
	if pending == "" {
		// No pending flow: ignore free-form message
		return
	}
	r.clearPending(chatID)

	switch pending {
	case pendingDrink:
		r.logDrink(ctx, chatID, text)
	case pendingInterval:
		r.updateInterval(ctx, chatID, text)
	case pendingSleep:
		r.updateSleep(ctx, chatID, text)
	case pendingGoal:
		r.updateGoal(ctx, chatID, text)
	case pendingAmount:
		r.updateAmount(ctx, chatID, text)
	case pendingTZ:
		r.updateTZ(ctx, chatID, text)
	}
}

// parseMl accepts "250" or "250ml".
func parseMl(s string) (int, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimSpace(strings.TrimSuffix(s, "ml"))
	return strconv.Atoi(s)
}
