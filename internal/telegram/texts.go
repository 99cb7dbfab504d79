package telegram

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ykvlv/hydration-bot/internal/domain"
	"github.com/ykvlv/hydration-bot/internal/tracker"
)

// UI texts in English
const (
	startText = "💧 I keep track of how much water you drink.\n\n" +
		"Tap 💧 Drink (or send /drink 300) after every glass. I work out when your next reminder is due " +
		"and keep quiet while you sleep.\n\n" +
		"Use /settings to change the interval, sleep window, goal and glass size. " +
			"/history lists recent drinks, /reset starts today over and /forget deletes everything."
	statusTitle = "🧾 Today"
	statusFmt   = "• Intake: %d / %d ml (%.0f%%)\n• %s\n• Next reminder: %s\n• Interval: %s\n• Sleep: %s–%s\n• TZ: %s\n"
)

var (
	drinkPresets    = []int{100, 250, 330, 500}
	intervalPresets = []string{"30m", "45m", "1h", "90m", "2h", "3h", "4h", "8h"}
	sleepPresets    = []string{"22:00-06:00", "23:00-07:00", "00:00-08:00", "01:00-09:00"}
	goalPresets     = []int{1500, 2000, 2500, 3000}
	amountPresets   = []int{150, 200, 250, 330, 500}
)

// formatStatus renders the /status body.
func formatStatus(st tracker.Status) string {
	s := st.Profile.Settings
	goalLine := fmt.Sprintf("%d ml to go", st.Remaining())
	if st.GoalMet() {
		goalLine = "🎉 Goal reached"
		if ex := st.Excess(); ex > 0 {
			goalLine += fmt.Sprintf(" (+%d ml)", ex)
		}
	}

	next := "—"
	if t, ok := st.NextReminder(); ok {
		next = fmt.Sprintf("%s (%s)", domain.FormatDateTime(t), domain.FormatCountdown(t, st.Now))
	}

	return fmt.Sprintf("%s\n\n"+statusFmt,
		statusTitle,
		st.Hydration.TodayTotal, s.DailyGoalMl, st.Progress(),
		goalLine,
		next,
		domain.FormatDuration(s.ReminderIntervalMinutes),
		s.SleepStart, s.SleepEnd,
		st.Profile.TZ,
	)
}

// formatLogged confirms a logged drink.
func formatLogged(entry domain.IntakeLog, st tracker.Status) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Logged %d ml at %s. Today: %d / %d ml.",
		entry.AmountMl, entry.Timestamp.Format("15:04"), st.Hydration.TodayTotal, st.Profile.Settings.DailyGoalMl)
	if t, ok := st.NextReminder(); ok {
		fmt.Fprintf(&b, "\nNext reminder: %s (%s).", domain.FormatDateTime(t), domain.FormatCountdown(t, st.Now))
	}
	return b.String()
}

// formatHistory renders recent intake logs, newest first.
func formatHistory(logs []domain.IntakeLog) string {
	if len(logs) == 0 {
		return "No drinks logged yet."
	}
	var b strings.Builder
	b.WriteString("🕘 Recent drinks:\n")
	for _, l := range logs {
		fmt.Fprintf(&b, "• %s — %d ml\n", domain.FormatDateTime(l.Timestamp), l.AmountMl)
	}
	return b.String()
}

// mainMenuKeyboard builds the persistent reply keyboard.
func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/drink"),
			tgbotapi.NewKeyboardButton("/status"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/settings"),
			tgbotapi.NewKeyboardButton("/history"),
		),
	)
}

// Inline keyboards
func drinkAmountKeyboard(defaultMl int) tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(drinkPresets))
	for _, v := range drinkPresets {
		label := strconv.Itoa(v) + " ml"
		if v == defaultMl {
			label = "⭐ " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, "drink:"+strconv.Itoa(v)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		row,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✍️ Custom…", "drink:custom"),
		),
	)
}

func settingsInlineKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏲️ Interval", "set_interval"),
			tgbotapi.NewInlineKeyboardButtonData("🌙 Sleep window", "set_sleep"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Daily goal", "set_goal"),
			tgbotapi.NewInlineKeyboardButtonData("🥛 Glass size", "set_amount"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌍 Timezone", "set_tz"),
			tgbotapi.NewInlineKeyboardButtonData("♻️ Defaults", "reset_settings"),
		),
	)
}

// presetsKeyboard lays out preset buttons four per row, then Custom and Back.
func presetsKeyboard(prefix string, labels, values []string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for i := range labels {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(labels[i], prefix+values[i]))
		if len(row) == 4 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("✍️ Custom…", prefix+"custom")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", "back_to_menu")),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func intervalPresetsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return presetsKeyboard("interval:", intervalPresets, intervalPresets)
}

func sleepPresetsKeyboard() tgbotapi.InlineKeyboardMarkup {
	labels := make([]string, len(sleepPresets))
	for i, v := range sleepPresets {
		labels[i] = strings.Replace(v, "-", "–", 1)
	}
	return presetsKeyboard("sleep:", labels, sleepPresets)
}

func mlPresets(prefix string, values []int) tgbotapi.InlineKeyboardMarkup {
	labels := make([]string, len(values))
	vals := make([]string, len(values))
	for i, v := range values {
		vals[i] = strconv.Itoa(v)
		labels[i] = vals[i] + " ml"
	}
	return presetsKeyboard(prefix, labels, vals)
}

func goalPresetsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return mlPresets("goal:", goalPresets)
}

func amountPresetsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return mlPresets("amount:", amountPresets)
}

func tzPresetsKeyboard() tgbotapi.InlineKeyboardMarkup {
	zones := []string{"Europe/Moscow", "Europe/Tallinn", "Asia/Almaty", "UTC"}
	return presetsKeyboard("tz:", zones, zones)
}
