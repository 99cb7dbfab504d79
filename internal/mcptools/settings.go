package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ykvlv/hydration-bot/internal/domain"
	"github.com/ykvlv/hydration-bot/internal/tracker"
)

// SettingsTool handles the update_settings MCP tool.
type SettingsTool struct {
	tracker   *tracker.Tracker
	profileID int64
}

// NewSettingsTool creates a SettingsTool.
func NewSettingsTool(tr *tracker.Tracker, profileID int64) *SettingsTool {
	return &SettingsTool{tracker: tr, profileID: profileID}
}

// Definition returns the MCP tool definition for update_settings.
func (t *SettingsTool) Definition() mcp.Tool {
	return mcp.NewTool("update_settings",
		mcp.WithDescription(
			"Change reminder settings. Only the fields given are updated; the whole set is validated "+
				"and nothing is saved if any value is out of range. The next reminder is recomputed.",
		),
		mcp.WithNumber("reminder_interval_minutes",
			mcp.Description(fmt.Sprintf("Minutes between reminders (%d-%d)", domain.MinIntervalMinutes, domain.MaxIntervalMinutes)),
		),
		mcp.WithString("sleep_start",
			mcp.Description("Start of the quiet period, HH:MM (e.g. 23:00)"),
		),
		mcp.WithString("sleep_end",
			mcp.Description("End of the quiet period, HH:MM (e.g. 07:00)"),
		),
		mcp.WithNumber("daily_goal_ml",
			mcp.Description(fmt.Sprintf("Daily goal in ml (%d-%d)", domain.MinDailyGoalMl, domain.MaxDailyGoalMl)),
		),
		mcp.WithNumber("default_amount_ml",
			mcp.Description(fmt.Sprintf("Usual glass size in ml (%d-%d)", domain.MinDefaultAmountMl, domain.MaxDefaultAmountMl)),
		),
		mcp.WithString("timezone",
			mcp.Description("IANA location whose wall clock is used (e.g. Europe/Moscow)"),
		),
	)
}

// Handle processes the update_settings tool call.
func (t *SettingsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	patch := domain.SettingsPatch{
		ReminderIntervalMinutes: optionalInt(req, "reminder_interval_minutes"),
		DailyGoalMl:             optionalInt(req, "daily_goal_ml"),
		DefaultAmountMl:         optionalInt(req, "default_amount_ml"),
	}
	var err error
	if patch.SleepStart, err = timeArg(req, "sleep_start"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if patch.SleepEnd, err = timeArg(req, "sleep_end"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tz := req.GetString("timezone", "")

	if patch.Empty() && tz == "" {
		return mcp.NewToolResultError("at least one setting is required"), nil
	}
	if tz != "" {
		if tz, err = domain.ValidateTZ(tz); err != nil {
			return errorResult("timezone not saved", err), nil
		}
	}

	var st tracker.Status
	if !patch.Empty() {
		st, err = t.tracker.UpdateSettings(ctx, t.profileID, patch)
		if err != nil {
			return errorResult("settings not saved", err), nil
		}
	}
	if tz != "" {
		st, err = t.tracker.SetTimezone(ctx, t.profileID, tz)
		if err != nil {
			return errorResult("timezone not saved", err), nil
		}
	}
	return statusResult("Settings updated.", st), nil
}

// timeArg parses an optional HH:MM argument.
func timeArg(req mcp.CallToolRequest, key string) (*domain.TimeOfDay, error) {
	raw := req.GetString(key, "")
	if raw == "" {
		return nil, nil
	}
	v, err := domain.ParseTimeOfDay(raw)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", key, err)
	}
	return &v, nil
}
