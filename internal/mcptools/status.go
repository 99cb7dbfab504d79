package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ykvlv/hydration-bot/internal/domain"
	"github.com/ykvlv/hydration-bot/internal/tracker"
)

// StatusTool handles the hydration_status MCP tool.
type StatusTool struct {
	tracker   *tracker.Tracker
	profileID int64
}

// NewStatusTool creates a StatusTool bound to one profile.
func NewStatusTool(tr *tracker.Tracker, profileID int64) *StatusTool {
	return &StatusTool{tracker: tr, profileID: profileID}
}

// Definition returns the MCP tool definition for hydration_status.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("hydration_status",
		mcp.WithDescription(
			"Show today's water intake, progress toward the daily goal, current settings and the next reminder time.",
		),
	)
}

// Handle processes the hydration_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := t.tracker.Status(ctx, t.profileID)
	if err != nil {
		return errorResult("failed to read status", err), nil
	}
	summary := fmt.Sprintf("Today: %d / %d ml (%.0f%%), %d ml to go.",
		st.Hydration.TodayTotal, st.Profile.Settings.DailyGoalMl, st.Progress(), st.Remaining())
	return statusResult(summary, st), nil
}

// ─── NextReminderTool ───────────────────────────────────────────────────────

// NextReminderTool handles the next_reminder MCP tool.
type NextReminderTool struct {
	tracker   *tracker.Tracker
	profileID int64
}

// NewNextReminderTool creates a NextReminderTool.
func NewNextReminderTool(tr *tracker.Tracker, profileID int64) *NextReminderTool {
	return &NextReminderTool{tracker: tr, profileID: profileID}
}

// Definition returns the MCP tool definition for next_reminder.
func (t *NextReminderTool) Definition() mcp.Tool {
	return mcp.NewTool("next_reminder",
		mcp.WithDescription(
			"Report when the next drink reminder is due. A reminder that would land in the sleep window "+
				"is moved to the next wake-up time after now.",
		),
	)
}

// Handle processes the next_reminder tool call.
func (t *NextReminderTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := t.tracker.Refresh(ctx, t.profileID); err != nil {
		return errorResult("failed to refresh reminder", err), nil
	}
	st, err := t.tracker.Status(ctx, t.profileID)
	if err != nil {
		return errorResult("failed to read status", err), nil
	}

	next, ok := st.NextReminder()
	if !ok {
		return mcp.NewToolResultText("No reminder scheduled."), nil
	}

	s := st.Profile.Settings
	var b strings.Builder
	fmt.Fprintf(&b, "Next reminder: %s (%s)", domain.FormatDateTime(next), domain.FormatCountdown(next, st.Now))
	if domain.IsInSleepPeriod(st.Now, s.SleepStart, s.SleepEnd) {
		fmt.Fprintf(&b, "\nSleeping until %s.", s.SleepEnd)
	}
	fmt.Fprintf(&b, "\nInterval: %s, sleep window %s–%s.",
		domain.FormatDuration(s.ReminderIntervalMinutes), s.SleepStart, s.SleepEnd)
	return mcp.NewToolResultText(b.String()), nil
}
