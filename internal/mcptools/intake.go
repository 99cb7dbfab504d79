package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ykvlv/hydration-bot/internal/domain"
	"github.com/ykvlv/hydration-bot/internal/tracker"
)

// LogIntakeTool handles the log_water_intake MCP tool.
type LogIntakeTool struct {
	tracker   *tracker.Tracker
	profileID int64
}

// NewLogIntakeTool creates a LogIntakeTool.
func NewLogIntakeTool(tr *tracker.Tracker, profileID int64) *LogIntakeTool {
	return &LogIntakeTool{tracker: tr, profileID: profileID}
}

// Definition returns the MCP tool definition for log_water_intake.
func (t *LogIntakeTool) Definition() mcp.Tool {
	return mcp.NewTool("log_water_intake",
		mcp.WithDescription(
			"Record that the user drank water. The next reminder is rescheduled from now.",
		),
		mcp.WithNumber("amount_ml",
			mcp.Description(fmt.Sprintf("Amount in ml (%d-%d). Defaults to the user's usual glass size.",
				domain.MinIntakeMl, domain.MaxIntakeMl)),
		),
	)
}

// Handle processes the log_water_intake tool call.
func (t *LogIntakeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		st    tracker.Status
		entry domain.IntakeLog
		err   error
	)
	if amount := optionalInt(req, "amount_ml"); amount != nil {
		st, entry, err = t.tracker.LogIntake(ctx, t.profileID, *amount)
	} else {
		st, entry, err = t.tracker.LogDefaultIntake(ctx, t.profileID)
	}
	if err != nil {
		return errorResult("failed to log intake", err), nil
	}

	summary := fmt.Sprintf("Logged %d ml at %s. Today: %d / %d ml.",
		entry.AmountMl, entry.Timestamp.Format("15:04"), st.Hydration.TodayTotal, st.Profile.Settings.DailyGoalMl)
	if st.GoalMet() {
		summary += " Daily goal reached!"
	}
	return statusResult(summary, st), nil
}

// ─── ResetTodayTool ─────────────────────────────────────────────────────────

// ResetTodayTool handles the reset_today MCP tool.
type ResetTodayTool struct {
	tracker   *tracker.Tracker
	profileID int64
}

// NewResetTodayTool creates a ResetTodayTool.
func NewResetTodayTool(tr *tracker.Tracker, profileID int64) *ResetTodayTool {
	return &ResetTodayTool{tracker: tr, profileID: profileID}
}

// Definition returns the MCP tool definition for reset_today.
func (t *ResetTodayTool) Definition() mcp.Tool {
	return mcp.NewTool("reset_today",
		mcp.WithDescription("Discard today's intake and start the day from zero. Settings are kept."),
	)
}

// Handle processes the reset_today tool call.
func (t *ResetTodayTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := t.tracker.ResetToday(ctx, t.profileID)
	if err != nil {
		return errorResult("failed to reset today", err), nil
	}
	return statusResult("Today's intake was reset.", st), nil
}

// ─── HistoryTool ────────────────────────────────────────────────────────────

// HistoryTool handles the intake_history MCP tool.
type HistoryTool struct {
	tracker   *tracker.Tracker
	profileID int64
}

// NewHistoryTool creates a HistoryTool.
func NewHistoryTool(tr *tracker.Tracker, profileID int64) *HistoryTool {
	return &HistoryTool{tracker: tr, profileID: profileID}
}

// Definition returns the MCP tool definition for intake_history.
func (t *HistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("intake_history",
		mcp.WithDescription("List the most recent drinks across days, newest first."),
		mcp.WithNumber("limit",
			mcp.Description("Max entries (default: 10, max: 50)"),
		),
	)
}

// Handle processes the intake_history tool call.
func (t *HistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := intArg(req, "limit", 10)
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	logs, err := t.tracker.History(ctx, t.profileID, limit)
	if err != nil {
		return errorResult("failed to read history", err), nil
	}
	if len(logs) == 0 {
		return mcp.NewToolResultText("No drinks logged yet."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d recent drinks:\n", len(logs))
	for _, l := range logs {
		fmt.Fprintf(&b, "- %s: %d ml\n", domain.FormatDateTime(l.Timestamp), l.AmountMl)
	}
	return mcp.NewToolResultText(b.String()), nil
}
