// Package mcptools exposes the hydration tracker as an MCP server: tools to
// read status, log drinks and change settings, plus a JSON status resource
// and an embeddable widget.
package mcptools

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ykvlv/hydration-bot/internal/tracker"
)

// Version is set at build time via ldflags.
var Version = "dev"

// NewServer registers every hydration tool and resource for profileID.
func NewServer(tr *tracker.Tracker, profileID int64) *server.MCPServer {
	s := server.NewMCPServer(
		"hydration",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	statusTool := NewStatusTool(tr, profileID)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	logTool := NewLogIntakeTool(tr, profileID)
	s.AddTool(logTool.Definition(), logTool.Handle)

	settingsTool := NewSettingsTool(tr, profileID)
	s.AddTool(settingsTool.Definition(), settingsTool.Handle)

	nextTool := NewNextReminderTool(tr, profileID)
	s.AddTool(nextTool.Definition(), nextTool.Handle)

	resetTool := NewResetTodayTool(tr, profileID)
	s.AddTool(resetTool.Definition(), resetTool.Handle)

	historyTool := NewHistoryTool(tr, profileID)
	s.AddTool(historyTool.Definition(), historyTool.Handle)

	res := NewResources(tr, profileID)
	s.AddResource(res.StatusResource(), res.HandleStatus)
	s.AddResource(res.WidgetResource(), res.HandleWidget)

	return s
}

const instructions = `Hydration tracker for a single user.

Call log_water_intake whenever the user says they drank something; omit amount_ml to use their usual glass.
Use hydration_status or next_reminder to answer "how am I doing" and "when is my next reminder".
Reminders are spaced by the configured interval after the last drink; one that would land in the sleep window moves to the next wake-up time after now.
update_settings validates every field; nothing is saved if any value is out of range.`
