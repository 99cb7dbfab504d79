package mcptools

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ykvlv/hydration-bot/internal/domain"
	"github.com/ykvlv/hydration-bot/internal/tracker"
)

// intArg extracts an integer argument from a tool request.
// JSON numbers arrive as float64.
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// optionalInt returns a pointer to the argument, or nil when it is absent.
func optionalInt(req mcp.CallToolRequest, key string) *int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return nil
	}
	n := int(v)
	return &n
}

// statusPayload is the JSON shape shared by hydration_status and hydration://status.
type statusPayload struct {
	ProfileID       int64    `json:"profileId"`
	Date            string   `json:"date"`
	TodayTotal      int      `json:"todayTotal"`
	DailyGoalMl     int      `json:"dailyGoalMl"`
	RemainingMl     int      `json:"remainingMl"`
	ProgressPercent float64  `json:"progressPercent"`
	GoalMet         bool     `json:"goalMet"`
	LastDrink       *string  `json:"lastDrink,omitempty"`
	NextReminder    *string  `json:"nextReminder,omitempty"`
	Due             bool     `json:"due"`
	Asleep          bool     `json:"asleep"`
	Settings        settings `json:"settings"`
	Timezone        string   `json:"timezone"`
	Now             string   `json:"now"`
}

type settings struct {
	ReminderIntervalMinutes int    `json:"reminderIntervalMinutes"`
	SleepStart              string `json:"sleepStart"`
	SleepEnd                string `json:"sleepEnd"`
	DailyGoalMl             int    `json:"dailyGoalMl"`
	DefaultAmountMl         int    `json:"defaultAmountMl"`
}

func newStatusPayload(st tracker.Status) statusPayload {
	s := st.Profile.Settings
	p := statusPayload{
		ProfileID:       st.Profile.ChatID,
		Date:            st.Hydration.TodayDate,
		TodayTotal:      st.Hydration.TodayTotal,
		DailyGoalMl:     s.DailyGoalMl,
		RemainingMl:     st.Remaining(),
		ProgressPercent: st.Progress(),
		GoalMet:         st.GoalMet(),
		Due:             st.Due(),
		Asleep:          domain.IsInSleepPeriod(st.Now, s.SleepStart, s.SleepEnd),
		Settings: settings{
			ReminderIntervalMinutes: s.ReminderIntervalMinutes,
			SleepStart:              s.SleepStart.String(),
			SleepEnd:                s.SleepEnd.String(),
			DailyGoalMl:             s.DailyGoalMl,
			DefaultAmountMl:         s.DefaultAmountMl,
		},
		Timezone: st.Profile.TZ,
		Now:      st.Now.Format(time.RFC3339),
	}
	if st.Hydration.LastDrinkTime != nil {
		v := st.Hydration.LastDrinkTime.In(st.Now.Location()).Format(time.RFC3339)
		p.LastDrink = &v
	}
	if next, ok := st.NextReminder(); ok {
		v := next.Format(time.RFC3339)
		p.NextReminder = &v
	}
	return p
}

func marshalStatus(st tracker.Status) (string, error) {
	data, err := json.MarshalIndent(newStatusPayload(st), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling status: %w", err)
	}
	return string(data), nil
}

// statusResult renders a human summary followed by the JSON snapshot.
func statusResult(summary string, st tracker.Status) *mcp.CallToolResult {
	data, err := marshalStatus(st)
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(summary + "\n\n" + data)
}

func errorResult(prefix string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", prefix, err))
}
