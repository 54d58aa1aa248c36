package scheduler_tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/smartsched/smartsched/internal/schedule"
	"github.com/smartsched/smartsched/internal/server"
	"github.com/smartsched/smartsched/internal/tools/common"
)

// DefaultMaxSlots caps the number of free slots returned by a single call.
const DefaultMaxSlots = 10

// slotView is the JSON projection of a free interval.
type slotView struct {
	Start           string `json:"start"`
	End             string `json:"end"`
	DurationMinutes int    `json:"durationMinutes"`
}

func slotViews(slots []schedule.Interval) []slotView {
	views := make([]slotView, 0, len(slots))
	for _, s := range slots {
		views = append(views, slotView{
			Start:           s.Start.Format(time.RFC3339),
			End:             s.End.Format(time.RFC3339),
			DurationMinutes: int(s.Duration().Minutes()),
		})
	}
	return views
}

// RegisterAvailabilityTools registers the read-only scheduling tools with the MCP server
func RegisterAvailabilityTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	findSlotsTool := mcp.NewTool("scheduler_find_available_slots",
		mcp.WithDescription("Find free time slots of at least the given duration within a search window"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithNumber("durationMinutes",
			mcp.Required(),
			mcp.Description("Minimum slot duration in minutes"),
		),
		mcp.WithString("day",
			mcp.Description("Natural-language day to search, e.g. 'tomorrow', 'next friday', 'June 15'"),
		),
		mcp.WithString("timePreference",
			mcp.Description("Part of day to search: 'morning' (08:00-12:00), 'afternoon' (12:00-17:00), or 'evening' (17:00-20:00)"),
		),
		mcp.WithString("windowStart",
			mcp.Description("Explicit window start (ISO format, e.g. '2025-06-12T09:00:00'). Overrides day/timePreference."),
		),
		mcp.WithString("windowEnd",
			mcp.Description("Explicit window end (ISO format). Overrides day/timePreference."),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of slots to return (default: 10)"),
		),
	)

	s.AddTool(findSlotsTool, common.InstrumentedToolHandlerWithOperation(
		"scheduler_find_available_slots", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFindAvailableSlots(ctx, request, sc)
		}))

	checkAvailabilityTool := mcp.NewTool("scheduler_check_availability",
		mcp.WithDescription("Check whether an exact time interval is free, listing any conflicting events"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Interval start (ISO format, e.g. '2025-06-12T14:00:00')"),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("Interval end (ISO format)"),
		),
	)

	s.AddTool(checkAvailabilityTool, common.InstrumentedToolHandlerWithOperation(
		"scheduler_check_availability", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCheckAvailability(ctx, request, sc)
		}))

	parseTimeTool := mcp.NewTool("scheduler_parse_time",
		mcp.WithDescription("Resolve a natural-language time phrase like '2 PM' or '14:30' to a concrete timestamp"),
		mcp.WithString("timePhrase",
			mcp.Required(),
			mcp.Description("Time phrase in 12-hour ('2 PM', '9:30 am') or 24-hour ('14:30') form"),
		),
		mcp.WithString("date",
			mcp.Description("Natural-language date the time applies to (default: today)"),
		),
	)

	s.AddTool(parseTimeTool, common.InstrumentedToolHandler(
		"scheduler_parse_time", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleParseTime(ctx, request, sc)
		}))

	classifyTool := mcp.NewTool("scheduler_classify_confirmation",
		mcp.WithDescription("Classify whether a user reply is an affirmative confirmation. Advisory only."),
		mcp.WithString("utterance",
			mcp.Required(),
			mcp.Description("The user's reply to classify"),
		),
	)

	s.AddTool(classifyTool, common.InstrumentedToolHandler(
		"scheduler_classify_confirmation", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleClassifyConfirmation(ctx, request, sc)
		}))

	return nil
}

func handleFindAvailableSlots(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	durationMinutes, ok := args["durationMinutes"].(float64)
	if !ok || durationMinutes <= 0 {
		return mcp.NewToolResultError("durationMinutes is required and must be positive"), nil
	}
	minDuration := time.Duration(durationMinutes) * time.Minute

	maxResults := DefaultMaxSlots
	if maxVal, ok := args["maxResults"].(float64); ok && maxVal > 0 {
		maxResults = int(maxVal)
	}

	windowReq := schedule.WindowRequest{}
	if day, ok := args["day"].(string); ok {
		windowReq.Day = day
	}
	if pref, ok := args["timePreference"].(string); ok {
		windowReq.TimePreference = pref
	}
	if start, ok := args["windowStart"].(string); ok {
		windowReq.StartISO = start
	}
	if end, ok := args["windowEnd"].(string); ok {
		windowReq.EndISO = end
	}

	resolver := schedule.NewResolver(sc.Location())
	window, err := resolver.BuildWindow(windowReq, time.Now())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid search window: %v", err)), nil
	}

	client, err := getCalendarClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	events, err := client.ListEvents(ctx, window.Start, window.End)
	if err != nil {
		if errors.Is(err, schedule.ErrBackendUnavailable) {
			return jsonResult(schedule.ConnectionError())
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list events: %v", err)), nil
	}

	slots := schedule.FindSlotsForEvents(window, events, minDuration)
	if len(slots) > maxResults {
		slots = slots[:maxResults]
	}

	if m := sc.Metrics(); m != nil {
		m.RecordSlotsReturned(ctx, len(slots))
	}

	return jsonResult(map[string]interface{}{
		"windowStart":     window.Start.Format(time.RFC3339),
		"windowEnd":       window.End.Format(time.RFC3339),
		"durationMinutes": int(durationMinutes),
		"count":           len(slots),
		"slots":           slotViews(slots),
	})
}

func handleCheckAvailability(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	resolver := schedule.NewResolver(sc.Location())

	startStr, ok := args["start"].(string)
	if !ok || startStr == "" {
		return mcp.NewToolResultError("start is required"), nil
	}
	start, err := resolver.ParseISO(startStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid start format: %v", err)), nil
	}

	endStr, ok := args["end"].(string)
	if !ok || endStr == "" {
		return mcp.NewToolResultError("end is required"), nil
	}
	end, err := resolver.ParseISO(endStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid end format: %v", err)), nil
	}

	proposed := schedule.Interval{Start: start, End: end}
	if !proposed.IsValid() {
		return mcp.NewToolResultError("start must be before end"), nil
	}

	client, err := getCalendarClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	events, err := client.ListEvents(ctx, start, end)
	if err != nil {
		if errors.Is(err, schedule.ErrBackendUnavailable) {
			return jsonResult(schedule.ConnectionError())
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list events: %v", err)), nil
	}

	conflicts := schedule.Conflicts(proposed, events)

	return jsonResult(map[string]interface{}{
		"start":     start.Format(time.RFC3339),
		"end":       end.Format(time.RFC3339),
		"available": len(conflicts) == 0,
		"conflicts": conflicts,
	})
}

func handleParseTime(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	timePhrase, ok := args["timePhrase"].(string)
	if !ok || timePhrase == "" {
		return mcp.NewToolResultError("timePhrase is required"), nil
	}

	resolver := schedule.NewResolver(sc.Location())
	now := time.Now().In(sc.Location())

	date := now
	if datePhrase, ok := args["date"].(string); ok && datePhrase != "" {
		resolved, ok := resolver.ResolveDate(datePhrase, now)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("Unrecognized date phrase: %q", datePhrase)), nil
		}
		date = resolved
	}

	resolved, err := resolver.ResolveTime(timePhrase, date)
	if err != nil {
		var invalidTime *schedule.InvalidTimeFormatError
		if errors.As(err, &invalidTime) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve time: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"timePhrase": timePhrase,
		"resolved":   resolved.Format(time.RFC3339),
		"hour":       resolved.Hour(),
		"minute":     resolved.Minute(),
	})
}

func handleClassifyConfirmation(_ context.Context, request mcp.CallToolRequest, _ *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	utterance, ok := args["utterance"].(string)
	if !ok {
		return mcp.NewToolResultError("utterance is required"), nil
	}

	return jsonResult(map[string]interface{}{
		"utterance":   utterance,
		"affirmative": schedule.IsAffirmative(utterance),
	})
}
