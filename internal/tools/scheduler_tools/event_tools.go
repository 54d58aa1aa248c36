package scheduler_tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/smartsched/smartsched/internal/schedule"
	"github.com/smartsched/smartsched/internal/server"
	"github.com/smartsched/smartsched/internal/tools/common"
)

// RegisterEventTools registers event listing, lookup, and mutation tools with the MCP server
func RegisterEventTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// List events tool (read-only, always available)
	listEventsTool := mcp.NewTool("scheduler_list_events",
		mcp.WithDescription("List calendar events for a day or an explicit time range"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("date",
			mcp.Description("Natural-language day to list, e.g. 'today', 'next monday', 'June 15' (default: today)"),
		),
		mcp.WithString("timeMin",
			mcp.Description("Range start (ISO format). Overrides date."),
		),
		mcp.WithString("timeMax",
			mcp.Description("Range end (ISO format). Overrides date."),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of events to return"),
		),
	)

	s.AddTool(listEventsTool, common.InstrumentedToolHandlerWithOperation(
		"scheduler_list_events", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListEvents(ctx, request, sc)
		}))

	// Find events tool (read-only, always available)
	findEventsTool := mcp.NewTool("scheduler_find_events",
		mcp.WithDescription("Find events by fuzzy name match, optionally narrowed to a day"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("eventName",
			mcp.Required(),
			mcp.Description("Event name or fragment to match (case-insensitive substring, both directions)"),
		),
		mcp.WithString("date",
			mcp.Description("Natural-language day to narrow the search (default: the next 30 days)"),
		),
	)

	s.AddTool(findEventsTool, common.InstrumentedToolHandlerWithOperation(
		"scheduler_find_events", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFindEvents(ctx, request, sc)
		}))

	// Register mutating tools only if not in read-only mode
	if !sc.ReadOnly() {
		createEventTool := mcp.NewTool("scheduler_create_event",
			mcp.WithDescription("Create a calendar event. Without confirmed=true this only proposes: it reports conflicts or asks for confirmation."),
			mcp.WithString("account",
				mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
			),
			mcp.WithString("summary",
				mcp.Required(),
				mcp.Description("Event title"),
			),
			mcp.WithString("start",
				mcp.Required(),
				mcp.Description("Start time (ISO format, e.g. '2025-06-12T14:00:00')"),
			),
			mcp.WithString("end",
				mcp.Required(),
				mcp.Description("End time (ISO format)"),
			),
			mcp.WithString("description",
				mcp.Description("Event description"),
			),
			mcp.WithString("attendees",
				mcp.Description("Comma-separated list of attendee email addresses"),
			),
			mcp.WithBoolean("confirmed",
				mcp.Description("Set true only after the user has confirmed the creation"),
			),
			mcp.WithBoolean("skipConflictCheck",
				mcp.Description("Skip the conflict pre-check on the proposal step"),
			),
		)

		s.AddTool(createEventTool, common.InstrumentedToolHandlerWithOperation(
			"scheduler_create_event", "insert", sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleCreateEvent(ctx, request, sc)
			}))

		updateEventTool := mcp.NewTool("scheduler_update_event",
			mcp.WithDescription("Update an event located by fuzzy name. Without confirmed=true this only proposes the change."),
			mcp.WithString("account",
				mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
			),
			mcp.WithString("eventName",
				mcp.Required(),
				mcp.Description("Name or fragment of the event to update"),
			),
			mcp.WithString("date",
				mcp.Description("Natural-language day to narrow the lookup (default: the next 30 days)"),
			),
			mcp.WithString("summary",
				mcp.Description("New event title"),
			),
			mcp.WithString("description",
				mcp.Description("New event description"),
			),
			mcp.WithString("start",
				mcp.Description("New start time (ISO format)"),
			),
			mcp.WithString("end",
				mcp.Description("New end time (ISO format)"),
			),
			mcp.WithString("attendees",
				mcp.Description("New comma-separated list of attendee email addresses"),
			),
			mcp.WithBoolean("confirmed",
				mcp.Description("Set true only after the user has confirmed the update"),
			),
		)

		s.AddTool(updateEventTool, common.InstrumentedToolHandlerWithOperation(
			"scheduler_update_event", "update", sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleUpdateEvent(ctx, request, sc)
			}))

		deleteEventTool := mcp.NewTool("scheduler_delete_event",
			mcp.WithDescription("Delete an event located by fuzzy name. Without confirmed=true this only proposes the deletion."),
			mcp.WithString("account",
				mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
			),
			mcp.WithString("eventName",
				mcp.Required(),
				mcp.Description("Name or fragment of the event to delete"),
			),
			mcp.WithString("date",
				mcp.Description("Natural-language day to narrow the lookup (default: the next 30 days)"),
			),
			mcp.WithBoolean("confirmed",
				mcp.Description("Set true only after the user has confirmed the deletion"),
			),
		)

		s.AddTool(deleteEventTool, common.InstrumentedToolHandlerWithOperation(
			"scheduler_delete_event", "delete", sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleDeleteEvent(ctx, request, sc)
			}))
	}

	return nil
}

func handleListEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	resolver := schedule.NewResolver(sc.Location())
	now := time.Now().In(sc.Location())

	// Explicit ISO bounds win over the date phrase; default is today.
	var window schedule.Interval
	timeMinStr, _ := args["timeMin"].(string)
	timeMaxStr, _ := args["timeMax"].(string)
	switch {
	case timeMinStr != "" && timeMaxStr != "":
		timeMin, err := resolver.ParseISO(timeMinStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid timeMin format: %v", err)), nil
		}
		timeMax, err := resolver.ParseISO(timeMaxStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid timeMax format: %v", err)), nil
		}
		window = schedule.Interval{Start: timeMin, End: timeMax}
		if !window.IsValid() {
			return mcp.NewToolResultError("timeMin must be before timeMax"), nil
		}
	case timeMinStr != "" || timeMaxStr != "":
		return mcp.NewToolResultError("timeMin and timeMax must be provided together"), nil
	default:
		day := now
		if datePhrase, ok := args["date"].(string); ok && datePhrase != "" {
			resolved, ok := resolver.ResolveDate(datePhrase, now)
			if !ok {
				return mcp.NewToolResultError(fmt.Sprintf("Unrecognized date phrase: %q", datePhrase)), nil
			}
			day = resolved
		}
		window = resolver.DayInterval(day)
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

	if maxVal, ok := args["maxResults"].(float64); ok && maxVal > 0 && len(events) > int(maxVal) {
		events = events[:int(maxVal)]
	}

	return jsonResult(map[string]interface{}{
		"windowStart": window.Start.Format(time.RFC3339),
		"windowEnd":   window.End.Format(time.RFC3339),
		"count":       len(events),
		"events":      events,
	})
}

func handleFindEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	eventName, ok := args["eventName"].(string)
	if !ok || eventName == "" {
		return mcp.NewToolResultError("eventName is required"), nil
	}

	datePhrase, _ := args["date"].(string)

	gateway, err := getGateway(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	events, err := gateway.Locator().Find(ctx, eventName, datePhrase, time.Now())
	if err != nil {
		if errors.Is(err, schedule.ErrBackendUnavailable) {
			return jsonResult(schedule.ConnectionError())
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to find events: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"eventName": eventName,
		"count":     len(events),
		"events":    events,
	})
}

func handleCreateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	summary, ok := args["summary"].(string)
	if !ok || summary == "" {
		return mcp.NewToolResultError("summary is required"), nil
	}

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

	draft := schedule.EventDraft{
		Title: summary,
		Start: start,
		End:   end,
	}
	if desc, ok := args["description"].(string); ok {
		draft.Description = desc
	}
	if attendeesStr, ok := args["attendees"].(string); ok && attendeesStr != "" {
		draft.Attendees = splitAttendees(attendeesStr)
	}

	req := schedule.CreateRequest{Draft: draft}
	if confirmed, ok := args["confirmed"].(bool); ok {
		req.Confirmed = confirmed
	}
	if skip, ok := args["skipConflictCheck"].(bool); ok {
		req.SkipConflictCheck = skip
	}

	gateway, err := getGateway(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := gateway.Create(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create event: %v", err)), nil
	}

	return mutationResult(ctx, sc, "insert", result)
}

func handleUpdateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	eventName, ok := args["eventName"].(string)
	if !ok || eventName == "" {
		return mcp.NewToolResultError("eventName is required"), nil
	}

	datePhrase, _ := args["date"].(string)
	confirmed, _ := args["confirmed"].(bool)

	resolver := schedule.NewResolver(sc.Location())

	patch := schedule.EventPatch{}
	if summary, ok := args["summary"].(string); ok && summary != "" {
		patch.Title = &summary
	}
	if desc, ok := args["description"].(string); ok && desc != "" {
		patch.Description = &desc
	}
	if startStr, ok := args["start"].(string); ok && startStr != "" {
		start, err := resolver.ParseISO(startStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid start format: %v", err)), nil
		}
		patch.Start = &start
	}
	if endStr, ok := args["end"].(string); ok && endStr != "" {
		end, err := resolver.ParseISO(endStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid end format: %v", err)), nil
		}
		patch.End = &end
	}
	if attendeesStr, ok := args["attendees"].(string); ok && attendeesStr != "" {
		patch.Attendees = splitAttendees(attendeesStr)
	}

	if patch.IsEmpty() {
		return mcp.NewToolResultError("at least one field to update is required"), nil
	}

	gateway, err := getGateway(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := gateway.UpdateByName(ctx, eventName, datePhrase, patch, confirmed, time.Now())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update event: %v", err)), nil
	}

	return mutationResult(ctx, sc, "update", result)
}

func handleDeleteEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	eventName, ok := args["eventName"].(string)
	if !ok || eventName == "" {
		return mcp.NewToolResultError("eventName is required"), nil
	}

	datePhrase, _ := args["date"].(string)
	confirmed, _ := args["confirmed"].(bool)

	gateway, err := getGateway(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := gateway.DeleteByName(ctx, eventName, datePhrase, confirmed, time.Now())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete event: %v", err)), nil
	}

	return mutationResult(ctx, sc, "delete", result)
}

func splitAttendees(s string) []string {
	parts := strings.Split(s, ",")
	attendees := make([]string, 0, len(parts))
	for _, p := range parts {
		if email := strings.TrimSpace(p); email != "" {
			attendees = append(attendees, email)
		}
	}
	return attendees
}
