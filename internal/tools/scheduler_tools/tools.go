package scheduler_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/smartsched/smartsched/internal/calendar"
	"github.com/smartsched/smartsched/internal/google"
	"github.com/smartsched/smartsched/internal/schedule"
	"github.com/smartsched/smartsched/internal/server"
	"github.com/smartsched/smartsched/internal/tools/common"
)

// getAccountFromArgs extracts the account name from request arguments, defaulting to "default"
func getAccountFromArgs(args map[string]interface{}) string {
	return common.GetAccountFromArgs(args)
}

// getCalendarClient retrieves or creates a calendar client for the specified account
func getCalendarClient(ctx context.Context, account string, sc *server.ServerContext) (*calendar.Client, error) {
	client := sc.CalendarClientForAccount(account)
	if client == nil {
		// Check if token exists before trying to create client
		if !calendar.HasTokenForAccount(account) {
			authURL := google.GetAuthURLForAccount(account)
			return nil, fmt.Errorf(`Google OAuth token not found for account "%s". To authorize access:

1. Visit this URL in your browser:
   %s

2. Sign in with your Google account
3. Grant access to Google Calendar
4. Copy the authorization code

5. Run "smartsched auth --account %s" and paste the authorization code to complete authentication.

Note: You only need to authorize once. The tokens will be automatically refreshed.`, account, authURL, account)
		}

		var err error
		client, err = calendar.NewClientForAccount(ctx, account)
		if err != nil {
			return nil, fmt.Errorf("failed to create Calendar client for account %s: %w", account, err)
		}
		sc.SetCalendarClientForAccount(account, client)
	}
	return client, nil
}

// getGateway returns a confirmation-gated scheduling gateway for the account.
func getGateway(ctx context.Context, account string, sc *server.ServerContext) (*schedule.Gateway, error) {
	// Ensures the client exists and surfaces the auth instructions if not.
	if _, err := getCalendarClient(ctx, account, sc); err != nil {
		return nil, err
	}
	gateway := sc.GatewayForAccount(account)
	if gateway == nil {
		return nil, fmt.Errorf("failed to create scheduling gateway for account %s", account)
	}
	return gateway, nil
}

// jsonResult marshals v as an indented JSON tool result.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// mutationResult marshals a gateway result and records its outcome.
func mutationResult(ctx context.Context, sc *server.ServerContext, operation string, result *schedule.Result) (*mcp.CallToolResult, error) {
	if m := sc.Metrics(); m != nil {
		m.RecordMutationResult(ctx, operation, string(result.Status))
	}
	return jsonResult(result)
}

// RegisterTools registers all scheduler tools with the MCP server
func RegisterTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := RegisterAvailabilityTools(s, sc); err != nil {
		return fmt.Errorf("failed to register availability tools: %w", err)
	}

	if err := RegisterEventTools(s, sc); err != nil {
		return fmt.Errorf("failed to register event tools: %w", err)
	}

	return nil
}
