package cmd

import (
	"os"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestGetCategoryFromToolName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"scheduler_find_available_slots", "Scheduler Tools"},
		{"scheduler_create_event", "Scheduler Tools"},
		{"unrelated_tool", "Other"},
	}

	for _, tt := range tests {
		if got := getCategoryFromToolName(tt.name); got != tt.expected {
			t.Errorf("getCategoryFromToolName(%q) = %q, want %q", tt.name, got, tt.expected)
		}
	}
}

func TestGenerateToolsMarkdown(t *testing.T) {
	tools := []mcp.Tool{
		mcp.NewTool("scheduler_parse_time",
			mcp.WithDescription("Resolve a natural-language time phrase"),
			mcp.WithString("timePhrase", mcp.Required(), mcp.Description("Phrase such as '2 PM'")),
			mcp.WithString("date", mcp.Description("Optional day phrase")),
		),
	}

	markdown := generateToolsMarkdown(tools)

	for _, want := range []string{
		"# MCP Tools Reference",
		"## Scheduler Tools",
		"### scheduler_parse_time",
		"`timePhrase` (required)",
		"`date` (optional)",
		"## Confirmation Gating",
	} {
		if !strings.Contains(markdown, want) {
			t.Errorf("generated markdown missing %q", want)
		}
	}
}

func TestRunGenerateDocsProducesAllTools(t *testing.T) {
	// runGenerateDocs writes to stdout when no output file is given, so
	// generate into a temp file and inspect it.
	outputFile := t.TempDir() + "/tools.md"

	if err := runGenerateDocs(outputFile); err != nil {
		t.Fatalf("runGenerateDocs() error = %v", err)
	}

	raw, err := os.ReadFile(outputFile)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	data := string(raw)

	for _, tool := range []string{
		"scheduler_find_available_slots",
		"scheduler_check_availability",
		"scheduler_list_events",
		"scheduler_find_events",
		"scheduler_parse_time",
		"scheduler_classify_confirmation",
		"scheduler_create_event",
		"scheduler_update_event",
		"scheduler_delete_event",
	} {
		if !strings.Contains(data, "### "+tool) {
			t.Errorf("generated documentation missing tool %q", tool)
		}
	}
}
