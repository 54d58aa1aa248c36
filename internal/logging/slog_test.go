package logging

import (
	"errors"
	"log/slog"
	"testing"
)

func TestWithOperation(t *testing.T) {
	logger := slog.Default()
	result := WithOperation(logger, "test_operation")
	if result == nil {
		t.Error("WithOperation returned nil")
	}
}

func TestWithTool(t *testing.T) {
	logger := slog.Default()
	result := WithTool(logger, "test_tool")
	if result == nil {
		t.Error("WithTool returned nil")
	}
}

func TestWithAccount(t *testing.T) {
	logger := slog.Default()
	result := WithAccount(logger, "work")
	if result == nil {
		t.Error("WithAccount returned nil")
	}
}

func TestOperationAttr(t *testing.T) {
	attr := Operation("test_op")
	if attr.Key != KeyOperation {
		t.Errorf("Operation key = %q, want %q", attr.Key, KeyOperation)
	}
	if attr.Value.String() != "test_op" {
		t.Errorf("Operation value = %q, want %q", attr.Value.String(), "test_op")
	}
}

func TestCalendarAttr(t *testing.T) {
	attr := Calendar("primary")
	if attr.Key != KeyCalendar {
		t.Errorf("Calendar key = %q, want %q", attr.Key, KeyCalendar)
	}
	if attr.Value.String() != "primary" {
		t.Errorf("Calendar value = %q, want %q", attr.Value.String(), "primary")
	}
}

func TestToolAttr(t *testing.T) {
	attr := Tool("scheduler_create_event")
	if attr.Key != KeyTool {
		t.Errorf("Tool key = %q, want %q", attr.Key, KeyTool)
	}
	if attr.Value.String() != "scheduler_create_event" {
		t.Errorf("Tool value = %q, want %q", attr.Value.String(), "scheduler_create_event")
	}
}

func TestStatusAttr(t *testing.T) {
	attr := Status(StatusSuccess)
	if attr.Key != KeyStatus {
		t.Errorf("Status key = %q, want %q", attr.Key, KeyStatus)
	}
	if attr.Value.String() != StatusSuccess {
		t.Errorf("Status value = %q, want %q", attr.Value.String(), StatusSuccess)
	}
}

func TestAttemptAttr(t *testing.T) {
	attr := Attempt(2)
	if attr.Key != KeyAttempt {
		t.Errorf("Attempt key = %q, want %q", attr.Key, KeyAttempt)
	}
	if attr.Value.Int64() != 2 {
		t.Errorf("Attempt value = %d, want 2", attr.Value.Int64())
	}
}

func TestErr(t *testing.T) {
	// Test with error
	err := errors.New("test error")
	attr := Err(err)
	if attr.Key != KeyError {
		t.Errorf("Err key = %q, want %q", attr.Key, KeyError)
	}
	if attr.Value.String() != "test error" {
		t.Errorf("Err value = %q, want %q", attr.Value.String(), "test error")
	}

	// Test with nil - should return an empty group that slog will omit
	attr = Err(nil)
	// Empty Group has empty key
	if attr.Key != "" {
		t.Errorf("Err(nil) key = %q, want empty string (empty group)", attr.Key)
	}
}

func TestAnonymizeEmail(t *testing.T) {
	tests := []struct {
		email    string
		wantLen  int  // Expected length of result (0 for empty)
		hasValue bool // Whether result should have a value
	}{
		{"jane@example.com", 21, true}, // "user:" + 16 hex chars
		{"user@gmail.com", 21, true},
		{"", 0, false},
	}

	for _, tt := range tests {
		got := AnonymizeEmail(tt.email)
		if tt.hasValue && len(got) != tt.wantLen {
			t.Errorf("AnonymizeEmail(%q) length = %d, want %d", tt.email, len(got), tt.wantLen)
		}
		if !tt.hasValue && got != "" {
			t.Errorf("AnonymizeEmail(%q) = %q, want empty", tt.email, got)
		}
	}

	// Same input always hashes the same.
	if AnonymizeEmail("a@b.com") != AnonymizeEmail("a@b.com") {
		t.Error("AnonymizeEmail is not deterministic")
	}
	// Different inputs hash differently.
	if AnonymizeEmail("a@b.com") == AnonymizeEmail("c@d.com") {
		t.Error("AnonymizeEmail collided on different inputs")
	}
}

func TestSanitizeToken(t *testing.T) {
	if got := SanitizeToken(""); got != "<empty>" {
		t.Errorf("SanitizeToken(\"\") = %q", got)
	}
	got := SanitizeToken("supersecrettoken")
	if got == "supersecrettoken" {
		t.Error("SanitizeToken leaked the token")
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"jane@example.com", "example.com"},
		{"not-an-email", ""},
		{"", ""},
		{"a@b@c", ""},
	}

	for _, tt := range tests {
		if got := ExtractDomain(tt.email); got != tt.want {
			t.Errorf("ExtractDomain(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}
