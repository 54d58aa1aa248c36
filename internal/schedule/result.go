package schedule

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status discriminates the non-success outcomes every operation can
// report. Success is signalled by the presence of a backend record (an
// event with an id) instead of a status.
type Status string

const (
	StatusPendingConfirmation Status = "pending_confirmation"
	StatusConflictDetected    Status = "conflict_detected"
	StatusNoEventsFound       Status = "no_events_found"
	StatusMultipleEventsFound Status = "multiple_events_found"
	StatusDeleted             Status = "deleted"
	StatusConnectionError     Status = "connection_error"
)

// Result is the single tagged shape every gateway operation returns.
// Exactly one of Event or Status is set: a non-nil Event marshals as the
// backend record itself, anything else marshals as a status object with
// whatever detail fields apply.
type Result struct {
	Event *EventRef

	Status     Status
	Message    string
	Prompt     string
	Suggestion string
	Candidates []EventRef
	Conflicts  []EventRef
}

// statusResult is the wire shape for non-success outcomes.
type statusResult struct {
	Status     Status     `json:"status"`
	Message    string     `json:"message,omitempty"`
	Prompt     string     `json:"confirmation_prompt,omitempty"`
	Suggestion string     `json:"suggestion,omitempty"`
	Candidates []EventRef `json:"candidates,omitempty"`
	Conflicts  []EventRef `json:"conflicts,omitempty"`
}

// MarshalJSON inlines the backend record on success so callers can treat
// "has an id" as the success check.
func (r *Result) MarshalJSON() ([]byte, error) {
	if r.Event != nil {
		return json.Marshal(r.Event)
	}
	return json.Marshal(statusResult{
		Status:     r.Status,
		Message:    r.Message,
		Prompt:     r.Prompt,
		Suggestion: r.Suggestion,
		Candidates: r.Candidates,
		Conflicts:  r.Conflicts,
	})
}

// Success wraps a backend record as a successful result.
func Success(e *EventRef) *Result {
	return &Result{Event: e}
}

// Pending returns a pending_confirmation result carrying the prompt the
// caller should relay before re-invoking with confirmed=true.
func Pending(prompt string) *Result {
	return &Result{Status: StatusPendingConfirmation, Prompt: prompt}
}

// ConflictBlocked reports the events overlapping a proposed interval.
func ConflictBlocked(conflicts []EventRef) *Result {
	return &Result{
		Status:     StatusConflictDetected,
		Message:    fmt.Sprintf("%d existing event(s) overlap the proposed time", len(conflicts)),
		Suggestion: "search for available slots and pick a free time",
		Conflicts:  conflicts,
	}
}

// NoEventsFound reports a lookup that matched nothing.
func NoEventsFound(name string) *Result {
	return &Result{
		Status:  StatusNoEventsFound,
		Message: fmt.Sprintf("no events matching %q were found", name),
	}
}

// MultipleEventsFound lists every candidate so the caller can
// disambiguate; the gateway never guesses among them.
func MultipleEventsFound(candidates []EventRef) *Result {
	return &Result{
		Status:     StatusMultipleEventsFound,
		Message:    fmt.Sprintf("%d events match; specify which one", len(candidates)),
		Candidates: candidates,
	}
}

// Deleted reports a completed delete, echoing the removed event's fields.
func Deleted(e EventRef) *Result {
	return &Result{
		Status:  StatusDeleted,
		Message: fmt.Sprintf("deleted %q (%s)", e.Title, e.Start.Format(time.RFC3339)),
	}
}

// ConnectionError reports an exhausted retry budget as data instead of an
// error.
func ConnectionError() *Result {
	return &Result{
		Status:  StatusConnectionError,
		Message: "calendar backend unreachable after retries; try again shortly",
	}
}
