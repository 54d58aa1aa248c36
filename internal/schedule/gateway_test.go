package schedule

import (
	"context"
	"errors"
	"testing"
	"time"
)

func gatewayFixture() (*Gateway, *fakeBackend) {
	loc := DefaultLocation()
	backend := &fakeBackend{
		events: []EventRef{
			{ID: "1", Title: "Team Meeting", Start: time.Date(2025, time.June, 12, 10, 0, 0, 0, loc), End: time.Date(2025, time.June, 12, 11, 0, 0, 0, loc)},
			{ID: "2", Title: "Team Meeting Prep", Start: time.Date(2025, time.June, 12, 9, 0, 0, 0, loc), End: time.Date(2025, time.June, 12, 9, 30, 0, 0, loc)},
		},
	}
	return NewGateway(backend, NewResolver(loc)), backend
}

func draftAt(startHour, endHour int) EventDraft {
	loc := DefaultLocation()
	return EventDraft{
		Title: "Design Sync",
		Start: time.Date(2025, time.June, 12, startHour, 0, 0, 0, loc),
		End:   time.Date(2025, time.June, 12, endHour, 0, 0, 0, loc),
	}
}

func TestCreateUnconfirmedIsPending(t *testing.T) {
	g, backend := gatewayFixture()

	res, err := g.Create(context.Background(), CreateRequest{Draft: draftAt(14, 15)})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusPendingConfirmation {
		t.Fatalf("status = %q, want pending_confirmation", res.Status)
	}
	if res.Prompt == "" {
		t.Error("pending result carries no prompt")
	}
	if backend.inserts != 0 {
		t.Errorf("unconfirmed create wrote to the backend %d times", backend.inserts)
	}
}

func TestCreateConflictBlocked(t *testing.T) {
	g, backend := gatewayFixture()

	// Overlaps the 10:00 Team Meeting.
	res, err := g.Create(context.Background(), CreateRequest{Draft: draftAt(10, 11)})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusConflictDetected {
		t.Fatalf("status = %q, want conflict_detected", res.Status)
	}
	if len(res.Conflicts) != 1 || res.Conflicts[0].ID != "1" {
		t.Errorf("conflicts = %v", res.Conflicts)
	}
	if res.Suggestion == "" {
		t.Error("conflict result carries no remediation suggestion")
	}
	if backend.inserts != 0 {
		t.Error("conflicted create reached the backend")
	}

	// The same slot passes when the pre-check is skipped.
	res, err = g.Create(context.Background(), CreateRequest{Draft: draftAt(10, 11), SkipConflictCheck: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusPendingConfirmation {
		t.Fatalf("skip-check status = %q", res.Status)
	}
}

func TestCreateConfirmedInserts(t *testing.T) {
	g, backend := gatewayFixture()

	res, err := g.Create(context.Background(), CreateRequest{Draft: draftAt(14, 15), Confirmed: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Event == nil || res.Event.ID == "" {
		t.Fatalf("confirmed create returned no record: %+v", res)
	}
	if backend.inserts != 1 {
		t.Errorf("inserts = %d, want exactly 1", backend.inserts)
	}
}

func TestCreateInvalidDraft(t *testing.T) {
	g, _ := gatewayFixture()

	if _, err := g.Create(context.Background(), CreateRequest{Draft: draftAt(15, 14)}); err == nil {
		t.Error("inverted interval accepted")
	}
	d := draftAt(14, 15)
	d.Title = ""
	if _, err := g.Create(context.Background(), CreateRequest{Draft: d}); err == nil {
		t.Error("empty title accepted")
	}
}

func TestDeleteByNameCardinality(t *testing.T) {
	g, backend := gatewayFixture()
	ctx := context.Background()

	// Ambiguous fragment matches both meetings.
	res, err := g.DeleteByName(ctx, "Team Meeting", "", false, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusMultipleEventsFound {
		t.Fatalf("status = %q, want multiple_events_found", res.Status)
	}
	if len(res.Candidates) != 2 {
		t.Errorf("candidates = %v", res.Candidates)
	}

	// No match at all.
	res, err = g.DeleteByName(ctx, "Yoga", "", true, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusNoEventsFound {
		t.Fatalf("status = %q, want no_events_found", res.Status)
	}
	if backend.deletes != 0 {
		t.Error("a non-singleton lookup caused a delete")
	}
}

func TestDeleteByNameConfirmationGate(t *testing.T) {
	g, backend := gatewayFixture()
	ctx := context.Background()

	res, err := g.DeleteByName(ctx, "Team Meeting Prep", "", false, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusPendingConfirmation {
		t.Fatalf("status = %q, want pending_confirmation", res.Status)
	}
	if backend.deletes != 0 {
		t.Error("unconfirmed delete mutated the backend")
	}

	res, err = g.DeleteByName(ctx, "Team Meeting Prep", "", true, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusDeleted {
		t.Fatalf("status = %q, want deleted", res.Status)
	}
	if backend.deletes != 1 {
		t.Errorf("deletes = %d, want exactly 1", backend.deletes)
	}
}

func TestUpdateByNameMergesPatch(t *testing.T) {
	g, backend := gatewayFixture()
	ctx := context.Background()
	loc := DefaultLocation()

	newStart := time.Date(2025, time.June, 12, 9, 15, 0, 0, loc)
	patch := EventPatch{Start: &newStart}

	res, err := g.UpdateByName(ctx, "Team Meeting Prep", "", patch, true, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if res.Event == nil {
		t.Fatalf("confirmed update returned no record: %+v", res)
	}
	if !res.Event.Start.Equal(newStart) {
		t.Errorf("start = %s, want %s", res.Event.Start, newStart)
	}
	// Untouched fields survive the read-modify-write.
	if res.Event.Title != "Team Meeting Prep" {
		t.Errorf("title changed to %q", res.Event.Title)
	}
	if backend.updates != 1 {
		t.Errorf("updates = %d, want exactly 1", backend.updates)
	}
}

func TestUpdateByIDConfirmationGate(t *testing.T) {
	g, backend := gatewayFixture()
	ctx := context.Background()

	title := "Renamed"
	res, err := g.UpdateByID(ctx, "1", EventPatch{Title: &title}, false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusPendingConfirmation {
		t.Fatalf("status = %q", res.Status)
	}
	if backend.updates != 0 {
		t.Error("unconfirmed update mutated the backend")
	}

	res, err = g.UpdateByID(ctx, "1", EventPatch{Title: &title}, true)
	if err != nil {
		t.Fatal(err)
	}
	if res.Event == nil || res.Event.Title != "Renamed" {
		t.Fatalf("updated record = %+v", res.Event)
	}
}

func TestGatewayDowngradesConnectionErrors(t *testing.T) {
	g, backend := gatewayFixture()
	backend.errs = []error{ErrBackendUnavailable}

	res, err := g.Create(context.Background(), CreateRequest{Draft: draftAt(14, 15), Confirmed: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusConnectionError {
		t.Fatalf("status = %q, want connection_error", res.Status)
	}
}

func TestGatewayPropagatesBackendLogicErrors(t *testing.T) {
	g, backend := gatewayFixture()
	logicErr := errors.New("permission denied")
	backend.errs = []error{logicErr}

	_, err := g.Create(context.Background(), CreateRequest{Draft: draftAt(14, 15), Confirmed: true})
	if !errors.Is(err, logicErr) {
		t.Fatalf("err = %v, want the backend's own error", err)
	}
}

func TestDeleteByIDNotFoundPropagates(t *testing.T) {
	g, _ := gatewayFixture()

	if _, err := g.DeleteByID(context.Background(), "missing", true); err == nil {
		t.Error("unknown id did not propagate an error")
	}
}
