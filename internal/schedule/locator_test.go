package schedule

import (
	"context"
	"testing"
	"time"
)

func locatorFixture() (*Locator, *fakeBackend) {
	loc := DefaultLocation()
	backend := &fakeBackend{
		events: []EventRef{
			{ID: "1", Title: "Team Meeting", Start: time.Date(2025, time.June, 12, 10, 0, 0, 0, loc), End: time.Date(2025, time.June, 12, 11, 0, 0, 0, loc)},
			{ID: "2", Title: "Team Meeting Prep", Start: time.Date(2025, time.June, 12, 9, 0, 0, 0, loc), End: time.Date(2025, time.June, 12, 9, 30, 0, 0, loc)},
			{ID: "3", Title: "Dentist", Start: time.Date(2025, time.June, 13, 15, 0, 0, 0, loc), End: time.Date(2025, time.June, 13, 16, 0, 0, 0, loc)},
		},
	}
	return NewLocator(backend, NewResolver(loc)), backend
}

func TestLocatorBidirectionalMatch(t *testing.T) {
	l, _ := locatorFixture()
	ctx := context.Background()

	// The fragment is a substring of both titles.
	got, err := l.Find(ctx, "Team Meeting", "", testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("Find(Team Meeting) = %d events, want 2", len(got))
	}

	// The longer fragment matches only the one title it contains.
	got, err = l.Find(ctx, "Team Meeting Prep", "", testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("Find(Team Meeting Prep) = %v", got)
	}

	// Over-specified fragment containing a full title still matches it.
	got, err = l.Find(ctx, "dentist appointment downtown", "", testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("over-specified query = %v", got)
	}
}

func TestLocatorContainmentWinsOverFallback(t *testing.T) {
	loc := DefaultLocation()
	backend := &fakeBackend{
		events: []EventRef{
			{ID: "1", Title: "Sync", Start: time.Date(2025, time.June, 12, 10, 0, 0, 0, loc), End: time.Date(2025, time.June, 12, 10, 30, 0, 0, loc)},
			{ID: "2", Title: "Weekly Sync Planning", Start: time.Date(2025, time.June, 12, 11, 0, 0, 0, loc), End: time.Date(2025, time.June, 12, 12, 0, 0, 0, loc)},
		},
	}
	l := NewLocator(backend, NewResolver(loc))

	// "Sync" is contained in the fragment, but the fragment is also
	// contained in "Weekly Sync Planning". The direct containment match
	// must win alone; the reverse direction is a fallback, not a peer.
	got, err := l.Find(context.Background(), "Weekly Sync", "", testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("Find(Weekly Sync) = %v, want only Weekly Sync Planning", got)
	}
}

func TestLocatorDateNarrowing(t *testing.T) {
	l, _ := locatorFixture()
	ctx := context.Background()

	// June 13 holds only the dentist event.
	got, err := l.Find(ctx, "dentist", "friday", testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("Find(dentist, friday) = %v", got)
	}

	// The team meeting is not on that day.
	got, err = l.Find(ctx, "team meeting", "friday", testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("wrong-day query = %v", got)
	}
}

func TestLocatorNoMatch(t *testing.T) {
	l, _ := locatorFixture()

	got, err := l.Find(context.Background(), "yoga", "", testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("Find(yoga) = %v", got)
	}
}
