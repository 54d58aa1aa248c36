package schedule

import (
	"sort"
	"time"
)

// BusyInterval returns the time range an event occupies for availability
// purposes. All-day events block whole dates, 00:00:00 through 23:59:59,
// from their start date up to the day before their exclusive end date, so
// a multi-day all-day event blocks every day it spans.
func BusyInterval(e EventRef) Interval {
	if !e.AllDay {
		return e.Interval()
	}
	loc := e.Start.Location()
	y, m, d := e.Start.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)

	// The backend reports all-day ends as an exclusive date.
	last := e.End.In(loc).AddDate(0, 0, -1)
	if last.Before(start) {
		last = start
	}
	ly, lm, ld := last.Date()
	return Interval{
		Start: start,
		End:   time.Date(ly, lm, ld, 23, 59, 59, 0, loc),
	}
}

// FindSlots computes the free slots of at least minDuration inside window,
// given the busy intervals. The sweep keeps busy order stable for equal
// starts, so the returned slots are disjoint, ordered by start ascending,
// and none overlaps a busy interval. With no busy intervals the whole
// window is returned as a single slot when it is long enough.
func FindSlots(window Interval, busy []Interval, minDuration time.Duration) []Interval {
	sorted := make([]Interval, len(busy))
	copy(sorted, busy)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	var slots []Interval
	cursor := window.Start
	for _, b := range sorted {
		if b.Start.After(cursor) && b.Start.Sub(cursor) >= minDuration {
			slots = append(slots, Interval{Start: cursor, End: b.Start})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if window.End.Sub(cursor) >= minDuration {
		slots = append(slots, Interval{Start: cursor, End: window.End})
	}
	return slots
}

// FindSlotsForEvents is FindSlots over event projections, clipping each
// event's busy range to the window and dropping events entirely outside
// it.
func FindSlotsForEvents(window Interval, events []EventRef, minDuration time.Duration) []Interval {
	busy := make([]Interval, 0, len(events))
	for _, e := range events {
		iv := BusyInterval(e)
		if !iv.Overlaps(window) {
			continue
		}
		if iv.Start.Before(window.Start) {
			iv.Start = window.Start
		}
		if iv.End.After(window.End) {
			iv.End = window.End
		}
		busy = append(busy, iv)
	}
	return FindSlots(window, busy, minDuration)
}

// Conflicts returns the events whose busy range overlaps proposed, in the
// order given.
func Conflicts(proposed Interval, events []EventRef) []EventRef {
	var out []EventRef
	for _, e := range events {
		if BusyInterval(e).Overlaps(proposed) {
			out = append(out, e)
		}
	}
	return out
}
