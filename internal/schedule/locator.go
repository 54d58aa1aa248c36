package schedule

import (
	"context"
	"strings"
	"time"
)

// DefaultLocatorSpanDays is how far ahead the locator searches when no
// date phrase narrows the lookup to a single day.
const DefaultLocatorSpanDays = 30

// Locator resolves a fuzzy (name, optional date) pair to calendar events.
type Locator struct {
	backend  Backend
	resolver *Resolver
}

// NewLocator creates a Locator querying backend through resolver's
// target location.
func NewLocator(backend Backend, resolver *Resolver) *Locator {
	return &Locator{backend: backend, resolver: resolver}
}

// Find returns the events matching nameFragment, ordered by start time as
// the backend reports them. A recognized datePhrase narrows the search to
// that single day; otherwise the next 30 days from now are searched.
//
// Matching is case-insensitive and two-pass: titles containing the
// fragment win outright, and only when no title does is the reverse
// direction tried, so an over-specified fragment ("dentist appointment
// downtown") still finds the event it names. Running both directions at
// once would make an exact title like "Team Meeting Prep" ambiguous
// against its own prefix event.
func (l *Locator) Find(ctx context.Context, nameFragment, datePhrase string, now time.Time) ([]EventRef, error) {
	window := l.window(datePhrase, now)

	events, err := l.backend.ListEvents(ctx, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(nameFragment))
	var matches []EventRef
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.Title), query) {
			matches = append(matches, e)
		}
	}
	if len(matches) > 0 {
		return matches, nil
	}
	for _, e := range events {
		title := strings.ToLower(e.Title)
		if title != "" && strings.Contains(query, title) {
			matches = append(matches, e)
		}
	}
	return matches, nil
}

func (l *Locator) window(datePhrase string, now time.Time) Interval {
	if datePhrase != "" {
		if day, ok := l.resolver.ResolveDate(datePhrase, now); ok {
			return l.resolver.DayInterval(day)
		}
	}
	start := now.In(l.resolver.Location())
	return Interval{Start: start, End: start.AddDate(0, 0, DefaultLocatorSpanDays)}
}
