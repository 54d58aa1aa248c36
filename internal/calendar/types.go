package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"

	"github.com/smartsched/smartsched/internal/schedule"
)

// toEventRef converts a Google Calendar event into the core's read
// projection. All-day events carry a date without a time of day; they are
// flagged so availability sweeps can expand them to the full day.
func toEventRef(event *calendar.Event, loc *time.Location) schedule.EventRef {
	if event == nil {
		return schedule.EventRef{}
	}

	ref := schedule.EventRef{
		ID:          event.Id,
		Title:       event.Summary,
		Description: event.Description,
	}

	if event.Start != nil {
		if event.Start.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, event.Start.DateTime); err == nil {
				ref.Start = t.In(loc)
			}
		} else if event.Start.Date != "" {
			if t, err := time.ParseInLocation("2006-01-02", event.Start.Date, loc); err == nil {
				ref.Start = t
				ref.AllDay = true
			}
		}
	}

	if event.End != nil {
		if event.End.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, event.End.DateTime); err == nil {
				ref.End = t.In(loc)
			}
		} else if event.End.Date != "" {
			if t, err := time.ParseInLocation("2006-01-02", event.End.Date, loc); err == nil {
				ref.End = t
			}
		}
	}

	for _, att := range event.Attendees {
		if att.Email != "" {
			ref.Attendees = append(ref.Attendees, att.Email)
		}
	}

	return ref
}

// fromDraft builds the API event for a timed draft. Times are written as
// RFC 3339 with the target timezone so the backend stores unambiguous
// instants.
func fromDraft(draft schedule.EventDraft, loc *time.Location) *calendar.Event {
	event := &calendar.Event{
		Summary:     draft.Title,
		Description: draft.Description,
		Start: &calendar.EventDateTime{
			DateTime: draft.Start.In(loc).Format(time.RFC3339),
			TimeZone: loc.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: draft.End.In(loc).Format(time.RFC3339),
			TimeZone: loc.String(),
		},
	}

	for _, email := range draft.Attendees {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{
			Email: email,
		})
	}

	return event
}
