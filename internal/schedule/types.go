package schedule

import (
	"context"
	"errors"
	"time"
)

// ErrBackendUnavailable is returned by a Backend implementation when a
// transient transport failure persisted through the whole retry budget.
// The gateway downgrades it to a connection_error result instead of
// surfacing an error to the caller.
var ErrBackendUnavailable = errors.New("calendar backend unavailable")

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the length of the interval.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// IsValid reports whether Start is strictly before End.
func (iv Interval) IsValid() bool {
	return iv.Start.Before(iv.End)
}

// Overlaps reports whether two half-open intervals overlap. Intervals
// that merely touch (one ends exactly where the other starts) do not
// overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && iv.End.After(other.Start)
}

// Contains reports whether t falls inside the interval.
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// EventRef is a read projection of a backend-stored event. IDs are always
// backend-issued; the core only echoes them.
type EventRef struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Attendees   []string  `json:"attendees,omitempty"`
	AllDay      bool      `json:"allDay,omitempty"`
}

// Interval returns the event's time range.
func (e EventRef) Interval() Interval {
	return Interval{Start: e.Start, End: e.End}
}

// EventDraft carries the fields needed to create an event, or the fully
// merged state written back during an update.
type EventDraft struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Attendees   []string  `json:"attendees,omitempty"`
}

// EventPatch describes a partial update. Nil fields are left untouched on
// the backend; the gateway merges the patch into the current event state
// before writing (read-modify-write).
type EventPatch struct {
	Title       *string
	Description *string
	Start       *time.Time
	End         *time.Time
	Attendees   []string
}

// IsEmpty reports whether the patch changes nothing.
func (p EventPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil &&
		p.Start == nil && p.End == nil && p.Attendees == nil
}

// Backend is the narrow calendar capability the core depends on. The
// remote store owns all state; implementations are expected to wrap
// transport failures into ErrBackendUnavailable once their retry budget
// is exhausted and let backend-logic errors (not-found, permission)
// propagate untouched.
type Backend interface {
	// ListEvents returns events overlapping [timeMin, timeMax), ordered
	// by start time ascending, with recurring events expanded to single
	// instances.
	ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]EventRef, error)

	// InsertEvent creates a new event and returns the backend's record.
	InsertEvent(ctx context.Context, draft EventDraft) (*EventRef, error)

	// GetEvent retrieves a single event by its backend-issued ID.
	GetEvent(ctx context.Context, id string) (*EventRef, error)

	// UpdateEvent overwrites the event's fields with the supplied draft
	// and returns the updated record.
	UpdateEvent(ctx context.Context, id string, draft EventDraft) (*EventRef, error)

	// DeleteEvent removes an event. Irreversible.
	DeleteEvent(ctx context.Context, id string) error
}
