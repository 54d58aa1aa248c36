package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// fakeBackend is an in-memory Backend for tests. Every mutation is
// counted so confirmation-gating tests can assert nothing was written.
type fakeBackend struct {
	events []EventRef

	nextID  int
	inserts int
	updates int
	deletes int

	// errs are returned (and consumed) before any real work happens.
	errs []error
}

func (f *fakeBackend) popErr() error {
	if len(f.errs) == 0 {
		return nil
	}
	err := f.errs[0]
	f.errs = f.errs[1:]
	return err
}

func (f *fakeBackend) ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]EventRef, error) {
	if err := f.popErr(); err != nil {
		return nil, err
	}
	window := Interval{Start: timeMin, End: timeMax}
	var out []EventRef
	for _, e := range f.events {
		if e.Interval().Overlaps(window) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeBackend) InsertEvent(ctx context.Context, draft EventDraft) (*EventRef, error) {
	if err := f.popErr(); err != nil {
		return nil, err
	}
	f.inserts++
	f.nextID++
	e := EventRef{
		ID:          fmt.Sprintf("evt-%d", f.nextID),
		Title:       draft.Title,
		Description: draft.Description,
		Start:       draft.Start,
		End:         draft.End,
		Attendees:   draft.Attendees,
	}
	f.events = append(f.events, e)
	return &e, nil
}

func (f *fakeBackend) GetEvent(ctx context.Context, id string) (*EventRef, error) {
	if err := f.popErr(); err != nil {
		return nil, err
	}
	for _, e := range f.events {
		if e.ID == id {
			ev := e
			return &ev, nil
		}
	}
	return nil, errors.New("event not found: " + id)
}

func (f *fakeBackend) UpdateEvent(ctx context.Context, id string, draft EventDraft) (*EventRef, error) {
	if err := f.popErr(); err != nil {
		return nil, err
	}
	for i, e := range f.events {
		if e.ID == id {
			f.updates++
			f.events[i] = EventRef{
				ID:          id,
				Title:       draft.Title,
				Description: draft.Description,
				Start:       draft.Start,
				End:         draft.End,
				Attendees:   draft.Attendees,
			}
			ev := f.events[i]
			return &ev, nil
		}
	}
	return nil, errors.New("event not found: " + id)
}

func (f *fakeBackend) DeleteEvent(ctx context.Context, id string) error {
	if err := f.popErr(); err != nil {
		return err
	}
	for i, e := range f.events {
		if e.ID == id {
			f.deletes++
			f.events = append(f.events[:i], f.events[i+1:]...)
			return nil
		}
	}
	return errors.New("event not found: " + id)
}
