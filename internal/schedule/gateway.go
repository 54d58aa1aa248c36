package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Gateway wraps every mutating calendar operation in a confirmation
// protocol. Nothing is written until the caller re-invokes with
// confirmed=true; the gateway itself is stateless, so the caller must
// resupply all fields on confirmation.
type Gateway struct {
	backend  Backend
	locator  *Locator
	resolver *Resolver
}

// NewGateway creates a Gateway over backend, resolving phrases through
// resolver.
func NewGateway(backend Backend, resolver *Resolver) *Gateway {
	return &Gateway{
		backend:  backend,
		locator:  NewLocator(backend, resolver),
		resolver: resolver,
	}
}

// Locator exposes the gateway's event locator for read-only lookups.
func (g *Gateway) Locator() *Locator {
	return g.locator
}

// CreateRequest describes a proposed event creation.
type CreateRequest struct {
	Draft             EventDraft
	Confirmed         bool
	SkipConflictCheck bool
}

// Create proposes or executes an event creation. Unconfirmed requests run
// a conflict pre-check (unless explicitly skipped) and return either the
// conflicting events or a confirmation prompt; confirmed requests insert
// and return the backend's record verbatim.
func (g *Gateway) Create(ctx context.Context, req CreateRequest) (*Result, error) {
	draft := req.Draft
	if draft.Title == "" {
		return nil, fmt.Errorf("event title must not be empty")
	}
	proposed := Interval{Start: draft.Start, End: draft.End}
	if !proposed.IsValid() {
		return nil, fmt.Errorf("event start %s must be before end %s",
			draft.Start.Format(time.RFC3339), draft.End.Format(time.RFC3339))
	}

	if !req.Confirmed {
		if !req.SkipConflictCheck {
			events, err := g.backend.ListEvents(ctx, draft.Start, draft.End)
			if err != nil {
				return g.downgrade(err)
			}
			if conflicts := Conflicts(proposed, events); len(conflicts) > 0 {
				return ConflictBlocked(conflicts), nil
			}
		}
		return Pending(g.createPrompt(draft)), nil
	}

	created, err := g.backend.InsertEvent(ctx, draft)
	if err != nil {
		return g.downgrade(err)
	}
	return Success(created), nil
}

// UpdateByID proposes or executes a partial update of a known event.
// Omitted patch fields keep their current backend values; the merge is
// read-modify-write against the event's state at call time.
func (g *Gateway) UpdateByID(ctx context.Context, id string, patch EventPatch, confirmed bool) (*Result, error) {
	current, err := g.backend.GetEvent(ctx, id)
	if err != nil {
		return g.downgrade(err)
	}

	if !confirmed {
		return Pending(fmt.Sprintf("Update %q (%s)? Reply with confirmed=true to apply.",
			current.Title, current.Start.Format(time.RFC3339))), nil
	}

	updated, err := g.backend.UpdateEvent(ctx, id, mergePatch(*current, patch))
	if err != nil {
		return g.downgrade(err)
	}
	return Success(updated), nil
}

// DeleteByID proposes or executes the removal of a known event.
func (g *Gateway) DeleteByID(ctx context.Context, id string, confirmed bool) (*Result, error) {
	current, err := g.backend.GetEvent(ctx, id)
	if err != nil {
		return g.downgrade(err)
	}

	if !confirmed {
		return Pending(fmt.Sprintf("Delete %q (%s)? This cannot be undone; reply with confirmed=true to proceed.",
			current.Title, current.Start.Format(time.RFC3339))), nil
	}

	if err := g.backend.DeleteEvent(ctx, id); err != nil {
		return g.downgrade(err)
	}
	return Deleted(*current), nil
}

// UpdateByName locates an event by fuzzy name and optional date phrase,
// then applies the same confirmation protocol as UpdateByID. Zero or
// multiple matches end the request with a structured status; the gateway
// never picks among candidates.
func (g *Gateway) UpdateByName(ctx context.Context, name, datePhrase string, patch EventPatch, confirmed bool, now time.Time) (*Result, error) {
	match, res, err := g.locateOne(ctx, name, datePhrase, now)
	if res != nil || err != nil {
		return res, err
	}

	if !confirmed {
		return Pending(fmt.Sprintf("Update %q on %s? Reply with confirmed=true to apply.",
			match.Title, match.Start.Format("Monday, January 2 at 15:04"))), nil
	}

	updated, err := g.backend.UpdateEvent(ctx, match.ID, mergePatch(*match, patch))
	if err != nil {
		return g.downgrade(err)
	}
	return Success(updated), nil
}

// DeleteByName locates an event by fuzzy name and optional date phrase,
// then applies the same confirmation protocol as DeleteByID.
func (g *Gateway) DeleteByName(ctx context.Context, name, datePhrase string, confirmed bool, now time.Time) (*Result, error) {
	match, res, err := g.locateOne(ctx, name, datePhrase, now)
	if res != nil || err != nil {
		return res, err
	}

	if !confirmed {
		return Pending(fmt.Sprintf("Delete %q on %s? This cannot be undone; reply with confirmed=true to proceed.",
			match.Title, match.Start.Format("Monday, January 2 at 15:04"))), nil
	}

	if err := g.backend.DeleteEvent(ctx, match.ID); err != nil {
		return g.downgrade(err)
	}
	return Deleted(*match), nil
}

// locateOne resolves name+date to exactly one event. A non-nil Result
// means the request terminated with a cardinality status.
func (g *Gateway) locateOne(ctx context.Context, name, datePhrase string, now time.Time) (*EventRef, *Result, error) {
	matches, err := g.locator.Find(ctx, name, datePhrase, now)
	if err != nil {
		res, err := g.downgrade(err)
		return nil, res, err
	}
	switch len(matches) {
	case 0:
		return nil, NoEventsFound(name), nil
	case 1:
		return &matches[0], nil, nil
	default:
		return nil, MultipleEventsFound(matches), nil
	}
}

// downgrade converts an exhausted-retry transport failure into a
// connection_error result. Backend-logic errors pass through untouched so
// real operational problems stay visible.
func (g *Gateway) downgrade(err error) (*Result, error) {
	if errors.Is(err, ErrBackendUnavailable) {
		return ConnectionError(), nil
	}
	return nil, err
}

func (g *Gateway) createPrompt(draft EventDraft) string {
	loc := g.resolver.Location()
	return fmt.Sprintf("Create %q on %s from %s to %s? Reply with confirmed=true to create it.",
		draft.Title,
		draft.Start.In(loc).Format("Monday, January 2"),
		draft.Start.In(loc).Format("15:04"),
		draft.End.In(loc).Format("15:04"))
}

// mergePatch overlays the patch's non-nil fields on the current event.
func mergePatch(current EventRef, patch EventPatch) EventDraft {
	draft := EventDraft{
		Title:       current.Title,
		Description: current.Description,
		Start:       current.Start,
		End:         current.End,
		Attendees:   current.Attendees,
	}
	if patch.Title != nil {
		draft.Title = *patch.Title
	}
	if patch.Description != nil {
		draft.Description = *patch.Description
	}
	if patch.Start != nil {
		draft.Start = *patch.Start
	}
	if patch.End != nil {
		draft.End = *patch.End
	}
	if patch.Attendees != nil {
		draft.Attendees = patch.Attendees
	}
	return draft
}
