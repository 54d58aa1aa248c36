package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/smartsched/smartsched/internal/google"
	"github.com/smartsched/smartsched/internal/schedule"
)

// DefaultCalendarID is the calendar targeted when none is configured.
const DefaultCalendarID = "primary"

// listPageSize caps how many expanded event instances a single lookup
// returns.
const listPageSize = 250

// Client wraps the Google Calendar service for a single account and
// calendar, implementing the scheduling core's backend interface.
type Client struct {
	svc           *calendar.Service
	account       string
	calendarID    string
	loc           *time.Location
	tokenProvider google.TokenProvider

	// onRetry is invoked once per failed transient attempt, before the
	// backoff wait.
	onRetry func(attempt int, err error)
}

var _ schedule.Backend = (*Client)(nil)

// Account returns the account name this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// SetCalendarID changes which calendar the client targets.
func (c *Client) SetCalendarID(id string) {
	if id != "" {
		c.calendarID = id
	}
}

// SetLocation changes the timezone event times are projected into.
func (c *Client) SetLocation(loc *time.Location) {
	if loc != nil {
		c.loc = loc
	}
}

// OnRetry registers a hook observing transient-failure retries.
func (c *Client) OnRetry(fn func(attempt int, err error)) {
	c.onRetry = fn
}

// HasTokenForAccountWithProvider checks if a valid OAuth token exists for the specified account
func HasTokenForAccountWithProvider(account string, provider google.TokenProvider) bool {
	if provider == nil {
		return false
	}
	return provider.HasTokenForAccount(account)
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	provider := google.NewFileTokenProvider()
	return HasTokenForAccountWithProvider(account, provider)
}

// HasToken checks if a valid OAuth token exists for the default account
func HasToken() bool {
	return HasTokenForAccount("default")
}

// NewClientForAccountWithProvider creates a new Calendar client with OAuth2 authentication for a specific account
// The OAuth token is retrieved from the provided token provider
func NewClientForAccountWithProvider(ctx context.Context, account string, tokenProvider google.TokenProvider) (*Client, error) {
	if tokenProvider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	token, err := tokenProvider.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}

	conf := google.GetOAuthConfig()
	tokenSource := conf.TokenSource(ctx, token)

	client := oauth2.NewClient(ctx, tokenSource)

	// Force HTTP/1.1 by disabling HTTP/2
	transport := client.Transport.(*oauth2.Transport)
	baseTransport := &http.Transport{
		ForceAttemptHTTP2: false,
	}
	transport.Base = baseTransport

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{
		svc:           svc,
		account:       account,
		calendarID:    DefaultCalendarID,
		loc:           schedule.DefaultLocation(),
		tokenProvider: tokenProvider,
	}, nil
}

// NewClientForAccount creates a new Calendar client with OAuth2 authentication for a specific account
// Uses the default file-based token provider
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	provider := google.NewFileTokenProvider()
	return NewClientForAccountWithProvider(ctx, account, provider)
}

// NewClient creates a new Calendar client with OAuth2 authentication for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// ListEvents returns the events overlapping [timeMin, timeMax), ordered
// by start time, with recurring events expanded to single instances.
func (c *Client) ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]schedule.EventRef, error) {
	var events *calendar.Events
	err := c.withRetry(ctx, func() error {
		var err error
		events, err = c.svc.Events.List(c.calendarID).
			TimeMin(timeMin.Format(time.RFC3339)).
			TimeMax(timeMax.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			MaxResults(listPageSize).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	var refs []schedule.EventRef
	for _, event := range events.Items {
		refs = append(refs, toEventRef(event, c.loc))
	}
	return refs, nil
}

// InsertEvent creates a new event and returns the backend's record.
func (c *Client) InsertEvent(ctx context.Context, draft schedule.EventDraft) (*schedule.EventRef, error) {
	var created *calendar.Event
	err := c.withRetry(ctx, func() error {
		var err error
		created, err = c.svc.Events.Insert(c.calendarID, fromDraft(draft, c.loc)).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	ref := toEventRef(created, c.loc)
	return &ref, nil
}

// GetEvent retrieves a specific event by ID.
func (c *Client) GetEvent(ctx context.Context, id string) (*schedule.EventRef, error) {
	var event *calendar.Event
	err := c.withRetry(ctx, func() error {
		var err error
		event, err = c.svc.Events.Get(c.calendarID, id).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	ref := toEventRef(event, c.loc)
	return &ref, nil
}

// UpdateEvent overwrites an event with the fully merged draft and returns
// the updated record. The caller is responsible for merging; omitted
// draft fields are written as-is.
func (c *Client) UpdateEvent(ctx context.Context, id string, draft schedule.EventDraft) (*schedule.EventRef, error) {
	var existing *calendar.Event
	err := c.withRetry(ctx, func() error {
		var err error
		existing, err = c.svc.Events.Get(c.calendarID, id).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get existing event: %w", err)
	}

	replacement := fromDraft(draft, c.loc)
	existing.Summary = replacement.Summary
	existing.Description = replacement.Description
	existing.Start = replacement.Start
	existing.End = replacement.End
	existing.Attendees = replacement.Attendees

	var updated *calendar.Event
	err = c.withRetry(ctx, func() error {
		var err error
		updated, err = c.svc.Events.Update(c.calendarID, id, existing).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	ref := toEventRef(updated, c.loc)
	return &ref, nil
}

// DeleteEvent removes an event. Irreversible.
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	err := c.withRetry(ctx, func() error {
		return c.svc.Events.Delete(c.calendarID, id).Context(ctx).Do()
	})
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}
