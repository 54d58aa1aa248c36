package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/smartsched/smartsched/internal/calendar"
	"github.com/smartsched/smartsched/internal/instrumentation"
	"github.com/smartsched/smartsched/internal/schedule"
)

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx             context.Context
	cancel          context.CancelFunc
	calendarClients map[string]*calendar.Client // Maps account name to Calendar client
	calendarID      string
	location        *time.Location
	readOnly        bool
	metrics         *instrumentation.Metrics
	auditLogger     *instrumentation.AuditLogger
	mu              sync.RWMutex
	shutdown        bool
}

// Options configure a ServerContext.
type Options struct {
	// CalendarID is the calendar all clients operate on (default: "primary").
	CalendarID string

	// Timezone is the IANA timezone name used for interpreting date phrases.
	// Falls back to the scheduler default when empty or unloadable.
	Timezone string

	// ReadOnly disables all mutating tools when set.
	ReadOnly bool
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context, opts Options) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	calendarID := opts.CalendarID
	if calendarID == "" {
		calendarID = calendar.DefaultCalendarID
	}

	loc := schedule.DefaultLocation()
	if opts.Timezone != "" {
		parsed, err := time.LoadLocation(opts.Timezone)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("invalid timezone %q: %w", opts.Timezone, err)
		}
		loc = parsed
	}

	sc := &ServerContext{
		ctx:             shutdownCtx,
		cancel:          cancel,
		calendarClients: make(map[string]*calendar.Client),
		calendarID:      calendarID,
		location:        loc,
		readOnly:        opts.ReadOnly,
		shutdown:        false,
	}

	// Try to create default Calendar client, but don't fail if token is missing
	// Clients will be lazily initialized when first needed
	if calendar.HasToken() {
		client, err := calendar.NewClient(shutdownCtx)
		if err != nil {
			fmt.Printf("Warning: failed to create Calendar client for default account: %v\n", err)
		} else {
			sc.configureClient(client)
			sc.calendarClients["default"] = client
		}
	}

	return sc, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Location returns the timezone used for date phrase resolution.
func (sc *ServerContext) Location() *time.Location {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.location
}

// CalendarID returns the calendar identifier clients operate on.
func (sc *ServerContext) CalendarID() string {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.calendarID
}

// ReadOnly returns whether mutating tools are disabled.
func (sc *ServerContext) ReadOnly() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.readOnly
}

// SetMetrics sets the metrics recorder used by tools and clients.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// Metrics returns the metrics recorder, or nil if instrumentation is disabled.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger sets the audit logger used by tools.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// AuditLogger returns the audit logger, or nil if audit logging is disabled.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// configureClient applies server-wide settings to a calendar client.
// Caller must hold sc.mu or be in the constructor.
func (sc *ServerContext) configureClient(client *calendar.Client) {
	client.SetCalendarID(sc.calendarID)
	client.SetLocation(sc.location)
	client.OnRetry(func(attempt int, _ error) {
		// Metrics may be wired after client creation, so resolve at call time.
		if m := sc.Metrics(); m != nil {
			m.RecordBackendRetry(sc.ctx, "unknown", attempt)
		}
	})
}

// CalendarClientForAccount returns the Calendar client for a specific account
// Creates and caches the client if it doesn't exist yet
// Returns nil if the account has no token
func (sc *ServerContext) CalendarClientForAccount(account string) *calendar.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	// Check if client already exists
	if client, ok := sc.calendarClients[account]; ok {
		return client
	}

	// Try to create client if token exists
	if !calendar.HasTokenForAccount(account) {
		return nil
	}

	client, err := calendar.NewClientForAccount(sc.ctx, account)
	if err != nil {
		fmt.Printf("Warning: failed to create Calendar client for account %s: %v\n", account, err)
		return nil
	}

	sc.configureClient(client)
	sc.calendarClients[account] = client
	return client
}

// CalendarClient returns the Calendar client for the default account
func (sc *ServerContext) CalendarClient() *calendar.Client {
	return sc.CalendarClientForAccount("default")
}

// SetCalendarClientForAccount sets the Calendar client for a specific account
func (sc *ServerContext) SetCalendarClientForAccount(account string, client *calendar.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.calendarClients[account] = client
}

// SetCalendarClient sets the Calendar client for the default account
func (sc *ServerContext) SetCalendarClient(client *calendar.Client) {
	sc.SetCalendarClientForAccount("default", client)
}

// GatewayForAccount returns a confirmation-gated scheduling gateway backed by
// the account's calendar client, or nil if the account has no token.
func (sc *ServerContext) GatewayForAccount(account string) *schedule.Gateway {
	client := sc.CalendarClientForAccount(account)
	if client == nil {
		return nil
	}

	sc.mu.RLock()
	loc := sc.location
	sc.mu.RUnlock()

	return schedule.NewGateway(client, schedule.NewResolver(loc))
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
