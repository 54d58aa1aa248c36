package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/smartsched/smartsched/internal/logging"
	"github.com/smartsched/smartsched/internal/schedule"
)

const (
	// retryAttempts is the total number of tries for a transient failure,
	// including the first.
	retryAttempts = 3

	// retryBaseDelay is multiplied by the attempt number, so waits grow
	// linearly between tries.
	retryBaseDelay = 500 * time.Millisecond
)

// transientMarkers are the error-text fragments treated as retryable
// transport failures. Anything else is a backend-logic error and
// propagates on the first attempt.
var transientMarkers = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"no such host",
	"network is unreachable",
	"i/o timeout",
	"tls handshake timeout",
	"temporary failure",
}

// isTransient reports whether err looks like a socket-layer failure worth
// retrying.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// withRetry runs op up to retryAttempts times, waiting linearly longer
// between transient failures. Non-transient errors return immediately.
// When the budget is exhausted the last error is wrapped in
// schedule.ErrBackendUnavailable so callers can downgrade it to a
// structured connection-error result.
func (c *Client) withRetry(ctx context.Context, op func() error) error {
	var err error
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
		slog.Debug("transient backend failure, retrying",
			logging.Account(c.account),
			logging.Calendar(c.calendarID),
			logging.Attempt(attempt),
			logging.Err(err))
		if c.onRetry != nil {
			c.onRetry(attempt, err)
		}
		if attempt < retryAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * retryBaseDelay):
			}
		}
	}
	return fmt.Errorf("%w after %d attempts: %v", schedule.ErrBackendUnavailable, retryAttempts, err)
}
