package calendar

import (
	"context"
	"errors"
	"testing"

	"github.com/smartsched/smartsched/internal/schedule"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"connection reset", errors.New("read: connection reset by peer"), true},
		{"io timeout", errors.New("Get \"https://example.com\": i/o timeout"), true},
		{"no such host", errors.New("dial tcp: lookup api.example.com: no such host"), true},
		{"not found", errors.New("googleapi: Error 404: Not Found"), false},
		{"permission denied", errors.New("googleapi: Error 403: Forbidden"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTransient(tt.err); got != tt.expected {
				t.Errorf("isTransient(%v) = %v, expected %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestWithRetryTransientExhaustsBudget(t *testing.T) {
	c := &Client{}
	attempts := 0
	c.OnRetry(func(attempt int, err error) {
		if attempt != attempts {
			t.Errorf("retry hook attempt = %d, expected %d", attempt, attempts)
		}
	})

	err := c.withRetry(context.Background(), func() error {
		attempts++
		return errors.New("read: connection reset by peer")
	})

	if attempts != retryAttempts {
		t.Errorf("attempts = %d, expected exactly %d", attempts, retryAttempts)
	}
	if !errors.Is(err, schedule.ErrBackendUnavailable) {
		t.Errorf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestWithRetryNonTransientReturnsImmediately(t *testing.T) {
	c := &Client{}
	logicErr := errors.New("googleapi: Error 404: Not Found")
	attempts := 0

	err := c.withRetry(context.Background(), func() error {
		attempts++
		return logicErr
	})

	if attempts != 1 {
		t.Errorf("attempts = %d, expected 1", attempts)
	}
	if !errors.Is(err, logicErr) {
		t.Errorf("expected the original error, got %v", err)
	}
	if errors.Is(err, schedule.ErrBackendUnavailable) {
		t.Error("logic error was wrapped as unavailable")
	}
}

func TestWithRetrySucceedsAfterTransientFailure(t *testing.T) {
	c := &Client{}
	attempts := 0

	err := c.withRetry(context.Background(), func() error {
		attempts++
		if attempts == 1 {
			return errors.New("dial tcp: connection refused")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, expected 2", attempts)
	}
}

func TestWithRetryHonorsContextCancellation(t *testing.T) {
	c := &Client{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.withRetry(ctx, func() error {
		return errors.New("dial tcp: connection refused")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
