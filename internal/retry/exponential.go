package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"
)

// ExponentialBackoffStrategy implements retry with exponential backoff
type ExponentialBackoffStrategy struct {
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
}

// NewExponentialBackoffStrategy creates a new ExponentialBackoffStrategy
func NewExponentialBackoffStrategy(maxRetries int, initialDelay, maxDelay time.Duration) *ExponentialBackoffStrategy {
	return &ExponentialBackoffStrategy{
		maxRetries:   maxRetries,
		initialDelay: initialDelay,
		maxDelay:     maxDelay,
	}
}

// Execute runs the operation, retrying recoverable failures with a doubling
// delay. Context cancellation ends the loop immediately and is returned as is.
func (s *ExponentialBackoffStrategy) Execute(ctx context.Context, info OperationInfo, operation Operation) error {
	var lastErr error
	delay := s.initialDelay

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		err := operation(ctx)
		if err == nil {
			if attempt > 0 {
				slog.Info("Operation succeeded after retry",
					"operation", info.Name,
					"account", info.Account,
					"attempt", attempt+1,
				)
			}
			return nil
		}

		lastErr = err

		if ctx.Err() != nil {
			return err
		}

		if !IsRecoverable(err) {
			slog.Debug("Non-recoverable error, failing immediately",
				"operation", info.Name,
				"account", info.Account,
				"attempt", attempt+1,
				"error", err,
			)
			return err
		}

		if attempt >= s.maxRetries {
			break
		}

		slog.Warn("Operation failed, retrying with exponential backoff",
			"operation", info.Name,
			"account", info.Account,
			"attempt", attempt+1,
			"max_attempts", s.maxRetries+1,
			"retry_in_ms", delay.Milliseconds(),
			"error", err,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			delay *= 2
			if delay > s.maxDelay {
				delay = s.maxDelay
			}
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", info.Name, s.maxRetries+1, lastErr)
}

// Name returns the strategy name
func (s *ExponentialBackoffStrategy) Name() string {
	return "ExponentialBackoff"
}

// recoverablePatterns are lower-cased fragments of transient failures:
// network trouble, server overload and rate limiting.
var recoverablePatterns = []string{
	"connection reset by peer",
	"connection refused",
	"timeout",
	"temporary failure",
	"network is unreachable",
	"broken pipe",
	"eof",
	"no such host",
	"connection timed out",
	"dial tcp",
	"429",
	"too many requests",
	"rate limit",
	"502",
	"503",
	"504",
	"bad gateway",
	"service unavailable",
	"gateway timeout",
}

// IsRecoverable reports whether err is worth retrying
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range recoverablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}
