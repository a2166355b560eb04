package retry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"syscall"
	"time"

	coreerrors "github.com/malbeclabs/deltascan/utils/pkg/errors"
)

// Config holds retry configuration.
type Config struct {
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// DefaultConfig returns the default retry configuration.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		BaseBackoff: 500 * time.Millisecond,
		MaxBackoff:  5 * time.Second,
	}
}

// Do executes the given function with exponential backoff retry.
// Returns the last error if all attempts fail.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			backoff := calculateBackoff(cfg.BaseBackoff, cfg.MaxBackoff, attempt-1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		// Don't retry if error is not retryable
		if !IsRetryable(lastErr) {
			return lastErr
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", cfg.MaxAttempts, lastErr)
}

// IsRetryable checks if an error is retryable. This module's only
// caller (jsonengine's directory source, reading action files off
// local disk) never sees network or HTTP errors, so this classifies
// what os.ReadFile and the kind-tagged core error taxonomy actually
// produce: transient syscall failures and IO-wrapped causes are
// retryable; missing/unreadable files and non-IO core errors are not,
// since retrying can't fix a file that doesn't exist or a malformed
// batch.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context cancellation is not retryable.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// A KindIo error wraps an upstream cause; classify that cause
	// instead of the wrapper. Every other kind is a data or invariant
	// problem no amount of retrying resolves.
	var coreErr *coreerrors.Error
	if errors.As(err, &coreErr) {
		if coreErr.Kind != coreerrors.KindIo {
			return false
		}
		if coreErr.Cause == nil {
			return false
		}
		return IsRetryable(coreErr.Cause)
	}

	// A missing file, a directory where a file was expected, or a
	// permission error will still be missing/wrong/forbidden on the
	// next attempt.
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return false
	}

	// Transient syscall failures: interrupted calls, out of file
	// descriptors, a device or path temporarily busy, or a lower-level
	// I/O error (common on network-mounted log directories).
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EINTR, syscall.EAGAIN, syscall.EMFILE, syscall.ENFILE, syscall.EBUSY, syscall.EIO:
			return true
		default:
			return false
		}
	}

	return false
}

// calculateBackoff calculates exponential backoff with jitter.
// Formula: base * 2^attempt * (0.5 + rand(0, 0.5))
// Jitter prevents thundering herd when multiple clients retry simultaneously.
func calculateBackoff(base, max time.Duration, attempt int) time.Duration {
	// Exponential backoff: base * 2^attempt
	backoff := base * time.Duration(1<<uint(attempt))
	if backoff > max {
		backoff = max
	}
	// Add jitter: multiply by 0.5 to 1.0 (random factor)
	// This spreads out retries to prevent thundering herd
	jitter := 0.5 + rand.Float64()*0.5
	return time.Duration(float64(backoff) * jitter)
}
