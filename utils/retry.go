package utils

import "time"

// RetryConfig holds the parameters for the retry strategy: a bounded number
// of attempts with a fixed delay between them. No backoff, no jitter —
// the delay only exists to let a still-rendering page settle.
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
	Logger      *Logger
}

// Do executes fn up to MaxAttempts times, sleeping Delay between failed
// attempts. The last error is returned unchanged so the caller can still
// classify it.
func (r *RetryConfig) Do(operationName string, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt < r.MaxAttempts {
			r.Logger.Warn("[retry] %s failed (attempt %d/%d): %v — retrying in %v",
				operationName, attempt, r.MaxAttempts, lastErr, r.Delay)
			time.Sleep(r.Delay)
		}
	}

	return lastErr
}
