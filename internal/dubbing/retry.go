package dubbing

import (
	"context"
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/dub-flow/internal/logger"
)

// ErrUnavailable marks a collaborator as temporarily out of capacity (rate
// limit, quota, 5xx). Clients wrap it so the retry loop can recognize it.
var ErrUnavailable = errors.New("collaborator unavailable")

// DefaultMaxAttempts bounds retryable collaborator calls unless the
// configuration overrides it.
const DefaultMaxAttempts = 5

// retryable reports whether an error is worth another attempt: malformed or
// length-mismatched output, or a transient availability signal. Access
// failures are final on the first occurrence.
func retryable(err error) bool {
	var access *AccessError
	if errors.As(err, &access) {
		return false
	}
	var validation *ValidationError
	return errors.As(err, &validation) || errors.Is(err, ErrUnavailable)
}

// Retry invokes fn up to maxAttempts times, logging a warning per failed
// attempt. A non-retryable error aborts immediately; exhausting the budget
// returns the last error wrapped as fatal. Malformed generative output
// corrupts every downstream record, so the caller is expected to let this
// error unwind the whole run.
func Retry[T any](ctx context.Context, log logger.Logger, maxAttempts int, label string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if !retryable(err) {
			return zero, fmt.Errorf("%s: %w", label, err)
		}
		lastErr = err
		log.Warn(ctx, "%s attempt %d/%d failed: %v", label, attempt, maxAttempts, err)
	}

	return zero, fmt.Errorf("%s failed after %d attempts: %w", label, maxAttempts, lastErr)
}
