package dubbing

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nguyentantai21042004/dub-flow/internal/logger"
)

func TestRetryAlwaysInvalidExhaustsBudget(t *testing.T) {
	ctx := context.Background()
	calls := 0

	_, err := Retry(ctx, logger.New("error"), 5, "test call", func(ctx context.Context) (string, error) {
		calls++
		return "", &ValidationError{Reason: "bad output"}
	})

	if calls != 5 {
		t.Errorf("calls = %d, want exactly 5", calls)
	}
	if err == nil {
		t.Fatal("expected fatal error after exhausting retries")
	}
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Errorf("final error should wrap the last ValidationError, got %v", err)
	}
}

func TestRetryAccessErrorFailsImmediately(t *testing.T) {
	ctx := context.Background()
	calls := 0

	_, err := Retry(ctx, logger.New("error"), 5, "test call", func(ctx context.Context) (string, error) {
		calls++
		return "", &AccessError{Service: "gemini", Err: errors.New("bad key")}
	})

	if calls != 1 {
		t.Errorf("calls = %d, want exactly 1", calls)
	}
	var access *AccessError
	if !errors.As(err, &access) {
		t.Errorf("error should wrap AccessError, got %v", err)
	}
}

func TestRetryRecoversAfterTransientFailures(t *testing.T) {
	ctx := context.Background()
	calls := 0

	got, err := Retry(ctx, logger.New("error"), 5, "test call", func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", fmt.Errorf("%w: rate limited", ErrUnavailable)
		}
		return "ok", nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" || calls != 3 {
		t.Errorf("got %q after %d calls, want ok after 3", got, calls)
	}
}

func TestRetryNonRetryableErrorStops(t *testing.T) {
	ctx := context.Background()
	calls := 0

	_, err := Retry(ctx, logger.New("error"), 5, "test call", func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("disk on fire")
	})

	if calls != 1 {
		t.Errorf("calls = %d, want 1 for a non-retryable error", calls)
	}
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestRetryDefaultBound(t *testing.T) {
	ctx := context.Background()
	calls := 0

	_, _ = Retry(ctx, logger.New("error"), 0, "test call", func(ctx context.Context) (string, error) {
		calls++
		return "", &ValidationError{Reason: "nope"}
	})

	if calls != DefaultMaxAttempts {
		t.Errorf("calls = %d, want default bound %d", calls, DefaultMaxAttempts)
	}
}
