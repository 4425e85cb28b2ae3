// Package call executes provider operations under a per-attempt timeout with
// exponential backoff, jitter, and deterministic error classification.
package call

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"
)

// Config controls retry and timeout behavior for one orchestrated call
type Config struct {
	MaxRetries int           // Total attempts, minimum 1
	BaseDelay  time.Duration // First backoff delay
	MaxDelay   time.Duration // Backoff cap (applied after jitter)
	Timeout    time.Duration // Per-attempt budget
}

// DefaultConfig returns the documented defaults: 3 attempts, 1s base delay,
// 8s cap, 30s per-attempt timeout.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   8 * time.Second,
		Timeout:    30 * time.Second,
	}
}

// Result is the outcome of an orchestrated call. This layer never panics or
// returns a bare error: failures always carry a classification.
type Result[T any] struct {
	Success bool
	Data    T
	Err     *Error
}

// Operation is an arbitrary asynchronous operation to run under orchestration
type Operation[T any] func(ctx context.Context) (T, error)

// sleepFunc and jitterFunc are injectable for tests
var (
	sleepFunc  = time.Sleep
	jitterFunc = func() time.Duration { return time.Duration(rand.Int63n(int64(time.Second))) }
)

// logWriter receives the per-attempt log lines required for operability.
// Tests point it at io.Discard.
var logWriter io.Writer = os.Stderr

func logf(format string, args ...interface{}) {
	fmt.Fprintf(logWriter, format+"\n", args...)
}

// Execute runs op under cfg, retrying retryable failures with exponential
// backoff plus jitter. Fatal classifications short-circuit immediately without
// consuming the remaining retry budget. On exhaustion the last error's
// classification is returned.
func Execute[T any](ctx context.Context, op Operation[T], cfg Config, label string) Result[T] {
	cfg = normalize(cfg)

	var lastErr *Error
	for attempt := 0; attempt < cfg.MaxRetries; attempt++ {
		data, err := runAttempt(ctx, op, cfg.Timeout)
		if err == nil {
			logf("[%s] attempt %d/%d: ok", label, attempt+1, cfg.MaxRetries)
			return Result[T]{Success: true, Data: data}
		}

		lastErr = Classify(err)
		logf("[%s] attempt %d/%d: %s retryable=%t: %v",
			label, attempt+1, cfg.MaxRetries, lastErr.Code, lastErr.Retryable, err)

		if !lastErr.Retryable {
			break
		}
		if attempt < cfg.MaxRetries-1 {
			sleepFunc(backoffDelay(cfg, attempt))
		}
	}

	return Result[T]{Err: lastErr}
}

// runAttempt races op against the attempt timer; the first to settle wins.
// When the timer fires first the operation goroutine is abandoned, not
// joined - its context is cancelled so a well-behaved operation unwinds.
func runAttempt[T any](ctx context.Context, op Operation[T], timeout time.Duration) (T, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		data T
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		data, err := op(attemptCtx)
		done <- outcome{data: data, err: err}
	}()

	select {
	case <-attemptCtx.Done():
		var zero T
		return zero, attemptCtx.Err()
	case out := <-done:
		return out.data, out.err
	}
}

// backoffDelay computes min(base * 2^attempt + jitter, cap)
func backoffDelay(cfg Config, attempt int) time.Duration {
	delay := cfg.BaseDelay << uint(attempt)
	delay += jitterFunc()
	if delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	return delay
}

func normalize(cfg Config) Config {
	def := DefaultConfig()
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = def.MaxRetries
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = def.BaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = def.MaxDelay
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	return cfg
}
