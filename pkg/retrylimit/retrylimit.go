// Package retrylimit retries short operations with exponential backoff,
// optionally gated by a token-bucket limiter shared between callers.
//
// Example usage:
//
//	lim := rate.NewLimiter(5, 1)
//	err := retrylimit.Do(ctx, retrylimit.Config{
//	    MaxAttempts: 3,
//	    Retryable:   isTransient,
//	    Limiter:     lim,
//	}, doSomeWork)
package retrylimit

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/time/rate"
)

// Config configures Do. The zero value runs fn exactly once.
type Config struct {
	MaxAttempts  int           // attempts including the first one; <1 means 1
	InitialDelay time.Duration // delay before the second attempt
	MaxDelay     time.Duration // upper bound for the delay; 0 means no bound
	Multiplier   float64       // delay growth per attempt; <1 means 2
	Jitter       bool          // add up to 25% random delay

	// Retryable reports whether err is worth another attempt. Nil retries
	// every error.
	Retryable func(error) bool

	// Limiter, if set, is waited on before every attempt.
	Limiter *rate.Limiter

	// OnRetry is called after a failed attempt that will be retried.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// Do runs fn until it succeeds, returns a non-retryable error, the attempts
// are exhausted or ctx is done. The last error from fn is returned.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	attempts := max(cfg.MaxAttempts, 1)
	multiplier := cfg.Multiplier
	if multiplier < 1 {
		multiplier = 2
	}

	delay := cfg.InitialDelay
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if cfg.Limiter != nil {
			if werr := cfg.Limiter.Wait(ctx); werr != nil {
				return werr
			}
		}

		if err = fn(); err == nil {
			return nil
		}
		if attempt == attempts || (cfg.Retryable != nil && !cfg.Retryable(err)) {
			break
		}

		wait := delay
		if cfg.Jitter {
			wait = addJitter(wait)
		}
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, wait)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w (last error: %v)", ctx.Err(), err)
		case <-time.After(wait):
		}

		delay = time.Duration(float64(delay) * multiplier)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
	return err
}

func addJitter(delay time.Duration) time.Duration {
	if delay < 4 {
		return delay
	}
	return delay + time.Duration(rand.Int63n(int64(delay/4)))
}
