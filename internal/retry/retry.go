// Package retry runs store fetches with exponential backoff and jitter.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrTransient marks a failure worth retrying (busy database, dropped connection).
var ErrTransient = errors.New("transient failure")

type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }

func (e *transientError) Unwrap() []error { return []error{ErrTransient, e.err} }

// Transient wraps err so IsTransient reports true while errors.Is still
// matches the original cause.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err, or anything it wraps, is transient.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

// Config holds backoff settings.
type Config struct {
	MaxAttempts     int           // total attempts including the first, at least 1
	InitialDelay    time.Duration // delay before the second attempt
	MaxDelay        time.Duration
	Multiplier      float64
	RandomizeFactor float64 // jitter, 0..1
	RetryIf         func(error) bool
}

// DefaultConfig retries transient errors three times starting at 100ms.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     3,
		InitialDelay:    100 * time.Millisecond,
		MaxDelay:        2 * time.Second,
		Multiplier:      2.0,
		RandomizeFactor: 0.1,
		RetryIf:         IsTransient,
	}
}

// Operation is a retryable unit of work.
type Operation func(ctx context.Context) error

// Result describes how a retried operation ended.
type Result struct {
	Attempts int
	Duration time.Duration
	Err      error
}

// Retrier executes operations under a Config.
type Retrier struct {
	config Config
}

// New normalizes config and returns a Retrier.
func New(config Config) *Retrier {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if config.Multiplier < 1 {
		config.Multiplier = 1
	}
	config.RandomizeFactor = min(max(config.RandomizeFactor, 0), 1)
	if config.MaxDelay <= 0 {
		config.MaxDelay = config.InitialDelay
	}
	if config.RetryIf == nil {
		config.RetryIf = IsTransient
	}
	return &Retrier{config: config}
}

// Do runs op until it succeeds, returns a non-retryable error, runs out of
// attempts, or ctx is done. The label only feeds the log.
func (r *Retrier) Do(ctx context.Context, label string, op Operation) Result {
	start := time.Now()
	res := Result{}
	delay := r.config.InitialDelay

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		res.Attempts = attempt
		if err := ctx.Err(); err != nil {
			res.Err = fmt.Errorf("context cancelled: %w", err)
			break
		}

		err := op(ctx)
		if err == nil {
			res.Err = nil
			break
		}
		res.Err = err
		if !r.config.RetryIf(err) || attempt == r.config.MaxAttempts {
			break
		}

		wait := r.jitter(delay)
		log.Warn().Err(err).Str("op", label).Int("attempt", attempt).Dur("wait", wait).Msg("Retrying after transient failure")

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
			delay = min(time.Duration(float64(delay)*r.config.Multiplier), r.config.MaxDelay)
		case <-ctx.Done():
			timer.Stop()
			res.Err = fmt.Errorf("context cancelled during retry delay: %w", ctx.Err())
			res.Duration = time.Since(start)
			return res
		}
	}

	res.Duration = time.Since(start)
	return res
}

func (r *Retrier) jitter(delay time.Duration) time.Duration {
	if r.config.RandomizeFactor == 0 || delay <= 0 {
		return delay
	}
	delta := float64(delay) * r.config.RandomizeFactor
	return time.Duration(float64(delay) - delta + rand.Float64()*2*delta)
}
