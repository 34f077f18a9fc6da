package report

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"

	"workpulse/internal/access"
	"workpulse/internal/metrics"
	"workpulse/internal/retry"
)

// ErrMemberUnavailable fails a whole rollup when one member's entries cannot be fetched.
var ErrMemberUnavailable = errors.New("member entries unavailable")

// EntrySource is the persistence collaborator: entries for one user whose
// calendar day touches [start, end).
type EntrySource interface {
	EntriesForUser(ctx context.Context, userID string, start, end time.Time) ([]metrics.Entry, error)
}

// Options tunes an Engine. Zero values fall back to defaults.
type Options struct {
	Workers       int
	CacheSize     int
	DefaultTarget int
	Retry         retry.Config
	Now           func() time.Time
}

// Engine computes request-scoped reports. The only state it shares across
// requests is the summary cache, whose values are immutable.
type Engine struct {
	source        EntrySource
	dir           access.Directory
	retrier       *retry.Retrier
	cache         *lru.Cache
	workers       int
	defaultTarget int
	now           func() time.Time
}

// NewEngine wires an engine over an entry source and a directory.
func NewEngine(source EntrySource, dir access.Directory, opts Options) (*Engine, error) {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 1024
	}
	if opts.DefaultTarget <= 0 {
		opts.DefaultTarget = metrics.DefaultTargetVideos
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = retry.DefaultConfig()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	cache, err := lru.New(opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create summary cache: %w", err)
	}
	return &Engine{
		source:        source,
		dir:           dir,
		retrier:       retry.New(opts.Retry),
		cache:         cache,
		workers:       opts.Workers,
		defaultTarget: opts.DefaultTarget,
		now:           opts.Now,
	}, nil
}

// Directory exposes the directory the engine resolves scopes against.
func (e *Engine) Directory() access.Directory {
	return e.dir
}

// Now returns the engine's reference instant.
func (e *Engine) Now() time.Time {
	return e.now()
}

// ResolveScope resolves the caller's scope once per request.
func (e *Engine) ResolveScope(ctx context.Context, req access.Request) (access.AccessScope, error) {
	return access.ResolveScope(ctx, e.dir, req)
}

// ResolveWindow resolves a period token (or explicit range) against the
// engine's clock.
func (e *Engine) ResolveWindow(period metrics.Period, rng *metrics.Range) (metrics.Window, error) {
	return metrics.ResolveWindow(period, e.now(), rng)
}

// Buckets returns the breakdown buckets for period, or trailing buckets when
// trailing is positive.
func (e *Engine) Buckets(period metrics.Period, trailing int) ([]metrics.Bucket, error) {
	if trailing > 0 {
		return metrics.Trailing(period, trailing, e.now())
	}
	return metrics.Breakdown(period, e.now())
}

// Invalidate drops every cached summary of userID.
func (e *Engine) Invalidate(userID string) {
	prefix := userID + "|"
	for _, k := range e.cache.Keys() {
		if key, ok := k.(string); ok && strings.HasPrefix(key, prefix) {
			e.cache.Remove(k)
		}
	}
}

// Purge empties the summary cache.
func (e *Engine) Purge() {
	e.cache.Purge()
}

func cacheKey(userID string, w metrics.Window) string {
	return fmt.Sprintf("%s|%d|%d", userID, w.Start.UnixNano(), w.End.UnixNano())
}

// fetch loads a user's entries, retrying transient store failures.
func (e *Engine) fetch(ctx context.Context, userID string, start, end time.Time) ([]metrics.Entry, error) {
	var entries []metrics.Entry
	res := e.retrier.Do(ctx, "entries:"+userID, func(ctx context.Context) error {
		var err error
		entries, err = e.source.EntriesForUser(ctx, userID, start, end)
		return err
	})
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Attempts > 1 {
		log.Debug().Str("user", userID).Int("attempts", res.Attempts).Dur("took", res.Duration).Msg("Entries fetched after retry")
	}

	// The source may hand out its own backing slice.
	entries = slices.Clone(entries)
	for i := range entries {
		if entries[i].TargetVideos <= 0 {
			entries[i].TargetVideos = e.defaultTarget
		}
	}
	return entries, nil
}

// Summary returns the user's summary over window, from cache when possible.
func (e *Engine) Summary(ctx context.Context, userID string, window metrics.Window) (metrics.UserMetricSummary, error) {
	key := cacheKey(userID, window)
	if v, ok := e.cache.Get(key); ok {
		log.Debug().Str("user", userID).Str("window", window.Label).Msg("Summary cache hit")
		return v.(metrics.UserMetricSummary), nil
	}

	entries, err := e.fetch(ctx, userID, window.Start, window.End)
	if err != nil {
		return metrics.UserMetricSummary{}, err
	}
	summary, err := summarize(userID, entries, window)
	if err != nil {
		return metrics.UserMetricSummary{}, err
	}
	e.cache.Add(key, summary)
	return summary, nil
}

func summarize(userID string, entries []metrics.Entry, window metrics.Window) (metrics.UserMetricSummary, error) {
	summary, err := metrics.Summarize(entries, window)
	if err != nil {
		return metrics.UserMetricSummary{}, fmt.Errorf("summarize %s: %w", userID, err)
	}
	summary.UserID = userID
	return summary, nil
}
