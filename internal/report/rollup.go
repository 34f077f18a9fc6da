package report

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"workpulse/internal/access"
	"workpulse/internal/metrics"
)

// Rollup computes every member's summary in parallel, bounded by the worker
// limit, then merges them. The first failure cancels the remaining work and
// fails the whole rollup.
func (e *Engine) Rollup(ctx context.Context, scope access.AccessScope, window metrics.Window) (metrics.RollupSummary, error) {
	start := time.Now()
	members := scope.Members
	results := make([]metrics.UserMetricSummary, len(members))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, m := range members {
		g.Go(func() error {
			s, err := e.Summary(gctx, m.UserID, window)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrMemberUnavailable, m.UserID, err)
			}
			results[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Str("scope", string(scope.Kind)).Str("window", window.Label).Msg("Rollup failed")
		return metrics.RollupSummary{}, err
	}

	summaries := make(map[string]metrics.UserMetricSummary, len(results))
	for _, s := range results {
		summaries[s.UserID] = s
	}
	rollup, err := metrics.Rollup(scope.Rollup(), window, summaries)
	if err != nil {
		return metrics.RollupSummary{}, err
	}

	log.Info().
		Str("scope", string(scope.Kind)).
		Str("team", scope.TeamID).
		Str("window", window.Label).
		Int("members", rollup.TotalMembers).
		Dur("took", time.Since(start)).
		Msg("Rollup computed")
	return rollup, nil
}

// Leaderboard returns the top n ranked members of the caller's scope.
func (e *Engine) Leaderboard(ctx context.Context, scope access.AccessScope, window metrics.Window, n int) ([]metrics.RankedMember, error) {
	r, err := e.Rollup(ctx, scope, window)
	if err != nil {
		return nil, err
	}
	return r.Top(n), nil
}
