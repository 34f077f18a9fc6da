package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"workpulse/internal/access"
	"workpulse/internal/metrics"
)

// UserReport is the full single-user view: summary, trend against the
// preceding window, and insights over the current window.
type UserReport struct {
	User     metrics.Member            `json:"user"`
	Window   metrics.Window            `json:"window"`
	Summary  metrics.UserMetricSummary `json:"summary"`
	Trend    metrics.TrendResult       `json:"trend"`
	Insights metrics.InsightResult     `json:"insights"`
}

// BucketSummary pairs a breakdown bucket with the user's summary over it.
type BucketSummary struct {
	Bucket  metrics.Bucket            `json:"bucket"`
	Summary metrics.UserMetricSummary `json:"summary"`
}

// BreakdownReport is a user's summaries over consecutive buckets.
type BreakdownReport struct {
	User    metrics.Member  `json:"user"`
	Buckets []BucketSummary `json:"buckets"`
}

// authorize checks the subject against the caller's scope.
func (e *Engine) authorize(scope access.AccessScope, userID string) (metrics.Member, error) {
	if !scope.Allows(userID) {
		return metrics.Member{}, fmt.Errorf("%w: %s may not view %s", access.ErrScopeNotPermitted, scope.CallerID, userID)
	}
	for _, m := range scope.Members {
		if m.UserID == userID {
			return m, nil
		}
	}
	return metrics.Member{UserID: userID}, nil
}

// UserReport builds the report for userID over window. Entries for the
// current and preceding window are fetched in one call.
func (e *Engine) UserReport(ctx context.Context, scope access.AccessScope, userID string, window metrics.Window) (UserReport, error) {
	start := time.Now()
	member, err := e.authorize(scope, userID)
	if err != nil {
		return UserReport{}, err
	}

	prev := window.Previous()
	entries, err := e.fetch(ctx, userID, prev.Start, window.End)
	if err != nil {
		return UserReport{}, fmt.Errorf("%w: %s: %w", ErrMemberUnavailable, userID, err)
	}

	summary, err := summarize(userID, entries, window)
	if err != nil {
		return UserReport{}, err
	}
	trend, err := metrics.CompareTrend(summary, entries)
	if err != nil {
		return UserReport{}, fmt.Errorf("trend %s: %w", userID, err)
	}

	current := make([]metrics.Entry, 0, len(entries))
	for _, en := range entries {
		if window.Contains(en.Date) {
			current = append(current, en)
		}
	}
	insights, err := metrics.ExtractInsights(current)
	if err != nil {
		return UserReport{}, fmt.Errorf("insights %s: %w", userID, err)
	}

	log.Info().Str("user", userID).Str("window", window.Label).Int("entries", summary.EntryCount).Dur("took", time.Since(start)).Msg("User report computed")
	return UserReport{
		User:     member,
		Window:   window,
		Summary:  metrics.ApplyTrend(summary, trend),
		Trend:    trend,
		Insights: insights,
	}, nil
}

// Breakdown summarizes userID over each bucket, oldest first.
func (e *Engine) Breakdown(ctx context.Context, scope access.AccessScope, userID string, buckets []metrics.Bucket) (BreakdownReport, error) {
	member, err := e.authorize(scope, userID)
	if err != nil {
		return BreakdownReport{}, err
	}
	if len(buckets) == 0 {
		return BreakdownReport{}, errors.New("breakdown needs at least one bucket")
	}

	report := BreakdownReport{User: member, Buckets: make([]BucketSummary, 0, len(buckets))}
	for _, b := range buckets {
		var s metrics.UserMetricSummary
		if b.IsEmpty() {
			// Future buckets are empty; there is nothing to fetch.
			s = metrics.UserMetricSummary{UserID: userID, Window: b.Window, NoData: true,
				ProductivityTrend: metrics.TrendStable, EfficiencyTrend: metrics.EfficiencyMaintained}
		} else if s, err = e.Summary(ctx, userID, b.Window); err != nil {
			return BreakdownReport{}, fmt.Errorf("%w: %s: %w", ErrMemberUnavailable, userID, err)
		}
		report.Buckets = append(report.Buckets, BucketSummary{Bucket: b, Summary: s})
	}
	return report, nil
}
