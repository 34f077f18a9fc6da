package metrics

import (
	"errors"
	"fmt"
	"slices"
)

// ErrMixedUsers is returned when a summary is requested over entries of more than one user.
var ErrMixedUsers = errors.New("entries belong to more than one user")

// DayScore identifies a single day's performance.
type DayScore struct {
	Date   string  `json:"date"`
	Score  int     `json:"score"`
	Videos float64 `json:"videos"`
}

// UserMetricSummary is the derived view of one person's entries over a window.
// It is recomputed on demand and never persisted.
type UserMetricSummary struct {
	UserID string `json:"userId"`
	Window Window `json:"window"`
	// NoData marks a window without any entries. It is not an error condition.
	NoData bool `json:"noData"`

	EntryCount  int `json:"entryCount"`
	WorkingDays int `json:"workingDays"`
	LeaveDays   int `json:"leaveDays"`

	TotalVideos     float64 `json:"totalVideos"`
	CourseVideos    float64 `json:"courseVideos"`
	MarketingVideos float64 `json:"marketingVideos"` // weighted
	MarketingUnits  float64 `json:"marketingUnits"`  // raw input
	TotalTarget     float64 `json:"totalTarget"`
	TotalHours      float64 `json:"totalHours"`

	AverageProductivity int `json:"averageProductivity"`
	TargetAchievement   int `json:"targetAchievement"`
	ConsistencyScore    int `json:"consistencyScore"`

	BestDay            *DayScore `json:"bestDay,omitempty"`
	WorstDay           *DayScore `json:"worstDay,omitempty"`
	MostProductiveHour int       `json:"mostProductiveHour"`

	ImprovementRate   int               `json:"improvementRate"`
	ProductivityTrend ProductivityTrend `json:"productivityTrend"`
	EfficiencyTrend   EfficiencyTrend   `json:"efficiencyTrend"`

	MoodDistribution   []MoodBucket   `json:"moodDistribution"`
	EnergyDistribution []EnergyBucket `json:"energyDistribution"`
}

// Efficiency returns effective videos per worked hour, or 0 without hours.
func (s UserMetricSummary) Efficiency() float64 {
	if s.TotalHours <= 0 {
		return 0
	}
	return s.TotalVideos / s.TotalHours
}

// scoredEntry pairs an entry with its recomputed score. The entry's own
// ProductivityScore is never read.
type scoredEntry struct {
	Entry
	score ScoringResult
}

// Summarize aggregates one user's entries over a window. Entries outside the
// window are ignored and the input slice is never modified, so repeated calls
// over the same input yield identical summaries.
func Summarize(entries []Entry, window Window) (UserMetricSummary, error) {
	summary := UserMetricSummary{
		Window:            window,
		ProductivityTrend: TrendStable,
		EfficiencyTrend:   EfficiencyMaintained,
	}

	scored, err := scoreWindow(entries, window)
	if err != nil {
		return summary, err
	}
	summary.MoodDistribution = moodDistribution(scored)
	summary.EnergyDistribution = energyDistribution(scored)
	if len(scored) == 0 {
		summary.NoData = true
		return summary, nil
	}
	summary.UserID = scored[0].UserID
	summary.EntryCount = len(scored)

	var (
		workingScores []int
		consistent    int
		hourTotals    = make(map[int]int)
	)
	for _, se := range scored {
		summary.TotalHours += se.Hours()
		summary.TotalTarget += float64(se.score.Target)
		if se.score.ProductivityScore >= ConsistentScore {
			consistent++
		}

		day := DayScore{Date: se.DayKey(), Score: se.score.ProductivityScore, Videos: max(se.score.EffectiveOutput, 0)}
		// Entries are date ordered, so strict comparisons keep the earliest date on ties.
		if summary.BestDay == nil || day.Score > summary.BestDay.Score {
			best := day
			summary.BestDay = &best
		}
		if summary.WorstDay == nil || day.Score < summary.WorstDay.Score {
			worst := day
			summary.WorstDay = &worst
		}

		switch se.VideoCategory {
		case CategoryLeave:
			// Leave removes the day's expectation instead of counting as output.
			summary.LeaveDays++
			summary.TotalTarget += se.score.EffectiveOutput
			continue
		case CategoryMarketing:
			summary.MarketingVideos += se.score.EffectiveOutput
			summary.MarketingUnits += se.VideosCompleted
		default:
			summary.CourseVideos += se.score.EffectiveOutput
		}
		summary.WorkingDays++
		summary.TotalVideos += se.score.EffectiveOutput
		workingScores = append(workingScores, se.score.ProductivityScore)

		if hour, ok := se.ShiftHour(); ok {
			hourTotals[hour] += se.score.ProductivityScore
		}
	}

	summary.AverageProductivity = meanRounded(workingScores)
	summary.TargetAchievement = percentOf(summary.TotalVideos, summary.TotalTarget)
	summary.ConsistencyScore = percentOf(float64(consistent), float64(summary.EntryCount))
	summary.MostProductiveHour = peakHour(hourTotals)
	return summary, nil
}

// scoreWindow validates and scores the in-window entries in date order.
func scoreWindow(entries []Entry, window Window) ([]scoredEntry, error) {
	var userID string
	scored := make([]scoredEntry, 0, len(entries))
	for _, e := range entries {
		if !window.Contains(e.Date) {
			continue
		}
		if userID == "" {
			userID = e.UserID
		} else if e.UserID != userID {
			return nil, fmt.Errorf("%w: %q and %q", ErrMixedUsers, userID, e.UserID)
		}
		res, err := Score(e, 0)
		if err != nil {
			return nil, fmt.Errorf("entry %s/%s: %w", e.UserID, e.DayKey(), err)
		}
		scored = append(scored, scoredEntry{Entry: e, score: res})
	}
	slices.SortStableFunc(scored, func(a, b scoredEntry) int {
		return a.Date.Compare(b.Date)
	})
	return scored, nil
}

// peakHour returns the hour with the highest summed score, lowest hour on ties.
func peakHour(totals map[int]int) int {
	best, bestSum := 0, -1
	for hour := 0; hour < 24; hour++ {
		sum, ok := totals[hour]
		if !ok {
			continue
		}
		if sum > bestSum {
			best, bestSum = hour, sum
		}
	}
	return best
}
