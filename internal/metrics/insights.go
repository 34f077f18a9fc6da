package metrics

import (
	"fmt"
	"time"
)

const (
	minBreakMinutes = 5
	maxBreakMinutes = 60
)

// MoodBucket aggregates entries sharing a mood.
type MoodBucket struct {
	Mood                Mood `json:"mood"`
	Count               int  `json:"count"`
	AverageProductivity int  `json:"averageProductivity"`
}

// EnergyBucket aggregates entries sharing an energy level.
type EnergyBucket struct {
	Level               int `json:"level"`
	Count               int `json:"count"`
	AverageProductivity int `json:"averageProductivity"`
}

// WeekdayScore is the summed productivity for one weekday.
type WeekdayScore struct {
	Weekday           time.Weekday `json:"weekday"`
	Name              string       `json:"name"`
	TotalProductivity int          `json:"totalProductivity"`
}

// InsightResult holds descriptive observations over a set of entries.
// None of it claims statistical significance.
type InsightResult struct {
	EntryCount              int            `json:"entryCount"`
	MoodDistribution        []MoodBucket   `json:"moodDistribution"`
	EnergyDistribution      []EnergyBucket `json:"energyDistribution"`
	BestWeekday             *WeekdayScore  `json:"bestWeekday,omitempty"`
	RecommendedBreakMinutes int            `json:"recommendedBreakMinutes"`
	PeakStreak              int            `json:"peakStreak"`
	Highlights              []string       `json:"highlights,omitempty"`
}

// ExtractInsights derives mood and energy distributions, the best weekday and a
// recommended break length from the entries.
func ExtractInsights(entries []Entry) (InsightResult, error) {
	scored, err := scoreWindow(entries, Window{Start: time.Time{}, End: maxTime})
	if err != nil {
		return InsightResult{}, err
	}

	res := InsightResult{
		EntryCount:              len(scored),
		MoodDistribution:        moodDistribution(scored),
		EnergyDistribution:      energyDistribution(scored),
		BestWeekday:             bestWeekday(scored),
		RecommendedBreakMinutes: recommendedBreak(scored),
		PeakStreak:              peakStreak(scored),
	}
	res.Highlights = highlights(res)
	return res, nil
}

var maxTime = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

func moodDistribution(scored []scoredEntry) []MoodBucket {
	scores := make(map[Mood][]int)
	for _, se := range scored {
		if se.Mood != "" {
			scores[se.Mood] = append(scores[se.Mood], se.score.ProductivityScore)
		}
	}
	out := make([]MoodBucket, 0, len(Moods))
	for _, m := range Moods {
		out = append(out, MoodBucket{
			Mood:                m,
			Count:               len(scores[m]),
			AverageProductivity: meanRounded(scores[m]),
		})
	}
	return out
}

func energyDistribution(scored []scoredEntry) []EnergyBucket {
	var scores [6][]int
	for _, se := range scored {
		if se.EnergyLevel >= 1 && se.EnergyLevel <= 5 {
			scores[se.EnergyLevel] = append(scores[se.EnergyLevel], se.score.ProductivityScore)
		}
	}
	out := make([]EnergyBucket, 0, 5)
	for level := 1; level <= 5; level++ {
		out = append(out, EnergyBucket{
			Level:               level,
			Count:               len(scores[level]),
			AverageProductivity: meanRounded(scores[level]),
		})
	}
	return out
}

func bestWeekday(scored []scoredEntry) *WeekdayScore {
	if len(scored) == 0 {
		return nil
	}
	var totals [7]int
	var seen [7]bool
	for _, se := range scored {
		wd := se.Date.Weekday()
		totals[wd] += se.score.ProductivityScore
		seen[wd] = true
	}
	var best *WeekdayScore
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if !seen[wd] {
			continue
		}
		if best == nil || totals[wd] > best.TotalProductivity {
			best = &WeekdayScore{Weekday: wd, Name: wd.String(), TotalProductivity: totals[wd]}
		}
	}
	return best
}

// recommendedBreak returns clamp(round(meanSessionHours*10), 5, 60) minutes.
func recommendedBreak(scored []scoredEntry) int {
	var total float64
	n := 0
	for _, se := range scored {
		if h := se.Hours(); h > 0 {
			total += h
			n++
		}
	}
	mean := 0.0
	if n > 0 {
		mean = total / float64(n)
	}
	return clampInt(roundHalfUp(mean*10), minBreakMinutes, maxBreakMinutes)
}

// peakStreak returns the longest run of consecutive calendar days scoring at
// least ConsistentScore.
func peakStreak(scored []scoredEntry) int {
	best, run := 0, 0
	var prev time.Time
	for _, se := range scored {
		day := se.Day(time.UTC)
		if se.score.ProductivityScore < ConsistentScore {
			run = 0
			continue
		}
		if run > 0 && day.Equal(prev.AddDate(0, 0, 1)) {
			run++
		} else {
			run = 1
		}
		prev = day
		if run > best {
			best = run
		}
	}
	return best
}

func highlights(res InsightResult) []string {
	var out []string
	if res.BestWeekday != nil {
		out = append(out, fmt.Sprintf("%s is the strongest weekday (total score %d)", res.BestWeekday.Name, res.BestWeekday.TotalProductivity))
	}
	var topMood *MoodBucket
	for i := range res.MoodDistribution {
		b := &res.MoodDistribution[i]
		if b.Count > 0 && (topMood == nil || b.AverageProductivity > topMood.AverageProductivity) {
			topMood = b
		}
	}
	if topMood != nil {
		out = append(out, fmt.Sprintf("Productivity peaks on %q days (average %d)", topMood.Mood, topMood.AverageProductivity))
	}
	if res.PeakStreak > 1 {
		out = append(out, fmt.Sprintf("Longest streak of days at %d+: %d", ConsistentScore, res.PeakStreak))
	}
	return out
}
