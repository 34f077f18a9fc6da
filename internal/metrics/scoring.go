package metrics

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultTargetVideos applies when neither the caller nor the entry carries a target.
	DefaultTargetVideos = 3
	// MarketingWeight converts one marketing unit into course-video equivalents.
	MarketingWeight = 6.0
	// MaxMarketingUnits is the per-day cap on marketing input.
	MaxMarketingUnits = 0.5
	// ConsistentScore is the score at or above which a day counts as consistent.
	ConsistentScore = 80
)

// ErrInvalidCategoryInput is returned for an entry whose output violates its category rules.
var ErrInvalidCategoryInput = errors.New("invalid category input")

// ScoringResult is the outcome of scoring a single entry.
type ScoringResult struct {
	EffectiveOutput   float64 `json:"effectiveOutput"`
	ProductivityScore int     `json:"productivityScore"`
	Target            int     `json:"target"`
}

// ValidateEntry checks an entry against the category constraints.
// It never corrects the input.
func ValidateEntry(e Entry) error {
	if math.IsNaN(e.VideosCompleted) || e.VideosCompleted < 0 {
		return fmt.Errorf("%w: videosCompleted must be non-negative, got %v", ErrInvalidCategoryInput, e.VideosCompleted)
	}
	switch e.VideoCategory {
	case CategoryCourse:
	case CategoryMarketing:
		if e.VideosCompleted > MaxMarketingUnits {
			return fmt.Errorf("%w: marketing output %v exceeds %v", ErrInvalidCategoryInput, e.VideosCompleted, MaxMarketingUnits)
		}
	case CategoryLeave:
		if e.VideosCompleted != 0 {
			return fmt.Errorf("%w: leave entry must record 0 videos, got %v", ErrInvalidCategoryInput, e.VideosCompleted)
		}
	default:
		return fmt.Errorf("%w: unknown category %q", ErrInvalidCategoryInput, e.VideoCategory)
	}
	if e.EnergyLevel < 0 || e.EnergyLevel > 5 {
		return fmt.Errorf("%w: energy level %d outside 1..5", ErrInvalidCategoryInput, e.EnergyLevel)
	}
	if e.Mood != "" && !validMood(e.Mood) {
		return fmt.Errorf("%w: unknown mood %q", ErrInvalidCategoryInput, e.Mood)
	}
	return nil
}

// EffectiveTarget returns the target used to score an entry: the explicit
// target when positive, then the entry's own target, then DefaultTargetVideos.
func EffectiveTarget(e Entry, target int) int {
	if target > 0 {
		return target
	}
	if e.TargetVideos > 0 {
		return e.TargetVideos
	}
	return DefaultTargetVideos
}

// Score converts one entry into its effective output and a 0..100 productivity score.
//
// course counts as-is, marketing is weighted by MarketingWeight, and leave
// subtracts the day's target and always scores 0.
func Score(e Entry, effectiveTarget int) (ScoringResult, error) {
	if err := ValidateEntry(e); err != nil {
		return ScoringResult{}, err
	}
	target := EffectiveTarget(e, effectiveTarget)

	res := ScoringResult{Target: target}
	switch e.VideoCategory {
	case CategoryLeave:
		res.EffectiveOutput = -float64(target)
		return res, nil
	case CategoryMarketing:
		res.EffectiveOutput = e.VideosCompleted * MarketingWeight
	default:
		res.EffectiveOutput = e.VideosCompleted
	}

	ratio := math.Min(100, res.EffectiveOutput/float64(target)*100)
	res.ProductivityScore = clampInt(roundHalfUp(ratio), 0, 100)
	return res, nil
}

func validMood(m Mood) bool {
	for _, known := range Moods {
		if m == known {
			return true
		}
	}
	return false
}
