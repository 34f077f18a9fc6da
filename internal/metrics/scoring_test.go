package metrics

import (
	"errors"
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name          string
		entry         Entry
		target        int
		wantEffective float64
		wantScore     int
		wantTarget    int
	}{
		{"CourseOnTarget", Entry{VideosCompleted: 3, VideoCategory: CategoryCourse, TargetVideos: 3}, 0, 3, 100, 3},
		{"CoursePartial", Entry{VideosCompleted: 2, VideoCategory: CategoryCourse, TargetVideos: 3}, 0, 2, 67, 3},
		{"CourseAboveTargetCapped", Entry{VideosCompleted: 5, VideoCategory: CategoryCourse, TargetVideos: 3}, 0, 5, 100, 3},
		{"CourseZero", Entry{VideosCompleted: 0, VideoCategory: CategoryCourse, TargetVideos: 3}, 0, 0, 0, 3},
		{"CourseDefaultTarget", Entry{VideosCompleted: 1.5, VideoCategory: CategoryCourse}, 0, 1.5, 50, 3},
		{"ExplicitTargetWins", Entry{VideosCompleted: 2, VideoCategory: CategoryCourse, TargetVideos: 3}, 4, 2, 50, 4},
		{"MarketingFullUnit", Entry{VideosCompleted: 0.5, VideoCategory: CategoryMarketing, TargetVideos: 3}, 0, 3, 100, 3},
		{"MarketingQuarter", Entry{VideosCompleted: 0.25, VideoCategory: CategoryMarketing, TargetVideos: 3}, 0, 1.5, 50, 3},
		{"LeaveSubtractsTarget", Entry{VideosCompleted: 0, VideoCategory: CategoryLeave, TargetVideos: 3}, 0, -3, 0, 3},
		{"LeaveDefaultTarget", Entry{VideoCategory: CategoryLeave}, 0, -3, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Score(tt.entry, tt.target)
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			if got.EffectiveOutput != tt.wantEffective {
				t.Errorf("Expected effective output %v, got %v", tt.wantEffective, got.EffectiveOutput)
			}
			if got.ProductivityScore != tt.wantScore {
				t.Errorf("Expected score %d, got %d", tt.wantScore, got.ProductivityScore)
			}
			if got.Target != tt.wantTarget {
				t.Errorf("Expected target %d, got %d", tt.wantTarget, got.Target)
			}
		})
	}
}

func TestScore_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
	}{
		{"MarketingAboveCap", Entry{VideosCompleted: 0.6, VideoCategory: CategoryMarketing}},
		{"MarketingWholeVideo", Entry{VideosCompleted: 1, VideoCategory: CategoryMarketing}},
		{"LeaveWithOutput", Entry{VideosCompleted: 1, VideoCategory: CategoryLeave}},
		{"LeaveWithFraction", Entry{VideosCompleted: 0.1, VideoCategory: CategoryLeave}},
		{"NegativeCourse", Entry{VideosCompleted: -1, VideoCategory: CategoryCourse}},
		{"UnknownCategory", Entry{VideosCompleted: 1, VideoCategory: "webinar"}},
		{"EnergyOutOfRange", Entry{VideosCompleted: 1, VideoCategory: CategoryCourse, EnergyLevel: 6}},
		{"UnknownMood", Entry{VideosCompleted: 1, VideoCategory: CategoryCourse, Mood: "ecstatic"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Score(tt.entry, 3)
			if !errors.Is(err, ErrInvalidCategoryInput) {
				t.Errorf("Expected ErrInvalidCategoryInput, got %v", err)
			}
		})
	}
}

func TestScore_CourseEffectiveEqualsInput(t *testing.T) {
	for v := 0.0; v <= 10; v += 0.5 {
		res, err := Score(Entry{VideosCompleted: v, VideoCategory: CategoryCourse}, 3)
		if err != nil {
			t.Fatalf("Score(%v) error = %v", v, err)
		}
		if res.EffectiveOutput != v {
			t.Errorf("Expected effective output %v, got %v", v, res.EffectiveOutput)
		}
		if res.ProductivityScore < 0 || res.ProductivityScore > 100 {
			t.Errorf("Score %d outside 0..100", res.ProductivityScore)
		}
	}
}

func TestScore_MarketingIsSixfold(t *testing.T) {
	for _, v := range []float64{0, 0.125, 0.25, 0.375, 0.5} {
		res, err := Score(Entry{VideosCompleted: v, VideoCategory: CategoryMarketing}, 3)
		if err != nil {
			t.Fatalf("Score(%v) error = %v", v, err)
		}
		if res.EffectiveOutput != v*6 {
			t.Errorf("Expected effective output %v, got %v", v*6, res.EffectiveOutput)
		}
	}
}

func TestParseCategory(t *testing.T) {
	if c, err := ParseCategory(" Marketing "); err != nil || c != CategoryMarketing {
		t.Errorf("ParseCategory() = %q, %v", c, err)
	}
	if _, err := ParseCategory("webinar"); !errors.Is(err, ErrInvalidCategoryInput) {
		t.Errorf("Expected ErrInvalidCategoryInput, got %v", err)
	}
}
