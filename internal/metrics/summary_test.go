package metrics

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func customWindow(t *testing.T, start, end time.Time) Window {
	t.Helper()
	w, err := ResolveWindow(PeriodCustom, end, &Range{Start: start, End: end})
	if err != nil {
		t.Fatalf("ResolveWindow() error = %v", err)
	}
	return w
}

func TestSummarize_CourseAndLeave(t *testing.T) {
	w := customWindow(t, day(2024, 1, 15), day(2024, 1, 17))
	entries := []Entry{
		{UserID: "u1", Date: day(2024, 1, 15), VideosCompleted: 3, TargetVideos: 3, VideoCategory: CategoryCourse},
		{UserID: "u1", Date: day(2024, 1, 16), VideosCompleted: 0, TargetVideos: 3, VideoCategory: CategoryLeave},
	}

	s, err := Summarize(entries, w)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if s.TotalVideos != 3 {
		t.Errorf("Expected totalVideos 3, got %v", s.TotalVideos)
	}
	if s.TotalTarget != 3 {
		t.Errorf("Expected totalTarget 3, got %v", s.TotalTarget)
	}
	if s.TargetAchievement != 100 {
		t.Errorf("Expected targetAchievement 100, got %d", s.TargetAchievement)
	}
	if s.AverageProductivity != 100 {
		t.Errorf("Expected averageProductivity 100 (leave excluded), got %d", s.AverageProductivity)
	}
	if s.LeaveDays != 1 || s.WorkingDays != 1 || s.EntryCount != 2 {
		t.Errorf("Unexpected day counts: %+v", s)
	}
	if s.ConsistencyScore != 50 {
		t.Errorf("Expected consistencyScore 50, got %d", s.ConsistencyScore)
	}
	if s.UserID != "u1" || s.NoData {
		t.Errorf("Unexpected identity: user=%q noData=%v", s.UserID, s.NoData)
	}
}

func TestSummarize_EmptyWindow(t *testing.T) {
	w := customWindow(t, day(2024, 1, 15), day(2024, 1, 17))
	entries := []Entry{
		{UserID: "u1", Date: day(2024, 1, 10), VideosCompleted: 3, VideoCategory: CategoryCourse},
	}

	s, err := Summarize(entries, w)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if !s.NoData {
		t.Error("Expected NoData marker for an empty window")
	}
	if s.TargetAchievement != 0 || s.AverageProductivity != 0 || s.ConsistencyScore != 0 {
		t.Errorf("Expected zeroed metrics, got %+v", s)
	}
	if s.BestDay != nil || s.WorstDay != nil {
		t.Error("Expected no best/worst day")
	}
}

func TestSummarize_ZeroTargetIsNotNaN(t *testing.T) {
	w := customWindow(t, day(2024, 1, 15), day(2024, 1, 17))
	entries := []Entry{
		{UserID: "u1", Date: day(2024, 1, 15), VideoCategory: CategoryLeave, TargetVideos: 3},
		{UserID: "u1", Date: day(2024, 1, 16), VideoCategory: CategoryLeave, TargetVideos: 3},
	}
	s, err := Summarize(entries, w)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if s.TotalTarget != 0 {
		t.Fatalf("Expected totalTarget 0, got %v", s.TotalTarget)
	}
	if s.TargetAchievement != 0 {
		t.Errorf("Expected targetAchievement 0, got %d", s.TargetAchievement)
	}
}

func TestSummarize_BestWorstAndPeakHour(t *testing.T) {
	w := customWindow(t, day(2024, 1, 1), day(2024, 2, 1))
	entries := []Entry{
		// Deliberately out of order.
		{UserID: "u1", Date: day(2024, 1, 5), ShiftStart: "13:00", VideosCompleted: 3, VideoCategory: CategoryCourse},
		{UserID: "u1", Date: day(2024, 1, 2), ShiftStart: "09:00", VideosCompleted: 3, VideoCategory: CategoryCourse},
		{UserID: "u1", Date: day(2024, 1, 3), ShiftStart: "13:30", VideosCompleted: 1.5, VideoCategory: CategoryCourse},
		{UserID: "u1", Date: day(2024, 1, 4), ShiftStart: "09:15", VideosCompleted: 1.5, VideoCategory: CategoryCourse},
		{UserID: "u1", Date: day(2024, 1, 8), ShiftStart: "07:00", VideoCategory: CategoryLeave},
	}
	original := append([]Entry(nil), entries...)

	s, err := Summarize(entries, w)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if s.BestDay == nil || s.BestDay.Date != "2024-01-02" || s.BestDay.Score != 100 {
		t.Errorf("Expected best day 2024-01-02 (earliest of ties), got %+v", s.BestDay)
	}
	if s.WorstDay == nil || s.WorstDay.Date != "2024-01-08" || s.WorstDay.Score != 0 {
		t.Errorf("Expected worst day 2024-01-08 (leave scores 0), got %+v", s.WorstDay)
	}
	// 09h and 13h both sum to 150; the lower hour wins.
	if s.MostProductiveHour != 9 {
		t.Errorf("Expected most productive hour 9, got %d", s.MostProductiveHour)
	}
	if !reflect.DeepEqual(entries, original) {
		t.Error("Summarize must not reorder or modify its input")
	}
}

func TestSummarize_BestWorstIncludeLeave(t *testing.T) {
	w := customWindow(t, day(2024, 1, 1), day(2024, 1, 8))

	tests := []struct {
		name           string
		entries        []Entry
		wantBest       string
		wantWorst      string
		wantWorstScore int
	}{
		{
			name: "leave is the worst day",
			entries: []Entry{
				{UserID: "u1", Date: day(2024, 1, 2), VideosCompleted: 3, VideoCategory: CategoryCourse},
				{UserID: "u1", Date: day(2024, 1, 3), VideoCategory: CategoryLeave},
			},
			wantBest: "2024-01-02", wantWorst: "2024-01-03",
		},
		{
			name:     "only leave",
			entries:  []Entry{{UserID: "u1", Date: day(2024, 1, 4), VideoCategory: CategoryLeave}},
			wantBest: "2024-01-04", wantWorst: "2024-01-04",
		},
		{
			name: "submitted score is ignored",
			entries: []Entry{
				{UserID: "u1", Date: day(2024, 1, 2), VideosCompleted: 1.5, VideoCategory: CategoryCourse, ProductivityScore: 100},
				{UserID: "u1", Date: day(2024, 1, 3), VideosCompleted: 3, VideoCategory: CategoryCourse, ProductivityScore: 10},
			},
			wantBest: "2024-01-03", wantWorst: "2024-01-02", wantWorstScore: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Summarize(tt.entries, w)
			if err != nil {
				t.Fatalf("Summarize() error = %v", err)
			}
			if s.BestDay == nil || s.BestDay.Date != tt.wantBest {
				t.Errorf("Expected best day %s, got %+v", tt.wantBest, s.BestDay)
			}
			if s.WorstDay == nil || s.WorstDay.Date != tt.wantWorst || s.WorstDay.Score != tt.wantWorstScore {
				t.Errorf("Expected worst day %s (%d), got %+v", tt.wantWorst, tt.wantWorstScore, s.WorstDay)
			}
		})
	}
}

func TestSummarize_MarketingTracking(t *testing.T) {
	w := customWindow(t, day(2024, 1, 15), day(2024, 1, 18))
	entries := []Entry{
		{UserID: "u1", Date: day(2024, 1, 15), VideosCompleted: 2, VideoCategory: CategoryCourse, ShiftStart: "09:00", ShiftEnd: "17:00"},
		{UserID: "u1", Date: day(2024, 1, 16), VideosCompleted: 0.5, VideoCategory: CategoryMarketing, ShiftStart: "22:00", ShiftEnd: "02:00"},
		{UserID: "u1", Date: day(2024, 1, 17), VideosCompleted: 0.25, VideoCategory: CategoryMarketing, TotalHours: 4},
	}
	s, err := Summarize(entries, w)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if s.CourseVideos != 2 || s.MarketingVideos != 4.5 || s.MarketingUnits != 0.75 {
		t.Errorf("Unexpected category split: course=%v marketing=%v units=%v", s.CourseVideos, s.MarketingVideos, s.MarketingUnits)
	}
	if s.TotalVideos != 6.5 {
		t.Errorf("Expected totalVideos 6.5, got %v", s.TotalVideos)
	}
	if s.TotalHours != 16 {
		t.Errorf("Expected 16 hours (overnight shift wraps), got %v", s.TotalHours)
	}
	// scores 67, 100, 50
	if s.AverageProductivity != 72 {
		t.Errorf("Expected averageProductivity 72, got %d", s.AverageProductivity)
	}
	if s.TargetAchievement != 72 {
		t.Errorf("Expected targetAchievement 72, got %d", s.TargetAchievement)
	}
}

func TestSummarize_Idempotent(t *testing.T) {
	w := customWindow(t, day(2024, 1, 15), day(2024, 1, 20))
	entries := []Entry{
		{UserID: "u1", Date: day(2024, 1, 16), VideosCompleted: 2, VideoCategory: CategoryCourse, Mood: MoodGood, EnergyLevel: 4},
		{UserID: "u1", Date: day(2024, 1, 15), VideosCompleted: 0.5, VideoCategory: CategoryMarketing, Mood: MoodExcellent, EnergyLevel: 5},
	}
	a, err := Summarize(entries, w)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	b, _ := Summarize(entries, w)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Expected identical summaries:\n%+v\n%+v", a, b)
	}
}

func TestSummarize_Errors(t *testing.T) {
	w := customWindow(t, day(2024, 1, 15), day(2024, 1, 20))

	_, err := Summarize([]Entry{
		{UserID: "u1", Date: day(2024, 1, 15), VideosCompleted: 1, VideoCategory: CategoryMarketing},
	}, w)
	if !errors.Is(err, ErrInvalidCategoryInput) {
		t.Errorf("Expected ErrInvalidCategoryInput, got %v", err)
	}

	_, err = Summarize([]Entry{
		{UserID: "u1", Date: day(2024, 1, 15), VideosCompleted: 1, VideoCategory: CategoryCourse},
		{UserID: "u2", Date: day(2024, 1, 16), VideosCompleted: 1, VideoCategory: CategoryCourse},
	}, w)
	if !errors.Is(err, ErrMixedUsers) {
		t.Errorf("Expected ErrMixedUsers, got %v", err)
	}
}

func TestSummarize_Distributions(t *testing.T) {
	w := customWindow(t, day(2024, 1, 15), day(2024, 1, 20))
	entries := []Entry{
		{UserID: "u1", Date: day(2024, 1, 15), VideosCompleted: 3, VideoCategory: CategoryCourse, Mood: MoodGood, EnergyLevel: 4},
		{UserID: "u1", Date: day(2024, 1, 16), VideosCompleted: 1.5, VideoCategory: CategoryCourse, Mood: MoodGood, EnergyLevel: 2},
	}
	s, err := Summarize(entries, w)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if len(s.MoodDistribution) != 4 || s.MoodDistribution[1].Mood != MoodGood {
		t.Fatalf("Unexpected mood distribution: %+v", s.MoodDistribution)
	}
	if s.MoodDistribution[1].Count != 2 || s.MoodDistribution[1].AverageProductivity != 75 {
		t.Errorf("Expected good=2 avg 75, got %+v", s.MoodDistribution[1])
	}
	if len(s.EnergyDistribution) != 5 || s.EnergyDistribution[3].Count != 1 || s.EnergyDistribution[3].AverageProductivity != 100 {
		t.Errorf("Unexpected energy distribution: %+v", s.EnergyDistribution)
	}
}
