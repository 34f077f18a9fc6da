package metrics

import (
	"testing"
	"time"
)

func TestExtractInsights_Distributions(t *testing.T) {
	entries := []Entry{
		{UserID: "u1", Date: day(2024, 1, 15), VideosCompleted: 3, VideoCategory: CategoryCourse, Mood: MoodExcellent, EnergyLevel: 5},
		{UserID: "u1", Date: day(2024, 1, 16), VideosCompleted: 1.5, VideoCategory: CategoryCourse, Mood: MoodAverage, EnergyLevel: 3},
		{UserID: "u1", Date: day(2024, 1, 17), VideosCompleted: 3, VideoCategory: CategoryCourse, Mood: MoodExcellent, EnergyLevel: 3},
		{UserID: "u1", Date: day(2024, 1, 18), VideoCategory: CategoryLeave},
	}

	res, err := ExtractInsights(entries)
	if err != nil {
		t.Fatalf("ExtractInsights() error = %v", err)
	}

	wantMood := []MoodBucket{
		{Mood: MoodExcellent, Count: 2, AverageProductivity: 100},
		{Mood: MoodGood, Count: 0, AverageProductivity: 0},
		{Mood: MoodAverage, Count: 1, AverageProductivity: 50},
		{Mood: MoodPoor, Count: 0, AverageProductivity: 0},
	}
	for i, want := range wantMood {
		if res.MoodDistribution[i] != want {
			t.Errorf("mood %d: expected %+v, got %+v", i, want, res.MoodDistribution[i])
		}
	}

	if res.EnergyDistribution[2].Count != 2 || res.EnergyDistribution[2].AverageProductivity != 75 {
		t.Errorf("Expected energy 3 count 2 avg 75, got %+v", res.EnergyDistribution[2])
	}
	if res.EnergyDistribution[4].Count != 1 {
		t.Errorf("Expected energy 5 count 1, got %+v", res.EnergyDistribution[4])
	}
	if res.EntryCount != 4 {
		t.Errorf("Expected 4 entries, got %d", res.EntryCount)
	}
}

func TestExtractInsights_BestWeekday(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		want    time.Weekday
		wantNil bool
	}{
		{
			name:    "Empty",
			wantNil: true,
		},
		{
			name: "HighestSum",
			entries: []Entry{
				courseEntry("u1", 15, 3, 0),   // Monday 100
				courseEntry("u1", 16, 1.5, 0), // Tuesday 50
				courseEntry("u1", 23, 3, 0),   // Tuesday 100
			},
			want: time.Tuesday,
		},
		{
			name: "TieGoesToLowerIndex",
			entries: []Entry{
				courseEntry("u1", 19, 3, 0), // Friday
				courseEntry("u1", 15, 3, 0), // Monday
				courseEntry("u1", 21, 3, 0), // Sunday
			},
			want: time.Sunday,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ExtractInsights(tt.entries)
			if err != nil {
				t.Fatalf("ExtractInsights() error = %v", err)
			}
			if tt.wantNil {
				if res.BestWeekday != nil {
					t.Errorf("Expected no best weekday, got %+v", res.BestWeekday)
				}
				return
			}
			if res.BestWeekday == nil || res.BestWeekday.Weekday != tt.want {
				t.Errorf("Expected %s, got %+v", tt.want, res.BestWeekday)
			}
		})
	}
}

func TestExtractInsights_RecommendedBreak(t *testing.T) {
	tests := []struct {
		name  string
		hours []float64
		want  int
	}{
		{"NoHoursClampsLow", nil, 5},
		{"ShortSessionsClampLow", []float64{0.2, 0.4}, 5},
		{"Typical", []float64{1, 1.4}, 12},
		{"LongSessionsClampHigh", []float64{8, 9}, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entries []Entry
			for i, h := range tt.hours {
				entries = append(entries, courseEntry("u1", 15+i, 1, h))
			}
			res, err := ExtractInsights(entries)
			if err != nil {
				t.Fatalf("ExtractInsights() error = %v", err)
			}
			if res.RecommendedBreakMinutes != tt.want {
				t.Errorf("Expected %d minutes, got %d", tt.want, res.RecommendedBreakMinutes)
			}
		})
	}
}

func TestExtractInsights_PeakStreak(t *testing.T) {
	entries := []Entry{
		courseEntry("u1", 15, 3, 0),
		courseEntry("u1", 16, 3, 0),
		courseEntry("u1", 17, 1, 0), // breaks the streak
		courseEntry("u1", 18, 3, 0),
		courseEntry("u1", 19, 3, 0),
		courseEntry("u1", 20, 3, 0),
		courseEntry("u1", 22, 3, 0), // gap on the 21st
	}
	res, err := ExtractInsights(entries)
	if err != nil {
		t.Fatalf("ExtractInsights() error = %v", err)
	}
	if res.PeakStreak != 3 {
		t.Errorf("Expected peak streak 3, got %d", res.PeakStreak)
	}
	if len(res.Highlights) == 0 {
		t.Error("Expected highlights")
	}
}
