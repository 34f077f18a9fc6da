package metrics

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Category classifies what kind of work an entry records.
type Category string

const (
	CategoryCourse    Category = "course"
	CategoryMarketing Category = "marketing"
	CategoryLeave     Category = "leave"
)

// Mood is the self-reported mood attached to an entry.
type Mood string

const (
	MoodExcellent Mood = "excellent"
	MoodGood      Mood = "good"
	MoodAverage   Mood = "average"
	MoodPoor      Mood = "poor"
)

// Moods lists mood values in their natural enumeration order.
var Moods = []Mood{MoodExcellent, MoodGood, MoodAverage, MoodPoor}

// Entry is one person's record for one calendar date.
// Exactly one entry exists per (UserID, Date).
type Entry struct {
	UserID string    `json:"userId"`
	Date   time.Time `json:"date"`

	// ShiftStart and ShiftEnd are wall-clock "HH:MM" strings.
	ShiftStart string `json:"shiftStart,omitempty"`
	ShiftEnd   string `json:"shiftEnd,omitempty"`

	VideosCompleted float64  `json:"videosCompleted"`
	VideoCategory   Category `json:"videoCategory"`
	TargetVideos    int      `json:"targetVideos,omitempty"`

	Mood         Mood     `json:"mood,omitempty"`
	EnergyLevel  int      `json:"energyLevel,omitempty"` // 1..5, 0 when not reported
	Challenges   []string `json:"challenges,omitempty"`
	Achievements []string `json:"achievements,omitempty"`

	// Derived by the submission side; recomputed here, never trusted.
	ProductivityScore int     `json:"productivityScore,omitempty"`
	TotalHours        float64 `json:"totalHours,omitempty"`
}

// Day returns the entry's calendar date as midnight in loc.
// Entry dates are timezone-naive, so only Y/M/D are kept.
func (e Entry) Day(loc *time.Location) time.Time {
	return time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), 0, 0, 0, 0, loc)
}

// DayKey returns the entry date as YYYY-MM-DD.
func (e Entry) DayKey() string {
	return e.Date.Format("2006-01-02")
}

// ShiftHour returns the hour of day the shift started, if it can be parsed.
func (e Entry) ShiftHour() (int, bool) {
	h, _, ok := parseClock(e.ShiftStart)
	return h, ok
}

// Hours returns the worked hours for the entry. An explicit TotalHours wins;
// otherwise the shift is measured, wrapping past midnight for overnight shifts.
func (e Entry) Hours() float64 {
	if e.TotalHours > 0 {
		return e.TotalHours
	}
	sh, sm, ok1 := parseClock(e.ShiftStart)
	eh, em, ok2 := parseClock(e.ShiftEnd)
	if !ok1 || !ok2 {
		return 0
	}
	start := sh*60 + sm
	end := eh*60 + em
	if end < start {
		end += 24 * 60
	}
	return float64(end-start) / 60.0
}

func parseClock(s string) (hour, minute int, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, false
	}
	parts := strings.SplitN(s, ":", 3)
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m := 0
	if len(parts) > 1 {
		m, err = strconv.Atoi(parts[1])
		if err != nil || m < 0 || m > 59 {
			return 0, 0, false
		}
	}
	return h, m, true
}

// ParseCategory normalizes a category token.
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryCourse, CategoryMarketing, CategoryLeave:
		return c, nil
	default:
		return "", fmt.Errorf("%w: unknown category %q", ErrInvalidCategoryInput, s)
	}
}

// ScopeKind identifies the aggregation boundary of a report.
type ScopeKind string

const (
	ScopeSelf   ScopeKind = "self"
	ScopeTeam   ScopeKind = "team"
	ScopeSystem ScopeKind = "system"
)

// Member identifies a person taking part in a rollup.
type Member struct {
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
	TeamID string `json:"teamId,omitempty"`
}

// RollupScope is the resolved set of members a rollup merges over.
type RollupScope struct {
	Kind    ScopeKind `json:"kind"`
	TeamID  string    `json:"teamId,omitempty"`
	Members []Member  `json:"members"`
}
