package metrics

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Period is a report period token.
type Period string

const (
	PeriodDay     Period = "day"
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
	PeriodCustom  Period = "custom"
)

var (
	// ErrUnknownPeriod is returned for a period token the resolver does not know.
	ErrUnknownPeriod = errors.New("unknown period")
	// ErrInvalidRange is returned for a custom range whose end is not after its start.
	ErrInvalidRange = errors.New("invalid range")
)

// ParsePeriod normalizes a period token. An empty token means week.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PeriodWeek, nil
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear, PeriodCustom:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
	}
}

// Range is an explicit [Start, End) override.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ParseRange parses an explicit range from date ("2006-01-02") or RFC3339
// strings. Both empty means no override; a bare date is midnight in loc.
func ParseRange(start, end string, loc *time.Location) (*Range, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" || end == "" {
		return nil, fmt.Errorf("%w: both start and end are required", ErrInvalidRange)
	}
	s, err := parseInstant(start, loc)
	if err != nil {
		return nil, err
	}
	e, err := parseInstant(end, loc)
	if err != nil {
		return nil, err
	}
	return &Range{Start: s, End: e}, nil
}

func parseInstant(v string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation("2006-01-02", v, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse %q as a date", ErrInvalidRange, v)
}

// Window is a resolved half-open [Start, End) calendar interval.
type Window struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Period Period    `json:"period"`
	Label  string    `json:"label"`
}

// ResolveWindow turns a period token and a reference instant into a concrete window.
//
// week runs from Monday 00:00 of the current week through now, month from the
// first of the month, year from January 1st. quarter covers the whole calendar
// quarter containing now. An override always wins over the token.
func ResolveWindow(period Period, now time.Time, override *Range) (Window, error) {
	if override != nil {
		if !override.End.After(override.Start) {
			return Window{}, fmt.Errorf("%w: end %s is not after start %s", ErrInvalidRange,
				override.End.Format(time.RFC3339), override.Start.Format(time.RFC3339))
		}
		w := Window{Start: override.Start, End: override.End, Period: PeriodCustom}
		w.Label = w.generateLabel()
		return w, nil
	}

	var w Window
	switch period {
	case PeriodDay:
		w = Window{Start: SnapToStart(now, PeriodDay), End: now}
	case PeriodWeek:
		w = Window{Start: SnapToStart(now, PeriodWeek), End: now}
	case PeriodMonth:
		w = Window{Start: SnapToStart(now, PeriodMonth), End: now}
	case PeriodYear:
		w = Window{Start: SnapToStart(now, PeriodYear), End: now}
	case PeriodQuarter:
		start := SnapToStart(now, PeriodQuarter)
		w = Window{Start: start, End: start.AddDate(0, 3, 0)}
	case PeriodCustom:
		return Window{}, fmt.Errorf("%w: custom period requires an explicit range", ErrInvalidRange)
	default:
		return Window{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, period)
	}
	w.Period = period
	w.Label = w.generateLabel()
	return w, nil
}

// SnapToStart normalizes a timestamp to the beginning of its unit (00:00:00).
func SnapToStart(t time.Time, unit Period) time.Time {
	if t.IsZero() {
		return t
	}
	switch unit {
	case PeriodWeek:
		// Go's Weekday starts at Sunday=0. Monday is the anchor.
		offset := int(t.Weekday()) - 1
		if t.Weekday() == time.Sunday {
			offset = 6
		}
		return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, t.Location())
	case PeriodMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	case PeriodQuarter:
		q := (int(t.Month()) - 1) / 3
		return time.Date(t.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, t.Location())
	case PeriodYear:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	default: // day
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
}

// Duration returns the length of the window.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// IsEmpty reports whether the window covers no time at all.
func (w Window) IsEmpty() bool {
	return !w.End.After(w.Start)
}

// Previous returns the equal-length window immediately preceding w.
func (w Window) Previous() Window {
	d := w.Duration()
	prev := Window{
		Start:  w.Start.Add(-d),
		End:    w.Start,
		Period: PeriodCustom,
	}
	prev.Label = prev.generateLabel()
	return prev
}

// Contains reports whether the calendar day t falls inside the window.
// Only the date part of t is considered; a day counts when its midnight is
// inside [Start, End).
func (w Window) Contains(t time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, w.Start.Location())
	return !day.Before(w.Start) && day.Before(w.End)
}

// Days returns the number of calendar days touched by the window.
func (w Window) Days() int {
	if w.IsEmpty() {
		return 0
	}
	first, last := DayBounds(w.Start, w.End)
	n := 0
	for d := first; d.Before(last); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

// DayBounds converts an instant range into calendar days: from is midnight of
// start, until is the exclusive midnight after the last day end touches.
func DayBounds(start, end time.Time) (from, until time.Time) {
	from = SnapToStart(start, PeriodDay)
	until = SnapToStart(end, PeriodDay)
	if until.Before(end) {
		until = until.AddDate(0, 0, 1)
	}
	return from, until
}

func (w Window) generateLabel() string {
	switch w.Period {
	case PeriodDay:
		return w.Start.Format("2006-01-02")
	case PeriodWeek:
		year, week := w.Start.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case PeriodMonth:
		return w.Start.Format("Jan 2006")
	case PeriodQuarter:
		return fmt.Sprintf("%d-Q%d", w.Start.Year(), (int(w.Start.Month())-1)/3+1)
	case PeriodYear:
		return w.Start.Format("2006")
	default:
		return fmt.Sprintf("%s..%s", w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
	}
}

// Bucket is one sub-window of a multi-bucket view.
type Bucket struct {
	Window
	// Partial is set when the bucket was clipped at the reference instant.
	Partial bool `json:"partial,omitempty"`
}

// Breakdown splits the period containing now into display buckets, oldest first:
// week gives the five weekdays, month its Monday-aligned weeks, quarter its three
// months and year its twelve months. Buckets are clipped at now, so buckets in
// the future are empty.
func Breakdown(period Period, now time.Time) ([]Bucket, error) {
	var (
		start, end time.Time
		unit       Period
	)
	switch period {
	case PeriodWeek:
		start = SnapToStart(now, PeriodWeek)
		end = start.AddDate(0, 0, 5)
		unit = PeriodDay
	case PeriodMonth:
		start = SnapToStart(now, PeriodMonth)
		end = start.AddDate(0, 1, 0)
		unit = PeriodWeek
	case PeriodQuarter:
		start = SnapToStart(now, PeriodQuarter)
		end = start.AddDate(0, 3, 0)
		unit = PeriodMonth
	case PeriodYear:
		start = SnapToStart(now, PeriodYear)
		end = start.AddDate(1, 0, 0)
		unit = PeriodMonth
	default:
		return nil, fmt.Errorf("%w: no breakdown for %q", ErrUnknownPeriod, period)
	}

	var buckets []Bucket
	for cur := SnapToStart(start, unit); cur.Before(end); cur = advance(cur, unit, 1) {
		b := Bucket{Window: Window{Start: cur, End: advance(cur, unit, 1), Period: unit}}
		b.Label = b.generateLabel()
		if unit == PeriodDay {
			b.Label = cur.Weekday().String()[:3]
		}
		if b.Start.Before(start) {
			b.Start = start
		}
		if b.End.After(end) {
			b.End = end
		}
		buckets = append(buckets, clip(b, now))
	}
	return buckets, nil
}

// Trailing returns n consecutive unit-aligned windows ending at now, oldest first.
// The newest window runs from the start of the current unit through now.
func Trailing(unit Period, n int, now time.Time) ([]Bucket, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: bucket count must be positive, got %d", ErrInvalidRange, n)
	}
	switch unit {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear:
	default:
		return nil, fmt.Errorf("%w: no trailing buckets for %q", ErrUnknownPeriod, unit)
	}

	current := SnapToStart(now, unit)
	buckets := make([]Bucket, 0, n)
	for i := n - 1; i >= 0; i-- {
		start := advance(current, unit, -i)
		b := Bucket{Window: Window{Start: start, End: advance(start, unit, 1), Period: unit}}
		b.Label = b.generateLabel()
		buckets = append(buckets, clip(b, now))
	}
	return buckets, nil
}

func advance(t time.Time, unit Period, n int) time.Time {
	switch unit {
	case PeriodWeek:
		return t.AddDate(0, 0, 7*n)
	case PeriodMonth:
		return t.AddDate(0, n, 0)
	case PeriodQuarter:
		return t.AddDate(0, 3*n, 0)
	case PeriodYear:
		return t.AddDate(n, 0, 0)
	default:
		return t.AddDate(0, 0, n)
	}
}

func clip(b Bucket, now time.Time) Bucket {
	if b.End.After(now) {
		b.Partial = true
		b.End = now
		if b.End.Before(b.Start) {
			b.End = b.Start
		}
	}
	return b
}
