package metrics

import "math"

// roundHalfUp rounds to the nearest integer, with .5 going towards +Inf.
// Negative rates such as -2.5 therefore round to -2.
func roundHalfUp(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Floor(v + 0.5))
}

// percentOf returns round(part/whole*100), or 0 when whole is zero.
func percentOf(part, whole float64) int {
	if whole == 0 {
		return 0
	}
	return roundHalfUp(part / whole * 100)
}

// meanRounded returns the rounded mean of values, or 0 for an empty slice.
func meanRounded(values []int) int {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return roundHalfUp(float64(sum) / float64(len(values)))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
