package metrics

// ProductivityTrend labels the direction of average productivity between windows.
type ProductivityTrend string

const (
	TrendIncreasing ProductivityTrend = "increasing"
	TrendDecreasing ProductivityTrend = "decreasing"
	TrendStable     ProductivityTrend = "stable"
)

// EfficiencyTrend labels the direction of videos-per-hour between windows.
type EfficiencyTrend string

const (
	EfficiencyImproving  EfficiencyTrend = "improving"
	EfficiencyDeclining  EfficiencyTrend = "declining"
	EfficiencyMaintained EfficiencyTrend = "maintained"
)

// TrendResult compares a window against the equal-length window before it.
type TrendResult struct {
	PreviousWindow      Window            `json:"previousWindow"`
	HasBaseline         bool              `json:"hasBaseline"`
	PreviousAverage     int               `json:"previousAverage"`
	CurrentAverage      int               `json:"currentAverage"`
	PreviousEfficiency  float64           `json:"previousEfficiency"`
	CurrentEfficiency   float64           `json:"currentEfficiency"`
	ImprovementRate     int               `json:"improvementRate"`
	ProductivityTrend   ProductivityTrend `json:"productivityTrend"`
	EfficiencyTrend     EfficiencyTrend   `json:"efficiencyTrend"`
	PreviousEntryCount  int               `json:"previousEntryCount"`
	PreviousTotalVideos float64           `json:"previousTotalVideos"`
}

// CompareTrend summarizes previousEntries over the window preceding current and
// derives the improvement rate and trend labels. A previous window without
// entries is "no baseline": the rate is 0 and both labels stay neutral.
func CompareTrend(current UserMetricSummary, previousEntries []Entry) (TrendResult, error) {
	prevWindow := current.Window.Previous()
	previous, err := Summarize(previousEntries, prevWindow)
	if err != nil {
		return TrendResult{}, err
	}

	res := TrendResult{
		PreviousWindow:      prevWindow,
		HasBaseline:         !previous.NoData,
		PreviousAverage:     previous.AverageProductivity,
		CurrentAverage:      current.AverageProductivity,
		PreviousEfficiency:  previous.Efficiency(),
		CurrentEfficiency:   current.Efficiency(),
		ProductivityTrend:   TrendStable,
		EfficiencyTrend:     EfficiencyMaintained,
		PreviousEntryCount:  previous.EntryCount,
		PreviousTotalVideos: previous.TotalVideos,
	}
	if !res.HasBaseline {
		return res, nil
	}

	if previous.AverageProductivity != 0 {
		delta := float64(current.AverageProductivity - previous.AverageProductivity)
		res.ImprovementRate = roundHalfUp(delta / float64(previous.AverageProductivity) * 100)
	}

	switch {
	case current.AverageProductivity > previous.AverageProductivity:
		res.ProductivityTrend = TrendIncreasing
	case current.AverageProductivity < previous.AverageProductivity:
		res.ProductivityTrend = TrendDecreasing
	}

	switch {
	case res.CurrentEfficiency > res.PreviousEfficiency:
		res.EfficiencyTrend = EfficiencyImproving
	case res.CurrentEfficiency < res.PreviousEfficiency:
		res.EfficiencyTrend = EfficiencyDeclining
	}
	return res, nil
}

// ApplyTrend returns a copy of s carrying the trend labels and improvement rate.
func ApplyTrend(s UserMetricSummary, t TrendResult) UserMetricSummary {
	s.ImprovementRate = t.ImprovementRate
	s.ProductivityTrend = t.ProductivityTrend
	s.EfficiencyTrend = t.EfficiencyTrend
	return s
}
