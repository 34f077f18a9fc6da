package visuals

import (
	"fmt"
	"math"
	"strings"

	"workpulse/internal/metrics"
	"workpulse/internal/report"
)

// maxBars keeps text charts readable.
const maxBars = 20

// GenerateBreakdownChart creates a Mermaid bar chart of videos per bucket with
// the bucket target drawn as a line.
func GenerateBreakdownChart(r report.BreakdownReport) string {
	if len(r.Buckets) == 0 {
		return ""
	}

	var labels, values, targets []string
	maxVal := 0.0
	for _, b := range r.Buckets {
		labels = append(labels, fmt.Sprintf("%q", b.Bucket.Label))
		values = append(values, fmt.Sprintf("%.1f", b.Summary.TotalVideos))
		targets = append(targets, fmt.Sprintf("%.1f", b.Summary.TotalTarget))
		maxVal = math.Max(maxVal, math.Max(b.Summary.TotalVideos, b.Summary.TotalTarget))
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"Videos per bucket (%s)\"\n", r.User.UserID))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Videos\" 0 --> %d\n", yMax(maxVal)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(targets, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateLeaderboardChart creates a Mermaid bar chart of the top ranked members.
func GenerateLeaderboardChart(members []metrics.RankedMember) string {
	if len(members) == 0 {
		return ""
	}
	limit := min(len(members), maxBars)

	var labels, values []string
	maxVal := 0.0
	for _, m := range members[:limit] {
		labels = append(labels, fmt.Sprintf("%q", displayName(m.UserID, m.Name)))
		values = append(values, fmt.Sprintf("%.1f", m.TotalVideos))
		maxVal = math.Max(maxVal, m.TotalVideos)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"Leaderboard (Top %d)\"\n", limit))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Videos\" 0 --> %d\n", yMax(maxVal)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateTeamChart compares average productivity across the teams of a system rollup.
func GenerateTeamChart(teams []metrics.RollupSummary) string {
	if len(teams) == 0 {
		return ""
	}

	var labels, values []string
	for _, t := range teams {
		labels = append(labels, fmt.Sprintf("%q", t.TeamID))
		values = append(values, fmt.Sprintf("%d", t.AverageProductivity))
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Average productivity by team\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString("    y-axis \"Score\" 0 --> 100\n")
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateMoodChart creates a Mermaid pie chart of the mood distribution.
// Moods without entries are left out; nothing is drawn when all are empty.
func GenerateMoodChart(dist []metrics.MoodBucket) string {
	var sb strings.Builder
	drawn := 0
	for _, b := range dist {
		if b.Count == 0 {
			continue
		}
		if drawn == 0 {
			sb.WriteString("```mermaid\n")
			sb.WriteString("pie title Mood\n")
		}
		sb.WriteString(fmt.Sprintf("    %q : %d\n", string(b.Mood), b.Count))
		drawn++
	}
	if drawn == 0 {
		return ""
	}
	sb.WriteString("```")
	return sb.String()
}

func yMax(v float64) int {
	return int(math.Ceil(math.Max(1, v*1.2)))
}

func displayName(id, name string) string {
	if name != "" {
		return name
	}
	return id
}
