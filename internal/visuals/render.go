package visuals

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"workpulse/internal/metrics"
	"workpulse/internal/report"
)

// RenderUserReport renders a single-user report as markdown. Charts are
// mermaid blocks and are omitted when withCharts is false.
func RenderUserReport(r report.UserReport, withCharts bool) string {
	s := r.Summary
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Productivity report: %s\n\n", displayName(r.User.UserID, r.User.Name))
	fmt.Fprintf(&sb, "Window: **%s** (%s to %s)\n\n", r.Window.Label, r.Window.Start.Format("2006-01-02"), r.Window.End.Format("2006-01-02 15:04"))

	if s.NoData {
		sb.WriteString("_No entries in this window._\n")
		return sb.String()
	}

	sb.WriteString("| Metric | Value |\n|---|---|\n")
	row := func(k, v string) { fmt.Fprintf(&sb, "| %s | %s |\n", k, v) }
	row("Entries", fmt.Sprintf("%d (%d working, %d leave)", s.EntryCount, s.WorkingDays, s.LeaveDays))
	row("Total videos", fmt.Sprintf("%.2f", s.TotalVideos))
	row("Course / marketing", fmt.Sprintf("%.2f / %.2f", s.CourseVideos, s.MarketingVideos))
	row("Target", fmt.Sprintf("%.0f", s.TotalTarget))
	row("Target achievement", fmt.Sprintf("%d%%", s.TargetAchievement))
	row("Average productivity", fmt.Sprintf("%d", s.AverageProductivity))
	row("Consistency", fmt.Sprintf("%d%%", s.ConsistencyScore))
	row("Hours", fmt.Sprintf("%.1f", s.TotalHours))
	if s.BestDay != nil {
		row("Best day", fmt.Sprintf("%s (%d)", s.BestDay.Date, s.BestDay.Score))
	}
	if s.WorstDay != nil {
		row("Worst day", fmt.Sprintf("%s (%d)", s.WorstDay.Date, s.WorstDay.Score))
	}
	row("Most productive hour", fmt.Sprintf("%02d:00", s.MostProductiveHour))

	sb.WriteString("\n## Trend\n\n")
	if !r.Trend.HasBaseline {
		sb.WriteString("No entries in the previous window to compare against.\n")
	} else {
		fmt.Fprintf(&sb, "Productivity is **%s** (%+d%% vs %s), efficiency is **%s**.\n",
			r.Trend.ProductivityTrend, r.Trend.ImprovementRate, r.Trend.PreviousWindow.Label, r.Trend.EfficiencyTrend)
	}

	sb.WriteString("\n## Insights\n\n")
	fmt.Fprintf(&sb, "- Recommended break: %d minutes\n", r.Insights.RecommendedBreakMinutes)
	for _, h := range r.Insights.Highlights {
		fmt.Fprintf(&sb, "- %s\n", h)
	}
	if withCharts {
		if chart := GenerateMoodChart(r.Insights.MoodDistribution); chart != "" {
			sb.WriteString("\n")
			sb.WriteString(chart)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// RenderBreakdown renders a bucketed user report as markdown.
func RenderBreakdown(r report.BreakdownReport, withCharts bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Breakdown: %s\n\n", displayName(r.User.UserID, r.User.Name))
	sb.WriteString("| Bucket | Videos | Target | Achievement | Avg score |\n|---|---|---|---|---|\n")
	for _, b := range r.Buckets {
		label := b.Bucket.Label
		if b.Bucket.Partial {
			label += " *"
		}
		if b.Summary.NoData {
			fmt.Fprintf(&sb, "| %s | - | - | - | - |\n", label)
			continue
		}
		fmt.Fprintf(&sb, "| %s | %.2f | %.0f | %d%% | %d |\n", label,
			b.Summary.TotalVideos, b.Summary.TotalTarget, b.Summary.TargetAchievement, b.Summary.AverageProductivity)
	}
	if withCharts {
		if chart := GenerateBreakdownChart(r); chart != "" {
			sb.WriteString("\n")
			sb.WriteString(chart)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// RenderRollupReport renders a team or system rollup as markdown.
func RenderRollupReport(r metrics.RollupSummary, withCharts bool) string {
	var sb strings.Builder

	title := "System"
	if r.Kind == metrics.ScopeTeam {
		title = "Team " + r.TeamID
	} else if r.Kind == metrics.ScopeSelf {
		title = "Personal"
	}
	fmt.Fprintf(&sb, "# %s rollup\n\n", title)
	fmt.Fprintf(&sb, "Window: **%s**\n\n", r.Window.Label)

	if r.NoData {
		fmt.Fprintf(&sb, "_No entries for any of the %d members in this window._\n", r.TotalMembers)
		return sb.String()
	}

	fmt.Fprintf(&sb, "- Members: %d (%d active)\n", r.TotalMembers, r.ActiveMembers)
	if r.TotalTeams > 0 {
		fmt.Fprintf(&sb, "- Teams: %d\n", r.TotalTeams)
	}
	fmt.Fprintf(&sb, "- Videos: %.2f (course %.2f, marketing %.2f)\n", r.TotalVideos, r.TotalCourseVideos, r.TotalMarketingVideos)
	fmt.Fprintf(&sb, "- Target achievement: %d%%\n", r.TargetAchievement)
	fmt.Fprintf(&sb, "- Average productivity: %d\n", r.AverageProductivity)
	fmt.Fprintf(&sb, "- Consistency: %d%%\n", r.ConsistencyScore)

	sb.WriteString("\n## Ranking\n\n")
	sb.WriteString("| # | Member | Team | Videos | Avg score | Achievement |\n|---|---|---|---|---|---|\n")
	for _, m := range r.Members {
		fmt.Fprintf(&sb, "| %d | %s | %s | %.2f | %d | %d%% |\n",
			m.Rank, displayName(m.UserID, m.Name), m.TeamID, m.TotalVideos, m.AverageProductivity, m.TargetAchievement)
	}

	if len(r.Teams) > 0 {
		sb.WriteString("\n## Teams\n\n")
		sb.WriteString("| Team | Members | Videos | Avg score | Achievement |\n|---|---|---|---|---|\n")
		for _, t := range r.Teams {
			fmt.Fprintf(&sb, "| %s | %d | %.2f | %d | %d%% |\n", t.TeamID, t.TotalMembers, t.TotalVideos, t.AverageProductivity, t.TargetAchievement)
		}
	}

	if withCharts {
		for _, chart := range []string{GenerateLeaderboardChart(r.Members), GenerateTeamChart(r.Teams)} {
			if chart != "" {
				sb.WriteString("\n")
				sb.WriteString(chart)
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderHTML converts a markdown report into a standalone HTML page.
// Mermaid blocks are rendered client-side.
func RenderHTML(title, md string) (string, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(md), &body); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", html.EscapeString(title))
	sb.WriteString("<style>body{font-family:sans-serif;max-width:960px;margin:2em auto}table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:4px 8px}</style>\n")
	sb.WriteString("</head>\n<body>\n")
	sb.Write(body.Bytes())
	sb.WriteString("<script type=\"module\">\n")
	sb.WriteString("import mermaid from 'https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.esm.min.mjs';\n")
	sb.WriteString("document.querySelectorAll('code.language-mermaid').forEach(c => { const d = document.createElement('div'); d.className = 'mermaid'; d.textContent = c.textContent; c.parentElement.replaceWith(d); });\n")
	sb.WriteString("mermaid.run();\n</script>\n</body>\n</html>\n")
	return sb.String(), nil
}
