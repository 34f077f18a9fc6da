package metrics

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// ErrMissingSummary is returned when a member in scope has no summary to merge.
var ErrMissingSummary = errors.New("missing member summary")

// UnassignedTeam groups system-scope members without a team.
const UnassignedTeam = "unassigned"

// RankedMember is one leaderboard row.
type RankedMember struct {
	Rank                int     `json:"rank"`
	UserID              string  `json:"userId"`
	Name                string  `json:"name,omitempty"`
	TeamID              string  `json:"teamId,omitempty"`
	EntryCount          int     `json:"entryCount"`
	TotalVideos         float64 `json:"totalVideos"`
	CourseVideos        float64 `json:"courseVideos"`
	MarketingVideos     float64 `json:"marketingVideos"`
	AverageProductivity int     `json:"averageProductivity"`
	TargetAchievement   int     `json:"targetAchievement"`
	ConsistencyScore    int     `json:"consistencyScore"`
}

// RollupSummary merges member summaries into a team or system view.
// For system scope Teams holds one nested rollup per team.
type RollupSummary struct {
	Kind   ScopeKind `json:"kind"`
	TeamID string    `json:"teamId,omitempty"`
	Window Window    `json:"window"`
	NoData bool      `json:"noData"`

	TotalMembers  int `json:"totalMembers"`
	ActiveMembers int `json:"activeMembers"`
	TotalTeams    int `json:"totalTeams,omitempty"`

	TotalVideos          float64 `json:"totalVideos"`
	TotalCourseVideos    float64 `json:"totalCourseVideos"`
	TotalMarketingVideos float64 `json:"totalMarketingVideos"`
	TotalTarget          float64 `json:"totalTarget"`
	TotalHours           float64 `json:"totalHours"`
	TotalEntries         int     `json:"totalEntries"`

	AverageProductivity int `json:"averageProductivity"`
	TargetAchievement   int `json:"targetAchievement"`
	ConsistencyScore    int `json:"consistencyScore"`

	Members []RankedMember  `json:"members"`
	Teams   []RollupSummary `json:"teams,omitempty"`
}

// Top returns at most n ranked members.
func (r RollupSummary) Top(n int) []RankedMember {
	if n <= 0 || n >= len(r.Members) {
		return r.Members
	}
	return r.Members[:n]
}

// Rollup composes already-computed member summaries into a rollup. It never
// looks at raw entries: the member-level average is the unit of aggregation.
// Every member in scope must have a summary.
func Rollup(scope RollupScope, window Window, summaries map[string]UserMetricSummary) (RollupSummary, error) {
	out, err := merge(scope.Kind, scope.TeamID, scope.Members, window, summaries)
	if err != nil {
		return RollupSummary{}, err
	}
	if scope.Kind != ScopeSystem {
		return out, nil
	}

	byTeam := make(map[string][]Member)
	for _, m := range scope.Members {
		team := m.TeamID
		if team == "" {
			team = UnassignedTeam
		}
		byTeam[team] = append(byTeam[team], m)
	}
	teamIDs := make([]string, 0, len(byTeam))
	for id := range byTeam {
		teamIDs = append(teamIDs, id)
	}
	slices.Sort(teamIDs)

	for _, id := range teamIDs {
		team, err := merge(ScopeTeam, id, byTeam[id], window, summaries)
		if err != nil {
			return RollupSummary{}, err
		}
		out.Teams = append(out.Teams, team)
	}
	out.TotalTeams = len(out.Teams)
	return out, nil
}

func merge(kind ScopeKind, teamID string, members []Member, window Window, summaries map[string]UserMetricSummary) (RollupSummary, error) {
	out := RollupSummary{
		Kind:         kind,
		TeamID:       teamID,
		Window:       window,
		TotalMembers: len(members),
		Members:      make([]RankedMember, 0, len(members)),
	}

	var (
		averages     []int
		consistency  []int
		seen         = make(map[string]bool, len(members))
		rankedByUser = out.Members
	)
	for _, m := range members {
		if seen[m.UserID] {
			continue
		}
		seen[m.UserID] = true

		s, ok := summaries[m.UserID]
		if !ok {
			return RollupSummary{}, fmt.Errorf("%w: %s", ErrMissingSummary, m.UserID)
		}

		out.TotalVideos += s.TotalVideos
		out.TotalCourseVideos += s.CourseVideos
		out.TotalMarketingVideos += s.MarketingVideos
		out.TotalTarget += s.TotalTarget
		out.TotalHours += s.TotalHours
		out.TotalEntries += s.EntryCount
		if !s.NoData {
			out.ActiveMembers++
			averages = append(averages, s.AverageProductivity)
			consistency = append(consistency, s.ConsistencyScore)
		}

		rankedByUser = append(rankedByUser, RankedMember{
			UserID:              m.UserID,
			Name:                m.Name,
			TeamID:              m.TeamID,
			EntryCount:          s.EntryCount,
			TotalVideos:         s.TotalVideos,
			CourseVideos:        s.CourseVideos,
			MarketingVideos:     s.MarketingVideos,
			AverageProductivity: s.AverageProductivity,
			TargetAchievement:   s.TargetAchievement,
			ConsistencyScore:    s.ConsistencyScore,
		})
	}
	out.TotalMembers = len(seen)
	out.NoData = out.ActiveMembers == 0
	// Members without data stay out of the mean.
	out.AverageProductivity = meanRounded(averages)
	out.ConsistencyScore = meanRounded(consistency)
	out.TargetAchievement = percentOf(out.TotalVideos, out.TotalTarget)

	RankMembers(rankedByUser)
	out.Members = rankedByUser
	return out, nil
}

// RankMembers sorts by total videos descending, then average productivity
// descending, then user ID, and assigns 1-based ranks.
func RankMembers(members []RankedMember) {
	slices.SortStableFunc(members, func(a, b RankedMember) int {
		if c := cmp.Compare(b.TotalVideos, a.TotalVideos); c != 0 {
			return c
		}
		if c := cmp.Compare(b.AverageProductivity, a.AverageProductivity); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})
	for i := range members {
		members[i].Rank = i + 1
	}
}
