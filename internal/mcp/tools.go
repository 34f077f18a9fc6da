package mcp

import (
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

type ResolveWindowInput struct {
	Period   string `json:"period,omitempty" jsonschema:"day, week, month, quarter, year or custom; defaults to week"`
	Start    string `json:"start,omitempty" jsonschema:"explicit range start (YYYY-MM-DD or RFC3339); overrides period"`
	End      string `json:"end,omitempty" jsonschema:"explicit range end, exclusive"`
	Buckets  bool   `json:"buckets,omitempty" jsonschema:"also return the breakdown buckets of the period"`
	Trailing int    `json:"trailing,omitempty" jsonschema:"return this many trailing buckets of the period instead of the breakdown"`
}

type UserReportInput struct {
	CallerID string `json:"caller_id" jsonschema:"ID of the user asking; their role decides what they may see"`
	UserID   string `json:"user_id,omitempty" jsonschema:"subject of the report; defaults to the caller"`
	Period   string `json:"period,omitempty" jsonschema:"day, week, month, quarter, year or custom; defaults to week"`
	Start    string `json:"start,omitempty" jsonschema:"explicit range start (YYYY-MM-DD or RFC3339)"`
	End      string `json:"end,omitempty" jsonschema:"explicit range end, exclusive"`
	Markdown bool   `json:"markdown,omitempty" jsonschema:"return a rendered markdown report instead of JSON"`
}

type UserBreakdownInput struct {
	CallerID string `json:"caller_id" jsonschema:"ID of the user asking"`
	UserID   string `json:"user_id,omitempty" jsonschema:"subject of the breakdown; defaults to the caller"`
	Period   string `json:"period,omitempty" jsonschema:"week (weekdays), month (weeks), quarter or year (months)"`
	Trailing int    `json:"trailing,omitempty" jsonschema:"use N trailing buckets of the period instead, e.g. period=month trailing=12"`
}

type RollupInput struct {
	CallerID string `json:"caller_id" jsonschema:"ID of the user asking"`
	Scope    string `json:"scope,omitempty" jsonschema:"self, team or system; defaults to the widest scope the caller's role allows"`
	TeamID   string `json:"team_id,omitempty" jsonschema:"team to roll up (admins only; managers always get their own team)"`
	Period   string `json:"period,omitempty" jsonschema:"day, week, month, quarter, year or custom; defaults to week"`
	Start    string `json:"start,omitempty" jsonschema:"explicit range start (YYYY-MM-DD or RFC3339)"`
	End      string `json:"end,omitempty" jsonschema:"explicit range end, exclusive"`
	Markdown bool   `json:"markdown,omitempty" jsonschema:"return a rendered markdown report instead of JSON"`
}

type LeaderboardInput struct {
	CallerID string `json:"caller_id" jsonschema:"ID of the user asking"`
	Scope    string `json:"scope,omitempty" jsonschema:"team or system"`
	TeamID   string `json:"team_id,omitempty" jsonschema:"team to rank (admins only)"`
	Period   string `json:"period,omitempty" jsonschema:"day, week, month, quarter, year or custom; defaults to week"`
	Start    string `json:"start,omitempty" jsonschema:"explicit range start (YYYY-MM-DD or RFC3339)"`
	End      string `json:"end,omitempty" jsonschema:"explicit range end, exclusive"`
	Limit    int    `json:"limit,omitempty" jsonschema:"number of members to return; defaults to 10"`
}

func (s *Server) registerTools(server *sdk.Server) {
	sdk.AddTool(server, &sdk.Tool{
		Name:        "resolve_window",
		Description: "Resolve a period token (or explicit range) into the concrete half-open reporting window, its preceding comparison window and optionally its breakdown buckets.",
		InputSchema: mustSchema[ResolveWindowInput](),
	}, s.handleResolveWindow)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "user_report",
		Description: "Productivity summary for one person over a window: totals, target achievement, consistency, best/worst day, trend against the previous window and mood/energy insights. The caller must be allowed to see the subject.",
		InputSchema: mustSchema[UserReportInput](),
	}, s.handleUserReport)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "user_breakdown",
		Description: "One person's summaries over consecutive buckets (weekdays of the week, weeks of the month, months of the quarter/year, or N trailing periods).",
		InputSchema: mustSchema[UserBreakdownInput](),
	}, s.handleUserBreakdown)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "team_rollup",
		Description: "Merge member summaries into a team or system rollup with ranked members. Fails rather than omitting a member whose data cannot be read.",
		InputSchema: mustSchema[RollupInput](),
	}, s.handleTeamRollup)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "leaderboard",
		Description: "Top members of the caller's team or the whole organisation, ranked by videos, then average productivity.",
		InputSchema: mustSchema[LeaderboardInput](),
	}, s.handleLeaderboard)
}
