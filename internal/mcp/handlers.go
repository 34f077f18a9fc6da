package mcp

import (
	"context"
	"fmt"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"workpulse/internal/access"
	"workpulse/internal/metrics"
	"workpulse/internal/visuals"
)

const defaultLeaderboardLimit = 10

// WindowResponse is the result of resolve_window.
type WindowResponse struct {
	Window   metrics.Window   `json:"window"`
	Previous metrics.Window   `json:"previous"`
	Buckets  []metrics.Bucket `json:"buckets,omitempty"`
}

// resolveWindow parses a period token and optional explicit range against
// the engine clock.
func (s *Server) resolveWindow(period, start, end string) (metrics.Window, error) {
	p, err := metrics.ParsePeriod(period)
	if err != nil {
		return metrics.Window{}, err
	}
	rng, err := metrics.ParseRange(start, end, time.UTC)
	if err != nil {
		return metrics.Window{}, err
	}
	return s.engine.ResolveWindow(p, rng)
}

func (s *Server) scope(ctx context.Context, callerID, kind, teamID string) (access.AccessScope, error) {
	if callerID == "" {
		return access.AccessScope{}, fmt.Errorf("caller_id is required")
	}
	return s.engine.ResolveScope(ctx, access.Request{
		CallerID: callerID,
		Scope:    metrics.ScopeKind(kind),
		TeamID:   teamID,
	})
}

func (s *Server) handleResolveWindow(_ context.Context, _ *sdk.CallToolRequest, in ResolveWindowInput) (*sdk.CallToolResult, any, error) {
	w, err := s.resolveWindow(in.Period, in.Start, in.End)
	if err != nil {
		return nil, nil, err
	}
	res := WindowResponse{Window: w, Previous: w.Previous()}
	if in.Buckets || in.Trailing > 0 {
		buckets, err := s.engine.Buckets(w.Period, in.Trailing)
		if err != nil {
			return nil, nil, err
		}
		res.Buckets = buckets
	}
	return s.respond(res), nil, nil
}

func (s *Server) handleUserReport(ctx context.Context, _ *sdk.CallToolRequest, in UserReportInput) (*sdk.CallToolResult, any, error) {
	scope, err := s.scope(ctx, in.CallerID, "", "")
	if err != nil {
		return nil, nil, err
	}
	w, err := s.resolveWindow(in.Period, in.Start, in.End)
	if err != nil {
		return nil, nil, err
	}
	subject := in.UserID
	if subject == "" {
		subject = in.CallerID
	}

	r, err := s.engine.UserReport(ctx, scope, subject, w)
	if err != nil {
		return nil, nil, err
	}
	if in.Markdown {
		return text(visuals.RenderUserReport(r, s.charts)), nil, nil
	}
	return s.respond(r, visuals.GenerateMoodChart(r.Insights.MoodDistribution)), nil, nil
}

func (s *Server) handleUserBreakdown(ctx context.Context, _ *sdk.CallToolRequest, in UserBreakdownInput) (*sdk.CallToolResult, any, error) {
	scope, err := s.scope(ctx, in.CallerID, "", "")
	if err != nil {
		return nil, nil, err
	}
	p, err := metrics.ParsePeriod(in.Period)
	if err != nil {
		return nil, nil, err
	}
	buckets, err := s.engine.Buckets(p, in.Trailing)
	if err != nil {
		return nil, nil, err
	}
	subject := in.UserID
	if subject == "" {
		subject = in.CallerID
	}

	r, err := s.engine.Breakdown(ctx, scope, subject, buckets)
	if err != nil {
		return nil, nil, err
	}
	return s.respond(r, visuals.GenerateBreakdownChart(r)), nil, nil
}

func (s *Server) handleTeamRollup(ctx context.Context, _ *sdk.CallToolRequest, in RollupInput) (*sdk.CallToolResult, any, error) {
	scope, err := s.scope(ctx, in.CallerID, in.Scope, in.TeamID)
	if err != nil {
		return nil, nil, err
	}
	w, err := s.resolveWindow(in.Period, in.Start, in.End)
	if err != nil {
		return nil, nil, err
	}

	r, err := s.engine.Rollup(ctx, scope, w)
	if err != nil {
		return nil, nil, err
	}
	if in.Markdown {
		return text(visuals.RenderRollupReport(r, s.charts)), nil, nil
	}
	return s.respond(r, visuals.GenerateLeaderboardChart(r.Members), visuals.GenerateTeamChart(r.Teams)), nil, nil
}

func (s *Server) handleLeaderboard(ctx context.Context, _ *sdk.CallToolRequest, in LeaderboardInput) (*sdk.CallToolResult, any, error) {
	scope, err := s.scope(ctx, in.CallerID, in.Scope, in.TeamID)
	if err != nil {
		return nil, nil, err
	}
	w, err := s.resolveWindow(in.Period, in.Start, in.End)
	if err != nil {
		return nil, nil, err
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}

	ranked, err := s.engine.Leaderboard(ctx, scope, w, limit)
	if err != nil {
		return nil, nil, err
	}
	res := map[string]any{
		"window":  w,
		"scope":   scope.Kind,
		"members": ranked,
	}
	return s.respond(res, visuals.GenerateLeaderboardChart(ranked)), nil, nil
}

func text(s string) *sdk.CallToolResult {
	return &sdk.CallToolResult{Content: []sdk.Content{&sdk.TextContent{Text: s}}}
}
