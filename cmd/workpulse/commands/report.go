package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"workpulse/internal/access"
	"workpulse/internal/metrics"
	"workpulse/internal/visuals"
)

const (
	formatMarkdown = "md"
	formatJSON     = "json"
	formatHTML     = "html"
)

type reportFlags struct {
	caller    string
	user      string
	scope     string
	team      string
	period    string
	start     string
	end       string
	trailing  int
	breakdown bool
	format    string
	out       string
	open      bool
}

var rf reportFlags

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a report to stdout or a file",
}

var reportUserCmd = &cobra.Command{
	Use:   "user",
	Short: "Report on one person (defaults to the caller)",
	RunE:  runReportUser,
}

var reportTeamCmd = &cobra.Command{
	Use:   "team",
	Short: "Roll up a team or the whole organisation",
	RunE:  runReportTeam,
}

func init() {
	for _, c := range []*cobra.Command{reportUserCmd, reportTeamCmd} {
		f := c.Flags()
		f.StringVar(&rf.caller, "caller", "", "ID of the user asking (required)")
		f.StringVarP(&rf.period, "period", "p", "week", "day, week, month, quarter, year or custom")
		f.StringVar(&rf.start, "start", "", "explicit range start (YYYY-MM-DD or RFC3339)")
		f.StringVar(&rf.end, "end", "", "explicit range end, exclusive")
		f.StringVarP(&rf.format, "format", "f", formatMarkdown, "output format: md, json or html")
		f.StringVarP(&rf.out, "out", "o", "", "write to this file instead of stdout")
		f.BoolVar(&rf.open, "open", false, "open the written report in the browser")
		_ = c.MarkFlagRequired("caller")
	}
	reportUserCmd.Flags().StringVar(&rf.user, "user", "", "subject of the report (default: the caller)")
	reportUserCmd.Flags().BoolVar(&rf.breakdown, "breakdown", false, "report per bucket of the period instead of one window")
	reportUserCmd.Flags().IntVar(&rf.trailing, "trailing", 0, "with --breakdown, use N trailing buckets of the period")
	reportTeamCmd.Flags().StringVar(&rf.scope, "scope", "", "self, team or system (default: widest allowed)")
	reportTeamCmd.Flags().StringVar(&rf.team, "team", "", "team ID (admins only)")

	reportCmd.AddCommand(reportUserCmd, reportTeamCmd)
}

func runReportUser(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()
	engine, err := newEngine(b, cfg)
	if err != nil {
		return err
	}

	scope, err := engine.ResolveScope(ctx, access.Request{CallerID: rf.caller})
	if err != nil {
		return err
	}
	subject := rf.user
	if subject == "" {
		subject = rf.caller
	}

	if rf.breakdown {
		p, err := metrics.ParsePeriod(rf.period)
		if err != nil {
			return err
		}
		buckets, err := engine.Buckets(p, rf.trailing)
		if err != nil {
			return err
		}
		r, err := engine.Breakdown(ctx, scope, subject, buckets)
		if err != nil {
			return err
		}
		return emit("Breakdown "+subject, r, visuals.RenderBreakdown(r, cfg.Charts.EnableMermaid))
	}

	window, err := resolveWindow(engine.ResolveWindow)
	if err != nil {
		return err
	}
	r, err := engine.UserReport(ctx, scope, subject, window)
	if err != nil {
		return err
	}
	return emit("Report "+subject+" "+window.Label, r, visuals.RenderUserReport(r, cfg.Charts.EnableMermaid))
}

func runReportTeam(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()
	engine, err := newEngine(b, cfg)
	if err != nil {
		return err
	}

	scope, err := engine.ResolveScope(ctx, access.Request{
		CallerID: rf.caller,
		Scope:    metrics.ScopeKind(rf.scope),
		TeamID:   rf.team,
	})
	if err != nil {
		return err
	}
	window, err := resolveWindow(engine.ResolveWindow)
	if err != nil {
		return err
	}
	r, err := engine.Rollup(ctx, scope, window)
	if err != nil {
		return err
	}
	return emit("Rollup "+window.Label, r, visuals.RenderRollupReport(r, cfg.Charts.EnableMermaid))
}

func resolveWindow(resolve func(metrics.Period, *metrics.Range) (metrics.Window, error)) (metrics.Window, error) {
	p, err := metrics.ParsePeriod(rf.period)
	if err != nil {
		return metrics.Window{}, err
	}
	rng, err := metrics.ParseRange(rf.start, rf.end, time.UTC)
	if err != nil {
		return metrics.Window{}, err
	}
	return resolve(p, rng)
}

// emit writes the report in the requested format and optionally opens it.
func emit(title string, data any, md string) error {
	var body []byte
	switch rf.format {
	case formatJSON:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return err
		}
		body = append(out, '\n')
	case formatHTML:
		page, err := visuals.RenderHTML(title, md)
		if err != nil {
			return err
		}
		body = []byte(page)
	case formatMarkdown:
		body = []byte(md)
	default:
		return fmt.Errorf("unknown format %q (want md, json or html)", rf.format)
	}

	path := rf.out
	if path == "" && rf.open {
		f, err := os.CreateTemp("", "workpulse-*."+rf.format)
		if err != nil {
			return err
		}
		path = f.Name()
		_ = f.Close()
	}
	if path == "" {
		_, err := os.Stdout.Write(body)
		return err
	}

	if err := os.WriteFile(path, body, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	log.Info().Str("path", path).Str("format", rf.format).Msg("Report written")

	if rf.open {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		browser.Stdout = io.Discard
		if err := browser.OpenFile(abs); err != nil {
			log.Warn().Err(err).Str("path", abs).Msg("Failed to open report in browser")
		}
	}
	return nil
}
