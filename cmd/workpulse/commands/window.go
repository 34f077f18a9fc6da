package commands

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"workpulse/internal/metrics"
)

var (
	windowPeriod   string
	windowStart    string
	windowEnd      string
	windowBuckets  bool
	windowTrailing int
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Print the window (and optionally buckets) a period resolves to right now",
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := metrics.ParsePeriod(windowPeriod)
		if err != nil {
			return err
		}
		rng, err := metrics.ParseRange(windowStart, windowEnd, time.UTC)
		if err != nil {
			return err
		}
		now := time.Now()
		w, err := metrics.ResolveWindow(p, now, rng)
		if err != nil {
			return err
		}

		out := map[string]any{"window": w, "previous": w.Previous()}
		switch {
		case windowTrailing > 0:
			buckets, err := metrics.Trailing(w.Period, windowTrailing, now)
			if err != nil {
				return err
			}
			out["buckets"] = buckets
		case windowBuckets:
			buckets, err := metrics.Breakdown(w.Period, now)
			if err != nil {
				return err
			}
			out["buckets"] = buckets
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	windowCmd.Flags().StringVarP(&windowPeriod, "period", "p", "week", "day, week, month, quarter, year or custom")
	windowCmd.Flags().StringVar(&windowStart, "start", "", "explicit range start (YYYY-MM-DD or RFC3339)")
	windowCmd.Flags().StringVar(&windowEnd, "end", "", "explicit range end, exclusive")
	windowCmd.Flags().BoolVar(&windowBuckets, "buckets", false, "include the breakdown buckets")
	windowCmd.Flags().IntVar(&windowTrailing, "trailing", 0, "include N trailing buckets of the period instead")
}
