package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"workpulse/cmd/mockgen/engine"
)

func main() {
	scenario := flag.String("scenario", "steady", "Scenario to generate: steady, slump, burnout")
	teams := flag.Int("teams", 2, "Number of teams")
	teamSize := flag.Int("team-size", 4, "Editors per team")
	days := flag.Int("days", 90, "Days of history to generate")
	seed := flag.Int64("seed", 1, "Random seed")
	outDir := flag.String("out", "./data/entries", "Output directory for the roster and entry log")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario: *scenario,
		Teams:    *teams,
		TeamSize: *teamSize,
		Days:     *days,
		Seed:     *seed,
		Now:      time.Now(),
	}

	fmt.Printf("Generating scenario '%s' (%d teams x %d editors, %d days) to %s...\n", cfg.Scenario, cfg.Teams, cfg.TeamSize, cfg.Days, *outDir)

	roster, entries := engine.Generate(cfg)
	if err := engine.Save(context.Background(), *outDir, roster, entries); err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Done: %d users, %d entries.\n", len(roster.Users), len(entries))
}
