package engine

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"workpulse/internal/access"
	"workpulse/internal/entrylog"
	"workpulse/internal/metrics"
)

type GeneratorConfig struct {
	Scenario string // "steady", "slump" or "burnout"
	Teams    int
	TeamSize int
	Days     int
	Seed     int64
	Now      time.Time
}

var moods = []metrics.Mood{metrics.MoodExcellent, metrics.MoodGood, metrics.MoodAverage, metrics.MoodPoor}

var challenges = []string{"render queue", "missing footage", "late feedback", "audio cleanup"}

// Generate builds a roster (one admin, a manager per team, editors) and a
// weekday entry history ending yesterday.
func Generate(cfg GeneratorConfig) (access.Roster, []metrics.Entry) {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.Teams <= 0 {
		cfg.Teams = 2
	}
	if cfg.TeamSize <= 0 {
		cfg.TeamSize = 4
	}
	if cfg.Days <= 0 {
		cfg.Days = 90
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	roster := access.Roster{
		Users: []access.User{{ID: "admin", Name: "Admin", Role: access.RoleAdmin, Active: true}},
	}
	var editors []access.User
	for t := 1; t <= cfg.Teams; t++ {
		teamID := fmt.Sprintf("team-%d", t)
		mgr := access.User{ID: fmt.Sprintf("mgr-%d", t), Name: fmt.Sprintf("Manager %d", t), Role: access.RoleTeamManager, TeamID: teamID, Active: true}
		team := access.Team{ID: teamID, Name: fmt.Sprintf("Team %d", t), ManagerID: mgr.ID}
		roster.Users = append(roster.Users, mgr)

		for i := 1; i <= cfg.TeamSize; i++ {
			u := access.User{
				ID:     fmt.Sprintf("ed-%d-%d", t, i),
				Name:   fmt.Sprintf("Editor %d.%d", t, i),
				Role:   access.RoleEditor,
				TeamID: teamID,
				// Last editor of each team has left.
				Active: i < cfg.TeamSize || cfg.TeamSize == 1,
			}
			roster.Users = append(roster.Users, u)
			team.MemberIDs = append(team.MemberIDs, u.ID)
			editors = append(editors, u)
		}
		roster.Teams = append(roster.Teams, team)
	}

	today := time.Date(cfg.Now.Year(), cfg.Now.Month(), cfg.Now.Day(), 0, 0, 0, 0, time.UTC)
	var entries []metrics.Entry
	for _, u := range editors {
		for d := cfg.Days; d >= 1; d-- {
			date := today.AddDate(0, 0, -d)
			if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
				continue
			}
			progress := 1 - float64(d)/float64(cfg.Days)
			entries = append(entries, sample(rng, cfg.Scenario, u.ID, date, progress))
		}
	}
	return roster, entries
}

// sample draws one day. progress runs from 0 (oldest) to 1 (yesterday).
func sample(rng *rand.Rand, scenario, userID string, date time.Time, progress float64) metrics.Entry {
	e := metrics.Entry{
		UserID:       userID,
		Date:         date,
		ShiftStart:   fmt.Sprintf("%02d:00", 8+rng.Intn(3)),
		TargetVideos: metrics.DefaultTargetVideos,
	}
	e.ShiftEnd = fmt.Sprintf("%02d:00", 16+rng.Intn(3))

	if rng.Float64() < 0.05 {
		e.VideoCategory = metrics.CategoryLeave
		e.ShiftStart, e.ShiftEnd = "", ""
		return e
	}
	if rng.Float64() < 0.15 {
		e.VideoCategory = metrics.CategoryMarketing
		e.VideosCompleted = 0.25 * float64(1+rng.Intn(2))
	} else {
		e.VideoCategory = metrics.CategoryCourse
		mean := 3.0
		switch scenario {
		case "slump":
			mean = 3.5 - 2.0*progress
		case "burnout":
			mean = 3.0 + 1.5*math.Sin(progress*math.Pi)
		}
		e.VideosCompleted = math.Max(0, math.Round((mean+rng.NormFloat64()*0.75)*2)/2)
	}

	energy := 4
	switch scenario {
	case "slump":
		energy = 4 - int(progress*2)
	case "burnout":
		energy = 5 - int(progress*4)
	}
	e.EnergyLevel = max(1, min(5, energy+rng.Intn(3)-1))
	e.Mood = moods[max(0, min(len(moods)-1, 4-e.EnergyLevel+rng.Intn(2)))]
	if e.EnergyLevel <= 2 {
		e.Challenges = []string{challenges[rng.Intn(len(challenges))]}
	}
	if e.VideosCompleted >= 4 {
		e.Achievements = []string{"beat target"}
	}
	return e
}

// Save writes the roster and entries to outDir in the entry log layout.
func Save(ctx context.Context, outDir string, roster access.Roster, entries []metrics.Entry) error {
	store := entrylog.NewStore()
	if err := store.PutRoster(ctx, roster); err != nil {
		return err
	}
	if _, err := store.UpsertEntries(ctx, entries); err != nil {
		return fmt.Errorf("generated entries are invalid: %w", err)
	}
	return store.Save(outDir)
}
