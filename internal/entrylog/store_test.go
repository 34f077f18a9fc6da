package entrylog

import (
	"context"
	"errors"
	"testing"
	"time"

	"workpulse/internal/access"
	"workpulse/internal/metrics"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func entry(user string, d int, videos float64) metrics.Entry {
	return metrics.Entry{UserID: user, Date: day(d), VideosCompleted: videos, VideoCategory: metrics.CategoryCourse, TargetVideos: 3}
}

func TestStore_UpsertReplacesSameDay(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	withClock := entry("u1", 16, 1)
	withClock.Date = withClock.Date.Add(15 * time.Hour)
	if _, err := s.UpsertEntries(ctx, []metrics.Entry{entry("u1", 17, 2), withClock, entry("u1", 15, 3)}); err != nil {
		t.Fatalf("UpsertEntries() error = %v", err)
	}
	if _, err := s.UpsertEntries(ctx, []metrics.Entry{entry("u1", 16, 2.5)}); err != nil {
		t.Fatalf("UpsertEntries() error = %v", err)
	}

	if s.Count("u1") != 3 {
		t.Fatalf("Expected 3 entries after same-day upsert, got %d", s.Count("u1"))
	}
	got, _ := s.EntriesForUser(ctx, "u1", day(1), day(31))
	wantDays := []string{"2024-01-15", "2024-01-16", "2024-01-17"}
	for i, want := range wantDays {
		if got[i].DayKey() != want {
			t.Errorf("Expected entry %d on %s, got %s", i, want, got[i].DayKey())
		}
	}
	if got[1].VideosCompleted != 2.5 {
		t.Errorf("Expected replaced entry with 2.5 videos, got %v", got[1].VideosCompleted)
	}
}

func TestStore_RejectsInvalidBatch(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	bad := metrics.Entry{UserID: "u1", Date: day(16), VideosCompleted: 2, VideoCategory: metrics.CategoryMarketing}
	_, err := s.UpsertEntries(ctx, []metrics.Entry{entry("u1", 15, 3), bad})
	if !errors.Is(err, metrics.ErrInvalidCategoryInput) {
		t.Fatalf("Expected ErrInvalidCategoryInput, got %v", err)
	}
	if s.Count("u1") != 0 {
		t.Errorf("Expected nothing stored from an invalid batch, got %d", s.Count("u1"))
	}

	_, err = s.UpsertEntries(ctx, []metrics.Entry{{Date: day(15), VideoCategory: metrics.CategoryCourse}})
	if err == nil {
		t.Error("Expected an error for an entry without a user")
	}
}

func TestStore_EntriesForUserRange(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, _ = s.UpsertEntries(ctx, []metrics.Entry{entry("u1", 14, 1), entry("u1", 15, 1), entry("u1", 17, 1), entry("u2", 15, 1)})

	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"HalfOpen", day(15), day(17), 1},
		{"PartialEndDayIncluded", day(15), day(17).Add(10 * time.Hour), 2},
		{"Empty", day(1), day(10), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.EntriesForUser(ctx, "u1", tt.start, tt.end)
			if err != nil {
				t.Fatalf("EntriesForUser() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("Expected %d entries, got %d", tt.want, len(got))
			}
		})
	}
}

func TestStore_Directory(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	err := s.PutRoster(ctx, access.Roster{
		Users: []access.User{
			{ID: "m", Role: access.RoleTeamManager, TeamID: "t1", Active: true},
			{ID: "a", Role: access.RoleEditor, TeamID: "t1", Active: true},
			{ID: "b", Role: access.RoleViewer, TeamID: "t2", Active: false},
		},
		Teams: []access.Team{{ID: "t1", ManagerID: "m"}, {ID: "t2"}},
	})
	if err != nil {
		t.Fatalf("PutRoster() error = %v", err)
	}

	if _, err := s.User(ctx, "zz"); !errors.Is(err, access.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
	if team, err := s.TeamManagedBy(ctx, "m"); err != nil || team.ID != "t1" {
		t.Errorf("TeamManagedBy() = %+v, %v", team, err)
	}
	if _, err := s.TeamManagedBy(ctx, "a"); !errors.Is(err, access.ErrTeamNotFound) {
		t.Errorf("Expected ErrTeamNotFound, got %v", err)
	}
	active, _ := s.ActiveUsers(ctx)
	if len(active) != 2 || active[0].ID != "a" {
		t.Errorf("Unexpected active users: %+v", active)
	}

	scope, err := access.ResolveScope(ctx, s, access.Request{CallerID: "m"})
	if err != nil {
		t.Fatalf("ResolveScope() error = %v", err)
	}
	if got := scope.UserIDs(); len(got) != 2 || got[0] != "a" || got[1] != "m" {
		t.Errorf("Expected team scope [a m], got %v", got)
	}
}
