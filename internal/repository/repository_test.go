package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"workpulse/internal/access"
	"workpulse/internal/metrics"
	"workpulse/internal/retry"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestStore_UpsertAndQueryEntries(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	entries := []metrics.Entry{
		{UserID: "u1", Date: day(16), VideosCompleted: 0.5, VideoCategory: metrics.CategoryMarketing, Challenges: []string{"audio"}},
		{UserID: "u1", Date: day(15), VideosCompleted: 2, VideoCategory: metrics.CategoryCourse, ShiftStart: "09:00", ShiftEnd: "17:00", Mood: metrics.MoodGood, EnergyLevel: 4},
		{UserID: "u2", Date: day(15), VideosCompleted: 1, VideoCategory: metrics.CategoryCourse},
	}
	if n, err := s.UpsertEntries(ctx, entries); err != nil || n != 3 {
		t.Fatalf("UpsertEntries() = %d, %v", n, err)
	}

	// Same (user, day) replaces the row.
	if _, err := s.UpsertEntries(ctx, []metrics.Entry{
		{UserID: "u1", Date: day(15).Add(9 * time.Hour), VideosCompleted: 3, VideoCategory: metrics.CategoryCourse},
	}); err != nil {
		t.Fatalf("UpsertEntries() error = %v", err)
	}
	if n, _ := s.CountEntries(ctx); n != 3 {
		t.Errorf("Expected 3 stored entries, got %d", n)
	}

	got, err := s.EntriesForUser(ctx, "u1", day(15), day(17))
	if err != nil {
		t.Fatalf("EntriesForUser() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(got))
	}
	if got[0].DayKey() != "2024-01-15" || got[0].VideosCompleted != 3 {
		t.Errorf("Expected replaced entry on 2024-01-15 with 3 videos, got %+v", got[0])
	}
	if got[1].VideoCategory != metrics.CategoryMarketing || len(got[1].Challenges) != 1 {
		t.Errorf("Expected marketing entry with challenges, got %+v", got[1])
	}

	// Half-open: the 17th is excluded, a partial day is included.
	got, _ = s.EntriesForUser(ctx, "u1", day(16), day(16).Add(2*time.Hour))
	if len(got) != 1 {
		t.Errorf("Expected the partial day to be included, got %d entries", len(got))
	}
}

func TestStore_RejectsInvalidEntries(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.UpsertEntries(ctx, []metrics.Entry{
		{UserID: "u1", Date: day(15), VideosCompleted: 1, VideoCategory: metrics.CategoryLeave},
	})
	if !errors.Is(err, metrics.ErrInvalidCategoryInput) {
		t.Errorf("Expected ErrInvalidCategoryInput, got %v", err)
	}
	if n, _ := s.CountEntries(ctx); n != 0 {
		t.Errorf("Expected no rows, got %d", n)
	}
}

func TestStore_Directory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	roster := access.Roster{
		Users: []access.User{
			{ID: "boss", Role: access.RoleAdmin, Active: true},
			{ID: "m1", Role: access.RoleTeamManager, TeamID: "t1", Active: true},
			{ID: "e1", Role: access.RoleEditor, TeamID: "t1", Active: true},
			{ID: "e2", Role: access.RoleEditor, TeamID: "t1", Active: false},
		},
		Teams: []access.Team{{ID: "t1", Name: "Course", ManagerID: "m1", MemberIDs: []string{"m1", "e1", "e2"}}},
	}
	if err := s.PutRoster(ctx, roster); err != nil {
		t.Fatalf("PutRoster() error = %v", err)
	}
	// Upserting again deactivates e1.
	roster.Users[2].Active = false
	if err := s.PutRoster(ctx, roster); err != nil {
		t.Fatalf("PutRoster() error = %v", err)
	}

	active, err := s.ActiveUsers(ctx)
	if err != nil {
		t.Fatalf("ActiveUsers() error = %v", err)
	}
	if len(active) != 2 {
		t.Errorf("Expected 2 active users, got %+v", active)
	}
	if _, err := s.User(ctx, "ghost"); !errors.Is(err, access.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
	team, err := s.TeamManagedBy(ctx, "m1")
	if err != nil || team.ID != "t1" || len(team.MemberIDs) != 3 {
		t.Errorf("TeamManagedBy() = %+v, %v", team, err)
	}
	if _, err := s.TeamMembers(ctx, "t9"); !errors.Is(err, access.ErrTeamNotFound) {
		t.Errorf("Expected ErrTeamNotFound, got %v", err)
	}

	scope, err := access.ResolveScope(ctx, s, access.Request{CallerID: "m1"})
	if err != nil {
		t.Fatalf("ResolveScope() error = %v", err)
	}
	if ids := scope.UserIDs(); len(ids) != 1 || ids[0] != "m1" {
		t.Errorf("Expected only the manager to remain active, got %v", ids)
	}
}

func TestOpen_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "workpulse.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()
	if _, err := s.UpsertEntries(context.Background(), []metrics.Entry{
		{UserID: "u1", Date: day(15), VideosCompleted: 1, VideoCategory: metrics.CategoryCourse},
	}); err != nil {
		t.Fatalf("UpsertEntries() error = %v", err)
	}
}

func TestClassify(t *testing.T) {
	if !retry.IsTransient(classify(errors.New("database is locked (5) (SQLITE_BUSY)"))) {
		t.Error("Expected lock errors to be transient")
	}
	if retry.IsTransient(classify(errors.New("no such table: entries"))) {
		t.Error("Expected schema errors to be permanent")
	}
	if classify(nil) != nil {
		t.Error("Expected nil to stay nil")
	}
}
