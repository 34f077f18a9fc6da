package entrylog

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"workpulse/internal/access"
	"workpulse/internal/metrics"
)

// Store is a thread-safe, in-memory entry log partitioned by user, plus the
// user/team directory. Entries are kept in date order with at most one entry
// per user and calendar day.
type Store struct {
	mu      sync.RWMutex
	entries map[string][]metrics.Entry
	users   map[string]access.User
	teams   map[string]access.Team
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string][]metrics.Entry),
		users:   make(map[string]access.User),
		teams:   make(map[string]access.Team),
	}
}

// normalize strips the time of day so entries compare by calendar date only.
func normalize(e metrics.Entry) metrics.Entry {
	e.Date = e.Day(time.UTC)
	return e
}

// UpsertEntries validates and stores entries. An entry for an existing
// (user, day) replaces it. Nothing is stored when any entry is invalid.
func (s *Store) UpsertEntries(_ context.Context, entries []metrics.Entry) (int, error) {
	for _, e := range entries {
		if strings.TrimSpace(e.UserID) == "" {
			return 0, fmt.Errorf("%w: entry on %s has no user", metrics.ErrInvalidCategoryInput, e.DayKey())
		}
		if err := metrics.ValidateEntry(e); err != nil {
			return 0, fmt.Errorf("entry %s/%s: %w", e.UserID, e.DayKey(), err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	touched := make(map[string]bool)
	for _, e := range entries {
		e = normalize(e)
		list := s.entries[e.UserID]
		if i := slices.IndexFunc(list, func(x metrics.Entry) bool { return x.Date.Equal(e.Date) }); i >= 0 {
			list[i] = e
		} else {
			list = append(list, e)
		}
		s.entries[e.UserID] = list
		touched[e.UserID] = true
	}
	for userID := range touched {
		slices.SortFunc(s.entries[userID], func(a, b metrics.Entry) int { return a.Date.Compare(b.Date) })
	}
	return len(entries), nil
}

// EntriesForUser returns a copy of the user's entries whose calendar day
// touches [start, end).
func (s *Store) EntriesForUser(_ context.Context, userID string, start, end time.Time) ([]metrics.Entry, error) {
	from, until := metrics.DayBounds(start, end)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []metrics.Entry
	for _, e := range s.entries[userID] {
		day := e.Day(from.Location())
		if !day.Before(from) && day.Before(until) {
			out = append(out, e)
		}
	}
	return out, nil
}

// AllEntries returns every stored entry ordered by user and date.
func (s *Store) AllEntries() []metrics.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]string, 0, len(s.entries))
	for id := range s.entries {
		users = append(users, id)
	}
	slices.Sort(users)

	var out []metrics.Entry
	for _, id := range users {
		out = append(out, s.entries[id]...)
	}
	return out
}

// Count returns the number of entries stored for a user.
func (s *Store) Count(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries[userID])
}

// PutRoster adds or replaces users and teams.
func (s *Store) PutRoster(_ context.Context, roster access.Roster) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range roster.Users {
		if u.ID == "" {
			return fmt.Errorf("roster user without id")
		}
		s.users[u.ID] = u
	}
	for _, t := range roster.Teams {
		if t.ID == "" {
			return fmt.Errorf("roster team without id")
		}
		s.teams[t.ID] = t
	}
	return nil
}

// Roster returns a sorted snapshot of the directory.
func (s *Store) Roster() access.Roster {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var r access.Roster
	for _, u := range s.users {
		r.Users = append(r.Users, u)
	}
	for _, t := range s.teams {
		r.Teams = append(r.Teams, t)
	}
	slices.SortFunc(r.Users, func(a, b access.User) int { return strings.Compare(a.ID, b.ID) })
	slices.SortFunc(r.Teams, func(a, b access.Team) int { return strings.Compare(a.ID, b.ID) })
	return r
}

func (s *Store) User(_ context.Context, id string) (access.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return access.User{}, fmt.Errorf("%w: %s", access.ErrUserNotFound, id)
	}
	return u, nil
}

func (s *Store) ActiveUsers(_ context.Context) ([]access.User, error) {
	return s.filterUsers(func(u access.User) bool { return u.Active }), nil
}

func (s *Store) Team(_ context.Context, id string) (access.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[id]
	if !ok {
		return access.Team{}, fmt.Errorf("%w: %s", access.ErrTeamNotFound, id)
	}
	return t, nil
}

// TeamManagedBy returns the team led by managerID, lowest team ID first when
// a manager is recorded on several teams.
func (s *Store) TeamManagedBy(_ context.Context, managerID string) (access.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *access.Team
	for _, t := range s.teams {
		if t.ManagerID != managerID {
			continue
		}
		if found == nil || t.ID < found.ID {
			t := t
			found = &t
		}
	}
	if found == nil {
		return access.Team{}, fmt.Errorf("%w: managed by %s", access.ErrTeamNotFound, managerID)
	}
	return *found, nil
}

func (s *Store) TeamMembers(ctx context.Context, teamID string) ([]access.User, error) {
	if _, err := s.Team(ctx, teamID); err != nil {
		return nil, err
	}
	return s.filterUsers(func(u access.User) bool { return u.TeamID == teamID }), nil
}

func (s *Store) filterUsers(keep func(access.User) bool) []access.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []access.User
	for _, u := range s.users {
		if keep(u) {
			out = append(out, u)
		}
	}
	slices.SortFunc(out, func(a, b access.User) int { return strings.Compare(a.ID, b.ID) })
	return out
}
