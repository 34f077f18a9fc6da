package access

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"workpulse/internal/metrics"
)

// Role is the caller's organisational role.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleTeamManager Role = "team_manager"
	RoleEditor      Role = "editor"
	RoleViewer      Role = "viewer"
)

// ParseRole normalizes a role token. Unknown roles are returned as-is and
// permit nothing.
func ParseRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

var (
	// ErrScopeNotPermitted is an authorization failure: the requested scope
	// exceeds what the caller's role allows. It is never downgraded.
	ErrScopeNotPermitted = errors.New("scope not permitted")
	ErrNoManagedTeam     = errors.New("caller does not manage a team")
	ErrUserNotFound      = errors.New("user not found")
	ErrTeamNotFound      = errors.New("team not found")
	ErrInactiveUser      = errors.New("user is inactive")
)

// Request describes what the caller asks to see. An empty Scope means the
// widest scope the caller's role allows.
type Request struct {
	CallerID string            `json:"callerId"`
	Scope    metrics.ScopeKind `json:"scope,omitempty"`
	TeamID   string            `json:"teamId,omitempty"`
}

// AccessScope is the resolved, checked-once boundary threaded through every
// aggregation call.
type AccessScope struct {
	Kind       metrics.ScopeKind `json:"kind"`
	CallerID   string            `json:"callerId"`
	CallerRole Role              `json:"callerRole"`
	TeamID     string            `json:"teamId,omitempty"`
	Members    []metrics.Member  `json:"members"`
}

// UserIDs returns the member IDs in scope.
func (s AccessScope) UserIDs() []string {
	ids := make([]string, len(s.Members))
	for i, m := range s.Members {
		ids[i] = m.UserID
	}
	return ids
}

// Allows reports whether userID is inside the scope.
func (s AccessScope) Allows(userID string) bool {
	return slices.ContainsFunc(s.Members, func(m metrics.Member) bool {
		return m.UserID == userID
	})
}

// Rollup converts the scope into the aggregator's input.
func (s AccessScope) Rollup() metrics.RollupScope {
	return metrics.RollupScope{
		Kind:    s.Kind,
		TeamID:  s.TeamID,
		Members: slices.Clone(s.Members),
	}
}

// AllowedKinds lists the scope kinds a role may request, widest first.
func AllowedKinds(role Role) []metrics.ScopeKind {
	switch role {
	case RoleAdmin:
		return []metrics.ScopeKind{metrics.ScopeSystem, metrics.ScopeTeam, metrics.ScopeSelf}
	case RoleTeamManager:
		return []metrics.ScopeKind{metrics.ScopeTeam, metrics.ScopeSelf}
	case RoleEditor, RoleViewer:
		return []metrics.ScopeKind{metrics.ScopeSelf}
	default:
		return nil
	}
}

// Permits reports whether role may request kind.
func Permits(role Role, kind metrics.ScopeKind) bool {
	return slices.Contains(AllowedKinds(role), kind)
}

// ResolveScope maps the caller's role and team membership to the set of users
// they may aggregate over.
func ResolveScope(ctx context.Context, dir Directory, req Request) (AccessScope, error) {
	caller, err := dir.User(ctx, req.CallerID)
	if err != nil {
		return AccessScope{}, fmt.Errorf("resolve caller %q: %w", req.CallerID, err)
	}
	if !caller.Active {
		return AccessScope{}, fmt.Errorf("%w: %s", ErrInactiveUser, caller.ID)
	}

	kinds := AllowedKinds(caller.Role)
	kind := req.Scope
	if kind == "" && len(kinds) > 0 {
		kind = kinds[0]
	}
	if !slices.Contains(kinds, kind) {
		return AccessScope{}, fmt.Errorf("%w: role %q cannot request %q scope", ErrScopeNotPermitted, caller.Role, kind)
	}

	scope := AccessScope{Kind: kind, CallerID: caller.ID, CallerRole: caller.Role}
	switch kind {
	case metrics.ScopeSelf:
		scope.TeamID = caller.TeamID
		scope.Members = []metrics.Member{member(caller)}

	case metrics.ScopeTeam:
		team, err := teamFor(ctx, dir, caller, req.TeamID)
		if err != nil {
			return AccessScope{}, err
		}
		users, err := dir.TeamMembers(ctx, team.ID)
		if err != nil {
			return AccessScope{}, fmt.Errorf("team %s members: %w", team.ID, err)
		}
		if team.ManagerID != "" && !slices.ContainsFunc(users, func(u User) bool { return u.ID == team.ManagerID }) {
			// Managers count as members of their own team even when filed elsewhere.
			if mgr, err := dir.User(ctx, team.ManagerID); err == nil && mgr.Active {
				mgr.TeamID = team.ID
				users = append(users, mgr)
			}
		}
		scope.TeamID = team.ID
		scope.Members = members(users)

	case metrics.ScopeSystem:
		users, err := dir.ActiveUsers(ctx)
		if err != nil {
			return AccessScope{}, fmt.Errorf("active users: %w", err)
		}
		scope.Members = members(users)
	}
	return scope, nil
}

func teamFor(ctx context.Context, dir Directory, caller User, requested string) (Team, error) {
	if caller.Role == RoleAdmin {
		if requested == "" {
			requested = caller.TeamID
		}
		if requested == "" {
			return Team{}, fmt.Errorf("%w: team scope needs a team id", ErrTeamNotFound)
		}
		return dir.Team(ctx, requested)
	}

	team, err := dir.TeamManagedBy(ctx, caller.ID)
	if errors.Is(err, ErrTeamNotFound) {
		return Team{}, fmt.Errorf("%w: %s", ErrNoManagedTeam, caller.ID)
	}
	if err != nil {
		return Team{}, err
	}
	if requested != "" && requested != team.ID {
		return Team{}, fmt.Errorf("%w: %s manages %s, not %s", ErrScopeNotPermitted, caller.ID, team.ID, requested)
	}
	return team, nil
}

func member(u User) metrics.Member {
	return metrics.Member{UserID: u.ID, Name: u.Name, TeamID: u.TeamID}
}

// members keeps active users only, ordered by ID.
func members(users []User) []metrics.Member {
	out := make([]metrics.Member, 0, len(users))
	for _, u := range users {
		if !u.Active {
			continue
		}
		out = append(out, member(u))
	}
	slices.SortFunc(out, func(a, b metrics.Member) int { return strings.Compare(a.UserID, b.UserID) })
	return slices.CompactFunc(out, func(a, b metrics.Member) bool { return a.UserID == b.UserID })
}
