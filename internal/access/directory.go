package access

import "context"

// User is a directory record.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Role   Role   `json:"role"`
	TeamID string `json:"teamId,omitempty"`
	Active bool   `json:"active"`
}

// Team is a directory record. MemberIDs is informational; membership is
// derived from the users' TeamID.
type Team struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	ManagerID string   `json:"managerId,omitempty"`
	MemberIDs []string `json:"memberIds,omitempty"`
}

// Directory is the user/team lookup the resolver depends on.
// Lookups of unknown IDs must wrap ErrUserNotFound or ErrTeamNotFound.
type Directory interface {
	User(ctx context.Context, id string) (User, error)
	ActiveUsers(ctx context.Context) ([]User, error)
	Team(ctx context.Context, id string) (Team, error)
	TeamManagedBy(ctx context.Context, managerID string) (Team, error)
	TeamMembers(ctx context.Context, teamID string) ([]User, error)
}

// Roster is the serialisable form of a directory.
type Roster struct {
	Users []User `json:"users"`
	Teams []Team `json:"teams"`
}
