package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workpulse/internal/access"
)

// PutRoster upserts users and teams.
func (s *Store) PutRoster(ctx context.Context, roster access.Roster) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range roster.Users {
			if u.ID == "" {
				return errors.New("roster user without id")
			}
			rec := UserRecord{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role), TeamID: u.TeamID, Active: u.Active}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error; err != nil {
				return classify(err)
			}
		}
		for _, t := range roster.Teams {
			if t.ID == "" {
				return errors.New("roster team without id")
			}
			rec := TeamRecord{ID: t.ID, Name: t.Name, ManagerID: t.ManagerID, MemberIDs: t.MemberIDs}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error; err != nil {
				return classify(err)
			}
		}
		return nil
	})
}

func (s *Store) User(ctx context.Context, id string) (access.User, error) {
	var rec UserRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return access.User{}, fmt.Errorf("%w: %s", access.ErrUserNotFound, id)
	}
	if err != nil {
		return access.User{}, fmt.Errorf("failed to query user %s: %w", id, classify(err))
	}
	return rec.toUser(), nil
}

func (s *Store) ActiveUsers(ctx context.Context) ([]access.User, error) {
	return s.findUsers(ctx, "active = ?", true)
}

func (s *Store) Team(ctx context.Context, id string) (access.Team, error) {
	return s.firstTeam(ctx, "id = ?", id)
}

// TeamManagedBy returns the lowest-ID team led by managerID.
func (s *Store) TeamManagedBy(ctx context.Context, managerID string) (access.Team, error) {
	return s.firstTeam(ctx, "manager_id = ?", managerID)
}

func (s *Store) TeamMembers(ctx context.Context, teamID string) ([]access.User, error) {
	if _, err := s.Team(ctx, teamID); err != nil {
		return nil, err
	}
	return s.findUsers(ctx, "team_id = ?", teamID)
}

// Roster returns the whole directory.
func (s *Store) Roster(ctx context.Context) (access.Roster, error) {
	users, err := s.findUsers(ctx, "1 = 1")
	if err != nil {
		return access.Roster{}, err
	}
	var teams []TeamRecord
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&teams).Error; err != nil {
		return access.Roster{}, fmt.Errorf("failed to query teams: %w", classify(err))
	}
	r := access.Roster{Users: users}
	for _, t := range teams {
		r.Teams = append(r.Teams, t.toTeam())
	}
	return r, nil
}

func (s *Store) firstTeam(ctx context.Context, query string, arg any) (access.Team, error) {
	var rec TeamRecord
	err := s.db.WithContext(ctx).Where(query, arg).Order("id ASC").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return access.Team{}, fmt.Errorf("%w: %v", access.ErrTeamNotFound, arg)
	}
	if err != nil {
		return access.Team{}, fmt.Errorf("failed to query team: %w", classify(err))
	}
	return rec.toTeam(), nil
}

func (s *Store) findUsers(ctx context.Context, query string, args ...any) ([]access.User, error) {
	var recs []UserRecord
	if err := s.db.WithContext(ctx).Where(query, args...).Order("id ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to query users: %w", classify(err))
	}
	out := make([]access.User, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.toUser())
	}
	return out, nil
}
