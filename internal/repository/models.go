package repository

import (
	"time"

	"workpulse/internal/access"
	"workpulse/internal/metrics"
)

const dayLayout = "2006-01-02"

// EntryRecord is the persisted form of a metrics.Entry. Day is stored as
// YYYY-MM-DD so range queries compare calendar dates lexically.
type EntryRecord struct {
	ID              int64    `gorm:"primaryKey;autoIncrement"`
	UserID          string   `gorm:"size:64;not null;uniqueIndex:uniq_entry_user_day,priority:1"`
	Day             string   `gorm:"size:10;not null;index;uniqueIndex:uniq_entry_user_day,priority:2"`
	ShiftStart      string   `gorm:"size:5"`
	ShiftEnd        string   `gorm:"size:5"`
	VideosCompleted float64  `gorm:"not null"`
	VideoCategory   string   `gorm:"size:16;not null"`
	TargetVideos    int      `gorm:"default:0"`
	Mood            string   `gorm:"size:16"`
	EnergyLevel     int      `gorm:"default:0"`
	Challenges      []string `gorm:"serializer:json"`
	Achievements    []string `gorm:"serializer:json"`
	TotalHours      float64  `gorm:"default:0"`
	UpdatedAt       time.Time
}

func (EntryRecord) TableName() string { return "entries" }

func toRecord(e metrics.Entry) EntryRecord {
	return EntryRecord{
		UserID:          e.UserID,
		Day:             e.DayKey(),
		ShiftStart:      e.ShiftStart,
		ShiftEnd:        e.ShiftEnd,
		VideosCompleted: e.VideosCompleted,
		VideoCategory:   string(e.VideoCategory),
		TargetVideos:    e.TargetVideos,
		Mood:            string(e.Mood),
		EnergyLevel:     e.EnergyLevel,
		Challenges:      e.Challenges,
		Achievements:    e.Achievements,
		TotalHours:      e.TotalHours,
	}
}

func (r EntryRecord) toEntry() (metrics.Entry, error) {
	date, err := time.Parse(dayLayout, r.Day)
	if err != nil {
		return metrics.Entry{}, err
	}
	return metrics.Entry{
		UserID:          r.UserID,
		Date:            date,
		ShiftStart:      r.ShiftStart,
		ShiftEnd:        r.ShiftEnd,
		VideosCompleted: r.VideosCompleted,
		VideoCategory:   metrics.Category(r.VideoCategory),
		TargetVideos:    r.TargetVideos,
		Mood:            metrics.Mood(r.Mood),
		EnergyLevel:     r.EnergyLevel,
		Challenges:      r.Challenges,
		Achievements:    r.Achievements,
		TotalHours:      r.TotalHours,
	}, nil
}

type UserRecord struct {
	ID     string `gorm:"primaryKey;size:64"`
	Name   string `gorm:"size:200"`
	Email  string `gorm:"size:200"`
	Role   string `gorm:"size:32;not null"`
	TeamID string `gorm:"size:64;index"`
	Active bool   `gorm:"not null"`
}

func (UserRecord) TableName() string { return "users" }

func (r UserRecord) toUser() access.User {
	return access.User{ID: r.ID, Name: r.Name, Email: r.Email, Role: access.Role(r.Role), TeamID: r.TeamID, Active: r.Active}
}

type TeamRecord struct {
	ID        string   `gorm:"primaryKey;size:64"`
	Name      string   `gorm:"size:200"`
	ManagerID string   `gorm:"size:64;index"`
	MemberIDs []string `gorm:"serializer:json"`
}

func (TeamRecord) TableName() string { return "teams" }

func (r TeamRecord) toTeam() access.Team {
	return access.Team{ID: r.ID, Name: r.Name, ManagerID: r.ManagerID, MemberIDs: r.MemberIDs}
}
