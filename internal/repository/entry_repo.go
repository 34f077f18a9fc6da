package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workpulse/internal/metrics"
)

var errMissingUser = errors.New("entry has no user")

// UpsertEntries validates and writes entries in one transaction. An entry for
// an existing (user, day) replaces it.
func (s *Store) UpsertEntries(ctx context.Context, entries []metrics.Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	records := make([]EntryRecord, 0, len(entries))
	for _, e := range entries {
		if e.UserID == "" {
			return 0, fmt.Errorf("%w: %s", errMissingUser, e.DayKey())
		}
		if err := metrics.ValidateEntry(e); err != nil {
			return 0, fmt.Errorf("entry %s/%s: %w", e.UserID, e.DayKey(), err)
		}
		records = append(records, toRecord(e))
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "day"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"shift_start", "shift_end", "videos_completed", "video_category", "target_videos",
				"mood", "energy_level", "challenges", "achievements", "total_hours", "updated_at",
			}),
		}).CreateInBatches(records, 200).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to upsert entries: %w", classify(err))
	}
	return len(records), nil
}

// EntriesForUser returns the user's entries whose calendar day touches
// [start, end), ordered by day.
func (s *Store) EntriesForUser(ctx context.Context, userID string, start, end time.Time) ([]metrics.Entry, error) {
	from, until := metrics.DayBounds(start, end)

	var records []EntryRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND day >= ? AND day < ?", userID, from.Format(dayLayout), until.Format(dayLayout)).
		Order("day ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for %s: %w", userID, classify(err))
	}

	out := make([]metrics.Entry, 0, len(records))
	for _, r := range records {
		e, err := r.toEntry()
		if err != nil {
			return nil, fmt.Errorf("entry %d has malformed day %q: %w", r.ID, r.Day, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// CountEntries returns the number of stored entries.
func (s *Store) CountEntries(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&EntryRecord{}).Count(&n).Error
	return n, classify(err)
}
