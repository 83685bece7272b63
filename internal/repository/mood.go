package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/moodlift/moodlift-backend/pkg/model"
)

// MoodRepository manages daily mood entries
type MoodRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewMoodRepository creates a new MoodRepository
func NewMoodRepository(db *pgxpool.Pool, logger *zap.Logger) *MoodRepository {
	return &MoodRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new mood entry
func (r *MoodRepository) Create(ctx context.Context, entry *model.MoodEntry) error {
	query := `
		INSERT INTO mood_entries (id, user_id, date, mood, notes, activity, sleep_hours, stress_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`

	_, err := r.db.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Date,
		entry.Mood,
		entry.Notes,
		entry.Activity,
		entry.SleepHours,
		entry.StressLevel,
	)

	if err != nil {
		r.logger.Error("failed to create mood entry", zap.Error(err), zap.String("mood_id", entry.ID))
		return fmt.Errorf("failed to create mood entry: %w", err)
	}

	return nil
}

// FindByID retrieves a mood entry by ID
func (r *MoodRepository) FindByID(ctx context.Context, moodID string) (*model.MoodEntry, error) {
	query := `
		SELECT id, user_id, date, mood, notes, activity, sleep_hours, stress_level, created_at, updated_at
		FROM mood_entries
		WHERE id = $1
	`

	var entry model.MoodEntry
	err := r.db.QueryRow(ctx, query, moodID).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Date,
		&entry.Mood,
		&entry.Notes,
		&entry.Activity,
		&entry.SleepHours,
		&entry.StressLevel,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get mood entry", zap.Error(err), zap.String("mood_id", moodID))
		return nil, fmt.Errorf("failed to get mood entry: %w", err)
	}

	return &entry, nil
}

// FindByUserAndDate retrieves the mood entry for a user on a given date
func (r *MoodRepository) FindByUserAndDate(ctx context.Context, userID, date string) (*model.MoodEntry, error) {
	query := `
		SELECT id, user_id, date, mood, notes, activity, sleep_hours, stress_level, created_at, updated_at
		FROM mood_entries
		WHERE user_id = $1 AND date = $2
	`

	var entry model.MoodEntry
	err := r.db.QueryRow(ctx, query, userID, date).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Date,
		&entry.Mood,
		&entry.Notes,
		&entry.Activity,
		&entry.SleepHours,
		&entry.StressLevel,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get mood entry by date", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to get mood entry by date: %w", err)
	}

	return &entry, nil
}

// ListByUser retrieves mood entries for a user, newest date first
func (r *MoodRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.MoodEntry, error) {
	query := `
		SELECT id, user_id, date, mood, notes, activity, sleep_hours, stress_level, created_at, updated_at
		FROM mood_entries
		WHERE user_id = $1
		ORDER BY date DESC
		OFFSET $2 LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, userID, offset, limit)
	if err != nil {
		r.logger.Error("failed to list mood entries", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to list mood entries: %w", err)
	}
	defer rows.Close()

	return scanMoodEntries(rows, r.logger)
}

// ListByDateRange retrieves mood entries between two dates inclusive, newest first
func (r *MoodRepository) ListByDateRange(ctx context.Context, userID, startDate, endDate string) ([]model.MoodEntry, error) {
	query := `
		SELECT id, user_id, date, mood, notes, activity, sleep_hours, stress_level, created_at, updated_at
		FROM mood_entries
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date DESC
	`

	rows, err := r.db.Query(ctx, query, userID, startDate, endDate)
	if err != nil {
		r.logger.Error("failed to list mood entries by range", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to list mood entries by range: %w", err)
	}
	defer rows.Close()

	return scanMoodEntries(rows, r.logger)
}

// Update persists mutable fields of a mood entry
func (r *MoodRepository) Update(ctx context.Context, entry *model.MoodEntry) error {
	query := `
		UPDATE mood_entries
		SET mood = $1, notes = $2, activity = $3, sleep_hours = $4, stress_level = $5, updated_at = NOW()
		WHERE id = $6
	`

	result, err := r.db.Exec(ctx, query,
		entry.Mood,
		entry.Notes,
		entry.Activity,
		entry.SleepHours,
		entry.StressLevel,
		entry.ID,
	)

	if err != nil {
		r.logger.Error("failed to update mood entry", zap.Error(err), zap.String("mood_id", entry.ID))
		return fmt.Errorf("failed to update mood entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("mood entry not found: %s", entry.ID)
	}

	return nil
}

// Delete removes a mood entry
func (r *MoodRepository) Delete(ctx context.Context, moodID string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM mood_entries WHERE id = $1`, moodID)
	if err != nil {
		r.logger.Error("failed to delete mood entry", zap.Error(err), zap.String("mood_id", moodID))
		return fmt.Errorf("failed to delete mood entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("mood entry not found: %s", moodID)
	}

	return nil
}

func scanMoodEntries(rows pgx.Rows, logger *zap.Logger) ([]model.MoodEntry, error) {
	var entries []model.MoodEntry
	for rows.Next() {
		var entry model.MoodEntry
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Date,
			&entry.Mood,
			&entry.Notes,
			&entry.Activity,
			&entry.SleepHours,
			&entry.StressLevel,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		)
		if err != nil {
			logger.Error("failed to scan mood entry", zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		logger.Error("error iterating mood entries", zap.Error(err))
		return nil, fmt.Errorf("error iterating mood entries: %w", err)
	}

	return entries, nil
}
