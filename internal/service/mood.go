package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moodlift/moodlift-backend/pkg/model"
)

const dateLayout = "2006-01-02"

// MoodRepositoryInterface defines mood entry storage operations
type MoodRepositoryInterface interface {
	Create(ctx context.Context, entry *model.MoodEntry) error
	FindByID(ctx context.Context, moodID string) (*model.MoodEntry, error)
	FindByUserAndDate(ctx context.Context, userID, date string) (*model.MoodEntry, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.MoodEntry, error)
	ListByDateRange(ctx context.Context, userID, startDate, endDate string) ([]model.MoodEntry, error)
	Update(ctx context.Context, entry *model.MoodEntry) error
	Delete(ctx context.Context, moodID string) error
}

// MoodService manages daily mood entries
type MoodService struct {
	moods  MoodRepositoryInterface
	logger *zap.Logger
}

// NewMoodService creates a new MoodService
func NewMoodService(moods MoodRepositoryInterface, logger *zap.Logger) *MoodService {
	return &MoodService{
		moods:  moods,
		logger: logger,
	}
}

// MoodEntryInput carries the user-settable fields of a mood entry
type MoodEntryInput struct {
	Date        string   `json:"date"`
	Mood        int      `json:"mood"`
	Notes       *string  `json:"notes,omitempty"`
	Activity    *string  `json:"activity,omitempty"`
	SleepHours  *float64 `json:"sleep_hours,omitempty"`
	StressLevel *int     `json:"stress_level,omitempty"`
}

func (in *MoodEntryInput) validate() error {
	if _, err := time.Parse(dateLayout, in.Date); err != nil {
		return fmt.Errorf("%w: date must use YYYY-MM-DD", ErrInvalidRequest)
	}
	if in.Mood < 1 || in.Mood > 5 {
		return fmt.Errorf("%w: mood must be between 1 and 5", ErrInvalidRequest)
	}
	if in.StressLevel != nil && (*in.StressLevel < 1 || *in.StressLevel > 5) {
		return fmt.Errorf("%w: stress level must be between 1 and 5", ErrInvalidRequest)
	}
	if in.SleepHours != nil && (*in.SleepHours < 0 || *in.SleepHours > 24) {
		return fmt.Errorf("%w: sleep hours must be between 0 and 24", ErrInvalidRequest)
	}
	return nil
}

// Create records a new mood entry. Consent is required and only one entry
// may exist per user per date.
func (s *MoodService) Create(ctx context.Context, user *model.User, input MoodEntryInput) (*model.MoodEntry, error) {
	if !user.Consent {
		return nil, fmt.Errorf("%w: consent required to record mood data", ErrForbidden)
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	existing, err := s.moods.FindByUserAndDate(ctx, user.ID, input.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing mood entry: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: a mood entry already exists for %s", ErrConflict, input.Date)
	}

	entry := &model.MoodEntry{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		Date:        input.Date,
		Mood:        input.Mood,
		Notes:       input.Notes,
		Activity:    input.Activity,
		SleepHours:  input.SleepHours,
		StressLevel: input.StressLevel,
	}

	if err := s.moods.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create mood entry: %w", err)
	}

	s.logger.Info("mood entry created",
		zap.String("user_id", user.ID),
		zap.String("date", input.Date),
		zap.Int("mood", input.Mood),
	)

	return entry, nil
}

// GetByID retrieves a mood entry with ownership enforcement
func (s *MoodService) GetByID(ctx context.Context, userID, moodID string) (*model.MoodEntry, error) {
	entry, err := s.moods.FindByID(ctx, moodID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mood entry: %w", err)
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: mood entry", ErrNotFound)
	}
	if entry.UserID != userID {
		return nil, fmt.Errorf("%w: mood entry belongs to another user", ErrForbidden)
	}
	return entry, nil
}

// ListForUser retrieves mood entries for a user, newest date first
func (s *MoodService) ListForUser(ctx context.Context, userID string, offset, limit int) ([]model.MoodEntry, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	entries, err := s.moods.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list mood entries: %w", err)
	}
	return entries, nil
}

// ListByDateRange retrieves mood entries between two dates inclusive
func (s *MoodService) ListByDateRange(ctx context.Context, userID, startDate, endDate string) ([]model.MoodEntry, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start date must use YYYY-MM-DD", ErrInvalidRequest)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: end date must use YYYY-MM-DD", ErrInvalidRequest)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date must not precede start date", ErrInvalidRequest)
	}

	entries, err := s.moods.ListByDateRange(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list mood entries by range: %w", err)
	}
	return entries, nil
}

// Update modifies an existing mood entry with ownership enforcement.
// The entry date is immutable.
func (s *MoodService) Update(ctx context.Context, userID, moodID string, input MoodEntryInput) (*model.MoodEntry, error) {
	entry, err := s.GetByID(ctx, userID, moodID)
	if err != nil {
		return nil, err
	}

	input.Date = entry.Date
	if err := input.validate(); err != nil {
		return nil, err
	}

	entry.Mood = input.Mood
	entry.Notes = input.Notes
	entry.Activity = input.Activity
	entry.SleepHours = input.SleepHours
	entry.StressLevel = input.StressLevel

	if err := s.moods.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to update mood entry: %w", err)
	}

	return entry, nil
}

// Delete removes a mood entry with ownership enforcement
func (s *MoodService) Delete(ctx context.Context, userID, moodID string) error {
	if _, err := s.GetByID(ctx, userID, moodID); err != nil {
		return err
	}

	if err := s.moods.Delete(ctx, moodID); err != nil {
		return fmt.Errorf("failed to delete mood entry: %w", err)
	}

	return nil
}

// MoodStats summarizes mood entries over a trailing window
type MoodStats struct {
	AverageMood   float64  `json:"average_mood"`
	AverageStress *float64 `json:"average_stress"`
	AverageSleep  *float64 `json:"average_sleep"`
	TotalEntries  int      `json:"total_entries"`
}

// GetStats computes averages over the trailing windowDays of entries
func (s *MoodService) GetStats(ctx context.Context, userID string, windowDays int) (*MoodStats, error) {
	if windowDays < minWindowDays || windowDays > maxWindowDays {
		return nil, fmt.Errorf("%w: window must be between %d and %d days", ErrInvalidRequest, minWindowDays, maxWindowDays)
	}

	end := time.Now()
	start := end.AddDate(0, 0, -(windowDays - 1))

	entries, err := s.moods.ListByDateRange(ctx, userID, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to load mood entries: %w", err)
	}

	stats := &MoodStats{TotalEntries: len(entries)}
	if len(entries) == 0 {
		return stats, nil
	}

	var moodSum int
	var stressSum, sleepSum float64
	var stressCount, sleepCount int
	for _, e := range entries {
		moodSum += e.Mood
		if e.StressLevel != nil {
			stressSum += float64(*e.StressLevel)
			stressCount++
		}
		if e.SleepHours != nil {
			sleepSum += *e.SleepHours
			sleepCount++
		}
	}

	stats.AverageMood = round2(float64(moodSum) / float64(len(entries)))
	if stressCount > 0 {
		avg := round2(stressSum / float64(stressCount))
		stats.AverageStress = &avg
	}
	if sleepCount > 0 {
		avg := round2(sleepSum / float64(sleepCount))
		stats.AverageSleep = &avg
	}

	return stats, nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
