package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moodlift/moodlift-backend/internal/recommend"
	"github.com/moodlift/moodlift-backend/internal/repository"
	"github.com/moodlift/moodlift-backend/pkg/model"
)

// dedupWindow is how far back recently suggested activities suppress repeats
const dedupWindow = 6 * time.Hour

// time budgets are expressed in minutes and bounded to a plausible range
const (
	defaultTimeAvailable = 30
	minTimeAvailable     = 5
	maxTimeAvailable     = 240
)

// feedback windows are clamped to this range
const (
	minWindowDays = 1
	maxWindowDays = 365
)

// RecommendationRepositoryInterface defines recommendation storage operations
type RecommendationRepositoryInterface interface {
	CreateBatch(ctx context.Context, recs []model.Recommendation) error
	FindByID(ctx context.Context, recID string) (*model.Recommendation, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.Recommendation, error)
	ListRecent(ctx context.Context, userID string, since time.Time) ([]model.Recommendation, error)
	ListPendingFeedback(ctx context.Context, userID string, limit int) ([]model.Recommendation, error)
	ListWithFeedback(ctx context.Context, userID string, helpful *bool, since time.Time) ([]model.Recommendation, error)
	UpdateFeedback(ctx context.Context, recID string, wasHelpful bool) error
	GetStats(ctx context.Context, userID string, since time.Time) (*repository.Stats, error)
}

// MoodLookupInterface resolves mood entries for recommendation generation
type MoodLookupInterface interface {
	FindByID(ctx context.Context, moodID string) (*model.MoodEntry, error)
}

// RecommendationService orchestrates activity recommendation generation
// and feedback collection
type RecommendationService struct {
	recs   RecommendationRepositoryInterface
	moods  MoodLookupInterface
	logger *zap.Logger
}

// NewRecommendationService creates a new RecommendationService
func NewRecommendationService(recs RecommendationRepositoryInterface, moods MoodLookupInterface, logger *zap.Logger) *RecommendationService {
	return &RecommendationService{
		recs:   recs,
		moods:  moods,
		logger: logger,
	}
}

// GenerateRequest carries the inputs for recommendation generation. Exactly
// one of MoodID or MoodLevel must be set; TimeAvailable defaults to 30 minutes.
type GenerateRequest struct {
	MoodID        *string `json:"mood_id,omitempty"`
	MoodLevel     *int    `json:"mood_level,omitempty"`
	TimeAvailable *int    `json:"time_available,omitempty"`
}

// Generate produces up to three scored recommendations for the user and
// persists them. Consent is required; recently suggested activities are
// suppressed for six hours.
func (s *RecommendationService) Generate(ctx context.Context, user *model.User, req GenerateRequest) ([]model.Recommendation, error) {
	if !user.Consent {
		return nil, fmt.Errorf("%w: consent required to generate recommendations", ErrForbidden)
	}

	moodLevel, err := s.resolveMoodLevel(ctx, user.ID, req)
	if err != nil {
		return nil, err
	}

	timeAvailable := defaultTimeAvailable
	if req.TimeAvailable != nil {
		if *req.TimeAvailable < minTimeAvailable || *req.TimeAvailable > maxTimeAvailable {
			return nil, fmt.Errorf("%w: time available must be between %d and %d minutes", ErrInvalidRequest, minTimeAvailable, maxTimeAvailable)
		}
		timeAvailable = *req.TimeAvailable
	}

	recent, err := s.recs.ListRecent(ctx, user.ID, time.Now().Add(-dedupWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to load recent recommendations: %w", err)
	}
	recentActivities := make(map[string]struct{}, len(recent))
	for _, r := range recent {
		recentActivities[r.SuggestedActivity] = struct{}{}
	}

	selected := recommend.Select(moodLevel, timeAvailable, recentActivities)

	recommendations := make([]model.Recommendation, 0, len(selected))
	for _, activity := range selected {
		score := recommend.Score(moodLevel, activity)
		recommendations = append(recommendations, model.Recommendation{
			ID:                 uuid.New().String(),
			UserID:             user.ID,
			MoodID:             req.MoodID,
			SuggestedActivity:  activity.Activity,
			RecommendationType: model.RecommendationMoodBased,
			ConfidenceScore:    &score,
			Timestamp:          time.Now(),
		})
	}

	// All-or-nothing: a failed write must not leave a partial batch behind.
	if err := s.recs.CreateBatch(ctx, recommendations); err != nil {
		return nil, fmt.Errorf("failed to persist recommendations: %w", err)
	}

	s.logger.Info("recommendations generated",
		zap.String("user_id", user.ID),
		zap.Int("mood_level", moodLevel),
		zap.Int("time_available", timeAvailable),
		zap.Int("count", len(recommendations)),
	)

	return recommendations, nil
}

// resolveMoodLevel determines the mood level from the request, preferring a
// referenced mood entry over an inline level.
func (s *RecommendationService) resolveMoodLevel(ctx context.Context, userID string, req GenerateRequest) (int, error) {
	if req.MoodID != nil && *req.MoodID != "" {
		entry, err := s.moods.FindByID(ctx, *req.MoodID)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve mood entry: %w", err)
		}
		if entry == nil || entry.UserID != userID {
			return 0, fmt.Errorf("%w: mood entry", ErrNotFound)
		}
		return entry.Mood, nil
	}

	if req.MoodLevel != nil {
		if *req.MoodLevel < 1 || *req.MoodLevel > 5 {
			return 0, fmt.Errorf("%w: mood level must be between 1 and 5", ErrInvalidRequest)
		}
		return *req.MoodLevel, nil
	}

	return 0, fmt.Errorf("%w: either mood_id or mood_level must be provided", ErrInvalidRequest)
}

// UpdateFeedback records a feedback verdict on a recommendation owned by the user
func (s *RecommendationService) UpdateFeedback(ctx context.Context, userID, recID string, wasHelpful bool) (*model.Recommendation, error) {
	rec, err := s.recs.FindByID(ctx, recID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendation: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: recommendation", ErrNotFound)
	}
	if rec.UserID != userID {
		return nil, fmt.Errorf("%w: recommendation belongs to another user", ErrForbidden)
	}

	if err := s.recs.UpdateFeedback(ctx, recID, wasHelpful); err != nil {
		return nil, fmt.Errorf("failed to update feedback: %w", err)
	}

	rec.WasHelpful = &wasHelpful
	return rec, nil
}

// FeedbackItem is one entry in a bulk feedback submission
type FeedbackItem struct {
	RecommendationID string `json:"recommendation_id"`
	WasHelpful       bool   `json:"was_helpful"`
}

// BatchResult reports the outcome of a bulk feedback submission
type BatchResult struct {
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
}

// ApplyFeedbackBatch records feedback for many recommendations at once.
// Each item is applied independently; failures count rather than abort.
func (s *RecommendationService) ApplyFeedbackBatch(ctx context.Context, userID string, items []FeedbackItem) (*BatchResult, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: feedback batch must not be empty", ErrInvalidRequest)
	}

	result := &BatchResult{}
	for _, item := range items {
		if _, err := s.UpdateFeedback(ctx, userID, item.RecommendationID, item.WasHelpful); err != nil {
			s.logger.Warn("batch feedback item failed",
				zap.String("user_id", userID),
				zap.String("recommendation_id", item.RecommendationID),
				zap.Error(err),
			)
			result.Errors++
			continue
		}
		result.Updated++
	}

	return result, nil
}

// GetByID retrieves a recommendation with ownership enforcement
func (s *RecommendationService) GetByID(ctx context.Context, userID, recID string) (*model.Recommendation, error) {
	rec, err := s.recs.FindByID(ctx, recID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendation: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: recommendation", ErrNotFound)
	}
	if rec.UserID != userID {
		return nil, fmt.Errorf("%w: recommendation belongs to another user", ErrForbidden)
	}
	return rec, nil
}

// ListForUser retrieves the user's recommendation history, newest first
func (s *RecommendationService) ListForUser(ctx context.Context, userID string, offset, limit int) ([]model.Recommendation, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	recs, err := s.recs.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	return recs, nil
}

// ListPendingFeedback retrieves recommendations still awaiting a verdict
func (s *RecommendationService) ListPendingFeedback(ctx context.Context, userID string, limit int) ([]model.Recommendation, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	recs, err := s.recs.ListPendingFeedback(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending feedback: %w", err)
	}
	return recs, nil
}

// ListWithFeedback retrieves recommendations with a recorded verdict inside
// the trailing window, optionally filtered on the verdict value.
func (s *RecommendationService) ListWithFeedback(ctx context.Context, userID string, helpful *bool, windowDays int) ([]model.Recommendation, error) {
	if windowDays < minWindowDays || windowDays > maxWindowDays {
		return nil, fmt.Errorf("%w: window must be between %d and %d days", ErrInvalidRequest, minWindowDays, maxWindowDays)
	}

	since := time.Now().AddDate(0, 0, -windowDays)
	recs, err := s.recs.ListWithFeedback(ctx, userID, helpful, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations with feedback: %w", err)
	}
	return recs, nil
}

// RecommendationStats is the stats payload with its reporting period attached
type RecommendationStats struct {
	repository.Stats
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

// GetStats summarizes recommendation activity over the trailing window
func (s *RecommendationService) GetStats(ctx context.Context, userID string, windowDays int) (*RecommendationStats, error) {
	if windowDays < minWindowDays || windowDays > maxWindowDays {
		return nil, fmt.Errorf("%w: window must be between %d and %d days", ErrInvalidRequest, minWindowDays, maxWindowDays)
	}

	now := time.Now()
	since := now.AddDate(0, 0, -windowDays)

	stats, err := s.recs.GetStats(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendation stats: %w", err)
	}

	return &RecommendationStats{
		Stats:       *stats,
		PeriodStart: now.AddDate(0, 0, -(windowDays - 1)).Format("2006-01-02"),
		PeriodEnd:   now.Format("2006-01-02"),
	}, nil
}

// FeedbackSummary aggregates feedback over the trailing window
func (s *RecommendationService) FeedbackSummary(ctx context.Context, userID string, windowDays int) (*recommend.FeedbackSummary, error) {
	if windowDays < minWindowDays || windowDays > maxWindowDays {
		return nil, fmt.Errorf("%w: window must be between %d and %d days", ErrInvalidRequest, minWindowDays, maxWindowDays)
	}

	now := time.Now()
	recs, err := s.recs.ListWithFeedback(ctx, userID, nil, now.AddDate(0, 0, -windowDays))
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback: %w", err)
	}

	summary := recommend.Summarize(recs, windowDays, now)
	return &summary, nil
}

// EffectivenessReport ranks activities by observed helpfulness
func (s *RecommendationService) EffectivenessReport(ctx context.Context, userID string, windowDays int) ([]recommend.ActivityEffectiveness, error) {
	if windowDays < minWindowDays || windowDays > maxWindowDays {
		return nil, fmt.Errorf("%w: window must be between %d and %d days", ErrInvalidRequest, minWindowDays, maxWindowDays)
	}

	now := time.Now()
	recs, err := s.recs.ListWithFeedback(ctx, userID, nil, now.AddDate(0, 0, -windowDays))
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback: %w", err)
	}

	return recommend.EffectivenessReport(recs, windowDays, now), nil
}
