package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/moodlift/moodlift-backend/pkg/model"
)

// RecommendationRepository manages activity recommendations and their feedback
type RecommendationRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewRecommendationRepository creates a new RecommendationRepository
func NewRecommendationRepository(db *pgxpool.Pool, logger *zap.Logger) *RecommendationRepository {
	return &RecommendationRepository{
		db:     db,
		logger: logger,
	}
}

const recommendationColumns = `id, user_id, mood_id, suggested_activity, recommendation_type, confidence_score, timestamp, was_helpful`

const recommendationInsert = `
	INSERT INTO recommendations (id, user_id, mood_id, suggested_activity, recommendation_type, confidence_score, timestamp, was_helpful)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

// Create inserts a new recommendation
func (r *RecommendationRepository) Create(ctx context.Context, rec *model.Recommendation) error {
	_, err := r.db.Exec(ctx, recommendationInsert,
		rec.ID,
		rec.UserID,
		rec.MoodID,
		rec.SuggestedActivity,
		rec.RecommendationType,
		rec.ConfidenceScore,
		rec.Timestamp,
		rec.WasHelpful,
	)

	if err != nil {
		r.logger.Error("failed to create recommendation", zap.Error(err), zap.String("recommendation_id", rec.ID))
		return fmt.Errorf("failed to create recommendation: %w", err)
	}

	return nil
}

// CreateBatch inserts recommendations in one transaction: either every row
// is persisted or none are.
func (r *RecommendationRepository) CreateBatch(ctx context.Context, recs []model.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, rec := range recs {
		_, err := tx.Exec(ctx, recommendationInsert,
			rec.ID,
			rec.UserID,
			rec.MoodID,
			rec.SuggestedActivity,
			rec.RecommendationType,
			rec.ConfidenceScore,
			rec.Timestamp,
			rec.WasHelpful,
		)
		if err != nil {
			r.logger.Error("failed to create recommendation batch", zap.Error(err), zap.String("recommendation_id", rec.ID))
			return fmt.Errorf("failed to create recommendation batch: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit recommendation batch: %w", err)
	}

	return nil
}

// FindByID retrieves a recommendation by ID
func (r *RecommendationRepository) FindByID(ctx context.Context, recID string) (*model.Recommendation, error) {
	query := `SELECT ` + recommendationColumns + ` FROM recommendations WHERE id = $1`

	var rec model.Recommendation
	err := r.db.QueryRow(ctx, query, recID).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.MoodID,
		&rec.SuggestedActivity,
		&rec.RecommendationType,
		&rec.ConfidenceScore,
		&rec.Timestamp,
		&rec.WasHelpful,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get recommendation", zap.Error(err), zap.String("recommendation_id", recID))
		return nil, fmt.Errorf("failed to get recommendation: %w", err)
	}

	return &rec, nil
}

// ListByUser retrieves recommendations for a user, newest first
func (r *RecommendationRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.Recommendation, error) {
	query := `
		SELECT ` + recommendationColumns + `
		FROM recommendations
		WHERE user_id = $1
		ORDER BY timestamp DESC
		OFFSET $2 LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, userID, offset, limit)
	if err != nil {
		r.logger.Error("failed to list recommendations", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	defer rows.Close()

	return scanRecommendations(rows, r.logger)
}

// ListRecent retrieves recommendations created since the given time
func (r *RecommendationRepository) ListRecent(ctx context.Context, userID string, since time.Time) ([]model.Recommendation, error) {
	query := `
		SELECT ` + recommendationColumns + `
		FROM recommendations
		WHERE user_id = $1 AND timestamp >= $2
	`

	rows, err := r.db.Query(ctx, query, userID, since)
	if err != nil {
		r.logger.Error("failed to list recent recommendations", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to list recent recommendations: %w", err)
	}
	defer rows.Close()

	return scanRecommendations(rows, r.logger)
}

// ListPendingFeedback retrieves recommendations awaiting a feedback verdict, newest first
func (r *RecommendationRepository) ListPendingFeedback(ctx context.Context, userID string, limit int) ([]model.Recommendation, error) {
	query := `
		SELECT ` + recommendationColumns + `
		FROM recommendations
		WHERE user_id = $1 AND was_helpful IS NULL
		ORDER BY timestamp DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		r.logger.Error("failed to list pending feedback", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to list pending feedback: %w", err)
	}
	defer rows.Close()

	return scanRecommendations(rows, r.logger)
}

// ListWithFeedback retrieves recommendations that carry feedback within the
// trailing window. A non-nil helpful filters on the verdict value.
func (r *RecommendationRepository) ListWithFeedback(ctx context.Context, userID string, helpful *bool, since time.Time) ([]model.Recommendation, error) {
	query := `
		SELECT ` + recommendationColumns + `
		FROM recommendations
		WHERE user_id = $1 AND was_helpful IS NOT NULL AND timestamp >= $2
		  AND ($3::boolean IS NULL OR was_helpful = $3)
		ORDER BY timestamp DESC
	`

	rows, err := r.db.Query(ctx, query, userID, since, helpful)
	if err != nil {
		r.logger.Error("failed to list recommendations with feedback", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to list recommendations with feedback: %w", err)
	}
	defer rows.Close()

	return scanRecommendations(rows, r.logger)
}

// UpdateFeedback sets the feedback verdict on a recommendation
func (r *RecommendationRepository) UpdateFeedback(ctx context.Context, recID string, wasHelpful bool) error {
	query := `UPDATE recommendations SET was_helpful = $1 WHERE id = $2`

	result, err := r.db.Exec(ctx, query, wasHelpful, recID)
	if err != nil {
		r.logger.Error("failed to update recommendation feedback", zap.Error(err), zap.String("recommendation_id", recID))
		return fmt.Errorf("failed to update recommendation feedback: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("recommendation not found: %s", recID)
	}

	return nil
}

// Stats summarizes recommendation counts and feedback over the trailing
// window. HelpfulnessRate is a percentage rounded to one decimal.
type Stats struct {
	TotalRecommendations int     `json:"total_recommendations"`
	HelpfulCount         int     `json:"helpful_count"`
	NotHelpfulCount      int     `json:"not_helpful_count"`
	PendingFeedback      int     `json:"pending_feedback"`
	HelpfulnessRate      float64 `json:"helpfulness_rate"`
	MostRecommended      *string `json:"most_recommended_activity"`
}

// GetStats computes recommendation statistics since the given time
func (r *RecommendationRepository) GetStats(ctx context.Context, userID string, since time.Time) (*Stats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE was_helpful IS TRUE),
			COUNT(*) FILTER (WHERE was_helpful IS FALSE),
			COUNT(*) FILTER (WHERE was_helpful IS NULL)
		FROM recommendations
		WHERE user_id = $1 AND timestamp >= $2
	`

	var stats Stats
	err := r.db.QueryRow(ctx, query, userID, since).Scan(
		&stats.TotalRecommendations,
		&stats.HelpfulCount,
		&stats.NotHelpfulCount,
		&stats.PendingFeedback,
	)
	if err != nil {
		r.logger.Error("failed to get recommendation stats", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to get recommendation stats: %w", err)
	}

	withFeedback := stats.HelpfulCount + stats.NotHelpfulCount
	if withFeedback > 0 {
		stats.HelpfulnessRate = math.Round(float64(stats.HelpfulCount)/float64(withFeedback)*1000) / 10
	}

	mostQuery := `
		SELECT suggested_activity
		FROM recommendations
		WHERE user_id = $1 AND timestamp >= $2
		GROUP BY suggested_activity
		ORDER BY COUNT(*) DESC, suggested_activity ASC
		LIMIT 1
	`

	var most string
	err = r.db.QueryRow(ctx, mostQuery, userID, since).Scan(&most)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Error("failed to get most recommended activity", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to get most recommended activity: %w", err)
	}
	if err == nil {
		stats.MostRecommended = &most
	}

	return &stats, nil
}

func scanRecommendations(rows pgx.Rows, logger *zap.Logger) ([]model.Recommendation, error) {
	var recs []model.Recommendation
	for rows.Next() {
		var rec model.Recommendation
		err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.MoodID,
			&rec.SuggestedActivity,
			&rec.RecommendationType,
			&rec.ConfidenceScore,
			&rec.Timestamp,
			&rec.WasHelpful,
		)
		if err != nil {
			logger.Error("failed to scan recommendation", zap.Error(err))
			continue
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		logger.Error("error iterating recommendations", zap.Error(err))
		return nil, fmt.Errorf("error iterating recommendations: %w", err)
	}

	return recs, nil
}
