package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/moodlift/moodlift-backend/pkg/model"
)

// ChatRepository manages companion conversation history
type ChatRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(db *pgxpool.Pool, logger *zap.Logger) *ChatRepository {
	return &ChatRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a chat message
func (r *ChatRepository) Create(ctx context.Context, msg *model.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (id, user_id, message, sender, mood_detected, language, model_used, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		msg.ID,
		msg.UserID,
		msg.Message,
		msg.Sender,
		msg.MoodDetected,
		msg.Language,
		msg.ModelUsed,
		msg.Timestamp,
	)

	if err != nil {
		r.logger.Error("failed to create chat message", zap.Error(err), zap.String("message_id", msg.ID))
		return fmt.Errorf("failed to create chat message: %w", err)
	}

	return nil
}

// ListByUser retrieves conversation history for a user, newest first
func (r *ChatRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.ChatMessage, error) {
	query := `
		SELECT id, user_id, message, sender, mood_detected, language, model_used, timestamp
		FROM chat_messages
		WHERE user_id = $1
		ORDER BY timestamp DESC
		OFFSET $2 LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, userID, offset, limit)
	if err != nil {
		r.logger.Error("failed to list chat messages", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []model.ChatMessage
	for rows.Next() {
		var msg model.ChatMessage
		err := rows.Scan(
			&msg.ID,
			&msg.UserID,
			&msg.Message,
			&msg.Sender,
			&msg.MoodDetected,
			&msg.Language,
			&msg.ModelUsed,
			&msg.Timestamp,
		)
		if err != nil {
			r.logger.Error("failed to scan chat message", zap.Error(err))
			continue
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating chat messages", zap.Error(err))
		return nil, fmt.Errorf("error iterating chat messages: %w", err)
	}

	return messages, nil
}

// ChatStats summarizes conversation activity over a trailing window
type ChatStats struct {
	TotalMessages         int     `json:"total_messages"`
	MessagesUser          int     `json:"messages_user"`
	MessagesBot           int     `json:"messages_bot"`
	MostDetectedMood      *string `json:"most_detected_mood"`
	AverageMessagesPerDay float64 `json:"average_messages_per_day"`
}

// GetStats computes chat statistics since the given time over windowDays
func (r *ChatRepository) GetStats(ctx context.Context, userID string, since time.Time, windowDays int) (*ChatStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE sender = 'user'),
			COUNT(*) FILTER (WHERE sender = 'bot')
		FROM chat_messages
		WHERE user_id = $1 AND timestamp >= $2
	`

	var stats ChatStats
	err := r.db.QueryRow(ctx, query, userID, since).Scan(
		&stats.TotalMessages,
		&stats.MessagesUser,
		&stats.MessagesBot,
	)
	if err != nil {
		r.logger.Error("failed to get chat stats", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to get chat stats: %w", err)
	}

	if windowDays > 0 {
		stats.AverageMessagesPerDay = float64(stats.TotalMessages) / float64(windowDays)
	}

	moodQuery := `
		SELECT mood_detected
		FROM chat_messages
		WHERE user_id = $1 AND timestamp >= $2 AND mood_detected IS NOT NULL
		GROUP BY mood_detected
		ORDER BY COUNT(*) DESC, mood_detected ASC
		LIMIT 1
	`

	var mood string
	err = r.db.QueryRow(ctx, moodQuery, userID, since).Scan(&mood)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Error("failed to get most detected mood", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to get most detected mood: %w", err)
	}
	if err == nil {
		stats.MostDetectedMood = &mood
	}

	return &stats, nil
}
