package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/moodlift/moodlift-backend/internal/audit"
	"github.com/moodlift/moodlift-backend/pkg/model"
)

// deleteConfirmation is the exact text a user must type to erase their data
const deleteConfirmation = "DELETE"

const retentionNote = "Vos données sont conservées uniquement pendant la durée de votre consentement et supprimées sur demande."

// GDPRService handles data portability and the right to be forgotten
type GDPRService struct {
	db          *pgxpool.Pool
	auditLogger *audit.Logger
	logger      *zap.Logger
}

// NewGDPRService creates a new GDPRService
func NewGDPRService(db *pgxpool.Pool, auditLogger *audit.Logger, logger *zap.Logger) *GDPRService {
	return &GDPRService{
		db:          db,
		auditLogger: auditLogger,
		logger:      logger,
	}
}

// UserDataExport bundles every record held about one user
type UserDataExport struct {
	User            *model.User            `json:"user"`
	MoodEntries     []model.MoodEntry      `json:"mood_entries"`
	ChatMessages    []model.ChatMessage    `json:"chat_messages"`
	Recommendations []model.Recommendation `json:"recommendations"`
	ExportedAt      time.Time              `json:"exported_at"`
	RetentionNote   string                 `json:"retention_note"`
}

// ExportUserData collects all stored records of the user into a JSON
// document for data portability.
func (s *GDPRService) ExportUserData(ctx context.Context, userID string) ([]byte, error) {
	s.logger.Info("starting user data export",
		zap.String("user_id", userID),
	)

	export := UserDataExport{
		ExportedAt:    time.Now(),
		RetentionNote: retentionNote,
	}

	var user model.User
	err := s.db.QueryRow(ctx, `
		SELECT id, name, email, role, consent, created_at, updated_at, deleted_at
		FROM users WHERE id = $1
	`, userID).Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.Consent,
		&user.CreatedAt, &user.UpdatedAt, &user.DeletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	export.User = &user

	moodRows, err := s.db.Query(ctx, `
		SELECT id, user_id, date, mood, notes, activity, sleep_hours, stress_level,
		       created_at, updated_at
		FROM mood_entries WHERE user_id = $1
		ORDER BY date DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get mood entries: %w", err)
	}
	defer moodRows.Close()

	for moodRows.Next() {
		var entry model.MoodEntry
		err := moodRows.Scan(
			&entry.ID, &entry.UserID, &entry.Date, &entry.Mood, &entry.Notes,
			&entry.Activity, &entry.SleepHours, &entry.StressLevel,
			&entry.CreatedAt, &entry.UpdatedAt,
		)
		if err != nil {
			s.logger.Error("failed to scan mood entry", zap.Error(err))
			continue
		}
		export.MoodEntries = append(export.MoodEntries, entry)
	}

	chatRows, err := s.db.Query(ctx, `
		SELECT id, user_id, message, sender, mood_detected, language, model_used, timestamp
		FROM chat_messages WHERE user_id = $1
		ORDER BY timestamp DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat messages: %w", err)
	}
	defer chatRows.Close()

	for chatRows.Next() {
		var msg model.ChatMessage
		err := chatRows.Scan(
			&msg.ID, &msg.UserID, &msg.Message, &msg.Sender, &msg.MoodDetected,
			&msg.Language, &msg.ModelUsed, &msg.Timestamp,
		)
		if err != nil {
			s.logger.Error("failed to scan chat message", zap.Error(err))
			continue
		}
		export.ChatMessages = append(export.ChatMessages, msg)
	}

	recRows, err := s.db.Query(ctx, `
		SELECT id, user_id, mood_id, suggested_activity, recommendation_type,
		       confidence_score, timestamp, was_helpful
		FROM recommendations WHERE user_id = $1
		ORDER BY timestamp DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendations: %w", err)
	}
	defer recRows.Close()

	for recRows.Next() {
		var rec model.Recommendation
		err := recRows.Scan(
			&rec.ID, &rec.UserID, &rec.MoodID, &rec.SuggestedActivity,
			&rec.RecommendationType, &rec.ConfidenceScore, &rec.Timestamp, &rec.WasHelpful,
		)
		if err != nil {
			s.logger.Error("failed to scan recommendation", zap.Error(err))
			continue
		}
		export.Recommendations = append(export.Recommendations, rec)
	}

	jsonData, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export data: %w", err)
	}

	s.logger.Info("user data export completed",
		zap.String("user_id", userID),
		zap.Int("mood_entries", len(export.MoodEntries)),
		zap.Int("chat_messages", len(export.ChatMessages)),
		zap.Int("recommendations", len(export.Recommendations)),
	)

	return jsonData, nil
}

// DeleteUserData erases every record of the user and soft deletes the
// account. The confirmation text must equal "DELETE".
func (s *GDPRService) DeleteUserData(ctx context.Context, userID, confirmation, ipAddress, userAgent string) error {
	if confirmation != deleteConfirmation {
		return fmt.Errorf("%w: confirmation must be %q", ErrInvalidRequest, deleteConfirmation)
	}

	s.logger.Info("starting user data deletion",
		zap.String("user_id", userID),
	)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, "DELETE FROM recommendations WHERE user_id = $1", userID)
	if err != nil {
		return fmt.Errorf("failed to delete recommendations: %w", err)
	}

	_, err = tx.Exec(ctx, "DELETE FROM mood_entries WHERE user_id = $1", userID)
	if err != nil {
		return fmt.Errorf("failed to delete mood entries: %w", err)
	}

	_, err = tx.Exec(ctx, "DELETE FROM chat_messages WHERE user_id = $1", userID)
	if err != nil {
		return fmt.Errorf("failed to delete chat messages: %w", err)
	}

	_, err = tx.Exec(ctx, "DELETE FROM refresh_tokens WHERE user_id = $1", userID)
	if err != nil {
		return fmt.Errorf("failed to delete refresh tokens: %w", err)
	}

	// Soft delete keeps referential integrity in audit logs.
	_, err = tx.Exec(ctx, "UPDATE users SET deleted_at = $1, consent = FALSE WHERE id = $2", time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to mark user as deleted: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	if err := s.auditLogger.LogDelete(ctx, userID, audit.ResourceUser, userID, ipAddress, userAgent); err != nil {
		s.logger.Error("failed to log audit entry for user deletion", zap.Error(err))
	}

	s.logger.Info("user data deletion completed",
		zap.String("user_id", userID),
	)

	return nil
}

// AnonymizeUserData strips identifying fields from the account while keeping
// wellness records for aggregate analysis. Consent is revoked in the same
// statement.
func (s *GDPRService) AnonymizeUserData(ctx context.Context, userID, ipAddress, userAgent string) error {
	s.logger.Info("starting user anonymization",
		zap.String("user_id", userID),
	)

	tag, err := s.db.Exec(ctx, `
		UPDATE users
		SET name = 'Utilisateur anonyme',
		    email = 'anonyme-' || id || '@example.invalid',
		    hashed_password = '',
		    consent = FALSE,
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to anonymize user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user", ErrNotFound)
	}

	_, err = s.db.Exec(ctx, "DELETE FROM refresh_tokens WHERE user_id = $1", userID)
	if err != nil {
		return fmt.Errorf("failed to delete refresh tokens: %w", err)
	}

	if err := s.auditLogger.LogUpdate(ctx, userID, audit.ResourceUser, userID, ipAddress, userAgent); err != nil {
		s.logger.Error("failed to log audit entry for user anonymization", zap.Error(err))
	}

	s.logger.Info("user anonymization completed",
		zap.String("user_id", userID),
	)

	return nil
}
