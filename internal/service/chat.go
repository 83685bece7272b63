package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moodlift/moodlift-backend/internal/nlp"
	"github.com/moodlift/moodlift-backend/internal/repository"
	"github.com/moodlift/moodlift-backend/pkg/model"
)

const maxChatMessageLength = 2000

// ChatRepositoryInterface defines conversation storage operations
type ChatRepositoryInterface interface {
	Create(ctx context.Context, msg *model.ChatMessage) error
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.ChatMessage, error)
	GetStats(ctx context.Context, userID string, since time.Time, windowDays int) (*repository.ChatStats, error)
}

// MoodAnalyzerInterface detects the mood of free text
type MoodAnalyzerInterface interface {
	AnalyzeMood(ctx context.Context, text, language string) nlp.Analysis
}

// ChatService runs the wellness companion conversation
type ChatService struct {
	chats    ChatRepositoryInterface
	analyzer MoodAnalyzerInterface
	logger   *zap.Logger
}

// NewChatService creates a new ChatService
func NewChatService(chats ChatRepositoryInterface, analyzer MoodAnalyzerInterface, logger *zap.Logger) *ChatService {
	return &ChatService{
		chats:    chats,
		analyzer: analyzer,
		logger:   logger,
	}
}

// BotReply is the companion's answer to one user message
type BotReply struct {
	BotMessage   string   `json:"bot_message"`
	MoodDetected string   `json:"mood_detected"`
	Suggestions  []string `json:"suggestions"`
	Language     *string  `json:"language_detected,omitempty"`
	ModelUsed    string   `json:"model_used"`
}

// SendMessage stores the user's message, detects its mood and produces a
// companion reply with up to three activity suggestions. Consent is required.
func (s *ChatService) SendMessage(ctx context.Context, user *model.User, message string, language *string) (*BotReply, error) {
	if !user.Consent {
		return nil, fmt.Errorf("%w: consent required to use the companion", ErrForbidden)
	}
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: message must not be empty", ErrInvalidRequest)
	}
	if len(trimmed) > maxChatMessageLength {
		return nil, fmt.Errorf("%w: message exceeds %d characters", ErrInvalidRequest, maxChatMessageLength)
	}

	lang := "en"
	if language != nil && *language != "" {
		lang = *language
	}

	analysis := s.analyzer.AnalyzeMood(ctx, trimmed, lang)

	userMsg := &model.ChatMessage{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		Message:      trimmed,
		Sender:       model.ChatSenderUser,
		MoodDetected: &analysis.Mood,
		Language:     language,
		ModelUsed:    &analysis.ModelUsed,
		Timestamp:    time.Now(),
	}
	if err := s.chats.Create(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("failed to store user message: %w", err)
	}

	replyText := nlp.BotResponse(analysis.Mood, trimmed)
	suggestions := nlp.MoodSuggestions(analysis.Mood)
	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}

	botMsg := &model.ChatMessage{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		Message:      replyText,
		Sender:       model.ChatSenderBot,
		MoodDetected: &analysis.Mood,
		Language:     language,
		ModelUsed:    &analysis.ModelUsed,
		Timestamp:    time.Now(),
	}
	if err := s.chats.Create(ctx, botMsg); err != nil {
		return nil, fmt.Errorf("failed to store bot message: %w", err)
	}

	s.logger.Info("chat exchange completed",
		zap.String("user_id", user.ID),
		zap.String("mood_detected", analysis.Mood),
		zap.String("model_used", analysis.ModelUsed),
	)

	return &BotReply{
		BotMessage:   replyText,
		MoodDetected: analysis.Mood,
		Suggestions:  suggestions,
		Language:     language,
		ModelUsed:    analysis.ModelUsed,
	}, nil
}

// Conversation is a page of chat history with its time bounds
type Conversation struct {
	Messages      []model.ChatMessage `json:"messages"`
	TotalMessages int                 `json:"total_messages"`
	StartDate     *time.Time          `json:"start_date,omitempty"`
	EndDate       *time.Time          `json:"end_date,omitempty"`
}

// GetHistory retrieves a page of conversation history, newest first
func (s *ChatService) GetHistory(ctx context.Context, userID string, offset, limit int) (*Conversation, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	messages, err := s.chats.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	conv := &Conversation{
		Messages:      messages,
		TotalMessages: len(messages),
	}
	if len(messages) > 0 {
		oldest := messages[len(messages)-1].Timestamp
		newest := messages[0].Timestamp
		conv.StartDate = &oldest
		conv.EndDate = &newest
	}

	return conv, nil
}

// ChatStats is the stats payload with its reporting period attached
type ChatStats struct {
	repository.ChatStats
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

// GetStats summarizes conversation activity over the trailing window
func (s *ChatService) GetStats(ctx context.Context, userID string, windowDays int) (*ChatStats, error) {
	if windowDays < minWindowDays || windowDays > maxWindowDays {
		return nil, fmt.Errorf("%w: window must be between %d and %d days", ErrInvalidRequest, minWindowDays, maxWindowDays)
	}

	now := time.Now()
	since := now.AddDate(0, 0, -windowDays)

	stats, err := s.chats.GetStats(ctx, userID, since, windowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat stats: %w", err)
	}

	return &ChatStats{
		ChatStats:   *stats,
		PeriodStart: now.AddDate(0, 0, -(windowDays - 1)).Format(dateLayout),
		PeriodEnd:   now.Format(dateLayout),
	}, nil
}
