package model

import "time"

// User represents a user account
type User struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	HashedPassword string     `json:"-"`
	Role           string     `json:"role"`
	Consent        bool       `json:"consent"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}

// MoodEntry represents a daily self-reported mood record.
// At most one entry exists per user per date.
type MoodEntry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Mood        int       `json:"mood"` // 1-5 scale
	Notes       *string   `json:"notes,omitempty"`
	Activity    *string   `json:"activity,omitempty"`
	SleepHours  *float64  `json:"sleep_hours,omitempty"`
	StressLevel *int      `json:"stress_level,omitempty"` // 1-5 scale
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RecommendationType classifies how a recommendation was generated
type RecommendationType string

const (
	RecommendationMoodBased RecommendationType = "mood_based"
	RecommendationChatBased RecommendationType = "chat_based"
	RecommendationManual    RecommendationType = "manual"
)

// Recommendation represents a suggested activity tied to a user and
// optionally to the mood entry that triggered it. Once created, only
// WasHelpful may change: nil means feedback is pending.
type Recommendation struct {
	ID                 string             `json:"id"`
	UserID             string             `json:"user_id"`
	MoodID             *string            `json:"mood_id,omitempty"`
	SuggestedActivity  string             `json:"suggested_activity"`
	RecommendationType RecommendationType `json:"recommendation_type"`
	ConfidenceScore    *float64           `json:"confidence_score,omitempty"`
	Timestamp          time.Time          `json:"timestamp"`
	WasHelpful         *bool              `json:"was_helpful,omitempty"`
}

// ChatSender identifies who authored a chat message
type ChatSender string

const (
	ChatSenderUser ChatSender = "user"
	ChatSenderBot  ChatSender = "bot"
)

// ChatMessage represents one message in the companion conversation
type ChatMessage struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Message      string     `json:"message"`
	Sender       ChatSender `json:"sender"`
	MoodDetected *string    `json:"mood_detected,omitempty"`
	Language     *string    `json:"language,omitempty"`
	ModelUsed    *string    `json:"model_used,omitempty"`
	Timestamp    time.Time  `json:"timestamp"`
}

// RefreshToken represents a persisted refresh token
type RefreshToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}
