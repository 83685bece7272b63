package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moodlift/moodlift-backend/internal/security"
	"github.com/moodlift/moodlift-backend/pkg/model"
)

const minPasswordLength = 8

// UserRepositoryInterface defines user account storage operations
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

// RefreshTokenRepositoryInterface defines refresh token storage operations
type RefreshTokenRepositoryInterface interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByToken(ctx context.Context, tokenStr string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, tokenStr string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

// AuthService handles registration, login and token renewal
type AuthService struct {
	users           UserRepositoryInterface
	refreshTokens   RefreshTokenRepositoryInterface
	tokens          *security.TokenManager
	refreshTokenTTL time.Duration
	logger          *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	users UserRepositoryInterface,
	refreshTokens RefreshTokenRepositoryInterface,
	tokens *security.TokenManager,
	refreshTokenTTL time.Duration,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:           users,
		refreshTokens:   refreshTokens,
		tokens:          tokens,
		refreshTokenTTL: refreshTokenTTL,
		logger:          logger,
	}
}

// RegisterInput carries the fields of a registration request
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Consent  bool   `json:"consent"`
}

// TokenPair is the result of a successful login or token refresh
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", ErrInvalidRequest)
	}
	if len(input.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidRequest, minPasswordLength)
	}

	existing, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: an account with this email already exists", ErrConflict)
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.New().String(),
		Name:           strings.TrimSpace(input.Name),
		Email:          strings.ToLower(input.Email),
		HashedPassword: hash,
		Role:           "user",
		Consent:        input.Consent,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))

	return user, nil
}

// Login verifies credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, *model.User, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if user == nil || !security.VerifyPassword(user.HashedPassword, password) {
		return nil, nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID))

	return pair, user, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The used
// token is revoked so each refresh token works exactly once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	stored, err := s.refreshTokens.FindByToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}
	if stored == nil || stored.Revoked || time.Now().After(stored.ExpiresAt) {
		return nil, fmt.Errorf("%w: invalid or expired refresh token", ErrUnauthorized)
	}

	user, err := s.users.FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: invalid or expired refresh token", ErrUnauthorized)
	}

	if err := s.refreshTokens.Revoke(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return s.issueTokenPair(ctx, user)
}

// Logout revokes every refresh token of the user
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.refreshTokens.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}

	s.logger.Info("user logged out", zap.String("user_id", userID))
	return nil
}

// GetUser loads the account for an authenticated user ID
func (s *AuthService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	return user, nil
}

// UpdateConsent flips the data processing consent flag
func (s *AuthService) UpdateConsent(ctx context.Context, userID string, consent bool) (*model.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Consent = consent
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update consent: %w", err)
	}

	s.logger.Info("consent updated", zap.String("user_id", userID), zap.Bool("consent", consent))
	return user, nil
}

func (s *AuthService) issueTokenPair(ctx context.Context, user *model.User) (*TokenPair, error) {
	access, err := s.tokens.IssueToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refresh, err := security.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	record := &model.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: time.Now().Add(s.refreshTokenTTL),
	}
	if err := s.refreshTokens.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}
