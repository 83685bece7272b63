package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/moodlift/moodlift-backend/internal/repository"
	"github.com/moodlift/moodlift-backend/pkg/model"
)

// MockRecommendationRepository is a mock implementation of RecommendationRepositoryInterface
type MockRecommendationRepository struct {
	mock.Mock
}

func (m *MockRecommendationRepository) CreateBatch(ctx context.Context, recs []model.Recommendation) error {
	args := m.Called(ctx, recs)
	return args.Error(0)
}

func (m *MockRecommendationRepository) FindByID(ctx context.Context, recID string) (*model.Recommendation, error) {
	args := m.Called(ctx, recID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recommendation), args.Error(1)
}

func (m *MockRecommendationRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.Recommendation, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recommendation), args.Error(1)
}

func (m *MockRecommendationRepository) ListRecent(ctx context.Context, userID string, since time.Time) ([]model.Recommendation, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recommendation), args.Error(1)
}

func (m *MockRecommendationRepository) ListPendingFeedback(ctx context.Context, userID string, limit int) ([]model.Recommendation, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recommendation), args.Error(1)
}

func (m *MockRecommendationRepository) ListWithFeedback(ctx context.Context, userID string, helpful *bool, since time.Time) ([]model.Recommendation, error) {
	args := m.Called(ctx, userID, helpful, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recommendation), args.Error(1)
}

func (m *MockRecommendationRepository) UpdateFeedback(ctx context.Context, recID string, wasHelpful bool) error {
	args := m.Called(ctx, recID, wasHelpful)
	return args.Error(0)
}

func (m *MockRecommendationRepository) GetStats(ctx context.Context, userID string, since time.Time) (*repository.Stats, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Stats), args.Error(1)
}

// MockMoodLookup is a mock implementation of MoodLookupInterface
type MockMoodLookup struct {
	mock.Mock
}

func (m *MockMoodLookup) FindByID(ctx context.Context, moodID string) (*model.MoodEntry, error) {
	args := m.Called(ctx, moodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MoodEntry), args.Error(1)
}

func consentingUser() *model.User {
	return &model.User{ID: "user-1", Name: "Test User", Consent: true}
}

func intRef(v int) *int { return &v }

func strRef(v string) *string { return &v }

func TestRecommendationService_Generate_Success(t *testing.T) {
	mockRecs := new(MockRecommendationRepository)
	mockMoods := new(MockMoodLookup)
	service := NewRecommendationService(mockRecs, mockMoods, zap.NewNop())

	ctx := context.Background()
	user := consentingUser()

	mockRecs.On("ListRecent", ctx, user.ID, mock.AnythingOfType("time.Time")).
		Return([]model.Recommendation{}, nil)
	mockRecs.On("CreateBatch", ctx, mock.AnythingOfType("[]model.Recommendation")).Return(nil)

	recs, err := service.Generate(ctx, user, GenerateRequest{
		MoodLevel:     intRef(2),
		TimeAvailable: intRef(30),
	})

	require.NoError(t, err)
	require.NotEmpty(t, recs)
	assert.LessOrEqual(t, len(recs), 3)

	seen := make(map[string]bool)
	for _, rec := range recs {
		assert.Equal(t, user.ID, rec.UserID)
		assert.Equal(t, model.RecommendationMoodBased, rec.RecommendationType)
		assert.NotEmpty(t, rec.ID)
		require.NotNil(t, rec.ConfidenceScore)
		assert.GreaterOrEqual(t, *rec.ConfidenceScore, 0.0)
		assert.LessOrEqual(t, *rec.ConfidenceScore, 1.0)
		assert.Nil(t, rec.WasHelpful)
		assert.False(t, seen[rec.SuggestedActivity], "duplicate activity %s", rec.SuggestedActivity)
		seen[rec.SuggestedActivity] = true
	}

	mockRecs.AssertExpectations(t)
}

func TestRecommendationService_Generate_ConsentRequired(t *testing.T) {
	mockRecs := new(MockRecommendationRepository)
	mockMoods := new(MockMoodLookup)
	service := NewRecommendationService(mockRecs, mockMoods, zap.NewNop())

	user := &model.User{ID: "user-1", Consent: false}

	recs, err := service.Generate(context.Background(), user, GenerateRequest{MoodLevel: intRef(3)})

	assert.ErrorIs(t, err, ErrForbidden)
	assert.Nil(t, recs)
	mockRecs.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	mockRecs.AssertNotCalled(t, "ListRecent", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecommendationService_Generate_InvalidMoodLevel(t *testing.T) {
	service := NewRecommendationService(new(MockRecommendationRepository), new(MockMoodLookup), zap.NewNop())

	for _, level := range []int{0, 6, -1} {
		_, err := service.Generate(context.Background(), consentingUser(), GenerateRequest{MoodLevel: intRef(level)})
		assert.ErrorIs(t, err, ErrInvalidRequest, "level %d", level)
	}
}

func TestRecommendationService_Generate_TimeAvailableBounds(t *testing.T) {
	service := NewRecommendationService(new(MockRecommendationRepository), new(MockMoodLookup), zap.NewNop())

	for _, minutes := range []int{-10, 0, 4, 241} {
		_, err := service.Generate(context.Background(), consentingUser(), GenerateRequest{
			MoodLevel:     intRef(3),
			TimeAvailable: intRef(minutes),
		})
		assert.ErrorIs(t, err, ErrInvalidRequest, "minutes %d", minutes)
	}
}

func TestRecommendationService_Generate_PersistFailureReturnsNothing(t *testing.T) {
	mockRecs := new(MockRecommendationRepository)
	service := NewRecommendationService(mockRecs, new(MockMoodLookup), zap.NewNop())

	ctx := context.Background()
	user := consentingUser()

	mockRecs.On("ListRecent", ctx, user.ID, mock.AnythingOfType("time.Time")).
		Return([]model.Recommendation{}, nil)
	mockRecs.On("CreateBatch", ctx, mock.AnythingOfType("[]model.Recommendation")).
		Return(errors.New("connection lost"))

	recs, err := service.Generate(ctx, user, GenerateRequest{MoodLevel: intRef(2)})

	assert.Error(t, err)
	assert.Nil(t, recs)
}

func TestRecommendationService_Generate_RequiresMoodInput(t *testing.T) {
	service := NewRecommendationService(new(MockRecommendationRepository), new(MockMoodLookup), zap.NewNop())

	_, err := service.Generate(context.Background(), consentingUser(), GenerateRequest{})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestRecommendationService_Generate_MoodEntryOwnership(t *testing.T) {
	mockRecs := new(MockRecommendationRepository)
	mockMoods := new(MockMoodLookup)
	service := NewRecommendationService(mockRecs, mockMoods, zap.NewNop())

	ctx := context.Background()
	moodID := "mood-1"
	mockMoods.On("FindByID", ctx, moodID).
		Return(&model.MoodEntry{ID: moodID, UserID: "someone-else", Mood: 2}, nil)

	_, err := service.Generate(ctx, consentingUser(), GenerateRequest{MoodID: strRef(moodID)})

	assert.ErrorIs(t, err, ErrNotFound)
	mockMoods.AssertExpectations(t)
}

func TestRecommendationService_Generate_ResolvesMoodEntry(t *testing.T) {
	mockRecs := new(MockRecommendationRepository)
	mockMoods := new(MockMoodLookup)
	service := NewRecommendationService(mockRecs, mockMoods, zap.NewNop())

	ctx := context.Background()
	user := consentingUser()
	moodID := "mood-1"

	mockMoods.On("FindByID", ctx, moodID).
		Return(&model.MoodEntry{ID: moodID, UserID: user.ID, Mood: 1}, nil)
	mockRecs.On("ListRecent", ctx, user.ID, mock.AnythingOfType("time.Time")).
		Return([]model.Recommendation{}, nil)
	mockRecs.On("CreateBatch", ctx, mock.AnythingOfType("[]model.Recommendation")).Return(nil)

	recs, err := service.Generate(ctx, user, GenerateRequest{MoodID: strRef(moodID)})

	require.NoError(t, err)
	require.NotEmpty(t, recs)
	for _, rec := range recs {
		require.NotNil(t, rec.MoodID)
		assert.Equal(t, moodID, *rec.MoodID)
	}
	mockMoods.AssertExpectations(t)
}

func TestRecommendationService_Generate_SuppressesRecentActivity(t *testing.T) {
	ctx := context.Background()
	user := consentingUser()

	// First run with no recent history to learn the top pick.
	mockRecs := new(MockRecommendationRepository)
	service := NewRecommendationService(mockRecs, new(MockMoodLookup), zap.NewNop())
	mockRecs.On("ListRecent", ctx, user.ID, mock.AnythingOfType("time.Time")).
		Return([]model.Recommendation{}, nil)
	mockRecs.On("CreateBatch", ctx, mock.AnythingOfType("[]model.Recommendation")).Return(nil)

	first, err := service.Generate(ctx, user, GenerateRequest{MoodLevel: intRef(2)})
	require.NoError(t, err)
	require.NotEmpty(t, first)
	suppressed := first[0].SuggestedActivity

	// Second run reports that activity as recently suggested.
	mockRecs2 := new(MockRecommendationRepository)
	service2 := NewRecommendationService(mockRecs2, new(MockMoodLookup), zap.NewNop())
	mockRecs2.On("ListRecent", ctx, user.ID, mock.AnythingOfType("time.Time")).
		Return([]model.Recommendation{{SuggestedActivity: suppressed}}, nil)
	mockRecs2.On("CreateBatch", ctx, mock.AnythingOfType("[]model.Recommendation")).Return(nil)

	second, err := service2.Generate(ctx, user, GenerateRequest{MoodLevel: intRef(2)})
	require.NoError(t, err)
	for _, rec := range second {
		assert.NotEqual(t, suppressed, rec.SuggestedActivity)
	}
}

func TestRecommendationService_UpdateFeedback_Success(t *testing.T) {
	mockRecs := new(MockRecommendationRepository)
	service := NewRecommendationService(mockRecs, new(MockMoodLookup), zap.NewNop())

	ctx := context.Background()
	rec := &model.Recommendation{ID: "rec-1", UserID: "user-1", SuggestedActivity: "Méditation"}

	mockRecs.On("FindByID", ctx, "rec-1").Return(rec, nil)
	mockRecs.On("UpdateFeedback", ctx, "rec-1", true).Return(nil)

	updated, err := service.UpdateFeedback(ctx, "user-1", "rec-1", true)

	require.NoError(t, err)
	require.NotNil(t, updated.WasHelpful)
	assert.True(t, *updated.WasHelpful)
	mockRecs.AssertExpectations(t)
}

func TestRecommendationService_UpdateFeedback_NotFound(t *testing.T) {
	mockRecs := new(MockRecommendationRepository)
	service := NewRecommendationService(mockRecs, new(MockMoodLookup), zap.NewNop())

	ctx := context.Background()
	mockRecs.On("FindByID", ctx, "missing").Return(nil, nil)

	_, err := service.UpdateFeedback(ctx, "user-1", "missing", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecommendationService_UpdateFeedback_Ownership(t *testing.T) {
	mockRecs := new(MockRecommendationRepository)
	service := NewRecommendationService(mockRecs, new(MockMoodLookup), zap.NewNop())

	ctx := context.Background()
	rec := &model.Recommendation{ID: "rec-1", UserID: "someone-else"}
	mockRecs.On("FindByID", ctx, "rec-1").Return(rec, nil)

	_, err := service.UpdateFeedback(ctx, "user-1", "rec-1", false)

	assert.ErrorIs(t, err, ErrForbidden)
	mockRecs.AssertNotCalled(t, "UpdateFeedback", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecommendationService_ApplyFeedbackBatch_Empty(t *testing.T) {
	service := NewRecommendationService(new(MockRecommendationRepository), new(MockMoodLookup), zap.NewNop())

	_, err := service.ApplyFeedbackBatch(context.Background(), "user-1", nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestRecommendationService_ApplyFeedbackBatch_BestEffort(t *testing.T) {
	mockRecs := new(MockRecommendationRepository)
	service := NewRecommendationService(mockRecs, new(MockMoodLookup), zap.NewNop())

	ctx := context.Background()
	mockRecs.On("FindByID", ctx, "rec-1").
		Return(&model.Recommendation{ID: "rec-1", UserID: "user-1"}, nil)
	mockRecs.On("FindByID", ctx, "rec-2").
		Return(&model.Recommendation{ID: "rec-2", UserID: "user-1"}, nil)
	mockRecs.On("FindByID", ctx, "missing").Return(nil, nil)
	mockRecs.On("UpdateFeedback", ctx, "rec-1", true).Return(nil)
	mockRecs.On("UpdateFeedback", ctx, "rec-2", false).Return(nil)

	result, err := service.ApplyFeedbackBatch(ctx, "user-1", []FeedbackItem{
		{RecommendationID: "rec-1", WasHelpful: true},
		{RecommendationID: "missing", WasHelpful: true},
		{RecommendationID: "rec-2", WasHelpful: false},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 1, result.Errors)
	mockRecs.AssertExpectations(t)
}

func TestRecommendationService_GetStats_WindowValidation(t *testing.T) {
	service := NewRecommendationService(new(MockRecommendationRepository), new(MockMoodLookup), zap.NewNop())

	for _, days := range []int{0, -5, 366} {
		_, err := service.GetStats(context.Background(), "user-1", days)
		assert.ErrorIs(t, err, ErrInvalidRequest, "window %d", days)
	}
}

func TestRecommendationService_FeedbackSummary(t *testing.T) {
	mockRecs := new(MockRecommendationRepository)
	service := NewRecommendationService(mockRecs, new(MockMoodLookup), zap.NewNop())

	ctx := context.Background()
	now := time.Now()
	helpful := true
	notHelpful := false
	recs := []model.Recommendation{
		{ID: "r1", SuggestedActivity: "Méditation", Timestamp: now.Add(-time.Hour), WasHelpful: &helpful},
		{ID: "r2", SuggestedActivity: "Méditation", Timestamp: now.Add(-2 * time.Hour), WasHelpful: &notHelpful},
	}

	mockRecs.On("ListWithFeedback", ctx, "user-1", (*bool)(nil), mock.AnythingOfType("time.Time")).
		Return(recs, nil)

	summary, err := service.FeedbackSummary(ctx, "user-1", 30)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalFeedback)
	assert.Equal(t, 50.0, summary.HelpfulRate)
}

func TestRecommendationService_FeedbackSummary_RepositoryError(t *testing.T) {
	mockRecs := new(MockRecommendationRepository)
	service := NewRecommendationService(mockRecs, new(MockMoodLookup), zap.NewNop())

	ctx := context.Background()
	mockRecs.On("ListWithFeedback", ctx, "user-1", (*bool)(nil), mock.AnythingOfType("time.Time")).
		Return(nil, errors.New("connection lost"))

	_, err := service.FeedbackSummary(ctx, "user-1", 30)
	assert.Error(t, err)
}
