package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/moodlift/moodlift-backend/pkg/model"
)

// MockMoodRepository is a mock implementation of MoodRepositoryInterface
type MockMoodRepository struct {
	mock.Mock
}

func (m *MockMoodRepository) Create(ctx context.Context, entry *model.MoodEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockMoodRepository) FindByID(ctx context.Context, moodID string) (*model.MoodEntry, error) {
	args := m.Called(ctx, moodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MoodEntry), args.Error(1)
}

func (m *MockMoodRepository) FindByUserAndDate(ctx context.Context, userID, date string) (*model.MoodEntry, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MoodEntry), args.Error(1)
}

func (m *MockMoodRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.MoodEntry, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MoodEntry), args.Error(1)
}

func (m *MockMoodRepository) ListByDateRange(ctx context.Context, userID, startDate, endDate string) ([]model.MoodEntry, error) {
	args := m.Called(ctx, userID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MoodEntry), args.Error(1)
}

func (m *MockMoodRepository) Update(ctx context.Context, entry *model.MoodEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockMoodRepository) Delete(ctx context.Context, moodID string) error {
	args := m.Called(ctx, moodID)
	return args.Error(0)
}

func TestMoodService_Create_Success(t *testing.T) {
	mockRepo := new(MockMoodRepository)
	service := NewMoodService(mockRepo, zap.NewNop())

	ctx := context.Background()
	user := consentingUser()

	mockRepo.On("FindByUserAndDate", ctx, user.ID, "2026-03-02").Return(nil, nil)
	mockRepo.On("Create", ctx, mock.AnythingOfType("*model.MoodEntry")).Return(nil)

	entry, err := service.Create(ctx, user, MoodEntryInput{
		Date: "2026-03-02",
		Mood: 4,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, user.ID, entry.UserID)
	assert.Equal(t, "2026-03-02", entry.Date)
	assert.Equal(t, 4, entry.Mood)
	mockRepo.AssertExpectations(t)
}

func TestMoodService_Create_ConsentRequired(t *testing.T) {
	mockRepo := new(MockMoodRepository)
	service := NewMoodService(mockRepo, zap.NewNop())

	user := &model.User{ID: "user-1", Consent: false}
	_, err := service.Create(context.Background(), user, MoodEntryInput{Date: "2026-03-02", Mood: 3})

	assert.ErrorIs(t, err, ErrForbidden)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMoodService_Create_Validation(t *testing.T) {
	service := NewMoodService(new(MockMoodRepository), zap.NewNop())
	ctx := context.Background()
	user := consentingUser()

	cases := []struct {
		name  string
		input MoodEntryInput
	}{
		{"bad date format", MoodEntryInput{Date: "02/03/2026", Mood: 3}},
		{"mood too low", MoodEntryInput{Date: "2026-03-02", Mood: 0}},
		{"mood too high", MoodEntryInput{Date: "2026-03-02", Mood: 6}},
		{"stress out of range", MoodEntryInput{Date: "2026-03-02", Mood: 3, StressLevel: intRef(7)}},
		{"negative sleep", MoodEntryInput{Date: "2026-03-02", Mood: 3, SleepHours: floatRef(-1)}},
		{"sleep over a day", MoodEntryInput{Date: "2026-03-02", Mood: 3, SleepHours: floatRef(25)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Create(ctx, user, tc.input)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestMoodService_Create_DuplicateDate(t *testing.T) {
	mockRepo := new(MockMoodRepository)
	service := NewMoodService(mockRepo, zap.NewNop())

	ctx := context.Background()
	user := consentingUser()

	existing := &model.MoodEntry{ID: "entry-1", UserID: user.ID, Date: "2026-03-02", Mood: 3}
	mockRepo.On("FindByUserAndDate", ctx, user.ID, "2026-03-02").Return(existing, nil)

	_, err := service.Create(ctx, user, MoodEntryInput{Date: "2026-03-02", Mood: 5})

	assert.ErrorIs(t, err, ErrConflict)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMoodService_GetByID_Ownership(t *testing.T) {
	mockRepo := new(MockMoodRepository)
	service := NewMoodService(mockRepo, zap.NewNop())

	ctx := context.Background()
	entry := &model.MoodEntry{ID: "entry-1", UserID: "someone-else", Mood: 3}
	mockRepo.On("FindByID", ctx, "entry-1").Return(entry, nil)

	_, err := service.GetByID(ctx, "user-1", "entry-1")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestMoodService_Update_DateImmutable(t *testing.T) {
	mockRepo := new(MockMoodRepository)
	service := NewMoodService(mockRepo, zap.NewNop())

	ctx := context.Background()
	stored := &model.MoodEntry{ID: "entry-1", UserID: "user-1", Date: "2026-03-02", Mood: 2}
	mockRepo.On("FindByID", ctx, "entry-1").Return(stored, nil)
	mockRepo.On("Update", ctx, mock.MatchedBy(func(e *model.MoodEntry) bool {
		return e.Date == "2026-03-02" && e.Mood == 4
	})).Return(nil)

	updated, err := service.Update(ctx, "user-1", "entry-1", MoodEntryInput{
		Date: "2026-04-15", // ignored
		Mood: 4,
	})

	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", updated.Date)
	assert.Equal(t, 4, updated.Mood)
	mockRepo.AssertExpectations(t)
}

func TestMoodService_Delete_NotFound(t *testing.T) {
	mockRepo := new(MockMoodRepository)
	service := NewMoodService(mockRepo, zap.NewNop())

	ctx := context.Background()
	mockRepo.On("FindByID", ctx, "missing").Return(nil, nil)

	err := service.Delete(ctx, "user-1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestMoodService_ListByDateRange_Validation(t *testing.T) {
	service := NewMoodService(new(MockMoodRepository), zap.NewNop())
	ctx := context.Background()

	_, err := service.ListByDateRange(ctx, "user-1", "2026-03-10", "2026-03-01")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = service.ListByDateRange(ctx, "user-1", "not-a-date", "2026-03-01")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestMoodService_GetStats(t *testing.T) {
	mockRepo := new(MockMoodRepository)
	service := NewMoodService(mockRepo, zap.NewNop())

	ctx := context.Background()
	entries := []model.MoodEntry{
		{Mood: 3, SleepHours: floatRef(8), StressLevel: intRef(2)},
		{Mood: 4, SleepHours: floatRef(6)},
		{Mood: 5},
	}
	mockRepo.On("ListByDateRange", ctx, "user-1", mock.AnythingOfType("string"), mock.AnythingOfType("string")).
		Return(entries, nil)

	stats, err := service.GetStats(ctx, "user-1", 30)

	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalEntries)
	assert.Equal(t, 4.0, stats.AverageMood)
	require.NotNil(t, stats.AverageSleep)
	assert.Equal(t, 7.0, *stats.AverageSleep)
	require.NotNil(t, stats.AverageStress)
	assert.Equal(t, 2.0, *stats.AverageStress)
}

func TestMoodService_GetStats_Empty(t *testing.T) {
	mockRepo := new(MockMoodRepository)
	service := NewMoodService(mockRepo, zap.NewNop())

	ctx := context.Background()
	mockRepo.On("ListByDateRange", ctx, "user-1", mock.AnythingOfType("string"), mock.AnythingOfType("string")).
		Return([]model.MoodEntry{}, nil)

	stats, err := service.GetStats(ctx, "user-1", 7)

	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalEntries)
	assert.Zero(t, stats.AverageMood)
	assert.Nil(t, stats.AverageSleep)
	assert.Nil(t, stats.AverageStress)
}

func floatRef(v float64) *float64 { return &v }
