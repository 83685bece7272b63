package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/moodlift/moodlift-backend/pkg/model"
)

// setupTestDB creates a PostgreSQL testcontainer and returns the connection pool
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if testing.Short() {
		t.Skip("skipping container-backed repository tests in short mode")
	}

	ctx := context.Background()

	// Start PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("moodlift_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	// Get connection string
	connString, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Create connection pool
	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)

	// Run migrations
	runMigrations(t, pool)

	cleanup := func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return pool, cleanup
}

// runMigrations runs the database migrations
func runMigrations(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()

	// Create tables
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			hashed_password VARCHAR(255) NOT NULL DEFAULT '',
			role VARCHAR(50) NOT NULL DEFAULT 'user',
			consent BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS mood_entries (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			date VARCHAR(10) NOT NULL,
			mood INTEGER NOT NULL CHECK (mood >= 1 AND mood <= 5),
			notes TEXT,
			activity TEXT,
			sleep_hours DOUBLE PRECISION,
			stress_level INTEGER CHECK (stress_level >= 1 AND stress_level <= 5),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, date)
		)`,
		`CREATE TABLE IF NOT EXISTS recommendations (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			mood_id UUID REFERENCES mood_entries(id) ON DELETE SET NULL,
			suggested_activity TEXT NOT NULL,
			recommendation_type VARCHAR(50) NOT NULL,
			confidence_score DOUBLE PRECISION,
			timestamp TIMESTAMP NOT NULL DEFAULT NOW(),
			was_helpful BOOLEAN
		)`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			message TEXT NOT NULL,
			sender VARCHAR(10) NOT NULL,
			mood_detected VARCHAR(50),
			language VARCHAR(10),
			model_used VARCHAR(100),
			timestamp TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			token VARCHAR(255) UNIQUE NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			revoked BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL,
			operation_type VARCHAR(20) NOT NULL,
			resource_type VARCHAR(50) NOT NULL,
			resource_id VARCHAR(255),
			timestamp TIMESTAMP NOT NULL DEFAULT NOW(),
			ip_address VARCHAR(64),
			user_agent TEXT,
			additional_data JSONB
		)`,
	}

	for _, migration := range migrations {
		_, err := pool.Exec(ctx, migration)
		require.NoError(t, err)
	}
}

// createTestUser creates a test user and returns the user ID
func createTestUser(t *testing.T, pool *pgxpool.Pool) string {
	ctx := context.Background()
	userID := uuid.New().String()

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, name, email, consent) VALUES ($1, $2, $3, true)`,
		userID, "Test User", fmt.Sprintf("test-%s@example.com", userID))
	require.NoError(t, err)

	return userID
}

// Recommendation IDs stay unique and retrievable across many creations
func TestProperty_RecommendationCreationGeneratesUniqueIDs(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger, _ := zap.NewDevelopment()
	repo := NewRecommendationRepository(pool, logger)

	userID := createTestUser(t, pool)

	properties := gopter.NewProperties(nil)

	properties.Property("recommendation IDs are unique across multiple creations", prop.ForAll(
		func(n int) bool {
			ctx := context.Background()
			recIDs := make(map[string]bool)

			for i := 0; i < n; i++ {
				score := 0.8
				rec := &model.Recommendation{
					ID:                 uuid.New().String(),
					UserID:             userID,
					SuggestedActivity:  fmt.Sprintf("activity-%d", i),
					RecommendationType: model.RecommendationMoodBased,
					ConfidenceScore:    &score,
					Timestamp:          time.Now(),
				}

				err := repo.Create(ctx, rec)
				if err != nil {
					t.Logf("Failed to create recommendation: %v", err)
					return false
				}

				if recIDs[rec.ID] {
					t.Logf("Duplicate recommendation ID found: %s", rec.ID)
					return false
				}
				recIDs[rec.ID] = true
			}

			return len(recIDs) == n
		},
		gen.IntRange(1, 20),
	))

	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 20
	properties.TestingRun(t, params)
}

func TestRecommendationRepository_FeedbackLifecycle(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zap.NewNop()
	repo := NewRecommendationRepository(pool, logger)

	userID := createTestUser(t, pool)
	ctx := context.Background()

	rec := &model.Recommendation{
		ID:                 uuid.New().String(),
		UserID:             userID,
		SuggestedActivity:  "Faire une courte promenade",
		RecommendationType: model.RecommendationMoodBased,
		Timestamp:          time.Now(),
	}
	require.NoError(t, repo.Create(ctx, rec))

	// Starts pending
	pending, err := repo.ListPendingFeedback(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Nil(t, pending[0].WasHelpful)

	// Record feedback
	require.NoError(t, repo.UpdateFeedback(ctx, rec.ID, true))

	retrieved, err := repo.FindByID(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, retrieved.WasHelpful)
	assert.True(t, *retrieved.WasHelpful)

	// No longer pending
	pending, err = repo.ListPendingFeedback(ctx, userID, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Feedback is idempotent at the storage level
	require.NoError(t, repo.UpdateFeedback(ctx, rec.ID, true))

	// Unknown recommendation reports not found
	assert.Error(t, repo.UpdateFeedback(ctx, uuid.New().String(), true))
}

func TestRecommendationRepository_Stats(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zap.NewNop()
	repo := NewRecommendationRepository(pool, logger)

	userID := createTestUser(t, pool)
	ctx := context.Background()

	verdicts := []*bool{boolRef(true), boolRef(true), boolRef(false), nil}
	for i, v := range verdicts {
		rec := &model.Recommendation{
			ID:                 uuid.New().String(),
			UserID:             userID,
			SuggestedActivity:  "Méditation",
			RecommendationType: model.RecommendationMoodBased,
			Timestamp:          time.Now().Add(-time.Duration(i) * time.Hour),
			WasHelpful:         v,
		}
		require.NoError(t, repo.Create(ctx, rec))
	}

	stats, err := repo.GetStats(ctx, userID, time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalRecommendations)
	assert.Equal(t, 2, stats.HelpfulCount)
	assert.Equal(t, 1, stats.NotHelpfulCount)
	assert.Equal(t, 1, stats.PendingFeedback)
	assert.InDelta(t, 66.7, stats.HelpfulnessRate, 1e-9)
	require.NotNil(t, stats.MostRecommended)
	assert.Equal(t, "Méditation", *stats.MostRecommended)
}

func TestRecommendationRepository_StatsRateIsPercentage(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewRecommendationRepository(pool, zap.NewNop())

	userID := createTestUser(t, pool)
	ctx := context.Background()

	for _, v := range []*bool{boolRef(true), boolRef(false)} {
		rec := &model.Recommendation{
			ID:                 uuid.New().String(),
			UserID:             userID,
			SuggestedActivity:  "Faire une courte promenade",
			RecommendationType: model.RecommendationMoodBased,
			Timestamp:          time.Now(),
			WasHelpful:         v,
		}
		require.NoError(t, repo.Create(ctx, rec))
	}

	stats, err := repo.GetStats(ctx, userID, time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, 50.0, stats.HelpfulnessRate)
}

func TestRecommendationRepository_CreateBatchIsAtomic(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewRecommendationRepository(pool, zap.NewNop())

	userID := createTestUser(t, pool)
	ctx := context.Background()

	sharedID := uuid.New().String()
	batch := []model.Recommendation{
		{
			ID:                 uuid.New().String(),
			UserID:             userID,
			SuggestedActivity:  "Méditation",
			RecommendationType: model.RecommendationMoodBased,
			Timestamp:          time.Now(),
		},
		{
			ID:                 sharedID,
			UserID:             userID,
			SuggestedActivity:  "Faire une courte promenade",
			RecommendationType: model.RecommendationMoodBased,
			Timestamp:          time.Now(),
		},
		// Duplicate ID makes the third insert fail mid-batch.
		{
			ID:                 sharedID,
			UserID:             userID,
			SuggestedActivity:  "Tenir un journal de gratitude",
			RecommendationType: model.RecommendationMoodBased,
			Timestamp:          time.Now(),
		},
	}

	require.Error(t, repo.CreateBatch(ctx, batch))

	// The earlier inserts of the failed batch were rolled back.
	recs, err := repo.ListByUser(ctx, userID, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, recs)

	// A clean batch persists every row.
	require.NoError(t, repo.CreateBatch(ctx, batch[:2]))
	recs, err = repo.ListByUser(ctx, userID, 0, 10)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestMoodRepository_UniqueEntryPerUserAndDate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zap.NewNop()
	repo := NewMoodRepository(pool, logger)

	userID := createTestUser(t, pool)
	ctx := context.Background()

	entry := &model.MoodEntry{
		ID:     uuid.New().String(),
		UserID: userID,
		Date:   "2026-03-10",
		Mood:   4,
	}
	require.NoError(t, repo.Create(ctx, entry))

	// Second entry on the same date violates the uniqueness constraint
	dup := &model.MoodEntry{
		ID:     uuid.New().String(),
		UserID: userID,
		Date:   "2026-03-10",
		Mood:   2,
	}
	assert.Error(t, repo.Create(ctx, dup))

	found, err := repo.FindByUserAndDate(ctx, userID, "2026-03-10")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, entry.ID, found.ID)
	assert.Equal(t, 4, found.Mood)

	// Missing date resolves to nil, not an error
	missing, err := repo.FindByUserAndDate(ctx, userID, "2026-03-11")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_SoftDeleteHidesAccount(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zap.NewNop()
	repo := NewUserRepository(pool, logger)

	ctx := context.Background()
	user := &model.User{
		ID:             uuid.New().String(),
		Name:           "Jeanne",
		Email:          fmt.Sprintf("jeanne-%s@example.com", uuid.New().String()),
		HashedPassword: "hash",
		Role:           "user",
		Consent:        true,
	}
	require.NoError(t, repo.Create(ctx, user))

	found, err := repo.FindByEmail(ctx, user.Email)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	require.NoError(t, repo.SoftDelete(ctx, user.ID))

	gone, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func boolRef(b bool) *bool { return &b }
