package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/moodlift/moodlift-backend/internal/audit"
	"github.com/moodlift/moodlift-backend/internal/config"
	"github.com/moodlift/moodlift-backend/internal/handler"
	"github.com/moodlift/moodlift-backend/internal/middleware"
	"github.com/moodlift/moodlift-backend/internal/nlp"
	"github.com/moodlift/moodlift-backend/internal/pdf"
	"github.com/moodlift/moodlift-backend/internal/repository"
	"github.com/moodlift/moodlift-backend/internal/security"
	"github.com/moodlift/moodlift-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.Info("Starting moodlift backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	ctx := context.Background()

	pool, err := newDatabasePool(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Database ping failed", zap.Error(err))
	}
	logger.Info("Database connection established")

	tokenManager, err := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	if err != nil {
		logger.Fatal("Failed to initialize token manager", zap.Error(err))
	}

	analyzer := nlp.NewAnalyzer(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model, logger)
	auditLogger := audit.NewLogger(pool, logger)
	pdfGenerator := pdf.NewPDFGenerator(logger)

	// Repositories
	userRepo := repository.NewUserRepository(pool, logger)
	refreshTokenRepo := repository.NewRefreshTokenRepository(pool, logger)
	moodRepo := repository.NewMoodRepository(pool, logger)
	recommendationRepo := repository.NewRecommendationRepository(pool, logger)
	chatRepo := repository.NewChatRepository(pool, logger)

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, tokenManager, cfg.JWT.RefreshTokenTTL, logger)
	moodService := service.NewMoodService(moodRepo, logger)
	recommendationService := service.NewRecommendationService(recommendationRepo, moodRepo, logger)
	chatService := service.NewChatService(chatRepo, analyzer, logger)
	statsService := service.NewStatsService(moodRepo, chatRepo, recommendationRepo, logger)
	gdprService := service.NewGDPRService(pool, auditLogger, logger)
	reportService := service.NewReportService(moodRepo, recommendationRepo, statsService, pdfGenerator, logger)

	// Handlers
	healthHandler := handler.NewHealthHandler(pool, logger)
	authHandler := handler.NewAuthHandler(authService, logger)
	moodHandler := handler.NewMoodHandler(moodService, authService, logger)
	recommendationHandler := handler.NewRecommendationHandler(recommendationService, authService, cfg.Recommend.FeedbackWindowDays, logger)
	chatHandler := handler.NewChatHandler(chatService, authService, logger)
	statsHandler := handler.NewStatsHandler(statsService, logger)
	gdprHandler := handler.NewGDPRHandler(gdprService, logger)
	reportHandler := handler.NewReportHandler(reportService, authService, logger)

	router := newRouter(cfg, logger)
	registerRoutes(router, tokenManager, logger,
		healthHandler, authHandler, moodHandler, recommendationHandler,
		chatHandler, statsHandler, gdprHandler, reportHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Server.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func newDatabasePool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	return pgxpool.NewWithConfig(ctx, poolCfg)
}

func newRouter(cfg *config.Config, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLoggingMiddleware(logger))
	router.Use(middleware.ErrorLoggingMiddleware(logger))

	return router
}

func registerRoutes(
	router *gin.Engine,
	tokenManager *security.TokenManager,
	logger *zap.Logger,
	health *handler.HealthHandler,
	auth *handler.AuthHandler,
	moods *handler.MoodHandler,
	recommendations *handler.RecommendationHandler,
	chat *handler.ChatHandler,
	stats *handler.StatsHandler,
	gdpr *handler.GDPRHandler,
	reports *handler.ReportHandler,
) {
	router.GET("/health", health.GetHealth)

	v1 := router.Group("/api/v1")

	v1.POST("/auth/register", auth.Register)
	v1.POST("/auth/login", auth.Login)
	v1.POST("/auth/refresh", auth.Refresh)

	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware(tokenManager, logger))

	authed.POST("/auth/logout", auth.Logout)
	authed.GET("/users/me", auth.GetMe)
	authed.PUT("/users/me/consent", auth.UpdateConsent)

	authed.POST("/moods", moods.Create)
	authed.GET("/moods", moods.List)
	authed.GET("/moods/range", moods.ListByDateRange)
	authed.GET("/moods/stats", moods.GetStats)
	authed.GET("/moods/:moodId", moods.Get)
	authed.PUT("/moods/:moodId", moods.Update)
	authed.DELETE("/moods/:moodId", moods.Delete)

	authed.POST("/recommendations/generate", recommendations.Generate)
	authed.GET("/recommendations", recommendations.List)
	authed.GET("/recommendations/pending-feedback", recommendations.ListPendingFeedback)
	authed.GET("/recommendations/with-feedback", recommendations.ListWithFeedback)
	authed.GET("/recommendations/stats", recommendations.GetStats)
	authed.GET("/recommendations/feedback-summary", recommendations.GetFeedbackSummary)
	authed.GET("/recommendations/effectiveness", recommendations.GetEffectiveness)
	authed.GET("/recommendations/:recommendationId", recommendations.Get)
	authed.PUT("/recommendations/:recommendationId/feedback", recommendations.UpdateFeedback)
	authed.POST("/recommendations/feedback/batch", recommendations.ApplyFeedbackBatch)

	authed.POST("/chat/messages", chat.SendMessage)
	authed.GET("/chat/messages", chat.GetHistory)
	authed.GET("/chat/stats", chat.GetStats)

	authed.GET("/stats/overview", stats.GetOverview)
	authed.GET("/stats/trends/weekly", stats.GetWeeklyTrends)
	authed.GET("/stats/distribution", stats.GetDistribution)
	authed.GET("/stats/daily", stats.GetDailySeries)
	authed.GET("/stats/comparison", stats.GetComparison)

	authed.GET("/users/me/export", gdpr.ExportUserData)
	authed.DELETE("/users/me", gdpr.DeleteUserData)
	authed.POST("/users/me/anonymize", gdpr.AnonymizeUserData)

	authed.GET("/reports/wellness", reports.GenerateReport)
}
