package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/moodlift/moodlift-backend/internal/pdf"
	"github.com/moodlift/moodlift-backend/internal/recommend"
	"github.com/moodlift/moodlift-backend/pkg/model"
)

// ReportService builds downloadable wellness reports
type ReportService struct {
	moods  MoodRepositoryInterface
	recs   RecommendationRepositoryInterface
	stats  *StatsService
	pdfGen *pdf.PDFGenerator
	logger *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	moods MoodRepositoryInterface,
	recs RecommendationRepositoryInterface,
	stats *StatsService,
	pdfGen *pdf.PDFGenerator,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		moods:  moods,
		recs:   recs,
		stats:  stats,
		pdfGen: pdfGen,
		logger: logger,
	}
}

// GenerateReport renders a PDF wellness report over the trailing window and
// returns the document with a suggested filename. Consent is required.
func (s *ReportService) GenerateReport(ctx context.Context, user *model.User, windowDays int) ([]byte, string, error) {
	if !user.Consent {
		return nil, "", fmt.Errorf("%w: consent required to generate reports", ErrForbidden)
	}
	if windowDays < minWindowDays || windowDays > maxWindowDays {
		return nil, "", fmt.Errorf("%w: window must be between %d and %d days", ErrInvalidRequest, minWindowDays, maxWindowDays)
	}

	s.logger.Info("generating wellness report",
		zap.String("user_id", user.ID),
		zap.Int("window_days", windowDays),
	)

	overall, err := s.stats.GetOverallStats(ctx, user.ID, windowDays)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	start := now.AddDate(0, 0, -(windowDays - 1))

	entries, err := s.moods.ListByDateRange(ctx, user.ID, start.Format(dateLayout), now.Format(dateLayout))
	if err != nil {
		return nil, "", fmt.Errorf("failed to load mood entries: %w", err)
	}

	recs, err := s.recs.ListWithFeedback(ctx, user.ID, nil, now.AddDate(0, 0, -windowDays))
	if err != nil {
		return nil, "", fmt.Errorf("failed to load feedback: %w", err)
	}

	reportData := &pdf.ReportData{
		UserName:                user.Name,
		DateRange:               fmt.Sprintf("%s to %s", overall.PeriodStart, overall.PeriodEnd),
		WellnessScore:           overall.WellnessScore,
		AverageMood:             overall.AverageMood,
		AverageStress:           overall.AverageStress,
		AverageSleep:            overall.AverageSleep,
		MoodEntries:             entries,
		Effectiveness:           recommend.EffectivenessReport(recs, windowDays, now),
		Insights:                overall.Insights,
		RecommendationsReceived: overall.RecommendationsReceived,
		RecommendationsHelpful:  overall.RecommendationsHelpful,
	}

	pdfBytes, err := s.pdfGen.Generate(reportData)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate PDF: %w", err)
	}

	filename := fmt.Sprintf("wellness-report_%s.pdf", now.Format("20060102"))

	s.logger.Info("wellness report generated",
		zap.String("user_id", user.ID),
		zap.Int("size_bytes", len(pdfBytes)),
	)

	return pdfBytes, filename, nil
}
