package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/moodlift/moodlift-backend/pkg/model"
)

const (
	minTrendWeeks = 1
	maxTrendWeeks = 52

	// Weekly slope thresholds separating improving and declining trends.
	trendSlopeThreshold = 0.1

	// Period-over-period mood change thresholds.
	muchBetterDelta = 0.5
	betterDelta     = 0.2

	maxInsights = 3
)

// StatsService aggregates wellness statistics across moods, conversations
// and recommendations.
type StatsService struct {
	moods  MoodRepositoryInterface
	chats  ChatRepositoryInterface
	recs   RecommendationRepositoryInterface
	logger *zap.Logger
}

// NewStatsService creates a new StatsService
func NewStatsService(
	moods MoodRepositoryInterface,
	chats ChatRepositoryInterface,
	recs RecommendationRepositoryInterface,
	logger *zap.Logger,
) *StatsService {
	return &StatsService{
		moods:  moods,
		chats:  chats,
		recs:   recs,
		logger: logger,
	}
}

// OverallStats is the cross-domain wellness summary for one user
type OverallStats struct {
	PeriodStart             string   `json:"period_start"`
	PeriodEnd               string   `json:"period_end"`
	MoodEntriesCount        int      `json:"mood_entries_count"`
	AverageMood             float64  `json:"average_mood"`
	AverageSleep            *float64 `json:"average_sleep"`
	AverageStress           *float64 `json:"average_stress"`
	ChatMessagesCount       int      `json:"chat_messages_count"`
	RecommendationsReceived int      `json:"recommendations_received"`
	RecommendationsHelpful  int      `json:"recommendations_helpful"`
	WellnessScore           float64  `json:"wellness_score"`
	Insights                []string `json:"insights"`
}

// GetOverallStats builds the combined wellness summary over the trailing
// window, including the 0-100 wellness score and personalized insights.
func (s *StatsService) GetOverallStats(ctx context.Context, userID string, windowDays int) (*OverallStats, error) {
	if windowDays < minWindowDays || windowDays > maxWindowDays {
		return nil, fmt.Errorf("%w: window must be between %d and %d days", ErrInvalidRequest, minWindowDays, maxWindowDays)
	}

	now := time.Now()
	since := now.AddDate(0, 0, -windowDays)

	entries, err := s.moods.ListByDateRange(ctx, userID, since.Format(dateLayout), now.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to load mood entries: %w", err)
	}

	chatStats, err := s.chats.GetStats(ctx, userID, since, windowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat stats: %w", err)
	}

	recoStats, err := s.recs.GetStats(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendation stats: %w", err)
	}

	stats := &OverallStats{
		PeriodStart:             since.Format(dateLayout),
		PeriodEnd:               now.Format(dateLayout),
		MoodEntriesCount:        len(entries),
		ChatMessagesCount:       chatStats.MessagesUser,
		RecommendationsReceived: recoStats.TotalRecommendations,
		RecommendationsHelpful:  recoStats.HelpfulCount,
		Insights:                generateInsights(entries, windowDays),
	}

	var stressSum, sleepSum float64
	var moodSum, stressCount, sleepCount int
	for _, e := range entries {
		moodSum += e.Mood
		if e.StressLevel != nil {
			stressSum += float64(*e.StressLevel)
			stressCount++
		}
		if e.SleepHours != nil {
			sleepSum += *e.SleepHours
			sleepCount++
		}
	}
	if len(entries) > 0 {
		stats.AverageMood = round2(float64(moodSum) / float64(len(entries)))
	}
	if stressCount > 0 {
		avg := round2(stressSum / float64(stressCount))
		stats.AverageStress = &avg
	}
	if sleepCount > 0 {
		avg := round2(sleepSum / float64(sleepCount))
		stats.AverageSleep = &avg
	}

	stats.WellnessScore = wellnessScore(stats.AverageMood, len(entries), chatStats.MessagesUser, recoStats.HelpfulnessRate)

	return stats, nil
}

// WeeklyMoodTrend summarizes one calendar week of mood entries
type WeeklyMoodTrend struct {
	WeekStart     string   `json:"week_start"`
	WeekEnd       string   `json:"week_end"`
	EntriesCount  int      `json:"entries_count"`
	AverageMood   float64  `json:"average_mood"`
	AverageStress *float64 `json:"average_stress"`
	AverageSleep  *float64 `json:"average_sleep"`
	MoodTrend     string   `json:"mood_trend"`
}

// GetWeeklyTrends computes per-week mood averages for the trailing weeks,
// oldest week first. Weeks without entries appear with a stable trend.
func (s *StatsService) GetWeeklyTrends(ctx context.Context, userID string, weeks int) ([]WeeklyMoodTrend, error) {
	if weeks < minTrendWeeks || weeks > maxTrendWeeks {
		return nil, fmt.Errorf("%w: weeks must be between %d and %d", ErrInvalidRequest, minTrendWeeks, maxTrendWeeks)
	}

	now := time.Now()
	trends := make([]WeeklyMoodTrend, 0, weeks)

	for week := 0; week < weeks; week++ {
		weekEnd := now.AddDate(0, 0, -7*week)
		weekStart := weekEnd.AddDate(0, 0, -6)

		entries, err := s.moods.ListByDateRange(ctx, userID, weekStart.Format(dateLayout), weekEnd.Format(dateLayout))
		if err != nil {
			return nil, fmt.Errorf("failed to load mood entries: %w", err)
		}

		trend := WeeklyMoodTrend{
			WeekStart:    weekStart.Format(dateLayout),
			WeekEnd:      weekEnd.Format(dateLayout),
			EntriesCount: len(entries),
			MoodTrend:    "stable",
		}
		if len(entries) > 0 {
			moods := make([]int, 0, len(entries))
			var moodSum, stressSum, stressCount int
			var sleepSum float64
			var sleepCount int
			for _, e := range entries {
				moods = append(moods, e.Mood)
				moodSum += e.Mood
				if e.StressLevel != nil {
					stressSum += *e.StressLevel
					stressCount++
				}
				if e.SleepHours != nil {
					sleepSum += *e.SleepHours
					sleepCount++
				}
			}
			trend.AverageMood = round2(float64(moodSum) / float64(len(entries)))
			if stressCount > 0 {
				avg := round2(float64(stressSum) / float64(stressCount))
				trend.AverageStress = &avg
			}
			if sleepCount > 0 {
				avg := round2(sleepSum / float64(sleepCount))
				trend.AverageSleep = &avg
			}
			trend.MoodTrend = trendLabel(moods)
		}
		trends = append(trends, trend)
	}

	// Oldest week first.
	for i, j := 0, len(trends)-1; i < j; i, j = i+1, j-1 {
		trends[i], trends[j] = trends[j], trends[i]
	}

	return trends, nil
}

// MoodLevelShare is the count and percentage of one mood level
type MoodLevelShare struct {
	Mood       int     `json:"mood"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// MoodDistribution is the spread of recorded mood levels over a window
type MoodDistribution struct {
	TotalEntries   int              `json:"total_entries"`
	Levels         []MoodLevelShare `json:"levels"`
	MostCommonMood *int             `json:"most_common_mood"`
}

// GetMoodDistribution counts entries per mood level over the trailing window
func (s *StatsService) GetMoodDistribution(ctx context.Context, userID string, windowDays int) (*MoodDistribution, error) {
	if windowDays < minWindowDays || windowDays > maxWindowDays {
		return nil, fmt.Errorf("%w: window must be between %d and %d days", ErrInvalidRequest, minWindowDays, maxWindowDays)
	}

	now := time.Now()
	since := now.AddDate(0, 0, -windowDays)

	entries, err := s.moods.ListByDateRange(ctx, userID, since.Format(dateLayout), now.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to load mood entries: %w", err)
	}

	var counts [6]int
	for _, e := range entries {
		if e.Mood >= 1 && e.Mood <= 5 {
			counts[e.Mood]++
		}
	}

	dist := &MoodDistribution{
		TotalEntries: len(entries),
		Levels:       make([]MoodLevelShare, 0, 5),
	}
	for mood := 1; mood <= 5; mood++ {
		share := MoodLevelShare{Mood: mood, Count: counts[mood]}
		if dist.TotalEntries > 0 {
			share.Percentage = round1(float64(counts[mood]) / float64(dist.TotalEntries) * 100)
		}
		dist.Levels = append(dist.Levels, share)
	}
	if dist.TotalEntries > 0 {
		most := 1
		for mood := 2; mood <= 5; mood++ {
			if counts[mood] > counts[most] {
				most = mood
			}
		}
		dist.MostCommonMood = &most
	}

	return dist, nil
}

// DailyMoodPoint is one calendar day on the mood chart. Days without an
// entry keep nil values so charts can show gaps.
type DailyMoodPoint struct {
	Date   string   `json:"date"`
	Mood   *int     `json:"mood"`
	Stress *int     `json:"stress"`
	Sleep  *float64 `json:"sleep"`
}

// GetDailySeries returns one point per day over the trailing window,
// including days without an entry.
func (s *StatsService) GetDailySeries(ctx context.Context, userID string, windowDays int) ([]DailyMoodPoint, error) {
	if windowDays < minWindowDays || windowDays > maxWindowDays {
		return nil, fmt.Errorf("%w: window must be between %d and %d days", ErrInvalidRequest, minWindowDays, maxWindowDays)
	}

	end := time.Now()
	start := end.AddDate(0, 0, -(windowDays - 1))

	entries, err := s.moods.ListByDateRange(ctx, userID, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to load mood entries: %w", err)
	}

	byDate := make(map[string]model.MoodEntry, len(entries))
	for _, e := range entries {
		byDate[e.Date] = e
	}

	points := make([]DailyMoodPoint, 0, windowDays)
	for day := 0; day < windowDays; day++ {
		date := start.AddDate(0, 0, day).Format(dateLayout)
		point := DailyMoodPoint{Date: date}
		if e, ok := byDate[date]; ok {
			mood := e.Mood
			point.Mood = &mood
			point.Stress = e.StressLevel
			point.Sleep = e.SleepHours
		}
		points = append(points, point)
	}

	return points, nil
}

// PeriodComparison contrasts the current window with the preceding one
type PeriodComparison struct {
	CurrentPeriod        string  `json:"current_period"`
	PreviousPeriod       string  `json:"previous_period"`
	CurrentAverageMood   float64 `json:"current_average_mood"`
	PreviousAverageMood  float64 `json:"previous_average_mood"`
	MoodChange           float64 `json:"mood_change"`
	MoodChangePercentage float64 `json:"mood_change_percentage"`
	Trend                string  `json:"trend"`
}

// GetPeriodComparison compares average mood of the trailing window against
// the window immediately before it. Returns nil when either period has no
// entries.
func (s *StatsService) GetPeriodComparison(ctx context.Context, userID string, windowDays int) (*PeriodComparison, error) {
	if windowDays < minWindowDays || windowDays > maxWindowDays {
		return nil, fmt.Errorf("%w: window must be between %d and %d days", ErrInvalidRequest, minWindowDays, maxWindowDays)
	}

	end := time.Now()
	currentStart := end.AddDate(0, 0, -(windowDays - 1))
	previousEnd := currentStart.AddDate(0, 0, -1)
	previousStart := previousEnd.AddDate(0, 0, -(windowDays - 1))

	current, err := s.moods.ListByDateRange(ctx, userID, currentStart.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to load current period: %w", err)
	}
	previous, err := s.moods.ListByDateRange(ctx, userID, previousStart.Format(dateLayout), previousEnd.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to load previous period: %w", err)
	}
	if len(current) == 0 || len(previous) == 0 {
		return nil, nil
	}

	currentAvg := moodAverage(current)
	previousAvg := moodAverage(previous)
	change := currentAvg - previousAvg

	var changePct float64
	if previousAvg > 0 {
		changePct = change / previousAvg * 100
	}

	var trend string
	switch {
	case change >= muchBetterDelta:
		trend = "much_better"
	case change >= betterDelta:
		trend = "better"
	case change <= -muchBetterDelta:
		trend = "much_worse"
	case change <= -betterDelta:
		trend = "worse"
	default:
		trend = "stable"
	}

	return &PeriodComparison{
		CurrentPeriod:        fmt.Sprintf("%s - %s", currentStart.Format(dateLayout), end.Format(dateLayout)),
		PreviousPeriod:       fmt.Sprintf("%s - %s", previousStart.Format(dateLayout), previousEnd.Format(dateLayout)),
		CurrentAverageMood:   round2(currentAvg),
		PreviousAverageMood:  round2(previousAvg),
		MoodChange:           round2(change),
		MoodChangePercentage: round1(changePct),
		Trend:                trend,
	}, nil
}

// wellnessScore blends mood level, tracking regularity, companion engagement
// and recommendation usefulness into a 0-100 score centered at 50.
// helpfulRate is a percentage in [0, 100].
func wellnessScore(averageMood float64, entriesCount, chatMessages int, helpfulRate float64) float64 {
	score := 50.0

	if averageMood > 0 {
		// Mood level contributes up to 40 points, centered on the scale midpoint.
		score += (averageMood-1)/4*40 - 20
	}

	switch {
	case entriesCount >= 20:
		score += 15
	case entriesCount >= 10:
		score += 10
	case entriesCount >= 5:
		score += 5
	}

	switch {
	case chatMessages >= 10:
		score += 7
	case chatMessages >= 5:
		score += 5
	case chatMessages >= 1:
		score += 3
	}

	switch {
	case helpfulRate >= 70:
		score += 8
	case helpfulRate >= 50:
		score += 5
	case helpfulRate >= 30:
		score += 3
	}

	return math.Max(0, math.Min(100, round1(score)))
}

// trendLabel fits a least-squares slope to the mood series and labels it
// improving, declining or stable.
func trendLabel(moods []int) string {
	n := len(moods)
	if n < 2 {
		return "stable"
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, mood := range moods {
		x := float64(i)
		y := float64(mood)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	slope := (float64(n)*sumXY - sumX*sumY) / (float64(n)*sumX2 - sumX*sumX)

	switch {
	case slope > trendSlopeThreshold:
		return "improving"
	case slope < -trendSlopeThreshold:
		return "declining"
	default:
		return "stable"
	}
}

// generateInsights derives up to three coaching observations from the
// mood entries of the window.
func generateInsights(entries []model.MoodEntry, windowDays int) []string {
	insights := make([]string, 0, maxInsights)

	if len(entries) == 0 {
		return append(insights, "Commencez à enregistrer votre humeur quotidiennement pour obtenir des insights personnalisés.")
	}

	switch {
	case float64(len(entries)) >= float64(windowDays)*0.8:
		insights = append(insights, "Excellente régularité dans le suivi de votre humeur ! Continuez ainsi.")
	case float64(len(entries)) >= float64(windowDays)*0.5:
		insights = append(insights, "Bon suivi de votre humeur. Essayez d'être encore plus régulier pour de meilleurs insights.")
	default:
		insights = append(insights, "Essayez d'enregistrer votre humeur plus régulièrement pour identifier des patterns.")
	}

	var withSleep []model.MoodEntry
	for _, e := range entries {
		if e.SleepHours != nil {
			withSleep = append(withSleep, e)
		}
	}
	if len(withSleep) >= 5 {
		var goodSum, goodCount, poorSum, poorCount int
		for _, e := range withSleep {
			switch {
			case *e.SleepHours >= 7:
				goodSum += e.Mood
				goodCount++
			case *e.SleepHours < 6:
				poorSum += e.Mood
				poorCount++
			}
		}
		if goodCount > 0 && poorCount > 0 {
			goodAvg := float64(goodSum) / float64(goodCount)
			poorAvg := float64(poorSum) / float64(poorCount)
			if goodAvg-poorAvg > 0.5 {
				insights = append(insights, "Votre humeur semble meilleure quand vous dormez bien (7h+). Privilégiez un bon sommeil.")
			}
		}
	}

	var stressSum, stressCount int
	for _, e := range entries {
		if e.StressLevel != nil {
			stressSum += *e.StressLevel
			stressCount++
		}
	}
	if stressCount > 0 {
		avgStress := float64(stressSum) / float64(stressCount)
		if avgStress >= 4 {
			insights = append(insights, "Votre niveau de stress semble élevé. Pensez à intégrer des activités relaxantes dans votre routine.")
		} else if avgStress <= 2 {
			insights = append(insights, "Votre gestion du stress semble efficace. Continuez vos bonnes habitudes.")
		}
	}

	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}
	return insights
}

func moodAverage(entries []model.MoodEntry) float64 {
	var sum int
	for _, e := range entries {
		sum += e.Mood
	}
	return float64(sum) / float64(len(entries))
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
