package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/moodlift/moodlift-backend/internal/service"
)

// StatsHandler implements cross-domain wellness statistics endpoints
type StatsHandler struct {
	stats  *service.StatsService
	logger *zap.Logger
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(stats *service.StatsService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		stats:  stats,
		logger: logger,
	}
}

// GetOverview returns the combined wellness summary
// GET /api/v1/stats/overview?days=30
func (h *StatsHandler) GetOverview(c *gin.Context) {
	stats, err := h.stats.GetOverallStats(c.Request.Context(), authUserID(c), queryInt(c, "days", 30))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get overall stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetWeeklyTrends returns per-week mood averages, oldest week first
// GET /api/v1/stats/trends/weekly?weeks=4
func (h *StatsHandler) GetWeeklyTrends(c *gin.Context) {
	trends, err := h.stats.GetWeeklyTrends(c.Request.Context(), authUserID(c), queryInt(c, "weeks", 4))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get weekly trends")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trends": trends,
		"count":  len(trends),
	})
}

// GetDistribution returns the spread of recorded mood levels
// GET /api/v1/stats/distribution?days=30
func (h *StatsHandler) GetDistribution(c *gin.Context) {
	dist, err := h.stats.GetMoodDistribution(c.Request.Context(), authUserID(c), queryInt(c, "days", 30))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get mood distribution")
		return
	}

	c.JSON(http.StatusOK, dist)
}

// GetDailySeries returns one chart point per day, gaps included
// GET /api/v1/stats/daily?days=30
func (h *StatsHandler) GetDailySeries(c *gin.Context) {
	points, err := h.stats.GetDailySeries(c.Request.Context(), authUserID(c), queryInt(c, "days", 30))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get daily series")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"points": points,
		"count":  len(points),
	})
}

// GetComparison contrasts the current window with the preceding one
// GET /api/v1/stats/comparison?days=30
func (h *StatsHandler) GetComparison(c *gin.Context) {
	cmp, err := h.stats.GetPeriodComparison(c.Request.Context(), authUserID(c), queryInt(c, "days", 30))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get period comparison")
		return
	}
	if cmp == nil {
		c.JSON(http.StatusOK, gin.H{
			"comparison": nil,
			"message":    "Not enough data to compare periods",
		})
		return
	}

	c.JSON(http.StatusOK, cmp)
}
