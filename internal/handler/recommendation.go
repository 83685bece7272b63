package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/moodlift/moodlift-backend/internal/service"
)

// RecommendationHandler implements activity recommendation endpoints
type RecommendationHandler struct {
	recs       *service.RecommendationService
	users      *service.AuthService
	windowDays int
	logger     *zap.Logger
}

// NewRecommendationHandler creates a new RecommendationHandler.
// windowDays is the default trailing window for feedback queries
// when the request does not pass one.
func NewRecommendationHandler(recs *service.RecommendationService, users *service.AuthService, windowDays int, logger *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		recs:       recs,
		users:      users,
		windowDays: windowDays,
		logger:     logger,
	}
}

// Generate produces scored activity recommendations for the current mood
// POST /api/v1/recommendations/generate
func (h *RecommendationHandler) Generate(c *gin.Context) {
	var req service.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), authUserID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to load account")
		return
	}

	recs, err := h.recs.Generate(c.Request.Context(), user, req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to generate recommendations")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"recommendations": recs,
		"count":           len(recs),
	})
}

// List returns the user's recommendation history, newest first
// GET /api/v1/recommendations
func (h *RecommendationHandler) List(c *gin.Context) {
	recs, err := h.recs.ListForUser(c.Request.Context(), authUserID(c),
		queryInt(c, "offset", 0), queryInt(c, "limit", 0))
	if err != nil {
		respondError(c, h.logger, err, "Failed to list recommendations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": recs,
		"count":           len(recs),
	})
}

// ListPendingFeedback returns recommendations still awaiting a verdict
// GET /api/v1/recommendations/pending-feedback
func (h *RecommendationHandler) ListPendingFeedback(c *gin.Context) {
	recs, err := h.recs.ListPendingFeedback(c.Request.Context(), authUserID(c), queryInt(c, "limit", 0))
	if err != nil {
		respondError(c, h.logger, err, "Failed to list pending feedback")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": recs,
		"count":           len(recs),
	})
}

// ListWithFeedback returns recommendations with a recorded verdict,
// optionally filtered on the verdict value.
// GET /api/v1/recommendations/with-feedback?helpful=true&days=30
func (h *RecommendationHandler) ListWithFeedback(c *gin.Context) {
	var helpful *bool
	if raw := c.Query("helpful"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "helpful must be a boolean",
			})
			return
		}
		helpful = &v
	}

	recs, err := h.recs.ListWithFeedback(c.Request.Context(), authUserID(c), helpful, queryInt(c, "days", h.windowDays))
	if err != nil {
		respondError(c, h.logger, err, "Failed to list recommendations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": recs,
		"count":           len(recs),
	})
}

// GetStats summarizes recommendation activity over the trailing window
// GET /api/v1/recommendations/stats?days=30
func (h *RecommendationHandler) GetStats(c *gin.Context) {
	stats, err := h.recs.GetStats(c.Request.Context(), authUserID(c), queryInt(c, "days", h.windowDays))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get recommendation stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetFeedbackSummary aggregates helpfulness feedback over the trailing window
// GET /api/v1/recommendations/feedback-summary?days=30
func (h *RecommendationHandler) GetFeedbackSummary(c *gin.Context) {
	summary, err := h.recs.FeedbackSummary(c.Request.Context(), authUserID(c), queryInt(c, "days", h.windowDays))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get feedback summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetEffectiveness ranks activities by observed helpfulness
// GET /api/v1/recommendations/effectiveness?days=30
func (h *RecommendationHandler) GetEffectiveness(c *gin.Context) {
	report, err := h.recs.EffectivenessReport(c.Request.Context(), authUserID(c), queryInt(c, "days", h.windowDays))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get effectiveness report")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activities": report,
		"count":      len(report),
	})
}

// Get returns one recommendation
// GET /api/v1/recommendations/:recommendationId
func (h *RecommendationHandler) Get(c *gin.Context) {
	rec, err := h.recs.GetByID(c.Request.Context(), authUserID(c), c.Param("recommendationId"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to load recommendation")
		return
	}

	c.JSON(http.StatusOK, rec)
}

type feedbackRequest struct {
	WasHelpful *bool `json:"was_helpful"`
}

// UpdateFeedback records a helpfulness verdict on a recommendation
// PUT /api/v1/recommendations/:recommendationId/feedback
func (h *RecommendationHandler) UpdateFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if req.WasHelpful == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "was_helpful is required",
		})
		return
	}

	rec, err := h.recs.UpdateFeedback(c.Request.Context(), authUserID(c), c.Param("recommendationId"), *req.WasHelpful)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update feedback")
		return
	}

	c.JSON(http.StatusOK, rec)
}

type feedbackBatchRequest struct {
	Items []service.FeedbackItem `json:"items"`
}

// ApplyFeedbackBatch records feedback for many recommendations at once
// POST /api/v1/recommendations/feedback/batch
func (h *RecommendationHandler) ApplyFeedbackBatch(c *gin.Context) {
	var req feedbackBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.recs.ApplyFeedbackBatch(c.Request.Context(), authUserID(c), req.Items)
	if err != nil {
		respondError(c, h.logger, err, "Failed to apply feedback batch")
		return
	}

	c.JSON(http.StatusOK, result)
}
