package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/moodlift/moodlift-backend/internal/service"
)

// MoodHandler implements mood tracking endpoints
type MoodHandler struct {
	moods  *service.MoodService
	users  *service.AuthService
	logger *zap.Logger
}

// NewMoodHandler creates a new MoodHandler
func NewMoodHandler(moods *service.MoodService, users *service.AuthService, logger *zap.Logger) *MoodHandler {
	return &MoodHandler{
		moods:  moods,
		users:  users,
		logger: logger,
	}
}

// Create records a mood entry for the authenticated user
// POST /api/v1/moods
func (h *MoodHandler) Create(c *gin.Context) {
	var req service.MoodEntryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), authUserID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to load account")
		return
	}

	entry, err := h.moods.Create(c.Request.Context(), user, req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create mood entry")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// List returns the user's mood entries, newest date first
// GET /api/v1/moods
func (h *MoodHandler) List(c *gin.Context) {
	offset := queryInt(c, "offset", 0)
	limit := queryInt(c, "limit", 0)

	entries, err := h.moods.ListForUser(c.Request.Context(), authUserID(c), offset, limit)
	if err != nil {
		respondError(c, h.logger, err, "Failed to list mood entries")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}

// ListByDateRange returns entries between two dates inclusive
// GET /api/v1/moods/range?start_date=...&end_date=...
func (h *MoodHandler) ListByDateRange(c *gin.Context) {
	entries, err := h.moods.ListByDateRange(c.Request.Context(), authUserID(c),
		c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to list mood entries")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}

// GetStats summarizes mood entries over the trailing window
// GET /api/v1/moods/stats?days=30
func (h *MoodHandler) GetStats(c *gin.Context) {
	stats, err := h.moods.GetStats(c.Request.Context(), authUserID(c), queryInt(c, "days", 30))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get mood stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Get returns one mood entry
// GET /api/v1/moods/:moodId
func (h *MoodHandler) Get(c *gin.Context) {
	entry, err := h.moods.GetByID(c.Request.Context(), authUserID(c), c.Param("moodId"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to load mood entry")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Update modifies a mood entry; the date cannot change
// PUT /api/v1/moods/:moodId
func (h *MoodHandler) Update(c *gin.Context) {
	var req service.MoodEntryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	entry, err := h.moods.Update(c.Request.Context(), authUserID(c), c.Param("moodId"), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update mood entry")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Delete removes a mood entry
// DELETE /api/v1/moods/:moodId
func (h *MoodHandler) Delete(c *gin.Context) {
	if err := h.moods.Delete(c.Request.Context(), authUserID(c), c.Param("moodId")); err != nil {
		respondError(c, h.logger, err, "Failed to delete mood entry")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Mood entry deleted"})
}
