package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/moodlift/moodlift-backend/internal/service"
)

// GDPRHandler implements data portability and erasure endpoints
type GDPRHandler struct {
	service *service.GDPRService
	logger  *zap.Logger
}

// NewGDPRHandler creates a new GDPRHandler
func NewGDPRHandler(service *service.GDPRService, logger *zap.Logger) *GDPRHandler {
	return &GDPRHandler{
		service: service,
		logger:  logger,
	}
}

// ExportUserData returns every stored record as a JSON download
// GET /api/v1/users/me/export
func (h *GDPRHandler) ExportUserData(c *gin.Context) {
	userID := authUserID(c)

	jsonData, err := h.service.ExportUserData(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to export user data")
		return
	}

	filename := fmt.Sprintf("user_data_%s.json", userID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/json", jsonData)
}

type deleteAccountRequest struct {
	Confirmation string `json:"confirmation"`
}

// DeleteUserData erases all user data; the body must confirm with "DELETE"
// DELETE /api/v1/users/me
func (h *GDPRHandler) DeleteUserData(c *gin.Context) {
	var req deleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID := authUserID(c)
	err := h.service.DeleteUserData(c.Request.Context(), userID, req.Confirmation,
		c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, h.logger, err, "Failed to delete user data")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User data deleted",
		"user_id": userID,
	})
}

// AnonymizeUserData strips identity from the account, keeping wellness records
// POST /api/v1/users/me/anonymize
func (h *GDPRHandler) AnonymizeUserData(c *gin.Context) {
	userID := authUserID(c)
	err := h.service.AnonymizeUserData(c.Request.Context(), userID,
		c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, h.logger, err, "Failed to anonymize user data")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Account anonymized",
		"user_id": userID,
	})
}
