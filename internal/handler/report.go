package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/moodlift/moodlift-backend/internal/service"
)

// ReportHandler implements wellness report endpoints
type ReportHandler struct {
	reports *service.ReportService
	users   *service.AuthService
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports *service.ReportService, users *service.AuthService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		users:   users,
		logger:  logger,
	}
}

// GenerateReport renders the wellness report PDF for download
// GET /api/v1/reports/wellness?days=30
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), authUserID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to load account")
		return
	}

	pdfBytes, filename, err := h.reports.GenerateReport(c.Request.Context(), user, queryInt(c, "days", 30))
	if err != nil {
		respondError(c, h.logger, err, "Failed to generate report")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
