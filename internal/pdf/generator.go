package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/moodlift/moodlift-backend/internal/recommend"
	"github.com/moodlift/moodlift-backend/pkg/model"
)

// PDFGenerator renders wellness reports
type PDFGenerator struct {
	logger *zap.Logger
}

// NewPDFGenerator creates a new PDFGenerator
func NewPDFGenerator(logger *zap.Logger) *PDFGenerator {
	return &PDFGenerator{
		logger: logger,
	}
}

// ReportData contains all data needed for report generation
type ReportData struct {
	UserName                string
	DateRange               string
	WellnessScore           float64
	AverageMood             float64
	AverageStress           *float64
	AverageSleep            *float64
	MoodEntries             []model.MoodEntry
	Effectiveness           []recommend.ActivityEffectiveness
	Insights                []string
	RecommendationsReceived int
	RecommendationsHelpful  int
}

// Generate creates a PDF report from the provided data
func (g *PDFGenerator) Generate(data *ReportData) ([]byte, error) {
	g.logger.Info("generating PDF report",
		zap.String("user_name", data.UserName),
		zap.String("date_range", data.DateRange),
	)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	pdf.AddPage()

	g.addTitle(pdf, "Wellness Report", data.UserName, data.DateRange)

	g.addWellnessOverview(pdf, data)
	g.addMoodTimeline(pdf, data.MoodEntries)
	g.addSleepAndStress(pdf, data.MoodEntries)
	g.addActivityEffectiveness(pdf, data.Effectiveness)
	g.addInsights(pdf, data.Insights)

	var buf bytes.Buffer
	err := pdf.Output(&buf)
	if err != nil {
		g.logger.Error("failed to generate PDF", zap.Error(err))
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	g.logger.Info("PDF report generated successfully",
		zap.Int("size_bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

// addTitle adds the report title and header information
func (g *PDFGenerator) addTitle(pdf *gofpdf.Fpdf, title, userName, dateRange string) {
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Name: %s", userName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Period: %s", dateRange), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(10)
}

// addSectionHeader adds a section header
func (g *PDFGenerator) addSectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(0, 10, title, "", 1, "L", true, 0, "")
	pdf.Ln(3)
	pdf.SetFont("Arial", "", 10)
}

// addWellnessOverview adds the headline numbers of the period
func (g *PDFGenerator) addWellnessOverview(pdf *gofpdf.Fpdf, data *ReportData) {
	g.addSectionHeader(pdf, "Wellness Overview")

	pdf.CellFormat(0, 6, fmt.Sprintf("Wellness score: %.1f / 100", data.WellnessScore), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Mood entries: %d", len(data.MoodEntries)), "", 1, "L", false, 0, "")
	if data.AverageMood > 0 {
		pdf.CellFormat(0, 6, fmt.Sprintf("Average mood: %.2f / 5", data.AverageMood), "", 1, "L", false, 0, "")
	}
	if data.AverageStress != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("Average stress: %.2f / 5", *data.AverageStress), "", 1, "L", false, 0, "")
	}
	if data.AverageSleep != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("Average sleep: %.2f h", *data.AverageSleep), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Recommendations received: %d (helpful: %d)",
		data.RecommendationsReceived, data.RecommendationsHelpful), "", 1, "L", false, 0, "")
	pdf.Ln(5)
}

// addMoodTimeline adds the day by day mood section
func (g *PDFGenerator) addMoodTimeline(pdf *gofpdf.Fpdf, entries []model.MoodEntry) {
	g.addSectionHeader(pdf, "Mood Timeline")

	if len(entries) == 0 {
		pdf.CellFormat(0, 8, "No mood entries recorded during this period.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, entry := range entries {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, entry.Date, "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)

		pdf.CellFormat(0, 5, fmt.Sprintf("  Mood: %d/5", entry.Mood), "", 1, "L", false, 0, "")
		if entry.Activity != nil && *entry.Activity != "" {
			pdf.CellFormat(0, 5, fmt.Sprintf("  Activity: %s", *entry.Activity), "", 1, "L", false, 0, "")
		}
		if entry.Notes != nil && *entry.Notes != "" {
			pdf.CellFormat(0, 5, fmt.Sprintf("  Notes: %s", *entry.Notes), "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)
	}
	pdf.Ln(5)
}

// addSleepAndStress adds the sleep and stress section
func (g *PDFGenerator) addSleepAndStress(pdf *gofpdf.Fpdf, entries []model.MoodEntry) {
	g.addSectionHeader(pdf, "Sleep and Stress")

	recorded := false
	for _, entry := range entries {
		if entry.SleepHours == nil && entry.StressLevel == nil {
			continue
		}
		recorded = true
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, entry.Date, "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		if entry.SleepHours != nil {
			pdf.CellFormat(0, 5, fmt.Sprintf("  Sleep: %.1f h", *entry.SleepHours), "", 1, "L", false, 0, "")
		}
		if entry.StressLevel != nil {
			pdf.CellFormat(0, 5, fmt.Sprintf("  Stress: %d/5", *entry.StressLevel), "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)
	}

	if !recorded {
		pdf.CellFormat(0, 8, "No sleep or stress data recorded.", "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

// addActivityEffectiveness adds the recommendation effectiveness section
func (g *PDFGenerator) addActivityEffectiveness(pdf *gofpdf.Fpdf, effectiveness []recommend.ActivityEffectiveness) {
	g.addSectionHeader(pdf, "Activity Effectiveness")

	if len(effectiveness) == 0 {
		pdf.CellFormat(0, 8, "Not enough feedback yet to rate activities.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, eff := range effectiveness {
		pdf.CellFormat(0, 6, fmt.Sprintf("%s: %.1f%% helpful (%d of %d times)",
			eff.Activity, eff.EffectivenessRate, eff.TimesHelpful, eff.TimesRecommended), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

// addInsights adds the personalized insights section
func (g *PDFGenerator) addInsights(pdf *gofpdf.Fpdf, insights []string) {
	g.addSectionHeader(pdf, "Insights")

	if len(insights) == 0 {
		pdf.CellFormat(0, 8, "No insights available for this period.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, insight := range insights {
		pdf.MultiCell(0, 6, fmt.Sprintf("- %s", insight), "", "L", false)
	}
	pdf.Ln(5)
}
