package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"valorvista/server/internal/models"
	"valorvista/server/internal/valuation"
)

// Generator writes PDF valuation reports into a shared output directory.
// Files are named valuation_report_<id>.pdf; an out-of-band sweeper removes
// old ones, so nothing here depends on write ordering.
type Generator struct {
	dir    string
	logger *logrus.Logger
}

func NewGenerator(dir string, logger *logrus.Logger) (*Generator, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create reports directory: %w", err)
	}
	return &Generator{dir: dir, logger: logger}, nil
}

// Generate renders a report for one valuation and returns the report ID and
// the generated filename.
func (g *Generator) Generate(input *models.PropertyInput, result *models.ValuationResult, explanation *valuation.Explanation) (string, string, error) {
	reportID := uuid.NewString()[:8]
	filename := fmt.Sprintf("valuation_report_%s.pdf", reportID)

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle("Property Valuation Report", false)
	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(25, 118, 210)
	pdf.CellFormat(0, 14, "Property Valuation Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(136, 136, 136)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated on %s  |  Report ID %s",
		time.Now().Format("January 2, 2006 15:04"), reportID), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	// Price highlight
	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetTextColor(25, 118, 210)
	pdf.CellFormat(0, 16, result.FormattedPrediction, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(85, 85, 85)
	pdf.CellFormat(0, 6, fmt.Sprintf("%.0f%% confidence interval: %s - %s",
		result.ConfidenceLevel*100,
		result.Interval.Formatted.Lower,
		result.Interval.Formatted.Upper), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	// Property summary
	g.sectionHeader(pdf, "Property Summary")
	summary := input.Summary()
	g.tableRow(pdf, "Living area", fmt.Sprintf("%d sq ft", summary.LivingArea))
	g.tableRow(pdf, "Bedrooms", fmt.Sprintf("%d", summary.Bedrooms))
	g.tableRow(pdf, "Bathrooms", fmt.Sprintf("%.1f", summary.Bathrooms))
	g.tableRow(pdf, "Year built", fmt.Sprintf("%d", summary.YearBuilt))
	g.tableRow(pdf, "Overall quality", fmt.Sprintf("%d / 10", summary.OverallQuality))
	if input.Neighborhood != "" {
		g.tableRow(pdf, "Neighborhood", input.Neighborhood)
	}
	pdf.Ln(6)

	// Key factors
	if explanation != nil && len(explanation.KeyFactors) > 0 {
		g.sectionHeader(pdf, "Key Valuation Factors")
		for _, kf := range explanation.KeyFactors {
			g.tableRow(pdf, kf.Feature, fmt.Sprintf("%.1f%% importance", kf.Importance*100))
		}
		pdf.Ln(6)
	}

	// Disclaimer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(136, 136, 136)
	pdf.MultiCell(0, 4, "This valuation is a statistical estimate produced by a machine learning model. "+
		"The confidence level is nominal and the estimate is not a substitute for a professional appraisal.", "", "C", false)

	path := filepath.Join(g.dir, filename)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", "", fmt.Errorf("failed to write report: %w", err)
	}

	g.logger.WithFields(logrus.Fields{
		"report_id": reportID,
		"file":      filename,
	}).Info("Generated valuation report")

	return reportID, filename, nil
}

// Path resolves a report filename inside the output directory.
func (g *Generator) Path(filename string) string {
	return filepath.Join(g.dir, filepath.Base(filename))
}

func (g *Generator) sectionHeader(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(51, 51, 51)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+180, pdf.GetY())
	pdf.Ln(3)
}

func (g *Generator) tableRow(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(85, 85, 85)
	pdf.CellFormat(70, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(51, 51, 51)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}
