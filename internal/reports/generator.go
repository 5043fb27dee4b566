package reports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/nutriplan/backend/internal/nutrition"
	"github.com/nutriplan/backend/internal/storage"
)

var ErrPlanNotFound = errors.New("plan not found")

// Generator renders a day plan into a printable PDF.
type Generator struct {
	plans     storage.PlansStorage
	nutrition *nutrition.Service
}

// NewGenerator creates a new report generator.
func NewGenerator(plans storage.PlansStorage, nutritionService *nutrition.Service) *Generator {
	return &Generator{plans: plans, nutrition: nutritionService}
}

// GeneratePlanPDF builds a PDF report for one plan: the daily totals
// followed by the dish listing per meal.
func (g *Generator) GeneratePlanPDF(ctx context.Context, planID uuid.UUID) ([]byte, error) {
	plan, err := g.plans.GetPlan(ctx, planID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	report, err := g.nutrition.Aggregate(ctx, planID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	fontName := loadCyrillicFont(pdf)
	cyrillic := fontName != "Arial"

	pdf.SetFont(fontName, "", 16)
	pdf.AddPage()

	if cyrillic {
		pdf.Cell(0, 10, "План питания")
	} else {
		pdf.Cell(0, 10, "Meal plan") // Fallback for tests
	}
	pdf.Ln(8)

	pdf.SetFont(fontName, "", 12)
	if cyrillic {
		pdf.Cell(0, 8, fmt.Sprintf("Дата: %s", plan.Date))
	} else {
		pdf.Cell(0, 8, fmt.Sprintf("Date: %s", plan.Date))
	}
	pdf.Ln(12)

	pdf.SetFont(fontName, "", 14)
	if cyrillic {
		pdf.Cell(0, 8, "Итого за день")
	} else {
		pdf.Cell(0, 8, "Daily totals")
	}
	pdf.Ln(8)

	pdf.SetFont(fontName, "", 10)
	totals := []struct {
		ru, en string
		value  int
	}{
		{"Калории", "Calories", report.TotalCalories},
		{"Белки", "Proteins", report.TotalProteins},
		{"Жиры", "Fats", report.TotalFats},
		{"Углеводы", "Carbs", report.TotalCarbs},
	}
	for _, t := range totals {
		label := t.en
		if cyrillic {
			label = t.ru
		}
		pdf.Cell(0, 6, fmt.Sprintf("%s: %d", label, t.value))
		pdf.Ln(5)
	}
	pdf.Ln(7)

	if len(report.Sections) == 0 {
		if cyrillic {
			pdf.Cell(0, 8, nutrition.EmptyListing)
		} else {
			pdf.Cell(0, 8, "No dishes")
		}
	}

	for _, sec := range report.Sections {
		pdf.SetFont(fontName, "", 14)
		if cyrillic {
			pdf.Cell(0, 8, sec.Label)
		} else {
			pdf.Cell(0, 8, "Meal")
		}
		pdf.Ln(8)

		pdf.SetFont(fontName, "", 10)
		for _, e := range sec.Entries {
			line := e.Text
			if !cyrillic {
				line = fmt.Sprintf("[%d, %d, %d, %d]", e.Calories, e.Proteins, e.Fats, e.Carbs)
			}
			pdf.MultiCell(0, 6, line, "", "L", false)
			pdf.Ln(1)
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// loadCyrillicFont registers a UTF-8 font so Russian text renders.
// The font file path comes from PDF_FONT_PATH; without it (or with
// SKIP_CUSTOM_FONT=1, used in tests) the report falls back to Arial
// with transliterated labels.
func loadCyrillicFont(pdf *gofpdf.Fpdf) (fontName string) {
	fontName = "Arial"

	if os.Getenv("SKIP_CUSTOM_FONT") == "1" {
		return fontName
	}
	fontPath := os.Getenv("PDF_FONT_PATH")
	if fontPath == "" {
		return fontName
	}
	if _, err := os.Stat(fontPath); err != nil {
		return fontName
	}

	defer func() {
		if r := recover(); r != nil {
			fontName = "Arial"
		}
	}()

	pdf.AddUTF8Font("CustomSans", "", fontPath)
	fontName = "CustomSans"
	return fontName
}
