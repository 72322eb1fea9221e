// Package reports строит выгрузки журнала еды: CSV для таблиц и PDF
// для людей. Источник данных — снимок истории активного профиля.
package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/fdg312/fueltrack/internal/datekey"
	"github.com/fdg312/fueltrack/internal/ledger"
	"github.com/fdg312/fueltrack/internal/storage"
)

// Generator generates PDF/CSV exports of the food history.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// windowDays filters history to the trailing window ending at now and
// returns the buckets sorted by date.
func windowDays(history []storage.DayBucket, days int, now time.Time) []storage.DayBucket {
	startKey := datekey.DayKey(now.AddDate(0, 0, -(days - 1)))
	endKey := datekey.DayKey(now)

	out := make([]storage.DayBucket, 0, len(history))
	for _, day := range history {
		if day.Date >= startKey && day.Date <= endKey {
			out = append(out, day)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Generate builds a report over the trailing window and returns the
// bytes plus the content type.
func (g *Generator) Generate(profileName, format string, days int, history []storage.DayBucket, now time.Time) ([]byte, string, error) {
	window := windowDays(history, days, now)

	switch format {
	case FormatCSV:
		data, err := g.generateCSV(window)
		return data, "text/csv", err
	case FormatPDF:
		data, err := g.generatePDF(profileName, days, window, now)
		return data, "application/pdf", err
	default:
		return nil, "", fmt.Errorf("unsupported format: %s", format)
	}
}

// generateCSV writes one row per logged entry, oldest day first.
func (g *Generator) generateCSV(window []storage.DayBucket) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"date", "name", "calories", "weight_g", "protein_g", "carbs_g", "fats_g"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, day := range window {
		for _, e := range day.Entries {
			row := []string{
				day.Date,
				e.Name,
				strconv.Itoa(e.Calories),
				formatGrams(e.Weight),
				formatGrams(e.Protein),
				formatGrams(e.Carbs),
				formatGrams(e.Fats),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// generatePDF renders a summary plus a per-day table.
func (g *Generator) generatePDF(profileName string, days int, window []storage.DayBucket, now time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 16)
	pdf.AddPage()

	pdf.Cell(0, 10, "Nutrition Report")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 12)
	startKey := datekey.DayKey(now.AddDate(0, 0, -(days - 1)))
	pdf.Cell(0, 8, fmt.Sprintf("Profile: %s", profileName))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s - %s (%d days)", startKey, datekey.DayKey(now), days))
	pdf.Ln(12)

	totals := ledger.SumRange(window, days, now)
	loggedDays := 0
	for _, day := range window {
		if len(day.Entries) > 0 {
			loggedDays++
		}
	}

	pdf.SetFont("Arial", "", 14)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Days with entries: %d", loggedDays))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total calories: %d kcal", totals.Calories))
	pdf.Ln(5)
	if loggedDays > 0 {
		pdf.Cell(0, 6, fmt.Sprintf("Average per logged day: %d kcal", totals.Calories/loggedDays))
		pdf.Ln(5)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Protein: %s g, carbs: %s g, fats: %s g",
		formatGrams(totals.Protein), formatGrams(totals.Carbs), formatGrams(totals.Fats)))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 14)
	pdf.Cell(0, 8, "Daily log")
	pdf.Ln(8)

	g.drawDaysTable(pdf, window)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) drawDaysTable(pdf *gofpdf.Fpdf, window []storage.DayBucket) {
	colWidths := []float64{30, 25, 25, 25, 25, 25}
	headers := []string{"Date", "Entries", "Kcal", "Protein", "Carbs", "Fats"}

	pdf.SetFont("Arial", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, day := range window {
		t := ledger.SumEntries(day.Entries)
		cells := []string{
			day.Date,
			strconv.Itoa(len(day.Entries)),
			strconv.Itoa(t.Calories),
			formatGrams(t.Protein),
			formatGrams(t.Carbs),
			formatGrams(t.Fats),
		}
		for i, c := range cells {
			pdf.CellFormat(colWidths[i], 6, c, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// formatGrams prints grams with one decimal, dropping a trailing ".0".
func formatGrams(v float64) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	if len(s) > 2 && s[len(s)-2:] == ".0" {
		return s[:len(s)-2]
	}
	return s
}
