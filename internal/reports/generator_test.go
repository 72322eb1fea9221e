package reports

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/fdg312/fueltrack/internal/datekey"
	"github.com/fdg312/fueltrack/internal/storage"
)

var testNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)

func testHistory() []storage.DayBucket {
	return []storage.DayBucket{
		{Date: datekey.DayKey(testNow.AddDate(0, 0, -40)), Entries: []storage.FoodEntry{
			{Name: "ancient meal", Calories: 999},
		}},
		{Date: datekey.DayKey(testNow.AddDate(0, 0, -2)), Entries: []storage.FoodEntry{
			{Name: "rice", Calories: 320, Weight: 250, Protein: 6, Carbs: 70, Fats: 1},
		}},
		{Date: datekey.DayKey(testNow), Entries: []storage.FoodEntry{
			{Name: "apple", Calories: 95, Protein: 0.5, Carbs: 25, Fats: 0.3},
			{Name: "egg", Calories: 78, Weight: 50, Protein: 6, Carbs: 0.6, Fats: 5},
		}},
	}
}

func TestGenerateCSV(t *testing.T) {
	g := NewGenerator()

	data, contentType, err := g.Generate("Me", FormatCSV, 30, testHistory(), testNow)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if contentType != "text/csv" {
		t.Errorf("content type = %q, want text/csv", contentType)
	}

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse CSV: %v", err)
	}
	// Header + 3 entries within the 30-day window; the 40-day-old
	// bucket is excluded.
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4: %v", len(rows), rows)
	}
	if rows[0][0] != "date" || rows[0][2] != "calories" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	// Oldest day first.
	if rows[1][1] != "rice" || rows[2][1] != "apple" {
		t.Errorf("unexpected row order: %v", rows)
	}
	if rows[1][3] != "250" {
		t.Errorf("rice weight = %q, want 250", rows[1][3])
	}
	if rows[2][5] != "25" {
		t.Errorf("apple carbs = %q, want 25", rows[2][5])
	}
}

func TestGenerateCSV_EmptyHistory(t *testing.T) {
	g := NewGenerator()

	data, _, err := g.Generate("Me", FormatCSV, 7, nil, testNow)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse CSV: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("rows = %d, want header only", len(rows))
	}
}

func TestGeneratePDF(t *testing.T) {
	g := NewGenerator()

	data, contentType, err := g.Generate("Me", FormatPDF, 30, testHistory(), testNow)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if contentType != "application/pdf" {
		t.Errorf("content type = %q, want application/pdf", contentType)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output does not look like a PDF: %q", data[:min(8, len(data))])
	}
}

func TestGenerate_UnsupportedFormat(t *testing.T) {
	g := NewGenerator()

	if _, _, err := g.Generate("Me", "xlsx", 30, nil, testNow); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestFormatGrams(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{250, "250"},
		{0.5, "0.5"},
		{25.26, "25.3"},
	}
	for _, tc := range cases {
		if got := formatGrams(tc.in); got != tc.want {
			t.Errorf("formatGrams(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
