package ledger

import (
	"testing"
	"time"

	"github.com/fdg312/fueltrack/internal/datekey"
	"github.com/fdg312/fueltrack/internal/storage"
)

var testNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)

func bucket(daysAgo int, entries ...storage.FoodEntry) storage.DayBucket {
	return storage.DayBucket{
		Date:    datekey.DayKey(testNow.AddDate(0, 0, -daysAgo)),
		Entries: entries,
	}
}

func TestSumEntries_IncludesWeight(t *testing.T) {
	entries := []storage.FoodEntry{
		{Name: "oats", Calories: 300, Weight: 80, Protein: 10, Carbs: 54, Fats: 5},
		{Name: "egg", Calories: 78, Weight: 50, Protein: 6, Carbs: 0.6, Fats: 5},
	}

	got := SumEntries(entries)
	if got.Calories != 378 {
		t.Errorf("calories = %d, want 378", got.Calories)
	}
	if got.Weight != 130 {
		t.Errorf("weight = %v, want 130", got.Weight)
	}
	if got.Protein != 16 {
		t.Errorf("protein = %v, want 16", got.Protein)
	}
}

func TestSumEntries_Empty(t *testing.T) {
	if got := SumEntries(nil); got != (DayTotals{}) {
		t.Errorf("empty sum = %+v, want zero", got)
	}
}

func TestSumRange_WindowBoundaries(t *testing.T) {
	history := []storage.DayBucket{
		bucket(0, storage.FoodEntry{Calories: 100}),
		bucket(6, storage.FoodEntry{Calories: 200}),
		bucket(7, storage.FoodEntry{Calories: 400}), // just outside weekly window
		bucket(29, storage.FoodEntry{Calories: 800}),
		bucket(30, storage.FoodEntry{Calories: 1600}), // just outside monthly window
	}

	weekly := SumWeekly(history, testNow)
	if weekly.Calories != 300 {
		t.Errorf("weekly calories = %d, want 300", weekly.Calories)
	}

	monthly := SumMonthly(history, testNow)
	if monthly.Calories != 1500 {
		t.Errorf("monthly calories = %d, want 1500", monthly.Calories)
	}
}

func TestSumRange_ExcludesFutureDates(t *testing.T) {
	history := []storage.DayBucket{
		bucket(0, storage.FoodEntry{Calories: 100}),
		bucket(-1, storage.FoodEntry{Calories: 500}), // tomorrow
	}

	got := SumWeekly(history, testNow)
	if got.Calories != 100 {
		t.Errorf("weekly calories = %d, want 100 (future bucket counted?)", got.Calories)
	}
}

// Aggregation must not depend on the order of history buckets.
func TestSumRange_OrderIndependent(t *testing.T) {
	forward := []storage.DayBucket{
		bucket(0, storage.FoodEntry{Calories: 100, Protein: 10}),
		bucket(3, storage.FoodEntry{Calories: 250, Protein: 20}),
		bucket(5, storage.FoodEntry{Calories: 50, Protein: 5}),
	}
	reversed := []storage.DayBucket{forward[2], forward[1], forward[0]}

	a := SumWeekly(forward, testNow)
	b := SumWeekly(reversed, testNow)
	if a != b {
		t.Errorf("order changed the result: %+v vs %+v", a, b)
	}
}

func TestSumRange_NoWeightField(t *testing.T) {
	history := []storage.DayBucket{
		bucket(1, storage.FoodEntry{Calories: 100, Weight: 999}),
	}

	got := SumWeekly(history, testNow)
	if got.Calories != 100 {
		t.Errorf("weekly calories = %d, want 100", got.Calories)
	}
	// RangeTotals has no weight field at all: compile-time guarantee.
	_ = got
}
