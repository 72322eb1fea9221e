// Package ledger contains the pure aggregation functions over the food
// history. Nothing here touches storage or the clock: callers pass the
// reference date in.
package ledger

import (
	"time"

	"github.com/fdg312/fueltrack/internal/datekey"
	"github.com/fdg312/fueltrack/internal/storage"
)

// DayTotals — суммы за один день. Вес включается: дневная сводка
// показывает и съеденные граммы.
type DayTotals struct {
	Calories int     `json:"calories"`
	Weight   float64 `json:"weight"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// RangeTotals — суммы за диапазон дат. Вес не агрегируется по дням.
type RangeTotals struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// SumEntries totals a single day's entries.
func SumEntries(entries []storage.FoodEntry) DayTotals {
	var t DayTotals
	for _, e := range entries {
		t.Calories += e.Calories
		t.Weight += e.Weight
		t.Protein += e.Protein
		t.Carbs += e.Carbs
		t.Fats += e.Fats
	}
	return t
}

// SumRange totals all entries whose date falls within the last daysBack
// calendar days ending at now, inclusive on both ends. A window of 7
// covers today plus the six days before it. The comparison is on date
// keys, so history order does not matter and future-dated buckets are
// excluded.
func SumRange(history []storage.DayBucket, daysBack int, now time.Time) RangeTotals {
	startKey := datekey.DayKey(now.AddDate(0, 0, -(daysBack - 1)))
	endKey := datekey.DayKey(now)

	var t RangeTotals
	for _, day := range history {
		if day.Date < startKey || day.Date > endKey {
			continue
		}
		for _, e := range day.Entries {
			t.Calories += e.Calories
			t.Protein += e.Protein
			t.Carbs += e.Carbs
			t.Fats += e.Fats
		}
	}
	return t
}

// SumWeekly covers the trailing 7-day window.
func SumWeekly(history []storage.DayBucket, now time.Time) RangeTotals {
	return SumRange(history, 7, now)
}

// SumMonthly covers the trailing 30-day window.
func SumMonthly(history []storage.DayBucket, now time.Time) RangeTotals {
	return SumRange(history, 30, now)
}
