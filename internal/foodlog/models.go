package foodlog

import (
	"github.com/fdg312/fueltrack/internal/ledger"
	"github.com/fdg312/fueltrack/internal/storage"
)

type AddEntryRequest struct {
	Name     string  `json:"name"`
	Calories int     `json:"calories"`
	Weight   float64 `json:"weight"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

type TodayResponse struct {
	Date   string              `json:"date"`
	Items  []storage.FoodEntry `json:"items"`
	Totals ledger.DayTotals    `json:"totals"`
}

type RangeTotalsResponse struct {
	Days   int                `json:"days"`
	Totals ledger.RangeTotals `json:"totals"`
}

type SuggestionsResponse struct {
	Items []storage.FoodMemo `json:"items"`
}
