package goals

import (
	"errors"
	"math"
	"testing"

	"github.com/fdg312/fueltrack/internal/storage"
)

func TestEffectiveCalorieGoal_DeficitTiers(t *testing.T) {
	cases := []struct {
		name        string
		maintenance int
		deficit     string
		want        int
	}{
		{"no deficit", 2500, storage.DeficitNone, 2500},
		{"mild deficit", 2500, storage.DeficitMild, 2125},
		{"aggressive deficit", 2500, storage.DeficitAggressive, 1750},
		{"mild rounds to nearest", 2001, storage.DeficitMild, 1701},
		{"unset maintenance falls back", 0, storage.DeficitNone, 2200},
		{"fallback with mild deficit", 0, storage.DeficitMild, 1870},
		{"unknown tier acts as none", 2400, "extreme", 2400},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &storage.Profile{MaintenanceCalories: tc.maintenance, Deficit: tc.deficit}
			if got := EffectiveCalorieGoal(p); got != tc.want {
				t.Errorf("EffectiveCalorieGoal = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestForProfile_MacrosAreGlobal(t *testing.T) {
	p := &storage.Profile{MaintenanceCalories: 3000, Deficit: storage.DeficitAggressive}

	got := ForProfile(p)
	if got.Calories != 2100 {
		t.Errorf("calories = %d, want 2100", got.Calories)
	}
	if got.Protein != 130 || got.Carbs != 250 || got.Fats != 70 {
		t.Errorf("macros = %d/%d/%d, want 130/250/70", got.Protein, got.Carbs, got.Fats)
	}
}

func TestEstimateMaintenance_Male(t *testing.T) {
	est, err := EstimateMaintenance(storage.GenderMale, 80, 180, 30, 1.55)
	if err != nil {
		t.Fatalf("EstimateMaintenance failed: %v", err)
	}

	wantBMR := 10*80.0 + 6.25*180 - 5*30 + 5 // 1780
	if est.BMR != wantBMR {
		t.Errorf("bmr = %v, want %v", est.BMR, wantBMR)
	}
	wantMaint := wantBMR * 1.55
	if math.Abs(est.Maintenance-wantMaint) > 1e-9 {
		t.Errorf("maintenance = %v, want %v", est.Maintenance, wantMaint)
	}
	if est.Mild != wantMaint-250 || est.Moderate != wantMaint-500 || est.Aggressive != wantMaint-750 {
		t.Errorf("previews = %v/%v/%v, want maintenance-250/500/750", est.Mild, est.Moderate, est.Aggressive)
	}
}

func TestEstimateMaintenance_Female(t *testing.T) {
	est, err := EstimateMaintenance(storage.GenderFemale, 60, 165, 25, 1.2)
	if err != nil {
		t.Fatalf("EstimateMaintenance failed: %v", err)
	}

	wantBMR := 10*60.0 + 6.25*165 - 5*25 - 161 // 1345.25
	if est.BMR != wantBMR {
		t.Errorf("bmr = %v, want %v", est.BMR, wantBMR)
	}
}

func TestEstimateMaintenance_Unavailable(t *testing.T) {
	cases := []struct {
		name     string
		sex      string
		weight   float64
		height   float64
		age      int
		activity float64
	}{
		{"unspecified sex", storage.GenderUnspecified, 80, 180, 30, 1.55},
		{"zero weight", storage.GenderMale, 0, 180, 30, 1.55},
		{"zero height", storage.GenderMale, 80, 0, 30, 1.55},
		{"zero age", storage.GenderMale, 80, 180, 0, 1.55},
		{"zero activity", storage.GenderMale, 80, 180, 30, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EstimateMaintenance(tc.sex, tc.weight, tc.height, tc.age, tc.activity)
			if !errors.Is(err, ErrEstimateUnavailable) {
				t.Errorf("err = %v, want ErrEstimateUnavailable", err)
			}
		})
	}
}
