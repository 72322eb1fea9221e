// Package goals implements the calorie and macro goal engine: the
// effective daily calorie goal derived from a profile, and the
// Mifflin-St Jeor maintenance estimator.
package goals

import (
	"errors"
	"math"

	"github.com/fdg312/fueltrack/internal/storage"
)

// Global macro goals. Macros are not per-profile; only the calorie goal
// reacts to the profile's maintenance and deficit tier.
const (
	DefaultCalorieGoal = 2200
	ProteinGoalGrams   = 130
	CarbsGoalGrams     = 250
	FatsGoalGrams      = 70
)

var ErrEstimateUnavailable = errors.New("estimate_unavailable")

// deficitFactors maps deficit tiers to their multiplier. Unknown tiers
// fall back to 1 (no deficit), same as the defaulting on load.
var deficitFactors = map[string]float64{
	storage.DeficitNone:       1,
	storage.DeficitMild:       0.85,
	storage.DeficitAggressive: 0.7,
}

// DeficitFactor returns the multiplier for a deficit tier.
func DeficitFactor(deficit string) float64 {
	if f, ok := deficitFactors[deficit]; ok {
		return f
	}
	return 1
}

// EffectiveCalorieGoal computes the profile's daily calorie goal:
// maintenance (or the global default when unset) scaled by the deficit
// factor and rounded to the nearest kcal.
func EffectiveCalorieGoal(p *storage.Profile) int {
	base := p.MaintenanceCalories
	if base <= 0 {
		base = DefaultCalorieGoal
	}
	return int(math.Round(float64(base) * DeficitFactor(p.Deficit)))
}

// Goals — набор дневных целей профиля, отдаётся как есть в API.
type Goals struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fats     int `json:"fats"`
}

// ForProfile returns the full goal set for a profile.
func ForProfile(p *storage.Profile) Goals {
	return Goals{
		Calories: EffectiveCalorieGoal(p),
		Protein:  ProteinGoalGrams,
		Carbs:    CarbsGoalGrams,
		Fats:     FatsGoalGrams,
	}
}

// Estimate — результат оценки потребности в калориях. Previews — это
// фиксированные вычеты из maintenance, отдельный механизм от
// мультипликативных deficit-тиров профиля.
type Estimate struct {
	BMR         float64 `json:"bmr"`
	Maintenance float64 `json:"maintenance"`
	Mild        float64 `json:"mild"`       // maintenance - 250
	Moderate    float64 `json:"moderate"`   // maintenance - 500
	Aggressive  float64 `json:"aggressive"` // maintenance - 750
}

// EstimateMaintenance computes BMR via Mifflin-St Jeor and maintenance
// as BMR times the activity multiplier. It fails when sex is neither
// male nor female, or any numeric input is not positive: a partial
// estimate would just be wrong.
func EstimateMaintenance(sex string, weightKg, heightCm float64, age int, activity float64) (Estimate, error) {
	if weightKg <= 0 || heightCm <= 0 || age <= 0 || activity <= 0 {
		return Estimate{}, ErrEstimateUnavailable
	}

	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	switch sex {
	case storage.GenderMale:
		bmr += 5
	case storage.GenderFemale:
		bmr -= 161
	default:
		return Estimate{}, ErrEstimateUnavailable
	}

	maintenance := bmr * activity
	return Estimate{
		BMR:         bmr,
		Maintenance: maintenance,
		Mild:        maintenance - 250,
		Moderate:    maintenance - 500,
		Aggressive:  maintenance - 750,
	}, nil
}
