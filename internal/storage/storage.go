package storage

import (
	"context"
	"encoding/json"
)

// Slot key under which the whole profile store is persisted.
const DefaultSlotKey = "fueltrack_profiles_v1"

// Gender values. Anything else is normalized to GenderUnspecified on load.
const (
	GenderMale        = "male"
	GenderFemale      = "female"
	GenderUnspecified = "unspecified"
)

// Deficit tiers. Unknown values fall back to DeficitNone.
const (
	DeficitNone       = "none"
	DeficitMild       = "mild"
	DeficitAggressive = "aggressive"
)

// DefaultMaintenanceCalories — базовая цель по калориям, когда профиль
// не задаёт свою (seed для unspecified пола и fallback движка целей).
const DefaultMaintenanceCalories = 2200

// FoodEntry — одна записанная еда за день.
type FoodEntry struct {
	Name     string  `json:"name"`
	Calories int     `json:"calories"`
	Weight   float64 `json:"weight"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// DayBucket — журнал еды за одну календарную дату ("YYYY-MM-DD").
type DayBucket struct {
	Date    string      `json:"date"`
	Entries []FoodEntry `json:"entries"`
}

// FoodMemo — запомненная еда для подсказок ввода. Last-write-wins:
// хранится последнее использованное значение калорий, без истории.
type FoodMemo struct {
	Name     string `json:"name"`
	Calories int    `json:"calories"`
}

// Profile — изолированная учётка со своей историей, словарём еды и целями.
type Profile struct {
	ID                  string              `json:"id"`
	Name                string              `json:"name"`
	Gender              string              `json:"gender"`
	MaintenanceCalories int                 `json:"maintenanceCalories"`
	Deficit             string              `json:"deficit"`
	History             []DayBucket         `json:"history"`
	Foods               map[string]FoodMemo `json:"foods"`
	// PINHash is the weak rolling hash of a 4-digit PIN; nil means the
	// profile is not gated. Not a security boundary.
	PINHash *string `json:"pinHash"`
}

// ProfileStore — единственный персистентный корень: все профили плюс
// указатель на активный.
type ProfileStore struct {
	ActiveProfileID string    `json:"activeProfileId"`
	Profiles        []Profile `json:"profiles"`
}

// SlotStorage persists the whole ProfileStore as one value under one key.
// There is no partial write: every Save replaces the full store.
type SlotStorage interface {
	// Load returns the persisted store. An absent or corrupt value is not
	// an error: the store resets to empty instead (first-run flow).
	Load(ctx context.Context) (*ProfileStore, error)

	// Save durably replaces the stored value with the given store.
	Save(ctx context.Context, store *ProfileStore) error

	// Close releases underlying resources (e.g. the Postgres pool).
	Close() error
}

// EmptyStore returns a fresh store with no profiles.
func EmptyStore() *ProfileStore {
	return &ProfileStore{Profiles: []Profile{}}
}

// DecodeStore parses a persisted store value, applying the defaulting
// rules of the slot format: every missing profile field gets its default,
// and malformed JSON or a non-array profiles field resets to an empty
// store rather than failing.
func DecodeStore(raw []byte) *ProfileStore {
	if len(raw) == 0 {
		return EmptyStore()
	}

	var parsed ProfileStore
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return EmptyStore()
	}
	if parsed.Profiles == nil {
		return EmptyStore()
	}

	for i := range parsed.Profiles {
		normalizeProfile(&parsed.Profiles[i])
	}

	return &parsed
}

// EncodeStore serializes the store for the slot.
func EncodeStore(store *ProfileStore) ([]byte, error) {
	return json.Marshal(store)
}

// normalizeProfile applies per-field defaults to a loaded profile.
func normalizeProfile(p *Profile) {
	if p.Gender != GenderMale && p.Gender != GenderFemale {
		p.Gender = GenderUnspecified
	}
	if p.MaintenanceCalories <= 0 {
		p.MaintenanceCalories = DefaultMaintenanceCalories
	}
	switch p.Deficit {
	case DeficitNone, DeficitMild, DeficitAggressive:
	default:
		p.Deficit = DeficitNone
	}
	if p.History == nil {
		p.History = []DayBucket{}
	}
	for i := range p.History {
		if p.History[i].Entries == nil {
			p.History[i].Entries = []FoodEntry{}
		}
	}
	if p.Foods == nil {
		p.Foods = map[string]FoodMemo{}
	}
}

// MaintenanceSeed returns the gender-keyed default maintenance calories
// used when a new profile is created.
func MaintenanceSeed(gender string) int {
	switch gender {
	case GenderMale:
		return 2500
	case GenderFemale:
		return 2000
	default:
		return DefaultMaintenanceCalories
	}
}
