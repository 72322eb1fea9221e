// Package session владеет всем изменяемым состоянием приложения:
// загруженным ProfileStore и рабочими кешами активного профиля
// (записи за сегодня, словарь еды, история). Все операции проходят
// через Session под одним мьютексом; скрытых глобалов нет.
package session

import (
	"context"
	"errors"
	"log"
	"math"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/fdg312/fueltrack/internal/datekey"
	"github.com/fdg312/fueltrack/internal/goals"
	"github.com/fdg312/fueltrack/internal/ledger"
	"github.com/fdg312/fueltrack/internal/storage"
)

var (
	ErrProfileNotFound = errors.New("profile_not_found")
	ErrPinRequired     = errors.New("pin_required")
	ErrWrongPin        = errors.New("wrong_pin")
	ErrLastProfile     = errors.New("last_profile_undeletable")
	ErrNameRequired    = errors.New("name_required")
	ErrPinLength       = errors.New("pin_must_be_4_chars")
	ErrInvalidEntry    = errors.New("invalid_entry")
)

// Calories per entry must land in this range.
const (
	MinEntryCalories = 1
	MaxEntryCalories = 5000
)

const defaultProfileID = "default"

// Session is the single owner of the profile store and the working
// caches derived from the active profile. Writes go to the slot after
// every mutation; a failed write is logged and swallowed, the
// in-memory state stays authoritative.
type Session struct {
	mu     sync.Mutex
	slot   storage.SlotStorage
	logger *log.Logger

	now   func() time.Time
	newID func() string

	store *storage.ProfileStore

	// Working caches, always derived from the active profile in the
	// fixed order history -> foods -> entries.
	history []storage.DayBucket
	foods   map[string]storage.FoodMemo
	entries []storage.FoodEntry
}

// New loads the store from the slot and primes the caches. A corrupt
// or absent slot value comes back as an empty store from the storage
// layer, which puts the session into the first-run state.
func New(ctx context.Context, slot storage.SlotStorage, logger *log.Logger) (*Session, error) {
	store, err := slot.Load(ctx)
	if err != nil {
		return nil, err
	}

	s := &Session{
		slot:   slot,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return "p_" + uuid.NewString() },
		store:  store,
	}
	if !s.FirstRun() {
		s.resyncFromActive()
	}
	return s, nil
}

// SetClock replaces the session clock. Tests use it to pin "today".
func (s *Session) SetClock(now func() time.Time) { s.now = now }

// SetIDGenerator replaces the profile id generator.
func (s *Session) SetIDGenerator(gen func() string) { s.newID = gen }

// Now reads the session clock.
func (s *Session) Now() time.Time { return s.now() }

// FirstRun reports whether no profiles exist yet, which is the signal
// for the first-time-setup flow.
func (s *Session) FirstRun() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.store.Profiles) == 0
}

// ensureDefaultProfile synthesizes the default profile when the store
// is empty. Idempotent.
func (s *Session) ensureDefaultProfile() {
	if len(s.store.Profiles) > 0 {
		return
	}
	p := storage.Profile{
		ID:                  defaultProfileID,
		Name:                "Me",
		Gender:              storage.GenderUnspecified,
		MaintenanceCalories: storage.DefaultMaintenanceCalories,
		Deficit:             storage.DeficitNone,
		History:             []storage.DayBucket{},
		Foods:               map[string]storage.FoodMemo{},
	}
	s.store.Profiles = append(s.store.Profiles, p)
	s.store.ActiveProfileID = p.ID
	s.resyncFromActive()
}

// activeRef returns a pointer to the active profile, falling back to
// the first profile when the active pointer is stale. The stale
// pointer itself is left as is.
func (s *Session) activeRef() *storage.Profile {
	s.ensureDefaultProfile()
	for i := range s.store.Profiles {
		if s.store.Profiles[i].ID == s.store.ActiveProfileID {
			return &s.store.Profiles[i]
		}
	}
	return &s.store.Profiles[0]
}

// resyncFromActive rebuilds the working caches from the active
// profile. Order matters: history first, then the food dictionary,
// then today's entries are carved out of the fresh history.
func (s *Session) resyncFromActive() {
	active := s.activeRef()
	s.history = active.History
	s.foods = active.Foods
	s.syncEntriesFromToday()
}

func (s *Session) syncEntriesFromToday() {
	key := datekey.DayKey(s.now())
	for i := range s.history {
		if s.history[i].Date == key {
			s.entries = append([]storage.FoodEntry{}, s.history[i].Entries...)
			return
		}
	}
	s.entries = []storage.FoodEntry{}
}

// updateTodayInHistory writes the entries cache back into today's
// bucket, creating the bucket on first use.
func (s *Session) updateTodayInHistory() {
	key := datekey.DayKey(s.now())
	for i := range s.history {
		if s.history[i].Date == key {
			s.history[i].Entries = append([]storage.FoodEntry{}, s.entries...)
			return
		}
	}
	s.history = append(s.history, storage.DayBucket{
		Date:    key,
		Entries: append([]storage.FoodEntry{}, s.entries...),
	})
}

// persist flushes the caches into the active profile and saves the
// whole store. Write failures are logged and swallowed: the session
// keeps running on in-memory state, there is no retry.
func (s *Session) persist(ctx context.Context) {
	active := s.activeRef()
	active.History = s.history
	active.Foods = s.foods

	if err := s.slot.Save(ctx, s.store); err != nil {
		s.logger.Printf("WARN: failed to save store: %v", err)
	}
}

// ActiveProfile returns a copy of the active profile.
func (s *Session) ActiveProfile() storage.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.activeRef()
}

// Profiles returns a copy of all profiles plus the active id.
func (s *Session) Profiles() ([]storage.Profile, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]storage.Profile{}, s.store.Profiles...)
	return out, s.store.ActiveProfileID
}

func validateNameAndPIN(name, pin string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	if utf8.RuneCountInString(pin) != 4 {
		return "", ErrPinLength
	}
	return name, nil
}

// Setup — первичная настройка: сносит все профили и ставит один
// новый, закрытый PIN-ом. Это намеренно разрушительный путь первого
// запуска, а не переименование.
func (s *Session) Setup(ctx context.Context, name, pin string) (storage.Profile, error) {
	name, err := validateNameAndPIN(name, pin)
	if err != nil {
		return storage.Profile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	hash := HashPIN(pin)
	p := storage.Profile{
		ID:                  defaultProfileID,
		Name:                name,
		Gender:              storage.GenderUnspecified,
		MaintenanceCalories: storage.DefaultMaintenanceCalories,
		Deficit:             storage.DeficitNone,
		History:             []storage.DayBucket{},
		Foods:               map[string]storage.FoodMemo{},
		PINHash:             &hash,
	}

	s.store.Profiles = []storage.Profile{p}
	s.store.ActiveProfileID = p.ID
	s.resyncFromActive()
	s.persist(ctx)
	return p, nil
}

// CreateProfile validates the input, appends a new gated profile and
// makes it active. Maintenance calories are seeded from the gender.
func (s *Session) CreateProfile(ctx context.Context, name, pin, gender, deficit string) (storage.Profile, error) {
	name, err := validateNameAndPIN(name, pin)
	if err != nil {
		return storage.Profile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gender != storage.GenderMale && gender != storage.GenderFemale {
		gender = storage.GenderUnspecified
	}
	switch deficit {
	case storage.DeficitNone, storage.DeficitMild, storage.DeficitAggressive:
	default:
		deficit = storage.DeficitNone
	}

	hash := HashPIN(pin)
	p := storage.Profile{
		ID:                  s.newID(),
		Name:                name,
		Gender:              gender,
		MaintenanceCalories: storage.MaintenanceSeed(gender),
		Deficit:             deficit,
		History:             []storage.DayBucket{},
		Foods:               map[string]storage.FoodMemo{},
		PINHash:             &hash,
	}

	s.store.Profiles = append(s.store.Profiles, p)
	s.store.ActiveProfileID = p.ID
	s.resyncFromActive()
	s.persist(ctx)
	return p, nil
}

func (s *Session) findProfile(id string) *storage.Profile {
	for i := range s.store.Profiles {
		if s.store.Profiles[i].ID == id {
			return &s.store.Profiles[i]
		}
	}
	return nil
}

// SwitchProfile activates the target profile. A gated target (non-nil
// PIN hash) yields ErrPinRequired with no mutation; the caller goes
// through AuthenticateAndSwitch instead.
func (s *Session) SwitchProfile(ctx context.Context, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.findProfile(targetID)
	if target == nil {
		return ErrProfileNotFound
	}
	if target.PINHash != nil {
		return ErrPinRequired
	}

	s.activateLocked(ctx, targetID)
	return nil
}

// AuthenticateAndSwitch verifies the candidate PIN against the target
// profile and activates it on a match. A wrong PIN mutates nothing;
// there is no lockout or retry limit.
func (s *Session) AuthenticateAndSwitch(ctx context.Context, targetID, pin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.findProfile(targetID)
	if target == nil {
		return ErrProfileNotFound
	}
	if target.PINHash == nil || !VerifyPIN(pin, *target.PINHash) {
		return ErrWrongPin
	}

	s.activateLocked(ctx, targetID)
	return nil
}

func (s *Session) activateLocked(ctx context.Context, targetID string) {
	// Flush the outgoing profile's caches before the pointer moves.
	s.persist(ctx)
	s.store.ActiveProfileID = targetID
	s.resyncFromActive()
	s.persist(ctx)
}

// DeleteActiveProfile removes the active profile and activates the
// first remaining one. The last profile cannot be deleted.
func (s *Session) DeleteActiveProfile(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.store.Profiles) <= 1 {
		return ErrLastProfile
	}

	activeID := s.activeRef().ID
	kept := s.store.Profiles[:0]
	for _, p := range s.store.Profiles {
		if p.ID != activeID {
			kept = append(kept, p)
		}
	}
	s.store.Profiles = kept
	s.store.ActiveProfileID = kept[0].ID
	s.resyncFromActive()
	s.persist(ctx)
	return nil
}

// AddEntry validates and appends a food entry to today's log, updates
// the food dictionary and persists. Negative macro values are
// normalized to zero.
func (s *Session) AddEntry(ctx context.Context, e storage.FoodEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// First write on an empty store synthesizes the default profile and
	// primes the caches.
	s.activeRef()

	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" || e.Calories < MinEntryCalories || e.Calories > MaxEntryCalories {
		return ErrInvalidEntry
	}
	e.Weight = math.Max(e.Weight, 0)
	e.Protein = math.Max(e.Protein, 0)
	e.Carbs = math.Max(e.Carbs, 0)
	e.Fats = math.Max(e.Fats, 0)

	s.entries = append(s.entries, e)
	s.rememberFood(e.Name, e.Calories)
	s.updateTodayInHistory()
	s.persist(ctx)
	return nil
}

// rememberFood records the food under its lowercased name. Last write
// wins: only the most recent calorie value is kept.
func (s *Session) rememberFood(name string, calories int) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || calories == 0 {
		return
	}
	s.foods[key] = storage.FoodMemo{Name: strings.TrimSpace(name), Calories: calories}
}

// ClearToday drops all of today's entries.
func (s *Session) ClearToday(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activeRef()
	s.entries = []storage.FoodEntry{}
	s.updateTodayInHistory()
	s.persist(ctx)
}

// TodayEntries returns a copy of today's working entries.
func (s *Session) TodayEntries() []storage.FoodEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]storage.FoodEntry{}, s.entries...)
}

// TodayTotals sums today's entries, weight included.
func (s *Session) TodayTotals() ledger.DayTotals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ledger.SumEntries(s.entries)
}

// WeeklyTotals covers the trailing 7-day window of the history.
func (s *Session) WeeklyTotals() ledger.RangeTotals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ledger.SumWeekly(s.history, s.now())
}

// MonthlyTotals covers the trailing 30-day window.
func (s *Session) MonthlyTotals() ledger.RangeTotals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ledger.SumMonthly(s.history, s.now())
}

// HistorySnapshot returns a deep copy of the active profile's history
// for read-only consumers (reports).
func (s *Session) HistorySnapshot() []storage.DayBucket {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]storage.DayBucket, len(s.history))
	for i, day := range s.history {
		out[i] = storage.DayBucket{
			Date:    day.Date,
			Entries: append([]storage.FoodEntry{}, day.Entries...),
		}
	}
	return out
}

// Goals returns the active profile's goal set.
func (s *Session) Goals() goals.Goals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return goals.ForProfile(s.activeRef())
}

// EstimateMaintenance runs the calorie needs estimator and, on
// success, persists the rounded maintenance onto the active profile.
func (s *Session) EstimateMaintenance(ctx context.Context, sex string, weightKg, heightCm float64, age int, activity float64) (goals.Estimate, error) {
	est, err := goals.EstimateMaintenance(sex, weightKg, heightCm, age, activity)
	if err != nil {
		return goals.Estimate{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeRef().MaintenanceCalories = int(math.Round(est.Maintenance))
	s.persist(ctx)
	return est, nil
}

// FoodSuggestions returns the remembered foods matching the query,
// sorted by name. An empty query returns the whole dictionary.
func (s *Session) FoodSuggestions(query string) []storage.FoodMemo {
	s.mu.Lock()
	defer s.mu.Unlock()

	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]storage.FoodMemo, 0, len(s.foods))
	for key, memo := range s.foods {
		if query == "" || strings.Contains(key, query) {
			out = append(out, memo)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
