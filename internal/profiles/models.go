package profiles

import "github.com/fdg312/fueltrack/internal/storage"

// ProfileDTO — профиль наружу: без истории, словаря и PIN-хэша,
// только флаг gated.
type ProfileDTO struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Gender              string `json:"gender"`
	MaintenanceCalories int    `json:"maintenanceCalories"`
	Deficit             string `json:"deficit"`
	Gated               bool   `json:"gated"`
}

type ListProfilesResponse struct {
	Items           []ProfileDTO `json:"items"`
	ActiveProfileID string       `json:"activeProfileId"`
	FirstRun        bool         `json:"firstRun"`
}

type CreateProfileRequest struct {
	Name    string `json:"name"`
	PIN     string `json:"pin"`
	Gender  string `json:"gender"`
	Deficit string `json:"deficit"`
}

type SetupRequest struct {
	Name string `json:"name"`
	PIN  string `json:"pin"`
}

type SwitchProfileRequest struct {
	ID  string `json:"id"`
	PIN string `json:"pin"`
}

func toDTO(p storage.Profile) ProfileDTO {
	return ProfileDTO{
		ID:                  p.ID,
		Name:                p.Name,
		Gender:              p.Gender,
		MaintenanceCalories: p.MaintenanceCalories,
		Deficit:             p.Deficit,
		Gated:               p.PINHash != nil,
	}
}
