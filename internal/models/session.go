package models

import "time"

// MuscleGroups is the closed set accepted when marking a session done.
var MuscleGroups = []string{
	"chest",
	"back",
	"shoulders",
	"biceps",
	"triceps",
	"legs",
	"glutes",
	"abs",
	"cardio",
	"full_body",
}

func ValidMuscleGroup(group string) bool {
	for _, g := range MuscleGroups {
		if g == group {
			return true
		}
	}
	return false
}

type Session struct {
	ID              int64     `json:"id"`
	TrainerID       int64     `json:"trainer_id"`
	ClientID        int64     `json:"client_id"`
	ClientName      string    `json:"client_name"`
	Date            time.Time `json:"date"`
	StartTime       string    `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	SessionDone     bool      `json:"session_done"`
	MuscleGroups    []string  `json:"muscle_groups"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DaySessions groups a day's sessions for the schedule views.
type DaySessions struct {
	Date     time.Time `json:"date"`
	Sessions []Session `json:"sessions"`
}
