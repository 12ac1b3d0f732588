package models

import "time"

const (
	PhotoAngleFront = "front"
	PhotoAngleSide  = "side"
	PhotoAngleBack  = "back"
)

func ValidPhotoAngle(angle string) bool {
	switch angle {
	case PhotoAngleFront, PhotoAngleSide, PhotoAngleBack:
		return true
	default:
		return false
	}
}

type EvolutionPhoto struct {
	ID        int64     `json:"id"`
	TrainerID int64     `json:"trainer_id"`
	ClientID  int64     `json:"client_id"`
	Angle     string    `json:"angle"`
	URL       string    `json:"url"`
	TakenAt   time.Time `json:"taken_at"`
	CreatedAt time.Time `json:"created_at"`
}

type BioimpedanceExam struct {
	ID           int64     `json:"id"`
	TrainerID    int64     `json:"trainer_id"`
	ClientID     int64     `json:"client_id"`
	WeightKg     float64   `json:"weight_kg"`
	BodyFatPct   float64   `json:"body_fat_pct"`
	MuscleMassKg float64   `json:"muscle_mass_kg"`
	VisceralFat  float64   `json:"visceral_fat"`
	ImageURL     *string   `json:"image_url"`
	ExaminedAt   time.Time `json:"examined_at"`
	CreatedAt    time.Time `json:"created_at"`
}

type Measurement struct {
	ID         int64     `json:"id"`
	TrainerID  int64     `json:"trainer_id"`
	ClientID   int64     `json:"client_id"`
	ChestCm    float64   `json:"chest_cm"`
	WaistCm    float64   `json:"waist_cm"`
	HipsCm     float64   `json:"hips_cm"`
	ThighCm    float64   `json:"thigh_cm"`
	ArmCm      float64   `json:"arm_cm"`
	RecordedAt time.Time `json:"recorded_at"`
	CreatedAt  time.Time `json:"created_at"`
}
