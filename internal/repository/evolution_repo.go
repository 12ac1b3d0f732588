package repository

import (
	"context"
	"time"

	"github.com/fitpro-app/AgendaBack/internal/models"
)

type CreatePhotoInput struct {
	TrainerID int64
	ClientID  int64
	Angle     string
	URL       string
	TakenAt   time.Time
}

type CreateBioimpedanceInput struct {
	TrainerID    int64
	ClientID     int64
	WeightKg     float64
	BodyFatPct   float64
	MuscleMassKg float64
	VisceralFat  float64
	ImageURL     *string
	ExaminedAt   time.Time
}

type CreateMeasurementInput struct {
	TrainerID  int64
	ClientID   int64
	ChestCm    float64
	WaistCm    float64
	HipsCm     float64
	ThighCm    float64
	ArmCm      float64
	RecordedAt time.Time
}

type EvolutionRepository struct {
	db DBTX
}

func NewEvolutionRepository(db DBTX) *EvolutionRepository {
	return &EvolutionRepository{db: db}
}

func (r *EvolutionRepository) CreatePhoto(ctx context.Context, input CreatePhotoInput) (*models.EvolutionPhoto, error) {
	query := `
		INSERT INTO evolution_photos (trainer_id, client_id, angle, url, taken_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, trainer_id, client_id, angle, url, taken_at, created_at
	`
	var photo models.EvolutionPhoto
	err := r.db.QueryRow(ctx, query, input.TrainerID, input.ClientID, input.Angle, input.URL, input.TakenAt).Scan(
		&photo.ID,
		&photo.TrainerID,
		&photo.ClientID,
		&photo.Angle,
		&photo.URL,
		&photo.TakenAt,
		&photo.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *EvolutionRepository) ListPhotos(ctx context.Context, trainerID, clientID int64) ([]models.EvolutionPhoto, error) {
	query := `
		SELECT id, trainer_id, client_id, angle, url, taken_at, created_at
		FROM evolution_photos
		WHERE trainer_id = $1 AND client_id = $2
		ORDER BY taken_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, trainerID, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	photos := make([]models.EvolutionPhoto, 0)
	for rows.Next() {
		var photo models.EvolutionPhoto
		if err := rows.Scan(
			&photo.ID,
			&photo.TrainerID,
			&photo.ClientID,
			&photo.Angle,
			&photo.URL,
			&photo.TakenAt,
			&photo.CreatedAt,
		); err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *EvolutionRepository) CreateBioimpedance(ctx context.Context, input CreateBioimpedanceInput) (*models.BioimpedanceExam, error) {
	query := `
		INSERT INTO bioimpedance_exams (trainer_id, client_id, weight_kg, body_fat_pct,
			muscle_mass_kg, visceral_fat, image_url, examined_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, trainer_id, client_id, weight_kg, body_fat_pct, muscle_mass_kg,
			visceral_fat, image_url, examined_at, created_at
	`
	var exam models.BioimpedanceExam
	err := r.db.QueryRow(
		ctx,
		query,
		input.TrainerID,
		input.ClientID,
		input.WeightKg,
		input.BodyFatPct,
		input.MuscleMassKg,
		input.VisceralFat,
		input.ImageURL,
		input.ExaminedAt,
	).Scan(
		&exam.ID,
		&exam.TrainerID,
		&exam.ClientID,
		&exam.WeightKg,
		&exam.BodyFatPct,
		&exam.MuscleMassKg,
		&exam.VisceralFat,
		&exam.ImageURL,
		&exam.ExaminedAt,
		&exam.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *EvolutionRepository) ListBioimpedance(ctx context.Context, trainerID, clientID int64) ([]models.BioimpedanceExam, error) {
	query := `
		SELECT id, trainer_id, client_id, weight_kg, body_fat_pct, muscle_mass_kg,
			visceral_fat, image_url, examined_at, created_at
		FROM bioimpedance_exams
		WHERE trainer_id = $1 AND client_id = $2
		ORDER BY examined_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, trainerID, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exams := make([]models.BioimpedanceExam, 0)
	for rows.Next() {
		var exam models.BioimpedanceExam
		if err := rows.Scan(
			&exam.ID,
			&exam.TrainerID,
			&exam.ClientID,
			&exam.WeightKg,
			&exam.BodyFatPct,
			&exam.MuscleMassKg,
			&exam.VisceralFat,
			&exam.ImageURL,
			&exam.ExaminedAt,
			&exam.CreatedAt,
		); err != nil {
			return nil, err
		}
		exams = append(exams, exam)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return exams, nil
}

func (r *EvolutionRepository) CreateMeasurement(ctx context.Context, input CreateMeasurementInput) (*models.Measurement, error) {
	query := `
		INSERT INTO measurements (trainer_id, client_id, chest_cm, waist_cm, hips_cm,
			thigh_cm, arm_cm, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, trainer_id, client_id, chest_cm, waist_cm, hips_cm, thigh_cm,
			arm_cm, recorded_at, created_at
	`
	var m models.Measurement
	err := r.db.QueryRow(
		ctx,
		query,
		input.TrainerID,
		input.ClientID,
		input.ChestCm,
		input.WaistCm,
		input.HipsCm,
		input.ThighCm,
		input.ArmCm,
		input.RecordedAt,
	).Scan(
		&m.ID,
		&m.TrainerID,
		&m.ClientID,
		&m.ChestCm,
		&m.WaistCm,
		&m.HipsCm,
		&m.ThighCm,
		&m.ArmCm,
		&m.RecordedAt,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *EvolutionRepository) ListMeasurements(ctx context.Context, trainerID, clientID int64) ([]models.Measurement, error) {
	query := `
		SELECT id, trainer_id, client_id, chest_cm, waist_cm, hips_cm, thigh_cm,
			arm_cm, recorded_at, created_at
		FROM measurements
		WHERE trainer_id = $1 AND client_id = $2
		ORDER BY recorded_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, trainerID, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	measurements := make([]models.Measurement, 0)
	for rows.Next() {
		var m models.Measurement
		if err := rows.Scan(
			&m.ID,
			&m.TrainerID,
			&m.ClientID,
			&m.ChestCm,
			&m.WaistCm,
			&m.HipsCm,
			&m.ThighCm,
			&m.ArmCm,
			&m.RecordedAt,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		measurements = append(measurements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return measurements, nil
}
