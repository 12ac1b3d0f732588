package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/fitpro-app/AgendaBack/internal/models"
	"github.com/fitpro-app/AgendaBack/internal/repository"
)

var (
	ErrStorageUnconfigured = errors.New("object storage is not configured")
	ErrAllUploadsFailed    = errors.New("all uploads failed")
)

type EvolutionService struct {
	evolutionRepo *repository.EvolutionRepository
	clientRepo    *repository.ClientRepository
	storage       StorageService
	notifier      ChangeNotifier
}

func NewEvolutionService(
	evolutionRepo *repository.EvolutionRepository,
	clientRepo *repository.ClientRepository,
	storage StorageService,
	notifier ChangeNotifier,
) *EvolutionService {
	return &EvolutionService{
		evolutionRepo: evolutionRepo,
		clientRepo:    clientRepo,
		storage:       storage,
		notifier:      notifier,
	}
}

func (s *EvolutionService) ownedClient(ctx context.Context, trainerID, clientID int64) (*models.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client.TrainerID != trainerID {
		return nil, ErrForbidden
	}
	return client, nil
}

type PhotoUpload struct {
	Angle       string
	Content     []byte
	ContentType string
}

// UploadPhotos stores an evolution photo set. Each upload fails or succeeds
// independently: the batch succeeds when at least one photo went through,
// and reports failure only when every upload failed.
func (s *EvolutionService) UploadPhotos(
	ctx context.Context,
	trainerID int64,
	clientID int64,
	takenAt time.Time,
	uploads []PhotoUpload,
) ([]models.EvolutionPhoto, error) {
	if s.storage == nil {
		return nil, ErrStorageUnconfigured
	}
	if len(uploads) == 0 {
		return nil, ErrInvalidInput
	}
	for _, upload := range uploads {
		if !models.ValidPhotoAngle(upload.Angle) || len(upload.Content) == 0 {
			return nil, ErrInvalidInput
		}
	}
	if _, err := s.ownedClient(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	if takenAt.IsZero() {
		takenAt = time.Now().UTC()
	}

	photos := make([]models.EvolutionPhoto, 0, len(uploads))
	var lastErr error
	for _, upload := range uploads {
		objectPath := fmt.Sprintf("evolution/%d/%d/%s-%s", trainerID, clientID, upload.Angle, uuid.NewString())
		url, err := s.storage.Upload(ctx, objectPath, upload.Content, upload.ContentType)
		if err != nil {
			log.Printf("evolution: upload %s photo for client %d failed: %v", upload.Angle, clientID, err)
			lastErr = err
			continue
		}
		photo, err := s.evolutionRepo.CreatePhoto(ctx, repository.CreatePhotoInput{
			TrainerID: trainerID,
			ClientID:  clientID,
			Angle:     upload.Angle,
			URL:       url,
			TakenAt:   takenAt,
		})
		if err != nil {
			log.Printf("evolution: record %s photo for client %d failed: %v", upload.Angle, clientID, err)
			lastErr = err
			continue
		}
		photos = append(photos, *photo)
	}

	if len(photos) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrAllUploadsFailed, lastErr)
		}
		return nil, ErrAllUploadsFailed
	}

	if s.notifier != nil {
		s.notifier.Publish(trainerID, "evolution_photos", "insert")
	}
	return photos, nil
}

func (s *EvolutionService) ListPhotos(ctx context.Context, trainerID, clientID int64) ([]models.EvolutionPhoto, error) {
	if _, err := s.ownedClient(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	return s.evolutionRepo.ListPhotos(ctx, trainerID, clientID)
}

type BioimpedanceInput struct {
	WeightKg     float64
	BodyFatPct   float64
	MuscleMassKg float64
	VisceralFat  float64
	ExamImage    []byte
	ImageType    string
	ExaminedAt   time.Time
}

// AddBioimpedance records an exam; the exam image is optional and a failed
// image upload does not lose the numeric record.
func (s *EvolutionService) AddBioimpedance(
	ctx context.Context,
	trainerID int64,
	clientID int64,
	input BioimpedanceInput,
) (*models.BioimpedanceExam, error) {
	if input.WeightKg <= 0 {
		return nil, ErrInvalidInput
	}
	if _, err := s.ownedClient(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	if input.ExaminedAt.IsZero() {
		input.ExaminedAt = time.Now().UTC()
	}

	var imageURL *string
	if len(input.ExamImage) > 0 && s.storage != nil {
		objectPath := fmt.Sprintf("bioimpedance/%d/%d/%s", trainerID, clientID, uuid.NewString())
		url, err := s.storage.Upload(ctx, objectPath, input.ExamImage, input.ImageType)
		if err != nil {
			log.Printf("evolution: bioimpedance image upload for client %d failed: %v", clientID, err)
		} else {
			imageURL = &url
		}
	}

	exam, err := s.evolutionRepo.CreateBioimpedance(ctx, repository.CreateBioimpedanceInput{
		TrainerID:    trainerID,
		ClientID:     clientID,
		WeightKg:     input.WeightKg,
		BodyFatPct:   input.BodyFatPct,
		MuscleMassKg: input.MuscleMassKg,
		VisceralFat:  input.VisceralFat,
		ImageURL:     imageURL,
		ExaminedAt:   input.ExaminedAt,
	})
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.Publish(trainerID, "bioimpedance_exams", "insert")
	}
	return exam, nil
}

func (s *EvolutionService) ListBioimpedance(ctx context.Context, trainerID, clientID int64) ([]models.BioimpedanceExam, error) {
	if _, err := s.ownedClient(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	return s.evolutionRepo.ListBioimpedance(ctx, trainerID, clientID)
}

type MeasurementInput struct {
	ChestCm    float64
	WaistCm    float64
	HipsCm     float64
	ThighCm    float64
	ArmCm      float64
	RecordedAt time.Time
}

func (s *EvolutionService) AddMeasurement(
	ctx context.Context,
	trainerID int64,
	clientID int64,
	input MeasurementInput,
) (*models.Measurement, error) {
	if input.ChestCm < 0 || input.WaistCm < 0 || input.HipsCm < 0 || input.ThighCm < 0 || input.ArmCm < 0 {
		return nil, ErrInvalidInput
	}
	if _, err := s.ownedClient(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	if input.RecordedAt.IsZero() {
		input.RecordedAt = time.Now().UTC()
	}

	measurement, err := s.evolutionRepo.CreateMeasurement(ctx, repository.CreateMeasurementInput{
		TrainerID:  trainerID,
		ClientID:   clientID,
		ChestCm:    input.ChestCm,
		WaistCm:    input.WaistCm,
		HipsCm:     input.HipsCm,
		ThighCm:    input.ThighCm,
		ArmCm:      input.ArmCm,
		RecordedAt: input.RecordedAt,
	})
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.Publish(trainerID, "measurements", "insert")
	}
	return measurement, nil
}

func (s *EvolutionService) ListMeasurements(ctx context.Context, trainerID, clientID int64) ([]models.Measurement, error) {
	if _, err := s.ownedClient(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	return s.evolutionRepo.ListMeasurements(ctx, trainerID, clientID)
}
