package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fitpro-app/AgendaBack/internal/models"
	"github.com/fitpro-app/AgendaBack/internal/services"
)

type evolutionApplicationService interface {
	UploadPhotos(ctx context.Context, trainerID, clientID int64, takenAt time.Time, uploads []services.PhotoUpload) ([]models.EvolutionPhoto, error)
	ListPhotos(ctx context.Context, trainerID, clientID int64) ([]models.EvolutionPhoto, error)
	AddBioimpedance(ctx context.Context, trainerID, clientID int64, input services.BioimpedanceInput) (*models.BioimpedanceExam, error)
	ListBioimpedance(ctx context.Context, trainerID, clientID int64) ([]models.BioimpedanceExam, error)
	AddMeasurement(ctx context.Context, trainerID, clientID int64, input services.MeasurementInput) (*models.Measurement, error)
	ListMeasurements(ctx context.Context, trainerID, clientID int64) ([]models.Measurement, error)
}

type EvolutionHandler struct {
	service evolutionApplicationService
}

func NewEvolutionHandler(service *services.EvolutionService) *EvolutionHandler {
	return &EvolutionHandler{service: service}
}

func readFormFile(header *multipart.FileHeader) ([]byte, string, error) {
	file, err := header.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return content, header.Header.Get("Content-Type"), nil
}

// UploadPhotos accepts multipart form files named front, side and back. Any
// subset may be present; the batch succeeds if at least one upload succeeds.
func (h *EvolutionHandler) UploadPhotos(c *fiber.Ctx) error {
	trainerID, err := parseTrainerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	clientID, err := parseIDParam(c, "clientId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid client id"})
	}

	takenAt := time.Now().UTC()
	if value := c.FormValue("taken_at"); value != "" {
		parsed, err := parseDate(value)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "taken_at must be YYYY-MM-DD"})
		}
		takenAt = parsed
	}

	uploads := make([]services.PhotoUpload, 0, 3)
	for _, angle := range []string{models.PhotoAngleFront, models.PhotoAngleSide, models.PhotoAngleBack} {
		header, err := c.FormFile(angle)
		if err != nil {
			continue
		}
		content, contentType, err := readFormFile(header)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read " + angle + " photo"})
		}
		uploads = append(uploads, services.PhotoUpload{
			Angle:       angle,
			Content:     content,
			ContentType: contentType,
		})
	}
	if len(uploads) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No photos provided"})
	}

	photos, err := h.service.UploadPhotos(c.Context(), trainerID, clientID, takenAt, uploads)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"photos": photos})
}

func (h *EvolutionHandler) ListPhotos(c *fiber.Ctx) error {
	trainerID, err := parseTrainerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	clientID, err := parseIDParam(c, "clientId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid client id"})
	}

	photos, err := h.service.ListPhotos(c.Context(), trainerID, clientID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"photos": photos})
}

// parseFloatForm treats a missing field as zero but rejects values that
// are present and unparseable, so a garbled number never gets stored as 0.
func parseFloatForm(c *fiber.Ctx, name string) (float64, error) {
	raw := c.FormValue(name)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return value, nil
}

func (h *EvolutionHandler) AddBioimpedance(c *fiber.Ctx) error {
	trainerID, err := parseTrainerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	clientID, err := parseIDParam(c, "clientId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid client id"})
	}

	var input services.BioimpedanceInput
	fields := []struct {
		name string
		dest *float64
	}{
		{"weight_kg", &input.WeightKg},
		{"body_fat_pct", &input.BodyFatPct},
		{"muscle_mass_kg", &input.MuscleMassKg},
		{"visceral_fat", &input.VisceralFat},
	}
	for _, field := range fields {
		value, err := parseFloatForm(c, field.name)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		*field.dest = value
	}
	if value := c.FormValue("examined_at"); value != "" {
		parsed, err := parseDate(value)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "examined_at must be YYYY-MM-DD"})
		}
		input.ExaminedAt = parsed
	}
	if header, err := c.FormFile("exam_image"); err == nil {
		content, contentType, err := readFormFile(header)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read exam image"})
		}
		input.ExamImage = content
		input.ImageType = contentType
	}

	exam, err := h.service.AddBioimpedance(c.Context(), trainerID, clientID, input)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"exam": exam})
}

func (h *EvolutionHandler) ListBioimpedance(c *fiber.Ctx) error {
	trainerID, err := parseTrainerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	clientID, err := parseIDParam(c, "clientId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid client id"})
	}

	exams, err := h.service.ListBioimpedance(c.Context(), trainerID, clientID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"exams": exams})
}

type measurementRequest struct {
	ChestCm    float64 `json:"chest_cm"`
	WaistCm    float64 `json:"waist_cm"`
	HipsCm     float64 `json:"hips_cm"`
	ThighCm    float64 `json:"thigh_cm"`
	ArmCm      float64 `json:"arm_cm"`
	RecordedAt string  `json:"recorded_at"`
}

func (h *EvolutionHandler) AddMeasurement(c *fiber.Ctx) error {
	trainerID, err := parseTrainerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	clientID, err := parseIDParam(c, "clientId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid client id"})
	}

	var req measurementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	input := services.MeasurementInput{
		ChestCm: req.ChestCm,
		WaistCm: req.WaistCm,
		HipsCm:  req.HipsCm,
		ThighCm: req.ThighCm,
		ArmCm:   req.ArmCm,
	}
	if req.RecordedAt != "" {
		parsed, err := parseDate(req.RecordedAt)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "recorded_at must be YYYY-MM-DD"})
		}
		input.RecordedAt = parsed
	}

	measurement, err := h.service.AddMeasurement(c.Context(), trainerID, clientID, input)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"measurement": measurement})
}

func (h *EvolutionHandler) ListMeasurements(c *fiber.Ctx) error {
	trainerID, err := parseTrainerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	clientID, err := parseIDParam(c, "clientId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid client id"})
	}

	measurements, err := h.service.ListMeasurements(c.Context(), trainerID, clientID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"measurements": measurements})
}
