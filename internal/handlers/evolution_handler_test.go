package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fitpro-app/AgendaBack/internal/models"
	"github.com/fitpro-app/AgendaBack/internal/services"
)

type stubEvolutionService struct {
	examResult    *models.BioimpedanceExam
	examErr       error
	examCalls     int
	lastTrainerID int64
	lastClientID  int64
	lastExamInput services.BioimpedanceInput
}

func (s *stubEvolutionService) UploadPhotos(_ context.Context, trainerID, clientID int64, _ time.Time, _ []services.PhotoUpload) ([]models.EvolutionPhoto, error) {
	return nil, nil
}

func (s *stubEvolutionService) ListPhotos(_ context.Context, trainerID, clientID int64) ([]models.EvolutionPhoto, error) {
	return nil, nil
}

func (s *stubEvolutionService) AddBioimpedance(_ context.Context, trainerID, clientID int64, input services.BioimpedanceInput) (*models.BioimpedanceExam, error) {
	s.examCalls++
	s.lastTrainerID = trainerID
	s.lastClientID = clientID
	s.lastExamInput = input
	return s.examResult, s.examErr
}

func (s *stubEvolutionService) ListBioimpedance(_ context.Context, trainerID, clientID int64) ([]models.BioimpedanceExam, error) {
	return nil, nil
}

func (s *stubEvolutionService) AddMeasurement(_ context.Context, trainerID, clientID int64, input services.MeasurementInput) (*models.Measurement, error) {
	return nil, nil
}

func (s *stubEvolutionService) ListMeasurements(_ context.Context, trainerID, clientID int64) ([]models.Measurement, error) {
	return nil, nil
}

func evolutionApp(service evolutionApplicationService) *fiber.App {
	handler := &EvolutionHandler{service: service}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "7")
		c.Locals("role", "trainer")
		return c.Next()
	})
	app.Post("/api/v1/clients/:clientId/evolution/bioimpedance", handler.AddBioimpedance)
	return app
}

func bioimpedanceForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}
	return &body, writer.FormDataContentType()
}

func TestAddBioimpedancePassesParsedValues(t *testing.T) {
	service := &stubEvolutionService{examResult: &models.BioimpedanceExam{ID: 1}}
	app := evolutionApp(service)

	body, contentType := bioimpedanceForm(t, map[string]string{
		"weight_kg":    "82.5",
		"body_fat_pct": "18.2",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/clients/3/evolution/bioimpedance", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastTrainerID != 7 || service.lastClientID != 3 {
		t.Fatalf("unexpected tenancy: trainer %d client %d", service.lastTrainerID, service.lastClientID)
	}
	if service.lastExamInput.WeightKg != 82.5 {
		t.Errorf("expected weight 82.5, got %v", service.lastExamInput.WeightKg)
	}
	if service.lastExamInput.BodyFatPct != 18.2 {
		t.Errorf("expected body fat 18.2, got %v", service.lastExamInput.BodyFatPct)
	}
	// Fields the form omitted stay zero.
	if service.lastExamInput.MuscleMassKg != 0 {
		t.Errorf("expected zero muscle mass, got %v", service.lastExamInput.MuscleMassKg)
	}
}

func TestAddBioimpedanceRejectsMalformedNumbers(t *testing.T) {
	service := &stubEvolutionService{examResult: &models.BioimpedanceExam{ID: 1}}
	app := evolutionApp(service)

	body, contentType := bioimpedanceForm(t, map[string]string{
		"weight_kg":    "82.5",
		"body_fat_pct": "eighteen",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/clients/3/evolution/bioimpedance", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if service.examCalls != 0 {
		t.Fatalf("service reached with a malformed value: %d calls", service.examCalls)
	}
}
