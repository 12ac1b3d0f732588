package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/fitpro-app/AgendaBack/internal/models"
	"github.com/fitpro-app/AgendaBack/internal/services"
)

type stubClientService struct {
	createResult   *models.Client
	createErr      error
	listResult     []models.Client
	listErr        error
	getResult      *models.Client
	getErr         error
	updateResult   *models.Client
	updateErr      error
	deleteErr      error
	lastTrainerID  int64
	lastClientID   int64
	lastActiveOnly bool
	lastInput      services.ClientInput
}

func (s *stubClientService) Create(_ context.Context, trainerID int64, input services.ClientInput) (*models.Client, error) {
	s.lastTrainerID = trainerID
	s.lastInput = input
	return s.createResult, s.createErr
}

func (s *stubClientService) List(_ context.Context, trainerID int64, activeOnly bool) ([]models.Client, error) {
	s.lastTrainerID = trainerID
	s.lastActiveOnly = activeOnly
	return s.listResult, s.listErr
}

func (s *stubClientService) Get(_ context.Context, trainerID, clientID int64) (*models.Client, error) {
	s.lastTrainerID = trainerID
	s.lastClientID = clientID
	return s.getResult, s.getErr
}

func (s *stubClientService) Update(_ context.Context, trainerID, clientID int64, input services.ClientInput) (*models.Client, error) {
	s.lastTrainerID = trainerID
	s.lastClientID = clientID
	s.lastInput = input
	return s.updateResult, s.updateErr
}

func (s *stubClientService) Delete(_ context.Context, trainerID, clientID int64) error {
	s.lastTrainerID = trainerID
	s.lastClientID = clientID
	return s.deleteErr
}

func clientApp(service clientApplicationService) *fiber.App {
	handler := &ClientHandler{service: service, validate: validator.New()}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "7")
		c.Locals("role", "trainer")
		return c.Next()
	})
	app.Post("/api/v1/clients", handler.Create)
	app.Get("/api/v1/clients", handler.List)
	app.Get("/api/v1/clients/:id", handler.Get)
	app.Put("/api/v1/clients/:id", handler.Update)
	app.Delete("/api/v1/clients/:id", handler.Delete)
	return app
}

func TestCreateClientPassesInput(t *testing.T) {
	service := &stubClientService{
		createResult: &models.Client{ID: 12, Name: "Ana Souza", PlanKind: models.PlanMonthly},
	}
	app := clientApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/clients", strings.NewReader(`{
		"name": "Ana Souza",
		"phone": "11999990000",
		"plan_kind": "monthly",
		"rate": 400,
		"billing_day": 10,
		"weekly_frequency": 3,
		"schedule_template": [
			{"weekday": 1, "start_time": "07:00"},
			{"weekday": 3, "start_time": "07:00"}
		]
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastTrainerID != 7 {
		t.Fatalf("expected trainer 7, got %d", service.lastTrainerID)
	}
	if service.lastInput.PlanKind != models.PlanMonthly {
		t.Fatalf("expected monthly plan, got %q", service.lastInput.PlanKind)
	}
	if len(service.lastInput.ScheduleTemplate) != 2 {
		t.Fatalf("expected 2 template entries, got %d", len(service.lastInput.ScheduleTemplate))
	}
	if service.lastInput.ScheduleTemplate[0].Weekday != time.Monday {
		t.Fatalf("expected Monday, got %v", service.lastInput.ScheduleTemplate[0].Weekday)
	}
	if !service.lastInput.IsActive {
		t.Fatal("omitted is_active should default to true")
	}
}

func TestCreateClientRejectsUnknownPlanKind(t *testing.T) {
	service := &stubClientService{}
	app := clientApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/clients", strings.NewReader(`{
		"name": "Ana Souza",
		"plan_kind": "weekly",
		"rate": 400,
		"billing_day": 10,
		"weekly_frequency": 3
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if service.lastTrainerID != 0 {
		t.Fatal("invalid payload must not reach the service")
	}
}

func TestCreateClientOverFreeLimitIsForbidden(t *testing.T) {
	service := &stubClientService{createErr: services.ErrClientLimitReached}
	app := clientApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/clients", strings.NewReader(`{
		"name": "Ana Souza",
		"plan_kind": "monthly",
		"rate": 400,
		"billing_day": 10,
		"weekly_frequency": 3
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestListClientsPassesActiveOnly(t *testing.T) {
	service := &stubClientService{listResult: []models.Client{{ID: 1}}}
	app := clientApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients?active_only=true", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !service.lastActiveOnly {
		t.Fatal("expected active_only to reach the service")
	}
}

func TestGetClientForbiddenForOtherTrainer(t *testing.T) {
	service := &stubClientService{getErr: services.ErrForbidden}
	app := clientApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients/99", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestDeleteClientReturnsNoContent(t *testing.T) {
	service := &stubClientService{}
	app := clientApp(service)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/clients/12", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if service.lastClientID != 12 {
		t.Fatalf("expected client 12, got %d", service.lastClientID)
	}
}
