package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fitpro-app/AgendaBack/internal/models"
	"github.com/fitpro-app/AgendaBack/internal/services"
)

type stubScheduleService struct {
	createResult     *models.Session
	createErr        error
	listResult       []models.DaySessions
	listErr          error
	reassignResult   *models.Session
	reassignErr      error
	markDoneResult   *models.Session
	markDoneErr      error
	deleteErr        error
	autoResult       []models.Session
	autoErr          error
	lastCreateInput  services.CreateSessionInput
	lastTrainerID    int64
	lastSessionID    int64
	lastClientID     int64
	lastDate         time.Time
	lastStartTime    string
	lastMuscleGroups []string
	lastFrom         *time.Time
	lastTo           *time.Time
}

func (s *stubScheduleService) CreateSession(_ context.Context, trainerID int64, input services.CreateSessionInput) (*models.Session, error) {
	s.lastTrainerID = trainerID
	s.lastCreateInput = input
	return s.createResult, s.createErr
}

func (s *stubScheduleService) ListSessions(_ context.Context, trainerID int64, from, to *time.Time) ([]models.DaySessions, error) {
	s.lastTrainerID = trainerID
	s.lastFrom = from
	s.lastTo = to
	return s.listResult, s.listErr
}

func (s *stubScheduleService) Reassign(_ context.Context, trainerID, sessionID int64, date time.Time, startTime string) (*models.Session, error) {
	s.lastTrainerID = trainerID
	s.lastSessionID = sessionID
	s.lastDate = date
	s.lastStartTime = startTime
	return s.reassignResult, s.reassignErr
}

func (s *stubScheduleService) MarkDone(_ context.Context, trainerID, sessionID int64, muscleGroups []string) (*models.Session, error) {
	s.lastTrainerID = trainerID
	s.lastSessionID = sessionID
	s.lastMuscleGroups = muscleGroups
	return s.markDoneResult, s.markDoneErr
}

func (s *stubScheduleService) DeleteSession(_ context.Context, trainerID, sessionID int64) error {
	s.lastTrainerID = trainerID
	s.lastSessionID = sessionID
	return s.deleteErr
}

func (s *stubScheduleService) AutoCreateSchedule(_ context.Context, trainerID, clientID int64) ([]models.Session, error) {
	s.lastTrainerID = trainerID
	s.lastClientID = clientID
	return s.autoResult, s.autoErr
}

func scheduleApp(service scheduleApplicationService) *fiber.App {
	handler := &ScheduleHandler{service: service}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "7")
		c.Locals("role", "trainer")
		return c.Next()
	})
	app.Post("/api/v1/sessions", handler.Create)
	app.Get("/api/v1/sessions", handler.List)
	app.Put("/api/v1/sessions/:id/slot", handler.Reassign)
	app.Put("/api/v1/sessions/:id/done", handler.MarkDone)
	app.Delete("/api/v1/sessions/:id", handler.Delete)
	app.Post("/api/v1/sessions/auto-schedule/:clientId", handler.AutoCreate)
	return app
}

func TestCreateSessionPassesInput(t *testing.T) {
	service := &stubScheduleService{
		createResult: &models.Session{ID: 9, ClientID: 12, StartTime: "07:00"},
	}
	app := scheduleApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader(`{
		"client_id": 12,
		"date": "2025-03-10",
		"start_time": "07:00"
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
	if service.lastCreateInput.ClientID != 12 {
		t.Fatalf("expected client 12, got %d", service.lastCreateInput.ClientID)
	}
	if service.lastCreateInput.StartTime != "07:00" {
		t.Fatalf("expected start time 07:00, got %q", service.lastCreateInput.StartTime)
	}
	if service.lastCreateInput.Date.Day() != 10 {
		t.Fatalf("expected March 10, got %s", service.lastCreateInput.Date)
	}
}

func TestCreateSessionRejectsMalformedDate(t *testing.T) {
	service := &stubScheduleService{}
	app := scheduleApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader(`{
		"client_id": 12,
		"date": "10/03/2025",
		"start_time": "07:00"
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
}

func TestListSessionsPassesDateRange(t *testing.T) {
	service := &stubScheduleService{listResult: []models.DaySessions{}}
	app := scheduleApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions?from=2025-03-10&to=2025-03-16", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastFrom == nil || service.lastFrom.Day() != 10 {
		t.Fatalf("expected from March 10, got %v", service.lastFrom)
	}
	if service.lastTo == nil || service.lastTo.Day() != 16 {
		t.Fatalf("expected to March 16, got %v", service.lastTo)
	}
}

func TestReassignPassesTargetSlot(t *testing.T) {
	service := &stubScheduleService{
		reassignResult: &models.Session{ID: 9, StartTime: "09:00"},
	}
	app := scheduleApp(service)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/sessions/9/slot", strings.NewReader(`{
		"date": "2025-03-11",
		"start_time": "09:00"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastSessionID != 9 {
		t.Fatalf("expected session 9, got %d", service.lastSessionID)
	}
	if service.lastStartTime != "09:00" {
		t.Fatalf("expected start time 09:00, got %q", service.lastStartTime)
	}
	if service.lastDate.Day() != 11 {
		t.Fatalf("expected March 11, got %s", service.lastDate)
	}
}

func TestReassignOffGridSlotIsBadRequest(t *testing.T) {
	service := &stubScheduleService{reassignErr: services.ErrInvalidInput}
	app := scheduleApp(service)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/sessions/9/slot", strings.NewReader(`{
		"date": "2025-03-11",
		"start_time": "09:30"
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
}

func TestMarkDoneRequiresMuscleGroups(t *testing.T) {
	service := &stubScheduleService{}
	app := scheduleApp(service)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/sessions/9/done", strings.NewReader(`{
		"muscle_groups": []
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
	if service.lastSessionID != 0 {
		t.Fatal("empty muscle groups must not reach the service")
	}
}

func TestMarkDonePassesMuscleGroups(t *testing.T) {
	service := &stubScheduleService{
		markDoneResult: &models.Session{ID: 9, SessionDone: true},
	}
	app := scheduleApp(service)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/sessions/9/done", strings.NewReader(`{
		"muscle_groups": ["chest", "triceps"]
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(service.lastMuscleGroups) != 2 || service.lastMuscleGroups[0] != "chest" {
		t.Fatalf("unexpected muscle groups %v", service.lastMuscleGroups)
	}
}

func TestDeleteSessionReturnsNoContent(t *testing.T) {
	service := &stubScheduleService{}
	app := scheduleApp(service)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/9", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if service.lastSessionID != 9 {
		t.Fatalf("expected session 9, got %d", service.lastSessionID)
	}
}

func TestAutoCreateReturnsGeneratedSessions(t *testing.T) {
	service := &stubScheduleService{
		autoResult: make([]models.Session, 8),
	}
	app := scheduleApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/auto-schedule/12", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastClientID != 12 {
		t.Fatalf("expected client 12, got %d", service.lastClientID)
	}
}
