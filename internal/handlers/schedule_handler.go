package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fitpro-app/AgendaBack/internal/models"
	"github.com/fitpro-app/AgendaBack/internal/services"
)

type scheduleApplicationService interface {
	CreateSession(ctx context.Context, trainerID int64, input services.CreateSessionInput) (*models.Session, error)
	ListSessions(ctx context.Context, trainerID int64, from, to *time.Time) ([]models.DaySessions, error)
	Reassign(ctx context.Context, trainerID, sessionID int64, date time.Time, startTime string) (*models.Session, error)
	MarkDone(ctx context.Context, trainerID, sessionID int64, muscleGroups []string) (*models.Session, error)
	DeleteSession(ctx context.Context, trainerID, sessionID int64) error
	AutoCreateSchedule(ctx context.Context, trainerID, clientID int64) ([]models.Session, error)
}

type ScheduleHandler struct {
	service scheduleApplicationService
}

func NewScheduleHandler(service *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

type createSessionRequest struct {
	ClientID        int64  `json:"client_id"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

type reassignSessionRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
}

type markDoneRequest struct {
	MuscleGroups []string `json:"muscle_groups"`
}

func (h *ScheduleHandler) Create(c *fiber.Ctx) error {
	trainerID, err := parseTrainerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
	}

	session, err := h.service.CreateSession(c.Context(), trainerID, services.CreateSessionInput{
		ClientID:        req.ClientID,
		Date:            date,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"session": session})
}

func (h *ScheduleHandler) List(c *fiber.Ctx) error {
	trainerID, err := parseTrainerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var from, to *time.Time
	if value := c.Query("from"); value != "" {
		parsed, err := parseDate(value)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "from must be YYYY-MM-DD"})
		}
		from = &parsed
	}
	if value := c.Query("to"); value != "" {
		parsed, err := parseDate(value)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "to must be YYYY-MM-DD"})
		}
		to = &parsed
	}

	days, err := h.service.ListSessions(c.Context(), trainerID, from, to)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"days": days})
}

// Reassign is the drop end of a drag gesture: only date and time change.
func (h *ScheduleHandler) Reassign(c *fiber.Ctx) error {
	trainerID, err := parseTrainerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	var req reassignSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
	}

	session, err := h.service.Reassign(c.Context(), trainerID, sessionID, date, req.StartTime)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"session": session})
}

func (h *ScheduleHandler) MarkDone(c *fiber.Ctx) error {
	trainerID, err := parseTrainerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	var req markDoneRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if len(req.MuscleGroups) == 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "At least one muscle group is required"})
	}

	session, err := h.service.MarkDone(c.Context(), trainerID, sessionID, req.MuscleGroups)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"session": session})
}

func (h *ScheduleHandler) Delete(c *fiber.Ctx) error {
	trainerID, err := parseTrainerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	if err := h.service.DeleteSession(c.Context(), trainerID, sessionID); err != nil {
		return mapServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ScheduleHandler) AutoCreate(c *fiber.Ctx) error {
	trainerID, err := parseTrainerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	clientID, err := parseIDParam(c, "clientId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid client id"})
	}

	sessions, err := h.service.AutoCreateSchedule(c.Context(), trainerID, clientID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"sessions": sessions})
}
