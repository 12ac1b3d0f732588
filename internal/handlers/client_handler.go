package handlers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/fitpro-app/AgendaBack/internal/models"
	"github.com/fitpro-app/AgendaBack/internal/services"
)

type clientApplicationService interface {
	Create(ctx context.Context, trainerID int64, input services.ClientInput) (*models.Client, error)
	List(ctx context.Context, trainerID int64, activeOnly bool) ([]models.Client, error)
	Get(ctx context.Context, trainerID, clientID int64) (*models.Client, error)
	Update(ctx context.Context, trainerID, clientID int64, input services.ClientInput) (*models.Client, error)
	Delete(ctx context.Context, trainerID, clientID int64) error
}

type ClientHandler struct {
	service  clientApplicationService
	validate *validator.Validate
}

func NewClientHandler(service *services.ClientService) *ClientHandler {
	return &ClientHandler{service: service, validate: validator.New()}
}

type templateEntryRequest struct {
	Weekday   int    `json:"weekday" validate:"min=0,max=6"`
	StartTime string `json:"start_time" validate:"required"`
}

type clientRequest struct {
	Name             string                 `json:"name" validate:"required"`
	Phone            string                 `json:"phone"`
	PlanKind         string                 `json:"plan_kind" validate:"required,oneof=monthly per_session fixed_term"`
	Rate             float64                `json:"rate" validate:"required,gt=0"`
	BillingDay       int                    `json:"billing_day" validate:"required,min=1,max=31"`
	WeeklyFrequency  int                    `json:"weekly_frequency" validate:"required,min=1,max=7"`
	ScheduleTemplate []templateEntryRequest `json:"schedule_template" validate:"dive"`
	IsConsulting     bool                   `json:"is_consulting"`
	IsActive         *bool                  `json:"is_active"`
}

func (r clientRequest) toInput() services.ClientInput {
	template := make([]models.TemplateEntry, 0, len(r.ScheduleTemplate))
	for _, entry := range r.ScheduleTemplate {
		template = append(template, models.TemplateEntry{
			Weekday:   time.Weekday(entry.Weekday),
			StartTime: entry.StartTime,
		})
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return services.ClientInput{
		Name:             r.Name,
		Phone:            r.Phone,
		PlanKind:         r.PlanKind,
		Rate:             r.Rate,
		BillingDay:       r.BillingDay,
		WeeklyFrequency:  r.WeeklyFrequency,
		ScheduleTemplate: template,
		IsConsulting:     r.IsConsulting,
		IsActive:         active,
	}
}

func (h *ClientHandler) Create(c *fiber.Ctx) error {
	trainerID, err := parseTrainerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req clientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	client, err := h.service.Create(c.Context(), trainerID, req.toInput())
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"client": client})
}

func (h *ClientHandler) List(c *fiber.Ctx) error {
	trainerID, err := parseTrainerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	activeOnly := c.QueryBool("active_only", false)
	clients, err := h.service.List(c.Context(), trainerID, activeOnly)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"clients": clients})
}

func (h *ClientHandler) Get(c *fiber.Ctx) error {
	trainerID, err := parseTrainerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid client id"})
	}

	client, err := h.service.Get(c.Context(), trainerID, clientID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"client": client})
}

func (h *ClientHandler) Update(c *fiber.Ctx) error {
	trainerID, err := parseTrainerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid client id"})
	}

	var req clientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	client, err := h.service.Update(c.Context(), trainerID, clientID, req.toInput())
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"client": client})
}

func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	trainerID, err := parseTrainerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid client id"})
	}

	if err := h.service.Delete(c.Context(), trainerID, clientID); err != nil {
		return mapServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
