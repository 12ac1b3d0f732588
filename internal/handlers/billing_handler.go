package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fitpro-app/AgendaBack/internal/models"
	"github.com/fitpro-app/AgendaBack/internal/services"
)

type billingApplicationService interface {
	GenerateMonthlyPayments(ctx context.Context, trainerID int64, monthDate time.Time) ([]models.Payment, error)
	GetMonth(ctx context.Context, trainerID int64, monthDate time.Time, statusFilter string) (*services.MonthBilling, error)
	SessionProgress(ctx context.Context, trainerID, clientID int64, monthDate time.Time) (*services.SessionPlanProgress, error)
	MarkPaid(ctx context.Context, trainerID, paymentID int64) (*models.Payment, error)
	MarkOverdue(ctx context.Context, trainerID, paymentID int64) (*models.Payment, error)
	CreateAdHoc(ctx context.Context, trainerID int64, input services.CreateAdHocPaymentInput) (*models.Payment, error)
}

type BillingHandler struct {
	service billingApplicationService
}

func NewBillingHandler(service *services.BillingService) *BillingHandler {
	return &BillingHandler{service: service}
}

// GetMonth serves the billing dashboard for one month. Navigating to a month
// reconciles it first, so every eligible client shows a payment row.
func (h *BillingHandler) GetMonth(c *fiber.Ctx) error {
	trainerID, err := parseTrainerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	monthDate, err := parseMonth(c.Params("month"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "month must be YYYY-MM"})
	}

	if _, err := h.service.GenerateMonthlyPayments(c.Context(), trainerID, monthDate); err != nil {
		return mapServiceError(c, err)
	}

	billing, err := h.service.GetMonth(c.Context(), trainerID, monthDate, c.Query("status"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"billing": billing})
}

func (h *BillingHandler) Generate(c *fiber.Ctx) error {
	trainerID, err := parseTrainerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	monthDate, err := parseMonth(c.Params("month"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "month must be YYYY-MM"})
	}

	created, err := h.service.GenerateMonthlyPayments(c.Context(), trainerID, monthDate)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"created": created})
}

func (h *BillingHandler) SessionProgress(c *fiber.Ctx) error {
	trainerID, err := parseTrainerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	clientID, err := parseIDParam(c, "clientId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid client id"})
	}
	monthDate, err := parseMonth(c.Params("month"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "month must be YYYY-MM"})
	}

	progress, err := h.service.SessionProgress(c.Context(), trainerID, clientID, monthDate)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"progress": progress})
}

func (h *BillingHandler) MarkPaid(c *fiber.Ctx) error {
	trainerID, err := parseTrainerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	paymentID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment id"})
	}

	payment, err := h.service.MarkPaid(c.Context(), trainerID, paymentID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"payment": payment})
}

func (h *BillingHandler) MarkOverdue(c *fiber.Ctx) error {
	trainerID, err := parseTrainerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	paymentID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment id"})
	}

	payment, err := h.service.MarkOverdue(c.Context(), trainerID, paymentID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"payment": payment})
}

type adHocPaymentRequest struct {
	ClientID int64   `json:"client_id"`
	Amount   float64 `json:"amount"`
	DueDate  string  `json:"due_date"`
}

func (h *BillingHandler) CreateAdHoc(c *fiber.Ctx) error {
	trainerID, err := parseTrainerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req adHocPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "due_date must be YYYY-MM-DD"})
	}

	payment, err := h.service.CreateAdHoc(c.Context(), trainerID, services.CreateAdHocPaymentInput{
		ClientID: req.ClientID,
		Amount:   req.Amount,
		DueDate:  dueDate,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"payment": payment})
}
