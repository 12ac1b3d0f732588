package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitpro-app/AgendaBack/internal/models"
	"github.com/fitpro-app/AgendaBack/internal/repository"
)

var (
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidStateTransition = errors.New("invalid state transition")
)

// ChangeNotifier publishes a table-change event after a successful mutation
// so connected clients refetch. Implemented by realtime.Hub.
type ChangeNotifier interface {
	Publish(trainerID int64, table, action string)
}

type BillingService struct {
	db          *pgxpool.Pool
	clientRepo  *repository.ClientRepository
	paymentRepo *repository.PaymentRepository
	sessionRepo *repository.SessionRepository
	notifier    ChangeNotifier
}

func NewBillingService(
	db *pgxpool.Pool,
	clientRepo *repository.ClientRepository,
	paymentRepo *repository.PaymentRepository,
	sessionRepo *repository.SessionRepository,
	notifier ChangeNotifier,
) *BillingService {
	return &BillingService{
		db:          db,
		clientRepo:  clientRepo,
		paymentRepo: paymentRepo,
		sessionRepo: sessionRepo,
		notifier:    notifier,
	}
}

// MonthRef is the year-month key a payment is filed under, e.g. "2025-03".
func MonthRef(t time.Time) string {
	return t.Format("2006-01")
}

// MonthBounds returns the first and last day of t's month, at day granularity.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// ClampBillingDay keeps a due day valid in every month. Days 29-31 clamp to
// 28 so February never overflows into March.
func ClampBillingDay(day int) int {
	if day < 1 {
		return 1
	}
	if day > 28 {
		return 28
	}
	return day
}

// DueDate places a client's billing day inside the target month.
func DueDate(monthDate time.Time, billingDay int) time.Time {
	return time.Date(monthDate.Year(), monthDate.Month(), ClampBillingDay(billingDay), 0, 0, 0, 0, time.UTC)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// OverdueDays returns how many whole days today is past the due date, at
// local-midnight day granularity. Zero when today is on or before the due
// date.
func OverdueDays(dueDate, today time.Time) int {
	due := dateOnly(dueDate)
	now := dateOnly(today)
	if !now.After(due) {
		return 0
	}
	return int(now.Sub(due).Hours() / 24)
}

// EffectiveStatus is the status shown and aggregated for a payment. A stored
// pending payment past its due date reads as overdue; the stored row is only
// written by an explicit transition, and severity is never downgraded here.
func EffectiveStatus(storedStatus string, dueDate, today time.Time) string {
	if storedStatus == models.PaymentPending && OverdueDays(dueDate, today) > 0 {
		return models.PaymentOverdue
	}
	return storedStatus
}

// PlanMonthlyPayments decides which payments a reconciliation pass must
// create: one per active, non-consulting client that does not already hold a
// payment for the month. Calling it again with the resulting existence set is
// a no-op, which is what keeps repeated month navigation from double-billing.
func PlanMonthlyPayments(
	trainerID int64,
	roster []models.Client,
	existing map[int64]struct{},
	monthDate time.Time,
) []repository.CreatePaymentInput {
	toCreate := make([]repository.CreatePaymentInput, 0)
	for _, client := range roster {
		if !client.IsActive || client.IsConsulting {
			continue
		}
		if _, ok := existing[client.ID]; ok {
			continue
		}
		toCreate = append(toCreate, repository.CreatePaymentInput{
			TrainerID: trainerID,
			ClientID:  client.ID,
			Amount:    client.Rate,
			DueDate:   DueDate(monthDate, client.BillingDay),
			Status:    models.PaymentPending,
			MonthRef:  MonthRef(monthDate),
		})
	}
	return toCreate
}

// GenerateMonthlyPayments reconciles the month: every eligible client ends up
// with exactly one payment. The existence check and insert run inside one
// transaction under a per-trainer advisory lock, so a double invocation
// cannot race itself into duplicates.
func (s *BillingService) GenerateMonthlyPayments(
	ctx context.Context,
	trainerID int64,
	monthDate time.Time,
) ([]models.Payment, error) {
	roster, err := s.clientRepo.List(ctx, trainerID, false)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", trainerID); err != nil {
		return nil, err
	}

	txPaymentRepo := repository.NewPaymentRepository(tx)
	existing, err := txPaymentRepo.ClientIDsWithPayment(ctx, trainerID, MonthRef(monthDate))
	if err != nil {
		return nil, err
	}

	toCreate := PlanMonthlyPayments(trainerID, roster, existing, monthDate)
	if len(toCreate) == 0 {
		return []models.Payment{}, tx.Commit(ctx)
	}

	created, err := txPaymentRepo.CreateBatch(ctx, toCreate)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Publish(trainerID, "payments", "insert")
	}
	return created, nil
}

// BillingSummary is the month's aggregate view. Predicted always equals
// received + pending + overdue: a pending payment past due moves whole into
// the overdue bucket.
type BillingSummary struct {
	Predicted float64 `json:"predicted"`
	Received  float64 `json:"received"`
	Pending   float64 `json:"pending"`
	Overdue   float64 `json:"overdue"`
}

func ComputeSummary(payments []models.Payment, today time.Time) BillingSummary {
	var summary BillingSummary
	for _, payment := range payments {
		summary.Predicted += payment.Amount
		switch EffectiveStatus(payment.Status, payment.DueDate, today) {
		case models.PaymentPaid:
			summary.Received += payment.Amount
		case models.PaymentOverdue:
			summary.Overdue += payment.Amount
		default:
			summary.Pending += payment.Amount
		}
	}
	if summary.Pending < 0 {
		summary.Pending = 0
	}
	return summary
}

// PaymentView decorates a stored payment with its effective status and how
// late it is, both derived from "today".
type PaymentView struct {
	models.Payment
	EffectiveStatus string `json:"effective_status"`
	OverdueDays     int    `json:"overdue_days"`
}

type MonthBilling struct {
	MonthRef string         `json:"month_ref"`
	Payments []PaymentView  `json:"payments"`
	Summary  BillingSummary `json:"summary"`
}

// BuildMonthBilling derives views and aggregates for a month's payments.
// statusFilter narrows the listed payments by effective status ("" or "all"
// lists everything); the summary always covers the whole month.
func BuildMonthBilling(monthRef string, payments []models.Payment, statusFilter string, today time.Time) MonthBilling {
	views := make([]PaymentView, 0, len(payments))
	for _, payment := range payments {
		effective := EffectiveStatus(payment.Status, payment.DueDate, today)
		if statusFilter != "" && statusFilter != "all" && effective != statusFilter {
			continue
		}
		views = append(views, PaymentView{
			Payment:         payment,
			EffectiveStatus: effective,
			OverdueDays:     OverdueDays(payment.DueDate, today),
		})
	}
	return MonthBilling{
		MonthRef: monthRef,
		Payments: views,
		Summary:  ComputeSummary(payments, today),
	}
}

// GetMonth returns the month's payments with derived statuses and aggregates.
func (s *BillingService) GetMonth(
	ctx context.Context,
	trainerID int64,
	monthDate time.Time,
	statusFilter string,
) (*MonthBilling, error) {
	switch statusFilter {
	case "", "all", models.PaymentPending, models.PaymentPaid, models.PaymentOverdue:
	default:
		return nil, ErrInvalidInput
	}

	monthRef := MonthRef(monthDate)
	payments, err := s.paymentRepo.ListByMonth(ctx, trainerID, monthRef)
	if err != nil {
		return nil, err
	}

	billing := BuildMonthBilling(monthRef, payments, statusFilter, time.Now())
	return &billing, nil
}

// SessionPlanProgress is the month's billing picture for a per-session
// client. TotalSessions is month-scoped; DoneSessions is cumulative across
// the client's whole history, so the remaining count tracks lifetime
// progress through the plan.
type SessionPlanProgress struct {
	ClientID          int64   `json:"client_id"`
	Rate              float64 `json:"rate"`
	TotalSessions     int     `json:"total_sessions"`
	DoneSessions      int     `json:"done_sessions"`
	RemainingSessions int     `json:"remaining_sessions"`
	TotalAmount       float64 `json:"total_amount"`
	PendingAmount     float64 `json:"pending_amount"`
}

// BuildSessionPlanProgress derives the session-plan amounts from the counts.
func BuildSessionPlanProgress(clientID int64, rate float64, totalSessions, doneSessions int) SessionPlanProgress {
	remaining := totalSessions - doneSessions
	if remaining < 0 {
		remaining = 0
	}
	return SessionPlanProgress{
		ClientID:          clientID,
		Rate:              rate,
		TotalSessions:     totalSessions,
		DoneSessions:      doneSessions,
		RemainingSessions: remaining,
		TotalAmount:       float64(totalSessions) * rate,
		PendingAmount:     float64(remaining) * rate,
	}
}

func (s *BillingService) SessionProgress(
	ctx context.Context,
	trainerID int64,
	clientID int64,
	monthDate time.Time,
) (*SessionPlanProgress, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client.TrainerID != trainerID {
		return nil, ErrForbidden
	}
	if client.PlanKind != models.PlanPerSession {
		return nil, ErrInvalidInput
	}

	first, last := MonthBounds(monthDate)
	total, err := s.sessionRepo.CountScheduledInRange(ctx, clientID, first, last)
	if err != nil {
		return nil, err
	}
	done, err := s.sessionRepo.CountDone(ctx, clientID)
	if err != nil {
		return nil, err
	}

	progress := BuildSessionPlanProgress(clientID, client.Rate, total, done)
	return &progress, nil
}

func (s *BillingService) MarkPaid(ctx context.Context, trainerID, paymentID int64) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.TrainerID != trainerID {
		return nil, ErrForbidden
	}
	if payment.Status == models.PaymentPaid {
		return payment, nil
	}

	updated, err := s.paymentRepo.MarkPaid(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.Publish(trainerID, "payments", "update")
	}
	return updated, nil
}

// MarkOverdue is the explicit stored-status transition; only a pending
// payment can be written overdue (a paid one never regresses).
func (s *BillingService) MarkOverdue(ctx context.Context, trainerID, paymentID int64) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.TrainerID != trainerID {
		return nil, ErrForbidden
	}
	if payment.Status != models.PaymentPending {
		return nil, ErrInvalidStateTransition
	}

	updated, err := s.paymentRepo.UpdateStatus(ctx, paymentID, models.PaymentOverdue)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.Publish(trainerID, "payments", "update")
	}
	return updated, nil
}

type CreateAdHocPaymentInput struct {
	ClientID int64
	Amount   float64
	DueDate  time.Time
}

// CreateAdHoc records a one-off obligation outside the monthly run, filed
// under the due date's month.
func (s *BillingService) CreateAdHoc(
	ctx context.Context,
	trainerID int64,
	input CreateAdHocPaymentInput,
) (*models.Payment, error) {
	if input.Amount <= 0 || input.DueDate.IsZero() {
		return nil, ErrInvalidInput
	}
	client, err := s.clientRepo.GetByID(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}
	if client.TrainerID != trainerID {
		return nil, ErrForbidden
	}

	payment, err := s.paymentRepo.Create(ctx, repository.CreatePaymentInput{
		TrainerID: trainerID,
		ClientID:  input.ClientID,
		Amount:    input.Amount,
		DueDate:   dateOnly(input.DueDate),
		Status:    models.PaymentPending,
		MonthRef:  MonthRef(input.DueDate),
	})
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.Publish(trainerID, "payments", "insert")
	}
	return payment, nil
}
