package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fitpro-app/AgendaBack/internal/models"
)

type CreatePaymentInput struct {
	TrainerID int64
	ClientID  int64
	Amount    float64
	DueDate   time.Time
	Status    string
	MonthRef  string
}

type PaymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `p.id, p.trainer_id, p.client_id, c.name, p.amount,
	p.due_date, p.paid_at, p.status, p.month_ref, p.created_at`

func paymentColumnsFor(alias string) string {
	return strings.ReplaceAll(paymentColumns, "p.", alias+".")
}

func scanPayment(row interface{ Scan(dest ...any) error }) (*models.Payment, error) {
	var payment models.Payment
	err := row.Scan(
		&payment.ID,
		&payment.TrainerID,
		&payment.ClientID,
		&payment.ClientName,
		&payment.Amount,
		&payment.DueDate,
		&payment.PaidAt,
		&payment.Status,
		&payment.MonthRef,
		&payment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) Create(ctx context.Context, input CreatePaymentInput) (*models.Payment, error) {
	query := `
		WITH inserted AS (
			INSERT INTO payments (trainer_id, client_id, amount, due_date, status, month_ref)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING *
		)
		SELECT ` + paymentColumnsFor("inserted") + `
		FROM inserted
		JOIN clients c ON c.id = inserted.client_id
	`
	return scanPayment(r.db.QueryRow(
		ctx,
		query,
		input.TrainerID,
		input.ClientID,
		input.Amount,
		input.DueDate,
		input.Status,
		input.MonthRef,
	))
}

// CreateBatch bulk-inserts the payments produced by a monthly reconciliation.
func (r *PaymentRepository) CreateBatch(ctx context.Context, inputs []CreatePaymentInput) ([]models.Payment, error) {
	payments := make([]models.Payment, 0, len(inputs))
	if len(inputs) == 0 {
		return payments, nil
	}

	args := make([]any, 0, len(inputs)*6)
	valueParts := make([]string, 0, len(inputs))
	for i, input := range inputs {
		base := i * 6
		valueParts = append(valueParts, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6,
		))
		args = append(args, input.TrainerID, input.ClientID, input.Amount, input.DueDate, input.Status, input.MonthRef)
	}

	query := fmt.Sprintf(`
		WITH inserted AS (
			INSERT INTO payments (trainer_id, client_id, amount, due_date, status, month_ref)
			VALUES %s
			RETURNING *
		)
		SELECT `+paymentColumnsFor("inserted")+`
		FROM inserted
		JOIN clients c ON c.id = inserted.client_id
		ORDER BY c.name ASC
	`, strings.Join(valueParts, ", "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *payment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, paymentID int64) (*models.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments p
		JOIN clients c ON c.id = p.client_id
		WHERE p.id = $1
	`
	return scanPayment(r.db.QueryRow(ctx, query, paymentID))
}

func (r *PaymentRepository) ListByMonth(ctx context.Context, trainerID int64, monthRef string) ([]models.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments p
		JOIN clients c ON c.id = p.client_id
		WHERE p.trainer_id = $1 AND p.month_ref = $2
		ORDER BY c.name ASC, p.id ASC
	`
	rows, err := r.db.Query(ctx, query, trainerID, monthRef)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]models.Payment, 0)
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *payment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payments, nil
}

// ClientIDsWithPayment returns which clients already hold a payment for the
// month, as an existence set. The reconciliation step uses it to stay
// idempotent without fetching full rows.
func (r *PaymentRepository) ClientIDsWithPayment(ctx context.Context, trainerID int64, monthRef string) (map[int64]struct{}, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT DISTINCT client_id FROM payments WHERE trainer_id = $1 AND month_ref = $2`,
		trainerID, monthRef,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// MarkPaid stamps paid_at and sets the stored status to paid.
func (r *PaymentRepository) MarkPaid(ctx context.Context, paymentID int64) (*models.Payment, error) {
	query := `
		WITH updated AS (
			UPDATE payments
			SET status = 'paid', paid_at = NOW()
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + paymentColumnsFor("updated") + `
		FROM updated
		JOIN clients c ON c.id = updated.client_id
	`
	return scanPayment(r.db.QueryRow(ctx, query, paymentID))
}

// UpdateStatus writes a stored status transition. paid_at is untouched; only
// MarkPaid sets it.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, paymentID int64, status string) (*models.Payment, error) {
	query := `
		WITH updated AS (
			UPDATE payments
			SET status = $2
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + paymentColumnsFor("updated") + `
		FROM updated
		JOIN clients c ON c.id = updated.client_id
	`
	return scanPayment(r.db.QueryRow(ctx, query, paymentID, status))
}

// SweepOverdue persists the overdue status for pending payments whose due
// date is strictly before today. Callers must pass a midnight timestamp:
// due_date is a DATE column, so any time-of-day on today would sweep
// payments that are still due today. Returns the number of rows written.
func (r *PaymentRepository) SweepOverdue(ctx context.Context, today time.Time) (int64, error) {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE payments SET status = 'overdue' WHERE status = 'pending' AND due_date < $1`,
		today,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
