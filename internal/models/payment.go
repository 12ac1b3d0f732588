package models

import "time"

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentOverdue = "overdue"
)

// Payment is one billing obligation for one client in one calendar month.
// Status is the stored status; the effective status shown to the trainer can
// additionally report a pending payment past its due date as overdue (see
// services.EffectiveStatus) without the row ever being downgraded.
type Payment struct {
	ID         int64      `json:"id"`
	TrainerID  int64      `json:"trainer_id"`
	ClientID   int64      `json:"client_id"`
	ClientName string     `json:"client_name"`
	Amount     float64    `json:"amount"`
	DueDate    time.Time  `json:"due_date"`
	PaidAt     *time.Time `json:"paid_at"`
	Status     string     `json:"status"`
	MonthRef   string     `json:"month_ref"`
	CreatedAt  time.Time  `json:"created_at"`
}

func ValidPaymentStatus(status string) bool {
	switch status {
	case PaymentPending, PaymentPaid, PaymentOverdue:
		return true
	default:
		return false
	}
}
