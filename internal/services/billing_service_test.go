package services

import (
	"testing"
	"time"

	"github.com/fitpro-app/AgendaBack/internal/models"
)

func TestClampBillingDay(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, 1},
		{1, 1},
		{15, 15},
		{28, 28},
		{29, 28},
		{30, 28},
		{31, 28},
	}
	for _, tc := range cases {
		if got := ClampBillingDay(tc.in); got != tc.want {
			t.Errorf("ClampBillingDay(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestDueDateNeverOverflowsFebruary(t *testing.T) {
	feb := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	due := DueDate(feb, 31)
	if due.Month() != time.February {
		t.Fatalf("expected due date in February, got %s", due)
	}
	if due.Day() != 28 {
		t.Fatalf("expected day 28, got %d", due.Day())
	}
}

func TestMonthBounds(t *testing.T) {
	mid := time.Date(2025, time.March, 17, 14, 30, 0, 0, time.UTC)
	first, last := MonthBounds(mid)
	if first.Day() != 1 || first.Month() != time.March {
		t.Fatalf("unexpected first day %s", first)
	}
	if last.Day() != 31 || last.Month() != time.March {
		t.Fatalf("unexpected last day %s", last)
	}
}

func TestOverdueDays(t *testing.T) {
	due := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	if got := OverdueDays(due, due); got != 0 {
		t.Errorf("on the due date: got %d, want 0", got)
	}
	before := due.AddDate(0, 0, -2)
	if got := OverdueDays(due, before); got != 0 {
		t.Errorf("before the due date: got %d, want 0", got)
	}
	// Time of day must not matter at day granularity.
	lateEvening := time.Date(2025, time.March, 13, 23, 50, 0, 0, time.UTC)
	if got := OverdueDays(due, lateEvening); got != 3 {
		t.Errorf("three days past: got %d, want 3", got)
	}
}

func TestEffectiveStatusReclassifiesPastDuePending(t *testing.T) {
	due := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	after := due.AddDate(0, 0, 5)
	before := due.AddDate(0, 0, -5)

	if got := EffectiveStatus(models.PaymentPending, due, after); got != models.PaymentOverdue {
		t.Errorf("pending past due: got %q, want overdue", got)
	}
	if got := EffectiveStatus(models.PaymentPending, due, before); got != models.PaymentPending {
		t.Errorf("pending before due: got %q, want pending", got)
	}
	if got := EffectiveStatus(models.PaymentPaid, due, after); got != models.PaymentPaid {
		t.Errorf("paid must never regress: got %q", got)
	}
	if got := EffectiveStatus(models.PaymentOverdue, due, before); got != models.PaymentOverdue {
		t.Errorf("stored overdue must never downgrade: got %q", got)
	}
}

func monthlyClient(id int64, rate float64, billingDay int) models.Client {
	return models.Client{
		ID:         id,
		TrainerID:  1,
		Name:       "Client",
		PlanKind:   models.PlanMonthly,
		Rate:       rate,
		BillingDay: billingDay,
		IsActive:   true,
	}
}

func TestPlanMonthlyPaymentsSkipsIneligibleClients(t *testing.T) {
	inactive := monthlyClient(2, 300, 5)
	inactive.IsActive = false
	consulting := monthlyClient(3, 300, 5)
	consulting.IsConsulting = true

	roster := []models.Client{monthlyClient(1, 400, 10), inactive, consulting}
	month := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	plan := PlanMonthlyPayments(1, roster, map[int64]struct{}{}, month)
	if len(plan) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(plan))
	}
	if plan[0].ClientID != 1 {
		t.Fatalf("expected client 1, got %d", plan[0].ClientID)
	}
	if plan[0].Amount != 400 {
		t.Fatalf("expected amount 400, got %f", plan[0].Amount)
	}
	if plan[0].MonthRef != "2025-03" {
		t.Fatalf("expected month ref 2025-03, got %q", plan[0].MonthRef)
	}
	if plan[0].DueDate.Day() != 10 {
		t.Fatalf("expected due day 10, got %d", plan[0].DueDate.Day())
	}
}

func TestPlanMonthlyPaymentsIsIdempotent(t *testing.T) {
	roster := []models.Client{
		monthlyClient(1, 400, 10),
		monthlyClient(2, 250, 5),
	}
	month := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	first := PlanMonthlyPayments(1, roster, map[int64]struct{}{}, month)
	if len(first) != 2 {
		t.Fatalf("first pass: expected 2 payments, got %d", len(first))
	}

	existing := make(map[int64]struct{})
	for _, input := range first {
		existing[input.ClientID] = struct{}{}
	}

	second := PlanMonthlyPayments(1, roster, existing, month)
	if len(second) != 0 {
		t.Fatalf("second pass: expected no payments, got %d", len(second))
	}
}

func TestComputeSummaryConservation(t *testing.T) {
	today := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)
	early := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, time.March, 25, 0, 0, 0, 0, time.UTC)

	payments := []models.Payment{
		{Amount: 400, Status: models.PaymentPaid, DueDate: early},
		{Amount: 250, Status: models.PaymentPending, DueDate: late},
		// Stored pending but past due: counts as overdue, not pending.
		{Amount: 300, Status: models.PaymentPending, DueDate: early},
		{Amount: 150, Status: models.PaymentOverdue, DueDate: early},
	}

	summary := ComputeSummary(payments, today)
	if summary.Predicted != 1100 {
		t.Fatalf("predicted: got %f, want 1100", summary.Predicted)
	}
	if summary.Received != 400 {
		t.Fatalf("received: got %f, want 400", summary.Received)
	}
	if summary.Pending != 250 {
		t.Fatalf("pending: got %f, want 250", summary.Pending)
	}
	if summary.Overdue != 450 {
		t.Fatalf("overdue: got %f, want 450", summary.Overdue)
	}
	if total := summary.Received + summary.Pending + summary.Overdue; total != summary.Predicted {
		t.Fatalf("conservation broken: %f + %f + %f != %f",
			summary.Received, summary.Pending, summary.Overdue, summary.Predicted)
	}
}

func TestBuildMonthBillingFiltersByEffectiveStatus(t *testing.T) {
	today := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)
	early := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, time.March, 25, 0, 0, 0, 0, time.UTC)

	payments := []models.Payment{
		{ID: 1, Amount: 400, Status: models.PaymentPaid, DueDate: early},
		{ID: 2, Amount: 250, Status: models.PaymentPending, DueDate: late},
		{ID: 3, Amount: 300, Status: models.PaymentPending, DueDate: early},
	}

	all := BuildMonthBilling("2025-03", payments, "all", today)
	if len(all.Payments) != 3 {
		t.Fatalf("all: expected 3 payments, got %d", len(all.Payments))
	}

	overdue := BuildMonthBilling("2025-03", payments, models.PaymentOverdue, today)
	if len(overdue.Payments) != 1 {
		t.Fatalf("overdue: expected 1 payment, got %d", len(overdue.Payments))
	}
	if overdue.Payments[0].ID != 3 {
		t.Fatalf("overdue: expected payment 3, got %d", overdue.Payments[0].ID)
	}
	if overdue.Payments[0].EffectiveStatus != models.PaymentOverdue {
		t.Fatalf("expected effective status overdue, got %q", overdue.Payments[0].EffectiveStatus)
	}
	if overdue.Payments[0].OverdueDays != 15 {
		t.Fatalf("expected 15 overdue days, got %d", overdue.Payments[0].OverdueDays)
	}

	// The summary always covers the whole month regardless of the filter.
	if overdue.Summary.Predicted != 950 {
		t.Fatalf("filtered summary changed: got %f, want 950", overdue.Summary.Predicted)
	}
}

func TestBuildSessionPlanProgress(t *testing.T) {
	progress := BuildSessionPlanProgress(7, 50, 4, 1)
	if progress.RemainingSessions != 3 {
		t.Fatalf("remaining: got %d, want 3", progress.RemainingSessions)
	}
	if progress.TotalAmount != 200 {
		t.Fatalf("total amount: got %f, want 200", progress.TotalAmount)
	}
	if progress.PendingAmount != 150 {
		t.Fatalf("pending amount: got %f, want 150", progress.PendingAmount)
	}
}

func TestBuildSessionPlanProgressClampsNegativeRemaining(t *testing.T) {
	// More lifetime sessions done than this month holds.
	progress := BuildSessionPlanProgress(7, 50, 2, 9)
	if progress.RemainingSessions != 0 {
		t.Fatalf("remaining: got %d, want 0", progress.RemainingSessions)
	}
	if progress.PendingAmount != 0 {
		t.Fatalf("pending amount: got %f, want 0", progress.PendingAmount)
	}
}
