package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fitpro-app/AgendaBack/internal/models"
)

type billingGenerator interface {
	GenerateMonthlyPayments(ctx context.Context, trainerID int64, monthDate time.Time) ([]models.Payment, error)
}

type trainerDirectory interface {
	ListIDs(ctx context.Context) ([]int64, error)
}

type paymentSweeper interface {
	SweepOverdue(ctx context.Context, today time.Time) (int64, error)
}

// Scheduler owns the background jobs that keep billing data current
// without anyone opening the app: payment generation on month start and
// a daily sweep that marks past-due pending payments overdue.
type Scheduler struct {
	cron        *cron.Cron
	billing     billingGenerator
	trainerRepo trainerDirectory
	paymentRepo paymentSweeper

	generateSchedule string
	sweepSchedule    string
}

func New(
	billing billingGenerator,
	trainerRepo trainerDirectory,
	paymentRepo paymentSweeper,
	generateSchedule string,
	sweepSchedule string,
) *Scheduler {
	cronLogger := cron.PrintfLogger(log.Default())
	return &Scheduler{
		cron:             cron.New(cron.WithChain(cron.Recover(cronLogger))),
		billing:          billing,
		trainerRepo:      trainerRepo,
		paymentRepo:      paymentRepo,
		generateSchedule: generateSchedule,
		sweepSchedule:    sweepSchedule,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.generateSchedule, s.GenerateMonthlyPayments); err != nil {
		return err
	}
	log.Printf("scheduler: monthly payment generation at %q", s.generateSchedule)

	if _, err := s.cron.AddFunc(s.sweepSchedule, s.SweepOverduePayments); err != nil {
		return err
	}
	log.Printf("scheduler: overdue sweep at %q", s.sweepSchedule)

	s.cron.Start()
	return nil
}

// Stop stops the cron loop and returns a context that is done once any
// running job has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// GenerateMonthlyPayments creates the current month's expected payments
// for every trainer. Generation is idempotent, so overlapping with a
// trainer opening their billing screen is harmless.
func (s *Scheduler) GenerateMonthlyPayments() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	trainerIDs, err := s.trainerRepo.ListIDs(ctx)
	if err != nil {
		log.Printf("scheduler: list trainers: %v", err)
		return
	}

	now := time.Now().UTC()
	var failed int
	for _, trainerID := range trainerIDs {
		if _, err := s.billing.GenerateMonthlyPayments(ctx, trainerID, now); err != nil {
			log.Printf("scheduler: generate payments for trainer %d: %v", trainerID, err)
			failed++
		}
	}
	log.Printf("scheduler: generated monthly payments for %d trainers (%d failed)", len(trainerIDs)-failed, failed)
}

// SweepOverduePayments marks every pending payment whose due date has
// passed as overdue. The cutoff is truncated to midnight so the strict
// date comparison leaves payments due today pending until tomorrow's run.
func (s *Scheduler) SweepOverduePayments() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	swept, err := s.paymentRepo.SweepOverdue(ctx, startOfDay(time.Now().UTC()))
	if err != nil {
		log.Printf("scheduler: overdue sweep: %v", err)
		return
	}
	if swept > 0 {
		log.Printf("scheduler: marked %d payments overdue", swept)
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
