package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fitpro-app/AgendaBack/internal/models"
)

type stubSweeper struct {
	lastCutoff time.Time
	calls      int
	swept      int64
	err        error
}

func (s *stubSweeper) SweepOverdue(_ context.Context, today time.Time) (int64, error) {
	s.lastCutoff = today
	s.calls++
	return s.swept, s.err
}

type stubDirectory struct {
	ids []int64
	err error
}

func (s *stubDirectory) ListIDs(_ context.Context) ([]int64, error) {
	return s.ids, s.err
}

type stubGenerator struct {
	trainerIDs []int64
	failFor    int64
}

func (s *stubGenerator) GenerateMonthlyPayments(_ context.Context, trainerID int64, _ time.Time) ([]models.Payment, error) {
	s.trainerIDs = append(s.trainerIDs, trainerID)
	if trainerID == s.failFor {
		return nil, errors.New("generation failed")
	}
	return nil, nil
}

func newTestScheduler(gen *stubGenerator, dir *stubDirectory, sweeper *stubSweeper) *Scheduler {
	return New(gen, dir, sweeper, "0 3 1 * *", "30 3 * * *")
}

func TestSweepCutoffIsMidnight(t *testing.T) {
	sweeper := &stubSweeper{swept: 2}
	s := newTestScheduler(&stubGenerator{}, &stubDirectory{}, sweeper)

	s.SweepOverduePayments()

	if sweeper.calls != 1 {
		t.Fatalf("expected one sweep, got %d", sweeper.calls)
	}
	got := sweeper.lastCutoff
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Fatalf("sweep cutoff carries a time of day: %s", got)
	}
	if got.Location() != time.UTC {
		t.Fatalf("sweep cutoff not in UTC: %s", got)
	}
}

func TestSweepDoesNotCoverPaymentsDueToday(t *testing.T) {
	sweeper := &stubSweeper{}
	s := newTestScheduler(&stubGenerator{}, &stubDirectory{}, sweeper)

	s.SweepOverduePayments()

	// The sweep query is a strict due_date < cutoff. A payment due today
	// must not satisfy it; one due yesterday must.
	dueToday := startOfDay(time.Now().UTC())
	if dueToday.Before(sweeper.lastCutoff) {
		t.Fatalf("payment due today (%s) would be swept by cutoff %s", dueToday, sweeper.lastCutoff)
	}
	dueYesterday := dueToday.AddDate(0, 0, -1)
	if !dueYesterday.Before(sweeper.lastCutoff) {
		t.Fatalf("payment due yesterday (%s) would survive cutoff %s", dueYesterday, sweeper.lastCutoff)
	}
}

func TestGenerateMonthlyPaymentsCoversEveryTrainer(t *testing.T) {
	gen := &stubGenerator{}
	dir := &stubDirectory{ids: []int64{3, 7, 11}}
	s := newTestScheduler(gen, dir, &stubSweeper{})

	s.GenerateMonthlyPayments()

	if len(gen.trainerIDs) != 3 {
		t.Fatalf("expected 3 generation calls, got %d", len(gen.trainerIDs))
	}
	for i, want := range dir.ids {
		if gen.trainerIDs[i] != want {
			t.Errorf("call %d: got trainer %d, want %d", i, gen.trainerIDs[i], want)
		}
	}
}

func TestGenerateMonthlyPaymentsContinuesPastFailures(t *testing.T) {
	gen := &stubGenerator{failFor: 7}
	dir := &stubDirectory{ids: []int64{3, 7, 11}}
	s := newTestScheduler(gen, dir, &stubSweeper{})

	s.GenerateMonthlyPayments()

	if len(gen.trainerIDs) != 3 {
		t.Fatalf("one failing trainer stopped the run: %d calls", len(gen.trainerIDs))
	}
}
