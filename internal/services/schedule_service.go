package services

import (
	"context"
	"time"

	"github.com/fitpro-app/AgendaBack/internal/grid"
	"github.com/fitpro-app/AgendaBack/internal/models"
	"github.com/fitpro-app/AgendaBack/internal/repository"
)

const DefaultSessionMinutes = 60

// AutoScheduleWeeks is the bulk-generation horizon.
const AutoScheduleWeeks = 4

type ScheduleService struct {
	sessionRepo *repository.SessionRepository
	clientRepo  *repository.ClientRepository
	notifier    ChangeNotifier
}

func NewScheduleService(
	sessionRepo *repository.SessionRepository,
	clientRepo *repository.ClientRepository,
	notifier ChangeNotifier,
) *ScheduleService {
	return &ScheduleService{
		sessionRepo: sessionRepo,
		clientRepo:  clientRepo,
		notifier:    notifier,
	}
}

type CreateSessionInput struct {
	ClientID        int64
	Date            time.Time
	StartTime       string
	DurationMinutes int
}

func (s *ScheduleService) CreateSession(
	ctx context.Context,
	trainerID int64,
	input CreateSessionInput,
) (*models.Session, error) {
	if input.ClientID <= 0 || input.Date.IsZero() {
		return nil, ErrInvalidInput
	}
	if !grid.ValidSlotTime(input.StartTime) {
		return nil, ErrInvalidInput
	}
	if input.DurationMinutes == 0 {
		input.DurationMinutes = DefaultSessionMinutes
	}
	if input.DurationMinutes < 0 {
		return nil, ErrInvalidInput
	}

	client, err := s.clientRepo.GetByID(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}
	if client.TrainerID != trainerID {
		return nil, ErrForbidden
	}

	session, err := s.sessionRepo.Create(ctx, repository.CreateSessionInput{
		TrainerID:       trainerID,
		ClientID:        input.ClientID,
		Date:            dateOnly(input.Date),
		StartTime:       input.StartTime,
		DurationMinutes: input.DurationMinutes,
	})
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.Publish(trainerID, "sessions", "insert")
	}
	return session, nil
}

// ListSessions returns the trainer's sessions in the optional date range,
// grouped by day in ascending order.
func (s *ScheduleService) ListSessions(
	ctx context.Context,
	trainerID int64,
	from, to *time.Time,
) ([]models.DaySessions, error) {
	sessions, err := s.sessionRepo.List(ctx, repository.SessionListFilter{
		TrainerID: trainerID,
		From:      from,
		To:        to,
	})
	if err != nil {
		return nil, err
	}
	return GroupByDate(sessions), nil
}

// GroupByDate folds a date-ordered session list into per-day groups.
func GroupByDate(sessions []models.Session) []models.DaySessions {
	days := make([]models.DaySessions, 0)
	for _, session := range sessions {
		date := dateOnly(session.Date)
		if n := len(days); n > 0 && days[n-1].Date.Equal(date) {
			days[n-1].Sessions = append(days[n-1].Sessions, session)
			continue
		}
		days = append(days, models.DaySessions{
			Date:     date,
			Sessions: []models.Session{session},
		})
	}
	return days
}

// Reassign moves a session to the dropped (date, time) slot. Only the two
// slot fields change; dropping on the session's current slot is a no-op.
func (s *ScheduleService) Reassign(
	ctx context.Context,
	trainerID int64,
	sessionID int64,
	date time.Time,
	startTime string,
) (*models.Session, error) {
	if !grid.ValidSlotTime(startTime) {
		return nil, ErrInvalidInput
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.TrainerID != trainerID {
		return nil, ErrForbidden
	}

	target := grid.Slot{Date: date, StartTime: startTime}
	current := grid.Slot{Date: session.Date, StartTime: session.StartTime}
	if current.Equal(target) {
		return session, nil
	}

	updated, err := s.sessionRepo.Reassign(ctx, sessionID, dateOnly(date), startTime)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.Publish(trainerID, "sessions", "update")
	}
	return updated, nil
}

// MarkDone records the session outcome. The muscle-group set must be
// non-empty and drawn from the closed list; both fields are written in one
// statement.
func (s *ScheduleService) MarkDone(
	ctx context.Context,
	trainerID int64,
	sessionID int64,
	muscleGroups []string,
) (*models.Session, error) {
	if len(muscleGroups) == 0 {
		return nil, ErrInvalidInput
	}
	for _, group := range muscleGroups {
		if !models.ValidMuscleGroup(group) {
			return nil, ErrInvalidInput
		}
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.TrainerID != trainerID {
		return nil, ErrForbidden
	}

	updated, err := s.sessionRepo.MarkDone(ctx, sessionID, muscleGroups)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.Publish(trainerID, "sessions", "update")
	}
	return updated, nil
}

func (s *ScheduleService) DeleteSession(ctx context.Context, trainerID, sessionID int64) error {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.TrainerID != trainerID {
		return ErrForbidden
	}

	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.Publish(trainerID, "sessions", "delete")
	}
	return nil
}

// nextWeekday is the first date on or after from that falls on weekday.
func nextWeekday(from time.Time, weekday time.Weekday) time.Time {
	days := (int(weekday) - int(from.Weekday()) + 7) % 7
	return dateOnly(from).AddDate(0, 0, days)
}

// PlanAutoSchedule enumerates the sessions a client's weekly template yields
// over the 4-week horizon. Each template entry anchors at its next occurrence
// on or after today, then repeats weekly, so nothing lands before today: a
// template day already past this week starts next week instead.
func PlanAutoSchedule(template []models.TemplateEntry, today time.Time) []grid.Slot {
	slots := make([]grid.Slot, 0, len(template)*AutoScheduleWeeks)
	start := dateOnly(today)
	for week := 0; week < AutoScheduleWeeks; week++ {
		for _, entry := range template {
			date := nextWeekday(start, entry.Weekday).AddDate(0, 0, week*7)
			if date.Before(start) {
				continue
			}
			slots = append(slots, grid.Slot{Date: date, StartTime: entry.StartTime})
		}
	}
	return slots
}

// AutoCreateSchedule bulk-creates sessions from the client's weekly template.
func (s *ScheduleService) AutoCreateSchedule(
	ctx context.Context,
	trainerID int64,
	clientID int64,
) ([]models.Session, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client.TrainerID != trainerID {
		return nil, ErrForbidden
	}
	if len(client.ScheduleTemplate) == 0 {
		return nil, ErrInvalidInput
	}
	for _, entry := range client.ScheduleTemplate {
		if !grid.ValidSlotTime(entry.StartTime) {
			return nil, ErrInvalidInput
		}
	}

	slots := PlanAutoSchedule(client.ScheduleTemplate, time.Now())
	inputs := make([]repository.CreateSessionInput, 0, len(slots))
	for _, slot := range slots {
		inputs = append(inputs, repository.CreateSessionInput{
			TrainerID:       trainerID,
			ClientID:        clientID,
			Date:            slot.Date,
			StartTime:       slot.StartTime,
			DurationMinutes: DefaultSessionMinutes,
		})
	}

	created, err := s.sessionRepo.CreateBatch(ctx, inputs)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.Publish(trainerID, "sessions", "insert")
	}
	return created, nil
}
