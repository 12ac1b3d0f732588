package services

import (
	"context"
	"errors"
	"strings"

	"github.com/fitpro-app/AgendaBack/internal/grid"
	"github.com/fitpro-app/AgendaBack/internal/models"
	"github.com/fitpro-app/AgendaBack/internal/repository"
)

var (
	ErrTemplateTooLong    = errors.New("schedule template exceeds weekly frequency")
	ErrClientLimitReached = errors.New("active client limit reached")
)

type ClientService struct {
	clientRepo *repository.ClientRepository
	gate       *FeatureGate
	notifier   ChangeNotifier
}

func NewClientService(clientRepo *repository.ClientRepository, gate *FeatureGate, notifier ChangeNotifier) *ClientService {
	return &ClientService{clientRepo: clientRepo, gate: gate, notifier: notifier}
}

type ClientInput struct {
	Name             string
	Phone            string
	PlanKind         string
	Rate             float64
	BillingDay       int
	WeeklyFrequency  int
	ScheduleTemplate []models.TemplateEntry
	IsConsulting     bool
	IsActive         bool
}

// validateClientInput runs every roster-form check before any remote call.
func validateClientInput(input ClientInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrInvalidInput
	}
	if !models.ValidPlanKind(input.PlanKind) {
		return ErrInvalidInput
	}
	if input.Rate <= 0 {
		return ErrInvalidInput
	}
	if input.BillingDay < 1 || input.BillingDay > 31 {
		return ErrInvalidInput
	}
	if input.WeeklyFrequency < 1 || input.WeeklyFrequency > 7 {
		return ErrInvalidInput
	}
	if len(input.ScheduleTemplate) > input.WeeklyFrequency {
		return ErrTemplateTooLong
	}
	for _, entry := range input.ScheduleTemplate {
		if entry.Weekday < 0 || entry.Weekday > 6 {
			return ErrInvalidInput
		}
		if !grid.ValidSlotTime(entry.StartTime) {
			return ErrInvalidInput
		}
	}
	return nil
}

func (s *ClientService) Create(ctx context.Context, trainerID int64, input ClientInput) (*models.Client, error) {
	if err := validateClientInput(input); err != nil {
		return nil, err
	}

	allowed, err := s.gate.CanAddClient(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrClientLimitReached
	}

	client, err := s.clientRepo.Create(ctx, repository.CreateClientInput{
		TrainerID:        trainerID,
		Name:             strings.TrimSpace(input.Name),
		Phone:            strings.TrimSpace(input.Phone),
		PlanKind:         input.PlanKind,
		Rate:             input.Rate,
		BillingDay:       input.BillingDay,
		WeeklyFrequency:  input.WeeklyFrequency,
		ScheduleTemplate: input.ScheduleTemplate,
		IsConsulting:     input.IsConsulting,
	})
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.Publish(trainerID, "clients", "insert")
	}
	return client, nil
}

func (s *ClientService) List(ctx context.Context, trainerID int64, activeOnly bool) ([]models.Client, error) {
	return s.clientRepo.List(ctx, trainerID, activeOnly)
}

func (s *ClientService) Get(ctx context.Context, trainerID, clientID int64) (*models.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client.TrainerID != trainerID {
		return nil, ErrForbidden
	}
	return client, nil
}

func (s *ClientService) Update(ctx context.Context, trainerID, clientID int64, input ClientInput) (*models.Client, error) {
	if err := validateClientInput(input); err != nil {
		return nil, err
	}

	existing, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if existing.TrainerID != trainerID {
		return nil, ErrForbidden
	}

	client, err := s.clientRepo.Update(ctx, clientID, repository.UpdateClientInput{
		Name:             strings.TrimSpace(input.Name),
		Phone:            strings.TrimSpace(input.Phone),
		PlanKind:         input.PlanKind,
		Rate:             input.Rate,
		BillingDay:       input.BillingDay,
		WeeklyFrequency:  input.WeeklyFrequency,
		ScheduleTemplate: input.ScheduleTemplate,
		IsConsulting:     input.IsConsulting,
		IsActive:         input.IsActive,
	})
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.Publish(trainerID, "clients", "update")
	}
	return client, nil
}

// Delete removes the client; sessions and payments go with it in the store.
func (s *ClientService) Delete(ctx context.Context, trainerID, clientID int64) error {
	existing, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return err
	}
	if existing.TrainerID != trainerID {
		return ErrForbidden
	}

	if err := s.clientRepo.Delete(ctx, clientID); err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.Publish(trainerID, "clients", "delete")
	}
	return nil
}
