package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fitpro-app/AgendaBack/internal/models"
)

type CreateClientInput struct {
	TrainerID        int64
	Name             string
	Phone            string
	PlanKind         string
	Rate             float64
	BillingDay       int
	WeeklyFrequency  int
	ScheduleTemplate []models.TemplateEntry
	IsConsulting     bool
}

type UpdateClientInput struct {
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

type ClientRepository struct {
	db DBTX
}

func NewClientRepository(db DBTX) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = `id, trainer_id, name, phone, plan_kind, rate, billing_day,
	weekly_frequency, schedule_template, is_consulting, is_active, created_at, updated_at`

func scanClient(row interface{ Scan(dest ...any) error }) (*models.Client, error) {
	var client models.Client
	var template []byte
	err := row.Scan(
		&client.ID,
		&client.TrainerID,
		&client.Name,
		&client.Phone,
		&client.PlanKind,
		&client.Rate,
		&client.BillingDay,
		&client.WeeklyFrequency,
		&template,
		&client.IsConsulting,
		&client.IsActive,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(template) > 0 {
		if err := json.Unmarshal(template, &client.ScheduleTemplate); err != nil {
			return nil, fmt.Errorf("decode schedule template: %w", err)
		}
	}
	return &client, nil
}

func (r *ClientRepository) Create(ctx context.Context, input CreateClientInput) (*models.Client, error) {
	template, err := json.Marshal(input.ScheduleTemplate)
	if err != nil {
		return nil, fmt.Errorf("encode schedule template: %w", err)
	}

	query := `
		INSERT INTO clients (trainer_id, name, phone, plan_kind, rate, billing_day,
			weekly_frequency, schedule_template, is_consulting, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)
		RETURNING ` + clientColumns

	return scanClient(r.db.QueryRow(
		ctx,
		query,
		input.TrainerID,
		input.Name,
		input.Phone,
		input.PlanKind,
		input.Rate,
		input.BillingDay,
		input.WeeklyFrequency,
		template,
		input.IsConsulting,
	))
}

func (r *ClientRepository) GetByID(ctx context.Context, clientID int64) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	return scanClient(r.db.QueryRow(ctx, query, clientID))
}

func (r *ClientRepository) List(ctx context.Context, trainerID int64, activeOnly bool) ([]models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE trainer_id = $1`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY name ASC, id ASC`

	rows, err := r.db.Query(ctx, query, trainerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := make([]models.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *client)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *ClientRepository) Update(ctx context.Context, clientID int64, input UpdateClientInput) (*models.Client, error) {
	template, err := json.Marshal(input.ScheduleTemplate)
	if err != nil {
		return nil, fmt.Errorf("encode schedule template: %w", err)
	}

	query := `
		UPDATE clients
		SET name = $2, phone = $3, plan_kind = $4, rate = $5, billing_day = $6,
			weekly_frequency = $7, schedule_template = $8, is_consulting = $9,
			is_active = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + clientColumns

	return scanClient(r.db.QueryRow(
		ctx,
		query,
		clientID,
		input.Name,
		input.Phone,
		input.PlanKind,
		input.Rate,
		input.BillingDay,
		input.WeeklyFrequency,
		template,
		input.IsConsulting,
		input.IsActive,
	))
}

// Delete removes the client; sessions and payments cascade via foreign keys.
func (r *ClientRepository) Delete(ctx context.Context, clientID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id = $1`, clientID)
	return err
}

func (r *ClientRepository) CountActive(ctx context.Context, trainerID int64) (int, error) {
	var count int
	err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM clients WHERE trainer_id = $1 AND is_active = TRUE`,
		trainerID,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
