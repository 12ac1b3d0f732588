package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fitpro-app/AgendaBack/internal/models"
)

type CreateSessionInput struct {
	TrainerID       int64
	ClientID        int64
	Date            time.Time
	StartTime       string
	DurationMinutes int
}

type SessionListFilter struct {
	TrainerID int64
	ClientID  int64
	From      *time.Time
	To        *time.Time
}

type SessionRepository struct {
	db DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `s.id, s.trainer_id, s.client_id, c.name, s.session_date,
	s.start_time, s.duration_min, s.session_done, s.muscle_groups, s.created_at, s.updated_at`

func sessionColumnsFor(alias string) string {
	return strings.ReplaceAll(sessionColumns, "s.", alias+".")
}

func scanSession(row interface{ Scan(dest ...any) error }) (*models.Session, error) {
	var session models.Session
	err := row.Scan(
		&session.ID,
		&session.TrainerID,
		&session.ClientID,
		&session.ClientName,
		&session.Date,
		&session.StartTime,
		&session.DurationMinutes,
		&session.SessionDone,
		&session.MuscleGroups,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Create(ctx context.Context, input CreateSessionInput) (*models.Session, error) {
	query := `
		WITH inserted AS (
			INSERT INTO sessions (trainer_id, client_id, session_date, start_time, duration_min)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING *
		)
		SELECT ` + sessionColumnsFor("inserted") + `
		FROM inserted
		JOIN clients c ON c.id = inserted.client_id
	`
	return scanSession(r.db.QueryRow(
		ctx,
		query,
		input.TrainerID,
		input.ClientID,
		input.Date,
		input.StartTime,
		input.DurationMinutes,
	))
}

// CreateBatch inserts the auto-generated schedule in one round trip.
func (r *SessionRepository) CreateBatch(ctx context.Context, inputs []CreateSessionInput) ([]models.Session, error) {
	sessions := make([]models.Session, 0, len(inputs))
	if len(inputs) == 0 {
		return sessions, nil
	}

	args := make([]any, 0, len(inputs)*5)
	valueParts := make([]string, 0, len(inputs))
	for i, input := range inputs {
		base := i * 5
		valueParts = append(valueParts, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5,
		))
		args = append(args, input.TrainerID, input.ClientID, input.Date, input.StartTime, input.DurationMinutes)
	}

	query := fmt.Sprintf(`
		WITH inserted AS (
			INSERT INTO sessions (trainer_id, client_id, session_date, start_time, duration_min)
			VALUES %s
			RETURNING *
		)
		SELECT `+sessionColumnsFor("inserted")+`
		FROM inserted
		JOIN clients c ON c.id = inserted.client_id
		ORDER BY inserted.session_date ASC, inserted.start_time ASC
	`, strings.Join(valueParts, ", "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID int64) (*models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions s
		JOIN clients c ON c.id = s.client_id
		WHERE s.id = $1
	`
	return scanSession(r.db.QueryRow(ctx, query, sessionID))
}

func (r *SessionRepository) List(ctx context.Context, filter SessionListFilter) ([]models.Session, error) {
	args := []any{filter.TrainerID}
	whereParts := []string{"s.trainer_id = $1"}

	if filter.ClientID > 0 {
		args = append(args, filter.ClientID)
		whereParts = append(whereParts, fmt.Sprintf("s.client_id = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		whereParts = append(whereParts, fmt.Sprintf("s.session_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		whereParts = append(whereParts, fmt.Sprintf("s.session_date <= $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT `+sessionColumns+`
		FROM sessions s
		JOIN clients c ON c.id = s.client_id
		WHERE %s
		ORDER BY s.session_date ASC, s.start_time ASC, s.id ASC
	`, strings.Join(whereParts, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Reassign moves a session to a new (date, time) slot and touches nothing else.
func (r *SessionRepository) Reassign(ctx context.Context, sessionID int64, date time.Time, startTime string) (*models.Session, error) {
	query := `
		WITH updated AS (
			UPDATE sessions
			SET session_date = $2, start_time = $3, updated_at = NOW()
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + sessionColumnsFor("updated") + `
		FROM updated
		JOIN clients c ON c.id = updated.client_id
	`
	return scanSession(r.db.QueryRow(ctx, query, sessionID, date, startTime))
}

// MarkDone flips session_done and records the muscle groups in one statement.
func (r *SessionRepository) MarkDone(ctx context.Context, sessionID int64, muscleGroups []string) (*models.Session, error) {
	query := `
		WITH updated AS (
			UPDATE sessions
			SET session_done = TRUE, muscle_groups = $2, updated_at = NOW()
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + sessionColumnsFor("updated") + `
		FROM updated
		JOIN clients c ON c.id = updated.client_id
	`
	return scanSession(r.db.QueryRow(ctx, query, sessionID, muscleGroups))
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, sessionID)
	return err
}

// CountScheduledInRange counts a client's sessions dated within [from, to],
// regardless of completion.
func (r *SessionRepository) CountScheduledInRange(ctx context.Context, clientID int64, from, to time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM sessions WHERE client_id = $1 AND session_date BETWEEN $2 AND $3`,
		clientID, from, to,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountDone counts a client's completed sessions across all history.
func (r *SessionRepository) CountDone(ctx context.Context, clientID int64) (int, error) {
	var count int
	err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM sessions WHERE client_id = $1 AND session_done = TRUE`,
		clientID,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
