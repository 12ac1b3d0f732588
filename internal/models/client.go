package models

import "time"

const (
	PlanMonthly    = "monthly"
	PlanPerSession = "per_session"
	PlanFixedTerm  = "fixed_term"
)

// TemplateEntry is one recurring weekly slot in a client's schedule template.
type TemplateEntry struct {
	Weekday   time.Weekday `json:"weekday"`
	StartTime string       `json:"start_time"`
}

type Client struct {
	ID               int64           `json:"id"`
	TrainerID        int64           `json:"trainer_id"`
	Name             string          `json:"name"`
	Phone            string          `json:"phone"`
	PlanKind         string          `json:"plan_kind"`
	Rate             float64         `json:"rate"`
	BillingDay       int             `json:"billing_day"`
	WeeklyFrequency  int             `json:"weekly_frequency"`
	ScheduleTemplate []TemplateEntry `json:"schedule_template"`
	IsConsulting     bool            `json:"is_consulting"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func ValidPlanKind(kind string) bool {
	switch kind {
	case PlanMonthly, PlanPerSession, PlanFixedTerm:
		return true
	default:
		return false
	}
}
