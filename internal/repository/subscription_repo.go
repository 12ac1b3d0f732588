package repository

import (
	"context"
	"time"

	"github.com/fitpro-app/AgendaBack/internal/models"
)

type SubscriptionRepository struct {
	db DBTX
}

func NewSubscriptionRepository(db DBTX) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `id, trainer_id, stripe_customer_id, stripe_subscription_id,
	status, current_period_end, created_at, updated_at`

func scanSubscription(row interface{ Scan(dest ...any) error }) (*models.Subscription, error) {
	var sub models.Subscription
	err := row.Scan(
		&sub.ID,
		&sub.TrainerID,
		&sub.StripeCustomerID,
		&sub.StripeSubscriptionID,
		&sub.Status,
		&sub.CurrentPeriodEnd,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) CreateEmpty(ctx context.Context, trainerID int64) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO subscriptions (trainer_id, status) VALUES ($1, 'none')`,
		trainerID,
	)
	return err
}

func (r *SubscriptionRepository) GetByTrainerID(ctx context.Context, trainerID int64) (*models.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE trainer_id = $1`
	return scanSubscription(r.db.QueryRow(ctx, query, trainerID))
}

func (r *SubscriptionRepository) GetByStripeSubscriptionID(ctx context.Context, stripeSubID string) (*models.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE stripe_subscription_id = $1`
	return scanSubscription(r.db.QueryRow(ctx, query, stripeSubID))
}

func (r *SubscriptionRepository) Reconcile(
	ctx context.Context,
	trainerID int64,
	stripeCustomerID string,
	stripeSubID string,
	status string,
	currentPeriodEnd *time.Time,
) (*models.Subscription, error) {
	query := `
		UPDATE subscriptions
		SET stripe_customer_id = $2, stripe_subscription_id = $3, status = $4,
			current_period_end = $5, updated_at = NOW()
		WHERE trainer_id = $1
		RETURNING ` + subscriptionColumns
	return scanSubscription(r.db.QueryRow(ctx, query, trainerID, stripeCustomerID, stripeSubID, status, currentPeriodEnd))
}

func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, trainerID int64, status string) (*models.Subscription, error) {
	query := `
		UPDATE subscriptions
		SET status = $2, updated_at = NOW()
		WHERE trainer_id = $1
		RETURNING ` + subscriptionColumns
	return scanSubscription(r.db.QueryRow(ctx, query, trainerID, status))
}
