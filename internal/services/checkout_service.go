package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	stripe "github.com/stripe/stripe-go/v72"
	checkoutsession "github.com/stripe/stripe-go/v72/checkout/session"
	"github.com/stripe/stripe-go/v72/sub"
	"github.com/stripe/stripe-go/v72/webhook"

	"github.com/fitpro-app/AgendaBack/internal/models"
	"github.com/fitpro-app/AgendaBack/internal/repository"
)

var ErrCheckoutUnconfigured = errors.New("checkout is not configured")

type CheckoutConfig struct {
	SecretKey     string
	WebhookSecret string
	PriceID       string
	SuccessURL    string
	CancelURL     string
}

// CheckoutService fronts the hosted Stripe checkout and keeps the local
// subscription row reconciled with webhook events.
type CheckoutService struct {
	config           CheckoutConfig
	subscriptionRepo *repository.SubscriptionRepository
	notifier         ChangeNotifier
}

func NewCheckoutService(
	config CheckoutConfig,
	subscriptionRepo *repository.SubscriptionRepository,
	notifier ChangeNotifier,
) *CheckoutService {
	if config.SecretKey != "" {
		stripe.Key = config.SecretKey
	}
	return &CheckoutService{
		config:           config,
		subscriptionRepo: subscriptionRepo,
		notifier:         notifier,
	}
}

func (s *CheckoutService) Configured() bool {
	return s.config.SecretKey != "" && s.config.PriceID != ""
}

// CreateCheckoutSession builds a hosted subscription checkout and returns
// the redirect URL.
func (s *CheckoutService) CreateCheckoutSession(trainerID int64) (string, error) {
	if !s.Configured() {
		return "", ErrCheckoutUnconfigured
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.config.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:        stripe.String(s.config.SuccessURL),
		CancelURL:         stripe.String(s.config.CancelURL),
		ClientReferenceID: stripe.String(strconv.FormatInt(trainerID, 10)),
	}

	sess, err := checkoutsession.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

// SubscriptionStatus returns the trainer's local subscription row together
// with the tier it resolves to.
func (s *CheckoutService) SubscriptionStatus(ctx context.Context, trainerID int64) (*models.Subscription, string, error) {
	subscription, err := s.subscriptionRepo.GetByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, "", err
	}
	return subscription, TierForSubscription(subscription, time.Now()), nil
}

// VerifyWebhook checks the Stripe signature and parses the event.
func (s *CheckoutService) VerifyWebhook(payload []byte, signature string) (stripe.Event, error) {
	if s.config.WebhookSecret == "" {
		return stripe.Event{}, ErrCheckoutUnconfigured
	}
	return webhook.ConstructEvent(payload, signature, s.config.WebhookSecret)
}

// HandleCheckoutCompleted reconciles the local row after a completed
// checkout: it looks the subscription up at Stripe for its authoritative
// status and period end.
func (s *CheckoutService) HandleCheckoutCompleted(ctx context.Context, session *stripe.CheckoutSession) error {
	trainerID, err := strconv.ParseInt(session.ClientReferenceID, 10, 64)
	if err != nil {
		return fmt.Errorf("parse client reference %q: %w", session.ClientReferenceID, err)
	}
	if session.Subscription == nil {
		return fmt.Errorf("checkout session %s has no subscription", session.ID)
	}

	remote, err := sub.Get(session.Subscription.ID, nil)
	if err != nil {
		return fmt.Errorf("fetch subscription %s: %w", session.Subscription.ID, err)
	}

	periodEnd := time.Unix(remote.CurrentPeriodEnd, 0).UTC()
	customerID := ""
	if session.Customer != nil {
		customerID = session.Customer.ID
	}

	if _, err := s.subscriptionRepo.Reconcile(
		ctx,
		trainerID,
		customerID,
		remote.ID,
		mapStripeStatus(remote.Status),
		&periodEnd,
	); err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.Publish(trainerID, "subscriptions", "update")
	}
	return nil
}

// HandleSubscriptionEvent applies a customer.subscription.* event to the
// local row matched by Stripe subscription id.
func (s *CheckoutService) HandleSubscriptionEvent(ctx context.Context, remote *stripe.Subscription) error {
	local, err := s.subscriptionRepo.GetByStripeSubscriptionID(ctx, remote.ID)
	if err != nil {
		return err
	}

	if _, err := s.subscriptionRepo.UpdateStatus(ctx, local.TrainerID, mapStripeStatus(remote.Status)); err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.Publish(local.TrainerID, "subscriptions", "update")
	}
	return nil
}

func mapStripeStatus(status stripe.SubscriptionStatus) string {
	switch status {
	case stripe.SubscriptionStatusActive:
		return models.SubscriptionActive
	case stripe.SubscriptionStatusTrialing:
		return models.SubscriptionTrialing
	case stripe.SubscriptionStatusPastDue, stripe.SubscriptionStatusUnpaid:
		return models.SubscriptionPastDue
	case stripe.SubscriptionStatusCanceled, stripe.SubscriptionStatusIncompleteExpired:
		return models.SubscriptionCanceled
	default:
		return models.SubscriptionNone
	}
}
