package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fitpro-app/AgendaBack/internal/models"
	"github.com/fitpro-app/AgendaBack/internal/repository"
)

// FreeTierMaxActiveClients caps the roster on the free tier.
const FreeTierMaxActiveClients = 5

// Premium-only features.
const (
	FeatureEvolutionTracking = "evolution_tracking"
	FeatureAutoSchedule      = "auto_schedule"
)

// TierForSubscription is the pure premium-vs-free predicate: premium while
// the subscription is active or trialing and its period has not lapsed.
func TierForSubscription(sub *models.Subscription, now time.Time) string {
	if sub == nil {
		return models.TierFree
	}
	switch sub.Status {
	case models.SubscriptionActive, models.SubscriptionTrialing:
	default:
		return models.TierFree
	}
	if sub.CurrentPeriodEnd != nil && sub.CurrentPeriodEnd.Before(now) {
		return models.TierFree
	}
	return models.TierPremium
}

// PremiumFeature reports whether a feature requires the premium tier.
func PremiumFeature(feature string) bool {
	switch feature {
	case FeatureEvolutionTracking, FeatureAutoSchedule:
		return true
	default:
		return false
	}
}

type FeatureGate struct {
	subscriptionRepo *repository.SubscriptionRepository
	clientRepo       *repository.ClientRepository
}

func NewFeatureGate(subscriptionRepo *repository.SubscriptionRepository, clientRepo *repository.ClientRepository) *FeatureGate {
	return &FeatureGate{subscriptionRepo: subscriptionRepo, clientRepo: clientRepo}
}

// Tier resolves the trainer's current tier. A missing subscription row reads
// as free rather than an error.
func (g *FeatureGate) Tier(ctx context.Context, trainerID int64) (string, error) {
	sub, err := g.subscriptionRepo.GetByTrainerID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.TierFree, nil
		}
		return "", err
	}
	return TierForSubscription(sub, time.Now()), nil
}

func (g *FeatureGate) Allows(ctx context.Context, trainerID int64, feature string) (bool, error) {
	if !PremiumFeature(feature) {
		return true, nil
	}
	tier, err := g.Tier(ctx, trainerID)
	if err != nil {
		return false, err
	}
	return tier == models.TierPremium, nil
}

// CanAddClient enforces the free-tier roster cap.
func (g *FeatureGate) CanAddClient(ctx context.Context, trainerID int64) (bool, error) {
	tier, err := g.Tier(ctx, trainerID)
	if err != nil {
		return false, err
	}
	if tier == models.TierPremium {
		return true, nil
	}
	count, err := g.clientRepo.CountActive(ctx, trainerID)
	if err != nil {
		return false, err
	}
	return count < FreeTierMaxActiveClients, nil
}
