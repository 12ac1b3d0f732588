package handlers

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stripe/stripe-go/v72"

	"github.com/fitpro-app/AgendaBack/internal/services"
)

type SubscriptionHandler struct {
	checkout *services.CheckoutService
}

func NewSubscriptionHandler(checkout *services.CheckoutService) *SubscriptionHandler {
	return &SubscriptionHandler{checkout: checkout}
}

// CreateCheckout starts a Stripe Checkout session for the premium plan and
// returns the hosted payment page URL for the app to redirect to.
func (h *SubscriptionHandler) CreateCheckout(c *fiber.Ctx) error {
	trainerID, err := parseTrainerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	url, err := h.checkout.CreateCheckoutSession(trainerID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"checkout_url": url})
}

// Status reports the stored subscription row plus the tier derived from it,
// so the app can gate premium features without re-deriving the rules.
func (h *SubscriptionHandler) Status(c *fiber.Ctx) error {
	trainerID, err := parseTrainerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	subscription, tier, err := h.checkout.SubscriptionStatus(c.Context(), trainerID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"subscription": subscription,
		"tier":         tier,
	})
}

// Webhook receives Stripe events. The signature is verified against the raw
// body before anything is parsed; unhandled event types are acknowledged so
// Stripe stops retrying them.
func (h *SubscriptionHandler) Webhook(c *fiber.Ctx) error {
	event, err := h.checkout.VerifyWebhook(c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		if err == services.ErrCheckoutUnconfigured {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Billing is not configured"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid webhook signature"})
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid event payload"})
		}
		if err := h.checkout.HandleCheckoutCompleted(c.Context(), &session); err != nil {
			log.Printf("webhook: checkout.session.completed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process event"})
		}
	case "customer.subscription.updated", "customer.subscription.deleted":
		var subscription stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &subscription); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid event payload"})
		}
		if err := h.checkout.HandleSubscriptionEvent(c.Context(), &subscription); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				// Not one of ours; acknowledge so Stripe stops retrying.
				log.Printf("webhook: %s: unknown subscription %s", event.Type, subscription.ID)
				break
			}
			log.Printf("webhook: %s: %v", event.Type, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process event"})
		}
	}

	return c.JSON(fiber.Map{"received": true})
}
