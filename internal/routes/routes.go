package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitpro-app/AgendaBack/internal/config"
	"github.com/fitpro-app/AgendaBack/internal/handlers"
	"github.com/fitpro-app/AgendaBack/internal/middleware"
	"github.com/fitpro-app/AgendaBack/internal/realtime"
	"github.com/fitpro-app/AgendaBack/internal/repository"
	"github.com/fitpro-app/AgendaBack/internal/scheduler"
	"github.com/fitpro-app/AgendaBack/internal/services"
)

// RegisterRoutes wires repositories, services and handlers onto the app and
// returns the background scheduler for main to start.
func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) *scheduler.Scheduler {
	trainerRepo := repository.NewTrainerRepository(db)
	clientRepo := repository.NewClientRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	evolutionRepo := repository.NewEvolutionRepository(db)

	var storageService services.StorageService
	if cfg.SupabaseURL != "" && cfg.SupabaseBucket != "" && cfg.SupabaseServiceKey != "" {
		storageService = services.NewSupabaseStorageService(cfg.SupabaseURL, cfg.SupabaseBucket, cfg.SupabaseServiceKey)
	}

	hub := realtime.NewHub()
	go hub.Run()

	gate := services.NewFeatureGate(subscriptionRepo, clientRepo)
	clientService := services.NewClientService(clientRepo, gate, hub)
	scheduleService := services.NewScheduleService(sessionRepo, clientRepo, hub)
	billingService := services.NewBillingService(db, clientRepo, paymentRepo, sessionRepo, hub)
	evolutionService := services.NewEvolutionService(evolutionRepo, clientRepo, storageService, hub)
	checkoutService := services.NewCheckoutService(services.CheckoutConfig{
		SecretKey:     cfg.StripeSecretKey,
		WebhookSecret: cfg.StripeWebhookSecret,
		PriceID:       cfg.StripePremiumPrice,
		SuccessURL:    cfg.CheckoutSuccessURL,
		CancelURL:     cfg.CheckoutCancelURL,
	}, subscriptionRepo, hub)

	authHandler := handlers.NewAuthHandler(db, trainerRepo, cfg.JWTSecret)
	clientHandler := handlers.NewClientHandler(clientService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	billingHandler := handlers.NewBillingHandler(billingService)
	evolutionHandler := handlers.NewEvolutionHandler(evolutionService)
	subscriptionHandler := handlers.NewSubscriptionHandler(checkoutService)
	realtimeHandler := handlers.NewRealtimeHandler(hub, cfg.JWTSecret)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	// Stripe calls this without a bearer token; the signature check is the auth.
	api.Post("/webhooks/stripe", subscriptionHandler.Webhook)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	clients := authProtected.Group("/clients")
	clients.Post("", clientHandler.Create)
	clients.Get("", clientHandler.List)
	clients.Get("/:id", clientHandler.Get)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	sessions := authProtected.Group("/sessions")
	sessions.Post("", scheduleHandler.Create)
	sessions.Get("", scheduleHandler.List)
	sessions.Put("/:id/slot", scheduleHandler.Reassign)
	sessions.Put("/:id/done", scheduleHandler.MarkDone)
	sessions.Delete("/:id", scheduleHandler.Delete)
	sessions.Post(
		"/auto-schedule/:clientId",
		middleware.PremiumRequired(gate, services.FeatureAutoSchedule),
		scheduleHandler.AutoCreate,
	)

	billing := authProtected.Group("/billing")
	billing.Get("/:month", billingHandler.GetMonth)
	billing.Post("/:month/generate", billingHandler.Generate)
	billing.Get("/:month/progress/:clientId", billingHandler.SessionProgress)
	billing.Post("/payments", billingHandler.CreateAdHoc)
	billing.Put("/payments/:id/paid", billingHandler.MarkPaid)
	billing.Put("/payments/:id/overdue", billingHandler.MarkOverdue)

	evolution := authProtected.Group(
		"/clients/:clientId/evolution",
		middleware.PremiumRequired(gate, services.FeatureEvolutionTracking),
	)
	evolution.Post("/photos", evolutionHandler.UploadPhotos)
	evolution.Get("/photos", evolutionHandler.ListPhotos)
	evolution.Post("/bioimpedance", evolutionHandler.AddBioimpedance)
	evolution.Get("/bioimpedance", evolutionHandler.ListBioimpedance)
	evolution.Post("/measurements", evolutionHandler.AddMeasurement)
	evolution.Get("/measurements", evolutionHandler.ListMeasurements)

	subscription := authProtected.Group("/subscription")
	subscription.Post("/checkout", subscriptionHandler.CreateCheckout)
	subscription.Get("/status", subscriptionHandler.Status)

	api.Use("/v1/ws", realtimeHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(realtimeHandler.HandleWebSocket))

	return scheduler.New(
		billingService,
		trainerRepo,
		paymentRepo,
		cfg.BillingGenerateSchedule,
		cfg.OverdueSweepSchedule,
	)
}
