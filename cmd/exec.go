package cmd

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go"
	"github.com/redis/go-redis/v9"

	"ticket-marketplace/config"
	"ticket-marketplace/internal/handlers"
	"ticket-marketplace/internal/services"
	_ "ticket-marketplace/migrations"
	"ticket-marketplace/models"
	"ticket-marketplace/monitoring"
	"ticket-marketplace/security"
	"ticket-marketplace/utils"
)

func Start() error {
	app := pocketbase.New()

	cfg := config.LoadConfig()

	redisClient := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()

	pnConfig := pubnub.NewConfig()
	pnConfig.PublishKey = cfg.PubNubPublishKey
	pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
	pnConfig.SecretKey = cfg.PubNubSecretKey

	pn := pubnub.NewPubNub(pnConfig)

	// Services
	seqService := services.NewSequenceService(app)
	notifier := services.NewNotifier(pn, app.Logger())
	accountService := services.NewAccountService(app, seqService, cfg)
	uploadService := services.NewUploadService(cfg)
	eventService := services.NewEventService(app, seqService)
	moderationService := services.NewModerationService(app, notifier)
	orderService := services.NewOrderService(app, seqService, redisClient, notifier, cfg)
	scannerService := services.NewScannerService(app, notifier)
	analyticsService := services.NewAnalyticsService(app, eventService, redisClient, cfg)

	// Handlers
	accountHandler := handlers.NewAccountHandler(accountService)
	eventHandler := handlers.NewEventHandler(eventService, accountService, moderationService, uploadService, analyticsService)
	orderHandler := handlers.NewOrderHandler(orderService, cfg)
	scannerHandler := handlers.NewScannerHandler(scannerService, accountService)
	adminHandler := handlers.NewAdminHandler(moderationService, accountService, analyticsService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, accountService, eventService)

	limiter := security.NewRateLimiter(redisClient, cfg.RateLimitWindow)

	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	registerSeedCommand(app, accountService, eventService, moderationService)

	monitoring.NewMonitor(redisClient)

	if cfg.EnableMetrics {
		go startOpsServer(redisClient, cfg.MetricsPort)
	}

	app.OnRecordAuthRequest("accounts").BindFunc(func(e *core.RecordAuthRequestEvent) error {
		e.Record.Set("last_login", time.Now().UTC())
		if err := e.App.Save(e.Record); err != nil {
			e.App.Logger().Warn("last_login update failed", "account", e.Record.Id, "error", err)
		}
		return e.Next()
	})

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		// Public endpoints
		e.Router.POST("/api/v1/register", accountHandler.Register).
			BindFunc(limiter.Limit("register", cfg.CheckoutRateLimit, security.ByIP))
		e.Router.GET("/api/v1/events", eventHandler.ListPublic)
		e.Router.GET("/api/v1/events/{id}", eventHandler.Get)

		// Authenticated account endpoints
		e.Router.GET("/api/v1/me", accountHandler.Me).BindFunc(handlers.RequireRole(models.RoleUser, models.RoleOrganizer, models.RoleAdmin))
		e.Router.PATCH("/api/v1/me", accountHandler.UpdateProfile).BindFunc(handlers.RequireRole(models.RoleUser, models.RoleOrganizer, models.RoleAdmin))
		e.Router.POST("/api/v1/me/password", accountHandler.ChangePassword).BindFunc(handlers.RequireRole(models.RoleUser, models.RoleOrganizer, models.RoleAdmin))

		// Checkout
		e.Router.POST("/api/v1/orders", orderHandler.Create).
			BindFunc(handlers.RequireRole(models.RoleUser)).
			BindFunc(security.AntiBot).
			BindFunc(limiter.Limit("checkout", cfg.CheckoutRateLimit, security.ByAuthOrIP))
		e.Router.GET("/api/v1/orders", orderHandler.ListMine).BindFunc(handlers.RequireRole(models.RoleUser))
		e.Router.GET("/api/v1/orders/{id}", orderHandler.Get).BindFunc(handlers.RequireRole(models.RoleUser, models.RoleAdmin))

		// Payment collaborator callbacks
		e.Router.POST("/api/v1/payments/confirm", orderHandler.ConfirmPayment)
		e.Router.POST("/api/v1/payments/fail", orderHandler.FailPayment)
		if cfg.Environment == "development" {
			e.Router.POST("/api/v1/test/orders/{id}/simulate-payment", orderHandler.SimulatePayment).
				BindFunc(handlers.RequireRole(models.RoleUser))
		}

		// Organizer endpoints
		organizerOnly := handlers.RequireRole(models.RoleOrganizer)
		e.Router.POST("/api/v1/organizer/events", eventHandler.Create).BindFunc(organizerOnly)
		e.Router.GET("/api/v1/organizer/events", eventHandler.ListMine).BindFunc(organizerOnly)
		e.Router.PATCH("/api/v1/organizer/events/{id}", eventHandler.Update).BindFunc(organizerOnly)
		e.Router.POST("/api/v1/organizer/events/{id}/submit", eventHandler.Submit).BindFunc(organizerOnly)
		e.Router.POST("/api/v1/organizer/events/{id}/go-live", eventHandler.GoLive).BindFunc(organizerOnly)
		e.Router.POST("/api/v1/organizer/events/{id}/complete", eventHandler.Complete).BindFunc(organizerOnly)
		e.Router.GET("/api/v1/organizer/events/{id}/sales", analyticsHandler.EventSales).BindFunc(organizerOnly)
		e.Router.GET("/api/v1/organizer/dashboard", analyticsHandler.Dashboard).BindFunc(organizerOnly)
		e.Router.POST("/api/v1/organizer/scanners", scannerHandler.RegisterDevice).BindFunc(organizerOnly)
		e.Router.GET("/api/v1/organizer/scanners", scannerHandler.ListDevices).BindFunc(organizerOnly)
		e.Router.DELETE("/api/v1/organizer/scanners/{id}", scannerHandler.RevokeDevice).BindFunc(organizerOnly)

		// Scanning endpoints authenticate per request: organizer login or
		// an X-Scanner-Key header.
		e.Router.GET("/api/v1/scan/{passId}", scannerHandler.Lookup).
			BindFunc(limiter.Limit("scan", cfg.ScanRateLimit, security.ByAuthOrIP))
		e.Router.POST("/api/v1/scan/{passId}/validate", scannerHandler.Validate).
			BindFunc(limiter.Limit("scan", cfg.ScanRateLimit, security.ByAuthOrIP))

		// Admin endpoints
		adminOnly := handlers.RequireRole(models.RoleAdmin)
		e.Router.GET("/api/v1/admin/organizers/pending", adminHandler.PendingOrganizers).BindFunc(adminOnly)
		e.Router.POST("/api/v1/admin/organizers/{id}/approve", adminHandler.ApproveOrganizer).BindFunc(adminOnly)
		e.Router.POST("/api/v1/admin/organizers/{id}/reject", adminHandler.RejectOrganizer).BindFunc(adminOnly)
		e.Router.GET("/api/v1/admin/events/pending", adminHandler.PendingEvents).BindFunc(adminOnly)
		e.Router.POST("/api/v1/admin/events/{id}/approve", adminHandler.ApproveEvent).BindFunc(adminOnly)
		e.Router.POST("/api/v1/admin/events/{id}/cancel", adminHandler.CancelEvent).BindFunc(adminOnly)
		e.Router.POST("/api/v1/admin/orders/{id}/refund", orderHandler.Refund).BindFunc(adminOnly)
		e.Router.DELETE("/api/v1/admin/accounts/{id}", adminHandler.RemoveAccount).BindFunc(adminOnly)
		e.Router.GET("/api/v1/admin/genre-sales", adminHandler.GenreSales).BindFunc(adminOnly)

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(503, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(200, map[string]string{"status": "healthy"})
		})

		log.Println("Server routes registered")

		return e.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
	return nil
}

// startOpsServer exposes prometheus metrics and a liveness probe on a
// separate port, away from the public API.
func startOpsServer(redisClient *redis.Client, port string) {
	e := echo.New()

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		if err := utils.RedisHealthCheck(redisClient); err != nil {
			return c.JSON(503, map[string]string{"status": "unhealthy"})
		}
		return c.JSON(200, map[string]string{"status": "healthy"})
	})

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("ops server stopped: %v", err)
	}
}
