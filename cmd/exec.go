package cmd

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"turf-booking/config"
	"turf-booking/internal/handlers"
	"turf-booking/internal/services"
	"turf-booking/internal/services/payment/razorpay"
	"turf-booking/monitoring"
	"turf-booking/security"
	"turf-booking/utils"

	_ "turf-booking/migrations"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL)
	defer redisClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Payment gateway (nil when no keys are configured)
	gateway := razorpay.New(&razorpay.Config{
		KeyID:     cfg.RazorpayKeyID,
		KeySecret: cfg.RazorpayKeySecret,
		BaseURL:   cfg.RazorpayBaseURL,
	})
	if gateway == nil {
		slog.Warn("razorpay keys not configured, payment endpoints disabled")
	}

	// Initialize services
	monitor := monitoring.NewMonitor(app, redisClient)
	notifier := services.NewNotifier(cfg)
	pricingService := services.NewPricingService(app)
	slotService := services.NewSlotService(app, pricingService, monitor)
	bookingService := services.NewBookingService(app, redisClient, cfg, notifier, monitor)

	// Initialize handlers
	turfHandler := handlers.NewTurfHandler(app)
	slotHandler := handlers.NewSlotHandler(app, slotService)
	bookingHandler := handlers.NewBookingHandler(app, bookingService)
	paymentHandler := handlers.NewPaymentHandler(app, bookingService, gateway, cfg)
	adminHandler := handlers.NewAdminHandler(app, pricingService, bookingService)

	rateLimiter := security.NewRateLimiter(redisClient, cfg.RateLimitPerMinute)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	// Start background tasks
	go bookingService.CleanupAbandonedPending(ctx)
	if cfg.EnableMetrics {
		go monitoring.StartMetricsServer(ctx, cfg.MetricsPort, monitor)
	}

	// Setup graceful shutdown
	go handleShutdown(cancel)

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		// Turf endpoints
		e.Router.GET("/api/turfs", turfHandler.GetTurfs)
		e.Router.GET("/api/turfs/{turfId}", turfHandler.GetTurf)
		e.Router.GET("/api/turfs/{turfId}/slots", slotHandler.GetSlots)

		// Booking endpoints
		e.Router.POST("/api/bookings", bookingHandler.CreateBooking).
			BindFunc(rateLimiter.BookingRateLimit()).
			BindFunc(rateLimiter.AntiBotMiddleware())
		e.Router.GET("/api/bookings", bookingHandler.GetBookingHistory)
		e.Router.POST("/api/bookings/{bookingId}/cancel", bookingHandler.CancelBooking)
		e.Router.PATCH("/api/bookings/{bookingId}/status", bookingHandler.UpdateStatus)

		// Payment endpoints
		e.Router.POST("/api/payment/create-order", paymentHandler.CreateOrder).
			BindFunc(rateLimiter.BookingRateLimit())
		e.Router.POST("/api/payment/verify", paymentHandler.VerifyPayment)
		e.Router.POST("/api/payment/dismiss", paymentHandler.DismissPayment)

		// Admin endpoints
		e.Router.GET("/api/admin/turfs", adminHandler.ListTurfs)
		e.Router.POST("/api/admin/turfs", adminHandler.CreateTurf)
		e.Router.DELETE("/api/admin/turfs/{turfId}", adminHandler.DeleteTurf)
		e.Router.PATCH("/api/admin/turfs/{turfId}", adminHandler.UpdateTurf)
		e.Router.GET("/api/admin/turfs/{turfId}/pricing", adminHandler.ListPricingSlots)
		e.Router.POST("/api/admin/turfs/{turfId}/pricing", adminHandler.CreatePricingSlot)
		e.Router.PATCH("/api/admin/pricing/{slotId}", adminHandler.UpdatePricingSlot)
		e.Router.DELETE("/api/admin/pricing/{slotId}", adminHandler.DeletePricingSlot)
		e.Router.GET("/api/admin/bookings", adminHandler.ListBookings)

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

	// Start server
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
	return nil
}

func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	slog.Info("shutting down, stopping background workers")
	cancel()
}
