package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"rsvphub/config"
	"rsvphub/database"
	"rsvphub/handlers"
	"rsvphub/middleware"
	"rsvphub/services"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()

	// Database
	database.Connect(cfg)
	database.Migrate()
	database.ConnectRedis(cfg)

	// Services
	lockout := services.NewLoginLockout(database.RDB, log.Logger)
	notifier := services.NewSMTPNotifier(cfg)
	mailer := services.NewMailer(notifier, cfg.BaseURL, log.Logger)
	allocator := services.NewCodeAllocator(database.DB)
	milestones := services.NewMilestoneDetector(database.DB, mailer, cfg.RSVPMilestones, log.Logger)
	rsvpService := services.NewRSVPService(database.DB, mailer, milestones, log.Logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(cfg, lockout)
	invitationsHandler := handlers.NewInvitationsHandler(cfg, allocator, rsvpService, mailer)
	rsvpsHandler := handlers.NewRSVPsHandler(cfg, rsvpService)
	subscriptionsHandler := handlers.NewSubscriptionsHandler(cfg)
	liveStatsHandler := handlers.NewLiveStatsHandler(cfg)

	// Router
	r := gin.Default()
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.SecurityHeaders())

	authLimiter := middleware.NewRateLimiter(5, 10)
	rsvpLimiter := middleware.NewRateLimiter(2, 5)

	// Public routes
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/api/templates", handlers.TemplateGallery)
	r.GET("/api/invitations/:code", invitationsHandler.View)
	r.POST("/api/invitations/:code/rsvp", rsvpLimiter, rsvpsHandler.Submit)

	// Auth routes
	auth := r.Group("/api/auth")
	auth.Use(authLimiter)
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	// Auth routes requiring partial token (pre-TOTP)
	authPartial := r.Group("/api/auth")
	authPartial.Use(middleware.PartialAuthAllowed(cfg.JWTSecret))
	{
		authPartial.POST("/totp-verify", authHandler.TOTPVerify)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthRequired(cfg.JWTSecret))
	{
		// User
		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/auth/logout", authHandler.Logout)
		protected.POST("/auth/totp-setup", authHandler.TOTPSetup)
		protected.POST("/auth/totp-confirm", authHandler.TOTPConfirm)
		protected.POST("/auth/change-password", authHandler.ChangePassword)

		// Invitations
		protected.GET("/invitations", invitationsHandler.List)
		protected.POST("/invitations", invitationsHandler.Create)
		protected.GET("/invitations/:code/manage", invitationsHandler.Manage)
		protected.GET("/invitations/:code/stats", invitationsHandler.Stats)
		protected.POST("/invitations/:code/remind", invitationsHandler.SendReminders)
		protected.DELETE("/invitations/:code", invitationsHandler.Delete)

		// Subscriptions
		protected.GET("/subscriptions", subscriptionsHandler.List)
		protected.POST("/subscriptions", subscriptionsHandler.Create)
		protected.GET("/subscriptions/summary", subscriptionsHandler.Summary)
		protected.PUT("/subscriptions/:id", subscriptionsHandler.Update)
		protected.DELETE("/subscriptions/:id", subscriptionsHandler.Delete)
		protected.POST("/subscriptions/:id/charge", subscriptionsHandler.Charge)
	}

	// WebSocket routes
	r.GET("/ws/invitations/:code/stats", liveStatsHandler.HandleWebSocket)

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
