package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"slot-picker-service/internal/app"
	"slot-picker-service/internal/config"
	"slot-picker-service/internal/server"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		errLogger := zerolog.New(os.Stderr)
		errLogger.Fatal().Err(err).Msg("failed to load config")
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to db")
	}
	defer pool.Close()

	sessions := app.NewSessionStore(time.Duration(cfg.SessionTTLMinutes)*time.Minute, logger)
	sessions.StartSweeper(ctx)

	appInstance := &app.App{
		DB:       pool,
		Cfg:      cfg,
		Log:      logger,
		Sessions: sessions,
	}

	router := gin.New()
	router.Use(gin.Recovery(), server.RequestLogger(logger))

	// OAuth2 callback (must be before auth middleware)
	router.GET("/oauth2callback", appInstance.GoogleOAuth2CallbackHandler)

	router.Use(app.AuthMiddleware(cfg.StaticTokenList(), cfg.JWTHMACSecret))

	api := router.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("/:id/schedules", appInstance.CreateScheduleHandler)
			users.GET("/:id/schedules", appInstance.ListSchedulesHandler)
			users.GET("/:id/bookings", appInstance.ListBookingsHandler)
		}

		schedules := api.Group("/schedules")
		{
			schedules.GET("/:id", appInstance.GetScheduleHandler)
			schedules.PUT("/:id", appInstance.UpdateScheduleHandler)
			schedules.PUT("/:id/slots", appInstance.ReplaceManualSlotsHandler)
			schedules.POST("/:id/sessions", appInstance.CreateSessionHandler)
			schedules.POST("/:id/calendar-exclusions", appInstance.ImportCalendarExclusionsHandler)
		}

		picker := api.Group("/sessions")
		{
			picker.GET("/:id", appInstance.GetSessionHandler)
			picker.DELETE("/:id", appInstance.DeleteSessionHandler)
			picker.POST("/:id/navigate", appInstance.NavigateSessionHandler)
			picker.PUT("/:id/selection", appInstance.SetSelectionHandler)
			picker.POST("/:id/bookings", appInstance.CreateBookingHandler)
		}

		api.DELETE("/bookings/:id", appInstance.CancelBookingHandler)

		// Google Calendar integration routes
		calendar := api.Group("/calendar")
		{
			calendar.GET("/auth", appInstance.GoogleAuthHandler)
			calendar.GET("/calendars", appInstance.GetGoogleCalendarList)
		}
	}

	logger.Info().Str("addr", cfg.Addr()).Msg("starting server")
	server.Run(router, cfg.Addr())
}
