package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"dailyMotivatorAPI/internal/catalog"
	"dailyMotivatorAPI/internal/config"
	"dailyMotivatorAPI/internal/logger"
	"dailyMotivatorAPI/internal/metrics"
	pushnotify "dailyMotivatorAPI/internal/notification"
	"dailyMotivatorAPI/middleware"
	"dailyMotivatorAPI/routes"
	"dailyMotivatorAPI/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func newVerifier(cfg *config.Config) middleware.TokenVerifier {
	if cfg.AuthProvider == config.AuthClerk {
		logger.Info().Msg("Clerk initialized successfully")
		return middleware.NewClerkVerifier(cfg.ClerkSecretKey)
	}
	return middleware.NewJWTVerifier(cfg.JWTSecret)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		logger.Info().Msg("Closing database connection...")
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Error().Err(err).Msg("Failed to close database")
		}
	}()

	if cfg.SeedCatalog {
		if err := catalog.EnsureSeeded(ctx, store); err != nil {
			return err
		}
	}

	cache := catalog.NewCache(store, cfg.CatalogCacheSize)

	dispatcher := services.NewNotificationDispatcher(store, pushnotify.LogProvider{}, cfg.NotificationWorkers)
	defer dispatcher.Stop()

	fcmService, err := pushnotify.NewFCMService(ctx, cfg.FCMServiceAccountJSON, cfg.FCMCredentialsFile)
	if err != nil {
		logger.Warn().Err(err).Msg("Could not initialize FCM, pushes will only be logged")
	} else {
		dispatcher.SetPushProvider(fcmService)
		logger.Info().Msg("FCM Push Provider initialized successfully")
	}

	notifier := services.NewNotificationService(store, dispatcher)
	badges := services.NewBadgeService(store, cache, notifier)

	middleware.InitPrometheus(prometheus.DefaultRegisterer)
	metrics.Register(prometheus.DefaultRegisterer)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.CleanupVisitors(ctx)

	router := routes.New(routes.Deps{
		Store:          store,
		Challenges:     services.NewChallengeService(store, cache, badges),
		Badges:         badges,
		Quotes:         services.NewQuoteService(store),
		Favorites:      services.NewFavoriteService(store),
		Goals:          services.NewGoalService(store),
		Notifications:  notifier,
		Auth:           middleware.NewAuth(newVerifier(cfg)),
		RateLimiter:    limiter,
		Gatherer:       prometheus.DefaultGatherer,
		MetricsUser:    cfg.MetricsUser,
		MetricsPass:    cfg.MetricsPass,
		RequestTimeout: cfg.RequestTimeout,
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      routes.WithCORS(router, cfg.CORSOrigins),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Str("env", cfg.Env).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown error")
	}

	logger.Info().Msg("Server shutdown complete")
	return nil
}
