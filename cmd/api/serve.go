package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/LiftOffLLC/zenoti-sdk/internal/adapters/cache"
	"github.com/LiftOffLLC/zenoti-sdk/internal/adapters/providers/scheduling"
	"github.com/LiftOffLLC/zenoti-sdk/internal/api/handlers"
	"github.com/LiftOffLLC/zenoti-sdk/internal/api/routes"
	"github.com/LiftOffLLC/zenoti-sdk/internal/application/services"
	"github.com/LiftOffLLC/zenoti-sdk/internal/infrastructure/clients/redis"
	"github.com/LiftOffLLC/zenoti-sdk/internal/infrastructure/observability"
	"github.com/LiftOffLLC/zenoti-sdk/pkg/availability"
	"github.com/LiftOffLLC/zenoti-sdk/pkg/config"
	"github.com/LiftOffLLC/zenoti-sdk/pkg/retry"
	"github.com/LiftOffLLC/zenoti-sdk/pkg/zenoti"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the availability HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env, cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	opts, err := cfg.Availability.EngineOptions()
	if err != nil {
		return err
	}

	var client *zenoti.Client
	if cfg.Zenoti.APIKey != "" {
		retryCfg := retry.DefaultConfig()
		retryCfg.MaxAttempts = cfg.Zenoti.RetryAttempts

		clientOpts := []zenoti.Option{
			zenoti.WithBaseURL(cfg.Zenoti.BaseURL),
			zenoti.WithTimeout(cfg.Zenoti.Timeout),
			zenoti.WithLogger(log.Logger.With().Str("component", "zenoti").Logger()),
			zenoti.WithRateLimit(cfg.Zenoti.RateLimitRPS, 1),
			zenoti.WithRetry(retryCfg),
		}

		// Continue without Redis; the client then calls the platform every time
		if cfg.Redis.Enabled {
			redisClient, err := redis.NewClient(ctx, &cfg.Redis)
			if err != nil {
				log.Warn().Err(err).Msg("failed to initialize Redis client")
			} else {
				defer redisClient.Close()
				clientOpts = append(clientOpts, zenoti.WithCache(cache.NewRedisAdapter(redisClient, metrics), cfg.Zenoti.CacheTTL))
				log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis cache enabled")
			}
		}

		client, err = zenoti.New(cfg.Zenoti.APIKey, clientOpts...)
		if err != nil {
			return err
		}
	} else {
		log.Warn().Msg("ZENOTI_API_KEY not set, serving mock availability")
	}

	providerCfg := scheduling.AvailabilityProviderConfig{
		Client:            client,
		Location:          opts.DefaultLocation,
		AllowMockFallback: cfg.Zenoti.AllowMockFallback,
		Metrics:           metrics,
	}
	service := services.NewAvailabilityService(scheduling.NewAvailabilityProvider(providerCfg), availability.NewEngine(opts), metrics)
	if fallback := scheduling.NewFallbackProvider(providerCfg); fallback != nil {
		service.SetFallback(fallback)
	}
	handler := handlers.NewAvailabilityHandler(service, opts.DefaultLocation)

	router := routes.NewRouter(handler, metrics, cfg.Server.AllowedOrigins)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error during server shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}
