package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ecoleta/ecoleta-backend/api/routes"
	"github.com/ecoleta/ecoleta-backend/internal/address"
	"github.com/ecoleta/ecoleta-backend/internal/auth"
	"github.com/ecoleta/ecoleta-backend/internal/generators"
	"github.com/ecoleta/ecoleta-backend/pkg/config"
	"github.com/ecoleta/ecoleta-backend/pkg/db"
	"github.com/ecoleta/ecoleta-backend/pkg/logger"
	"github.com/ecoleta/ecoleta-backend/pkg/metrics"
	"github.com/ecoleta/ecoleta-backend/pkg/migrate"
	"github.com/ecoleta/ecoleta-backend/pkg/redis"
	"github.com/ecoleta/ecoleta-backend/pkg/security"
	"github.com/ecoleta/ecoleta-backend/pkg/storage/photos"
	"github.com/ecoleta/ecoleta-backend/pkg/viacep"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(ctx, "redis not configured, auth rate limiting disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricSet := metrics.NewSet(registry)

	hasher := security.NewPasswordHasher(cfg.Password)

	registerService, err := generators.NewRegisterService(generators.RegisterServiceParams{
		TxRunner:        dbClient,
		Hasher:          hasher,
		Photos:          photos.NewStore(cfg.Uploads.Dir, cfg.Uploads.MaxPhotoBytes),
		Logger:          logg,
		Metrics:         metricSet.Auth,
		StrictDocuments: cfg.FeatureFlags.StrictDocumentValidation,
	})
	if err != nil {
		logg.Error(ctx, "failed to create registration service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		GeneratorRepo: generators.NewRepository(dbClient.DB()),
		Hasher:        hasher,
		Logger:        logg,
		Metrics:       metricSet.Auth,
	})
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	lookupClient := viacep.NewClient(
		viacep.WithBaseURL(cfg.ViaCEP.BaseURL),
		viacep.WithRetry(cfg.ViaCEP.MaxAttempts, cfg.ViaCEP.BaseDelay),
		viacep.WithHTTPClient(&http.Client{Timeout: cfg.ViaCEP.Timeout}),
		viacep.WithRecorder(metricSet.Lookup),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"driver": dbClient.Driver(),
	})
	logg.Info(serverCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		Handler: routes.NewRouter(routes.Params{
			Config:          cfg,
			Logger:          logg,
			DB:              dbClient,
			Redis:           redisClient,
			Metrics:         metricSet,
			Gatherer:        registry,
			RegisterService: registerService,
			AuthService:     authService,
			AddressService:  address.NewService(lookupClient),
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(serverCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(serverCtx, "graceful shutdown failed", err)
		}
	}
}
