// cmd/risk-advisor/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"loan-risk-advisor/internal/cache"
	"loan-risk-advisor/internal/common/aws"
	"loan-risk-advisor/internal/common/config"
	"loan-risk-advisor/internal/common/database"
	"loan-risk-advisor/internal/common/logger"
	"loan-risk-advisor/internal/common/observability"
	"loan-risk-advisor/internal/notify"
	"loan-risk-advisor/internal/predictor"
	"loan-risk-advisor/internal/risk/extract"
	"loan-risk-advisor/internal/risk/render"
	"loan-risk-advisor/internal/risk/submit"
	"loan-risk-advisor/internal/server"
	"loan-risk-advisor/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting risk advisor...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry (optional) ---
	var history *store.Assessments
	if cfg.Database.Postgres.Enabled() {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		history = store.NewAssessments(pg.GetDB(), log)
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Init Redis with retry (optional) ---
	var predictions *cache.Predictions
	if cfg.Cache.Enabled && cfg.Database.Redis.Enabled() {
		var redis *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		predictions = cache.NewPredictions(redis, config.GetDuration(cfg.Cache.TTLMs), log)
		zapLog.Info("Redis connected successfully")
	}

	// --- Init SES notifier (optional) ---
	var notifier *notify.Notifier
	if cfg.Notifications.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.Region)
		if err != nil {
			zapLog.Fatal("ses client initialization failed", zap.Error(err))
		}
		notifier = notify.NewNotifier(sesClient, cfg.Notifications.Sender, cfg.Notifications.Recipient, log)
		zapLog.Info("SES notifier initialized")
	}

	// --- Assemble the submission pipeline ---
	predictClient := predictor.NewClient(
		cfg.Predictor.BaseURL,
		config.GetDuration(cfg.Predictor.TimeoutMs),
		log,
	)

	opts := []submit.Option{submit.WithObservability(obs)}
	if predictions != nil {
		opts = append(opts, submit.WithCache(predictions))
	}
	if history != nil {
		opts = append(opts, submit.WithStore(history))
	}
	if notifier != nil {
		opts = append(opts, submit.WithNotifier(notifier))
	}

	controller := submit.NewController(
		extract.New(log),
		render.New(log),
		predictClient,
		log,
		opts...,
	)

	// --- HTTP server ---
	mux := http.NewServeMux()

	var historyAPI server.History
	if history != nil {
		historyAPI = history
	}
	server.NewServer(controller, historyAPI, log).Register(mux)
	mux.Handle("/metrics", promhttp.Handler())

	limiter := server.NewRateLimiter(
		cfg.Server.RateLimit.Capacity,
		config.GetDuration(cfg.Server.RateLimit.RefillMs),
	)
	defer limiter.Stop()

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: server.RateLimitMiddleware(limiter, mux),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Risk advisor stopped gracefully")
}
