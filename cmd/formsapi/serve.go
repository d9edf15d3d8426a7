package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/formforge/forms-api/internal/api"
	"github.com/formforge/forms-api/internal/api/middleware"
	"github.com/formforge/forms-api/internal/core/ports"
	"github.com/formforge/forms-api/internal/core/service"
	"github.com/formforge/forms-api/internal/infrastructure/auth"
	"github.com/formforge/forms-api/internal/infrastructure/db/mongo"
	"github.com/formforge/forms-api/internal/infrastructure/db/redis"
	"github.com/formforge/forms-api/internal/infrastructure/http/handlers"
	"github.com/formforge/forms-api/internal/infrastructure/queue"
	"github.com/formforge/forms-api/internal/pkg/config"
	"github.com/formforge/forms-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, log, err := load(ctx)
			if err != nil {
				return err
			}
			return serve(ctx, cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Warn().Err(err).Msg("index creation failed, continuing")
	}

	// Redis is optional: without it revocation is disabled and rate limiting
	// falls back to a per-process limiter.
	var rdb *goredis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, continuing without it")
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	formRepo := mongo.NewFormRepository(db, cfg.Mongo.Timeout)
	submissionRepo := mongo.NewSubmissionRepository(db, cfg.Mongo.Timeout)
	userRepo := mongo.NewUserRepository(db, cfg.Mongo.Timeout)

	var revocations ports.RevocationStore
	if rdb != nil {
		revocations = redis.NewRevocationStore(rdb)
	}
	gate := auth.NewTokenGate(cfg.JWTSecret, cfg.TokenTTL, revocations, logger.Component("auth"))

	statsLog := logger.Component("stats")
	dispatcher := queue.NewDispatcher(cfg.StatsWorkers, service.NewFormStatsService(formRepo, statsLog), statsLog)
	dispatcher.Start(context.WithoutCancel(ctx))
	defer dispatcher.Stop()

	health := map[string]handlers.Pinger{"mongo": handlers.MongoPinger(db), "redis": nil}
	if rdb != nil {
		health["redis"] = handlers.RedisPinger(rdb)
	}

	e := api.NewRouter(api.Dependencies{
		Forms:         service.NewFormService(formRepo, ports.DeletePolicy(cfg.DeletePolicy), logger.Component("forms")),
		Submissions:   service.NewSubmissionService(formRepo, submissionRepo, dispatcher, cfg.StrictSubmissions, logger.Component("submissions")),
		Auth:          service.NewAuthService(userRepo, gate),
		Gate:          gate,
		Limiter:       newLimiter(cfg.RateLimit, rdb),
		Health:        health,
		Logger:        log,
		SecureCookies: cfg.IsProduction(),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func newLimiter(cfg config.RateLimitConfig, rdb *goredis.Client) middleware.Limiter {
	if !cfg.Enabled {
		return nil
	}
	if rdb != nil {
		return redis.NewFixedWindowLimiter(rdb, cfg.RPS, cfg.Burst, cfg.Window)
	}
	return middleware.NewMemoryLimiter(cfg.RPS, cfg.Burst)
}
