package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sapaudit/auth-service/internal/api"
	"github.com/sapaudit/auth-service/internal/core/security"
	"github.com/sapaudit/auth-service/internal/infrastructure/config"
	mongodb "github.com/sapaudit/auth-service/internal/infrastructure/db/mongo"
	redisdb "github.com/sapaudit/auth-service/internal/infrastructure/db/redis"
	"github.com/sapaudit/auth-service/internal/infrastructure/queue"
	"github.com/sapaudit/auth-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title Auth Service API
// @version 1.0
// @description Authentication and user management service issuing HS256 JWTs.
// @BasePath /api
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		fallback := logger.Get()
		fallback.Fatal().Err(err).Msg("loading configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// The signing key is the one setting the service refuses to start
	// without. A weak or malformed secret is a deployment error, not
	// something to limp along with.
	key, err := security.DeriveKey(cfg.JWT.Secret)
	if err != nil {
		log.Fatal().Err(err).Msg("deriving signing key")
	}
	codec := security.NewTokenCodec(key, cfg.JWT.Issuer, cfg.JWT.Lifetime())

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to mongodb")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("disconnecting mongodb")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("creating mongodb indexes")
	}
	if err := mongodb.NewRoleRepository(db).SeedRoles(ctx); err != nil {
		log.Fatal().Err(err).Msg("seeding role catalog")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		// Redis only backs the login throttle; the service degrades to
		// unthrottled logins rather than refusing to start.
		log.Warn().Err(err).Msg("redis unavailable, login throttling disabled")
		rdb = nil
	} else {
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error().Err(err).Msg("closing redis client")
			}
		}()
	}

	audit := queue.NewDispatcher(0, mongodb.NewAuditRepository(db), log)
	audit.Start(ctx)

	e := api.NewRouter(db, rdb, cfg, codec, audit, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting http server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
