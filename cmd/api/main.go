// @title                       UserHub API
// @version                     1.0
// @description                 User registration, token authentication and role-based user administration.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"golang.org/x/crypto/bcrypt"

	"github.com/userhub/userhub-api/internal/api"
	"github.com/userhub/userhub-api/internal/api/handler"
	"github.com/userhub/userhub-api/internal/core/service"
	mongostore "github.com/userhub/userhub-api/internal/infrastructure/db/mongo"
	redisstore "github.com/userhub/userhub-api/internal/infrastructure/db/redis"
	"github.com/userhub/userhub-api/internal/infrastructure/queue"
	"github.com/userhub/userhub-api/internal/infrastructure/storage"
	"github.com/userhub/userhub-api/internal/pkg/config"
	"github.com/userhub/userhub-api/pkg/logger"
)

const serviceName = "userhub-api"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: serviceName,
		Env:     cfg.Env,
	})

	// --- Stores ---
	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  serviceName,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongodb")
	}
	defer func() {
		if err := mongostore.Disconnect(mongoClient); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect")
		}
	}()

	users := mongostore.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure user indexes")
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close")
		}
	}()

	photos := queue.NewPhotoRemovalQueue(storage.NewLocalPhotoStore(cfg.PhotoDir), 0, logger.Component("photos"))
	photos.Start()

	// --- Services ---
	tokens := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL, redisstore.NewTokenDenylist(rdb))
	gate := service.NewAccessGate(tokens, users)
	authService := service.NewAuthService(users, tokens, photos, bcrypt.DefaultCost, logger.Component("auth"))
	userService := service.NewUserService(users, gate, photos, logger.Component("users"))

	if cfg.Admin.Email != "" {
		admin, err := userService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			log.Fatal().Err(err).Msg("seed admin")
		}
		log.Info().Str("user_id", admin.ID).Msg("admin account ready")
	}

	e := api.NewRouter(api.Deps{
		Auth:          authService,
		Users:         userService,
		Gate:          gate,
		HealthChecks:  []handler.DependencyCheck{handler.MongoCheck(db), handler.RedisCheck(rdb)},
		Logger:        log,
		HTTPDebug:     cfg.HTTPDebug,
		Metrics:       true,
		AuthRateLimit: cfg.AuthRateLimit,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	// No request can queue a removal any more; finish the queued ones.
	photos.Close()
}
