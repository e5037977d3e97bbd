// @title           Auth API
// @version         1.0
// @description     Signup, signin, token validation and password reset.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"

	"github.com/99minutos/auth-api/internal/api"
	"github.com/99minutos/auth-api/internal/infrastructure/db/mongo"
	"github.com/99minutos/auth-api/internal/infrastructure/db/redis"
	"github.com/99minutos/auth-api/internal/pkg/config"
	"github.com/99minutos/auth-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "auth-api",
	})

	ctx := context.Background()

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "auth-api",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongo")
	}
	if err := mongo.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes")
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")

	redisCfg := redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
	var rdb *goredis.Client
	if redisCfg.Enabled() {
		rdb, err = redis.Connect(ctx, redisCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("connect redis")
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected, reset tokens are single-use")
	} else {
		log.Warn().Msg("REDIS_ADDR not set, reset tokens stay valid until they expire")
	}

	e, err := api.NewRouter(db, rdb, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("build router")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server started")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}
	if err := mongo.Disconnect(shutdownCtx, client, cfg.ShutdownTimeout); err != nil {
		log.Error().Err(err).Msg("mongo disconnect")
	}
}
