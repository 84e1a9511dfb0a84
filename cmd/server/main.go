package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/b2blink/marketplace-api/internal/api"
	"github.com/b2blink/marketplace-api/internal/infrastructure/config"
	mongodb "github.com/b2blink/marketplace-api/internal/infrastructure/db/mongo"
	redisdb "github.com/b2blink/marketplace-api/internal/infrastructure/db/redis"
	"github.com/b2blink/marketplace-api/internal/infrastructure/mail"
	"github.com/b2blink/marketplace-api/internal/infrastructure/queue"
	"github.com/b2blink/marketplace-api/pkg/logger"
)

// @title        B2B Marketplace API
// @version      1.0
// @description  Directory, registration, and inquiry API for the B2B marketplace.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}()

	if err := mongodb.NewIdentityRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("identity index creation failed")
	}
	if err := mongodb.NewCompanyRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("company index creation failed")
	}

	dispatcher := queue.NewDispatcher(cfg.Mail.Workers, mail.NewLogMailer(log), log)
	dispatcher.Start(ctx)

	e := api.NewRouter(db, rdb, dispatcher, cfg, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("marketplace-api started")

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	log.Info().Msg("marketplace-api stopped cleanly")
}
