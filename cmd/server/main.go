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

	"github.com/rs/zerolog"

	"github.com/tlc-app/tlc-backend/internal/api"
	"github.com/tlc-app/tlc-backend/internal/api/handler"
	"github.com/tlc-app/tlc-backend/internal/core/service"
	"github.com/tlc-app/tlc-backend/internal/core/token"
	"github.com/tlc-app/tlc-backend/internal/infrastructure/config"
	mongostore "github.com/tlc-app/tlc-backend/internal/infrastructure/db/mongo"
	redisstore "github.com/tlc-app/tlc-backend/internal/infrastructure/db/redis"
	"github.com/tlc-app/tlc-backend/internal/infrastructure/mail"
	"github.com/tlc-app/tlc-backend/internal/infrastructure/queue"
	"github.com/tlc-app/tlc-backend/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "tlc-backend: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "tlc-backend",
		Caller:  cfg.Development(),
	})

	// --- Stores ---
	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongostore.NewUserRepository(db)
	codes := mongostore.NewResetCodeRepository(db)
	audit := mongostore.NewAuditRepository(db)

	// --- Notifications ---
	dispatcher := queue.NewDispatcher(
		mail.NewSMTPSender(mail.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Login:    cfg.SMTP.Login,
			Password: cfg.SMTP.Password,
		}),
		queue.Options{
			Workers: cfg.Notify.Workers,
			Timeout: cfg.Notify.Timeout,
			Retries: cfg.Notify.Retries,
			Backoff: cfg.Notify.Backoff,
		},
		logger.Component("dispatcher"),
	)
	dispatcher.Start()
	// Runs after the HTTP server has stopped, so no new notifications arrive.
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), cfg.Notify.DrainTimeout)
		defer cancel()
		if err := dispatcher.Shutdown(drainCtx); err != nil {
			log.Warn().Err(err).Msg("notification queue not fully drained")
		}
	}()

	// --- Services ---
	codec := token.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	opts := service.AuthOptions{
		BcryptCost:   cfg.BcryptCost,
		ResetCodeTTL: cfg.Reset.CodeTTL,
	}
	if cfg.Reset.MaxAttempts > 0 {
		opts.Limiter = redisstore.NewAttemptLimiter(rdb, cfg.Reset.MaxAttempts, cfg.Reset.AttemptWindow)
	}
	if cfg.SMTP.Support == "" {
		log.Warn().Msg("EMAIL_SUPPORT is not set, support messages will be rejected")
	}

	router := api.NewRouter(api.Dependencies{
		AuthService:    service.NewAuthService(users, codes, audit, codec, dispatcher, log, opts),
		SupportService: service.NewSupportService(dispatcher, cfg.SMTP.Support, log),
		Authenticator:  service.NewAuthenticator(codec, users, log),
		Checks: map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Log: logger.Component("http"),
	})

	return serve(ctx, router, ":"+cfg.Port, log)
}

func serve(ctx context.Context, h http.Handler, addr string, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
