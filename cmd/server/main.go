package main

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"sitesensei/app/internal/auth"
	"sitesensei/app/internal/config"
	appdb "sitesensei/app/internal/db"
	apphttp "sitesensei/app/internal/http"
	"sitesensei/app/internal/llm"
	applog "sitesensei/app/internal/log"
	"sitesensei/app/internal/page"
	"sitesensei/app/internal/user"
)

const (
	rateLimitRequestsPerSecond = 10
	rateLimitBurst             = 30
	rateLimitClientTTL         = 10 * time.Minute
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return eris.Wrap(err, "failure loading configuration")
	}

	logger, err := applog.NewLogger(cfg.LogLevel)
	if err != nil {
		return eris.Wrap(err, "failure initialising logger")
	}

	sentryHub, flush, err := applog.InitSentry(logger, applog.SentrySettings{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
	})
	if err != nil {
		return eris.Wrap(err, "failure initialising sentry")
	}
	defer flush()

	dbConn, err := appdb.Open(appdb.Options{Path: cfg.DBPath})
	if err != nil {
		return eris.Wrap(err, "opening database")
	}
	defer func() {
		if closeErr := appdb.Close(dbConn); closeErr != nil {
			logger.WithError(closeErr).Error("closing database")
		}
	}()

	if err := page.Migrate(ctx, dbConn, logger); err != nil {
		return eris.Wrap(err, "running migrations")
	}

	pageRepository, err := page.NewRepository(dbConn, logger)
	if err != nil {
		return eris.Wrap(err, "building page repository")
	}

	userRepository, err := user.NewRepository(dbConn, logger)
	if err != nil {
		return eris.Wrap(err, "building user repository")
	}

	client, err := llm.NewClient(llm.ClientOptions{
		APIKey:  cfg.LLMAPIKey,
		BaseURL: cfg.LLMEndpoint,
		Logger:  logger,
	})
	if err != nil {
		return eris.Wrap(err, "creating llm client")
	}

	catalog := llm.ModelCatalog{
		Free:     cfg.FreeModel,
		Pro:      cfg.ProModel,
		Advanced: cfg.AdvancedModel,
		Default:  cfg.DefaultModel,
	}

	generator, err := llm.NewGenerator(llm.GeneratorOptions{
		Client:  client,
		Catalog: catalog,
	})
	if err != nil {
		return eris.Wrap(err, "initialising generator")
	}

	editor, err := llm.NewEditor(llm.EditorOptions{
		Client:  client,
		Catalog: catalog,
	})
	if err != nil {
		return eris.Wrap(err, "initialising editor")
	}

	enhancer, err := llm.NewEnhancer(llm.EnhancerOptions{
		Client:  client,
		Catalog: catalog,
	})
	if err != nil {
		return eris.Wrap(err, "initialising enhancer")
	}

	verifier, err := auth.NewVerifier(cfg.AuthSecret)
	if err != nil {
		return eris.Wrap(err, "initialising token verifier")
	}

	userService, err := user.NewService(userRepository, logger, sentryHub)
	if err != nil {
		return eris.Wrap(err, "creating user service")
	}

	pageService, err := page.NewService(pageRepository, userRepository, logger, sentryHub)
	if err != nil {
		return eris.Wrap(err, "creating page service")
	}

	transport, err := apphttp.NewServer(apphttp.Options{
		Enhancer:  enhancer,
		Generator: generator,
		Editor:    editor,
		Pages:     pageService,
		Users:     userService,
		Verifier:  verifier,
		Database:  dbConn,
		Logger:    logger,
		SentryHub: sentryHub,
		RateLimiter: apphttp.RateLimiterSettings{
			RequestsPerSecond: rateLimitRequestsPerSecond,
			Burst:             rateLimitBurst,
			ClientTTL:         rateLimitClientTTL,
		},
	})
	if err != nil {
		return eris.Wrap(err, "initialising http transport")
	}

	httpServer := &stdhttp.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", cfg.ServerPort),
		Handler: transport.Handler(),
	}

	logger.WithFields(logrus.Fields{
		"addr": httpServer.Addr,
	}).Info("starting http server")

	serverErrCh := make(chan error, 1)
	go func() {
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErrCh:
		if err != nil {
			return eris.Wrap(err, "http server error")
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "shutting down http server")
	}

	logger.Info("http server shut down cleanly")
	return nil
}
