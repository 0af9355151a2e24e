package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"learnmint-calculator/internal/calculator"
	"learnmint-calculator/internal/config"
	"learnmint-calculator/internal/history"
	"learnmint-calculator/internal/locale"
	"learnmint-calculator/internal/observability"
	"learnmint-calculator/internal/server"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Logger
	if err := observability.InitLogger(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Tracing
	traceShutdown, err := observability.InitTracing(ctx)
	if err != nil {
		panic(err)
	}
	defer traceShutdown(context.Background())

	// Metrics
	metricShutdown, calcMetrics, err := initMetrics(ctx)
	if err != nil {
		panic(err)
	}
	defer metricShutdown(context.Background())

	// Log export
	if cfg.OTLPLogs {
		logShutdown, err := observability.InitLogging(ctx)
		if err != nil {
			panic(err)
		}
		defer logShutdown(context.Background())
	}

	logger := observability.Logger

	// History store
	store, err := history.OpenStore(cfg.History.Backend, cfg.History.Path)
	if err != nil {
		logger.Fatal("failed to open history store", zap.Error(err))
	}
	defer store.Close()

	// Calculator
	loc := locale.New(cfg.Locale)
	sessions := calculator.NewSessionManager(calculator.SessionConfig{
		Store:       store,
		Localizer:   loc,
		Logger:      logger,
		Metrics:     calcMetrics,
		DefaultMode: cfg.Mode(),
		TTL:         cfg.SessionTTL,
	})

	// Router
	limiter := server.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	router := server.NewRouter(calculator.NewHandler(sessions, loc, calcMetrics, cfg.Mode()), limiter)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sessions.Run(gctx)
		return nil
	})

	g.Go(func() error {
		logger.Info("server started",
			zap.String("addr", cfg.Addr),
			zap.String("locale", loc.Tag().String()),
			zap.String("history_backend", cfg.History.Backend),
			zap.Stringer("angle_mode", cfg.Mode()),
			zap.Float64("rate_limit", cfg.RateLimit),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return
	}

	logger.Info("server stopped")
}
