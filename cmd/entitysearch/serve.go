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

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	logpkg "github.com/kailas-cloud/entitysearch/internal/logger"
	"github.com/kailas-cloud/entitysearch/internal/metrics"
	"github.com/kailas-cloud/entitysearch/internal/normalize"
	chiTransport "github.com/kailas-cloud/entitysearch/internal/transport/chi"
	healthuc "github.com/kailas-cloud/entitysearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/entitysearch/internal/usecase/search"
	sessionuc "github.com/kailas-cloud/entitysearch/internal/usecase/session"
	"github.com/kailas-cloud/entitysearch/internal/version"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, err := opts.loadConfig(false)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Logging.Level
	if opts.verbose {
		level = "debug"
	}
	logger, err := logpkg.NewLogger(opts.env, level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting entitysearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", opts.env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("backend", cfg.Backend.Driver),
		zap.Bool("cache", cfg.Cache.Enabled),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterBackendMetrics()

	catalog, err := loadCatalog(cfg, logger)
	if err != nil {
		return err
	}

	base, err := buildBackend(cfg.Backend)
	if err != nil {
		return err
	}
	store, err := buildCache(ctx, cfg.Cache, logger)
	if err != nil {
		return err
	}
	var cachePinger healthuc.Pinger
	if store != nil {
		defer store.Close()
		cachePinger = store
	}

	searchSvc := searchuc.New(withCache(base, store, cfg, logger), normalize.New())
	manager := sessionuc.NewManager(
		time.Duration(cfg.Sessions.MaxAgeSec)*time.Second,
		time.Duration(cfg.Sessions.IdleTimeoutSec)*time.Second,
	)
	cleaner, err := sessionuc.StartCleaner(manager, cfg.Sessions.CleanupSchedule, logger)
	if err != nil {
		return err
	}
	defer cleaner.Stop()

	sessionSvc := sessionuc.NewService(manager, catalog, searchSvc)
	healthSvc := healthuc.New(base, cachePinger)

	server := chiTransport.NewServer(searchSvc, sessionSvc, healthSvc, logger).
		WithOriginPatterns(cfg.Auth.AllowedOrigins)
	handler := chiTransport.NewRouter(server, cfg.Auth.APIKeys, metrics.Middleware())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error during shutdown", zap.Error(err))
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("Server stopped gracefully", zap.Int("sessions", manager.Len()))
	return nil
}
