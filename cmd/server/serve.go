package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vytor/lexiflash/internal/api"
	"github.com/vytor/lexiflash/internal/exercise"
	"github.com/vytor/lexiflash/internal/jobs"
	"github.com/vytor/lexiflash/internal/logger"
	"github.com/vytor/lexiflash/internal/media"
	"github.com/vytor/lexiflash/internal/scheduler"
	"github.com/vytor/lexiflash/internal/services"
	"github.com/vytor/lexiflash/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the session daemon (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.Default()

	log.Info("===========================================")
	log.Info("lexiflash starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("api_base_url=%s", cfg.APIBaseURL)
	log.Debug("cdn_base_url=%s", cfg.CDNBaseURL)
	log.Debug("words_per_session=%d", cfg.WordsPerSession)
	log.Debug("flush_worker_count=%d", cfg.FlushWorkerCount)
	log.Debug("flush_queue_size=%d", cfg.FlushQueueSize)
	log.Debug("outbox_retry_every=%s", cfg.OutboxRetryEvery)
	log.Debug("session_idle_timeout=%s", cfg.SessionIdleTimeout)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	resolver := media.NewResolver(cfg.CDNBaseURL)
	selector := exercise.NewSelector(a.client, exercise.WithMedia(resolver))

	authService := services.NewAuthService(a.client, a.provider)
	collectionService := services.NewCollectionService(a.client, a.store, resolver)
	sessionService := services.NewSessionService(a.client, a.outbox, selector, cfg.WordsPerSession)
	outboxService := services.NewOutboxService(a.outbox)

	// Background work runs on its own context so shutdown can drain it in order.
	workCtx, cancelWork := context.WithCancel(context.Background())
	defer cancelWork()

	pool := worker.NewPool(cfg.FlushWorkerCount, cfg.FlushQueueSize)
	pool.Start(workCtx)

	sched := scheduler.New(jobs.NewWorkerQueue(pool, outboxService, sessionService), cfg.OutboxRetryEvery, cfg.SessionIdleTimeout)
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler: %v", err)
		pool.Stop()
		return err
	}

	srv := &api.Server{
		DB:          a.db,
		Auth:        authService,
		Collections: collectionService,
		Sessions:    sessionService,
		Outbox:      outboxService,
		CORSOrigins: cfg.CORSOrigins,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("received shutdown signal, initiating graceful shutdown")
	case err := <-serveErr:
		if err != nil {
			log.Error("HTTP server error: %v", err)
			runErr = err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping scheduler")
	sched.Stop()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Every live session submits or parks what it still holds.
	log.Debug("closing sessions")
	sessionService.CloseAll(shutdownCtx)

	log.Debug("stopping worker pool")
	pool.Stop()

	log.Info("===========================================")
	log.Info("lexiflash stopped")
	log.Info("===========================================")
	return runErr
}
