package main

import (
	"context"

	"github.com/vytor/lexiflash/internal/auth"
	"github.com/vytor/lexiflash/internal/config"
	"github.com/vytor/lexiflash/internal/db"
	"github.com/vytor/lexiflash/internal/learnapi"
	"github.com/vytor/lexiflash/internal/learning"
	"github.com/vytor/lexiflash/internal/localstore"
	"github.com/vytor/lexiflash/internal/logger"
	"github.com/vytor/lexiflash/internal/repository/sqlite"
)

// app holds what both the daemon and the one-shot commands need.
type app struct {
	cfg      config.Config
	db       *db.DB
	store    *localstore.Store
	provider *auth.Provider
	client   *learnapi.Client
	outbox   *learning.Outbox
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	log := logger.Default()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		return nil, err
	}

	store := localstore.New(sqlite.NewKVRepository(database.DB))
	provider := auth.NewProvider(store)
	if err := provider.Load(ctx); err != nil {
		log.Warn("failed to restore saved sign-in: %v", err)
	}

	client := learnapi.New(cfg.APIBaseURL, provider, learnapi.WithTimeout(cfg.HTTPTimeout))
	outbox := learning.NewOutbox(sqlite.NewOutboxRepository(database.DB), client)

	return &app{
		cfg:      cfg,
		db:       database,
		store:    store,
		provider: provider,
		client:   client,
		outbox:   outbox,
	}, nil
}

func (a *app) Close() {
	logger.Debug("closing database connection")
	if err := a.db.Close(); err != nil {
		logger.Error("failed to close database: %v", err)
	}
}
