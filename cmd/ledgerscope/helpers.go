package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/haldane/ledgerscope/internal/common"
	"github.com/haldane/ledgerscope/internal/config"
	"github.com/haldane/ledgerscope/internal/forensics"
	"github.com/haldane/ledgerscope/internal/ledger"
	"github.com/haldane/ledgerscope/internal/service"
	"github.com/haldane/ledgerscope/internal/storage"
)

// initStorage opens the configured SQLite database and brings its schema up
// to date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initAuditLedger builds the audit ledger client from config. Auditing is
// optional; with no URL configured the manager runs without it.
func initAuditLedger() service.AuditLedger {
	url := viper.GetString("audit.url")
	if url == "" {
		return nil
	}

	ttl := viper.GetDuration("audit.cache_ttl")
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return ledger.NewClient(ledger.StaticResolver(url, ttl), ledger.BaseURLCache{})
}

// initManager wires storage and the optional audit ledger into a forensics
// manager. The returned cleanup drains in-flight audit posts and closes the
// database.
func initManager(ctx context.Context) (*forensics.Manager, func(), error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}

	manager := forensics.NewManager(store, initAuditLedger())
	cleanup := func() {
		manager.Flush()
		_ = store.Close()
	}
	return manager, cleanup, nil
}

// currentActor returns the acting user every ownership check runs against.
func currentActor() (string, error) {
	actor := viper.GetString("actor")
	if actor == "" {
		return "", fmt.Errorf("%w: set --actor or LEDGERSCOPE_ACTOR", common.ErrMissingConfig)
	}
	return actor, nil
}
