package main

import (
	"context"
	"fmt"

	"github.com/RateMyJudge/RMJ-Backend/internal/config"
	"github.com/RateMyJudge/RMJ-Backend/internal/db"
	"github.com/RateMyJudge/RMJ-Backend/internal/judges"
	"github.com/RateMyJudge/RMJ-Backend/internal/live"
	"github.com/RateMyJudge/RMJ-Backend/internal/logging"
	"github.com/RateMyJudge/RMJ-Backend/internal/reviews"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

type services struct {
	cfg    *config.Config
	dir    *judges.Directory
	ledger *reviews.Ledger
	log    *zap.Logger
}

// withServices connects to Postgres, migrates, and hands fn the same
// Directory and Ledger the API uses.
func withServices(fn func(s *services) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	gdb, err := db.Connect(cfg.DatabaseURL, logging.GORM(log, cfg.SQLLog))
	if err != nil {
		return err
	}
	defer db.Close()

	if err := judges.Init(gdb); err != nil {
		return err
	}
	if err := reviews.Init(gdb); err != nil {
		return err
	}

	// Running servers refresh live views when they see the notification.
	var notifier live.Notifier
	if cfg.NotifyChannel != "" {
		notifier = live.PGNotifier{DB: gdb, Channel: cfg.NotifyChannel}
	}

	dir := judges.NewDirectory(judges.NewGormStore(gdb), judges.NewCircuits(cfg.Circuits), log, nil)
	ledger := reviews.NewLedger(reviews.NewGormStore(gdb), dir, notifier, log, nil)

	return fn(&services{cfg: cfg, dir: dir, ledger: ledger, log: log})
}

// existingJudges reads the directory without migrating or writing anything.
func existingJudges(ctx context.Context, cfg *config.Config) ([]judges.Judge, error) {
	gdb, err := db.Connect(cfg.DatabaseURL, gormlogger.Discard)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return judges.NewGormStore(gdb).List(ctx)
}

// memServices backs a dry run: the same validation against throwaway stores
// preloaded with existing, so judges already in the directory count as skipped.
func memServices(circuits []string, existing []judges.Judge) (*services, error) {
	store := judges.NewMemStore()
	for i := range existing {
		j := existing[i]
		if err := store.Insert(context.Background(), &j); err != nil {
			return nil, fmt.Errorf("preloading %s: %w", j.Slug, err)
		}
	}
	dir := judges.NewDirectory(store, judges.NewCircuits(circuits), nil, nil)
	return &services{
		cfg:    config.New(),
		dir:    dir,
		ledger: reviews.NewLedger(reviews.NewMemStore(), dir, nil, nil, nil),
		log:    zap.NewNop(),
	}, nil
}
