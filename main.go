package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RateMyJudge/RMJ-Backend/internal/config"
	"github.com/RateMyJudge/RMJ-Backend/internal/db"
	"github.com/RateMyJudge/RMJ-Backend/internal/judges"
	"github.com/RateMyJudge/RMJ-Backend/internal/live"
	"github.com/RateMyJudge/RMJ-Backend/internal/logging"
	"github.com/RateMyJudge/RMJ-Backend/internal/metrics"
	"github.com/RateMyJudge/RMJ-Backend/internal/middleware"
	"github.com/RateMyJudge/RMJ-Backend/internal/reviews"
	"github.com/RateMyJudge/RMJ-Backend/routes"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	gdb, err := db.Connect(cfg.DatabaseURL, logging.GORM(log, cfg.SQLLog))
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("database connected")

	if err := judges.Init(gdb); err != nil {
		return err
	}
	if err := reviews.Init(gdb); err != nil {
		return err
	}

	m := metrics.NewManager()
	hub := live.NewHub(m.LiveSubscribers)

	// With a channel every instance hears every write; without one, writes
	// wake only this process's subscribers.
	var (
		notifier live.Notifier = live.LocalNotifier{Hub: hub}
		listener *live.PGListener
	)
	if cfg.NotifyChannel != "" {
		notifier = live.PGNotifier{DB: gdb, Channel: cfg.NotifyChannel}
		listener = &live.PGListener{
			DSN:     cfg.DatabaseURL,
			Channel: cfg.NotifyChannel,
			Hub:     hub,
			Log:     log,
		}
	}

	proxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return err
	}

	dir := judges.NewDirectory(judges.NewGormStore(gdb), judges.NewCircuits(cfg.Circuits), log, m)
	ledger := reviews.NewLedger(reviews.NewGormStore(gdb), dir, notifier, log, m)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr: "0.0.0.0:" + cfg.Port,
		Handler: routes.SetupRoutes(routes.Deps{
			Config:    cfg,
			Directory: dir,
			Ledger:    ledger,
			Hub:       hub,
			Metrics:   m,
			Limiter:   middleware.NewClientLimiter(cfg.WriteRate, cfg.WriteBurst),
			Proxies:   proxies,
			Log:       log,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		// Live feeds end with the root context; Shutdown does not track
		// hijacked connections.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g.Go(func() error {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if listener != nil {
		g.Go(func() error {
			return listener.Run(ctx)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
