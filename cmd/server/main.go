package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"organmatch/internal/platform/config"
	"organmatch/internal/platform/httpserver"
	"organmatch/internal/platform/logger"
)

const shutdownTimeout = 10 * time.Second

// main wires dependencies, exposes the HTTP router and runs the outbox
// publisher alongside it. Business logic lives in the internal service packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("organmatch stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	infra, err := openInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer infra.Close()

	app, err := buildApp(cfg, log, infra)
	if err != nil {
		return err
	}
	srv := httpserver.New(cfg.Addr, newRouter(cfg, log, app, infra))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting organmatch",
			"addr", cfg.Addr,
			"store_backend", cfg.StoreBackend,
			"ledger_backend", cfg.LedgerBackend,
			"distributed_lock", infra.redis != nil,
			"publishing", app.publisher != nil,
		)
		err := httpserver.Serve(gctx, srv, shutdownTimeout)
		log.Info("http server stopped")
		return err
	})
	if app.publisher != nil {
		g.Go(func() error {
			return app.publisher.Run(gctx)
		})
	}
	return g.Wait()
}
