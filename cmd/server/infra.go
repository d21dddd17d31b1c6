package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/twmb/franz-go/pkg/kgo"

	"organmatch/internal/ledger/outbox"
	"organmatch/internal/ledger/store/sqlite"
	"organmatch/internal/platform/config"
	"organmatch/internal/platform/kafka"
	"organmatch/internal/platform/postgres"
	"organmatch/internal/platform/redis"
)

// infra holds the external connections selected by configuration. Any field
// may be nil when the matching backend is not configured.
type infra struct {
	pool    *pgxpool.Pool
	sqlDB   *sql.DB
	sqlite  *sqlite.Store
	redis   *redis.Client
	kafka   *kgo.Client
	outbox  *outbox.Outbox
	closers []func()
}

func openInfra(ctx context.Context, cfg config.Server, log *slog.Logger) (*infra, error) {
	in := &infra{}
	if err := in.open(ctx, cfg, log); err != nil {
		in.Close()
		return nil, err
	}
	return in, nil
}

func (in *infra) open(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	if cfg.StoreBackend == config.BackendPostgres || cfg.LedgerBackend == config.BackendPostgres {
		pool, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		in.pool = pool
		in.closers = append(in.closers, pool.Close)
		if err := postgres.Migrate(ctx, pool); err != nil {
			return err
		}
		log.Info("postgres connected")
	}

	switch cfg.LedgerBackend {
	case config.BackendPostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open ledger database: %w", err)
		}
		in.sqlDB = db
		in.closers = append(in.closers, func() { _ = db.Close() })
	case config.BackendSQLite:
		st, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return err
		}
		in.sqlite = st
		in.closers = append(in.closers, func() { _ = st.Close() })
		log.Info("sqlite ledger opened", "path", cfg.SQLitePath)
	}

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rc != nil {
		in.redis = rc
		in.closers = append(in.closers, func() { _ = rc.Close() })
		log.Info("redis connected, using distributed tenant lock")
	}

	kc, err := kafka.NewClient(cfg.Kafka)
	if err != nil {
		return err
	}
	if kc != nil {
		in.kafka = kc
		in.closers = append(in.closers, kc.Close)
		if err := kafka.EnsureTopic(ctx, kc, cfg.Kafka.Topic, 3, 1); err != nil {
			return err
		}
		ob, err := outbox.Open(cfg.Outbox.Dir)
		if err != nil {
			return err
		}
		in.outbox = ob
		in.closers = append(in.closers, func() { _ = ob.Close() })
		log.Info("ledger publication enabled", "topic", cfg.Kafka.Topic, "outbox_dir", cfg.Outbox.Dir)
	}
	return nil
}

// Close releases connections in reverse order of opening.
func (in *infra) Close() {
	for i := len(in.closers) - 1; i >= 0; i-- {
		in.closers[i]()
	}
	in.closers = nil
}

// health pings every configured dependency.
func (in *infra) health(ctx context.Context) map[string]error {
	checks := map[string]error{}
	if in.pool != nil {
		checks["postgres"] = in.pool.Ping(ctx)
	}
	if in.sqlDB != nil {
		checks["ledger_db"] = in.sqlDB.PingContext(ctx)
	}
	if in.redis != nil {
		checks["redis"] = in.redis.Health(ctx)
	}
	if in.kafka != nil {
		checks["kafka"] = in.kafka.Ping(ctx)
	}
	return checks
}
