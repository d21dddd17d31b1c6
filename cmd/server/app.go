package main

import (
	"log/slog"

	ledgerhandler "organmatch/internal/ledger/handler"
	ledgermetrics "organmatch/internal/ledger/metrics"
	"organmatch/internal/ledger/publisher"
	ledgerservice "organmatch/internal/ledger/service"
	ledgermemory "organmatch/internal/ledger/store/memory"
	ledgerpostgres "organmatch/internal/ledger/store/postgres"
	matchhandler "organmatch/internal/matching/handler"
	"organmatch/internal/matching/lock"
	matchmetrics "organmatch/internal/matching/metrics"
	matchservice "organmatch/internal/matching/service"
	matchstore "organmatch/internal/matching/store/match"
	"organmatch/internal/platform/config"
	"organmatch/internal/platform/postgres"
	registryhandler "organmatch/internal/registry/handler"
	registryservice "organmatch/internal/registry/service"
	"organmatch/internal/registry/store/donor"
	"organmatch/internal/registry/store/recipient"
)

type donorStore interface {
	matchservice.DonorRegistry
	registryservice.DonorStore
}

type recipientStore interface {
	matchservice.RecipientRegistry
	registryservice.RecipientStore
}

type app struct {
	matching  *matchhandler.Handler
	ledger    *ledgerhandler.Handler
	registry  *registryhandler.Handler
	publisher *publisher.Publisher
}

func buildApp(cfg config.Server, log *slog.Logger, in *infra) (*app, error) {
	var (
		donors     donorStore
		recipients recipientStore
		matches    matchservice.MatchStore
		engineOpts = []matchservice.Option{
			matchservice.WithLogger(log),
			matchservice.WithMetrics(matchmetrics.New()),
			matchservice.WithCommitTimeout(cfg.CommitTimeout),
		}
	)
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		donors = donor.NewPostgres(in.pool)
		recipients = recipient.NewPostgres(in.pool)
		matches = matchstore.NewPostgres(in.pool)
		engineOpts = append(engineOpts, matchservice.WithTx(postgres.NewTxRunner(in.pool)))
	default:
		donors = donor.NewInMemory()
		recipients = recipient.NewInMemory()
		matches = matchstore.NewInMemory()
	}

	if in.redis != nil {
		engineOpts = append(engineOpts, matchservice.WithLocker(
			lock.NewRedis(in.redis.Client, lock.WithTTL(cfg.Redis.LockTTL), lock.WithLogger(log)),
		))
	}

	var records ledgerservice.Store
	switch cfg.LedgerBackend {
	case config.BackendPostgres:
		records = ledgerpostgres.New(in.sqlDB)
	case config.BackendSQLite:
		records = in.sqlite
	default:
		records = ledgermemory.New()
	}

	lm := ledgermetrics.New()
	ledgerOpts := []ledgerservice.Option{
		ledgerservice.WithLogger(log),
		ledgerservice.WithMetrics(lm),
	}
	var pub *publisher.Publisher
	if in.outbox != nil {
		ledgerOpts = append(ledgerOpts, ledgerservice.WithOutbox(in.outbox))
		pub = publisher.New(in.kafka, in.outbox, cfg.Kafka.Topic,
			publisher.WithInterval(cfg.Outbox.PublishInterval),
			publisher.WithLogger(log),
			publisher.WithMetrics(lm),
		)
	}
	ledger := ledgerservice.New(records, ledgerOpts...)

	engine, err := matchservice.New(donors, recipients, matches, ledger, engineOpts...)
	if err != nil {
		return nil, err
	}
	registry := registryservice.New(donors, recipients, registryservice.WithLogger(log))

	return &app{
		matching:  matchhandler.New(engine, log),
		ledger:    ledgerhandler.New(ledger, log),
		registry:  registryhandler.New(registry, log),
		publisher: pub,
	}, nil
}
