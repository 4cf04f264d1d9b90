package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"grantnet/internal/network/handler"
	"grantnet/internal/network/ports"
	"grantnet/internal/network/publisher"
	"grantnet/internal/network/store/board"
	"grantnet/internal/network/store/grants"
	"grantnet/internal/network/store/results"
	"grantnet/internal/platform/config"
	"grantnet/internal/platform/postgres"
	"grantnet/internal/platform/redis"
)

const minPurgeInterval = time.Minute

type expiredPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// dependencies are the storage and messaging clients behind the service.
type dependencies struct {
	db        *sql.DB
	redis     *redis.Client
	grants    ports.GrantStore
	board     ports.BoardStore
	cache     ports.ResultCache
	publisher *publisher.KafkaPublisher
	memory    *results.MemoryCache
	purger    expiredPurger
}

func openDependencies(ctx context.Context, cfg config.Config, log *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}
	ok := false
	defer func() {
		if !ok {
			deps.Close()
		}
	}()

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	deps.db = db
	if db != nil && cfg.Database.Migrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		log.Info("database migrations applied")
	}

	switch {
	case cfg.Fixture != "":
		fixture, err := grants.LoadFixture(cfg.Fixture)
		if err != nil {
			return nil, err
		}
		deps.grants = grants.NewInMemory(fixture.Grants...)
		deps.board = board.NewInMemory(fixture.Board...)
		log.Info("serving grants from fixture", "path", cfg.Fixture, "grants", len(fixture.Grants))
	case db != nil:
		deps.grants = grants.NewPostgres(db)
		deps.board = board.NewPostgres(db)
	default:
		return nil, fmt.Errorf("DATABASE_URL or GRANTNET_FIXTURE is required")
	}

	client, err := redis.Open(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	deps.redis = client

	switch cfg.Cache.Backend {
	case config.CacheMemory:
		mem, err := results.NewMemory(cfg.Cache.MaxEntries)
		if err != nil {
			return nil, fmt.Errorf("memory cache: %w", err)
		}
		deps.memory = mem
		deps.cache = mem
	case config.CacheRedis:
		deps.cache = results.NewRedis(client.Client)
	case config.CachePostgres:
		pg := results.NewPostgres(db)
		deps.cache = pg
		deps.purger = pg
	}

	if len(cfg.Kafka.Brokers) > 0 {
		pub, err := publisher.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic, publisher.WithLogger(log))
		if err != nil {
			return nil, err
		}
		deps.publisher = pub
	}

	ok = true
	return deps, nil
}

func (d *dependencies) healthChecks() []handler.Option {
	var opts []handler.Option
	if d.db != nil {
		opts = append(opts, handler.WithHealthCheck("postgres", d.db.PingContext))
	}
	if d.redis != nil {
		opts = append(opts, handler.WithHealthCheck("redis", d.redis.Health))
	}
	return opts
}

func (d *dependencies) Close() {
	if d.publisher != nil {
		d.publisher.Close()
	}
	if d.memory != nil {
		d.memory.Close()
	}
	if d.redis != nil {
		_ = d.redis.Close()
	}
	if d.db != nil {
		_ = d.db.Close()
	}
}

// purgeExpired deletes expired cache rows until ctx is done.
func purgeExpired(ctx context.Context, purger expiredPurger, ttl time.Duration, log *slog.Logger) {
	interval := max(ttl/4, minPurgeInterval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := purger.PurgeExpired(ctx)
			if err != nil {
				log.WarnContext(ctx, "cache purge failed", "error", err)
				continue
			}
			if n > 0 {
				log.InfoContext(ctx, "expired analyses purged", "count", n)
			}
		}
	}
}
