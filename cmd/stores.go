package main

import (
	"context"
	"fmt"

	"github.com/okian/termico/internal/adapters/repository"
	service "github.com/okian/termico/internal/app"
	"github.com/okian/termico/internal/config"
	"github.com/okian/termico/internal/seed"
)

// openCaseStore builds the case store selected by cfg. Postgres is migrated
// on open; the memory store is seeded with the sample cases when enabled.
func openCaseStore(ctx context.Context, cfg *config.Config) (service.CaseStore, error) {
	switch cfg.CaseStore {
	case config.StoreMemory:
		mem := repository.NewMemoryStore()
		if cfg.SeedSampleCases {
			if _, err := seed.Load(ctx, mem); err != nil {
				return nil, err
			}
		}
		return mem, nil

	case config.StorePostgres:
		opts := repository.DefaultServerOptions()
		opts.MaxOpenConns = cfg.DBMaxOpenConns
		opts.MaxIdleConns = cfg.DBMaxIdleConns
		opts.PingTimeout = cfg.DBPingTimeout()
		db, err := repository.OpenPostgres(ctx, cfg.DatabaseURL, opts)
		if err != nil {
			return nil, err
		}
		if err := repository.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return repository.NewPostgresStore(db), nil

	case config.StoreRedis:
		client := repository.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisTimeout())
		return repository.NewRedisStore(client, repository.WithKeyPrefix(cfg.RedisKeyPrefix)), nil

	default:
		return nil, fmt.Errorf("%w: unknown case_store %q", config.ErrInvalidConfig, cfg.CaseStore)
	}
}
