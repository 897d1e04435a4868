// Command seed migrates a persistent case store and loads the sample cases.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/okian/termico/internal/adapters/repository"
	"github.com/okian/termico/internal/config"
	"github.com/okian/termico/internal/seed"
	"github.com/okian/termico/pkg/logger"
)

const runTimeout = 2 * time.Minute

func main() {
	store := flag.String("store", "", "Case store to seed: postgres or redis (default: TERMICO_CASE_STORE)")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if err := run(ctx, *store); err != nil {
		os.Stderr.WriteString("seed failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, store string) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		return err
	}
	log := logger.Named("seed")
	if store == "" {
		store = cfg.CaseStore
	}

	var (
		dst     seed.Saver
		closeFn func() error
	)
	switch store {
	case config.StorePostgres:
		opts := repository.DefaultMigrateOptions()
		opts.PingTimeout = cfg.DBPingTimeout()
		db, err := repository.OpenPostgres(ctx, cfg.DatabaseURL, opts)
		if err != nil {
			return err
		}
		if err := repository.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info(ctx, "migrations applied")
		pg := repository.NewPostgresStore(db)
		dst, closeFn = pg, pg.Close
	case config.StoreRedis:
		client := repository.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisTimeout())
		rs := repository.NewRedisStore(client, repository.WithKeyPrefix(cfg.RedisKeyPrefix))
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return err
		}
		dst, closeFn = rs, rs.Close
	default:
		return fmt.Errorf("%w: store %q cannot be seeded; use postgres or redis", config.ErrInvalidConfig, store)
	}
	defer func() { _ = closeFn() }()

	n, err := seed.Load(ctx, dst)
	if err != nil {
		return err
	}
	log.Info(ctx, "sample cases loaded", logger.String("store", store), logger.Int("count", n))
	return nil
}
