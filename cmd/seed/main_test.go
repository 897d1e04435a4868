package main

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/termico/internal/adapters/repository"
	"github.com/okian/termico/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestRun(t *testing.T) {
	convey.Convey("Given the seed command", t, func() {
		ctx := context.Background()

		convey.Convey("The memory store cannot be seeded", func() {
			err := run(ctx, config.StoreMemory)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("Postgres without a database URL fails fast", func() {
			t.Setenv("TERMICO_DATABASE_URL", "")
			err := run(ctx, config.StorePostgres)
			convey.So(errors.Is(err, repository.ErrEmptyDSN), convey.ShouldBeTrue)
		})

		convey.Convey("An unreachable redis fails on ping", func() {
			t.Setenv("TERMICO_REDIS_ADDR", "127.0.0.1:1")
			t.Setenv("TERMICO_REDIS_TIMEOUT_MS", "200")
			convey.So(run(ctx, config.StoreRedis), convey.ShouldNotBeNil)
		})
	})
}
