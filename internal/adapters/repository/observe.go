package repository

import (
	"errors"
	"time"

	"github.com/okian/termico/internal/domain/casestatus"
	"github.com/okian/termico/pkg/metrics"
)

// Store labels.
const (
	storeMemory   = "memory"
	storePostgres = "postgres"
	storeRedis    = "redis"
)

// observe records latency for one store operation and counts failures.
// Not-found is an answer, not a failure.
func observe(store, op string, start time.Time, err error) {
	metrics.RecordStoreLatency(store, op, float64(time.Since(start).Microseconds())/1000.0)
	if err != nil && !errors.Is(err, casestatus.ErrNotFound) {
		metrics.RecordStoreError(store, op)
	}
}
