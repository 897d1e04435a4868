package loadcheck

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/termico/pkg/logger"
)

// ErrUnhealthy is returned when the health check fails.
var ErrUnhealthy = errors.New("service unhealthy")

// percent converts a ratio to a percentage.
const percent = 100

// Run executes a complete load check and returns its statistics. It fails
// when the service is unhealthy or any response disagrees with the local
// engine.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	log := logger.Named("loadcheck")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting load check",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("requests", cfg.Requests),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
	)

	client := newHTTPClient(cfg.Timeout)
	if err := checkServiceHealth(ctx, client, cfg.BaseURL); err != nil {
		return stats, err
	}

	probes := Generate(cfg.Requests, cfg.Seed)
	stats.Generated = len(probes)

	submit(ctx, log, cfg, client, NewVerifier(), probes, stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)

	if stats.Mismatched > 0 || stats.Failed > 0 {
		return stats, fmt.Errorf("%w: %d mismatched, %d failed", ErrMismatch, stats.Mismatched, stats.Failed)
	}
	return stats, nil
}

func checkServiceHealth(ctx context.Context, client *HTTPClient, baseURL string) error {
	status, _, err := client.Get(ctx, baseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if status != 200 {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, status)
	}
	return nil
}

// submit fans probes out to cfg.Workers workers and verifies each answer.
func submit(ctx context.Context, log logger.Logger, cfg *Config, client *HTTPClient, v *Verifier, probes []Probe, stats *Stats) {
	var sent, matched, mismatched, failed int64

	workers := max(cfg.Workers, 1)
	probeChan := make(chan Probe, workers*2)
	url := cfg.BaseURL + "/v1/estimate"

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range probeChan {
				status, body, err := client.Post(ctx, url, p.ID, p)
				atomic.AddInt64(&sent, 1)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					if cfg.Verbose {
						log.Warn(ctx, "request failed", logger.String("request_id", p.ID), logger.Error(err))
					}
					continue
				}
				if err := v.Verify(p, status, body); err != nil {
					atomic.AddInt64(&mismatched, 1)
					if cfg.Verbose {
						log.Warn(ctx, "response mismatch", logger.String("request_id", p.ID), logger.Error(err))
					}
					continue
				}
				atomic.AddInt64(&matched, 1)
			}
		}()
	}

	go func() {
		defer close(probeChan)
		for _, p := range probes {
			select {
			case <-ctx.Done():
				return
			case probeChan <- p:
			}
		}
	}()

	wg.Wait()

	stats.Sent = int(atomic.LoadInt64(&sent))
	stats.Matched = int(atomic.LoadInt64(&matched))
	stats.Mismatched = int(atomic.LoadInt64(&mismatched))
	stats.Failed = int(atomic.LoadInt64(&failed))
}

func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var matchRate, perSecond float64
	if stats.Sent > 0 {
		matchRate = float64(stats.Matched) / float64(stats.Sent) * percent
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.Sent) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("sent", stats.Sent),
		logger.Int("matched", stats.Matched),
		logger.Int("mismatched", stats.Mismatched),
		logger.Int("failed", stats.Failed),
		logger.Duration("duration", stats.Duration),
		logger.Float64("matchRate", matchRate),
		logger.Float64("requestsPerSecond", perSecond),
	)
}
