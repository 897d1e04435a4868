// Command loadcheck sends generated estimate requests to a running server and
// verifies every answer against the local rule engine.
package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/termico/internal/loadcheck"
	"github.com/okian/termico/pkg/logger"
)

// Default configuration constants.
const (
	defaultRequests = 2000
	defaultWorkers  = 2 // multiplier for runtime.NumCPU()
	defaultTimeout  = 10 * time.Second
	defaultRunLimit = 5 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		requests = flag.Int("requests", defaultRequests, "Number of estimate requests to send")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed     = flag.Uint64("seed", uint64(time.Now().UnixNano()), "Seed for the request generator")
		format   = flag.String("log-format", "text", "Log format: text or json")
		verbose  = flag.Bool("verbose", false, "Log every failed or mismatched request")
	)
	flag.Parse()

	if err := logger.Init(logger.WithFormat(*format)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunLimit)
	defer cancel()

	_, err := loadcheck.Run(ctx, &loadcheck.Config{
		BaseURL:  *baseURL,
		Requests: *requests,
		Workers:  *workers,
		Timeout:  *timeout,
		Seed:     *seed,
		Verbose:  *verbose,
	})
	if err != nil {
		logger.Get().Error(ctx, "load check failed", logger.Any("seed", *seed), logger.Error(err))
		cancel()
		os.Exit(1)
	}
}
