package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/okian/termico/internal/domain/casestatus"
)

const defaultKeyPrefix = "termico:case:"

// NewRedisClient builds a client that never retries a failed command.
func NewRedisClient(addr, password string, db int, timeout time.Duration) *redis.Client {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MaxRetries:   -1,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})
}

// RedisStore keeps one JSON document per case at <prefix><case_code>.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore wraps client.
func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, prefix: defaultKeyPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(code string) string { return s.prefix + code }

// FindByCaseCode returns the record with the exact case code.
func (s *RedisStore) FindByCaseCode(ctx context.Context, code string) (rec casestatus.Record, err error) {
	defer func(start time.Time) { observe(storeRedis, "find", start, err) }(time.Now())

	data, err := s.client.Get(ctx, s.key(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return casestatus.Record{}, fmt.Errorf("%w: %s", casestatus.ErrNotFound, code)
	}
	if err != nil {
		return casestatus.Record{}, fmt.Errorf("get case %s: %w", code, err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return casestatus.Record{}, fmt.Errorf("%w: case %s: %w", ErrDecodeDocument, code, err)
	}
	if rec.DocumentsPresent == nil {
		rec.DocumentsPresent = []string{}
	}
	if rec.DocumentsMissing == nil {
		rec.DocumentsMissing = []string{}
	}
	return rec, nil
}

// Save inserts or replaces a record.
func (s *RedisStore) Save(ctx context.Context, rec casestatus.Record) (err error) {
	defer func(start time.Time) { observe(storeRedis, "save", start, err) }(time.Now())

	if strings.TrimSpace(rec.CaseCode) == "" {
		return fmt.Errorf("%w: empty case code", ErrInvalidRecord)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode case %s: %w", rec.CaseCode, err)
	}
	if err := s.client.Set(ctx, s.key(rec.CaseCode), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("set case %s: %w", rec.CaseCode, err)
	}
	return nil
}

// Ping checks server connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
