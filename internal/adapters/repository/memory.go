package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/okian/termico/internal/domain/casestatus"
	"github.com/okian/termico/pkg/metrics"
)

// MemoryStore is an in-process case store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]casestatus.Record
}

// NewMemoryStore returns a store holding recs.
func NewMemoryStore(recs ...casestatus.Record) *MemoryStore {
	s := &MemoryStore{records: make(map[string]casestatus.Record, len(recs))}
	for _, r := range recs {
		s.records[r.CaseCode] = cloneRecord(r)
	}
	metrics.UpdateStoreRecords(storeMemory, len(s.records))
	return s
}

// FindByCaseCode returns the record with the exact case code.
func (s *MemoryStore) FindByCaseCode(ctx context.Context, code string) (rec casestatus.Record, err error) {
	defer func(start time.Time) { observe(storeMemory, "find", start, err) }(time.Now())

	if err := ctx.Err(); err != nil {
		return casestatus.Record{}, err
	}
	s.mu.RLock()
	r, ok := s.records[code]
	s.mu.RUnlock()
	if !ok {
		return casestatus.Record{}, fmt.Errorf("%w: %s", casestatus.ErrNotFound, code)
	}
	return cloneRecord(r), nil
}

// Save inserts or replaces a record.
func (s *MemoryStore) Save(ctx context.Context, rec casestatus.Record) (err error) {
	defer func(start time.Time) { observe(storeMemory, "save", start, err) }(time.Now())

	if strings.TrimSpace(rec.CaseCode) == "" {
		return fmt.Errorf("%w: empty case code", ErrInvalidRecord)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.records[rec.CaseCode] = cloneRecord(rec)
	n := len(s.records)
	s.mu.Unlock()
	metrics.UpdateStoreRecords(storeMemory, n)
	return nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

func cloneRecord(r casestatus.Record) casestatus.Record {
	out := r
	out.DocumentsPresent = append([]string{}, r.DocumentsPresent...)
	out.DocumentsMissing = append([]string{}, r.DocumentsMissing...)
	return out
}
