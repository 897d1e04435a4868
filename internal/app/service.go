// Package service wires the rule engine components behind the operations
// the HTTP API exposes.
package service

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/termico/internal/domain/casestatus"
	"github.com/okian/termico/internal/domain/checklist"
	"github.com/okian/termico/internal/domain/classify"
	"github.com/okian/termico/internal/domain/eligibility"
	"github.com/okian/termico/internal/domain/incentive"
	"github.com/okian/termico/internal/domain/model"
	"github.com/okian/termico/internal/domain/refdata"
	"github.com/okian/termico/pkg/logger"
	"github.com/okian/termico/pkg/metrics"
)

// CaseStore is the record store the service reads case status from.
type CaseStore interface {
	casestatus.Store
	Ping(ctx context.Context) error
	Close() error
}

// Service implements the API dependencies for the rule engine.
type Service struct {
	mu sync.RWMutex

	ref       *refdata.Table
	evaluator *eligibility.Evaluator
	estimator *incentive.Estimator
	builder   *checklist.Builder
	lookup    *casestatus.Lookup
	store     CaseStore
	storeKind string

	started   bool
	startedAt time.Time

	classified  atomic.Int64
	evaluations atomic.Int64
	estimates   atomic.Int64
	checklists  atomic.Int64
	lookups     atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithReferenceTable sets the rate and document tables. Defaults to the
// embedded table.
func WithReferenceTable(t *refdata.Table) Option {
	return func(s *Service) {
		if t != nil {
			s.ref = t
		}
	}
}

// WithCaseStore sets the case record store and the name reported in stats.
func WithCaseStore(kind string, store CaseStore) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
			s.storeKind = kind
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Without WithCaseStore, case lookups report the
// store as unavailable. Without WithLogger it logs through logger.Named, which
// drops records if logger.Init has not run yet.
func New(opts ...Option) *Service {
	s := &Service{
		ref:       refdata.Default(),
		storeKind: "none",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}

	s.evaluator = eligibility.New(s.ref)
	s.estimator = incentive.New(s.ref)
	s.builder = checklist.New(s.ref)
	s.lookup = casestatus.New(s.store)
	return s
}

// Start checks the case store once and marks the service ready. A store
// that cannot be reached is logged but does not prevent startup.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.store != nil {
		if err := s.store.Ping(ctx); err != nil {
			s.logger.Warn(ctx, "case store not reachable at startup",
				logger.String("store", s.storeKind), logger.Error(err))
		}
	}
	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "rule engine started",
		logger.String("reference_version", s.ref.Version()),
		logger.String("case_store", s.storeKind),
	)
	return nil
}

// Close releases the case store.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.started = false
	s.logger.Info(context.Background(), "rule engine stopped")
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// ResolveCategory accepts either a category code or a free-text description.
func (s *Service) ResolveCategory(intervention string) model.Category {
	if c, ok := model.ParseCategory(intervention); ok {
		return c
	}
	return classify.Classify(intervention)
}

// Classify maps free text to a category.
func (s *Service) Classify(ctx context.Context, text string) model.Category {
	c := classify.Classify(text)
	s.classified.Add(1)
	metrics.RecordClassification(c.String())
	s.logger.Debug(ctx, "classified intervention", logger.String("category", c.String()))
	return c
}

// CheckEligibility evaluates an intervention against the admissibility rules.
func (s *Service) CheckEligibility(ctx context.Context, intervention string, params model.TechnicalParams) eligibility.Verdict {
	c := s.ResolveCategory(intervention)
	v := s.evaluator.Evaluate(c, params)
	s.evaluations.Add(1)
	metrics.RecordEligibility(v.Category.String(), v.Admissible.String())
	s.logger.Debug(ctx, "evaluated eligibility",
		logger.String("category", v.Category.String()),
		logger.String("admissible", v.Admissible.String()),
		logger.Int("missing_requirements", len(v.MissingRequirements)),
	)
	return v
}

// EstimateIncentive computes the indicative incentive for an intervention.
func (s *Service) EstimateIncentive(ctx context.Context, intervention string, params model.TechnicalParams, applicant model.ApplicantType) (incentive.Estimate, error) {
	c := s.ResolveCategory(intervention)
	est, err := s.estimator.Estimate(c, params, applicant)
	s.estimates.Add(1)
	switch {
	case errors.Is(err, incentive.ErrUnrecognizedCategory):
		metrics.RecordEstimate(c.String(), metrics.OutcomeUnrecognized)
		s.logger.Debug(ctx, "no rate for category", logger.String("category", c.String()))
		return incentive.Estimate{}, err
	case err != nil:
		return incentive.Estimate{}, err
	case est.Computed():
		metrics.RecordEstimate(c.String(), metrics.OutcomeComputed)
	default:
		metrics.RecordEstimate(c.String(), metrics.OutcomePartial)
	}
	s.logger.Debug(ctx, "estimated incentive",
		logger.String("category", c.String()),
		logger.String("applicant_type", string(applicant)),
		logger.Bool("computed", est.Computed()),
	)
	return est, nil
}

// BuildChecklist lists the documents required for an intervention.
func (s *Service) BuildChecklist(ctx context.Context, intervention string, applicant model.ApplicantType, procedure model.AccessProcedure) checklist.Result {
	c := s.ResolveCategory(intervention)
	r := s.builder.Build(c, applicant, procedure)
	s.checklists.Add(1)
	metrics.RecordChecklist(c.String(), string(applicant), string(procedure))
	s.logger.Debug(ctx, "built checklist",
		logger.String("category", c.String()),
		logger.Int("total_documents", r.TotalDocuments),
	)
	return r
}

// CaseStatus looks up a filed case.
func (s *Service) CaseStatus(ctx context.Context, code string) (casestatus.Summary, error) {
	start := time.Now()
	sum, err := s.lookup.Lookup(ctx, code)
	s.lookups.Add(1)
	switch {
	case errors.Is(err, casestatus.ErrNotFound):
		metrics.RecordCaseLookup(metrics.OutcomeNotFound)
		s.logger.Info(ctx, "case not found", logger.String("case_code", code))
	case err != nil:
		metrics.RecordCaseLookup(metrics.OutcomeUnavailable)
		s.logger.Error(ctx, "case store unavailable",
			logger.String("case_code", code),
			logger.String("store", s.storeKind),
			logger.Duration("elapsed", time.Since(start)),
			logger.Error(err),
		)
	default:
		metrics.RecordCaseLookup(metrics.OutcomeFound)
		s.logger.Info(ctx, "case found",
			logger.String("case_code", sum.CaseCode),
			logger.String("status", sum.Status),
			logger.Int("missing_documents", len(sum.MissingDocuments)),
		)
	}
	return sum, err
}

// Ping reports whether the case store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	if s.store == nil {
		return casestatus.ErrStoreUnavailable
	}
	return s.store.Ping(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	goroutines := runtime.NumGoroutine()
	metrics.UpdateSystemMemoryUsage(mem.Alloc)
	metrics.UpdateSystemGoroutineCount(goroutines)

	stats := map[string]interface{}{
		"started":           s.started,
		"referenceVersion":  s.ref.Version(),
		"caseStore":         s.storeKind,
		"classifications":   s.classified.Load(),
		"eligibilityChecks": s.evaluations.Load(),
		"estimates":         s.estimates.Load(),
		"checklists":        s.checklists.Load(),
		"caseLookups":       s.lookups.Load(),
		"goroutines":        goroutines,
	}
	if s.started {
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
	}
	return stats
}
