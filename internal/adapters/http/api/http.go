// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/okian/termico/internal/domain/casestatus"
	"github.com/okian/termico/internal/domain/checklist"
	"github.com/okian/termico/internal/domain/eligibility"
	"github.com/okian/termico/internal/domain/incentive"
	"github.com/okian/termico/internal/domain/model"
)

// maxBodyBytes caps request bodies. Every request fits in a few hundred bytes.
const maxBodyBytes = 64 << 10

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Classify(ctx context.Context, text string) model.Category
	CheckEligibility(ctx context.Context, intervention string, params model.TechnicalParams) eligibility.Verdict
	EstimateIncentive(ctx context.Context, intervention string, params model.TechnicalParams, applicant model.ApplicantType) (incentive.Estimate, error)
	BuildChecklist(ctx context.Context, intervention string, applicant model.ApplicantType, procedure model.AccessProcedure) checklist.Result
	CaseStatus(ctx context.Context, code string) (casestatus.Summary, error)

	// Ping reports whether the case store is reachable.
	Ping(ctx context.Context) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	engineHandler *EngineHandler
	casesHandler  *CasesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(deps),
		statsHandler:  NewStatsHandler(statsProvider),
		engineHandler: NewEngineHandler(deps),
		casesHandler:  NewCasesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/classify", MetricsMiddleware(s.engineHandler.HandleClassify, "classify"))
	mux.HandleFunc("POST /v1/eligibility", MetricsMiddleware(s.engineHandler.HandleEligibility, "eligibility"))
	mux.HandleFunc("POST /v1/estimate", MetricsMiddleware(s.engineHandler.HandleEstimate, "estimate"))
	mux.HandleFunc("POST /v1/checklist", MetricsMiddleware(s.engineHandler.HandleChecklist, "checklist"))
	mux.HandleFunc("GET /v1/cases/{case_code}", MetricsMiddleware(s.casesHandler.HandleGetCase, "cases"))

	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.Handle("GET /metrics", MetricsHandler())
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeJSON reads a single JSON object from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, op string, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return WrapKind(op, ErrBodyTooLarge, err)
		}
		return WrapKind(op, ErrBadRequest, err)
	}
	return nil
}
