package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/okian/termico/internal/domain/incentive"
	"github.com/okian/termico/internal/domain/model"
)

// classifyRequest mirrors the OpenAPI schema for POST /v1/classify.
type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Category model.Category `json:"category"`
}

// paramsRequest holds the optional technical parameters shared by the
// eligibility and estimate requests.
type paramsRequest struct {
	PowerKW        *float64 `json:"power_kw"`
	CertifiedCOP   *float64 `json:"certified_cop"`
	SurfaceM2      *float64 `json:"surface_m2"`
	ClimateZone    string   `json:"climate_zone"`
	Certifications []string `json:"certifications"`
}

func (p paramsRequest) validate() error {
	switch {
	case negative(p.PowerKW):
		return errors.New("power_kw must not be negative")
	case negative(p.CertifiedCOP):
		return errors.New("certified_cop must not be negative")
	case negative(p.SurfaceM2):
		return errors.New("surface_m2 must not be negative")
	}
	return nil
}

func (p paramsRequest) params() model.TechnicalParams {
	return model.TechnicalParams{
		PowerKW:        p.PowerKW,
		CertifiedCOP:   p.CertifiedCOP,
		SurfaceM2:      p.SurfaceM2,
		ClimateZone:    p.ClimateZone,
		Certifications: p.Certifications,
	}
}

func negative(v *float64) bool { return v != nil && *v < 0 }

// eligibilityRequest mirrors the OpenAPI schema for POST /v1/eligibility.
type eligibilityRequest struct {
	Intervention string `json:"intervention"`
	paramsRequest
}

// estimateRequest mirrors the OpenAPI schema for POST /v1/estimate.
type estimateRequest struct {
	Intervention  string `json:"intervention"`
	ApplicantType string `json:"applicant_type"`
	paramsRequest
}

// checklistRequest mirrors the OpenAPI schema for POST /v1/checklist.
type checklistRequest struct {
	Intervention    string `json:"intervention"`
	ApplicantType   string `json:"applicant_type"`
	AccessProcedure string `json:"access_procedure"`
}

// money renders a decimal amount as a JSON number with two decimals.
type money decimal.Decimal

func (m money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(m).StringFixed(2)), nil
}

func toMoney(d *decimal.Decimal) *money {
	if d == nil {
		return nil
	}
	m := money(*d)
	return &m
}

type estimateResponse struct {
	Category         model.Category      `json:"category"`
	ApplicantType    model.ApplicantType `json:"applicant_type"`
	AnnualAmount     *money              `json:"annual_amount"`
	TotalAmount      *money              `json:"total_amount"`
	DurationYears    int                 `json:"duration_years"`
	ComputationBasis string              `json:"computation_basis"`
	Caveat           string              `json:"caveat"`
	Warnings         []string            `json:"warnings"`
}

func newEstimateResponse(e incentive.Estimate) estimateResponse {
	warnings := e.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return estimateResponse{
		Category:         e.Category,
		ApplicantType:    e.ApplicantType,
		AnnualAmount:     toMoney(e.AnnualAmount),
		TotalAmount:      toMoney(e.TotalAmount),
		DurationYears:    e.DurationYears,
		ComputationBasis: e.ComputationBasis,
		Caveat:           e.Caveat,
		Warnings:         warnings,
	}
}

// EngineHandler serves the stateless rule engine endpoints.
type EngineHandler struct {
	deps Dependencies
}

// NewEngineHandler creates a new rule engine handler.
func NewEngineHandler(deps Dependencies) *EngineHandler {
	return &EngineHandler{deps: deps}
}

// HandleClassify handles POST /v1/classify requests.
func (h *EngineHandler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	const op = "api.classify"
	var req classifyRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeErr(w, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeErr(w, WrapKind(op, ErrBadRequest, errors.New("missing text")))
		return
	}
	writeJSON(w, http.StatusOK, classifyResponse{Category: h.deps.Classify(r.Context(), req.Text)})
}

// HandleEligibility handles POST /v1/eligibility requests.
func (h *EngineHandler) HandleEligibility(w http.ResponseWriter, r *http.Request) {
	const op = "api.eligibility"
	var req eligibilityRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeErr(w, err)
		return
	}
	if err := validateIntervention(req.Intervention, req.paramsRequest); err != nil {
		writeErr(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	v := h.deps.CheckEligibility(r.Context(), req.Intervention, req.params())
	writeJSON(w, http.StatusOK, v)
}

// HandleEstimate handles POST /v1/estimate requests.
func (h *EngineHandler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	const op = "api.estimate"
	var req estimateRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeErr(w, err)
		return
	}
	if err := validateIntervention(req.Intervention, req.paramsRequest); err != nil {
		writeErr(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	est, err := h.deps.EstimateIncentive(r.Context(), req.Intervention, req.params(), model.ParseApplicantType(req.ApplicantType))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newEstimateResponse(est))
}

// HandleChecklist handles POST /v1/checklist requests.
func (h *EngineHandler) HandleChecklist(w http.ResponseWriter, r *http.Request) {
	const op = "api.checklist"
	var req checklistRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeErr(w, err)
		return
	}
	if strings.TrimSpace(req.Intervention) == "" {
		writeErr(w, WrapKind(op, ErrBadRequest, errors.New("missing intervention")))
		return
	}
	res := h.deps.BuildChecklist(r.Context(), req.Intervention,
		model.ParseApplicantType(req.ApplicantType),
		model.ParseAccessProcedure(req.AccessProcedure),
	)
	writeJSON(w, http.StatusOK, res)
}

func validateIntervention(intervention string, p paramsRequest) error {
	if strings.TrimSpace(intervention) == "" {
		return errors.New("missing intervention")
	}
	return p.validate()
}
