package api

import (
	"net/http"
	"strings"
)

// CasesHandler serves filed case lookups.
type CasesHandler struct {
	deps Dependencies
}

// NewCasesHandler creates a new case lookup handler.
func NewCasesHandler(deps Dependencies) *CasesHandler {
	return &CasesHandler{deps: deps}
}

// HandleGetCase handles GET /v1/cases/{case_code} requests.
func (h *CasesHandler) HandleGetCase(w http.ResponseWriter, r *http.Request) {
	const op = "api.cases"
	code := strings.TrimSpace(r.PathValue("case_code"))
	if code == "" {
		writeErr(w, NewKind(op, ErrBadRequest))
		return
	}
	sum, err := h.deps.CaseStatus(r.Context(), code)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
