package api

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/termico/pkg/metrics"
)

const healthPingTimeout = 2 * time.Second

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	store Pinger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

type healthResponse struct {
	Status    string `json:"status"`
	CaseStore string `json:"case_store"`
}

// HandleHealth handles GET /healthz requests. The rule engine works without
// the case store, so an unreachable store degrades the report but still
// answers 200.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", CaseStore: "ok"}
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()
	if h.store == nil || h.store.Ping(ctx) != nil {
		resp.Status = "degraded"
		resp.CaseStore = "unavailable"
	}
	writeJSON(w, http.StatusOK, resp)
}

// MetricsHandler serves the private Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
