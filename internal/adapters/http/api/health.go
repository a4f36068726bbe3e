package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scorecast/scorecast/pkg/metrics"
)

// HealthHandler serves liveness checks and the Prometheus scrape
// endpoint.
type HealthHandler struct {
	promHandler http.Handler
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		promHandler: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// HandleHealth reports liveness.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleMetrics exposes the Prometheus registry.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}
