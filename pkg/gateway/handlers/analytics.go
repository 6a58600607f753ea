package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dialmate-ai/dialmate/pkg/agent/analytics"
)

// AnalyticsHandler serves the business-level dashboard snapshot. Raw counters
// are on /metrics in Prometheus exposition format.
type AnalyticsHandler struct {
	Tracker *analytics.Tracker
}

func (h AnalyticsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(h.Tracker.GetMetrics())
}
