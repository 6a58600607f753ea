package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dialmate-ai/dialmate/pkg/gateway/config"
)

type HealthHandler struct{}

func (h HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type ReadyHandler struct {
	Config config.Config
	// Ledger is nil when the in-memory request ledger is in use.
	Ledger Pinger
}

func (h ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	type readyResp struct {
		OK                  bool     `json:"ok"`
		LiveModelConfigured bool     `json:"live_model_configured"`
		RequestLedger       string   `json:"request_ledger"`
		Issues              []string `json:"issues,omitempty"`
	}

	issues := make([]string, 0, 4)

	if h.Config.LiveMaxAudioFrameBytes <= 0 {
		issues = append(issues, "live max audio frame bytes must be > 0")
	}
	if h.Config.LiveMaxJSONMessageBytes <= 0 {
		issues = append(issues, "live max json message bytes must be > 0")
	}
	if h.Config.LiveHandshakeTimeout <= 0 || h.Config.LiveWSWriteTimeout <= 0 || h.Config.LiveWSPingInterval <= 0 {
		issues = append(issues, "live timeouts must be > 0")
	}
	if h.Config.ReadHeaderTimeout <= 0 {
		issues = append(issues, "read header timeout must be > 0")
	}

	ledger := "memory"
	if h.Ledger != nil {
		ledger = "postgres"
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.Ledger.Ping(ctx); err != nil {
			issues = append(issues, "request ledger unreachable")
		}
	}

	ok := len(issues) == 0
	status := http.StatusOK
	if !ok {
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(readyResp{
		OK:                  ok,
		LiveModelConfigured: h.Config.GeminiAPIKey != "",
		RequestLedger:       ledger,
		Issues:              issues,
	})
}
