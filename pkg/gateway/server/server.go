// Package server wires the agent core behind the gateway's HTTP surface.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dialmate-ai/dialmate/pkg/agent/analytics"
	"github.com/dialmate-ai/dialmate/pkg/agent/catalog"
	"github.com/dialmate-ai/dialmate/pkg/agent/intent"
	"github.com/dialmate-ai/dialmate/pkg/agent/session"
	"github.com/dialmate-ai/dialmate/pkg/agent/sim"
	"github.com/dialmate-ai/dialmate/pkg/agent/store"
	"github.com/dialmate-ai/dialmate/pkg/agent/tools"
	"github.com/dialmate-ai/dialmate/pkg/gateway/config"
	"github.com/dialmate-ai/dialmate/pkg/gateway/handlers"
	"github.com/dialmate-ai/dialmate/pkg/gateway/live/bridge"
	livesessions "github.com/dialmate-ai/dialmate/pkg/gateway/live/sessions"
	"github.com/dialmate-ai/dialmate/pkg/gateway/mw"
)

// Deps are the swappable edges of the server. Zero values get sensible
// defaults: a memory request ledger, a Gemini dialer when an API key is
// configured, a seeded randomness source, and a fresh Prometheus registry.
type Deps struct {
	Requests store.RequestLedger
	Dialer   bridge.ModelDialer
	Rand     sim.Rand
	Registry *prometheus.Registry
}

type Server struct {
	cfg    config.Config
	logger *slog.Logger
	mux    *http.ServeMux

	catalog   *catalog.Catalog
	sessions  *session.Manager
	carts     store.CartLedger
	requests  store.RequestLedger
	analytics *analytics.Tracker
	intents   *intent.Classifier
	strategy  *intent.Selector
	tools     *tools.Registry
	tracker   *livesessions.Tracker
	live      *bridge.Bridge
	registry  *prometheus.Registry
}

func New(cfg config.Config, logger *slog.Logger, deps Deps) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	rnd := deps.Rand
	if rnd == nil {
		seed := cfg.RandomSeed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		rnd = sim.NewSeeded(seed)
	}

	requests := deps.Requests
	if requests == nil {
		requests = store.NewMemoryRequests()
	}

	s := &Server{
		cfg:       cfg,
		logger:    logger,
		mux:       http.NewServeMux(),
		catalog:   catalog.New(),
		sessions:  session.NewManager(),
		carts:     store.NewMemoryCarts(),
		requests:  requests,
		analytics: analytics.NewTracker(registry),
		tracker:   livesessions.NewTracker(),
		registry:  registry,
	}
	s.intents = intent.NewClassifier(s.sessions)
	s.strategy = intent.NewSelector(s.sessions, s.catalog)
	s.tools = tools.NewRegistry(tools.Deps{
		Catalog:   s.catalog,
		Sessions:  s.sessions,
		Carts:     s.carts,
		Requests:  s.requests,
		Analytics: s.analytics,
		Rand:      rnd,
		Logger:    logger,
	})

	dialer := deps.Dialer
	if dialer == nil && cfg.GeminiAPIKey != "" {
		dialer = bridge.NewGeminiDialer(bridge.GeminiConfig{
			APIKey:       cfg.GeminiAPIKey,
			Model:        cfg.Model,
			Voice:        cfg.Voice,
			Declarations: s.tools.Declarations(),
		}, logger)
	}
	s.live = bridge.New(bridge.Config{
		MaxJSONMessageBytes: cfg.LiveMaxJSONMessageBytes,
		MaxAudioFrameBytes:  cfg.LiveMaxAudioFrameBytes,
		HandshakeTimeout:    cfg.LiveHandshakeTimeout,
		WriteTimeout:        cfg.LiveWSWriteTimeout,
		PingInterval:        cfg.LiveWSPingInterval,
	}, bridge.Deps{
		Dialer:    dialer,
		Sessions:  s.sessions,
		Intents:   s.intents,
		Strategy:  s.strategy,
		Tools:     s.tools,
		Analytics: s.analytics,
		Tracker:   s.tracker,
		Logger:    logger,
	})

	s.routes()
	return s
}

func (s *Server) routes() {
	var ledgerPinger handlers.Pinger
	if p, ok := s.requests.(handlers.Pinger); ok {
		ledgerPinger = p
	}

	s.mux.Handle("/healthz", handlers.HealthHandler{})
	s.mux.Handle("/readyz", handlers.ReadyHandler{Config: s.cfg, Ledger: ledgerPinger})
	s.mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	s.mux.Handle("GET /v1/analytics", handlers.AnalyticsHandler{Tracker: s.analytics})
	s.mux.Handle("GET /v1/sessions/{id}", handlers.SessionHandler{Sessions: s.sessions})
	s.mux.Handle("POST /v1/sessions/{id}/channel", handlers.SwitchChannelHandler{Sessions: s.sessions})
	s.mux.Handle("POST /v1/sessions/{id}/turns", handlers.TurnHandler{
		Sessions: s.sessions,
		Intents:  s.intents,
		Strategy: s.strategy,
	})

	s.mux.Handle("/v1/live", s.live)

	s.mux.Handle("/", handlers.NotFoundHandler{})
}

// WarnLiveSessionsDraining tells every live conversation the gateway is
// shutting down.
func (s *Server) WarnLiveSessionsDraining() int {
	return s.tracker.WarnAll("draining", "server is shutting down, please wrap up")
}

// WaitLiveSessions blocks until live conversations finish or ctx expires.
func (s *Server) WaitLiveSessions(ctx context.Context) bool {
	return s.tracker.Wait(ctx)
}

// CancelLiveSessions force-closes any live conversations still connected.
func (s *Server) CancelLiveSessions() int {
	return s.tracker.CancelAll()
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = mw.CORS(s.cfg, h)
	h = mw.Recover(s.logger, h)
	h = mw.AccessLog(s.logger, h)
	h = mw.RequestID(h)
	return h
}
