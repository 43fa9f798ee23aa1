// Package httpapi is the observer HTTP surface a node exposes alongside
// its UDP cluster traffic: health, Prometheus metrics, and a streaming
// status websocket. None of it participates in the election or
// assignment algorithms — it only reads Node state for operators and
// dashboards.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/liftctl/liftctl/internal/config"
	"github.com/liftctl/liftctl/internal/constants"
	"github.com/liftctl/liftctl/internal/domain"
	"github.com/liftctl/liftctl/internal/health"
)

// StatusSource is the subset of *node.Node the observer surface reads.
// Defined here rather than imported so this package has no dependency
// on node, which otherwise would own both the cluster wiring and the
// HTTP server.
type StatusSource interface {
	ID() domain.NodeID
	CurrentRole() domain.Role
	CurrentStatus() domain.Status
	PeerCount() int
}

// Server is the node's observer HTTP server.
type Server struct {
	cfg    *config.Config
	source StatusSource
	health *health.Service
	logger *slog.Logger

	httpServer *http.Server
	ws         *wsHub
}

// New builds a Server for source, registering the standard liveness
// checker plus one ComponentChecker per piece of cluster state worth
// surfacing at /health.
func New(cfg *config.Config, source StatusSource) *Server {
	logger := slog.With(slog.String("component", constants.ComponentHTTPServer))

	healthSvc := health.NewService(5 * time.Second)
	healthSvc.Register(health.NewLivenessChecker())
	healthSvc.Register(health.NewComponentChecker("peer_table", func(context.Context) (bool, string, map[string]interface{}) {
		n := source.PeerCount()
		return true, "peers visible", map[string]interface{}{"peer_count": n}
	}))
	healthSvc.Register(health.NewComponentChecker("role", func(context.Context) (bool, string, map[string]interface{}) {
		role := source.CurrentRole()
		return true, "role assigned", map[string]interface{}{"role": role.String()}
	}))

	s := &Server{
		cfg:    cfg,
		source: source,
		health: healthSvc,
		logger: logger,
		ws:     newWSHub(source, cfg.WebSocketPingInterval, logger),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(cfg.HealthPath, s.healthHandler)
	mux.HandleFunc("/status", s.statusHandler)
	if cfg.MetricsEnabled {
		mux.Handle(cfg.MetricsPath, promhttp.Handler())
	}
	if cfg.WebSocketEnabled {
		mux.HandleFunc(cfg.WebSocketPath, s.ws.handle)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      withCorrelation(logger, mux),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return s
}

// Start blocks, serving until Shutdown is called. It returns
// http.ErrServerClosed on a clean shutdown.
func (s *Server) Start() error {
	s.logger.Info("http observer server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server and closes tracked websocket
// connections, bounded by the configured shutdown grace period.
func (s *Server) Shutdown(ctx context.Context) error {
	s.ws.closeAll()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.HTTPShutdownGrace)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

type healthResponse struct {
	Status    health.Status                 `json:"status"`
	Timestamp time.Time                     `json:"timestamp"`
	Checks    map[string]health.CheckResult `json:"checks"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	overall, checks := s.health.Overall(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if overall == health.StatusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	resp := healthResponse{Status: overall, Timestamp: time.Now(), Checks: checks}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("failed to encode health response", slog.String("error", err.Error()))
	}
}

type statusResponse struct {
	NodeID domain.NodeID `json:"node_id"`
	Role   string        `json:"role"`
	Status domain.Status `json:"status"`
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		NodeID: s.source.ID(),
		Role:   s.source.CurrentRole().String(),
		Status: s.source.CurrentStatus(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("failed to encode status response", slog.String("error", err.Error()))
	}
}
