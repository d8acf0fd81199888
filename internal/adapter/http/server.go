package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/flood-elevation-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxRequestBytes = 1 << 20

// Evaluator prices a single evaluation request synchronously.
type Evaluator interface {
	Evaluate(ctx context.Context, req domain.EvaluationRequest) (domain.EvaluationResult, error)
}

// Server exposes health, readiness, metrics and synchronous evaluation endpoints.
type Server struct {
	httpServer *http.Server
	evaluator  Evaluator
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and
// POST /v1/evaluations routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, evaluator Evaluator, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:        addr,
			Handler:     mux,
			ReadTimeout: 10 * time.Second,
			// Large sweeps take a while; leave room for them to finish.
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		evaluator: evaluator,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /v1/evaluations", s.handleEvaluate)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req domain.EvaluationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	result, err := s.evaluator.Evaluate(r.Context(), req)
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		s.logger.Error("evaluation failed", "request_id", req.ID, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	sharedobs.WriteJSON(w, http.StatusOK, result)
}

func writeError(w http.ResponseWriter, status int, err error) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}
